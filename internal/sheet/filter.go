package sheet

import (
	"math"
	"strings"

	"questsheet/api/internal/store"
)

// Filter describes the derived view: a case-insensitive substring query over
// question titles, descriptions and tags, plus exact-match attribute filters.
// An empty value or "all" means no constraint.
type Filter struct {
	Query      string
	Difficulty string
	Status     string
	SubTopicID string
}

func (f Filter) query() string {
	return strings.ToLower(strings.TrimSpace(f.Query))
}

func (f Filter) difficultyActive() bool {
	return f.Difficulty != "" && f.Difficulty != "all"
}

func (f Filter) statusActive() bool {
	return f.Status != "" && f.Status != "all"
}

func (f Filter) attrActive() bool {
	return f.difficultyActive() || f.statusActive()
}

func (f Filter) active() bool {
	return f.query() != "" || f.attrActive() || f.SubTopicID != ""
}

type SubTopicView struct {
	store.SubTopic
	Questions []store.Question `json:"questions"`
}

type TopicView struct {
	store.Topic
	SubTopics []SubTopicView `json:"subTopics"`
}

type Progress struct {
	TotalTopics    int     `json:"totalTopics"`
	TotalSubTopics int     `json:"totalSubTopics"`
	TotalQuestions int     `json:"totalQuestions"`
	Completed      int     `json:"completed"`
	Todo           int     `json:"todo"`
	Revising       int     `json:"revising"`
	CompletionRate float64 `json:"completionRate"`
}

// Tree derives the filtered nested view, fully recomputed from current state.
// Questions are filtered first; SubTopics survive through a surviving
// Question, Topics through a surviving SubTopic. With a text query (and no
// attribute filter) a container also survives when the query matches its own
// title or description.
func (s *Sheet) Tree(f Filter) []TopicView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keepAll := !f.active()
	textOnly := f.query() != "" && !f.attrActive()

	view := make([]TopicView, 0, len(s.topicOrder))
	for _, tid := range s.topicOrder {
		topic := s.topics[tid]

		subViews := make([]SubTopicView, 0, len(s.subTopicOrder[tid]))
		for _, sid := range s.subTopicOrder[tid] {
			sub := s.subTopics[sid]

			questions := make([]store.Question, 0, len(s.questionOrder[sid]))
			for _, qid := range s.questionOrder[sid] {
				if q := s.questions[qid]; keepAll || f.matchesQuestion(q) {
					questions = append(questions, q)
				}
			}

			if keepAll || len(questions) > 0 || (textOnly && textMatches(f.query(), sub.Title, sub.Description)) {
				subViews = append(subViews, SubTopicView{SubTopic: sub, Questions: questions})
			}
		}

		if keepAll || len(subViews) > 0 || (textOnly && textMatches(f.query(), topic.Title, topic.Description)) {
			view = append(view, TopicView{Topic: topic, SubTopics: subViews})
		}
	}
	return view
}

// Questions derives the flat filtered question list in display order.
func (s *Sheet) Questions(f Filter) []store.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions := make([]store.Question, 0, len(s.questions))
	for _, tid := range s.topicOrder {
		for _, sid := range s.subTopicOrder[tid] {
			if f.SubTopicID != "" && f.SubTopicID != sid {
				continue
			}
			for _, qid := range s.questionOrder[sid] {
				if q := s.questions[qid]; f.matchesQuestion(q) {
					questions = append(questions, q)
				}
			}
		}
	}
	return questions
}

func (s *Sheet) Progress() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := Progress{
		TotalTopics:    len(s.topics),
		TotalSubTopics: len(s.subTopics),
		TotalQuestions: len(s.questions),
	}
	for _, q := range s.questions {
		switch q.Status {
		case store.StatusDone:
			p.Completed++
		case store.StatusRevising:
			p.Revising++
		default:
			p.Todo++
		}
	}
	if p.TotalQuestions > 0 {
		p.CompletionRate = math.Round(float64(p.Completed) / float64(p.TotalQuestions) * 100)
	}
	return p
}

func (f Filter) matchesQuestion(q store.Question) bool {
	if f.difficultyActive() && q.Difficulty != f.Difficulty {
		return false
	}
	if f.statusActive() && q.Status != f.Status {
		return false
	}
	if query := f.query(); query != "" {
		fields := append([]string{q.Title, q.Description}, q.Tags...)
		if !textMatches(query, fields...) {
			return false
		}
	}
	return true
}

func textMatches(query string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
