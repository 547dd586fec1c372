package search

import (
	"questsheet/api/internal/sheet"
)

// Local is the fallback Searcher: it filters the in-memory sheet directly,
// so search stays available (and identical across persistence backends) when
// Meilisearch is down or not configured.
type Local struct {
	sheet *sheet.Sheet
}

func NewLocal(s *sheet.Sheet) *Local {
	return &Local{sheet: s}
}

func (l *Local) Healthy() bool {
	return true
}

func (l *Local) Search(q Query) ([]Result, int, error) {
	questions := l.sheet.Questions(sheet.Filter{
		Query:      q.Text,
		Difficulty: q.Difficulty,
		Status:     q.Status,
		SubTopicID: q.SubTopicID,
	})

	total := len(questions)
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	end := offset + limit
	if end > total {
		end = total
	}

	results := make([]Result, 0, end-offset)
	for _, question := range questions[offset:end] {
		topicID := ""
		if st, ok := l.sheet.SubTopic(question.SubTopicID); ok {
			topicID = st.TopicID
		}
		results = append(results, Result{
			ID:         question.ID,
			Title:      question.Title,
			Snippet:    question.Description,
			SubTopicID: question.SubTopicID,
			TopicID:    topicID,
			Difficulty: question.Difficulty,
			Status:     question.Status,
		})
	}
	return results, total, nil
}
