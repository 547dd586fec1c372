package search

import "log"

// Service is the facade that tries Meilisearch first and falls back to the
// in-process sheet filter.
type Service struct {
	meili *Meili
	local *Local
}

// NewService creates a search service. meili may be nil if Meilisearch is not
// configured.
func NewService(meili *Meili, local *Local) *Service {
	return &Service{meili: meili, local: local}
}

// Search tries Meilisearch if healthy, otherwise filters the sheet.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to sheet: %v", err)
	}

	results, total, err := s.local.Search(q)
	if err != nil {
		log.Printf("search: sheet fallback error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

// IndexQuestion indexes a question (fire-and-forget to Meilisearch).
func (s *Service) IndexQuestion(record QuestionRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexQuestion(record); err != nil {
			log.Printf("search: index question %s: %v", record.ID, err)
		}
	}()
}

// DeleteQuestions removes questions from the search index (fire-and-forget).
func (s *Service) DeleteQuestions(ids []string) {
	if s.meili == nil || !s.meili.Healthy() || len(ids) == 0 {
		return
	}
	go func() {
		if err := s.meili.DeleteQuestions(ids); err != nil {
			log.Printf("search: delete %d questions: %v", len(ids), err)
		}
	}()
}

// ReindexAll pushes every question record to Meilisearch. Called during
// bootstrap and after imports.
func (s *Service) ReindexAll(records []QuestionRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	if err := s.meili.IndexQuestions(records); err != nil {
		log.Printf("search: reindex questions: %v", err)
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}
