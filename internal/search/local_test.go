package search

import (
	"context"
	"testing"

	"questsheet/api/internal/sheet"
	"questsheet/api/internal/store"
)

func seedSheet(t *testing.T) *sheet.Sheet {
	t.Helper()
	ctx := context.Background()
	s := sheet.New(store.NewMemoryStore())

	topic, err := s.CreateTopic(ctx, sheet.CreateTopicInput{Title: "Arrays"})
	if err != nil {
		t.Fatalf("create topic: %v", err)
	}
	st, err := s.CreateSubTopic(ctx, sheet.CreateSubTopicInput{Title: "Hashing", TopicID: topic.ID})
	if err != nil {
		t.Fatalf("create sub topic: %v", err)
	}
	if _, err := s.CreateQuestion(ctx, sheet.CreateQuestionInput{
		Title:      "Two Sum",
		SubTopicID: st.ID,
		Difficulty: store.DifficultyEasy,
		Tags:       []string{"array", "hash-table"},
	}); err != nil {
		t.Fatalf("create question: %v", err)
	}
	if _, err := s.CreateQuestion(ctx, sheet.CreateQuestionInput{
		Title:      "3Sum",
		SubTopicID: st.ID,
		Difficulty: store.DifficultyMedium,
	}); err != nil {
		t.Fatalf("create question: %v", err)
	}
	return s
}

func TestLocalSearchMatchesAndCarriesParents(t *testing.T) {
	s := seedSheet(t)
	local := NewLocal(s)

	results, total, err := local.Search(Query{Text: "sum"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 || len(results) != 2 {
		t.Fatalf("expected 2 hits, got total=%d len=%d", total, len(results))
	}
	for _, r := range results {
		if r.SubTopicID == "" || r.TopicID == "" {
			t.Errorf("hit %s missing parent references", r.ID)
		}
	}
}

func TestLocalSearchDifficultyFilter(t *testing.T) {
	s := seedSheet(t)
	local := NewLocal(s)

	results, _, err := local.Search(Query{Text: "sum", Difficulty: store.DifficultyEasy})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Two Sum" {
		t.Fatalf("expected only Two Sum, got %d hits", len(results))
	}
}

func TestLocalSearchPagination(t *testing.T) {
	s := seedSheet(t)
	local := NewLocal(s)

	results, total, err := local.Search(Query{Text: "sum", Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 {
		t.Errorf("expected total 2, got %d", total)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 page hit, got %d", len(results))
	}
}

func TestLocalSearchNegativeOffsetTreatedAsZero(t *testing.T) {
	s := seedSheet(t)
	local := NewLocal(s)

	results, total, err := local.Search(Query{Text: "sum", Offset: -1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 2 || len(results) != 2 {
		t.Fatalf("expected full first page, got total=%d len=%d", total, len(results))
	}
	if results[0].Title != "Two Sum" {
		t.Errorf("expected Two Sum first, got %q", results[0].Title)
	}
}

func TestServiceFallsBackWithoutMeili(t *testing.T) {
	s := seedSheet(t)
	svc := NewService(nil, NewLocal(s))

	resp := svc.Search(Query{Text: "two sum"})
	if len(resp.Results) != 1 {
		t.Fatalf("expected 1 hit via fallback, got %d", len(resp.Results))
	}
	if resp.Query != "two sum" {
		t.Errorf("expected query echoed, got %q", resp.Query)
	}
}
