package sheet

import (
	"context"
	"testing"

	"questsheet/api/internal/store"
)

func seedFilterSheet(t *testing.T) *Sheet {
	t.Helper()
	s := newTestSheet(t)
	ctx := context.Background()

	arrays := mustTopic(t, s, "Arrays")
	hashing := mustSubTopic(t, s, arrays.ID, "Hashing")
	searching := mustSubTopic(t, s, arrays.ID, "Searching")

	if _, err := s.CreateQuestion(ctx, CreateQuestionInput{
		Title:      "Two Sum",
		SubTopicID: hashing.ID,
		Difficulty: store.DifficultyEasy,
		Status:     store.StatusDone,
		Tags:       []string{"array", "hash-table"},
	}); err != nil {
		t.Fatalf("seed Two Sum: %v", err)
	}
	if _, err := s.CreateQuestion(ctx, CreateQuestionInput{
		Title:      "3Sum",
		SubTopicID: hashing.ID,
		Difficulty: store.DifficultyMedium,
		Tags:       []string{"array", "two-pointers"},
	}); err != nil {
		t.Fatalf("seed 3Sum: %v", err)
	}
	if _, err := s.CreateQuestion(ctx, CreateQuestionInput{
		Title:      "Binary Search",
		SubTopicID: searching.ID,
		Difficulty: store.DifficultyEasy,
	}); err != nil {
		t.Fatalf("seed Binary Search: %v", err)
	}

	graphs := mustTopic(t, s, "Graphs")
	mustSubTopic(t, s, graphs.ID, "Traversal")
	return s
}

func TestTreeWithoutFiltersReturnsEverything(t *testing.T) {
	s := seedFilterSheet(t)

	view := s.Tree(Filter{})
	if len(view) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(view))
	}
	if len(view[0].SubTopics) != 2 {
		t.Errorf("expected 2 sub topics under Arrays, got %d", len(view[0].SubTopics))
	}
	// Empty containers survive when no filter is active.
	if len(view[1].SubTopics) != 1 {
		t.Errorf("expected empty Traversal sub topic kept, got %d", len(view[1].SubTopics))
	}
}

func TestTextSearchMatchesTitleSubstringAndPrunes(t *testing.T) {
	s := seedFilterSheet(t)

	view := s.Tree(Filter{Query: "sum"})
	if len(view) != 1 || view[0].Title != "Arrays" {
		t.Fatalf("expected only Arrays to survive, got %d topics", len(view))
	}
	if len(view[0].SubTopics) != 1 || view[0].SubTopics[0].Title != "Hashing" {
		t.Fatalf("expected only Hashing to survive")
	}
	questions := view[0].SubTopics[0].Questions
	if len(questions) != 2 {
		t.Fatalf("expected Two Sum and 3Sum, got %d questions", len(questions))
	}
	for _, q := range questions {
		if q.Title != "Two Sum" && q.Title != "3Sum" {
			t.Errorf("unexpected match %q", q.Title)
		}
	}
}

func TestTextSearchMatchesTags(t *testing.T) {
	s := seedFilterSheet(t)

	questions := s.Questions(Filter{Query: "two-pointers"})
	if len(questions) != 1 || questions[0].Title != "3Sum" {
		t.Fatalf("expected only 3Sum via tag match, got %d", len(questions))
	}
}

func TestTextSearchKeepsContainersMatchingOwnTitle(t *testing.T) {
	s := seedFilterSheet(t)

	view := s.Tree(Filter{Query: "traversal"})
	if len(view) != 1 || view[0].Title != "Graphs" {
		t.Fatalf("expected Graphs via sub topic title match, got %d topics", len(view))
	}
	if len(view[0].SubTopics) != 1 || len(view[0].SubTopics[0].Questions) != 0 {
		t.Error("expected Traversal with no questions")
	}
}

func TestStatusFilterPrunesAncestors(t *testing.T) {
	s := seedFilterSheet(t)

	view := s.Tree(Filter{Status: store.StatusDone})
	if len(view) != 1 || view[0].Title != "Arrays" {
		t.Fatalf("expected only Arrays, got %d topics", len(view))
	}
	if len(view[0].SubTopics) != 1 || view[0].SubTopics[0].Title != "Hashing" {
		t.Fatalf("expected only Hashing as ancestor of a Done question")
	}
	questions := view[0].SubTopics[0].Questions
	if len(questions) != 1 || questions[0].Title != "Two Sum" {
		t.Errorf("expected only the Done question")
	}
}

func TestAttributeFilterIgnoresContainerTitles(t *testing.T) {
	s := seedFilterSheet(t)

	// "searching" matches the Searching sub topic's title, but with a
	// difficulty filter active only descendant matching counts — and
	// Binary Search is Easy, so Searching survives through it while the
	// title-only Traversal match does not apply.
	view := s.Tree(Filter{Query: "searching", Difficulty: store.DifficultyMedium})
	if len(view) != 0 {
		t.Errorf("expected empty view, got %d topics", len(view))
	}
}

func TestDifficultyAll(t *testing.T) {
	s := seedFilterSheet(t)

	questions := s.Questions(Filter{Difficulty: "all"})
	if len(questions) != 3 {
		t.Errorf(`expected "all" to match every question, got %d`, len(questions))
	}
}

func TestQuestionsScopedToSubTopic(t *testing.T) {
	s := seedFilterSheet(t)
	topics, subTopics, _ := s.Snapshot()
	_ = topics

	var hashingID string
	for _, st := range subTopics {
		if st.Title == "Hashing" {
			hashingID = st.ID
		}
	}

	questions := s.Questions(Filter{SubTopicID: hashingID})
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions in Hashing, got %d", len(questions))
	}
}

func TestProgressCounts(t *testing.T) {
	s := seedFilterSheet(t)

	p := s.Progress()
	if p.TotalTopics != 2 || p.TotalSubTopics != 3 || p.TotalQuestions != 3 {
		t.Errorf("unexpected totals %d/%d/%d", p.TotalTopics, p.TotalSubTopics, p.TotalQuestions)
	}
	if p.Completed != 1 || p.Todo != 2 || p.Revising != 0 {
		t.Errorf("unexpected status counts done=%d todo=%d revising=%d", p.Completed, p.Todo, p.Revising)
	}
	if p.CompletionRate != 33 {
		t.Errorf("expected completion rate 33, got %v", p.CompletionRate)
	}
}
