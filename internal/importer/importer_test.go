package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"questsheet/api/internal/sheet"
	"questsheet/api/internal/store"
)

const sampleDocument = `{
	"data": {
		"topics": [
			{"id": "ext-t2", "name": "Graphs", "order": 1},
			{"id": "ext-t1", "title": "Arrays", "color": "#FF0000", "order": 0}
		],
		"subTopics": [
			{"id": "ext-s1", "name": "Hashing", "topicId": "ext-t1", "order": 0},
			{"id": "ext-orphan", "title": "Lost", "topicId": "ext-gone", "order": 1}
		],
		"questions": [
			{"name": "Two Sum", "problemStatement": "Find two numbers", "subTopicId": "ext-s1", "isCompleted": true, "tags": ["array"]},
			{"title": "3Sum", "subTopicId": "ext-s1", "difficulty": "Hard"},
			{"title": "Dangling", "subTopicId": "ext-orphan"}
		]
	}
}`

func TestImportMapsFieldsAndSkipsOrphans(t *testing.T) {
	s := sheet.New(store.NewMemoryStore())
	imp := New(s)

	summary, err := imp.Import(context.Background(), []byte(sampleDocument))
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if summary.Topics != 2 || summary.SubTopics != 1 || summary.Questions != 2 {
		t.Errorf("unexpected counts %d/%d/%d", summary.Topics, summary.SubTopics, summary.Questions)
	}
	if summary.SkippedSubTopics != 1 || summary.SkippedQuestions != 1 {
		t.Errorf("expected 1 skipped sub topic and 1 skipped question, got %d/%d",
			summary.SkippedSubTopics, summary.SkippedQuestions)
	}

	topics, subTopics, questions := s.Snapshot()
	if len(topics) != 2 || topics[0].Title != "Arrays" || topics[1].Title != "Graphs" {
		t.Fatalf("expected topics [Arrays Graphs] honoring order")
	}
	if topics[0].Color != "#FF0000" {
		t.Errorf("expected imported color, got %s", topics[0].Color)
	}
	if len(subTopics) != 1 || subTopics[0].Title != "Hashing" {
		t.Fatalf("expected only Hashing sub topic")
	}

	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	twoSum := questions[0]
	if twoSum.Title != "Two Sum" {
		t.Fatalf("expected Two Sum first, got %q", twoSum.Title)
	}
	if twoSum.Description != "Find two numbers" {
		t.Errorf("expected problemStatement mapped to description, got %q", twoSum.Description)
	}
	if twoSum.Status != store.StatusDone {
		t.Errorf("expected isCompleted=true mapped to Done, got %s", twoSum.Status)
	}
	if twoSum.Difficulty != store.DifficultyMedium {
		t.Errorf("expected default difficulty, got %s", twoSum.Difficulty)
	}
	if questions[1].Difficulty != store.DifficultyHard {
		t.Errorf("expected explicit difficulty kept, got %s", questions[1].Difficulty)
	}
}

func TestImportReplacesExistingContent(t *testing.T) {
	ctx := context.Background()
	s := sheet.New(store.NewMemoryStore())
	if _, err := s.CreateTopic(ctx, sheet.CreateTopicInput{Title: "Old"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := New(s).Import(ctx, []byte(sampleDocument)); err != nil {
		t.Fatalf("import: %v", err)
	}

	topics, _, _ := s.Snapshot()
	for _, topic := range topics {
		if topic.Title == "Old" {
			t.Error("expected prior content cleared before import")
		}
	}
}

func TestImportBlankTitleLeavesExistingDataIntact(t *testing.T) {
	ctx := context.Background()
	s := sheet.New(store.NewMemoryStore())
	if _, err := s.CreateTopic(ctx, sheet.CreateTopicInput{Title: "Keep"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// The second topic has a whitespace-only title; nothing may be cleared.
	doc := `{"data": {
		"topics": [
			{"id": "x1", "title": "Arrays"},
			{"id": "x2", "title": "   "}
		]
	}}`
	_, err := New(s).Import(ctx, []byte(doc))
	if err == nil {
		t.Fatal("expected validation error")
	}
	var validationErr *sheet.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}

	topics, _, _ := s.Snapshot()
	if len(topics) != 1 || topics[0].Title != "Keep" {
		t.Fatalf("expected existing content untouched, got %v", topics)
	}
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	s := sheet.New(store.NewMemoryStore())
	imp := New(s)

	cases := []struct {
		name string
		raw  string
	}{
		{"missing data", `{"topics": []}`},
		{"bad difficulty", `{"data": {"questions": [{"title": "X", "difficulty": "Impossible"}]}}`},
		{"topics not array", `{"data": {"topics": {}}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := imp.Import(context.Background(), []byte(tc.raw)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateDocumentReportsAllProblems(t *testing.T) {
	err := ValidateDocument([]byte(`{"data": {"questions": [{"difficulty": "Impossible", "status": "Maybe"}]}}`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "difficulty") || !strings.Contains(err.Error(), "status") {
		t.Errorf("expected both violations reported, got %v", err)
	}
}
