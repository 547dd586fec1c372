package app

import (
	"context"
	"testing"

	"questsheet/api/internal/importer"
	"questsheet/api/internal/search"
	"questsheet/api/internal/sheet"
	"questsheet/api/internal/store"
)

type fakeSearch struct {
	indexed []search.QuestionRecord
	deleted []string
	reindex [][]search.QuestionRecord
}

func (f *fakeSearch) Search(q search.Query) search.Response { return search.Response{Query: q.Text} }
func (f *fakeSearch) IndexQuestion(record search.QuestionRecord) {
	f.indexed = append(f.indexed, record)
}
func (f *fakeSearch) DeleteQuestions(ids []string) { f.deleted = append(f.deleted, ids...) }
func (f *fakeSearch) ReindexAll(records []search.QuestionRecord) {
	f.reindex = append(f.reindex, records)
}

func newIndexedService(t *testing.T) (*Service, *fakeSearch) {
	t.Helper()
	persister := store.NewMemoryStore()
	sh := sheet.New(persister)
	fake := &fakeSearch{}
	return NewService(sh, persister, fake, nil, importer.New(sh), importer.NewClient("")), fake
}

func TestCreateQuestionIndexesWithParentReferences(t *testing.T) {
	ctx := context.Background()
	service, fake := newIndexedService(t)

	topic, err := service.CreateTopic(ctx, sheet.CreateTopicInput{Title: "Arrays"})
	if err != nil {
		t.Fatalf("create topic: %v", err)
	}
	subTopic, err := service.CreateSubTopic(ctx, sheet.CreateSubTopicInput{Title: "Hashing", TopicID: topic.ID})
	if err != nil {
		t.Fatalf("create sub topic: %v", err)
	}
	question, err := service.CreateQuestion(ctx, sheet.CreateQuestionInput{Title: "Two Sum", SubTopicID: subTopic.ID})
	if err != nil {
		t.Fatalf("create question: %v", err)
	}

	if len(fake.indexed) != 1 {
		t.Fatalf("expected one index call, got %d", len(fake.indexed))
	}
	record := fake.indexed[0]
	if record.ID != question.ID || record.SubTopicID != subTopic.ID || record.TopicID != topic.ID {
		t.Errorf("record carries wrong references: %+v", record)
	}
}

func TestDeleteTopicRemovesCascadedQuestionsFromIndex(t *testing.T) {
	ctx := context.Background()
	service, fake := newIndexedService(t)

	topic, _ := service.CreateTopic(ctx, sheet.CreateTopicInput{Title: "Arrays"})
	subTopic, _ := service.CreateSubTopic(ctx, sheet.CreateSubTopicInput{Title: "Hashing", TopicID: topic.ID})
	q1, _ := service.CreateQuestion(ctx, sheet.CreateQuestionInput{Title: "Two Sum", SubTopicID: subTopic.ID})
	q2, _ := service.CreateQuestion(ctx, sheet.CreateQuestionInput{Title: "3Sum", SubTopicID: subTopic.ID})

	if err := service.DeleteTopic(ctx, topic.ID); err != nil {
		t.Fatalf("delete topic: %v", err)
	}

	if len(fake.deleted) != 2 {
		t.Fatalf("expected 2 deletions, got %d", len(fake.deleted))
	}
	got := map[string]bool{}
	for _, id := range fake.deleted {
		got[id] = true
	}
	if !got[q1.ID] || !got[q2.ID] {
		t.Errorf("expected both cascaded questions deleted from index, got %v", fake.deleted)
	}
}

func TestImportTriggersReindex(t *testing.T) {
	ctx := context.Background()
	service, fake := newIndexedService(t)

	doc := `{"data": {
		"topics": [{"id": "x1", "title": "Arrays"}],
		"subTopics": [{"id": "x2", "title": "Hashing", "topicId": "x1"}],
		"questions": [{"title": "Two Sum", "subTopicId": "x2"}]
	}}`
	if _, err := service.Import(ctx, []byte(doc)); err != nil {
		t.Fatalf("import: %v", err)
	}

	if len(fake.reindex) != 1 {
		t.Fatalf("expected one reindex, got %d", len(fake.reindex))
	}
	if len(fake.reindex[0]) != 1 || fake.reindex[0][0].Title != "Two Sum" {
		t.Errorf("unexpected reindex payload %+v", fake.reindex[0])
	}
}

func TestClearSheetDropsIndexEntries(t *testing.T) {
	ctx := context.Background()
	service, fake := newIndexedService(t)

	topic, _ := service.CreateTopic(ctx, sheet.CreateTopicInput{Title: "Arrays"})
	subTopic, _ := service.CreateSubTopic(ctx, sheet.CreateSubTopicInput{Title: "Hashing", TopicID: topic.ID})
	q, _ := service.CreateQuestion(ctx, sheet.CreateQuestionInput{Title: "Two Sum", SubTopicID: subTopic.ID})

	if err := service.ClearSheet(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if len(fake.deleted) != 1 || fake.deleted[0] != q.ID {
		t.Errorf("expected cleared question removed from index, got %v", fake.deleted)
	}
}
