package store

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreCascadeDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	now := time.Now()
	if err := s.SaveTopic(ctx, Topic{ID: "t1", Title: "Arrays", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("save topic: %v", err)
	}
	if err := s.SaveSubTopic(ctx, SubTopic{ID: "s1", Title: "Sorting", TopicID: "t1", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("save sub topic: %v", err)
	}
	if err := s.SaveSubTopic(ctx, SubTopic{ID: "s2", Title: "Searching", TopicID: "t1", Order: 1, CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("save sub topic: %v", err)
	}
	if err := s.SaveQuestion(ctx, Question{ID: "q1", Title: "Two Sum", SubTopicID: "s1", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("save question: %v", err)
	}

	if err := s.DeleteTopic(ctx, "t1"); err != nil {
		t.Fatalf("delete topic: %v", err)
	}

	topics, subTopics, questions, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(topics) != 0 || len(subTopics) != 0 || len(questions) != 0 {
		t.Errorf("expected empty store after cascade, got %d/%d/%d", len(topics), len(subTopics), len(questions))
	}
}

func TestMemoryStoreLoadAllSortsByOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	base := time.Now()
	_ = s.SaveTopic(ctx, Topic{ID: "t1", Title: "B", Order: 1, CreatedAt: base})
	_ = s.SaveTopic(ctx, Topic{ID: "t2", Title: "A", Order: 0, CreatedAt: base.Add(time.Second)})

	topics, _, _, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	if topics[0].ID != "t2" || topics[1].ID != "t1" {
		t.Errorf("expected order [t2 t1], got [%s %s]", topics[0].ID, topics[1].ID)
	}
}

func TestMemoryStoreReorder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_ = s.SaveTopic(ctx, Topic{ID: "t1", Order: 0})
	_ = s.SaveTopic(ctx, Topic{ID: "t2", Order: 1})

	if err := s.ReorderTopics(ctx, []OrderUpdate{{ID: "t1", Order: 1}, {ID: "t2", Order: 0}}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	topics, _, _, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if topics[0].ID != "t2" || topics[1].ID != "t1" {
		t.Errorf("expected [t2 t1] after reorder, got [%s %s]", topics[0].ID, topics[1].ID)
	}
}
