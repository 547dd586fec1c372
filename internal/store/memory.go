package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is the persistence backend used when no database is configured,
// and in tests. It keeps flat id-keyed tables; ordering lives in the ord field.
type MemoryStore struct {
	mu        sync.RWMutex
	topics    map[string]Topic
	subTopics map[string]SubTopic
	questions map[string]Question
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		topics:    make(map[string]Topic),
		subTopics: make(map[string]SubTopic),
		questions: make(map[string]Question),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) LoadAll(ctx context.Context) ([]Topic, []SubTopic, []Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topics := make([]Topic, 0, len(s.topics))
	for _, t := range s.topics {
		topics = append(topics, t)
	}
	sort.SliceStable(topics, func(i, j int) bool {
		if topics[i].Order != topics[j].Order {
			return topics[i].Order < topics[j].Order
		}
		return topics[i].CreatedAt.Before(topics[j].CreatedAt)
	})

	subTopics := make([]SubTopic, 0, len(s.subTopics))
	for _, st := range s.subTopics {
		subTopics = append(subTopics, st)
	}
	sort.SliceStable(subTopics, func(i, j int) bool {
		if subTopics[i].Order != subTopics[j].Order {
			return subTopics[i].Order < subTopics[j].Order
		}
		return subTopics[i].CreatedAt.Before(subTopics[j].CreatedAt)
	})

	questions := make([]Question, 0, len(s.questions))
	for _, q := range s.questions {
		questions = append(questions, q)
	}
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].Order != questions[j].Order {
			return questions[i].Order < questions[j].Order
		}
		return questions[i].CreatedAt.Before(questions[j].CreatedAt)
	})

	return topics, subTopics, questions, nil
}

func (s *MemoryStore) SaveTopic(ctx context.Context, t Topic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics[t.ID] = t
	return nil
}

func (s *MemoryStore) SaveSubTopic(ctx context.Context, st SubTopic) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subTopics[st.ID] = st
	return nil
}

func (s *MemoryStore) SaveQuestion(ctx context.Context, q Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = q
	return nil
}

func (s *MemoryStore) DeleteTopic(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.topics, id)
	for stID, st := range s.subTopics {
		if st.TopicID != id {
			continue
		}
		delete(s.subTopics, stID)
		for qID, q := range s.questions {
			if q.SubTopicID == stID {
				delete(s.questions, qID)
			}
		}
	}
	return nil
}

func (s *MemoryStore) DeleteSubTopic(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subTopics, id)
	for qID, q := range s.questions {
		if q.SubTopicID == id {
			delete(s.questions, qID)
		}
	}
	return nil
}

func (s *MemoryStore) DeleteQuestion(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.questions, id)
	return nil
}

func (s *MemoryStore) ReorderTopics(ctx context.Context, updates []OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range updates {
		if t, ok := s.topics[u.ID]; ok {
			t.Order = u.Order
			s.topics[u.ID] = t
		}
	}
	return nil
}

func (s *MemoryStore) ReorderSubTopics(ctx context.Context, topicID string, updates []OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range updates {
		if st, ok := s.subTopics[u.ID]; ok {
			st.Order = u.Order
			s.subTopics[u.ID] = st
		}
	}
	return nil
}

func (s *MemoryStore) ReorderQuestions(ctx context.Context, subTopicID string, updates []OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range updates {
		if q, ok := s.questions[u.ID]; ok {
			q.Order = u.Order
			s.questions[u.ID] = q
		}
	}
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = make(map[string]Topic)
	s.subTopics = make(map[string]SubTopic)
	s.questions = make(map[string]Question)
	return nil
}
