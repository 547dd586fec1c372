package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore persists sheet entities in PostgreSQL. Cascade deletes are
// delegated to the schema's ON DELETE CASCADE foreign keys.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) LoadAll(ctx context.Context) ([]Topic, []SubTopic, []Question, error) {
	topics, err := s.loadTopics(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	subTopics, err := s.loadSubTopics(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	questions, err := s.loadQuestions(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return topics, subTopics, questions, nil
}

func (s *PostgresStore) loadTopics(ctx context.Context) ([]Topic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, color, ord, created_at, updated_at
		FROM topics ORDER BY ord ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	defer rows.Close()

	var topics []Topic
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Color, &t.Order, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (s *PostgresStore) loadSubTopics(ctx context.Context) ([]SubTopic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, topic_id, ord, created_at, updated_at
		FROM sub_topics ORDER BY ord ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load sub topics: %w", err)
	}
	defer rows.Close()

	var subTopics []SubTopic
	for rows.Next() {
		var st SubTopic
		if err := rows.Scan(&st.ID, &st.Title, &st.Description, &st.TopicID, &st.Order, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sub topic: %w", err)
		}
		subTopics = append(subTopics, st)
	}
	return subTopics, rows.Err()
}

func (s *PostgresStore) loadQuestions(ctx context.Context) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, sub_topic_id, difficulty, status, tags, ord, created_at, updated_at
		FROM questions ORDER BY ord ASC, created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		var tags []byte
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.SubTopicID, &q.Difficulty, &q.Status, &tags, &q.Order, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(tags, &q.Tags); err != nil {
			return nil, fmt.Errorf("decode question tags: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *PostgresStore) SaveTopic(ctx context.Context, t Topic) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO topics (id, title, description, color, ord, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			color = EXCLUDED.color,
			ord = EXCLUDED.ord,
			updated_at = EXCLUDED.updated_at
	`, t.ID, t.Title, t.Description, t.Color, t.Order, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save topic %s: %w", t.ID, err)
	}
	return nil
}

func (s *PostgresStore) SaveSubTopic(ctx context.Context, st SubTopic) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sub_topics (id, title, description, topic_id, ord, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			ord = EXCLUDED.ord,
			updated_at = EXCLUDED.updated_at
	`, st.ID, st.Title, st.Description, st.TopicID, st.Order, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save sub topic %s: %w", st.ID, err)
	}
	return nil
}

func (s *PostgresStore) SaveQuestion(ctx context.Context, q Question) error {
	tags := q.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode question tags: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO questions (id, title, description, sub_topic_id, difficulty, status, tags, ord, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			difficulty = EXCLUDED.difficulty,
			status = EXCLUDED.status,
			tags = EXCLUDED.tags,
			ord = EXCLUDED.ord,
			updated_at = EXCLUDED.updated_at
	`, q.ID, q.Title, q.Description, q.SubTopicID, q.Difficulty, q.Status, tagsJSON, q.Order, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save question %s: %w", q.ID, err)
	}
	return nil
}

func (s *PostgresStore) DeleteTopic(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete topic %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) DeleteSubTopic(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sub_topics WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sub topic %s: %w", id, err)
	}
	return nil
}

func (s *PostgresStore) DeleteQuestion(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete question %s: %w", id, err)
	}
	return nil
}

// ReorderTopics writes a full sibling ordering in one transaction so partial
// application never looks like success.
func (s *PostgresStore) ReorderTopics(ctx context.Context, updates []OrderUpdate) error {
	return s.reorder(ctx, `UPDATE topics SET ord = $2 WHERE id = $1`, updates)
}

func (s *PostgresStore) ReorderSubTopics(ctx context.Context, topicID string, updates []OrderUpdate) error {
	return s.reorder(ctx, `UPDATE sub_topics SET ord = $2 WHERE id = $1`, updates)
}

func (s *PostgresStore) ReorderQuestions(ctx context.Context, subTopicID string, updates []OrderUpdate) error {
	return s.reorder(ctx, `UPDATE questions SET ord = $2 WHERE id = $1`, updates)
}

func (s *PostgresStore) reorder(ctx context.Context, query string, updates []OrderUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder tx: %w", err)
	}
	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, query, u.ID, u.Order); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("reorder %s: %w", u.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `TRUNCATE topics, sub_topics, questions`); err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}
	return nil
}
