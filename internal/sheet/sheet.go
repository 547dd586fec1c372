// Package sheet implements the normalized hierarchical store behind the
// tracker: flat entity tables for Topics, SubTopics and Questions plus an
// order index holding the explicit sibling sequence for every container.
// Mutations persist through the Persister first and touch in-memory state
// only after the persister confirms, so tables and index never diverge on
// failure.
package sheet

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"questsheet/api/internal/store"
	"questsheet/api/internal/util"
)

// Persister is the storage collaborator the sheet confirms every mutation
// against before applying it locally.
type Persister interface {
	LoadAll(ctx context.Context) ([]store.Topic, []store.SubTopic, []store.Question, error)
	SaveTopic(ctx context.Context, t store.Topic) error
	SaveSubTopic(ctx context.Context, st store.SubTopic) error
	SaveQuestion(ctx context.Context, q store.Question) error
	DeleteTopic(ctx context.Context, id string) error
	DeleteSubTopic(ctx context.Context, id string) error
	DeleteQuestion(ctx context.Context, id string) error
	ReorderTopics(ctx context.Context, updates []store.OrderUpdate) error
	ReorderSubTopics(ctx context.Context, topicID string, updates []store.OrderUpdate) error
	ReorderQuestions(ctx context.Context, subTopicID string, updates []store.OrderUpdate) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

type Sheet struct {
	mu        sync.RWMutex
	persister Persister

	topics    map[string]store.Topic
	subTopics map[string]store.SubTopic
	questions map[string]store.Question

	// Order index: one sequence per container, always holding exactly the
	// ids owned by that container, each exactly once.
	topicOrder    []string
	subTopicOrder map[string][]string
	questionOrder map[string][]string
}

func New(p Persister) *Sheet {
	return &Sheet{
		persister:     p,
		topics:        make(map[string]store.Topic),
		subTopics:     make(map[string]store.SubTopic),
		questions:     make(map[string]store.Question),
		subTopicOrder: make(map[string][]string),
		questionOrder: make(map[string][]string),
	}
}

// Load replaces all in-memory state from the persister and rebuilds the
// order index by grouping entities by parent and stable-sorting by order.
// Records whose parent is missing are dropped.
func (s *Sheet) Load(ctx context.Context) error {
	topics, subTopics, questions, err := s.persister.LoadAll(ctx)
	if err != nil {
		return &PersistenceError{Op: "load sheet", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.topics = make(map[string]store.Topic, len(topics))
	s.subTopics = make(map[string]store.SubTopic, len(subTopics))
	s.questions = make(map[string]store.Question, len(questions))

	for _, t := range topics {
		s.topics[t.ID] = t
	}
	for _, st := range subTopics {
		if _, ok := s.topics[st.TopicID]; !ok {
			continue
		}
		s.subTopics[st.ID] = st
	}
	for _, q := range questions {
		if _, ok := s.subTopics[q.SubTopicID]; !ok {
			continue
		}
		if q.Tags == nil {
			q.Tags = []string{}
		}
		s.questions[q.ID] = q
	}

	s.rebuildIndex()
	return nil
}

// rebuildIndex derives the full order index from the entity tables. Callers
// hold the write lock.
func (s *Sheet) rebuildIndex() {
	s.topicOrder = s.topicOrder[:0]
	for id := range s.topics {
		s.topicOrder = append(s.topicOrder, id)
	}
	sort.SliceStable(s.topicOrder, func(i, j int) bool {
		return s.topics[s.topicOrder[i]].Order < s.topics[s.topicOrder[j]].Order
	})

	s.subTopicOrder = make(map[string][]string)
	for id, st := range s.subTopics {
		s.subTopicOrder[st.TopicID] = append(s.subTopicOrder[st.TopicID], id)
	}
	for topicID := range s.subTopicOrder {
		ids := s.subTopicOrder[topicID]
		sort.SliceStable(ids, func(i, j int) bool {
			return s.subTopics[ids[i]].Order < s.subTopics[ids[j]].Order
		})
	}

	s.questionOrder = make(map[string][]string)
	for id, q := range s.questions {
		s.questionOrder[q.SubTopicID] = append(s.questionOrder[q.SubTopicID], id)
	}
	for subTopicID := range s.questionOrder {
		ids := s.questionOrder[subTopicID]
		sort.SliceStable(ids, func(i, j int) bool {
			return s.questions[ids[i]].Order < s.questions[ids[j]].Order
		})
	}
}

// ── Creation ──

type CreateTopicInput struct {
	Title       string
	Description string
	Color       string
}

type CreateSubTopicInput struct {
	Title       string
	Description string
	TopicID     string
}

type CreateQuestionInput struct {
	Title       string
	Description string
	SubTopicID  string
	Difficulty  string
	Status      string
	Tags        []string
}

func (s *Sheet) CreateTopic(ctx context.Context, in CreateTopicInput) (store.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return store.Topic{}, validationf("topic title is required")
	}
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = store.DefaultColor
	}

	now := time.Now().UTC()
	t := store.Topic{
		ID:          util.NewID("top"),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Color:       color,
		Order:       len(s.topicOrder),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.persister.SaveTopic(ctx, t); err != nil {
		return store.Topic{}, &PersistenceError{Op: "create topic", Err: err}
	}

	s.topics[t.ID] = t
	s.topicOrder = append(s.topicOrder, t.ID)
	return t, nil
}

func (s *Sheet) CreateSubTopic(ctx context.Context, in CreateSubTopicInput) (store.SubTopic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return store.SubTopic{}, validationf("sub topic title is required")
	}
	if _, ok := s.topics[in.TopicID]; !ok {
		return store.SubTopic{}, validationf("topic %s does not exist", in.TopicID)
	}

	now := time.Now().UTC()
	st := store.SubTopic{
		ID:          util.NewID("sub"),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		TopicID:     in.TopicID,
		Order:       len(s.subTopicOrder[in.TopicID]),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.persister.SaveSubTopic(ctx, st); err != nil {
		return store.SubTopic{}, &PersistenceError{Op: "create sub topic", Err: err}
	}

	s.subTopics[st.ID] = st
	s.subTopicOrder[in.TopicID] = append(s.subTopicOrder[in.TopicID], st.ID)
	return st, nil
}

func (s *Sheet) CreateQuestion(ctx context.Context, in CreateQuestionInput) (store.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return store.Question{}, validationf("question title is required")
	}
	if _, ok := s.subTopics[in.SubTopicID]; !ok {
		return store.Question{}, validationf("sub topic %s does not exist", in.SubTopicID)
	}

	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = store.DifficultyMedium
	}
	if !store.ValidDifficulty(difficulty) {
		return store.Question{}, validationf("invalid difficulty %q", difficulty)
	}
	status := in.Status
	if status == "" {
		status = store.StatusTodo
	}
	if !store.ValidStatus(status) {
		return store.Question{}, validationf("invalid status %q", status)
	}

	now := time.Now().UTC()
	q := store.Question{
		ID:          util.NewID("qst"),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		SubTopicID:  in.SubTopicID,
		Difficulty:  difficulty,
		Status:      status,
		Tags:        cloneTags(in.Tags),
		Order:       len(s.questionOrder[in.SubTopicID]),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.persister.SaveQuestion(ctx, q); err != nil {
		return store.Question{}, &PersistenceError{Op: "create question", Err: err}
	}

	s.questions[q.ID] = q
	s.questionOrder[in.SubTopicID] = append(s.questionOrder[in.SubTopicID], q.ID)
	return q, nil
}

// ── Update ──

// Patches carry only whitelisted mutable fields; parent ids and order are
// reachable only through the reorder and move operations.

type TopicPatch struct {
	Title       *string
	Description *string
	Color       *string
}

type SubTopicPatch struct {
	Title       *string
	Description *string
}

type QuestionPatch struct {
	Title       *string
	Description *string
	Difficulty  *string
	Status      *string
	Tags        *[]string
}

func (s *Sheet) UpdateTopic(ctx context.Context, id string, patch TopicPatch) (store.Topic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.topics[id]
	if !ok {
		return store.Topic{}, &NotFoundError{Kind: "topic", ID: id}
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return store.Topic{}, validationf("topic title is required")
		}
		t.Title = title
	}
	if patch.Description != nil {
		t.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Color != nil && strings.TrimSpace(*patch.Color) != "" {
		t.Color = strings.TrimSpace(*patch.Color)
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.persister.SaveTopic(ctx, t); err != nil {
		return store.Topic{}, &PersistenceError{Op: "update topic", Err: err}
	}

	s.topics[id] = t
	return t, nil
}

func (s *Sheet) UpdateSubTopic(ctx context.Context, id string, patch SubTopicPatch) (store.SubTopic, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.subTopics[id]
	if !ok {
		return store.SubTopic{}, &NotFoundError{Kind: "sub topic", ID: id}
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return store.SubTopic{}, validationf("sub topic title is required")
		}
		st.Title = title
	}
	if patch.Description != nil {
		st.Description = strings.TrimSpace(*patch.Description)
	}
	st.UpdatedAt = time.Now().UTC()

	if err := s.persister.SaveSubTopic(ctx, st); err != nil {
		return store.SubTopic{}, &PersistenceError{Op: "update sub topic", Err: err}
	}

	s.subTopics[id] = st
	return st, nil
}

func (s *Sheet) UpdateQuestion(ctx context.Context, id string, patch QuestionPatch) (store.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return store.Question{}, &NotFoundError{Kind: "question", ID: id}
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return store.Question{}, validationf("question title is required")
		}
		q.Title = title
	}
	if patch.Description != nil {
		q.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Difficulty != nil {
		if !store.ValidDifficulty(*patch.Difficulty) {
			return store.Question{}, validationf("invalid difficulty %q", *patch.Difficulty)
		}
		q.Difficulty = *patch.Difficulty
	}
	if patch.Status != nil {
		if !store.ValidStatus(*patch.Status) {
			return store.Question{}, validationf("invalid status %q", *patch.Status)
		}
		q.Status = *patch.Status
	}
	if patch.Tags != nil {
		q.Tags = cloneTags(*patch.Tags)
	}
	q.UpdatedAt = time.Now().UTC()

	if err := s.persister.SaveQuestion(ctx, q); err != nil {
		return store.Question{}, &PersistenceError{Op: "update question", Err: err}
	}

	s.questions[id] = q
	return q, nil
}

// ── Delete ──

// DeleteResult lists the descendants removed by a cascade.
type DeleteResult struct {
	SubTopicIDs []string
	QuestionIDs []string
}

func (s *Sheet) DeleteTopic(ctx context.Context, id string) (DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.topics[id]; !ok {
		return DeleteResult{}, &NotFoundError{Kind: "topic", ID: id}
	}

	result := DeleteResult{}
	for _, subID := range s.subTopicOrder[id] {
		result.SubTopicIDs = append(result.SubTopicIDs, subID)
		result.QuestionIDs = append(result.QuestionIDs, s.questionOrder[subID]...)
	}

	if err := s.persister.DeleteTopic(ctx, id); err != nil {
		return DeleteResult{}, &PersistenceError{Op: "delete topic", Err: err}
	}

	for _, qID := range result.QuestionIDs {
		delete(s.questions, qID)
	}
	for _, subID := range result.SubTopicIDs {
		delete(s.subTopics, subID)
		delete(s.questionOrder, subID)
	}
	delete(s.topics, id)
	delete(s.subTopicOrder, id)
	s.topicOrder = removeID(s.topicOrder, id)
	return result, nil
}

func (s *Sheet) DeleteSubTopic(ctx context.Context, id string) (DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.subTopics[id]
	if !ok {
		return DeleteResult{}, &NotFoundError{Kind: "sub topic", ID: id}
	}

	result := DeleteResult{
		SubTopicIDs: []string{id},
		QuestionIDs: append([]string(nil), s.questionOrder[id]...),
	}

	if err := s.persister.DeleteSubTopic(ctx, id); err != nil {
		return DeleteResult{}, &PersistenceError{Op: "delete sub topic", Err: err}
	}

	for _, qID := range result.QuestionIDs {
		delete(s.questions, qID)
	}
	delete(s.subTopics, id)
	delete(s.questionOrder, id)
	s.subTopicOrder[st.TopicID] = removeID(s.subTopicOrder[st.TopicID], id)
	if len(s.subTopicOrder[st.TopicID]) == 0 {
		delete(s.subTopicOrder, st.TopicID)
	}
	return result, nil
}

func (s *Sheet) DeleteQuestion(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return &NotFoundError{Kind: "question", ID: id}
	}

	if err := s.persister.DeleteQuestion(ctx, id); err != nil {
		return &PersistenceError{Op: "delete question", Err: err}
	}

	delete(s.questions, id)
	s.questionOrder[q.SubTopicID] = removeID(s.questionOrder[q.SubTopicID], id)
	if len(s.questionOrder[q.SubTopicID]) == 0 {
		delete(s.questionOrder, q.SubTopicID)
	}
	return nil
}

// ── Reorder ──

// ReorderTopics commits a full permutation of the root container. The update
// set must cover exactly the current topic ids; positions come from the order
// values, stable on ties. A no-op permutation writes nothing.
func (s *Sheet) ReorderTopics(ctx context.Context, updates []store.OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, err := permutationOf(s.topicOrder, updates)
	if err != nil {
		return err
	}
	if equalSeq(seq, s.topicOrder) {
		return nil
	}

	if err := s.persister.ReorderTopics(ctx, normalized(seq)); err != nil {
		return &PersistenceError{Op: "reorder topics", Err: err}
	}

	s.topicOrder = seq
	for i, id := range seq {
		t := s.topics[id]
		t.Order = i
		s.topics[id] = t
	}
	return nil
}

func (s *Sheet) ReorderSubTopics(ctx context.Context, topicID string, updates []store.OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.topics[topicID]; !ok {
		return &NotFoundError{Kind: "topic", ID: topicID}
	}

	seq, err := permutationOf(s.subTopicOrder[topicID], updates)
	if err != nil {
		return err
	}
	if equalSeq(seq, s.subTopicOrder[topicID]) {
		return nil
	}

	if err := s.persister.ReorderSubTopics(ctx, topicID, normalized(seq)); err != nil {
		return &PersistenceError{Op: "reorder sub topics", Err: err}
	}

	s.subTopicOrder[topicID] = seq
	for i, id := range seq {
		st := s.subTopics[id]
		st.Order = i
		s.subTopics[id] = st
	}
	return nil
}

func (s *Sheet) ReorderQuestions(ctx context.Context, subTopicID string, updates []store.OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subTopics[subTopicID]; !ok {
		return &NotFoundError{Kind: "sub topic", ID: subTopicID}
	}

	seq, err := permutationOf(s.questionOrder[subTopicID], updates)
	if err != nil {
		return err
	}
	if equalSeq(seq, s.questionOrder[subTopicID]) {
		return nil
	}

	if err := s.persister.ReorderQuestions(ctx, subTopicID, normalized(seq)); err != nil {
		return &PersistenceError{Op: "reorder questions", Err: err}
	}

	s.questionOrder[subTopicID] = seq
	for i, id := range seq {
		q := s.questions[id]
		q.Order = i
		s.questions[id] = q
	}
	return nil
}

// ── Move ──

// MoveTopic splices one topic to a new position among its siblings: the
// dragged id is removed from its current slot and reinserted at the target
// index. Moving to the current position writes nothing.
func (s *Sheet) MoveTopic(ctx context.Context, id string, toIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := indexOf(s.topicOrder, id)
	if from < 0 {
		return &NotFoundError{Kind: "topic", ID: id}
	}
	to := clampIndex(toIndex, len(s.topicOrder))
	if from == to {
		return nil
	}

	seq := spliceMove(s.topicOrder, from, to)
	if err := s.persister.ReorderTopics(ctx, normalized(seq)); err != nil {
		return &PersistenceError{Op: "move topic", Err: err}
	}

	s.topicOrder = seq
	for i, tid := range seq {
		t := s.topics[tid]
		t.Order = i
		s.topics[tid] = t
	}
	return nil
}

func (s *Sheet) MoveSubTopic(ctx context.Context, id, targetTopicID string, toIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.subTopics[id]
	if !ok {
		return &NotFoundError{Kind: "sub topic", ID: id}
	}
	if targetTopicID != "" && targetTopicID != st.TopicID {
		return &UnsupportedOperationError{
			Message: "sub topic " + id + " cannot be moved from topic " + st.TopicID + " to topic " + targetTopicID,
		}
	}

	siblings := s.subTopicOrder[st.TopicID]
	from := indexOf(siblings, id)
	to := clampIndex(toIndex, len(siblings))
	if from == to {
		return nil
	}

	seq := spliceMove(siblings, from, to)
	if err := s.persister.ReorderSubTopics(ctx, st.TopicID, normalized(seq)); err != nil {
		return &PersistenceError{Op: "move sub topic", Err: err}
	}

	s.subTopicOrder[st.TopicID] = seq
	for i, sid := range seq {
		sib := s.subTopics[sid]
		sib.Order = i
		s.subTopics[sid] = sib
	}
	return nil
}

func (s *Sheet) MoveQuestion(ctx context.Context, id, targetSubTopicID string, toIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return &NotFoundError{Kind: "question", ID: id}
	}
	if targetSubTopicID != "" && targetSubTopicID != q.SubTopicID {
		return &UnsupportedOperationError{
			Message: "question " + id + " cannot be moved from sub topic " + q.SubTopicID + " to sub topic " + targetSubTopicID,
		}
	}

	siblings := s.questionOrder[q.SubTopicID]
	from := indexOf(siblings, id)
	to := clampIndex(toIndex, len(siblings))
	if from == to {
		return nil
	}

	seq := spliceMove(siblings, from, to)
	if err := s.persister.ReorderQuestions(ctx, q.SubTopicID, normalized(seq)); err != nil {
		return &PersistenceError{Op: "move question", Err: err}
	}

	s.questionOrder[q.SubTopicID] = seq
	for i, qid := range seq {
		sib := s.questions[qid]
		sib.Order = i
		s.questions[qid] = sib
	}
	return nil
}

// ── Reads ──

func (s *Sheet) Topic(id string) (store.Topic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.topics[id]
	return t, ok
}

func (s *Sheet) SubTopic(id string) (store.SubTopic, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.subTopics[id]
	return st, ok
}

func (s *Sheet) Question(id string) (store.Question, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	return q, ok
}

// Snapshot returns all entities in display order at every level.
func (s *Sheet) Snapshot() ([]store.Topic, []store.SubTopic, []store.Question) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	topics := make([]store.Topic, 0, len(s.topicOrder))
	subTopics := make([]store.SubTopic, 0, len(s.subTopics))
	questions := make([]store.Question, 0, len(s.questions))

	for _, tid := range s.topicOrder {
		topics = append(topics, s.topics[tid])
		for _, sid := range s.subTopicOrder[tid] {
			subTopics = append(subTopics, s.subTopics[sid])
			for _, qid := range s.questionOrder[sid] {
				questions = append(questions, s.questions[qid])
			}
		}
	}
	return topics, subTopics, questions
}

// Clear drops all entities and index entries, persisted.
func (s *Sheet) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persister.Clear(ctx); err != nil {
		return &PersistenceError{Op: "clear sheet", Err: err}
	}

	s.topics = make(map[string]store.Topic)
	s.subTopics = make(map[string]store.SubTopic)
	s.questions = make(map[string]store.Question)
	s.topicOrder = nil
	s.subTopicOrder = make(map[string][]string)
	s.questionOrder = make(map[string][]string)
	return nil
}

// ── Helpers ──

// permutationOf validates that updates cover exactly the ids in current and
// returns the new sequence sorted by the requested order values, stable on
// ties.
func permutationOf(current []string, updates []store.OrderUpdate) ([]string, error) {
	if len(updates) != len(current) {
		return nil, validationf("reorder must cover all %d siblings, got %d", len(current), len(updates))
	}

	members := make(map[string]bool, len(current))
	for _, id := range current {
		members[id] = true
	}

	seen := make(map[string]bool, len(updates))
	sorted := append([]store.OrderUpdate(nil), updates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	seq := make([]string, 0, len(sorted))
	for _, u := range sorted {
		if !members[u.ID] {
			return nil, validationf("id %s is not a sibling of this container", u.ID)
		}
		if seen[u.ID] {
			return nil, validationf("id %s appears more than once", u.ID)
		}
		seen[u.ID] = true
		seq = append(seq, u.ID)
	}
	return seq, nil
}

// normalized assigns consecutive 0..N-1 order values by position.
func normalized(seq []string) []store.OrderUpdate {
	updates := make([]store.OrderUpdate, len(seq))
	for i, id := range seq {
		updates[i] = store.OrderUpdate{ID: id, Order: i}
	}
	return updates
}

func equalSeq(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexOf(seq []string, id string) int {
	for i, v := range seq {
		if v == id {
			return i
		}
	}
	return -1
}

func removeID(seq []string, id string) []string {
	out := seq[:0]
	for _, v := range seq {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func spliceMove(seq []string, from, to int) []string {
	out := make([]string, 0, len(seq))
	out = append(out, seq[:from]...)
	out = append(out, seq[from+1:]...)
	out = append(out[:to], append([]string{seq[from]}, out[to:]...)...)
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}
