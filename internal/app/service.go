package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"questsheet/api/internal/export"
	"questsheet/api/internal/importer"
	"questsheet/api/internal/search"
	"questsheet/api/internal/sheet"
	"questsheet/api/internal/store"
)

// SearchProvider keeps the question search index in sync and answers global
// search requests.
type SearchProvider interface {
	Search(q search.Query) search.Response
	IndexQuestion(record search.QuestionRecord)
	DeleteQuestions(ids []string)
	ReindexAll(records []search.QuestionRecord)
}

// Archiver uploads export files to object storage.
type Archiver interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Service wires the sheet to search indexing, export, import and archival.
type Service struct {
	sheet     *sheet.Sheet
	persister sheet.Persister
	search    SearchProvider
	archive   Archiver
	importer  *importer.Importer
	external  *importer.Client
}

func NewService(s *sheet.Sheet, persister sheet.Persister, searchSvc SearchProvider, archive Archiver, imp *importer.Importer, external *importer.Client) *Service {
	return &Service{
		sheet:     s,
		persister: persister,
		search:    searchSvc,
		archive:   archive,
		importer:  imp,
		external:  external,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.persister.Ping(ctx)
}

// ── Tree and progress ──

func (s *Service) Tree(f sheet.Filter) []sheet.TopicView {
	return s.sheet.Tree(f)
}

func (s *Service) Questions(f sheet.Filter) []store.Question {
	return s.sheet.Questions(f)
}

func (s *Service) Progress() sheet.Progress {
	return s.sheet.Progress()
}

// ── Topics ──

func (s *Service) CreateTopic(ctx context.Context, in sheet.CreateTopicInput) (store.Topic, error) {
	return s.sheet.CreateTopic(ctx, in)
}

func (s *Service) UpdateTopic(ctx context.Context, id string, patch sheet.TopicPatch) (store.Topic, error) {
	return s.sheet.UpdateTopic(ctx, id, patch)
}

func (s *Service) DeleteTopic(ctx context.Context, id string) error {
	result, err := s.sheet.DeleteTopic(ctx, id)
	if err != nil {
		return err
	}
	s.search.DeleteQuestions(result.QuestionIDs)
	return nil
}

func (s *Service) ReorderTopics(ctx context.Context, updates []store.OrderUpdate) error {
	return s.sheet.ReorderTopics(ctx, updates)
}

func (s *Service) MoveTopic(ctx context.Context, id string, toIndex int) error {
	return s.sheet.MoveTopic(ctx, id, toIndex)
}

// ── SubTopics ──

func (s *Service) CreateSubTopic(ctx context.Context, in sheet.CreateSubTopicInput) (store.SubTopic, error) {
	return s.sheet.CreateSubTopic(ctx, in)
}

func (s *Service) UpdateSubTopic(ctx context.Context, id string, patch sheet.SubTopicPatch) (store.SubTopic, error) {
	return s.sheet.UpdateSubTopic(ctx, id, patch)
}

func (s *Service) DeleteSubTopic(ctx context.Context, id string) error {
	result, err := s.sheet.DeleteSubTopic(ctx, id)
	if err != nil {
		return err
	}
	s.search.DeleteQuestions(result.QuestionIDs)
	return nil
}

func (s *Service) ReorderSubTopics(ctx context.Context, topicID string, updates []store.OrderUpdate) error {
	return s.sheet.ReorderSubTopics(ctx, topicID, updates)
}

func (s *Service) MoveSubTopic(ctx context.Context, id, targetTopicID string, toIndex int) error {
	return s.sheet.MoveSubTopic(ctx, id, targetTopicID, toIndex)
}

// ── Questions ──

func (s *Service) CreateQuestion(ctx context.Context, in sheet.CreateQuestionInput) (store.Question, error) {
	q, err := s.sheet.CreateQuestion(ctx, in)
	if err != nil {
		return store.Question{}, err
	}
	s.search.IndexQuestion(s.questionRecord(q))
	return q, nil
}

func (s *Service) UpdateQuestion(ctx context.Context, id string, patch sheet.QuestionPatch) (store.Question, error) {
	q, err := s.sheet.UpdateQuestion(ctx, id, patch)
	if err != nil {
		return store.Question{}, err
	}
	s.search.IndexQuestion(s.questionRecord(q))
	return q, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, id string) error {
	if err := s.sheet.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	s.search.DeleteQuestions([]string{id})
	return nil
}

func (s *Service) ReorderQuestions(ctx context.Context, subTopicID string, updates []store.OrderUpdate) error {
	return s.sheet.ReorderQuestions(ctx, subTopicID, updates)
}

func (s *Service) MoveQuestion(ctx context.Context, id, targetSubTopicID string, toIndex int) error {
	return s.sheet.MoveQuestion(ctx, id, targetSubTopicID, toIndex)
}

// ── Search ──

func (s *Service) Search(q search.Query) search.Response {
	return s.search.Search(q)
}

// ReindexAll rebuilds the search index from the full sheet. Called on
// bootstrap and after imports.
func (s *Service) ReindexAll() {
	s.search.ReindexAll(s.searchRecords())
}

func (s *Service) searchRecords() []search.QuestionRecord {
	_, _, questions := s.sheet.Snapshot()
	records := make([]search.QuestionRecord, 0, len(questions))
	for _, q := range questions {
		records = append(records, s.questionRecord(q))
	}
	return records
}

func (s *Service) questionRecord(q store.Question) search.QuestionRecord {
	topicID := ""
	if st, ok := s.sheet.SubTopic(q.SubTopicID); ok {
		topicID = st.TopicID
	}
	return search.QuestionRecord{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Tags:        q.Tags,
		SubTopicID:  q.SubTopicID,
		TopicID:     topicID,
		Difficulty:  q.Difficulty,
		Status:      q.Status,
	}
}

// ── Export ──

func (s *Service) snapshot() export.Snapshot {
	topics, subTopics, questions := s.sheet.Snapshot()
	return export.Snapshot{Topics: topics, SubTopics: subTopics, Questions: questions}
}

func (s *Service) Export(format string) (*export.Result, error) {
	snap := s.snapshot()
	switch format {
	case "", "json":
		return export.JSON(snap)
	case "xlsx":
		return export.XLSX(snap)
	case "pdf":
		return export.PDF(snap)
	default:
		return nil, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "format must be one of json, xlsx, pdf", nil)
	}
}

// ArchiveExport builds an export and uploads it to object storage, returning
// the object key.
func (s *Service) ArchiveExport(ctx context.Context, format string) (string, error) {
	if s.archive == nil {
		return "", domainError(http.StatusServiceUnavailable, "ARCHIVE_UNAVAILABLE", "Export archive is not configured", nil)
	}
	result, err := s.Export(format)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s/%s", time.Now().UTC().Format("2006/01/02"), result.Filename)
	return s.archive.Upload(ctx, key, result.Data, result.MimeType)
}

// ── Import ──

func (s *Service) Import(ctx context.Context, raw []byte) (importer.Summary, error) {
	summary, err := s.importer.Import(ctx, raw)
	if err != nil {
		return importer.Summary{}, err
	}
	s.ReindexAll()
	return summary, nil
}

// FetchExternalSheet returns the raw external document without importing it.
func (s *Service) FetchExternalSheet(ctx context.Context) ([]byte, error) {
	if !s.external.Configured() {
		return nil, domainError(http.StatusServiceUnavailable, "EXTERNAL_SHEET_UNAVAILABLE", "External sheet source is not configured", nil)
	}
	return s.external.Fetch(ctx)
}

// ImportExternal fetches the configured external document and imports it.
func (s *Service) ImportExternal(ctx context.Context) (importer.Summary, error) {
	raw, err := s.FetchExternalSheet(ctx)
	if err != nil {
		return importer.Summary{}, err
	}
	return s.Import(ctx, raw)
}

// ── Reset ──

// ClearSheet removes all content and the matching search index entries.
func (s *Service) ClearSheet(ctx context.Context) error {
	_, _, questions := s.sheet.Snapshot()
	if err := s.sheet.Clear(ctx); err != nil {
		return err
	}
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	s.search.DeleteQuestions(ids)
	return nil
}
