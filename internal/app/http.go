package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"questsheet/api/internal/export"
	"questsheet/api/internal/ratelimit"
	"questsheet/api/internal/search"
	"questsheet/api/internal/sheet"
	"questsheet/api/internal/store"
)

const maxImportBody = 32 << 20

type HTTPServer struct {
	service    *Service
	corsOrigin string
	limiter    *ratelimit.Limiter
}

// NewHTTPServer creates the API handler. limiter may be nil to disable rate
// limiting.
func NewHTTPServer(service *Service, corsOrigin string, limiter *ratelimit.Limiter) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin, limiter: limiter}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"store": map[string]any{"status": "ok"},
		}

		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["store"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/progress" {
		writeJSON(w, http.StatusOK, s.service.Progress())
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/topics" {
		view := s.service.Tree(sheet.Filter{
			Query:      strings.TrimSpace(r.URL.Query().Get("q")),
			Difficulty: strings.TrimSpace(r.URL.Query().Get("difficulty")),
			Status:     strings.TrimSpace(r.URL.Query().Get("status")),
		})
		writeJSON(w, http.StatusOK, map[string]any{"topics": view})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/questions/search/global" {
		s.handleGlobalSearch(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/questions" {
		questions := s.service.Questions(sheet.Filter{
			Query:      strings.TrimSpace(r.URL.Query().Get("search")),
			Difficulty: strings.TrimSpace(r.URL.Query().Get("difficulty")),
			Status:     strings.TrimSpace(r.URL.Query().Get("status")),
			SubTopicID: strings.TrimSpace(r.URL.Query().Get("subTopicId")),
		})
		writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/export" {
		s.handleExport(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/export/archive" {
		var body struct {
			Format string `json:"format"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		key, err := s.service.ArchiveExport(r.Context(), body.Format)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"key": key})
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/external/sheet" {
		raw, err := s.service.FetchExternalSheet(r.Context())
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(raw)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/import" {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxImportBody))
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", "could not read request body", nil)
			return
		}
		summary, err := s.service.Import(r.Context(), raw)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, summary)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/import/external" {
		summary, err := s.service.ImportExternal(r.Context())
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, summary)
		return
	}

	if r.Method == http.MethodDelete && r.URL.Path == "/api/sheet" {
		if err := s.service.ClearSheet(r.Context()); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	parts := splitPath(r.URL.Path)

	if len(parts) >= 2 && parts[0] == "api" {
		switch parts[1] {
		case "topics":
			s.handleTopics(w, r, parts[2:])
			return
		case "subtopics":
			s.handleSubTopics(w, r, parts[2:])
			return
		case "questions":
			s.handleQuestions(w, r, parts[2:])
			return
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleGlobalSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "q is required", nil)
		return
	}

	limit := 20
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "limit must be a non-negative integer", nil)
			return
		}
		limit = parsed
	}
	offset := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("offset")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "offset must be a non-negative integer", nil)
			return
		}
		offset = parsed
	}

	payload := s.service.Search(search.Query{
		Text:       q,
		Difficulty: strings.TrimSpace(r.URL.Query().Get("difficulty")),
		Status:     strings.TrimSpace(r.URL.Query().Get("status")),
		SubTopicID: strings.TrimSpace(r.URL.Query().Get("subTopicId")),
		Limit:      limit,
		Offset:     offset,
	})
	writeJSON(w, http.StatusOK, payload)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	format := strings.TrimSpace(r.URL.Query().Get("format"))
	result, err := s.service.Export(format)
	if err != nil {
		if errors.Is(err, export.ErrPDFDependencyMissing) {
			writeError(w, http.StatusServiceUnavailable, "PDF_UNAVAILABLE", "PDF rendering is not available", nil)
			return
		}
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+result.Filename+"\"")
	w.Header().Set("Content-Type", result.MimeType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (s *HTTPServer) handleTopics(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) == 0 {
		if r.Method == http.MethodPost {
			var body struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				Color       string `json:"color"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			topic, err := s.service.CreateTopic(r.Context(), sheet.CreateTopicInput{
				Title:       body.Title,
				Description: body.Description,
				Color:       body.Color,
			})
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusCreated, topic)
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	if len(rest) == 1 && rest[0] == "reorder" && r.Method == http.MethodPut {
		var body struct {
			Topics []store.OrderUpdate `json:"topics"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.ReorderTopics(r.Context(), body.Topics); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if len(rest) == 1 {
		id := rest[0]
		switch r.Method {
		case http.MethodPut:
			var body struct {
				Title       *string `json:"title"`
				Description *string `json:"description"`
				Color       *string `json:"color"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			topic, err := s.service.UpdateTopic(r.Context(), id, sheet.TopicPatch{
				Title:       body.Title,
				Description: body.Description,
				Color:       body.Color,
			})
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, topic)
			return
		case http.MethodDelete:
			if err := s.service.DeleteTopic(r.Context(), id); err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	if len(rest) == 2 && rest[1] == "move" && r.Method == http.MethodPut {
		var body struct {
			ToIndex int `json:"toIndex"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.MoveTopic(r.Context(), rest[0], body.ToIndex); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleSubTopics(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) == 0 {
		if r.Method == http.MethodPost {
			var body struct {
				Title       string `json:"title"`
				Description string `json:"description"`
				TopicID     string `json:"topicId"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			subTopic, err := s.service.CreateSubTopic(r.Context(), sheet.CreateSubTopicInput{
				Title:       body.Title,
				Description: body.Description,
				TopicID:     body.TopicID,
			})
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusCreated, subTopic)
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	if len(rest) == 1 && rest[0] == "reorder" && r.Method == http.MethodPut {
		var body struct {
			TopicID   string              `json:"topicId"`
			SubTopics []store.OrderUpdate `json:"subTopics"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.ReorderSubTopics(r.Context(), body.TopicID, body.SubTopics); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if len(rest) == 1 {
		id := rest[0]
		switch r.Method {
		case http.MethodPut:
			var body struct {
				Title       *string `json:"title"`
				Description *string `json:"description"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			subTopic, err := s.service.UpdateSubTopic(r.Context(), id, sheet.SubTopicPatch{
				Title:       body.Title,
				Description: body.Description,
			})
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, subTopic)
			return
		case http.MethodDelete:
			if err := s.service.DeleteSubTopic(r.Context(), id); err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	if len(rest) == 2 && rest[1] == "move" && r.Method == http.MethodPut {
		var body struct {
			TopicID string `json:"topicId"`
			ToIndex int    `json:"toIndex"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.MoveSubTopic(r.Context(), rest[0], body.TopicID, body.ToIndex); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleQuestions(w http.ResponseWriter, r *http.Request, rest []string) {
	if len(rest) == 0 {
		if r.Method == http.MethodPost {
			var body struct {
				Title       string   `json:"title"`
				Description string   `json:"description"`
				SubTopicID  string   `json:"subTopicId"`
				Difficulty  string   `json:"difficulty"`
				Status      string   `json:"status"`
				Tags        []string `json:"tags"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			question, err := s.service.CreateQuestion(r.Context(), sheet.CreateQuestionInput{
				Title:       body.Title,
				Description: body.Description,
				SubTopicID:  body.SubTopicID,
				Difficulty:  body.Difficulty,
				Status:      body.Status,
				Tags:        body.Tags,
			})
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusCreated, question)
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	if len(rest) == 1 && rest[0] == "reorder" && r.Method == http.MethodPut {
		var body struct {
			SubTopicID string              `json:"subTopicId"`
			Questions  []store.OrderUpdate `json:"questions"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.ReorderQuestions(r.Context(), body.SubTopicID, body.Questions); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if len(rest) == 1 {
		id := rest[0]
		switch r.Method {
		case http.MethodPut:
			var body struct {
				Title       *string   `json:"title"`
				Description *string   `json:"description"`
				Difficulty  *string   `json:"difficulty"`
				Status      *string   `json:"status"`
				Tags        *[]string `json:"tags"`
			}
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			question, err := s.service.UpdateQuestion(r.Context(), id, sheet.QuestionPatch{
				Title:       body.Title,
				Description: body.Description,
				Difficulty:  body.Difficulty,
				Status:      body.Status,
				Tags:        body.Tags,
			})
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, question)
			return
		case http.MethodDelete:
			if err := s.service.DeleteQuestion(r.Context(), id); err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	if len(rest) == 2 && rest[1] == "move" && r.Method == http.MethodPut {
		var body struct {
			SubTopicID string `json:"subTopicId"`
			ToIndex    int    `json:"toIndex"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.MoveQuestion(r.Context(), rest[0], body.SubTopicID, body.ToIndex); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		if r.Method != http.MethodOptions {
			allowed, err := s.limiter.Allow(ctx, clientKey(r))
			if err != nil {
				log.Printf("ratelimit: %v", err)
			} else if !allowed {
				writeError(writer, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", nil)
				logRequest(requestID, r, writer.status, started)
				return
			}
		}

		next.ServeHTTP(writer, r)

		logRequest(requestID, r, writer.status, started)
	})
}

func logRequest(requestID string, r *http.Request, status int, started time.Time) {
	log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
		requestID,
		r.Method,
		r.URL.Path,
		status,
		time.Since(started).Milliseconds(),
	)
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	var validationErr *sheet.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", validationErr.Error(), nil
	}
	var notFoundErr *sheet.NotFoundError
	if errors.As(err, &notFoundErr) {
		return http.StatusNotFound, "NOT_FOUND", notFoundErr.Error(), nil
	}
	var persistErr *sheet.PersistenceError
	if errors.As(err, &persistErr) {
		return http.StatusInternalServerError, "PERSISTENCE_ERROR", "Could not persist changes", nil
	}
	var unsupportedErr *sheet.UnsupportedOperationError
	if errors.As(err, &unsupportedErr) {
		return http.StatusUnprocessableEntity, "UNSUPPORTED_OPERATION", unsupportedErr.Error(), nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
