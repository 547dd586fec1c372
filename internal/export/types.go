// Package export serializes the current sheet into downloadable documents:
// a round-trippable JSON snapshot, an XLSX workbook and a printable PDF
// progress report.
package export

import (
	"errors"
	"time"

	"questsheet/api/internal/store"
)

const documentVersion = "1.0"

// Snapshot is the sheet content handed to the exporters, already in display
// order at every level.
type Snapshot struct {
	Topics    []store.Topic
	SubTopics []store.SubTopic
	Questions []store.Question
}

// Document is the self-describing JSON export shape. Its data section is the
// structural inverse of the import document, so an export can be re-imported.
type Document struct {
	ExportedAt time.Time  `json:"exportedAt"`
	Version    string     `json:"version"`
	Data       Data       `json:"data"`
	Statistics Statistics `json:"statistics"`
}

type Data struct {
	Topics    []store.Topic    `json:"topics"`
	SubTopics []store.SubTopic `json:"subTopics"`
	Questions []store.Question `json:"questions"`
}

type Statistics struct {
	TotalTopics        int     `json:"totalTopics"`
	TotalSubTopics     int     `json:"totalSubTopics"`
	TotalQuestions     int     `json:"totalQuestions"`
	CompletedQuestions int     `json:"completedQuestions"`
	CompletionRate     float64 `json:"completionRate"`
}

// Result contains the export output.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// ErrPDFDependencyMissing indicates PDF export runtime dependencies are
// unavailable.
var ErrPDFDependencyMissing = errors.New("export pdf dependency missing")
