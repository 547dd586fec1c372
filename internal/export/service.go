package export

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"questsheet/api/internal/store"
)

// BuildDocument assembles the export document with computed statistics.
func BuildDocument(s Snapshot) Document {
	doc := Document{
		ExportedAt: time.Now().UTC(),
		Version:    documentVersion,
		Data: Data{
			Topics:    s.Topics,
			SubTopics: s.SubTopics,
			Questions: s.Questions,
		},
		Statistics: buildStatistics(s),
	}
	if doc.Data.Topics == nil {
		doc.Data.Topics = []store.Topic{}
	}
	if doc.Data.SubTopics == nil {
		doc.Data.SubTopics = []store.SubTopic{}
	}
	if doc.Data.Questions == nil {
		doc.Data.Questions = []store.Question{}
	}
	return doc
}

func buildStatistics(s Snapshot) Statistics {
	stats := Statistics{
		TotalTopics:    len(s.Topics),
		TotalSubTopics: len(s.SubTopics),
		TotalQuestions: len(s.Questions),
	}
	for _, q := range s.Questions {
		if q.Status == store.StatusDone {
			stats.CompletedQuestions++
		}
	}
	if stats.TotalQuestions > 0 {
		stats.CompletionRate = math.Round(float64(stats.CompletedQuestions) / float64(stats.TotalQuestions) * 100)
	}
	return stats
}

// JSON renders the snapshot as the round-trippable export document.
func JSON(s Snapshot) (*Result, error) {
	doc := BuildDocument(s)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export document: %w", err)
	}
	return &Result{
		Data:     data,
		Filename: exportFilename("json"),
		MimeType: "application/json",
	}, nil
}

func exportFilename(ext string) string {
	return "question-sheet-" + time.Now().UTC().Format("2006-01-02") + "." + ext
}
