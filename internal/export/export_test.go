package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"questsheet/api/internal/store"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Topics: []store.Topic{
			{ID: "t1", Title: "Arrays", Color: store.DefaultColor, Order: 0},
		},
		SubTopics: []store.SubTopic{
			{ID: "s1", Title: "Hashing", TopicID: "t1", Order: 0},
		},
		Questions: []store.Question{
			{ID: "q1", Title: "Two Sum", SubTopicID: "s1", Difficulty: store.DifficultyEasy, Status: store.StatusDone, Tags: []string{"array"}},
			{ID: "q2", Title: "3Sum", SubTopicID: "s1", Difficulty: store.DifficultyMedium, Status: store.StatusTodo, Tags: []string{}},
		},
	}
}

func TestBuildDocumentStatistics(t *testing.T) {
	doc := BuildDocument(testSnapshot())

	if doc.Version != documentVersion {
		t.Errorf("expected version %s, got %s", documentVersion, doc.Version)
	}
	stats := doc.Statistics
	if stats.TotalTopics != 1 || stats.TotalSubTopics != 1 || stats.TotalQuestions != 2 {
		t.Errorf("unexpected totals %d/%d/%d", stats.TotalTopics, stats.TotalSubTopics, stats.TotalQuestions)
	}
	if stats.CompletedQuestions != 1 {
		t.Errorf("expected 1 completed, got %d", stats.CompletedQuestions)
	}
	if stats.CompletionRate != 50 {
		t.Errorf("expected completion rate 50, got %v", stats.CompletionRate)
	}
}

func TestBuildDocumentEmptySnapshot(t *testing.T) {
	doc := BuildDocument(Snapshot{})

	if doc.Data.Topics == nil || doc.Data.SubTopics == nil || doc.Data.Questions == nil {
		t.Error("expected empty slices, not nulls")
	}
	if doc.Statistics.CompletionRate != 0 {
		t.Errorf("expected rate 0 for empty sheet, got %v", doc.Statistics.CompletionRate)
	}
}

func TestJSONRoundTrips(t *testing.T) {
	result, err := JSON(testSnapshot())
	if err != nil {
		t.Fatalf("json export: %v", err)
	}
	if result.MimeType != "application/json" {
		t.Errorf("unexpected mime type %s", result.MimeType)
	}

	var doc Document
	if err := json.Unmarshal(result.Data, &doc); err != nil {
		t.Fatalf("decode exported document: %v", err)
	}
	if len(doc.Data.Topics) != 1 || len(doc.Data.Questions) != 2 {
		t.Errorf("round trip lost entities: %d topics, %d questions", len(doc.Data.Topics), len(doc.Data.Questions))
	}
	if doc.Data.Questions[0].Title != "Two Sum" {
		t.Errorf("unexpected first question %q", doc.Data.Questions[0].Title)
	}
}

func TestXLSXWorkbook(t *testing.T) {
	result, err := XLSX(testSnapshot())
	if err != nil {
		t.Fatalf("xlsx export: %v", err)
	}
	if len(result.Data) == 0 {
		t.Fatal("expected workbook bytes")
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(result.Data, []byte("PK")) {
		t.Error("expected zip magic at start of workbook")
	}
}

func TestRenderReportHTML(t *testing.T) {
	html, err := RenderReportHTML(buildReportData(testSnapshot()))
	if err != nil {
		t.Fatalf("render report: %v", err)
	}
	for _, want := range []string{"Arrays", "Hashing", "Two Sum", "50%"} {
		if !bytes.Contains([]byte(html), []byte(want)) {
			t.Errorf("report missing %q", want)
		}
	}
}
