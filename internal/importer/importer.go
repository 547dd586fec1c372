package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"questsheet/api/internal/sheet"
	"questsheet/api/internal/store"
)

// Importer replaces the sheet's content with a mapped external document.
type Importer struct {
	sheet *sheet.Sheet
}

func New(s *sheet.Sheet) *Importer {
	return &Importer{sheet: s}
}

// Import validates the raw document, clears the current sheet and recreates
// its content from the mapped fields. Children whose parent cannot be
// resolved are skipped and counted.
func (i *Importer) Import(ctx context.Context, raw []byte) (Summary, error) {
	if err := ValidateDocument(raw); err != nil {
		return Summary{}, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Summary{}, fmt.Errorf("decode import document: %w", err)
	}

	if err := checkTitles(doc); err != nil {
		return Summary{}, err
	}

	if err := i.sheet.Clear(ctx); err != nil {
		return Summary{}, err
	}

	summary := Summary{}

	sortByOrder(doc.Data.Topics, func(k int) *int { return doc.Data.Topics[k].Order })
	topicIDs := make(map[string]string, len(doc.Data.Topics))
	for _, et := range doc.Data.Topics {
		title := firstNonBlank(et.Title, et.Name)
		created, err := i.sheet.CreateTopic(ctx, sheet.CreateTopicInput{
			Title:       title,
			Description: et.Description,
			Color:       et.Color,
		})
		if err != nil {
			return summary, fmt.Errorf("import topic %q: %w", title, err)
		}
		if et.ID != "" {
			topicIDs[et.ID] = created.ID
		}
		summary.Topics++
	}

	sortByOrder(doc.Data.SubTopics, func(k int) *int { return doc.Data.SubTopics[k].Order })
	subTopicIDs := make(map[string]string, len(doc.Data.SubTopics))
	for _, est := range doc.Data.SubTopics {
		parentID, ok := topicIDs[est.TopicID]
		if !ok {
			summary.SkippedSubTopics++
			continue
		}
		title := firstNonBlank(est.Title, est.Name)
		created, err := i.sheet.CreateSubTopic(ctx, sheet.CreateSubTopicInput{
			Title:       title,
			Description: est.Description,
			TopicID:     parentID,
		})
		if err != nil {
			return summary, fmt.Errorf("import sub topic %q: %w", title, err)
		}
		if est.ID != "" {
			subTopicIDs[est.ID] = created.ID
		}
		summary.SubTopics++
	}

	sortByOrder(doc.Data.Questions, func(k int) *int { return doc.Data.Questions[k].Order })
	for _, eq := range doc.Data.Questions {
		parentID, ok := subTopicIDs[eq.SubTopicID]
		if !ok {
			summary.SkippedQuestions++
			continue
		}
		title := firstNonBlank(eq.Title, eq.Name)
		if _, err := i.sheet.CreateQuestion(ctx, sheet.CreateQuestionInput{
			Title:       title,
			Description: firstNonBlank(eq.Description, eq.ProblemStatement),
			SubTopicID:  parentID,
			Difficulty:  eq.Difficulty,
			Status:      mapStatus(eq),
			Tags:        eq.Tags,
		}); err != nil {
			return summary, fmt.Errorf("import question %q: %w", title, err)
		}
		summary.Questions++
	}

	return summary, nil
}

// checkTitles rejects the document before any existing data is cleared: a
// blank title would otherwise fail mid-import, after the sheet is gone.
func checkTitles(doc Document) error {
	for k, et := range doc.Data.Topics {
		if firstNonBlank(et.Title, et.Name) == "" {
			return &sheet.ValidationError{Message: fmt.Sprintf("import document invalid: topics[%d] has no title", k)}
		}
	}
	for k, est := range doc.Data.SubTopics {
		if firstNonBlank(est.Title, est.Name) == "" {
			return &sheet.ValidationError{Message: fmt.Sprintf("import document invalid: subTopics[%d] has no title", k)}
		}
	}
	for k, eq := range doc.Data.Questions {
		if firstNonBlank(eq.Title, eq.Name) == "" {
			return &sheet.ValidationError{Message: fmt.Sprintf("import document invalid: questions[%d] has no title", k)}
		}
	}
	return nil
}

// mapStatus prefers an explicit status; otherwise a completed boolean maps
// to Done/Todo.
func mapStatus(eq ExternalQuestion) string {
	if eq.Status != "" {
		return eq.Status
	}
	if eq.IsCompleted != nil && *eq.IsCompleted {
		return store.StatusDone
	}
	return ""
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// sortByOrder stable-sorts a slice in place by its optional order field;
// entries without one keep their arrival position at the end.
func sortByOrder(slice any, orderAt func(int) *int) {
	sort.SliceStable(slice, func(a, b int) bool {
		oa, ob := orderAt(a), orderAt(b)
		if oa == nil || ob == nil {
			return oa != nil && ob == nil
		}
		return *oa < *ob
	})
}
