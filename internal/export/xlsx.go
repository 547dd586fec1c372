package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSX renders the snapshot as a workbook with one sheet per entity level.
func XLSX(s Snapshot) (*Result, error) {
	f := excelize.NewFile()
	defer f.Close()

	topicTitles := make(map[string]string, len(s.Topics))
	for _, t := range s.Topics {
		topicTitles[t.ID] = t.Title
	}
	subTopicTitles := make(map[string]string, len(s.SubTopics))
	for _, st := range s.SubTopics {
		subTopicTitles[st.ID] = st.Title
	}

	if err := writeRows(f, "Topics", [][]any{{"Title", "Description", "Color", "Order"}}, func(rows [][]any) [][]any {
		for _, t := range s.Topics {
			rows = append(rows, []any{t.Title, t.Description, t.Color, t.Order})
		}
		return rows
	}); err != nil {
		return nil, err
	}

	if err := writeRows(f, "SubTopics", [][]any{{"Title", "Description", "Topic", "Order"}}, func(rows [][]any) [][]any {
		for _, st := range s.SubTopics {
			rows = append(rows, []any{st.Title, st.Description, topicTitles[st.TopicID], st.Order})
		}
		return rows
	}); err != nil {
		return nil, err
	}

	if err := writeRows(f, "Questions", [][]any{{"Title", "Description", "SubTopic", "Difficulty", "Status", "Tags", "Order"}}, func(rows [][]any) [][]any {
		for _, q := range s.Questions {
			rows = append(rows, []any{
				q.Title, q.Description, subTopicTitles[q.SubTopicID],
				q.Difficulty, q.Status, strings.Join(q.Tags, ", "), q.Order,
			})
		}
		return rows
	}); err != nil {
		return nil, err
	}

	// Drop the default sheet created by excelize.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return &Result{
		Data:     buf.Bytes(),
		Filename: exportFilename("xlsx"),
		MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}, nil
}

func writeRows(f *excelize.File, sheetName string, header [][]any, fill func([][]any) [][]any) error {
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheetName, err)
	}
	rows := fill(header)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d of %s: %w", i+1, sheetName, err)
		}
	}
	return nil
}
