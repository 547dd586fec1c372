package export

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDF renders the snapshot as a printable progress report via headless Chrome.
func PDF(s Snapshot) (*Result, error) {
	html, err := RenderReportHTML(buildReportData(s))
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return renderPDF(html)
}

func buildReportData(s Snapshot) ReportData {
	subTopicsByTopic := make(map[string][]ReportSubTopic)
	questionsBySubTopic := make(map[string][]ReportQuestion)

	for _, q := range s.Questions {
		questionsBySubTopic[q.SubTopicID] = append(questionsBySubTopic[q.SubTopicID], ReportQuestion{
			Title:      q.Title,
			Difficulty: q.Difficulty,
			Status:     q.Status,
		})
	}
	for _, st := range s.SubTopics {
		subTopicsByTopic[st.TopicID] = append(subTopicsByTopic[st.TopicID], ReportSubTopic{
			Title:     st.Title,
			Questions: questionsBySubTopic[st.ID],
		})
	}

	data := ReportData{
		GeneratedAt: time.Now().UTC().Format("Jan 2, 2006 15:04 UTC"),
		Stats:       buildStatistics(s),
	}
	for _, t := range s.Topics {
		data.Topics = append(data.Topics, ReportTopic{
			Title:     t.Title,
			Color:     t.Color,
			SubTopics: subTopicsByTopic[t.ID],
		})
	}
	return data
}

// percentEncodeForDataURL encodes a string for use in a data URL. Unlike
// url.QueryEscape it encodes spaces as %20, which data URLs require.
func percentEncodeForDataURL(s string) string {
	var result strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '-', r == '_', r == '.', r == '~':
			result.WriteRune(r)
		case r == ' ':
			result.WriteString("%20")
		default:
			for _, b := range string(r) {
				result.WriteString(fmt.Sprintf("%%%02X", b))
			}
		}
	}
	return result.String()
}

func renderPDF(html string) (*Result, error) {
	if _, err := exec.LookPath("chromium-browser"); err != nil {
		if _, fallbackErr := exec.LookPath("chromium"); fallbackErr != nil {
			return nil, fmt.Errorf("%w: chromium not installed", ErrPDFDependencyMissing)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	dataURL := "data:text/html;charset=utf-8," + percentEncodeForDataURL(html)

	var pdfData []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfData, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.5).
				WithPaperHeight(11.0).
				WithMarginTop(0.75).
				WithMarginBottom(0.75).
				WithMarginLeft(0.75).
				WithMarginRight(0.75).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome pdf generation failed: %w", err)
	}

	return &Result{
		Data:     pdfData,
		Filename: exportFilename("pdf"),
		MimeType: "application/pdf",
	}, nil
}
