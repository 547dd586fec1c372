package export

import (
	"bytes"
	"html/template"
)

var reportTemplate = template.Must(template.New("report").Parse(reportHTML))

// ReportData holds data for progress report rendering.
type ReportData struct {
	GeneratedAt string
	Stats       Statistics
	Topics      []ReportTopic
}

type ReportTopic struct {
	Title     string
	Color     string
	SubTopics []ReportSubTopic
}

type ReportSubTopic struct {
	Title     string
	Questions []ReportQuestion
}

type ReportQuestion struct {
	Title      string
	Difficulty string
	Status     string
}

// RenderReportHTML renders the printable progress report.
func RenderReportHTML(data ReportData) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const reportHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Question Sheet Progress</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.5; max-width: 800px; margin: 2rem auto; color: #1f2937; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    .meta { color: #666; font-size: 0.9em; margin-bottom: 1.5rem; }
    .stats { background: #f5f5f5; padding: 1rem; margin-bottom: 2rem; }
    .stats span { margin-right: 1.5rem; }
    h2 { margin-bottom: 0.25rem; }
    .subtopic { margin-left: 1rem; }
    table { border-collapse: collapse; width: 100%; margin: 0.5rem 0 1rem; }
    th, td { text-align: left; border-bottom: 1px solid #ddd; padding: 0.3rem 0.5rem; font-size: 0.9em; }
    .done { color: #15803d; }
    .revising { color: #b45309; }
  </style>
</head>
<body>
  <h1>Question Sheet Progress</h1>
  <div class="meta">Generated {{.GeneratedAt}}</div>
  <div class="stats">
    <span><strong>{{.Stats.TotalQuestions}}</strong> questions</span>
    <span><strong>{{.Stats.CompletedQuestions}}</strong> completed</span>
    <span><strong>{{.Stats.CompletionRate}}%</strong> completion</span>
  </div>
  {{range .Topics}}
  <h2 style="color: {{.Color}}">{{.Title}}</h2>
  {{range .SubTopics}}
  <div class="subtopic">
    <h3>{{.Title}}</h3>
    {{if .Questions}}
    <table>
      <tr><th>Question</th><th>Difficulty</th><th>Status</th></tr>
      {{range .Questions}}
      <tr>
        <td>{{.Title}}</td>
        <td>{{.Difficulty}}</td>
        <td class="{{if eq .Status "Done"}}done{{else if eq .Status "Revising"}}revising{{end}}">{{.Status}}</td>
      </tr>
      {{end}}
    </table>
    {{end}}
  </div>
  {{end}}
  {{end}}
</body>
</html>`
