package docgen

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// ReviewCopyData describes the manuscript package sent to reviewers.
// The header carries the full submission front matter: author list with
// co-authors, article type, the assigned reviewer, and both dates.
type ReviewCopyData struct {
	ManuscriptID string
	Title        string
	Authors      string // lead author plus co-authors, comma separated
	ArticleType  string
	Abstract     string
	Keywords     string
	Category     string
	Body         string // plain text extracted from the manuscript
	Reviewer     string
	ReceivedDate string
	Deadline     string
	JournalName  string
}

var reviewCopyTmpl = template.Must(template.New("review_copy").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"/><title>Review Copy {{.ManuscriptID}}</title></head>
<body style="margin:0;padding:0;font-family:'Georgia',serif;color:#1a1a1a;">
<div style="max-width:{{.PageW}}px;margin:0 auto;padding:48px 64px;box-sizing:border-box;">
  <div style="text-align:center;border-bottom:2px solid #1a2550;padding-bottom:16px;margin-bottom:24px;">
    <div style="font-size:22px;font-weight:700;color:#1a2550;">{{.JournalName}}</div>
    <div style="font-size:12px;color:#666;letter-spacing:0.08em;text-transform:uppercase;margin-top:4px;">Confidential Review Copy &mdash; Not for Distribution</div>
  </div>

  <div style="font-size:13px;color:#555;margin-bottom:20px;">
    Manuscript ID: <strong>{{.ManuscriptID}}</strong><br/>
    Category: {{.Category}}<br/>
    Article type: {{.ArticleType}}<br/>
    Assigned reviewer: {{.Reviewer}}<br/>
    Received: {{.ReceivedDate}}<br/>
    Review deadline: {{.Deadline}}
  </div>

  <h1 style="font-size:{{.TitleSize}}px;color:#1a2550;line-height:1.35;">{{.Title}}</h1>
  {{if .Authors}}<div style="font-size:14px;color:#333;margin-top:6px;">{{.Authors}}</div>{{end}}

  <h2 style="font-size:15px;color:#1a2550;margin-top:24px;">Abstract</h2>
  <p style="font-size:14px;line-height:1.7;">{{.Abstract}}</p>

  {{if .Keywords}}<p style="font-size:13px;"><strong>Keywords:</strong> {{.Keywords}}</p>{{end}}

  <hr style="border:none;border-top:1px solid #ccc;margin:28px 0;"/>

  {{range .Paragraphs}}<p style="font-size:14px;line-height:1.7;">{{.}}</p>
  {{end}}
</div>
</body>
</html>`))

// RenderReviewCopy renders the manuscript review package as HTML. The
// body is split on blank lines into paragraphs.
func RenderReviewCopy(data ReviewCopyData) ([]byte, error) {
	var paragraphs []string
	for _, para := range strings.Split(data.Body, "\n\n") {
		para = strings.TrimSpace(para)
		if para != "" {
			paragraphs = append(paragraphs, para)
		}
	}

	var buf bytes.Buffer
	err := reviewCopyTmpl.Execute(&buf, struct {
		ReviewCopyData
		PageW      int
		TitleSize  int
		Paragraphs []string
	}{
		ReviewCopyData: data,
		PageW:          PageWidth,
		TitleSize:      TitleFontSize(len([]rune(data.Title))),
		Paragraphs:     paragraphs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render review copy: %w", err)
	}
	return buf.Bytes(), nil
}
