// Package document 将报告、总结与推荐渲染为可打印的 HTML 文档。
package document

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/iWorld-y/progress_insight/app/insight/pkg/model"
)

// Data 用于模板渲染的数据
type Data struct {
	Report          *model.Report
	Location        *model.Location
	Recommendations []model.Recommendation
	ParentActions   []model.ParentAction
	// IncludeRecommendations 为 false 时只渲染报告与总结
	IncludeRecommendations bool
	GeneratedAt            time.Time
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Format(time.DateOnly) },
	"rating": func(r *float64) string {
		if r == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.1f", *r)
	},
}

var tpl = template.Must(template.New("report").Funcs(funcs).Parse(htmlTpl))

// Render 渲染文档
func Render(w io.Writer, data Data) error {
	if data.Report == nil {
		return fmt.Errorf("%w: report is required", model.ErrMalformedInput)
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}
	if err := tpl.Execute(w, data); err != nil {
		return fmt.Errorf("render document: %w", err)
	}
	return nil
}

const htmlTpl = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Progress Report | {{.Report.StudentID}}</title>
    <style>
        :root {
            --primary-color: #2563eb;
            --text-main: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
        }
        body { font-family: -apple-system, "Segoe UI", Roboto, Arial, sans-serif; color: var(--text-main); line-height: 1.6; margin: 0; padding: 24px; }
        .container { max-width: 860px; margin: 0 auto; }
        header { border-bottom: 2px solid var(--primary-color); margin-bottom: 24px; }
        .meta { color: var(--text-secondary); }
        section { margin-bottom: 28px; }
        .card { border: 1px solid var(--border-color); border-radius: 8px; padding: 16px; margin-bottom: 12px; }
        .priority-High { border-left: 4px solid #ef4444; }
        .priority-Medium { border-left: 4px solid #f59e0b; }
        .priority-Low { border-left: 4px solid #22c55e; }
        .venues { font-size: 0.9rem; color: var(--text-secondary); }
        @media print { body { padding: 0; } .card { break-inside: avoid; } }
    </style>
</head>
<body>
<div class="container">
    <header>
        <h1>Progress Report</h1>
        <p class="meta">
            Student {{.Report.StudentID}} · Grade {{if .Report.Grade.Resolved}}{{.Report.Grade}}{{else}}not determined{{end}}
            {{with .Report.Term}}· {{.}}{{end}} · Generated {{date .GeneratedAt}}
        </p>
    </header>

    {{with .Report.Summary}}
    <section class="summary">
        <h2>Summary</h2>
        <p>{{.OverallPerformance}}</p>
        {{if .KeyStrengths}}
        <h3>Key Strengths</h3>
        <ul>{{range .KeyStrengths}}<li>{{.}}</li>{{end}}</ul>
        {{end}}
        {{if .AreasNeedingAttention}}
        <h3>Areas Needing Attention</h3>
        <ul>{{range .AreasNeedingAttention}}<li>{{.}}</li>{{end}}</ul>
        {{end}}
        {{if .TeacherHighlights}}
        <h3>Teacher Highlights</h3>
        <ul>{{range .TeacherHighlights}}<li>{{.}}</li>{{end}}</ul>
        {{end}}
    </section>
    {{else}}
    <section class="summary"><p class="meta">No summary has been generated for this report yet.</p></section>
    {{end}}

    {{if .Report.SubjectAreas}}
    <section class="subjects">
        <h2>Subject Areas</h2>
        {{range .Report.SubjectAreas}}
        <div class="card">
            <strong>{{.SubjectName}}</strong>{{with .EffortGrade}} <span class="meta">effort {{.}}</span>{{end}}
            <ul>{{range .Skills}}<li>{{.SkillName}}: {{.Indicator}}</li>{{end}}</ul>
        </div>
        {{end}}
    </section>
    {{end}}

    {{if .IncludeRecommendations}}
    <section class="recommendations">
        <h2>Recommended Activities</h2>
        {{with .Location}}{{if .Resolved}}<p class="meta">Venues near {{if .Address}}{{.Address}}{{else}}the supplied location{{end}}</p>{{end}}{{end}}
        {{range .Recommendations}}
        <div class="card priority-{{.Priority}}">
            <strong>{{.Name}}</strong> <span class="meta">{{.Category}} · {{.Priority}} priority · {{.Frequency}} · {{.EstimatedCost}}</span>
            <p>{{.WhyRecommended}}</p>
            {{if .Venues}}
            <ul class="venues">{{range .Venues}}<li>{{.Name}}, {{.Address}} ({{.Distance.Value}} {{.Distance.Unit}}, rating {{rating .Rating}})</li>{{end}}</ul>
            {{end}}
        </div>
        {{else}}
        <p class="meta">No recommendations.</p>
        {{end}}

        {{if .ParentActions}}
        <h2>For Parents</h2>
        {{range .ParentActions}}
        <div class="card priority-{{.Priority}}">
            <strong>{{.Title}}</strong>
            <p>{{.Description}}</p>
            {{range .Activities}}
            <p>{{.Activity}}</p>
            <ol>{{range .Tips}}<li>{{.}}</li>{{end}}</ol>
            {{end}}
        </div>
        {{end}}
        {{end}}
    </section>
    {{end}}
</div>
</body>
</html>
`
