package apiserver

import (
	"html/template"
	"net/http"
)

// pageData drives the single-page form template. A non-empty Error is
// rendered above the form; Research and Report appear when a run
// produced them.
type pageData struct {
	Query      string
	Error      string
	Research   string
	Report     string
	ReportPath string
}

var pageTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Insurance Report Generator</title>
<style>
  body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
  h1 { font-size: 1.5rem; }
  textarea { width: 100%; min-height: 6rem; font: inherit; padding: 0.5rem; box-sizing: border-box; }
  button { margin-top: 0.5rem; padding: 0.5rem 1.5rem; font: inherit; cursor: pointer; }
  .error { background: #fdecea; border: 1px solid #e57373; padding: 0.75rem; margin-bottom: 1rem; }
  .note { color: #666; font-size: 0.875rem; }
  pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; white-space: pre-wrap; }
  section { margin-top: 2rem; }
</style>
</head>
<body>
<h1>Insurance Report Generator</h1>
<p class="note">Describe what you want to know about an insurance product and a structured comparison report will be generated.</p>
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
<form method="POST" action="/run">
  <textarea name="query" placeholder="e.g. Compare individual and family floater health insurance plans">{{.Query}}</textarea>
  <br>
  <button type="submit">Generate report</button>
</form>
{{if .Research}}
<section>
  <h2>Research data</h2>
  <pre>{{.Research}}</pre>
</section>
{{end}}
{{if .Report}}
<section>
  <h2>Report</h2>
  <pre>{{.Report}}</pre>
  {{if .ReportPath}}<p class="note">Saved to {{.ReportPath}}</p>{{end}}
</section>
{{end}}
</body>
</html>
`))

// renderPage writes the form page with the given status. Template
// failures after headers are sent can only be logged.
func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("failed to render page: %v", err)
	}
}
