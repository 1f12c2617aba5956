package handlers

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/yantology/linkfy/internal/api"
	"github.com/yantology/linkfy/internal/logger"
	"github.com/yantology/linkfy/internal/schema"
)

// The pages are deliberately bare HTML: the gateway owns routing,
// session state and validation, not presentation.
const layoutTpl = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · Linkfy</title>
</head>
<body>
<header><a href="/">Linkfy</a></header>
<main>
{{template "content" .}}
</main>
</body>
</html>`

// mustPage parses a page body into the shared layout.
func mustPage(content string) *template.Template {
	t := template.Must(template.New("layout").Parse(layoutTpl))
	return template.Must(t.Parse(content))
}

// render executes into a buffer first so a template failure never
// leaks a half-written page.
func render(w http.ResponseWriter, log logger.Logger, t *template.Template, status int, data any) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		log.Error("page render failed", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// failureStatus picks the page status for a failed action: local and
// business rejections render as 422, everything else hides behind 502.
func failureStatus(err error) int {
	if _, ok := schema.AsIssues(err); ok {
		return http.StatusUnprocessableEntity
	}
	if _, ok := api.AsError(err); ok {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

// backendMessage maps a failed backend call to the message the page
// shows. Business errors pass through verbatim, malformed responses
// name the offending fields, transports stay opaque.
func backendMessage(log logger.Logger, err error) string {
	if apiErr, ok := api.AsError(err); ok {
		return apiErr.Message
	}
	if issues, ok := schema.AsIssues(err); ok {
		return "the server returned an unexpected response: " + issues.Error()
	}
	log.Error("backend request failed", logger.Error(err))
	return "the service is temporarily unavailable, please try again"
}
