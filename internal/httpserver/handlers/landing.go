package handlers

import (
	"net/http"

	"github.com/yantology/linkfy/internal/httpserver/deps"
)

var landingPage = mustPage(`{{define "content"}}
<h1>One page for all your links</h1>
<p>Create a profile, collect your links, share a single URL.</p>
<nav>
<a href="/login">Sign in</a>
<a href="/register">Create an account</a>
</nav>
{{end}}`)

type landingData struct {
	Title string
}

func Landing(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, d.Logger, landingPage, http.StatusOK, landingData{Title: "Welcome"})
	}
}
