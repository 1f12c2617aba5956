package handlers

import (
	"net/http"

	"github.com/yantology/linkfy/internal/api"
	"github.com/yantology/linkfy/internal/httpserver/deps"
	"github.com/yantology/linkfy/internal/logger"
)

var loginPage = mustPage(`{{define "content"}}
<h1>Sign in</h1>
{{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
<form method="post" action="/login">
<label>Email <input type="email" name="email" value="{{.Email}}" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign in</button>
</form>
<p><a href="/forgot-password">Forgot your password?</a> · <a href="/register">Create an account</a></p>
{{end}}`)

type loginData struct {
	Title string
	Email string
	Error string
}

func LoginPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, d.Logger, loginPage, http.StatusOK, loginData{Title: "Sign in"})
	}
}

// LoginSubmit checks the credentials against the backend. A rejected
// login re-renders the form with the backend's message; the session
// status does not move.
func LoginSubmit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		email := r.PostFormValue("email")
		password := r.PostFormValue("password")

		req := api.LoginRequest{Email: email, Password: password}
		if err := req.Validate(); err != nil {
			render(w, d.Logger, loginPage, http.StatusUnprocessableEntity,
				loginData{Title: "Sign in", Email: email, Error: err.Error()})
			return
		}

		if err := d.Session.Login(r.Context(), email, password); err != nil {
			render(w, d.Logger, loginPage, http.StatusUnauthorized,
				loginData{Title: "Sign in", Email: email, Error: backendMessage(d.Logger, err)})
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	}
}

// Logout clears the persisted session and returns to the landing page.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Session.Logout(); err != nil {
			d.Logger.Warn("logout cleanup failed", logger.Error(err))
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
