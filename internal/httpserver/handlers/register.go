package handlers

import (
	"html/template"
	"net/http"

	"github.com/yantology/linkfy/internal/api"
	"github.com/yantology/linkfy/internal/httpserver/deps"
)

// Registration is a two-step flow: a one-time token is mailed to the
// address first, then exchanged together with the credentials.
var registerPage = mustPage(`{{define "content"}}
<h1>Create an account</h1>
{{if .Notice}}<p>{{.Notice}}</p>{{end}}
{{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
<form method="post" action="/register/token">
<label>Email <input type="email" name="email" value="{{.Email}}" required></label>
<button type="submit">Send me a token</button>
</form>
<form method="post" action="/register">
<label>Email <input type="email" name="email" value="{{.Email}}" required></label>
<label>Token <input type="text" name="token" required></label>
<label>Password <input type="password" name="password" required></label>
<label>Confirm password <input type="password" name="password_confirmation" required></label>
<button type="submit">Register</button>
</form>
<p><a href="/login">Already have an account? Sign in</a></p>
{{end}}`)

// authFormData drives the register and forgot-password pages.
type authFormData struct {
	Title  string
	Email  string
	Notice string
	Error  string
}

func RegisterPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, d.Logger, registerPage, http.StatusOK, authFormData{Title: "Register"})
	}
}

// RegisterToken mails a registration token to the address.
func RegisterToken(d deps.Deps) http.HandlerFunc {
	return tokenRequest(d, api.TokenPurposeRegistration, registerPage, "Register")
}

func RegisterSubmit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		req := api.RegisterRequest{
			Email:                r.PostFormValue("email"),
			Password:             r.PostFormValue("password"),
			PasswordConfirmation: r.PostFormValue("password_confirmation"),
			Token:                r.PostFormValue("token"),
		}

		resp, err := d.API.Auth.Register(r.Context(), req)
		if err != nil {
			render(w, d.Logger, registerPage, failureStatus(err),
				authFormData{Title: "Register", Email: req.Email, Error: backendMessage(d.Logger, err)})
			return
		}

		render(w, d.Logger, registerPage, http.StatusOK,
			authFormData{Title: "Register", Notice: resp.Message})
	}
}

// tokenRequest is the shared mail-me-a-token action used by both the
// registration and the password reset pages.
func tokenRequest(d deps.Deps, purpose string, page *template.Template, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		email := r.PostFormValue("email")

		resp, err := d.API.Auth.RequestToken(r.Context(), api.TokenRequest{Type: purpose, Email: email})
		if err != nil {
			render(w, d.Logger, page, failureStatus(err),
				authFormData{Title: title, Email: email, Error: backendMessage(d.Logger, err)})
			return
		}
		render(w, d.Logger, page, http.StatusOK,
			authFormData{Title: title, Email: email, Notice: resp.Message})
	}
}
