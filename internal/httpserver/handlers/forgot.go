package handlers

import (
	"net/http"

	"github.com/yantology/linkfy/internal/api"
	"github.com/yantology/linkfy/internal/httpserver/deps"
)

var forgotPage = mustPage(`{{define "content"}}
<h1>Reset your password</h1>
{{if .Notice}}<p>{{.Notice}}</p>{{end}}
{{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
<form method="post" action="/forgot-password/token">
<label>Email <input type="email" name="email" value="{{.Email}}" required></label>
<button type="submit">Send me a token</button>
</form>
<form method="post" action="/forgot-password">
<label>Email <input type="email" name="email" value="{{.Email}}" required></label>
<label>Token <input type="text" name="token" required></label>
<label>New password <input type="password" name="password" required></label>
<label>Confirm password <input type="password" name="password_confirmation" required></label>
<button type="submit">Reset password</button>
</form>
<p><a href="/login">Back to sign in</a></p>
{{end}}`)

func ForgotPasswordPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, d.Logger, forgotPage, http.StatusOK, authFormData{Title: "Reset password"})
	}
}

// ForgotPasswordToken mails a reset token to the address.
func ForgotPasswordToken(d deps.Deps) http.HandlerFunc {
	return tokenRequest(d, api.TokenPurposeForgetPassword, forgotPage, "Reset password")
}

func ForgotPasswordSubmit(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		req := api.ResetPasswordRequest{
			Email:                r.PostFormValue("email"),
			Password:             r.PostFormValue("password"),
			PasswordConfirmation: r.PostFormValue("password_confirmation"),
			Token:                r.PostFormValue("token"),
		}

		resp, err := d.API.Auth.ResetPassword(r.Context(), req)
		if err != nil {
			render(w, d.Logger, forgotPage, failureStatus(err),
				authFormData{Title: "Reset password", Email: req.Email, Error: backendMessage(d.Logger, err)})
			return
		}

		render(w, d.Logger, forgotPage, http.StatusOK,
			authFormData{Title: "Reset password", Notice: resp.Message})
	}
}
