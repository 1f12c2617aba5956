package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/yantology/linkfy/internal/httpserver/deps"
	"github.com/yantology/linkfy/internal/httpserver/handlers"
	"github.com/yantology/linkfy/internal/httpserver/mw"
)

func init() { Register(registerPublic) }

// Entry pages: signed-in visitors are bounced to the dashboard.
func registerPublic(r chi.Router, d deps.Deps) {
	pub := r.With(mw.PublicOnly(d.Session, d.RefreshTrigger))

	pub.Get("/", handlers.Landing(d))
	pub.Get("/login", handlers.LoginPage(d))
	pub.Post("/login", handlers.LoginSubmit(d))
	pub.Get("/register", handlers.RegisterPage(d))
	pub.Post("/register", handlers.RegisterSubmit(d))
	pub.Post("/register/token", handlers.RegisterToken(d))
	pub.Get("/forgot-password", handlers.ForgotPasswordPage(d))
	pub.Post("/forgot-password", handlers.ForgotPasswordSubmit(d))
	pub.Post("/forgot-password/token", handlers.ForgotPasswordToken(d))
}
