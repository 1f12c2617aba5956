package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/yantology/linkfy/internal/httpserver/deps"
	"github.com/yantology/linkfy/internal/httpserver/handlers"
	"github.com/yantology/linkfy/internal/httpserver/mw"
)

func init() { Register(registerDashboard) }

func registerDashboard(r chi.Router, d deps.Deps) {
	prot := r.With(mw.RequireAuth(d.Session, d.RefreshTrigger))

	prot.Get("/dashboard", handlers.Dashboard(d))
	prot.Post("/dashboard/profiles", handlers.CreateProfile(d))
	prot.Post("/dashboard/profiles/{id}/delete", handlers.DeleteProfile(d))
	prot.Post("/logout", handlers.Logout(d))
}
