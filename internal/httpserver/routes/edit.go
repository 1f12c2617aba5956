package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/yantology/linkfy/internal/httpserver/deps"
	"github.com/yantology/linkfy/internal/httpserver/handlers"
	"github.com/yantology/linkfy/internal/httpserver/mw"
)

func init() { Register(registerEdit) }

func registerEdit(r chi.Router, d deps.Deps) {
	prot := r.With(mw.RequireAuth(d.Session, d.RefreshTrigger))

	prot.Get("/edit/{username}", handlers.EditPage(d))
	prot.Post("/edit/{username}", handlers.UpdateProfile(d))
	prot.Post("/edit/{username}/links", handlers.AddLink(d))
	prot.Post("/edit/{username}/links/batch", handlers.AddLinks(d))
}
