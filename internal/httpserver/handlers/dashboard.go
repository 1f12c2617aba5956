package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yantology/linkfy/internal/domain"
	"github.com/yantology/linkfy/internal/forms"
	"github.com/yantology/linkfy/internal/httpserver/deps"
)

var dashboardPage = mustPage(`{{define "content"}}
<h1>Your profiles</h1>
<p>Signed in as {{.Email}} · <form method="post" action="/logout" style="display:inline"><button type="submit">Sign out</button></form></p>
{{if .Notice}}<p>{{.Notice}}</p>{{end}}
{{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
<ul>
{{range .Profiles}}
<li>
<strong>{{.Username}}</strong>{{if .Name}} ({{.Name}}){{end}}
{{if .Bio}}<p>{{.Bio}}</p>{{end}}
<a href="/edit/{{.Username}}">Edit</a>
<form method="post" action="/dashboard/profiles/{{.ID}}/delete" style="display:inline"><button type="submit">Delete</button></form>
</li>
{{else}}
<li>No profiles yet, create your first one below.</li>
{{end}}
</ul>
<h2>New profile</h2>
<form method="post" action="/dashboard/profiles">
<label>Username <input type="text" name="username" id="username" value="{{.Form.username}}" required>
<span id="username-hint"></span>
{{with .FieldErrors.username}}<span role="alert">{{.}}</span>{{end}}</label>
<label>Display name <input type="text" name="name" value="{{.Form.name}}">
{{with .FieldErrors.name}}<span role="alert">{{.}}</span>{{end}}</label>
<label>Avatar URL <input type="url" name="avatar_url" value="{{.Form.avatar_url}}">
{{with .FieldErrors.avatar_url}}<span role="alert">{{.}}</span>{{end}}</label>
<label>Bio <textarea name="bio">{{.Form.bio}}</textarea>
{{with .FieldErrors.bio}}<span role="alert">{{.}}</span>{{end}}</label>
<button type="submit">Create</button>
</form>
<script>
const field = document.getElementById("username");
const hint = document.getElementById("username-hint");
field.addEventListener("input", async () => {
  const username = field.value;
  const res = await fetch("/check-username", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({username}),
  });
  if (res.status !== 200) return;
  const body = await res.json();
  hint.textContent = body.message;
});
</script>
{{end}}`)

type dashboardData struct {
	Title       string
	Email       string
	Profiles    []domain.Profile
	Notice      string
	Error       string
	Form        map[string]string
	FieldErrors map[string]string
}

func renderDashboard(d deps.Deps, w http.ResponseWriter, r *http.Request, status int, data dashboardData) {
	data.Title = "Dashboard"
	data.Email = d.Session.Email()
	if data.Form == nil {
		data.Form = map[string]string{}
	}

	profiles, err := d.Queries.Profiles(r.Context())
	if err != nil && data.Error == "" {
		data.Error = backendMessage(d.Logger, err)
	}
	data.Profiles = profiles
	render(w, d.Logger, dashboardPage, status, data)
}

func Dashboard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderDashboard(d, w, r, http.StatusOK, dashboardData{})
	}
}

// CreateProfile validates the form locally, then creates the profile
// through the backend. Field violations re-render the page with the
// submitted values kept.
func CreateProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		req, fieldErrs := forms.ParseCreateProfile(r.PostForm)
		if fieldErrs != nil {
			renderDashboard(d, w, r, http.StatusUnprocessableEntity, dashboardData{
				Form:        formValues(r, "username", "name", "avatar_url", "bio"),
				FieldErrors: fieldErrs,
			})
			return
		}

		msg, err := d.Queries.CreateProfile(r.Context(), req)
		if err != nil {
			renderDashboard(d, w, r, failureStatus(err), dashboardData{
				Form:  formValues(r, "username", "name", "avatar_url", "bio"),
				Error: backendMessage(d.Logger, err),
			})
			return
		}
		renderDashboard(d, w, r, http.StatusOK, dashboardData{Notice: msg})
	}
}

func DeleteProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		msg, err := d.Queries.DeleteProfile(r.Context(), id)
		if err != nil {
			renderDashboard(d, w, r, failureStatus(err), dashboardData{Error: backendMessage(d.Logger, err)})
			return
		}
		renderDashboard(d, w, r, http.StatusOK, dashboardData{Notice: msg})
	}
}

// formValues snapshots the submitted fields so a rejected form renders
// with the user's input intact.
func formValues(r *http.Request, fields ...string) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f] = r.PostFormValue(f)
	}
	return m
}
