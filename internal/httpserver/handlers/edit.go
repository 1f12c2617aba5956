package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yantology/linkfy/internal/api"
	"github.com/yantology/linkfy/internal/domain"
	"github.com/yantology/linkfy/internal/forms"
	"github.com/yantology/linkfy/internal/httpserver/deps"
)

var editPage = mustPage(`{{define "content"}}
<h1>Edit {{.Profile.Username}}</h1>
<p><a href="/dashboard">Back to dashboard</a></p>
{{if .Notice}}<p>{{.Notice}}</p>{{end}}
{{if .Error}}<p role="alert">{{.Error}}</p>{{end}}
<h2>Profile</h2>
<form method="post" action="/edit/{{.Profile.Username}}">
<label>Username <input type="text" name="username" value="{{.Profile.Username}}">
{{with .FieldErrors.username}}<span role="alert">{{.}}</span>{{end}}</label>
<label>Display name <input type="text" name="name" value="{{.Profile.Name}}">
{{with .FieldErrors.name}}<span role="alert">{{.}}</span>{{end}}</label>
<label>Avatar URL <input type="url" name="avatar_url" value="{{.Profile.AvatarURL}}">
{{with .FieldErrors.avatar_url}}<span role="alert">{{.}}</span>{{end}}</label>
<label>Bio <textarea name="bio">{{.Profile.Bio}}</textarea>
{{with .FieldErrors.bio}}<span role="alert">{{.}}</span>{{end}}</label>
<label>Status message <input type="text" name="message" value="{{.Profile.Message}}"></label>
<button type="submit">Save</button>
</form>
<h2>Links</h2>
<ul>
{{range .Links}}
<li>{{.Name}}{{if .IconsURL}} <img src="{{.IconsURL}}" alt="" width="16" height="16">{{end}}</li>
{{else}}
<li>No links yet.</li>
{{end}}
</ul>
<h3>Add a link</h3>
<form method="post" action="/edit/{{.Profile.Username}}/links">
<label>Title <input type="text" name="title" required>
{{with .FieldErrors.title}}<span role="alert">{{.}}</span>{{end}}</label>
<label>URL <input type="url" name="url" required>
{{with .FieldErrors.url}}<span role="alert">{{.}}</span>{{end}}</label>
<label>Icon URL <input type="url" name="icon"></label>
<label>Position <input type="number" name="position" min="0">
{{with .FieldErrors.position}}<span role="alert">{{.}}</span>{{end}}</label>
<button type="submit">Add</button>
</form>
<h3>Add several links</h3>
<form method="post" action="/edit/{{.Profile.Username}}/links/batch">
<fieldset>
<input type="text" name="title" placeholder="Title"><input type="url" name="url" placeholder="URL"><input type="url" name="icon" placeholder="Icon URL">
</fieldset>
<fieldset>
<input type="text" name="title" placeholder="Title"><input type="url" name="url" placeholder="URL"><input type="url" name="icon" placeholder="Icon URL">
</fieldset>
<fieldset>
<input type="text" name="title" placeholder="Title"><input type="url" name="url" placeholder="URL"><input type="url" name="icon" placeholder="Icon URL">
</fieldset>
<button type="submit">Add all</button>
</form>
{{end}}`)

type editData struct {
	Title       string
	Profile     domain.Profile
	Links       []domain.Link
	Notice      string
	Error       string
	FieldErrors map[string]string
}

func renderEdit(d deps.Deps, w http.ResponseWriter, r *http.Request, status int, data editData) {
	username := chi.URLParam(r, "username")

	profile, err := d.Queries.ProfileByUsername(r.Context(), username)
	if err != nil {
		if apiErr, ok := api.AsError(err); ok && apiErr.IsNotFound() {
			http.NotFound(w, r)
			return
		}
		http.Error(w, backendMessage(d.Logger, err), http.StatusBadGateway)
		return
	}
	data.Profile = profile
	data.Title = "Edit " + profile.Username

	links, err := d.Queries.LinksForProfile(r.Context(), profile.ID)
	if err != nil && data.Error == "" {
		data.Error = backendMessage(d.Logger, err)
	}
	data.Links = links

	render(w, d.Logger, editPage, status, data)
}

func EditPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderEdit(d, w, r, http.StatusOK, editData{})
	}
}

// UpdateProfile applies the submitted fields as a partial update. When
// the handle changes the page moves to the new address.
func UpdateProfile(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		req, fieldErrs := forms.ParseUpdateProfile(r.PostForm)
		if fieldErrs != nil {
			renderEdit(d, w, r, http.StatusUnprocessableEntity, editData{FieldErrors: fieldErrs})
			return
		}

		username := chi.URLParam(r, "username")
		profile, err := d.Queries.ProfileByUsername(r.Context(), username)
		if err != nil {
			renderEdit(d, w, r, failureStatus(err), editData{Error: backendMessage(d.Logger, err)})
			return
		}

		msg, err := d.Queries.UpdateProfile(r.Context(), profile.ID, username, req)
		if err != nil {
			renderEdit(d, w, r, failureStatus(err), editData{Error: backendMessage(d.Logger, err)})
			return
		}

		if req.Username != nil && *req.Username != username {
			http.Redirect(w, r, "/edit/"+*req.Username, http.StatusSeeOther)
			return
		}
		renderEdit(d, w, r, http.StatusOK, editData{Notice: msg})
	}
}

func AddLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		req, fieldErrs := forms.ParseCreateLink(r.PostForm)
		if fieldErrs != nil {
			renderEdit(d, w, r, http.StatusUnprocessableEntity, editData{FieldErrors: fieldErrs})
			return
		}

		profile, err := d.Queries.ProfileByUsername(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			renderEdit(d, w, r, failureStatus(err), editData{Error: backendMessage(d.Logger, err)})
			return
		}

		msg, err := d.Queries.CreateLink(r.Context(), profile.ID, req)
		if err != nil {
			renderEdit(d, w, r, failureStatus(err), editData{Error: backendMessage(d.Logger, err)})
			return
		}
		renderEdit(d, w, r, http.StatusOK, editData{Notice: msg})
	}
}

// pruneEmptyRows drops batch form rows where both title and url were
// left blank, keeping the index-aligned arrays parallel.
func pruneEmptyRows(r *http.Request) url.Values {
	titles := r.PostForm["title"]
	urls := r.PostForm["url"]
	icons := r.PostForm["icon"]

	out := url.Values{}
	for i := range titles {
		var u, icon string
		if i < len(urls) {
			u = urls[i]
		}
		if i < len(icons) {
			icon = icons[i]
		}
		if strings.TrimSpace(titles[i]) == "" && strings.TrimSpace(u) == "" {
			continue
		}
		out.Add("title", titles[i])
		out.Add("url", u)
		out.Add("icon", icon)
	}
	return out
}

// AddLinks creates every submitted row in one backend call; empty rows
// are skipped before validation.
func AddLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		req, fieldErrs := forms.ParseCreateLinks(pruneEmptyRows(r))
		if fieldErrs != nil {
			renderEdit(d, w, r, http.StatusUnprocessableEntity, editData{FieldErrors: fieldErrs})
			return
		}

		profile, err := d.Queries.ProfileByUsername(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			renderEdit(d, w, r, failureStatus(err), editData{Error: backendMessage(d.Logger, err)})
			return
		}

		msg, err := d.Queries.CreateLinks(r.Context(), profile.ID, req)
		if err != nil {
			renderEdit(d, w, r, failureStatus(err), editData{Error: backendMessage(d.Logger, err)})
			return
		}
		renderEdit(d, w, r, http.StatusOK, editData{Notice: msg})
	}
}
