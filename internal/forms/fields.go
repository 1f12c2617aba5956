package forms

import (
	"net/url"
	"strconv"

	"github.com/yantology/linkfy/internal/api"
	"github.com/yantology/linkfy/internal/domain"
	"github.com/yantology/linkfy/internal/schema"
)

// Rule validates one submitted field value and returns a user-facing
// message, empty when the value passes.
type Rule func(value string) string

// FieldRules is an explicit per-field validation table keyed by field
// name, evaluated synchronously on submit. Server-checked fields
// (username availability) go through the debounced checker instead.
type FieldRules map[string]Rule

// Validate runs every rule against the submitted values and returns
// the violations keyed by field name.
func (fr FieldRules) Validate(values url.Values) map[string]string {
	errs := make(map[string]string)
	for field, rule := range fr {
		if msg := rule(values.Get(field)); msg != "" {
			errs[field] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func ruleOf(check func(c *schema.Check, field, v string), field string) Rule {
	return func(v string) string {
		var c schema.Check
		check(&c, field, v)
		if err := c.Err(); err != nil {
			return err.(schema.Issues)[0].Message
		}
		return ""
	}
}

// ProfileFields validates the create/edit profile form.
func ProfileFields() FieldRules {
	return FieldRules{
		"username": ruleOf(func(c *schema.Check, f, v string) {
			c.MinLen(f, v, domain.UsernameMinLen)
			c.MaxLen(f, v, domain.UsernameMaxLen)
		}, "username"),
		"avatar_url": ruleOf(func(c *schema.Check, f, v string) {
			if v != "" {
				c.URL(f, v)
			}
		}, "avatar_url"),
		"name": ruleOf(func(c *schema.Check, f, v string) {
			c.MaxLen(f, v, domain.NameMaxLen)
		}, "name"),
		"bio": ruleOf(func(c *schema.Check, f, v string) {
			c.MaxLen(f, v, domain.BioMaxLen)
		}, "bio"),
	}
}

// LinkFields validates the add-link form.
func LinkFields() FieldRules {
	return FieldRules{
		"title": ruleOf(func(c *schema.Check, f, v string) {
			c.NonEmpty(f, v)
			c.MaxLen(f, v, domain.LinkTitleMaxLen)
		}, "title"),
		"url": ruleOf(func(c *schema.Check, f, v string) {
			c.URL(f, v)
		}, "url"),
		"position": func(v string) string {
			if v == "" {
				return ""
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return "must be a whole number"
			}
			var c schema.Check
			c.NonNegative("position", n)
			if err := c.Err(); err != nil {
				return err.(schema.Issues)[0].Message
			}
			return ""
		},
	}
}

// ParseCreateProfile validates the form and builds the request. The
// returned map is nil when every field passed.
func ParseCreateProfile(values url.Values) (api.CreateProfileRequest, map[string]string) {
	if errs := ProfileFields().Validate(values); errs != nil {
		return api.CreateProfileRequest{}, errs
	}
	return api.CreateProfileRequest{
		Username:  values.Get("username"),
		AvatarURL: values.Get("avatar_url"),
		Name:      values.Get("name"),
		Bio:       values.Get("bio"),
	}, nil
}

// ParseUpdateProfile builds a partial update from the submitted fields
// only: a key absent from the form stays untouched on the backend.
func ParseUpdateProfile(values url.Values) (api.UpdateProfileRequest, map[string]string) {
	if errs := ProfileFields().Submitted(values).Validate(values); errs != nil {
		return api.UpdateProfileRequest{}, errs
	}

	var req api.UpdateProfileRequest
	if values.Has("username") {
		v := values.Get("username")
		req.Username = &v
	}
	if values.Has("avatar_url") {
		v := values.Get("avatar_url")
		req.AvatarURL = &v
	}
	if values.Has("name") {
		v := values.Get("name")
		req.Name = &v
	}
	if values.Has("bio") {
		v := values.Get("bio")
		req.Bio = &v
	}
	if values.Has("message") {
		v := values.Get("message")
		req.Message = &v
	}
	return req, nil
}

// ParseCreateLink validates the add-link form and builds the request.
func ParseCreateLink(values url.Values) (api.CreateLinkRequest, map[string]string) {
	if errs := LinkFields().Validate(values); errs != nil {
		return api.CreateLinkRequest{}, errs
	}

	req := api.CreateLinkRequest{
		Title: values.Get("title"),
		URL:   values.Get("url"),
		Icon:  values.Get("icon"),
	}
	if v := values.Get("position"); v != "" {
		n, _ := strconv.Atoi(v)
		req.Position = &n
	}
	return req, nil
}

// ParseCreateLinks builds a batch request from parallel title/url/icon
// form arrays. Violations carry the element index so the page can
// highlight the offending row.
func ParseCreateLinks(values url.Values) (api.CreateLinksRequest, map[string]string) {
	titles := values["title"]
	urls := values["url"]
	icons := values["icon"]

	if len(titles) == 0 {
		return api.CreateLinksRequest{}, map[string]string{"title": "at least one link is required"}
	}
	if len(urls) != len(titles) {
		return api.CreateLinksRequest{}, map[string]string{"url": "every link needs a url"}
	}

	req := api.CreateLinksRequest{Data: make([]api.CreateLinkRequest, 0, len(titles))}
	for i := range titles {
		link := api.CreateLinkRequest{Title: titles[i], URL: urls[i]}
		if i < len(icons) {
			link.Icon = icons[i]
		}
		req.Data = append(req.Data, link)
	}

	if err := req.Validate(); err != nil {
		if issues, ok := schema.AsIssues(err); ok {
			return api.CreateLinksRequest{}, issues.Fields()
		}
		return api.CreateLinksRequest{}, map[string]string{"data": err.Error()}
	}
	return req, nil
}

// Submitted keeps only the rules whose field is present in the form,
// so partial updates are not rejected for fields left untouched.
func (fr FieldRules) Submitted(values url.Values) FieldRules {
	out := FieldRules{}
	for field, rule := range fr {
		if values.Has(field) {
			out[field] = rule
		}
	}
	return out
}
