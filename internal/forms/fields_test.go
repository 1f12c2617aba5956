package forms

import (
	"net/url"
	"strings"
	"testing"
)

func TestProfileFieldsValidate(t *testing.T) {
	cases := []struct {
		name   string
		values url.Values
		field  string
		want   string
	}{
		{
			name:   "username too short",
			values: url.Values{"username": {"ab"}},
			field:  "username",
			want:   "must be at least 3 characters",
		},
		{
			name:   "username too long",
			values: url.Values{"username": {"abcdefghijklmnopqrstuvwxyz01234"}},
			field:  "username",
			want:   "must be at most 30 characters",
		},
		{
			name:   "avatar url relative",
			values: url.Values{"username": {"valid"}, "avatar_url": {"/pic.png"}},
			field:  "avatar_url",
			want:   "invalid url",
		},
		{
			name:   "bio over limit",
			values: url.Values{"username": {"valid"}, "bio": {strings.Repeat("b", 501)}},
			field:  "bio",
			want:   "must be at most 500 characters",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ProfileFields().Validate(tc.values)
			if errs == nil {
				t.Fatal("expected a violation, got none")
			}
			if got := errs[tc.field]; got != tc.want {
				t.Fatalf("field %q: got %q, want %q", tc.field, got, tc.want)
			}
		})
	}
}

func TestProfileFieldsValidateAccepts(t *testing.T) {
	values := url.Values{
		"username":   {"alice"},
		"avatar_url": {"https://cdn.example.com/a.png"},
		"name":       {"Alice"},
		"bio":        {"hello"},
	}
	if errs := ProfileFields().Validate(values); errs != nil {
		t.Fatalf("unexpected violations: %v", errs)
	}
}

func TestParseUpdateProfilePartial(t *testing.T) {
	values := url.Values{"name": {"New Name"}}

	req, errs := ParseUpdateProfile(values)
	if errs != nil {
		t.Fatalf("unexpected violations: %v", errs)
	}
	if req.Username != nil {
		t.Fatal("username should stay unset when not submitted")
	}
	if req.Name == nil || *req.Name != "New Name" {
		t.Fatalf("name not carried: %v", req.Name)
	}
}

func TestParseUpdateProfileRejectsSubmittedField(t *testing.T) {
	values := url.Values{"username": {"ab"}}

	_, errs := ParseUpdateProfile(values)
	if errs == nil || errs["username"] == "" {
		t.Fatalf("expected username violation, got %v", errs)
	}
}

func TestParseCreateLink(t *testing.T) {
	values := url.Values{
		"title":    {"Blog"},
		"url":      {"https://blog.example.com"},
		"position": {"2"},
	}

	req, errs := ParseCreateLink(values)
	if errs != nil {
		t.Fatalf("unexpected violations: %v", errs)
	}
	if req.Position == nil || *req.Position != 2 {
		t.Fatalf("position not parsed: %v", req.Position)
	}
}

func TestParseCreateLinkRejects(t *testing.T) {
	cases := []struct {
		name   string
		values url.Values
		field  string
	}{
		{"empty title", url.Values{"title": {""}, "url": {"https://x.example.com"}}, "title"},
		{"bad url", url.Values{"title": {"X"}, "url": {"ftp://x"}}, "url"},
		{"position not a number", url.Values{"title": {"X"}, "url": {"https://x.example.com"}, "position": {"two"}}, "position"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := ParseCreateLink(tc.values)
			if errs == nil || errs[tc.field] == "" {
				t.Fatalf("expected %q violation, got %v", tc.field, errs)
			}
		})
	}
}

func TestParseCreateLinksBatch(t *testing.T) {
	values := url.Values{
		"title": {"Blog", "Shop"},
		"url":   {"https://blog.example.com", "https://shop.example.com"},
		"icon":  {"", "https://cdn.example.com/cart.png"},
	}

	req, errs := ParseCreateLinks(values)
	if errs != nil {
		t.Fatalf("unexpected violations: %v", errs)
	}
	if len(req.Data) != 2 {
		t.Fatalf("got %d links, want 2", len(req.Data))
	}
	if req.Data[1].Icon == "" {
		t.Fatal("second icon lost")
	}
}

func TestParseCreateLinksBatchReportsRow(t *testing.T) {
	values := url.Values{
		"title": {"Blog", "Shop"},
		"url":   {"https://blog.example.com", "not-a-url"},
	}

	_, errs := ParseCreateLinks(values)
	if errs == nil {
		t.Fatal("expected violations")
	}
	if got := errs["data.1.url"]; got != "invalid url" {
		t.Fatalf("row violation: got %q, want %q", got, "invalid url")
	}
}
