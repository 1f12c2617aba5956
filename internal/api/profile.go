package api

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/yantology/linkfy/internal/domain"
	"github.com/yantology/linkfy/internal/schema"
)

// ProfilesService handles profile operations against the backend.
type ProfilesService struct {
	client *Client
}

// CreateProfileRequest is the payload for creating a profile.
type CreateProfileRequest struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Name      string `json:"name,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// Validate checks the payload against the declared constraints.
// A failure here means the network is never touched.
func (r CreateProfileRequest) Validate() error {
	var c schema.Check
	c.MinLen("username", r.Username, domain.UsernameMinLen)
	c.MaxLen("username", r.Username, domain.UsernameMaxLen)
	if r.AvatarURL != "" {
		c.URL("avatar_url", r.AvatarURL)
	}
	c.MaxLen("name", r.Name, domain.NameMaxLen)
	c.MaxLen("bio", r.Bio, domain.BioMaxLen)
	return c.Err()
}

// UpdateProfileRequest is a partial update: nil fields are untouched.
type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Name      *string `json:"name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Message   *string `json:"message,omitempty"`
}

// Validate checks only the fields present in the partial update.
func (r UpdateProfileRequest) Validate() error {
	var c schema.Check
	if r.Username != nil {
		c.MinLen("username", *r.Username, domain.UsernameMinLen)
		c.MaxLen("username", *r.Username, domain.UsernameMaxLen)
	}
	if r.AvatarURL != nil && *r.AvatarURL != "" {
		c.URL("avatar_url", *r.AvatarURL)
	}
	if r.Name != nil {
		c.MaxLen("name", *r.Name, domain.NameMaxLen)
	}
	if r.Bio != nil {
		c.MaxLen("bio", *r.Bio, domain.BioMaxLen)
	}
	return c.Err()
}

// CheckUsernameRequest asks the backend whether a username is free.
type CheckUsernameRequest struct {
	Username string `json:"username"`
}

func (r CheckUsernameRequest) Validate() error {
	var c schema.Check
	c.MinLen("username", r.Username, domain.UsernameMinLen)
	c.MaxLen("username", r.Username, domain.UsernameMaxLen)
	return c.Err()
}

// profilePayload is the raw wire form of a profile. Pointer fields let
// the decoder tell a missing required field from an empty one.
type profilePayload struct {
	ID        *string `json:"id"`
	UserID    *string `json:"user_id"`
	Username  *string `json:"username"`
	AvatarURL *string `json:"avatar_url"`
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	Message   *string `json:"message"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

// decodeProfile validates one profile object at the given path and
// builds the domain value. Violations accumulate in c.
func decodeProfile(c *schema.Check, path string, raw json.RawMessage) domain.Profile {
	var p profilePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.Add(path, "invalid object")
		return domain.Profile{}
	}

	var out domain.Profile
	if c.Required(path+".id", p.ID != nil) {
		c.UUID(path+".id", *p.ID)
		out.ID = *p.ID
	}
	if c.Required(path+".user_id", p.UserID != nil) {
		c.NonEmpty(path+".user_id", *p.UserID)
		out.UserID = *p.UserID
	}
	if c.Required(path+".username", p.Username != nil) {
		c.MinLen(path+".username", *p.Username, domain.UsernameMinLen)
		c.MaxLen(path+".username", *p.Username, domain.UsernameMaxLen)
		out.Username = *p.Username
	}
	if p.AvatarURL != nil && *p.AvatarURL != "" {
		c.URL(path+".avatar_url", *p.AvatarURL)
		out.AvatarURL = *p.AvatarURL
	}
	if p.Name != nil {
		c.MaxLen(path+".name", *p.Name, domain.NameMaxLen)
		out.Name = *p.Name
	}
	if p.Bio != nil {
		c.MaxLen(path+".bio", *p.Bio, domain.BioMaxLen)
		out.Bio = *p.Bio
	}
	if p.Message != nil {
		out.Message = *p.Message
	}
	if c.Required(path+".created_at", p.CreatedAt != nil) {
		c.Datetime(path+".created_at", *p.CreatedAt)
		out.CreatedAt = *p.CreatedAt
	}
	if c.Required(path+".updated_at", p.UpdatedAt != nil) {
		c.Datetime(path+".updated_at", *p.UpdatedAt)
		out.UpdatedAt = *p.UpdatedAt
	}
	return out
}

func decodeProfileList(c *schema.Check, data json.RawMessage) []domain.Profile {
	// json.Unmarshal maps a null data member to a nil slice without
	// complaint, so it has to be caught before decoding.
	if bytes.Equal(data, []byte("null")) {
		c.Add("data", "expected an array")
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		c.Add("data", "expected an array")
		return nil
	}

	profiles := make([]domain.Profile, 0, len(elems))
	for i, elem := range elems {
		profiles = append(profiles, decodeProfile(c, "data."+strconv.Itoa(i), elem))
	}
	return profiles
}

// List returns every profile.
// GET /linkfy
func (s *ProfilesService) List(ctx context.Context) (*DataResponse[[]domain.Profile], error) {
	body, err := s.client.get(ctx, "/linkfy")
	if err != nil {
		return nil, err
	}
	return decodeData(body, decodeProfileList)
}

// GetByID returns one profile by its id.
// GET /linkfy/{id}
func (s *ProfilesService) GetByID(ctx context.Context, id string) (*DataResponse[domain.Profile], error) {
	body, err := s.client.get(ctx, "/linkfy/"+id)
	if err != nil {
		return nil, err
	}
	return decodeData(body, func(c *schema.Check, data json.RawMessage) domain.Profile {
		return decodeProfile(c, "data", data)
	})
}

// GetByUsername returns one profile by its unique handle.
// GET /linkfy/username/{username}
func (s *ProfilesService) GetByUsername(ctx context.Context, username string) (*DataResponse[domain.Profile], error) {
	body, err := s.client.get(ctx, "/linkfy/username/"+username)
	if err != nil {
		return nil, err
	}
	return decodeData(body, func(c *schema.Check, data json.RawMessage) domain.Profile {
		return decodeProfile(c, "data", data)
	})
}

// Create creates a profile.
// POST /linkfy
func (s *ProfilesService) Create(ctx context.Context, req CreateProfileRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := s.client.post(ctx, "/linkfy", req)
	if err != nil {
		return nil, err
	}
	return decodeMessage(body)
}

// Update applies a partial update to a profile.
// PUT /linkfy/{id}
func (s *ProfilesService) Update(ctx context.Context, id string, req UpdateProfileRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := s.client.put(ctx, "/linkfy/"+id, req)
	if err != nil {
		return nil, err
	}
	return decodeMessage(body)
}

// Delete removes a profile by id.
// DELETE /linkfy/{id}
func (s *ProfilesService) Delete(ctx context.Context, id string) (*MessageResponse, error) {
	body, err := s.client.delete(ctx, "/linkfy/"+id)
	if err != nil {
		return nil, err
	}
	return decodeMessage(body)
}

// CheckUsername asks the backend whether a username is available.
// The backend answers availability through the message envelope; a
// conflict error means the name is taken.
// POST /linkfy/check-username
func (s *ProfilesService) CheckUsername(ctx context.Context, req CheckUsernameRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := s.client.post(ctx, "/linkfy/check-username", req)
	if err != nil {
		return nil, err
	}
	return decodeMessage(body)
}
