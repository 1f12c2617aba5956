package api

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"

	"github.com/yantology/linkfy/internal/domain"
	"github.com/yantology/linkfy/internal/schema"
)

// LinksService handles link operations. Links are created and listed,
// never updated in place; deletion is not exposed by the backend.
type LinksService struct {
	client *Client
}

// CreateLinkRequest is the payload for one new link.
type CreateLinkRequest struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Icon     string `json:"icon,omitempty"`
	Position *int   `json:"position,omitempty"`
	Active   *bool  `json:"active,omitempty"`
}

// Validate checks the payload against the declared constraints.
func (r CreateLinkRequest) Validate() error {
	var c schema.Check
	c.NonEmpty("title", r.Title)
	c.MaxLen("title", r.Title, domain.LinkTitleMaxLen)
	c.URL("url", r.URL)
	if r.Position != nil {
		c.NonNegative("position", *r.Position)
	}
	return c.Err()
}

// CreateLinksRequest is a batch of links created in one call.
type CreateLinksRequest struct {
	Data []CreateLinkRequest `json:"data"`
}

// Validate reports every violation across the whole batch, each under
// its element path.
func (r CreateLinksRequest) Validate() error {
	var c schema.Check
	if len(r.Data) == 0 {
		c.Add("data", "cannot be empty")
	}
	for i, link := range r.Data {
		path := "data." + strconv.Itoa(i)
		c.NonEmpty(path+".title", link.Title)
		c.MaxLen(path+".title", link.Title, domain.LinkTitleMaxLen)
		c.URL(path+".url", link.URL)
		if link.Position != nil {
			c.NonNegative(path+".position", *link.Position)
		}
	}
	return c.Err()
}

// linkPayload is the raw wire form of a link.
type linkPayload struct {
	ID        *string `json:"id"`
	LinkfyID  *string `json:"linkfy_id"`
	Name      *string `json:"name"`
	IconsURL  *string `json:"icons_url"`
	CreatedAt *string `json:"created_at"`
}

func decodeLink(c *schema.Check, path string, raw json.RawMessage) domain.Link {
	var p linkPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.Add(path, "invalid object")
		return domain.Link{}
	}

	var out domain.Link
	if c.Required(path+".id", p.ID != nil) {
		c.NonEmpty(path+".id", *p.ID)
		out.ID = *p.ID
	}
	if c.Required(path+".linkfy_id", p.LinkfyID != nil) {
		c.NonEmpty(path+".linkfy_id", *p.LinkfyID)
		out.LinkfyID = *p.LinkfyID
	}
	if c.Required(path+".name", p.Name != nil) {
		c.NonEmpty(path+".name", *p.Name)
		out.Name = *p.Name
	}
	if c.Required(path+".icons_url", p.IconsURL != nil) {
		c.URL(path+".icons_url", *p.IconsURL)
		out.IconsURL = *p.IconsURL
	}
	if c.Required(path+".created_at", p.CreatedAt != nil) {
		c.Datetime(path+".created_at", *p.CreatedAt)
		out.CreatedAt = *p.CreatedAt
	}
	return out
}

func decodeLinkList(c *schema.Check, data json.RawMessage) []domain.Link {
	if bytes.Equal(data, []byte("null")) {
		c.Add("data", "expected an array")
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		c.Add("data", "expected an array")
		return nil
	}

	links := make([]domain.Link, 0, len(elems))
	for i, elem := range elems {
		links = append(links, decodeLink(c, "data."+strconv.Itoa(i), elem))
	}
	return links
}

// ListByProfile returns every link attached to a profile.
// GET /linkfy/{linkfyId}/links
func (s *LinksService) ListByProfile(ctx context.Context, linkfyID string) (*DataResponse[[]domain.Link], error) {
	body, err := s.client.get(ctx, "/linkfy/"+linkfyID+"/links")
	if err != nil {
		return nil, err
	}
	return decodeData(body, decodeLinkList)
}

// CreateBatch creates several links for a profile in one call.
// POST /linkfy/{linkfyId}/links
func (s *LinksService) CreateBatch(ctx context.Context, linkfyID string, req CreateLinksRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := s.client.post(ctx, "/linkfy/"+linkfyID+"/links", req)
	if err != nil {
		return nil, err
	}
	return decodeMessage(body)
}

// Create creates a single link for a profile.
// POST /linkfy/{linkfyId}/links/single
func (s *LinksService) Create(ctx context.Context, linkfyID string, req CreateLinkRequest) (*MessageResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := s.client.post(ctx, "/linkfy/"+linkfyID+"/links/single", req)
	if err != nil {
		return nil, err
	}
	return decodeMessage(body)
}
