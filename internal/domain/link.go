package domain

// Link constraints, mirrored by the create-link request validation.
const (
	LinkTitleMaxLen = 100
)

// Link is one URL entry attached to a profile, shown with a label and icon.
// Links are only ever created and listed through this layer; they are never
// updated in place.
type Link struct {
	// ID is the backend-assigned identifier.
	ID string `json:"id"`

	// LinkfyID is the owning profile.
	LinkfyID string `json:"linkfy_id"`

	// Name is the display label. Never empty.
	Name string `json:"name"`

	// IconsURL points at the icon image.
	IconsURL string `json:"icons_url"`

	// CreatedAt is set by the backend on creation (RFC 3339).
	CreatedAt string `json:"created_at"`
}
