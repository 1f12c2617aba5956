package domain

// Field constraints shared by request validation, response validation
// and the form layer. One source of truth per resource.
const (
	UsernameMinLen = 3
	UsernameMaxLen = 30
	NameMaxLen     = 50
	BioMaxLen      = 500
)

// Profile represents a public link-in-bio identity.
// Timestamps stay in their RFC 3339 wire form; the backend owns them
// and the gateway never needs to do time arithmetic on them.
type Profile struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier (UUID assigned by the backend).
	ID string `json:"id"`

	// UserID is the owning account. A profile belongs to exactly one user.
	UserID string `json:"user_id"`

	// ─────────────────────────────
	// Public identity
	// ─────────────────────────────

	// Username is the unique handle, 3-30 characters.
	// Uniqueness is enforced server-side; the availability endpoint
	// lets callers check it ahead of time.
	Username string `json:"username"`

	// AvatarURL is an optional URL to the avatar image.
	AvatarURL string `json:"avatar_url,omitempty"`

	// Name is the optional display name, at most 50 characters.
	Name string `json:"name,omitempty"`

	// Bio is the optional biography, at most 500 characters.
	Bio string `json:"bio,omitempty"`

	// Message is an optional free-form message shown on the page.
	Message string `json:"message,omitempty"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is set by the backend on creation (RFC 3339).
	CreatedAt string `json:"created_at"`

	// UpdatedAt is bumped by the backend on any mutation (RFC 3339).
	UpdatedAt string `json:"updated_at"`
}
