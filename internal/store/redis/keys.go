package redis

const (
	// KeyPrefixCache is the prefix for cached read results.
	KeyPrefixCache = "linkfy:cache:"

	// KeyAllProfiles caches the full profile listing.
	KeyAllProfiles = KeyPrefixCache + "profiles:all"
)

// ProfileIDKey returns the cache key for a profile read by id.
func ProfileIDKey(id string) string {
	return KeyPrefixCache + "profile:id:" + id
}

// ProfileUsernameKey returns the cache key for a profile read by username.
func ProfileUsernameKey(username string) string {
	return KeyPrefixCache + "profile:username:" + username
}

// LinksKey returns the cache key for a profile's link listing.
func LinksKey(linkfyID string) string {
	return KeyPrefixCache + "links:" + linkfyID
}
