// Package kv defines the key/value abstraction behind the session token and
// display preferences, plus in-memory and Pebble implementations.
package kv

// Well-known keys.
const (
	KeyToken       = "token"
	KeyAccentColor = "themeColor"
	KeyFontScale   = "fontSize"
)

// Store reads and writes string values by key.
type Store interface {
	// Get returns the value and true, or "" and false when the key is absent.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove deletes the key. Removing an absent key is not an error.
	Remove(key string) error
}
