// Package ids generates opaque identifiers for stored documents.
package ids

import "github.com/google/uuid"

// New returns a random (v4) UUID string.
func New() string {
	return uuid.NewString()
}
