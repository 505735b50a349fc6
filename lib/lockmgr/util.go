package lockmgr

import (
	"crypto/rand"
)

const (
	ownerIDLength = 16
)

// generateOwnerID creates a new unique owner ID
// The owner ID is a random byte slice of length 16.
func generateOwnerID() ([]byte, error) {
	randomBytes := make([]byte, ownerIDLength)
	_, err := rand.Read(randomBytes)
	return randomBytes, err
}
