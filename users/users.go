package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a resolved resource owner. Granters never mutate users; they load
// (or connect) one and attach it to the token creation request.
type User struct {
	ID string `json:"id,omitempty"` // Unique identifier for the user

	// ExternalID is the identifier the user carries in its identity source
	// (relevant for users connected through extension grant plugins).
	ExternalID string `json:"external_id,omitempty"`

	Username string `json:"username,omitempty"` // Unique username within the source
	Source   string `json:"source,omitempty"`   // Identity source the user belongs to

	// AdditionalInformation carries issuance-time context (claims, profile
	// attributes) and feeds the UMA policy execution context.
	AdditionalInformation map[string]any `json:"additional_information,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	LastLogin time.Time `json:"last_login,omitempty"`
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash compares a plaintext password with its bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
