package domain

import "time"

// Session is the stored record backing an issued session token. The token
// itself is a signed JWT handed to the client; only its fingerprint is kept
// here so sessions can be revoked server-side.
type Session struct {
	ID        string
	UserID    string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	ExpiresAt time.Time
	CreatedAt time.Time
}
