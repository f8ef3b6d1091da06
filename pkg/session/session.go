package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session is absent or already expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is the absolute session lifetime unless configured otherwise.
const DefaultTTL = time.Hour

// Session is the server-held proof of authentication, correlated to a
// client via the cookie-carried ID.
type Session struct {
	ID        string    `json:"id" redis:"id"`
	UserID    uuid.UUID `json:"user_id" redis:"user_id"`
	UserName  string    `json:"user_name" redis:"user_name"`
	CreatedAt time.Time `json:"created_at" redis:"created_at"`
	ExpiresAt time.Time `json:"expires_at" redis:"expires_at"`
}

// Manager owns session lifecycle. Handlers go through this interface and
// never touch session storage directly.
type Manager interface {
	// Create allocates a session for the user and returns its opaque ID.
	Create(ctx context.Context, userID uuid.UUID, userName string) (string, error)
	// Load returns the session, or ErrNotFound if absent or expired.
	Load(ctx context.Context, id string) (Session, error)
	// Destroy removes the session; ErrNotFound if there was none.
	Destroy(ctx context.Context, id string) error
}

// newSessionID returns 32 random bytes, hex-encoded.
func newSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
