package outbound

import (
	"time"

	"github.com/google/uuid"
)

// Identity is the authenticated principal carried by an access token.
type Identity struct {
	UserID   string
	Username string
}

// TokenService issues and validates access tokens.
type TokenService interface {
	Issue(userID uuid.UUID, username string) (token string, expiresAt time.Time, err error)
	Validate(token string) (*Identity, error)
}
