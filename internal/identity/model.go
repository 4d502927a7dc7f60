package identity

import (
	"time"

	"github.com/whale-spotting/whale_spotting/internal/domain"
)

// User represents a registered sighting reporter.
type User struct {
	ID              string
	Username        string
	PasswordHash    []byte
	Role            domain.Role
	ProfileImageURL string
	CreatedAt       time.Time
}

// Credentials request structure. The raw password lives only for the
// duration of the call; it is never stored or logged.
type Credentials struct {
	Username string
	Password string
}
