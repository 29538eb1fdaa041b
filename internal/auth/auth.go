package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated staff member returned by login.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials is the stored login material of a staff member.
type Credentials struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
}

func (c *Credentials) Identity() Identity {
	return Identity{ID: c.ID, Name: c.Name, Email: c.Email}
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Identity    Identity
	Permissions []string
	Token       string
	ExpiresAt   time.Time
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret []byte
	AccessTokenTTL    time.Duration
	now               func() time.Time
}
