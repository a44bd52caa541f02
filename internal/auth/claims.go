package auth

import (
	"time"
)

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

// DisplayName returns the name recorded as a version author.
func (i *Identity) DisplayName() string {
	switch {
	case i == nil:
		return "User"
	case i.Name != "":
		return i.Name
	case i.Email != "":
		return i.Email
	default:
		return "User"
	}
}

// AccessClaims represents the claims stored in a PASETO access token.
// v4.local tokens are encrypted, so claims are not readable without the key.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`

	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// Identity converts the claims to the caller identity.
func (c *AccessClaims) Identity() *Identity {
	userID := c.UserID
	if userID == "" {
		userID = c.Subject
	}
	return &Identity{UserID: userID, Email: c.Email, Name: c.Name}
}
