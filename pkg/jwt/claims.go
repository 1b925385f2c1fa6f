package jwt

import (
	jwt "github.com/golang-jwt/jwt/v5"
)

// UserClaims represents the claims extracted from an auth token issued by
// the account service.
type UserClaims struct {
	// Sub is the user ID (UUID format)
	Sub string `json:"sub"`

	// Username is the public display name cached in the token
	Username string `json:"username"`

	// Email is the user's email address
	Email string `json:"email"`

	// Standard JWT claims (iss, aud, exp, iat, etc.)
	jwt.RegisteredClaims
}

// GetUserID returns the user ID from the sub claim
func (c *UserClaims) GetUserID() string {
	return c.Sub
}
