// jwt package provides function to `read and parse` token
package jwt

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-jwt/jwt/v5"
)

type JWTParser struct {
	logger    *slog.Logger
	secretKey string
	issuer    string // Expected issuer, skipped when empty
	audience  string // Expected audience, skipped when empty
}

// NewJWTParser creates a new JWT parser for HS256 tokens issued by the
// account service.
func NewJWTParser(secretKey, issuer, audience string, logger *slog.Logger) *JWTParser {
	return &JWTParser{
		logger:    logger,
		secretKey: secretKey,
		issuer:    issuer,
		audience:  audience,
	}
}

// VerifyToken validates a JWT token and returns the claims if valid
// This method validates:
// - Signature using HMAC-SHA256
// - Issuer matches expected issuer
// - Audience matches expected audience
// - Token expiration time
func (p *JWTParser) VerifyToken(tokenStr string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &UserClaims{}, func(token *jwt.Token) (any, error) {
		// Verify signing method is HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			p.logger.Error("Unexpected signing method", "method", token.Method.Alg())
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(p.secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok {
		return nil, errors.New("invalid token claims type")
	}

	if !token.Valid {
		return nil, errors.New("token is invalid")
	}

	// Validate issuer if configured
	if p.issuer != "" {
		issuer, err := claims.GetIssuer()
		if err != nil || issuer != p.issuer {
			p.logger.Warn("Token issuer validation failed", "expected", p.issuer, "actual", issuer)
			return nil, fmt.Errorf("invalid issuer: expected %s, got %s", p.issuer, issuer)
		}
	}

	// Validate audience if configured
	if p.audience != "" {
		audience, err := claims.GetAudience()
		if err != nil {
			p.logger.Warn("Token audience validation failed", "error", err)
			return nil, fmt.Errorf("invalid audience claim: %w", err)
		}
		// Audience can be a string or array, check if our expected audience is present
		audienceFound := false
		for _, aud := range audience {
			if aud == p.audience {
				audienceFound = true
				break
			}
		}
		if !audienceFound {
			p.logger.Warn("Token audience validation failed", "expected", p.audience, "actual", audience)
			return nil, fmt.Errorf("invalid audience: expected %s", p.audience)
		}
	}

	return claims, nil
}
