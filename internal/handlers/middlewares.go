package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/CANCELTHIS/Code-Clash-Back/pkg/jwt"
	"github.com/google/uuid"
)

type Key string

const (
	UserClaimsKey Key = "user_claims"
)

var (
	ErrInvalidClaims = errors.New("unauthorized: invalid user claims")
)

func (hr *HandlerRepo) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenStr := ""

		// 1. Try to get token from Authorization header (standard for most API calls)
		if authHeader != "" {
			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) == 2 && strings.ToLower(headerParts[0]) == "bearer" {
				tokenStr = headerParts[1]
			} else {
				hr.logger.Warn("malformed Authorization header")
				hr.unauthorized(w, r)
				return
			}
		}

		// 2. If not in header, fall back to query parameter (for SSE/EventSource,
		// which cannot set request headers)
		if tokenStr == "" {
			tokenStr = r.URL.Query().Get("auth_token")
		}

		if tokenStr == "" {
			hr.logger.Warn("missing authorization token in header or query parameter")
			hr.unauthorized(w, r)
			return
		}

		claims, err := hr.jwtParser.VerifyToken(tokenStr)
		if err != nil {
			hr.logger.Error("failed to verify token", "error", err)
			hr.unauthorized(w, r)
			return
		}

		hr.logger.Debug("token verified", "user_id", claims.Sub)

		ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserClaims extracts the UserClaims from the request context
func GetUserClaims(ctx context.Context) (*jwt.UserClaims, error) {
	claims, ok := ctx.Value(UserClaimsKey).(*jwt.UserClaims)
	if !ok || claims == nil {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// GetUserID extracts the authenticated user's ID from the request context
func GetUserID(ctx context.Context) (uuid.UUID, error) {
	claims, err := GetUserClaims(ctx)
	if err != nil {
		return uuid.UUID{}, err
	}

	userID, err := uuid.Parse(claims.Sub)
	if err != nil {
		return uuid.UUID{}, ErrInvalidClaims
	}
	return userID, nil
}
