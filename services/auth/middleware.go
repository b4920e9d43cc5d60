package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	userIdContextKey contextKey = "user_id"
	emailContextKey  contextKey = "email"
	adminContextKey  contextKey = "is_admin"
)

// Identity is the verified caller of a request.
type Identity struct {
	UserId  uuid.UUID
	Email   string
	IsAdmin bool
}

type TokenVerifier interface {
	VerifyToken(token string) (Identity, error)
}

func getToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("missing Authorization header")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", fmt.Errorf("Authorization header must use Bearer scheme")
	}

	return token, nil
}

// Middleware verifies the bearer token and stores the caller's identity in
// the request context. Requests without a valid token are rejected with 401.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		handler := func(w http.ResponseWriter, r *http.Request) {
			token, err := getToken(r)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			identity, err := verifier.VerifyToken(token)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			reqCtx := r.Context()
			reqCtx = context.WithValue(reqCtx, userIdContextKey, identity.UserId)
			reqCtx = context.WithValue(reqCtx, emailContextKey, identity.Email)
			reqCtx = context.WithValue(reqCtx, adminContextKey, identity.IsAdmin)
			next.ServeHTTP(w, r.WithContext(reqCtx))
		}

		return http.HandlerFunc(handler)
	}
}

// RequireAdmin rejects callers whose verified identity is not an admin. It
// must be installed after Middleware.
func RequireAdmin(next http.Handler) http.Handler {
	handler := func(w http.ResponseWriter, r *http.Request) {
		isAdmin, err := GetIsAdmin(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if !isAdmin {
			http.Error(w, "caller is not authorized to perform this operation", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(handler)
}

func GetUserId(r *http.Request) (uuid.UUID, error) {
	userUntyped := r.Context().Value(userIdContextKey)
	if userUntyped == nil {
		return uuid.Nil, fmt.Errorf("user_id field not found in request context")
	}
	userId, ok := userUntyped.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid value for user_id field")
	}
	return userId, nil
}

func GetUserEmail(r *http.Request) (string, error) {
	emailUntyped := r.Context().Value(emailContextKey)
	if emailUntyped == nil {
		return "", fmt.Errorf("email field not found in request context")
	}
	email, ok := emailUntyped.(string)
	if !ok {
		return "", fmt.Errorf("invalid value for email field")
	}
	return email, nil
}

func GetIsAdmin(r *http.Request) (bool, error) {
	adminUntyped := r.Context().Value(adminContextKey)
	if adminUntyped == nil {
		return false, fmt.Errorf("is_admin field not found in request context")
	}
	isAdmin, ok := adminUntyped.(bool)
	if !ok {
		return false, fmt.Errorf("invalid value for is_admin field")
	}
	return isAdmin, nil
}
