package services

import (
	"errors"
	"net/http"

	"clearwater/api"
	"clearwater/services/auth"
	"clearwater/store"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users  *store.UserStore
	tokens *auth.JwtAuth
}

func (s *AuthService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", WrapRestHandler(s.Login))

	return r
}

// errInvalidCredentials is deliberately identical for an unknown email and a
// wrong password so login responses don't reveal which accounts exist.
var errInvalidCredentials = errors.New("invalid email or password")

func (s *AuthService) Login(r *http.Request) (any, error) {
	params, err := ParseRequestBody[api.LoginRequest](r)
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, CodedError(errInvalidCredentials, http.StatusUnauthorized)
		}
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(params.Password)); err != nil {
		return nil, CodedError(errInvalidCredentials, http.StatusUnauthorized)
	}

	identity := auth.Identity{UserId: user.Id, Email: user.Email, IsAdmin: user.IsAdmin}

	token, expiration, err := s.tokens.IssueToken(identity)
	if err != nil {
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	return api.LoginResponse{Token: token, Expiration: expiration}, nil
}
