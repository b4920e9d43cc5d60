package services

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"clearwater/api"
	"clearwater/store"

	"github.com/go-chi/chi/v5"
)

type AuthorService struct {
	authors *store.AuthorStore
}

func (s *AuthorService) Routes(adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", WrapRestHandler(s.List))
	r.With(adminOnly).Post("/", WrapCreateHandler(s.Create))

	return r
}

func (s *AuthorService) List(r *http.Request) (any, error) {
	ctx, cancel := storeContext(r)
	defer cancel()

	authors, err := s.authors.List(ctx)
	if err != nil {
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	return authors, nil
}

func (s *AuthorService) Create(r *http.Request) (any, error) {
	params, err := ParseRequestBody[api.CreateAuthorRequest](r)
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	if strings.TrimSpace(params.Name) == "" {
		return nil, CodedError(errors.New("Name must be specified"), http.StatusUnprocessableEntity)
	}

	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, CodedError(errors.New("Email must be a valid email address"), http.StatusUnprocessableEntity)
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	author, err := s.authors.Upsert(ctx, params)
	if err != nil {
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	return author, nil
}
