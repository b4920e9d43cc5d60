package services

import (
	"errors"
	"net/http"
	"strings"

	"clearwater/api"
	"clearwater/store"

	"github.com/go-chi/chi/v5"
)

type CategoryService struct {
	categories *store.CategoryStore
}

func (s *CategoryService) Routes(adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", WrapRestHandler(s.List))
	r.With(adminOnly).Post("/", WrapCreateHandler(s.Create))

	return r
}

func (s *CategoryService) List(r *http.Request) (any, error) {
	ctx, cancel := storeContext(r)
	defer cancel()

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	return categories, nil
}

func (s *CategoryService) Create(r *http.Request) (any, error) {
	params, err := ParseRequestBody[api.CreateCategoryRequest](r)
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	if strings.TrimSpace(params.Name) == "" {
		return nil, CodedError(errors.New("Name must be specified"), http.StatusUnprocessableEntity)
	}

	if err := validateSlug(params.Slug); err != nil {
		return nil, CodedError(err, http.StatusUnprocessableEntity)
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	category, err := s.categories.Upsert(ctx, params)
	if err != nil {
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	return category, nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return errors.New("Slug must be specified")
	}
	for _, c := range slug {
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' {
			continue
		}
		return errors.New("Slug must contain only lowercase letters, digits, and dashes")
	}
	return nil
}
