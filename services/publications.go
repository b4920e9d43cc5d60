package services

import (
	"errors"
	"net/http"
	"strings"

	"clearwater/api"
	"clearwater/monitoring"
	"clearwater/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type PublicationService struct {
	publications *store.PublicationStore
}

func (s *PublicationService) Routes(adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", WrapRestHandler(s.List))
	r.Get("/{publication_id}", WrapRestHandler(s.Get))

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)

		r.Post("/", WrapCreateHandler(s.Create))
		r.Put("/{publication_id}", WrapRestHandler(s.Update))
		r.Delete("/{publication_id}", WrapDeleteHandler(s.Delete))

		r.Post("/{publication_id}/authors", WrapCreateHandler(s.SetAuthors))
		r.Delete("/{publication_id}/authors", WrapDeleteHandler(s.ClearAuthors))
	})

	return r
}

func parsePublicationFilters(r *http.Request) (store.PublicationFilters, error) {
	filters := store.PublicationFilters{
		Category: r.URL.Query().Get("category"),
	}

	var err error
	if filters.Year, err = QueryParamInt(r, "year"); err != nil {
		return filters, err
	}
	if filters.Featured, err = QueryParamBool(r, "featured"); err != nil {
		return filters, err
	}
	if filters.Limit, err = QueryParamInt(r, "limit"); err != nil {
		return filters, err
	}
	if filters.Offset, err = QueryParamInt(r, "offset"); err != nil {
		return filters, err
	}

	if filters.Limit != nil && *filters.Limit < 0 {
		return filters, errors.New("query parameter 'limit' must be non-negative")
	}
	if filters.Offset != nil && *filters.Offset < 0 {
		return filters, errors.New("query parameter 'offset' must be non-negative")
	}

	return filters, nil
}

func (s *PublicationService) List(r *http.Request) (any, error) {
	filters, err := parsePublicationFilters(r)
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	publications, err := s.publications.List(ctx, filters)
	if err != nil {
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	return publications, nil
}

func (s *PublicationService) Get(r *http.Request) (any, error) {
	id, err := URLParamUUID(r, "publication_id")
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	publication, err := s.publications.Get(ctx, id)
	if err != nil {
		return nil, CodedError(err, storeErrorStatus(err))
	}

	return publication, nil
}

func (s *PublicationService) Create(r *http.Request) (any, error) {
	fields, err := ParseRequestBody[api.PublicationFields](r)
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	if fields.Title == nil || strings.TrimSpace(*fields.Title) == "" {
		return nil, CodedError(errors.New("Title must be specified"), http.StatusUnprocessableEntity)
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	publication, err := s.publications.Create(ctx, fields)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return nil, CodedError(err, http.StatusUnprocessableEntity)
		}
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	monitoring.PublicationsCreated.Inc()

	return publication, nil
}

func (s *PublicationService) Update(r *http.Request) (any, error) {
	id, err := URLParamUUID(r, "publication_id")
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	fields, err := ParseRequestBody[api.PublicationFields](r)
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	if fields.Title != nil && strings.TrimSpace(*fields.Title) == "" {
		return nil, CodedError(errors.New("Title must not be empty"), http.StatusUnprocessableEntity)
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	publication, err := s.publications.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrPublicationNotFound):
			return nil, CodedError(err, http.StatusNotFound)
		case errors.Is(err, store.ErrCategoryNotFound):
			return nil, CodedError(err, http.StatusUnprocessableEntity)
		default:
			return nil, CodedError(err, http.StatusInternalServerError)
		}
	}

	return publication, nil
}

func (s *PublicationService) Delete(r *http.Request) (any, error) {
	id, err := URLParamUUID(r, "publication_id")
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	if err := s.publications.Delete(ctx, id); err != nil {
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	monitoring.PublicationsDeleted.Inc()

	return nil, nil
}

func (s *PublicationService) SetAuthors(r *http.Request) (any, error) {
	id, err := URLParamUUID(r, "publication_id")
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	params, err := ParseRequestBody[api.SetPublicationAuthorsRequest](r)
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	if len(params.AuthorIds) == 0 {
		return nil, CodedError(errors.New("AuthorIds must be specified"), http.StatusUnprocessableEntity)
	}

	seen := make(map[uuid.UUID]struct{}, len(params.AuthorIds))
	for _, authorId := range params.AuthorIds {
		if _, ok := seen[authorId]; ok {
			return nil, CodedError(errors.New("AuthorIds must not contain duplicates"), http.StatusUnprocessableEntity)
		}
		seen[authorId] = struct{}{}
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	if err := s.publications.SetAuthors(ctx, id, params.AuthorIds); err != nil {
		switch {
		case errors.Is(err, store.ErrPublicationNotFound):
			return nil, CodedError(err, http.StatusNotFound)
		case errors.Is(err, store.ErrAuthorNotFound):
			return nil, CodedError(err, http.StatusUnprocessableEntity)
		default:
			return nil, CodedError(err, http.StatusInternalServerError)
		}
	}

	return nil, nil
}

func (s *PublicationService) ClearAuthors(r *http.Request) (any, error) {
	id, err := URLParamUUID(r, "publication_id")
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	if err := s.publications.ClearAuthors(ctx, id); err != nil {
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	return nil, nil
}
