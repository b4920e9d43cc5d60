package services

import (
	"errors"
	"net/http"
	"strings"

	"clearwater/api"
	"clearwater/store"

	"github.com/go-chi/chi/v5"
)

type ProgramService struct {
	programs *store.ProgramStore
}

func (s *ProgramService) Routes(adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", WrapRestHandler(s.ListAreas))
	r.Get("/{slug}", WrapRestHandler(s.GetArea))
	r.Get("/{slug}/projects", WrapRestHandler(s.ListProjects))

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)

		r.Post("/", WrapCreateHandler(s.CreateArea))
		r.Post("/{slug}/projects", WrapCreateHandler(s.CreateProject))
	})

	return r
}

func (s *ProgramService) ListAreas(r *http.Request) (any, error) {
	ctx, cancel := storeContext(r)
	defer cancel()

	areas, err := s.programs.ListAreas(ctx)
	if err != nil {
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	return areas, nil
}

func (s *ProgramService) GetArea(r *http.Request) (any, error) {
	slug := chi.URLParam(r, "slug")

	ctx, cancel := storeContext(r)
	defer cancel()

	area, err := s.programs.GetAreaBySlug(ctx, slug)
	if err != nil {
		return nil, CodedError(err, storeErrorStatus(err))
	}

	return area, nil
}

func (s *ProgramService) ListProjects(r *http.Request) (any, error) {
	slug := chi.URLParam(r, "slug")

	ctx, cancel := storeContext(r)
	defer cancel()

	projects, err := s.programs.ListProjects(ctx, slug)
	if err != nil {
		return nil, CodedError(err, storeErrorStatus(err))
	}

	return projects, nil
}

func (s *ProgramService) CreateArea(r *http.Request) (any, error) {
	params, err := ParseRequestBody[api.CreateProgramAreaRequest](r)
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

	area, err := s.programs.UpsertArea(ctx, params)
	if err != nil {
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	return area, nil
}

func (s *ProgramService) CreateProject(r *http.Request) (any, error) {
	slug := chi.URLParam(r, "slug")

	params, err := ParseRequestBody[api.CreateProjectRequest](r)
	if err != nil {
		return nil, CodedError(err, http.StatusBadRequest)
	}

	if strings.TrimSpace(params.Name) == "" {
		return nil, CodedError(errors.New("Name must be specified"), http.StatusUnprocessableEntity)
	}

	if err := validateSlug(params.Slug); err != nil {
		return nil, CodedError(err, http.StatusUnprocessableEntity)
	}

	if params.StartDate != nil && params.EndDate != nil && params.EndDate.Before(*params.StartDate) {
		return nil, CodedError(errors.New("EndDate must not be before StartDate"), http.StatusUnprocessableEntity)
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	project, err := s.programs.UpsertProject(ctx, slug, params)
	if err != nil {
		if errors.Is(err, store.ErrProgramAreaNotFound) {
			return nil, CodedError(err, http.StatusNotFound)
		}
		return nil, CodedError(err, http.StatusInternalServerError)
	}

	return project, nil
}
