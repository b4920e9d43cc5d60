package services

import (
	"net/http"

	"clearwater/services/auth"
	"clearwater/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

type BackendService struct {
	publications PublicationService
	authors      AuthorService
	categories   CategoryService
	programs     ProgramService
	login        AuthService

	verifier auth.TokenVerifier
}

func NewBackend(db *gorm.DB, tokens *auth.JwtAuth) *BackendService {
	return &BackendService{
		publications: PublicationService{publications: store.NewPublicationStore(db)},
		authors:      AuthorService{authors: store.NewAuthorStore(db)},
		categories:   CategoryService{categories: store.NewCategoryStore(db)},
		programs:     ProgramService{programs: store.NewProgramStore(db)},
		login:        AuthService{users: store.NewUserStore(db), tokens: tokens},
		verifier:     tokens,
	}
}

func (s *BackendService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Read endpoints are public, mutations require a verified admin token.
	adminOnly := func(next http.Handler) http.Handler {
		return auth.Middleware(s.verifier)(auth.RequireAdmin(next))
	}

	r.Mount("/publications", s.publications.Routes(adminOnly))
	r.Mount("/authors", s.authors.Routes(adminOnly))
	r.Mount("/categories", s.categories.Routes(adminOnly))
	r.Mount("/programs", s.programs.Routes(adminOnly))
	r.Mount("/auth", s.login.Routes())

	return r
}
