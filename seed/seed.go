// Package seed populates the reference data the public site depends on. It
// can be re-run safely: every entity with a natural unique key is upserted,
// and publications are deduplicated by doi or title+year before insert.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clearwater/api"
	"clearwater/monitoring"
	"clearwater/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type PublicationSeed struct {
	Title           string
	Abstract        string
	Journal         string
	PublicationYear int
	PublicationType string
	Doi             string
	PdfUrl          string
	Citations       int
	IsFeatured      bool

	CategorySlug string
	// AuthorEmails is ordered, position determines author display order.
	AuthorEmails []string
}

type ProjectSeed struct {
	api.CreateProjectRequest
	AreaSlug string
}

type Data struct {
	Categories   []api.CreateCategoryRequest
	Authors      []api.CreateAuthorRequest
	ProgramAreas []api.CreateProgramAreaRequest
	Projects     []ProjectSeed
	Publications []PublicationSeed
}

type Seeder struct {
	users        *store.UserStore
	categories   *store.CategoryStore
	authors      *store.AuthorStore
	programs     *store.ProgramStore
	publications *store.PublicationStore
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		users:        store.NewUserStore(db),
		categories:   store.NewCategoryStore(db),
		authors:      store.NewAuthorStore(db),
		programs:     store.NewProgramStore(db),
		publications: store.NewPublicationStore(db),
	}
}

// SeedAdmin creates the admin account if it does not exist. The password is
// hashed before it reaches the store and must never be logged.
func (s *Seeder) SeedAdmin(ctx context.Context, email, name, password string) error {
	if email == "" || password == "" {
		return errors.New("admin email and password must be specified")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("error hashing admin password", "error", err)
		return errors.New("error hashing admin password")
	}

	if _, err := s.users.Upsert(ctx, email, name, hash, true); err != nil {
		return fmt.Errorf("error seeding admin account: %w", err)
	}

	monitoring.SeedUpserts.WithLabelValues("user").Inc()
	slog.Info("admin account seeded", "email", email)
	return nil
}

func (s *Seeder) Run(ctx context.Context, data Data) error {
	for _, category := range data.Categories {
		if _, err := s.categories.Upsert(ctx, category); err != nil {
			return fmt.Errorf("error seeding category '%v': %w", category.Slug, err)
		}
		monitoring.SeedUpserts.WithLabelValues("category").Inc()
	}

	authorIdsByEmail := make(map[string]uuid.UUID, len(data.Authors))
	for _, author := range data.Authors {
		stored, err := s.authors.Upsert(ctx, author)
		if err != nil {
			return fmt.Errorf("error seeding author '%v': %w", author.Email, err)
		}
		authorIdsByEmail[stored.Email] = stored.Id
		monitoring.SeedUpserts.WithLabelValues("author").Inc()
	}

	for _, area := range data.ProgramAreas {
		if _, err := s.programs.UpsertArea(ctx, area); err != nil {
			return fmt.Errorf("error seeding program area '%v': %w", area.Slug, err)
		}
		monitoring.SeedUpserts.WithLabelValues("program_area").Inc()
	}

	for _, project := range data.Projects {
		if _, err := s.programs.UpsertProject(ctx, project.AreaSlug, project.CreateProjectRequest); err != nil {
			return fmt.Errorf("error seeding project '%v': %w", project.Slug, err)
		}
		monitoring.SeedUpserts.WithLabelValues("project").Inc()
	}

	for _, publication := range data.Publications {
		if err := s.seedPublication(ctx, publication, authorIdsByEmail); err != nil {
			return fmt.Errorf("error seeding publication '%v': %w", publication.Title, err)
		}
	}

	return nil
}

func (s *Seeder) seedPublication(ctx context.Context, seed PublicationSeed, authorIdsByEmail map[string]uuid.UUID) error {
	_, exists, err := s.publications.FindDuplicate(ctx, seed.Title, seed.PublicationYear, seed.Doi)
	if err != nil {
		return err
	}
	if exists {
		slog.Info("publication already seeded, skipping", "title", seed.Title)
		return nil
	}

	fields := api.PublicationFields{
		Title:           &seed.Title,
		Abstract:        &seed.Abstract,
		Journal:         &seed.Journal,
		PublicationYear: &seed.PublicationYear,
		PublicationType: &seed.PublicationType,
		Doi:             &seed.Doi,
		PdfUrl:          &seed.PdfUrl,
		Citations:       &seed.Citations,
		IsFeatured:      &seed.IsFeatured,
	}

	if seed.CategorySlug != "" {
		category, err := s.categories.GetBySlug(ctx, seed.CategorySlug)
		if err != nil {
			return err
		}
		fields.CategoryId = &category.Id
	}

	created, err := s.publications.Create(ctx, fields)
	if err != nil {
		return err
	}

	authorIds := make([]uuid.UUID, 0, len(seed.AuthorEmails))
	for _, email := range seed.AuthorEmails {
		id, ok := authorIdsByEmail[email]
		if !ok {
			return fmt.Errorf("publication references unseeded author '%v'", email)
		}
		authorIds = append(authorIds, id)
	}

	if err := s.publications.SetAuthors(ctx, created.Id, authorIds); err != nil {
		return err
	}

	monitoring.SeedUpserts.WithLabelValues("publication").Inc()
	return nil
}
