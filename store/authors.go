package store

import (
	"context"
	"log/slog"

	"clearwater/api"
	"clearwater/schema"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthorStore struct {
	db *gorm.DB
}

func NewAuthorStore(db *gorm.DB) *AuthorStore {
	return &AuthorStore{db: db}
}

func (s *AuthorStore) List(ctx context.Context) ([]api.Author, error) {
	var authors []schema.Author
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&authors).Error; err != nil {
		slog.Error("error listing authors", "error", err)
		return nil, ErrStoreFailed
	}

	results := make([]api.Author, 0, len(authors))
	for _, author := range authors {
		results = append(results, convertAuthor(author))
	}
	return results, nil
}

// Upsert creates an author keyed on email. If an author with that email
// already exists, the descriptive fields are updated in place and the
// existing id is kept.
func (s *AuthorStore) Upsert(ctx context.Context, req api.CreateAuthorRequest) (api.Author, error) {
	author := schema.Author{
		Id:          uuid.New(),
		Name:        req.Name,
		Email:       req.Email,
		Affiliation: req.Affiliation,
		Bio:         req.Bio,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "affiliation", "bio"}),
	}).Create(&author).Error
	if err != nil {
		slog.Error("error upserting author", "error", err)
		return api.Author{}, ErrStoreFailed
	}

	// The insert id is not the stored id when the email already existed, so
	// the row is always re-read by its natural key.
	var stored schema.Author
	if err := s.db.WithContext(ctx).First(&stored, "email = ?", req.Email).Error; err != nil {
		slog.Error("error retrieving upserted author", "error", err)
		return api.Author{}, ErrStoreFailed
	}

	return convertAuthor(stored), nil
}

func convertAuthor(author schema.Author) api.Author {
	return api.Author{
		Id:          author.Id,
		Name:        author.Name,
		Email:       author.Email,
		Affiliation: author.Affiliation,
		Bio:         author.Bio,
	}
}
