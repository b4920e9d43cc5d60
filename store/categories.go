package store

import (
	"context"
	"errors"
	"log/slog"

	"clearwater/api"
	"clearwater/schema"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) List(ctx context.Context) ([]api.Category, error) {
	var categories []schema.ResearchCategory
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		slog.Error("error listing categories", "error", err)
		return nil, ErrStoreFailed
	}

	results := make([]api.Category, 0, len(categories))
	for _, category := range categories {
		results = append(results, convertCategory(category))
	}
	return results, nil
}

func (s *CategoryStore) GetBySlug(ctx context.Context, slug string) (api.Category, error) {
	var category schema.ResearchCategory
	err := s.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return api.Category{}, ErrCategoryNotFound
		}
		slog.Error("error retrieving category", "slug", slug, "error", err)
		return api.Category{}, ErrStoreFailed
	}
	return convertCategory(category), nil
}

// Upsert creates a category keyed on slug. A category that already exists is
// left unchanged, re-running the seed must not clobber admin edits.
func (s *CategoryStore) Upsert(ctx context.Context, req api.CreateCategoryRequest) (api.Category, error) {
	category := schema.ResearchCategory{
		Id:          uuid.New(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&category).Error
	if err != nil {
		slog.Error("error upserting category", "error", err)
		return api.Category{}, ErrStoreFailed
	}

	var stored schema.ResearchCategory
	if err := s.db.WithContext(ctx).First(&stored, "slug = ?", req.Slug).Error; err != nil {
		slog.Error("error retrieving upserted category", "error", err)
		return api.Category{}, ErrStoreFailed
	}

	return convertCategory(stored), nil
}

func convertCategory(category schema.ResearchCategory) api.Category {
	return api.Category{
		Id:          category.Id,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
	}
}
