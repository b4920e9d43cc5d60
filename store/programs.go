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

type ProgramStore struct {
	db *gorm.DB
}

func NewProgramStore(db *gorm.DB) *ProgramStore {
	return &ProgramStore{db: db}
}

func (s *ProgramStore) ListAreas(ctx context.Context) ([]api.ProgramArea, error) {
	var areas []schema.ProgramArea
	err := s.db.WithContext(ctx).
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("name ASC").
		Find(&areas).Error
	if err != nil {
		slog.Error("error listing program areas", "error", err)
		return nil, ErrStoreFailed
	}

	results := make([]api.ProgramArea, 0, len(areas))
	for _, area := range areas {
		results = append(results, convertProgramArea(area))
	}
	return results, nil
}

func (s *ProgramStore) GetAreaBySlug(ctx context.Context, slug string) (api.ProgramArea, error) {
	var area schema.ProgramArea
	err := s.db.WithContext(ctx).
		Preload("Projects", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&area, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return api.ProgramArea{}, ErrProgramAreaNotFound
		}
		slog.Error("error retrieving program area", "slug", slug, "error", err)
		return api.ProgramArea{}, ErrStoreFailed
	}
	return convertProgramArea(area), nil
}

func (s *ProgramStore) ListProjects(ctx context.Context, areaSlug string) ([]api.Project, error) {
	area, err := s.GetAreaBySlug(ctx, areaSlug)
	if err != nil {
		return nil, err
	}
	return area.Projects, nil
}

// UpsertArea creates a program area keyed on slug, leaving an existing area
// unchanged.
func (s *ProgramStore) UpsertArea(ctx context.Context, req api.CreateProgramAreaRequest) (api.ProgramArea, error) {
	area := schema.ProgramArea{
		Id:          uuid.New(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&area).Error
	if err != nil {
		slog.Error("error upserting program area", "error", err)
		return api.ProgramArea{}, ErrStoreFailed
	}

	return s.GetAreaBySlug(ctx, req.Slug)
}

// UpsertProject creates a project keyed on slug under the program area named
// by areaSlug.
func (s *ProgramStore) UpsertProject(ctx context.Context, areaSlug string, req api.CreateProjectRequest) (api.Project, error) {
	area, err := s.GetAreaBySlug(ctx, areaSlug)
	if err != nil {
		return api.Project{}, err
	}

	project := schema.Project{
		Id:            uuid.New(),
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		ProgramAreaId: area.Id,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&project).Error
	if err != nil {
		slog.Error("error upserting project", "error", err)
		return api.Project{}, ErrStoreFailed
	}

	var stored schema.Project
	if err := s.db.WithContext(ctx).First(&stored, "slug = ?", req.Slug).Error; err != nil {
		slog.Error("error retrieving upserted project", "error", err)
		return api.Project{}, ErrStoreFailed
	}

	return convertProject(stored), nil
}

func convertProgramArea(area schema.ProgramArea) api.ProgramArea {
	result := api.ProgramArea{
		Id:          area.Id,
		Name:        area.Name,
		Slug:        area.Slug,
		Description: area.Description,
	}

	result.Projects = make([]api.Project, 0, len(area.Projects))
	for _, project := range area.Projects {
		result.Projects = append(result.Projects, convertProject(project))
	}
	return result
}

func convertProject(project schema.Project) api.Project {
	return api.Project{
		Id:            project.Id,
		Name:          project.Name,
		Slug:          project.Slug,
		Description:   project.Description,
		ProgramAreaId: project.ProgramAreaId,
		StartDate:     project.StartDate,
		EndDate:       project.EndDate,
	}
}
