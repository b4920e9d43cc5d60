package store

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"clearwater/api"
	"clearwater/schema"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PublicationStore struct {
	db *gorm.DB
}

func NewPublicationStore(db *gorm.DB) *PublicationStore {
	return &PublicationStore{db: db}
}

// PublicationFilters narrows the publication listing. Nil fields mean "no
// constraint"; Featured must stay a pointer since false is a real filter
// value, not an absent one.
type PublicationFilters struct {
	Category string
	Year     *int
	Featured *bool
	Limit    *int
	Offset   *int
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Authors", func(db *gorm.DB) *gorm.DB {
			return db.Order("author_order ASC, author_id ASC")
		}).
		Preload("Authors.Author")
}

func (s *PublicationStore) List(ctx context.Context, filters PublicationFilters) ([]api.Publication, error) {
	query := withRelations(s.db.WithContext(ctx)).Model(&schema.Publication{})

	if filters.Category != "" && filters.Category != CategoryAll {
		query = query.
			Select("publications.*").
			Joins("JOIN research_categories ON research_categories.id = publications.category_id").
			Where("research_categories.slug = ?", filters.Category)
	}

	if filters.Year != nil {
		query = query.Where("publication_year = ?", *filters.Year)
	}

	if filters.Featured != nil {
		query = query.Where("is_featured = ?", *filters.Featured)
	}

	query = query.Order("publication_year DESC")

	if filters.Limit != nil {
		query = query.Limit(*filters.Limit)
	} else if filters.Offset != nil {
		// sqlite rejects OFFSET without LIMIT, so an explicit unbounded
		// limit is set when only an offset is supplied.
		query = query.Limit(math.MaxInt32)
	}

	if filters.Offset != nil {
		query = query.Offset(*filters.Offset)
	}

	var publications []schema.Publication
	if err := query.Find(&publications).Error; err != nil {
		slog.Error("error listing publications", "error", err)
		return nil, ErrStoreFailed
	}

	results := make([]api.Publication, 0, len(publications))
	for _, publication := range publications {
		results = append(results, convertPublication(publication))
	}
	return results, nil
}

func (s *PublicationStore) Get(ctx context.Context, id uuid.UUID) (api.Publication, error) {
	var publication schema.Publication
	err := withRelations(s.db.WithContext(ctx)).First(&publication, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return api.Publication{}, ErrPublicationNotFound
		}
		slog.Error("error retrieving publication", "publication_id", id, "error", err)
		return api.Publication{}, ErrStoreFailed
	}

	return convertPublication(publication), nil
}

// publicationUpdates maps the dynamic field set onto column assignments. This
// is the explicit allow-list for create/update: a field not named here can
// never reach the statement.
func publicationUpdates(fields api.PublicationFields) map[string]any {
	updates := map[string]any{}

	if fields.Title != nil {
		updates["title"] = *fields.Title
	}
	if fields.Abstract != nil {
		updates["abstract"] = *fields.Abstract
	}
	if fields.Journal != nil {
		updates["journal"] = *fields.Journal
	}
	if fields.PublicationYear != nil {
		updates["publication_year"] = *fields.PublicationYear
	}
	if fields.PublicationType != nil {
		updates["publication_type"] = *fields.PublicationType
	}
	if fields.Doi != nil {
		updates["doi"] = *fields.Doi
	}
	if fields.PdfUrl != nil {
		updates["pdf_url"] = *fields.PdfUrl
	}
	if fields.Citations != nil {
		updates["citations"] = *fields.Citations
	}
	if fields.IsFeatured != nil {
		updates["is_featured"] = *fields.IsFeatured
	}
	if fields.CategoryId != nil {
		updates["category_id"] = *fields.CategoryId
	}

	return updates
}

func (s *PublicationStore) checkCategoryExists(txn *gorm.DB, categoryId uuid.UUID) error {
	var count int64
	if err := txn.Model(&schema.ResearchCategory{}).Where("id = ?", categoryId).Count(&count).Error; err != nil {
		slog.Error("error checking category", "category_id", categoryId, "error", err)
		return ErrStoreFailed
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (s *PublicationStore) Create(ctx context.Context, fields api.PublicationFields) (api.Publication, error) {
	id := uuid.New()

	err := s.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if fields.CategoryId != nil {
			if err := s.checkCategoryExists(txn, *fields.CategoryId); err != nil {
				return err
			}
		}

		publication := schema.Publication{Id: id}
		applyPublicationFields(&publication, fields)

		if err := txn.Create(&publication).Error; err != nil {
			slog.Error("error creating publication", "error", err)
			return ErrStoreFailed
		}
		return nil
	})
	if err != nil {
		return api.Publication{}, err
	}

	return s.Get(ctx, id)
}

func (s *PublicationStore) Update(ctx context.Context, id uuid.UUID, fields api.PublicationFields) (api.Publication, error) {
	err := s.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		var existing schema.Publication
		if err := txn.Select("id").First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPublicationNotFound
			}
			slog.Error("error retrieving publication for update", "publication_id", id, "error", err)
			return ErrStoreFailed
		}

		if fields.CategoryId != nil {
			if err := s.checkCategoryExists(txn, *fields.CategoryId); err != nil {
				return err
			}
		}

		updates := publicationUpdates(fields)
		if len(updates) == 0 {
			return nil
		}

		if err := txn.Model(&schema.Publication{Id: id}).Updates(updates).Error; err != nil {
			slog.Error("error updating publication", "publication_id", id, "error", err)
			return ErrStoreFailed
		}
		return nil
	})
	if err != nil {
		return api.Publication{}, err
	}

	return s.Get(ctx, id)
}

// Delete is idempotent, removing a publication that does not exist is a no-op.
func (s *PublicationStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		if err := txn.Delete(&schema.PublicationAuthor{}, "publication_id = ?", id).Error; err != nil {
			slog.Error("error deleting publication authors", "publication_id", id, "error", err)
			return ErrStoreFailed
		}

		if err := txn.Delete(&schema.Publication{}, "id = ?", id).Error; err != nil {
			slog.Error("error deleting publication", "publication_id", id, "error", err)
			return ErrStoreFailed
		}
		return nil
	})
}

// FindDuplicate reports whether a publication matching the seed identity
// already exists: by doi when one is present, otherwise by title and year.
// Publications have no natural unique key, so this is the guard that keeps
// re-running the seed from appending duplicates.
func (s *PublicationStore) FindDuplicate(ctx context.Context, title string, year int, doi string) (uuid.UUID, bool, error) {
	query := s.db.WithContext(ctx).Model(&schema.Publication{})
	if doi != "" {
		query = query.Where("doi = ?", doi)
	} else {
		query = query.Where("title = ? AND publication_year = ?", title, year)
	}

	var existing schema.Publication
	if err := query.First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, false, nil
		}
		slog.Error("error checking for duplicate publication", "error", err)
		return uuid.Nil, false, ErrStoreFailed
	}

	return existing.Id, true, nil
}

// SetAuthors replaces a publication's author list with the given authors,
// assigning author_order from the 1-based position in authorIds. The existing
// attachments are dropped and the new list written in one transaction, so a
// partial failure leaves the previous list intact. An empty input is a no-op;
// ClearAuthors is the detach path.
func (s *PublicationStore) SetAuthors(ctx context.Context, publicationId uuid.UUID, authorIds []uuid.UUID) error {
	if len(authorIds) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(txn *gorm.DB) error {
		var count int64
		if err := txn.Model(&schema.Publication{}).Where("id = ?", publicationId).Count(&count).Error; err != nil {
			slog.Error("error checking publication", "publication_id", publicationId, "error", err)
			return ErrStoreFailed
		}
		if count == 0 {
			return ErrPublicationNotFound
		}

		if err := txn.Model(&schema.Author{}).Where("id IN ?", authorIds).Count(&count).Error; err != nil {
			slog.Error("error checking authors", "publication_id", publicationId, "error", err)
			return ErrStoreFailed
		}
		if count != int64(len(uniqueIds(authorIds))) {
			return ErrAuthorNotFound
		}

		if err := txn.Delete(&schema.PublicationAuthor{}, "publication_id = ?", publicationId).Error; err != nil {
			slog.Error("error replacing authors", "publication_id", publicationId, "error", err)
			return ErrStoreFailed
		}

		entries := make([]schema.PublicationAuthor, 0, len(authorIds))
		for i, authorId := range authorIds {
			entries = append(entries, schema.PublicationAuthor{
				PublicationId: publicationId,
				AuthorId:      authorId,
				AuthorOrder:   i + 1,
			})
		}

		if err := txn.Create(&entries).Error; err != nil {
			slog.Error("error attaching authors", "publication_id", publicationId, "error", err)
			return ErrStoreFailed
		}
		return nil
	})
}

// ClearAuthors detaches all authors from a publication. Used by the admin edit
// flow before re-attaching the updated author list.
func (s *PublicationStore) ClearAuthors(ctx context.Context, publicationId uuid.UUID) error {
	err := s.db.WithContext(ctx).Delete(&schema.PublicationAuthor{}, "publication_id = ?", publicationId).Error
	if err != nil {
		slog.Error("error detaching authors", "publication_id", publicationId, "error", err)
		return ErrStoreFailed
	}
	return nil
}

func applyPublicationFields(publication *schema.Publication, fields api.PublicationFields) {
	if fields.Title != nil {
		publication.Title = *fields.Title
	}
	if fields.Abstract != nil {
		publication.Abstract = *fields.Abstract
	}
	if fields.Journal != nil {
		publication.Journal = *fields.Journal
	}
	if fields.PublicationYear != nil {
		publication.PublicationYear = *fields.PublicationYear
	}
	if fields.PublicationType != nil {
		publication.PublicationType = *fields.PublicationType
	}
	if fields.Doi != nil {
		publication.Doi = *fields.Doi
	}
	if fields.PdfUrl != nil {
		publication.PdfUrl = *fields.PdfUrl
	}
	if fields.Citations != nil {
		publication.Citations = *fields.Citations
	}
	if fields.IsFeatured != nil {
		publication.IsFeatured = *fields.IsFeatured
	}
	if fields.CategoryId != nil {
		publication.CategoryId = fields.CategoryId
	}
}

func uniqueIds(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func convertPublication(publication schema.Publication) api.Publication {
	result := api.Publication{
		Id:              publication.Id,
		Title:           publication.Title,
		Abstract:        publication.Abstract,
		Journal:         publication.Journal,
		PublicationYear: publication.PublicationYear,
		PublicationType: publication.PublicationType,
		Doi:             publication.Doi,
		PdfUrl:          publication.PdfUrl,
		Citations:       publication.Citations,
		IsFeatured:      publication.IsFeatured,
		CreatedAt:       publication.CreatedAt,
		UpdatedAt:       publication.UpdatedAt,
	}

	if publication.Category != nil {
		category := convertCategory(*publication.Category)
		result.Category = &category
	}

	result.Authors = make([]api.PublicationAuthor, 0, len(publication.Authors))
	for _, entry := range publication.Authors {
		author := api.Author{Id: entry.AuthorId}
		if entry.Author != nil {
			author = convertAuthor(*entry.Author)
		}
		result.Authors = append(result.Authors, api.PublicationAuthor{
			Author:      author,
			AuthorOrder: entry.AuthorOrder,
		})
	}

	return result
}
