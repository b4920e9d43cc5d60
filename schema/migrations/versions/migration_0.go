package versions

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func Migration0(db *gorm.DB) error {
	type User struct {
		Id uuid.UUID `gorm:"type:uuid;primaryKey"`

		Email        string `gorm:"uniqueIndex;not null"`
		Name         string
		PasswordHash []byte `gorm:"not null"`
		IsAdmin      bool

		CreatedAt time.Time
	}

	type ResearchCategory struct {
		Id uuid.UUID `gorm:"type:uuid;primaryKey"`

		Name        string `gorm:"not null"`
		Slug        string `gorm:"uniqueIndex;not null"`
		Description string
	}

	type Author struct {
		Id uuid.UUID `gorm:"type:uuid;primaryKey"`

		Name        string `gorm:"not null;index"`
		Email       string `gorm:"uniqueIndex;not null"`
		Affiliation string
		Bio         string
	}

	type Publication struct {
		Id uuid.UUID `gorm:"type:uuid;primaryKey"`

		Title           string `gorm:"not null"`
		Abstract        string
		Journal         string
		PublicationYear int    `gorm:"index"`
		PublicationType string `gorm:"size:40"`
		Doi             string
		PdfUrl          string
		IsFeatured      bool

		CategoryId *uuid.UUID        `gorm:"type:uuid;index"`
		Category   *ResearchCategory `gorm:"foreignKey:CategoryId"`

		CreatedAt time.Time
		UpdatedAt time.Time
	}

	type PublicationAuthor struct {
		PublicationId uuid.UUID `gorm:"type:uuid;primaryKey"`
		AuthorId      uuid.UUID `gorm:"type:uuid;primaryKey"`
		AuthorOrder   int       `gorm:"not null"`

		Author *Author `gorm:"foreignKey:AuthorId"`
	}

	type ProgramArea struct {
		Id uuid.UUID `gorm:"type:uuid;primaryKey"`

		Name        string `gorm:"not null"`
		Slug        string `gorm:"uniqueIndex;not null"`
		Description string
	}

	type Project struct {
		Id uuid.UUID `gorm:"type:uuid;primaryKey"`

		Name        string `gorm:"not null"`
		Slug        string `gorm:"uniqueIndex;not null"`
		Description string

		ProgramAreaId uuid.UUID `gorm:"type:uuid;not null;index"`

		StartDate *time.Time
		EndDate   *time.Time
	}

	// This uses the structs defined here instead of in schema.go because they need
	// to be consistent with the original schema definition and not reflect any schema
	// changes.
	err := db.AutoMigrate(
		&User{}, &ResearchCategory{}, &Author{}, &Publication{},
		&PublicationAuthor{}, &ProgramArea{}, &Project{},
	)
	if err != nil {
		return fmt.Errorf("initial migration failed: %w", err)
	}
	return nil
}
