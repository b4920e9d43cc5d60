package schema

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Email        string `gorm:"uniqueIndex;not null"`
	Name         string
	PasswordHash []byte `gorm:"not null" json:"-"`
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
	Citations       int
	IsFeatured      bool

	CategoryId *uuid.UUID        `gorm:"type:uuid;index"`
	Category   *ResearchCategory `gorm:"foreignKey:CategoryId"`

	Authors []PublicationAuthor `gorm:"foreignKey:PublicationId;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthorOrder is 1-based and only used for sorting a publication's authors.
// The schema does not force order values to be unique per publication, ties
// are broken by author id when reading.
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

	Projects []Project `gorm:"foreignKey:ProgramAreaId;constraint:OnDelete:CASCADE"`
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

func AllTables() []any {
	return []any{
		&User{}, &ResearchCategory{}, &Author{}, &Publication{},
		&PublicationAuthor{}, &ProgramArea{}, &Project{},
	}
}
