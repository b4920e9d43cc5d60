package api

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	Id          uuid.UUID
	Name        string
	Slug        string
	Description string
}

type Author struct {
	Id          uuid.UUID
	Name        string
	Email       string
	Affiliation string
	Bio         string
}

type PublicationAuthor struct {
	Author      Author
	AuthorOrder int
}

type Publication struct {
	Id uuid.UUID

	Title           string
	Abstract        string
	Journal         string
	PublicationYear int
	PublicationType string
	Doi             string
	PdfUrl          string
	Citations       int
	IsFeatured      bool

	Category *Category

	Authors []PublicationAuthor

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicationFields is the dynamic field set accepted by create and update.
// Only fields present in the request body are applied, so every field is a
// pointer. Unknown keys are rejected by the request parser.
type PublicationFields struct {
	Title           *string
	Abstract        *string
	Journal         *string
	PublicationYear *int
	PublicationType *string
	Doi             *string
	PdfUrl          *string
	Citations       *int
	IsFeatured      *bool
	CategoryId      *uuid.UUID
}

type SetPublicationAuthorsRequest struct {
	AuthorIds []uuid.UUID
}

type CreateAuthorRequest struct {
	Name        string
	Email       string
	Affiliation string
	Bio         string
}

type CreateCategoryRequest struct {
	Name        string
	Slug        string
	Description string
}

type ProgramArea struct {
	Id          uuid.UUID
	Name        string
	Slug        string
	Description string

	Projects []Project
}

type Project struct {
	Id          uuid.UUID
	Name        string
	Slug        string
	Description string

	ProgramAreaId uuid.UUID

	StartDate *time.Time
	EndDate   *time.Time
}

type CreateProgramAreaRequest struct {
	Name        string
	Slug        string
	Description string
}

type CreateProjectRequest struct {
	Name        string
	Slug        string
	Description string

	StartDate *time.Time
	EndDate   *time.Time
}

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResponse struct {
	Token      string
	Expiration time.Time
}
