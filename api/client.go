package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Client is a typed client for the backend API. Read operations work without
// a login, mutations require Login with an admin account first.
type Client struct {
	backend *resty.Client
}

func NewClient(backendUrl string) *Client {
	return &Client{
		backend: resty.New().SetBaseURL(backendUrl).SetAuthScheme("Bearer"),
	}
}

func checkResponse(res *resty.Response, err error, operation string) error {
	if err != nil {
		return fmt.Errorf("%v request failed: %w", operation, err)
	}
	if !res.IsSuccess() {
		return fmt.Errorf("%v request returned status=%d body=%s", operation, res.StatusCode(), res.String())
	}
	return nil
}

func (client *Client) Login(email, password string) error {
	res, err := client.backend.R().
		SetBody(LoginRequest{Email: email, Password: password}).
		SetResult(&LoginResponse{}).
		Post("/api/v1/auth/login")

	if err := checkResponse(res, err, "login"); err != nil {
		return err
	}

	client.backend.SetAuthToken(res.Result().(*LoginResponse).Token)

	return nil
}

// PublicationQuery mirrors the query parameters of the list endpoint. Zero
// values are omitted except Featured, which is sent whenever set.
type PublicationQuery struct {
	Category string
	Year     int
	Featured *bool
	Limit    int
	Offset   int
}

func (q PublicationQuery) params() map[string]string {
	params := map[string]string{}
	if q.Category != "" {
		params["category"] = q.Category
	}
	if q.Year != 0 {
		params["year"] = strconv.Itoa(q.Year)
	}
	if q.Featured != nil {
		params["featured"] = strconv.FormatBool(*q.Featured)
	}
	if q.Limit != 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	if q.Offset != 0 {
		params["offset"] = strconv.Itoa(q.Offset)
	}
	return params
}

func (client *Client) ListPublications(query PublicationQuery) ([]Publication, error) {
	var results []Publication
	res, err := client.backend.R().
		SetQueryParams(query.params()).
		SetResult(&results).
		Get("/api/v1/publications")

	if err := checkResponse(res, err, "list publications"); err != nil {
		return nil, err
	}
	return results, nil
}

func (client *Client) GetPublication(id uuid.UUID) (Publication, error) {
	var result Publication
	res, err := client.backend.R().
		SetResult(&result).
		Get("/api/v1/publications/" + id.String())

	if err := checkResponse(res, err, "get publication"); err != nil {
		return Publication{}, err
	}
	return result, nil
}

func (client *Client) CreatePublication(fields PublicationFields) (Publication, error) {
	var result Publication
	res, err := client.backend.R().
		SetBody(fields).
		SetResult(&result).
		Post("/api/v1/publications")

	if err := checkResponse(res, err, "create publication"); err != nil {
		return Publication{}, err
	}
	return result, nil
}

func (client *Client) UpdatePublication(id uuid.UUID, fields PublicationFields) (Publication, error) {
	var result Publication
	res, err := client.backend.R().
		SetBody(fields).
		SetResult(&result).
		Put("/api/v1/publications/" + id.String())

	if err := checkResponse(res, err, "update publication"); err != nil {
		return Publication{}, err
	}
	return result, nil
}

func (client *Client) DeletePublication(id uuid.UUID) error {
	res, err := client.backend.R().
		Delete("/api/v1/publications/" + id.String())

	return checkResponse(res, err, "delete publication")
}

func (client *Client) SetPublicationAuthors(id uuid.UUID, authorIds []uuid.UUID) error {
	res, err := client.backend.R().
		SetBody(SetPublicationAuthorsRequest{AuthorIds: authorIds}).
		Post("/api/v1/publications/" + id.String() + "/authors")

	return checkResponse(res, err, "set publication authors")
}

func (client *Client) ClearPublicationAuthors(id uuid.UUID) error {
	res, err := client.backend.R().
		Delete("/api/v1/publications/" + id.String() + "/authors")

	return checkResponse(res, err, "clear publication authors")
}

func (client *Client) ListAuthors() ([]Author, error) {
	var results []Author
	res, err := client.backend.R().
		SetResult(&results).
		Get("/api/v1/authors")

	if err := checkResponse(res, err, "list authors"); err != nil {
		return nil, err
	}
	return results, nil
}

func (client *Client) CreateAuthor(req CreateAuthorRequest) (Author, error) {
	var result Author
	res, err := client.backend.R().
		SetBody(req).
		SetResult(&result).
		Post("/api/v1/authors")

	if err := checkResponse(res, err, "create author"); err != nil {
		return Author{}, err
	}
	return result, nil
}

func (client *Client) ListCategories() ([]Category, error) {
	var results []Category
	res, err := client.backend.R().
		SetResult(&results).
		Get("/api/v1/categories")

	if err := checkResponse(res, err, "list categories"); err != nil {
		return nil, err
	}
	return results, nil
}

func (client *Client) ListProgramAreas() ([]ProgramArea, error) {
	var results []ProgramArea
	res, err := client.backend.R().
		SetResult(&results).
		Get("/api/v1/programs")

	if err := checkResponse(res, err, "list program areas"); err != nil {
		return nil, err
	}
	return results, nil
}

func (client *Client) GetProgramArea(slug string) (ProgramArea, error) {
	var result ProgramArea
	res, err := client.backend.R().
		SetResult(&result).
		Get("/api/v1/programs/" + url.PathEscape(slug))

	if err := checkResponse(res, err, "get program area"); err != nil {
		return ProgramArea{}, err
	}
	return result, nil
}

func (client *Client) ListProjects(slug string) ([]Project, error) {
	var results []Project
	res, err := client.backend.R().
		SetResult(&results).
		Get("/api/v1/programs/" + url.PathEscape(slug) + "/projects")

	if err := checkResponse(res, err, "list projects"); err != nil {
		return nil, err
	}
	return results, nil
}
