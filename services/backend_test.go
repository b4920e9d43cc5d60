package services_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clearwater/api"
	"clearwater/schema"
	"clearwater/services"
	"clearwater/services/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJwtSecret = "0123456789abcdef0123456789abcdef"

type testBackend struct {
	handler http.Handler
	db      *gorm.DB
	tokens  *auth.JwtAuth
}

func createBackend(t *testing.T) *testBackend {
	db := schema.SetupTestDB(t)

	tokens, err := auth.NewJwtAuth(testJwtSecret)
	if err != nil {
		t.Fatal(err)
	}

	backend := services.NewBackend(db, tokens)

	return &testBackend{handler: backend.Routes(), db: db, tokens: tokens}
}

func (b *testBackend) createUser(t *testing.T, email, password string, isAdmin bool) schema.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	user := schema.User{
		Id:           uuid.New(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := b.db.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func (b *testBackend) adminToken(t *testing.T) string {
	user := b.createUser(t, uuid.NewString()+"@example.org", "password", true)
	token, _, err := b.tokens.IssueToken(auth.Identity{UserId: user.Id, Email: user.Email, IsAdmin: true})
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func (b *testBackend) userToken(t *testing.T) string {
	user := b.createUser(t, uuid.NewString()+"@example.org", "password", false)
	token, _, err := b.tokens.IssueToken(auth.Identity{UserId: user.Id, Email: user.Email, IsAdmin: false})
	if err != nil {
		t.Fatal(err)
	}
	return token
}

var ErrUnauthorized = errors.New("unauthorized")

func (b *testBackend) request(method, endpoint, token string, jsonBody any, result any) error {
	var body io.Reader
	if jsonBody != nil {
		data := new(bytes.Buffer)
		err := json.NewEncoder(data).Encode(jsonBody)
		if err != nil {
			return fmt.Errorf("error encoding json body for endpoint %v: %w", endpoint, err)
		}
		body = data
	}

	req := httptest.NewRequest(method, endpoint, body)
	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		err := fmt.Errorf("%v request to endpoint %v returned status %d, content '%v'", method, endpoint, res.StatusCode, w.Body.String())
		if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
			return errors.Join(ErrUnauthorized, err)
		}
		return err
	}

	if result != nil {
		err := json.NewDecoder(res.Body).Decode(result)
		if err != nil {
			return fmt.Errorf("error parsing %v response from endpoint %v: %w", method, endpoint, err)
		}
	}

	return nil
}

func (b *testBackend) Get(endpoint string, result any) error {
	return b.request("GET", endpoint, "", nil, result)
}

func (b *testBackend) Post(endpoint, token string, jsonBody, result any) error {
	return b.request("POST", endpoint, token, jsonBody, result)
}

func (b *testBackend) Put(endpoint, token string, jsonBody, result any) error {
	return b.request("PUT", endpoint, token, jsonBody, result)
}

func (b *testBackend) Delete(endpoint, token string) error {
	return b.request("DELETE", endpoint, token, nil, nil)
}

func (b *testBackend) status(t *testing.T, method, endpoint, token string, jsonBody any) int {
	var body io.Reader
	if jsonBody != nil {
		data := new(bytes.Buffer)
		if err := json.NewEncoder(data).Encode(jsonBody); err != nil {
			t.Fatal(err)
		}
		body = data
	}

	req := httptest.NewRequest(method, endpoint, body)
	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, req)
	return w.Result().StatusCode
}

func ptr[T any](v T) *T {
	return &v
}

func (b *testBackend) createCategory(t *testing.T, token, name, slug string) api.Category {
	var category api.Category
	err := b.Post("/categories", token, api.CreateCategoryRequest{Name: name, Slug: slug}, &category)
	if err != nil {
		t.Fatal(err)
	}
	return category
}

func (b *testBackend) createAuthor(t *testing.T, token, name, email string) api.Author {
	var author api.Author
	err := b.Post("/authors", token, api.CreateAuthorRequest{Name: name, Email: email}, &author)
	if err != nil {
		t.Fatal(err)
	}
	return author
}

func (b *testBackend) createPublication(t *testing.T, token string, fields api.PublicationFields) api.Publication {
	var publication api.Publication
	if err := b.Post("/publications", token, fields, &publication); err != nil {
		t.Fatal(err)
	}
	return publication
}

func TestMutationsRequireAdmin(t *testing.T) {
	backend := createBackend(t)
	user := backend.userToken(t)

	fields := api.PublicationFields{Title: ptr("unauthorized")}

	if err := backend.Post("/publications", "", fields, nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatal("anonymous callers must not create publications")
	}

	if err := backend.Post("/publications", user, fields, nil); !errors.Is(err, ErrUnauthorized) {
		t.Fatal("non-admin callers must not create publications")
	}

	if status := backend.status(t, "POST", "/publications", "", fields); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing token, got %d", status)
	}

	if status := backend.status(t, "POST", "/publications", user, fields); status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin token, got %d", status)
	}

	// Reads stay public.
	var publications []api.Publication
	if err := backend.Get("/publications", &publications); err != nil {
		t.Fatal(err)
	}
}

func TestPublicationCrud(t *testing.T) {
	backend := createBackend(t)
	admin := backend.adminToken(t)

	category := backend.createCategory(t, admin, "Climate Resilience", "climate-resilience")

	created := backend.createPublication(t, admin, api.PublicationFields{
		Title:           ptr("Adaptation Outcomes"),
		PublicationYear: ptr(2024),
		IsFeatured:      ptr(true),
		CategoryId:      &category.Id,
	})

	if status := backend.status(t, "POST", "/publications", admin, api.PublicationFields{Title: ptr("x")}); status != http.StatusCreated {
		t.Fatalf("expected 201 from create, got %d", status)
	}

	var retrieved api.Publication
	if err := backend.Get("/publications/"+created.Id.String(), &retrieved); err != nil {
		t.Fatal(err)
	}
	if retrieved.Title != "Adaptation Outcomes" || retrieved.Category == nil || retrieved.Category.Slug != "climate-resilience" {
		t.Fatalf("unexpected publication returned: %+v", retrieved)
	}

	var updated api.Publication
	if err := backend.Put("/publications/"+created.Id.String(), admin, api.PublicationFields{Citations: ptr(5)}, &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Citations != 5 || updated.Title != "Adaptation Outcomes" {
		t.Fatalf("update not applied correctly: %+v", updated)
	}

	if status := backend.status(t, "DELETE", "/publications/"+created.Id.String(), admin, nil); status != http.StatusNoContent {
		t.Fatalf("expected 204 from delete, got %d", status)
	}

	if status := backend.status(t, "GET", "/publications/"+created.Id.String(), "", nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}

	// Delete is idempotent.
	if status := backend.status(t, "DELETE", "/publications/"+created.Id.String(), admin, nil); status != http.StatusNoContent {
		t.Fatalf("expected 204 from repeated delete, got %d", status)
	}
}

func TestPublicationValidation(t *testing.T) {
	backend := createBackend(t)
	admin := backend.adminToken(t)

	if status := backend.status(t, "GET", "/publications?year=abc", "", nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric year, got %d", status)
	}
	if status := backend.status(t, "GET", "/publications?limit=xyz", "", nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric limit, got %d", status)
	}
	if status := backend.status(t, "GET", "/publications?limit=-1", "", nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative limit, got %d", status)
	}
	if status := backend.status(t, "GET", "/publications?featured=maybe", "", nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-boolean featured, got %d", status)
	}

	if status := backend.status(t, "GET", "/publications/not-a-uuid", "", nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", status)
	}
	if status := backend.status(t, "GET", "/publications/"+uuid.NewString(), "", nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", status)
	}

	if status := backend.status(t, "POST", "/publications", admin, api.PublicationFields{}); status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing title, got %d", status)
	}

	// Unknown body keys are rejected, not silently dropped.
	if status := backend.status(t, "POST", "/publications", admin, map[string]any{"Title": "x", "Bogus": 1}); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown body field, got %d", status)
	}

	badCategory := uuid.New()
	if status := backend.status(t, "POST", "/publications", admin, api.PublicationFields{
		Title:      ptr("orphan"),
		CategoryId: &badCategory,
	}); status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown category, got %d", status)
	}
}

func TestPublicationFilterScenario(t *testing.T) {
	backend := createBackend(t)
	admin := backend.adminToken(t)

	climate := backend.createCategory(t, admin, "Climate Resilience", "climate-resilience")
	water := backend.createCategory(t, admin, "Freshwater Systems", "freshwater-systems")

	backend.createPublication(t, admin, api.PublicationFields{
		Title: ptr("featured-climate-2024"), PublicationYear: ptr(2024),
		IsFeatured: ptr(true), CategoryId: &climate.Id,
	})
	backend.createPublication(t, admin, api.PublicationFields{
		Title: ptr("featured-climate-2021"), PublicationYear: ptr(2021),
		IsFeatured: ptr(true), CategoryId: &climate.Id,
	})
	backend.createPublication(t, admin, api.PublicationFields{
		Title: ptr("plain-climate-2023"), PublicationYear: ptr(2023),
		IsFeatured: ptr(false), CategoryId: &climate.Id,
	})
	backend.createPublication(t, admin, api.PublicationFields{
		Title: ptr("featured-water-2024"), PublicationYear: ptr(2024),
		IsFeatured: ptr(true), CategoryId: &water.Id,
	})

	var results []api.Publication
	if err := backend.Get("/publications?category=climate-resilience&featured=true", &results); err != nil {
		t.Fatal(err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 publications, got %d", len(results))
	}
	if results[0].Title != "featured-climate-2024" || results[1].Title != "featured-climate-2021" {
		t.Fatalf("expected featured climate publications in descending year order, got %+v", results)
	}
	for _, p := range results {
		if p.Category == nil || p.Category.Id != climate.Id || !p.IsFeatured {
			t.Fatalf("publication disagrees with filters: %+v", p)
		}
	}
}

func TestPublicationAuthorEndpoints(t *testing.T) {
	backend := createBackend(t)
	admin := backend.adminToken(t)

	a1 := backend.createAuthor(t, admin, "First Author", "a1@example.org")
	a2 := backend.createAuthor(t, admin, "Second Author", "a2@example.org")

	publication := backend.createPublication(t, admin, api.PublicationFields{
		Title: ptr("joint work"), PublicationYear: ptr(2024),
	})

	attach := api.SetPublicationAuthorsRequest{AuthorIds: []uuid.UUID{a1.Id, a2.Id}}
	if status := backend.status(t, "POST", "/publications/"+publication.Id.String()+"/authors", admin, attach); status != http.StatusCreated {
		t.Fatalf("expected 201 from author attach, got %d", status)
	}

	var retrieved api.Publication
	if err := backend.Get("/publications/"+publication.Id.String(), &retrieved); err != nil {
		t.Fatal(err)
	}
	if len(retrieved.Authors) != 2 ||
		retrieved.Authors[0].AuthorOrder != 1 || retrieved.Authors[0].Author.Id != a1.Id ||
		retrieved.Authors[1].AuthorOrder != 2 || retrieved.Authors[1].Author.Id != a2.Id {
		t.Fatalf("expected authors in attach order with 1-based author order, got %+v", retrieved.Authors)
	}

	dup := api.SetPublicationAuthorsRequest{AuthorIds: []uuid.UUID{a1.Id, a1.Id}}
	if status := backend.status(t, "POST", "/publications/"+publication.Id.String()+"/authors", admin, dup); status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for duplicate author ids, got %d", status)
	}

	// Posting a new list replaces the old one, even when it shares authors.
	replace := api.SetPublicationAuthorsRequest{AuthorIds: []uuid.UUID{a2.Id}}
	if status := backend.status(t, "POST", "/publications/"+publication.Id.String()+"/authors", admin, replace); status != http.StatusCreated {
		t.Fatalf("expected 201 from author replace, got %d", status)
	}
	if err := backend.Get("/publications/"+publication.Id.String(), &retrieved); err != nil {
		t.Fatal(err)
	}
	if len(retrieved.Authors) != 1 || retrieved.Authors[0].Author.Id != a2.Id || retrieved.Authors[0].AuthorOrder != 1 {
		t.Fatalf("expected replaced author list, got %+v", retrieved.Authors)
	}

	if status := backend.status(t, "DELETE", "/publications/"+publication.Id.String()+"/authors", admin, nil); status != http.StatusNoContent {
		t.Fatalf("expected 204 from author detach, got %d", status)
	}

	if err := backend.Get("/publications/"+publication.Id.String(), &retrieved); err != nil {
		t.Fatal(err)
	}
	if len(retrieved.Authors) != 0 {
		t.Fatal("expected no authors after detach")
	}
}

func TestAuthorAndCategoryListings(t *testing.T) {
	backend := createBackend(t)
	admin := backend.adminToken(t)

	backend.createAuthor(t, admin, "Zoe", "zoe@example.org")
	backend.createAuthor(t, admin, "Ana", "ana@example.org")
	backend.createCategory(t, admin, "Water", "water")
	backend.createCategory(t, admin, "Climate", "climate")

	var authors []api.Author
	if err := backend.Get("/authors", &authors); err != nil {
		t.Fatal(err)
	}
	if len(authors) != 2 || authors[0].Name != "Ana" || authors[1].Name != "Zoe" {
		t.Fatalf("expected authors sorted by name, got %+v", authors)
	}

	var categories []api.Category
	if err := backend.Get("/categories", &categories); err != nil {
		t.Fatal(err)
	}
	if len(categories) != 2 || categories[0].Name != "Climate" || categories[1].Name != "Water" {
		t.Fatalf("expected categories sorted by name, got %+v", categories)
	}
}

func TestProgramEndpoints(t *testing.T) {
	backend := createBackend(t)
	admin := backend.adminToken(t)

	var area api.ProgramArea
	err := backend.Post("/programs", admin, api.CreateProgramAreaRequest{
		Name: "Healthy Watersheds", Slug: "healthy-watersheds",
	}, &area)
	if err != nil {
		t.Fatal(err)
	}

	var project api.Project
	err = backend.Post("/programs/healthy-watersheds/projects", admin, api.CreateProjectRequest{
		Name: "Headwaters Reforestation", Slug: "headwaters-reforestation",
	}, &project)
	if err != nil {
		t.Fatal(err)
	}
	if project.ProgramAreaId != area.Id {
		t.Fatal("project must reference its program area")
	}

	var stored api.ProgramArea
	if err := backend.Get("/programs/healthy-watersheds", &stored); err != nil {
		t.Fatal(err)
	}
	if len(stored.Projects) != 1 || stored.Projects[0].Slug != "headwaters-reforestation" {
		t.Fatalf("expected nested projects, got %+v", stored)
	}

	if status := backend.status(t, "GET", "/programs/no-such-area", "", nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown program area, got %d", status)
	}
}

func TestLogin(t *testing.T) {
	backend := createBackend(t)

	backend.createUser(t, "admin@example.org", "correct horse battery", true)

	var res api.LoginResponse
	err := backend.Post("/auth/login", "", api.LoginRequest{
		Email: "admin@example.org", Password: "correct horse battery",
	}, &res)
	if err != nil {
		t.Fatal(err)
	}
	if res.Token == "" {
		t.Fatal("expected a token from login")
	}

	// The issued token must pass the admin middleware.
	fields := api.PublicationFields{Title: ptr("logged in")}
	if err := backend.Post("/publications", res.Token, fields, nil); err != nil {
		t.Fatal(err)
	}

	if status := backend.status(t, "POST", "/auth/login", "", api.LoginRequest{
		Email: "admin@example.org", Password: "wrong",
	}); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", status)
	}

	if status := backend.status(t, "POST", "/auth/login", "", api.LoginRequest{
		Email: "nobody@example.org", Password: "irrelevant",
	}); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown email, got %d", status)
	}
}
