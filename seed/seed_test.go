package seed_test

import (
	"bytes"
	"context"
	"testing"

	"clearwater/schema"
	"clearwater/seed"
	"clearwater/store"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	return count
}

func TestSeedIsIdempotent(t *testing.T) {
	db := schema.SetupTestDB(t)
	seeder := seed.NewSeeder(db)
	ctx := context.Background()
	data := seed.DefaultData()

	for i := 0; i < 2; i++ {
		if err := seeder.SeedAdmin(ctx, "admin@clearwater.org", "Admin", "test-password"); err != nil {
			t.Fatal(err)
		}
		if err := seeder.Run(ctx, data); err != nil {
			t.Fatal(err)
		}
	}

	if got := countRows(t, db, &schema.User{}); got != 1 {
		t.Fatalf("expected 1 user after re-seed, got %d", got)
	}
	if got := countRows(t, db, &schema.ResearchCategory{}); got != int64(len(data.Categories)) {
		t.Fatalf("expected %d categories after re-seed, got %d", len(data.Categories), got)
	}
	if got := countRows(t, db, &schema.Author{}); got != int64(len(data.Authors)) {
		t.Fatalf("expected %d authors after re-seed, got %d", len(data.Authors), got)
	}
	if got := countRows(t, db, &schema.ProgramArea{}); got != int64(len(data.ProgramAreas)) {
		t.Fatalf("expected %d program areas after re-seed, got %d", len(data.ProgramAreas), got)
	}
	if got := countRows(t, db, &schema.Project{}); got != int64(len(data.Projects)) {
		t.Fatalf("expected %d projects after re-seed, got %d", len(data.Projects), got)
	}

	// Publications carry no unique key in the schema, the dedupe guard is
	// what must keep re-runs append-free.
	if got := countRows(t, db, &schema.Publication{}); got != int64(len(data.Publications)) {
		t.Fatalf("expected %d publications after re-seed, got %d", len(data.Publications), got)
	}
}

func TestSeedPublicationRelations(t *testing.T) {
	db := schema.SetupTestDB(t)
	seeder := seed.NewSeeder(db)
	ctx := context.Background()

	if err := seeder.Run(ctx, seed.DefaultData()); err != nil {
		t.Fatal(err)
	}

	publications := store.NewPublicationStore(db)

	featured := true
	results, err := publications.List(ctx, store.PublicationFilters{
		Category: "climate-resilience",
		Featured: &featured,
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 featured climate publication, got %d", len(results))
	}

	publication := results[0]
	if publication.Category == nil || publication.Category.Slug != "climate-resilience" {
		t.Fatal("expected nested category on seeded publication")
	}
	if len(publication.Authors) != 2 ||
		publication.Authors[0].Author.Email != "evasquez@clearwater.org" ||
		publication.Authors[1].Author.Email != "praman@clearwater.org" {
		t.Fatalf("expected seeded authors in declared order, got %+v", publication.Authors)
	}
}

func TestSeedAdminPasswordHashed(t *testing.T) {
	db := schema.SetupTestDB(t)
	seeder := seed.NewSeeder(db)
	ctx := context.Background()

	const password = "super secret value"

	if err := seeder.SeedAdmin(ctx, "admin@clearwater.org", "Admin", password); err != nil {
		t.Fatal(err)
	}

	var user schema.User
	if err := db.First(&user, "email = ?", "admin@clearwater.org").Error; err != nil {
		t.Fatal(err)
	}

	if !user.IsAdmin {
		t.Fatal("seeded admin must have the admin flag")
	}
	if bytes.Contains(user.PasswordHash, []byte(password)) {
		t.Fatal("password must never be stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		t.Fatal("stored hash must verify against the original password")
	}

	// Re-seeding with a different password leaves the account untouched.
	if err := seeder.SeedAdmin(ctx, "admin@clearwater.org", "Admin", "new password"); err != nil {
		t.Fatal(err)
	}

	var after schema.User
	if err := db.First(&after, "email = ?", "admin@clearwater.org").Error; err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(after.PasswordHash, user.PasswordHash) {
		t.Fatal("re-seed must not rotate an existing password")
	}

	if err := seeder.SeedAdmin(ctx, "", "Admin", ""); err == nil {
		t.Fatal("missing credentials must be rejected")
	}
}
