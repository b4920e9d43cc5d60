package schema

import (
	"fmt"
	"log"
	"math/rand"
	"net/url"
	"os"
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func closeGormDB(t *testing.T, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("error getting sql.DB: %v", err)
	}

	if err := sqlDB.Close(); err != nil {
		t.Fatalf("error closing database connection: %v", err)
	}
}

// SetupTestDB returns an in-memory sqlite db with the full schema migrated.
// Most tests use this since it needs no running postgres instance.
func SetupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("error opening database connection: %v", err)
	}

	// Each sqlite in-memory connection is its own database, so the pool must
	// stay at a single connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("error getting sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		closeGormDB(t, db)
	})

	if err := db.AutoMigrate(AllTables()...); err != nil {
		t.Fatalf("error migrating tables: %v", err)
	}

	return db
}

// SetupTestPostgres creates a scratch database on the postgres instance named
// by TEST_DB_URI and migrates the schema into it. Skips the test if the env
// var is unset so the suite still runs without postgres available.
func SetupTestPostgres(t *testing.T) *gorm.DB {
	testUri := os.Getenv("TEST_DB_URI")
	if testUri == "" {
		t.Skip("TEST_DB_URI env not set")
	}

	rootDB, err := gorm.Open(postgres.Open(UriToDsn(testUri)), &gorm.Config{})
	if err != nil {
		log.Fatalf("error opening database connection: %v", err)
	}

	dbName := fmt.Sprintf("clearwater_test_%d_%d", os.Getpid(), rand.Int())

	if err := rootDB.Exec("CREATE DATABASE " + dbName).Error; err != nil {
		t.Fatalf("error creating database: %v", err)
	}

	t.Cleanup(func() {
		if err := rootDB.Exec("DROP DATABASE IF EXISTS " + dbName).Error; err != nil {
			t.Fatalf("error dropping database: %v", err)
		}
		closeGormDB(t, rootDB)
	})

	db, err := gorm.Open(postgres.Open(UriToDsn(testUri+"/"+dbName)), &gorm.Config{})
	if err != nil {
		log.Fatalf("error opening database connection: %v", err)
	}

	t.Cleanup(func() {
		closeGormDB(t, db)
	})

	if err := db.AutoMigrate(AllTables()...); err != nil {
		t.Fatalf("error migrating tables: %v", err)
	}

	return db
}

func UriToDsn(uri string) string {
	parts, err := url.Parse(uri)
	if err != nil {
		log.Fatalf("error parsing db uri: %v", err)
	}
	pwd, _ := parts.User.Password()
	dbname := strings.TrimPrefix(parts.Path, "/")

	if dbname != "" {
		dbname = "dbname=" + dbname
	}

	return fmt.Sprintf("host=%v user=%v password=%v %v port=%v", parts.Hostname(), parts.User.Username(), pwd, dbname, parts.Port())
}
