package tests

import (
	"os"
	"testing"

	"clearwater/api"
)

// setupTestEnv connects to a running backend named by BACKEND_URL and logs
// in with the seeded admin account. These tests are skipped unless the env
// vars are set, they need a deployed stack (postgres + backend + seed).
func setupTestEnv(t *testing.T) *api.Client {
	backendUrl := os.Getenv("BACKEND_URL")
	if backendUrl == "" {
		t.Skip("BACKEND_URL env not set")
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		t.Skip("ADMIN_EMAIL and ADMIN_PASSWORD env not set")
	}

	client := api.NewClient(backendUrl)

	if err := client.Login(adminEmail, adminPassword); err != nil {
		t.Fatalf("admin login failed: %v", err)
	}

	return client
}
