package database

import (
	"context"
	"database/sql"
	"testing"

	"upi-balance-go/internal/models"
	"upi-balance-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

func setupServiceTestDb(t *testing.T) *Service {
	t.Helper()

	db, err := sql.Open("sqlite3", dsn(":memory:"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	pinSingleConnection(db)

	service := newServiceFromDB(db)
	if err := service.initSchema(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	ctx := context.Background()
	users := []store.CreateUserParams{
		{Id: "user1", Name: "Test Worker", Email: "worker@example.com", Role: models.RoleWorker, UpiId: "worker@upi"},
		{Id: "user2", Name: "No UPI", Email: "noupi@example.com"},
	}
	for _, u := range users {
		if _, err := service.CreateUser(ctx, u); err != nil {
			t.Fatalf("Failed to insert test user: %v", err)
		}
	}

	t.Cleanup(func() { db.Close() })
	return service
}
