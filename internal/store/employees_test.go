package store

import (
	"context"
	"testing"

	"github.com/assetdesk/assetdesk/internal/db"
)

func TestCreateAndListEmployees(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	e, err := CreateEmployee(ctx, database, "Alice", "alice@example.com", "engineering")
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if e.Department != "engineering" {
		t.Errorf("expected department 'engineering', got %q", e.Department)
	}

	CreateEmployee(ctx, database, "Bob", "bob@example.com", "sales")

	all, _ := ListEmployees(ctx, database, "")
	if len(all) != 2 {
		t.Errorf("expected 2 employees, got %d", len(all))
	}

	engineering, _ := ListEmployees(ctx, database, "engineering")
	if len(engineering) != 1 || engineering[0].Name != "Alice" {
		t.Errorf("expected only Alice in engineering, got %v", engineering)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateEmployee(ctx, database, "Alice", "alice@example.com", "")
	if _, err := CreateEmployee(ctx, database, "Other Alice", "alice@example.com", ""); err == nil {
		t.Error("expected error for duplicate email")
	}
}

func TestSoftDeletedEmailReusable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	e, _ := CreateEmployee(ctx, database, "Alice", "alice@example.com", "")
	if err := DeleteEmployee(ctx, database, e.ID); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}

	if _, err := CreateEmployee(ctx, database, "Alice Again", "alice@example.com", ""); err != nil {
		t.Errorf("expected soft-deleted email to be reusable: %v", err)
	}
}

func TestUpdateEmployee(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	e, _ := CreateEmployee(ctx, database, "Alice", "alice@example.com", "sales")
	if err := UpdateEmployee(ctx, database, e.ID, "Alice", "alice@example.com", "engineering"); err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}

	got, _ := GetEmployee(ctx, database, e.ID)
	if got.Department != "engineering" {
		t.Errorf("expected updated department, got %q", got.Department)
	}
}
