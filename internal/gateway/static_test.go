package gateway_test

import (
	"context"
	"errors"
	"testing"

	"github.com/opsboard/userdash/internal/gateway"
	"github.com/opsboard/userdash/internal/model"
)

// TestStaticGatewayCRUD exercises the basic create/list/update/delete
// behavior of the in-memory gateway. It ensures ids are assigned
// sequentially from 1, insertion order is preserved, and operations on
// missing ids report ErrNotFound.
func TestStaticGatewayCRUD(t *testing.T) {
	g := gateway.NewStaticGateway(nil)
	ctx := context.Background()

	// Create a user and verify its contents.
	user, err := g.CreateUser(ctx, model.Draft{Name: "Alice", Email: "alice@example.com", Department: "HR"})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("expected id 1, got %d", user.ID)
	}
	if got, want := user.Name, "Alice"; got != want {
		t.Fatalf("expected name %q, got %q", want, got)
	}

	if _, err := g.CreateUser(ctx, model.Draft{Name: "Bob", Email: "bob@example.com", Department: "Sales"}); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	// List should return both users in insertion order.
	users, err := g.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].Name != "Alice" || users[1].Name != "Bob" {
		t.Fatalf("unexpected order: %+v", users)
	}

	// Update merges only the fields the draft carries.
	updated, err := g.UpdateUser(ctx, 1, model.Draft{Department: "Finance"})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.Name != "Alice" || updated.Department != "Finance" {
		t.Fatalf("unexpected merge result: %+v", updated)
	}

	// Delete removes the user; a second delete reports not found.
	if err := g.DeleteUser(ctx, 1); err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if err := g.DeleteUser(ctx, 1); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := g.UpdateUser(ctx, 99, model.Draft{Name: "Ghost"}); !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// TestStaticGatewaySeededIDs ensures id allocation continues after the
// largest seeded id.
func TestStaticGatewaySeededIDs(t *testing.T) {
	g := gateway.NewStaticGateway([]model.User{
		{ID: 5, Name: "Seed", Email: "seed@example.com", Department: "HR"},
	})

	user, err := g.CreateUser(context.Background(), model.Draft{Name: "Next", Email: "next@example.com", Department: "HR"})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.ID != 6 {
		t.Fatalf("expected id 6, got %d", user.ID)
	}
}
