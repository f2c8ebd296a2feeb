package gateway

import (
	"context"
	"slices"
	"sync"

	"github.com/opsboard/userdash/internal/model"
)

// Compile-time interface check.
var _ Gateway = (*StaticGateway)(nil)

// StaticGateway is an implementation of Gateway backed by an in-memory
// slice. It is used for offline mode and unit tests; nothing stored in
// it survives the process. Unlike the HTTP gateway it reports real
// failures (ErrNotFound), which makes it useful for exercising callers'
// failure branches.
type StaticGateway struct {
	mu     sync.Mutex
	users  []model.User
	nextID int
}

// NewStaticGateway constructs a gateway seeded with the given users.
// New ids continue after the largest seeded id, starting from 1 on an
// empty seed.
func NewStaticGateway(seed []model.User) *StaticGateway {
	g := &StaticGateway{
		users:  slices.Clone(seed),
		nextID: 1,
	}
	for _, u := range seed {
		if u.ID >= g.nextID {
			g.nextID = u.ID + 1
		}
	}
	return g
}

// ListUsers returns the users in insertion order. The slice is a copy;
// callers may mutate it freely.
func (g *StaticGateway) ListUsers(ctx context.Context) ([]model.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.users), nil
}

// CreateUser appends a user built from the draft, assigning the next
// sequential id.
func (g *StaticGateway) CreateUser(ctx context.Context, draft model.Draft) (model.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	user := model.User{
		ID:         g.nextID,
		Name:       draft.Name,
		Email:      draft.Email,
		Department: draft.Department,
	}
	g.nextID++
	g.users = append(g.users, user)
	return user, nil
}

// UpdateUser merges the draft into the stored user with the given id.
// It returns ErrNotFound when no such user exists.
func (g *StaticGateway) UpdateUser(ctx context.Context, id int, draft model.Draft) (model.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.users {
		if g.users[i].ID == id {
			g.users[i] = g.users[i].Apply(draft)
			return g.users[i], nil
		}
	}
	return model.User{}, ErrNotFound
}

// DeleteUser removes the user with the given id, or returns ErrNotFound.
func (g *StaticGateway) DeleteUser(ctx context.Context, id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.users {
		if g.users[i].ID == id {
			g.users = slices.Delete(g.users, i, i+1)
			return nil
		}
	}
	return ErrNotFound
}
