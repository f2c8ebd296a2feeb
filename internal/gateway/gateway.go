package gateway

import (
	"context"
	"errors"

	"github.com/opsboard/userdash/internal/model"
)

// ErrNotFound is returned by gateways that can actually observe a missing
// id (the static gateway). The HTTP gateway never returns it.
var ErrNotFound = errors.New("gateway: user not found")

// Gateway defines the boundary to the remote user collection.
//
// Implementations may talk to a real HTTP backend or hold data in memory
// for tests and offline use. The view-model depends on this abstraction
// rather than a concrete transport, making it easy to substitute
// alternate implementations and improving testability.
//
// All methods accept a context for cancellation and deadlines. The
// interface permits every method to fail, but the HTTP implementation
// deliberately never does: remote errors are absorbed locally (fallback
// data on reads, synthesized results on writes) so the caller's local
// state can stay authoritative. Callers must still handle a non-nil
// error, since other implementations report real failures.
type Gateway interface {
	// ListUsers returns the remote collection, in a consistent order.
	ListUsers(ctx context.Context) ([]model.User, error)
	// CreateUser submits a draft and returns the created user with an
	// assigned id.
	CreateUser(ctx context.Context, draft model.Draft) (model.User, error)
	// UpdateUser submits changed fields for the user with the given id
	// and returns the updated user.
	UpdateUser(ctx context.Context, id int, draft model.Draft) (model.User, error)
	// DeleteUser removes the user with the given id.
	DeleteUser(ctx context.Context, id int) error
}
