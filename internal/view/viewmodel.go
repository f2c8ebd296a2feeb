package view

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/opsboard/userdash/internal/gateway"
	"github.com/opsboard/userdash/internal/model"
)

// PageSizes is the fixed set of allowed page sizes.
var PageSizes = []int{10, 25, 50, 100}

// DefaultPageSize is the page size a fresh view-model starts with.
const DefaultPageSize = 10

// Notification messages surfaced to the user after a mutation. The
// failure branches pair with the sentinel errors below.
const (
	MsgUserAdded   = "User added successfully!"
	MsgUserUpdated = "User updated successfully!"
	MsgUserDeleted = "User deleted successfully!"
)

// Sentinel errors for the view-model's fixed failure conditions. Under
// the HTTP gateway's degrade policy the mutation errors are practically
// unreachable, but the gateway interface permits failure and other
// implementations do fail.
var (
	ErrLoadUsers  = errors.New("failed to load users")
	ErrAddUser    = errors.New("failed to add user")
	ErrUpdateUser = errors.New("failed to update user")
	ErrDeleteUser = errors.New("failed to delete user")
)

// ViewModel owns the authoritative in-memory user collection and all
// view-derivation state. Derived views (filtered, sorted, paginated) are
// never stored: every accessor recomputes them from the current state,
// strictly in filter → sort → paginate order.
//
// The view-model is single-owner: it is not safe for concurrent use.
// Mutations replace the user slice wholesale rather than editing it in
// place, so a derived view handed out earlier never changes under the
// caller.
type ViewModel struct {
	gw  gateway.Gateway
	log *slog.Logger

	users    []model.User
	loading  bool
	loadErr  error
	search   string
	filters  Filters
	sort     SortField
	dir      SortDirection
	page     int
	pageSize int
	revision uint64
}

// VMOption configures a ViewModel.
type VMOption func(*ViewModel)

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) VMOption {
	return func(vm *ViewModel) {
		vm.log = l
	}
}

// New constructs an empty view-model over the given gateway. Call Load
// to populate it.
func New(gw gateway.Gateway, opts ...VMOption) *ViewModel {
	vm := &ViewModel{
		gw:       gw,
		log:      slog.Default(),
		page:     1,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Load replaces the collection with the gateway's current list. The
// loading flag is set for the duration of the call and the error state
// is cleared on entry, so Load doubles as the manual-reload action. An
// error is only possible when the gateway itself fails outward.
func (vm *ViewModel) Load(ctx context.Context) error {
	vm.loading = true
	vm.loadErr = nil
	vm.touch()

	users, err := vm.gw.ListUsers(ctx)
	vm.loading = false
	if err != nil {
		vm.log.Warn("load failed", "err", err)
		vm.loadErr = ErrLoadUsers
		vm.touch()
		return ErrLoadUsers
	}
	vm.users = users
	vm.touch()
	vm.log.Debug("collection loaded", "count", len(users))
	return nil
}

// AddUser creates a user from the draft. The gateway's echo supplies the
// field values, but the id is always assigned locally (max existing id
// plus one): the demo backend never returns a usefully unique id, and
// the collection's id-uniqueness invariant is non-negotiable. On failure
// the collection is unchanged.
func (vm *ViewModel) AddUser(ctx context.Context, draft model.Draft) error {
	created, err := vm.gw.CreateUser(ctx, draft)
	if err != nil {
		vm.log.Warn("add rejected by gateway", "err", err)
		return ErrAddUser
	}
	created.ID = vm.nextID()
	vm.users = append(slices.Clone(vm.users), created)
	vm.touch()
	return nil
}

// UpdateUser merges the draft into the user with the given id. Only
// fields present in the draft overwrite; the id never changes. A missing
// id is a silent no-op (still a success): the collection is replaced by
// a mapped copy either way. On gateway failure it is unchanged.
func (vm *ViewModel) UpdateUser(ctx context.Context, id int, draft model.Draft) error {
	if _, err := vm.gw.UpdateUser(ctx, id, draft); err != nil {
		vm.log.Warn("update rejected by gateway", "id", id, "err", err)
		return ErrUpdateUser
	}
	next := slices.Clone(vm.users)
	for i := range next {
		if next[i].ID == id {
			next[i] = next[i].Apply(draft)
		}
	}
	vm.users = next
	vm.touch()
	return nil
}

// DeleteUser removes the user with the given id. On gateway failure the
// collection is unchanged; with the HTTP gateway that branch never runs.
func (vm *ViewModel) DeleteUser(ctx context.Context, id int) error {
	if err := vm.gw.DeleteUser(ctx, id); err != nil {
		vm.log.Warn("delete rejected by gateway", "id", id, "err", err)
		return ErrDeleteUser
	}
	next := make([]model.User, 0, len(vm.users))
	for _, u := range vm.users {
		if u.ID != id {
			next = append(next, u)
		}
	}
	vm.users = next
	vm.touch()
	return nil
}

// SetSearch sets the free-text search term and returns to page 1.
func (vm *ViewModel) SetSearch(term string) {
	vm.search = term
	vm.page = 1
	vm.touch()
}

// SetFilters replaces the per-field filters wholesale and returns to
// page 1.
func (vm *ViewModel) SetFilters(f Filters) {
	vm.filters = f
	vm.page = 1
	vm.touch()
}

// SetSort selects the sort field. Selecting the current field toggles
// the direction; selecting a new one resets to ascending. Either way the
// view returns to page 1.
func (vm *ViewModel) SetSort(field SortField) {
	if vm.sort == field && vm.dir == Ascending {
		vm.dir = Descending
	} else {
		vm.sort = field
		vm.dir = Ascending
	}
	vm.page = 1
	vm.touch()
}

// SetPage moves to the given page, clamped to [1, max(1, TotalPages)] so
// an out-of-range request can never land on a silently empty page.
func (vm *ViewModel) SetPage(n int) {
	last := max(vm.TotalPages(), 1)
	vm.page = min(max(n, 1), last)
	vm.touch()
}

// SetPageSize switches to one of the allowed page sizes and returns to
// page 1, so a shrunken page count can never strand the view on an
// out-of-range page. Values outside PageSizes are ignored.
func (vm *ViewModel) SetPageSize(n int) {
	if !slices.Contains(PageSizes, n) {
		vm.log.Debug("ignoring invalid page size", "size", n)
		return
	}
	vm.pageSize = n
	vm.page = 1
	vm.touch()
}

// Users returns a copy of the authoritative collection in insertion
// order.
func (vm *ViewModel) Users() []model.User {
	return slices.Clone(vm.users)
}

// Filtered returns the collection narrowed by the search term and
// filters.
func (vm *ViewModel) Filtered() []model.User {
	return filterUsers(vm.users, vm.search, vm.filters)
}

// Sorted returns the filtered collection in the current sort order.
func (vm *ViewModel) Sorted() []model.User {
	return sortUsers(vm.Filtered(), vm.sort, vm.dir)
}

// Page returns the current page of the sorted collection.
func (vm *ViewModel) Page() []model.User {
	return paginate(vm.Sorted(), vm.page, vm.pageSize)
}

// TotalPages returns the number of pages the sorted collection spans;
// 0 when it is empty.
func (vm *ViewModel) TotalPages() int {
	return pageCount(len(vm.Sorted()), vm.pageSize)
}

// CurrentPage returns the 1-based current page number.
func (vm *ViewModel) CurrentPage() int { return vm.page }

// PageSize returns the current page size.
func (vm *ViewModel) PageSize() int { return vm.pageSize }

// SearchTerm returns the current free-text search term.
func (vm *ViewModel) SearchTerm() string { return vm.search }

// FilterState returns the current per-field filters.
func (vm *ViewModel) FilterState() Filters { return vm.filters }

// SortState returns the current sort field and direction.
func (vm *ViewModel) SortState() (SortField, SortDirection) { return vm.sort, vm.dir }

// Loading reports whether a Load is in flight.
func (vm *ViewModel) Loading() bool { return vm.loading }

// Err returns the load error state, nil when the last Load succeeded.
func (vm *ViewModel) Err() error { return vm.loadErr }

// Revision returns a counter incremented on every state change. It is a
// last-mutated marker for consumers doing manual change detection, not a
// correctness dependency.
func (vm *ViewModel) Revision() uint64 { return vm.revision }

// nextID allocates a locally unique id: one past the largest id in the
// collection, starting at 1.
func (vm *ViewModel) nextID() int {
	id := 1
	for _, u := range vm.users {
		if u.ID >= id {
			id = u.ID + 1
		}
	}
	return id
}

func (vm *ViewModel) touch() {
	vm.revision++
}
