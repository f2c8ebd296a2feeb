package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsboard/userdash/internal/gateway"
	"github.com/opsboard/userdash/internal/model"
)

// memCache is a Cache fake holding the snapshot in memory.
type memCache struct {
	mu    sync.Mutex
	users []model.User
}

func (c *memCache) Fetch(_ context.Context) ([]model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.users), nil
}

func (c *memCache) Store(_ context.Context, users []model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = slices.Clone(users)
	return nil
}

// userHandler serves a jsonplaceholder-shaped user list.
func userHandler(t *testing.T, records string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(records))
	}
}

func failingServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
}

func TestListUsersMapsRemoteRecords(t *testing.T) {
	ts := httptest.NewServer(userHandler(t,
		`[{"id":1,"name":"Leanne","email":"leanne@x.com","username":"Bret"},
		  {"id":2,"name":"Ervin","email":"ervin@x.com","username":"Antonette"}]`))
	defer ts.Close()

	g := gateway.NewHTTPGateway(ts.URL)
	users, err := g.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, 1, users[0].ID)
	assert.Equal(t, "Leanne", users[0].Name)
	assert.Equal(t, "leanne@x.com", users[0].Email)
	for _, u := range users {
		// Departments are assigned randomly; only set membership is fixed.
		assert.Contains(t, model.Departments, u.Department)
	}
}

func TestListUsersFallsBackToDemoData(t *testing.T) {
	ts := failingServer()
	defer ts.Close()

	g := gateway.NewHTTPGateway(ts.URL)
	users, err := g.ListUsers(context.Background())
	require.NoError(t, err, "a failed fetch must degrade, not fail")
	assert.Len(t, users, 15)
}

func TestListUsersPrefersCachedSnapshotOverDemoData(t *testing.T) {
	ts := failingServer()
	defer ts.Close()

	cache := &memCache{users: []model.User{
		{ID: 42, Name: "Cached Carla", Email: "carla@x.com", Department: "Finance"},
	}}
	g := gateway.NewHTTPGateway(ts.URL, gateway.WithCache(cache))

	users, err := g.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Cached Carla", users[0].Name)
}

func TestListUsersStoresSnapshotOnSuccess(t *testing.T) {
	ts := httptest.NewServer(userHandler(t, `[{"id":1,"name":"Leanne","email":"leanne@x.com"}]`))
	defer ts.Close()

	cache := &memCache{}
	g := gateway.NewHTTPGateway(ts.URL, gateway.WithCache(cache))

	_, err := g.ListUsers(context.Background())
	require.NoError(t, err)

	stored, err := cache.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Leanne", stored[0].Name)
}

func TestCreateUserEchoesServerResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var draft model.Draft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, "X", draft.Name)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(model.User{
			ID: 11, Name: draft.Name, Email: draft.Email, Department: draft.Department,
		})
	}))
	defer ts.Close()

	g := gateway.NewHTTPGateway(ts.URL)
	user, err := g.CreateUser(context.Background(),
		model.Draft{Name: "X", Email: "x@y.com", Department: "HR"})
	require.NoError(t, err)
	assert.Equal(t, 11, user.ID)
	assert.Equal(t, "x@y.com", user.Email)
}

func TestCreateUserSynthesizesOnFailure(t *testing.T) {
	ts := failingServer()
	defer ts.Close()

	g := gateway.NewHTTPGateway(ts.URL)
	user, err := g.CreateUser(context.Background(),
		model.Draft{Name: "X", Email: "x@y.com", Department: "HR"})
	require.NoError(t, err, "a failed create must degrade, not fail")
	assert.Positive(t, user.ID)
	assert.Equal(t, "X", user.Name)
	assert.Equal(t, "x@y.com", user.Email)
	assert.Equal(t, "HR", user.Department)
}

func TestUpdateUserKeepsGivenID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/users/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		// The backend echoes without an id; the gateway restores it.
		w.Write([]byte(`{"name":"Eve","email":"eve@x.com","department":"Sales"}`))
	}))
	defer ts.Close()

	g := gateway.NewHTTPGateway(ts.URL)
	user, err := g.UpdateUser(context.Background(), 7,
		model.Draft{Name: "Eve", Email: "eve@x.com", Department: "Sales"})
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "Eve", user.Name)
}

func TestUpdateUserSynthesizesOnFailure(t *testing.T) {
	ts := failingServer()
	defer ts.Close()

	g := gateway.NewHTTPGateway(ts.URL)
	user, err := g.UpdateUser(context.Background(), 7, model.Draft{Name: "Eve"})
	require.NoError(t, err, "a failed update must degrade, not fail")
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "Eve", user.Name)
}

func TestDeleteUserAlwaysReportsSuccess(t *testing.T) {
	ts := failingServer()
	defer ts.Close()

	g := gateway.NewHTTPGateway(ts.URL)
	assert.NoError(t, g.DeleteUser(context.Background(), 3))

	// Even an unreachable host is absorbed.
	dead := gateway.NewHTTPGateway("http://127.0.0.1:1")
	assert.NoError(t, dead.DeleteUser(context.Background(), 3))
}
