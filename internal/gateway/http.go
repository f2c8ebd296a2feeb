package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/opsboard/userdash/internal/model"
)

// DefaultBaseURL is the compiled-in location of the remote collection.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// Compile-time interface check.
var _ Gateway = (*HTTPGateway)(nil)

// HTTPGateway implements Gateway against a REST collection resource at
// {base}/users. The remote service is treated as best-effort: local
// state is authoritative and every remote failure is absorbed here, so
// no method of this implementation ever returns a non-nil error.
//
// Reads degrade in two steps: a failed fetch first consults the snapshot
// cache (if one is configured), then falls back to the embedded demo
// dataset. Writes degrade by synthesizing a locally valid result from
// the submitted draft.
type HTTPGateway struct {
	base  string
	http  *http.Client
	cache Cache
	log   *slog.Logger
}

// Option configures an HTTPGateway.
type Option func(*HTTPGateway)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *HTTPGateway) {
		g.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *HTTPGateway) {
		g.http = hc
	}
}

// WithCache attaches a last-good snapshot cache, consulted between a
// failed fetch and the demo-data fallback.
func WithCache(c Cache) Option {
	return func(g *HTTPGateway) {
		g.cache = c
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *HTTPGateway) {
		g.log = l
	}
}

// NewHTTPGateway creates a gateway against baseURL. An empty baseURL
// selects DefaultBaseURL.
func NewHTTPGateway(baseURL string, opts ...Option) *HTTPGateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	g := &HTTPGateway{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// remoteUser is the subset of the backend's record shape the dashboard
// keeps. The backend carries more fields (address, phone, company);
// everything else is dropped at the boundary.
type remoteUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListUsers fetches the remote collection. Backend records carry no
// department, so each user is assigned one at random from the canonical
// set. On any transport or decode failure the cached snapshot is tried,
// then the embedded demo dataset; the error itself is never propagated.
func (g *HTTPGateway) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := g.fetchUsers(ctx)
	if err != nil {
		g.log.Warn("user list fetch failed, degrading", "err", err)
		if g.cache != nil {
			cached, cerr := g.cache.Fetch(ctx)
			if cerr != nil {
				g.log.Debug("snapshot cache read failed", "err", cerr)
			} else if len(cached) > 0 {
				g.log.Info("serving cached user snapshot", "count", len(cached))
				return cached, nil
			}
		}
		return DemoUsers(), nil
	}
	if g.cache != nil {
		if cerr := g.cache.Store(ctx, users); cerr != nil {
			g.log.Debug("snapshot cache write failed", "err", cerr)
		}
	}
	return users, nil
}

// CreateUser submits the draft. On failure a user is synthesized from
// the draft with a locally unique timestamp id, so the caller always
// proceeds.
func (g *HTTPGateway) CreateUser(ctx context.Context, draft model.Draft) (model.User, error) {
	var created model.User
	err := g.send(ctx, http.MethodPost, g.base+"/users", draft, &created)
	if err != nil {
		g.log.Warn("user create failed, synthesizing result", "err", err)
		return model.User{
			ID:         int(time.Now().UnixMilli()),
			Name:       draft.Name,
			Email:      draft.Email,
			Department: draft.Department,
		}, nil
	}
	return created, nil
}

// UpdateUser submits changed fields for the given id. On failure the
// result is synthesized by attaching the id to the draft.
func (g *HTTPGateway) UpdateUser(ctx context.Context, id int, draft model.Draft) (model.User, error) {
	var updated model.User
	err := g.send(ctx, http.MethodPut, fmt.Sprintf("%s/users/%d", g.base, id), draft, &updated)
	if err != nil {
		g.log.Warn("user update failed, synthesizing result", "id", id, "err", err)
		return model.User{
			ID:         id,
			Name:       draft.Name,
			Email:      draft.Email,
			Department: draft.Department,
		}, nil
	}
	updated.ID = id
	return updated, nil
}

// DeleteUser issues the remote delete and always reports success; the
// local removal is authoritative for the caller.
func (g *HTTPGateway) DeleteUser(ctx context.Context, id int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		fmt.Sprintf("%s/users/%d", g.base, id), nil)
	if err != nil {
		g.log.Warn("user delete request failed, ignoring", "id", id, "err", err)
		return nil
	}
	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Warn("user delete failed, ignoring", "id", id, "err", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.log.Warn("user delete rejected, ignoring", "id", id, "status", resp.StatusCode)
	}
	return nil
}

func (g *HTTPGateway) fetchUsers(ctx context.Context) ([]model.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/users", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch users: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var records []remoteUser
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]model.User, 0, len(records))
	for _, r := range records {
		users = append(users, model.User{
			ID:         r.ID,
			Name:       r.Name,
			Email:      r.Email,
			Department: model.Departments[rand.Intn(len(model.Departments))],
		})
	}
	return users, nil
}

// send performs a JSON request with a JSON body and decodes the response
// into result.
func (g *HTTPGateway) send(ctx context.Context, method, url string, body, result any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: HTTP %d: %s", method, url, resp.StatusCode, string(respBody))
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
