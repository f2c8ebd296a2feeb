package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/opsboard/userdash/internal/model"
)

// SortField selects the column the collection is ordered by. The zero
// value means unsorted (insertion order).
type SortField string

const (
	SortNone       SortField = ""
	SortID         SortField = "id"
	SortName       SortField = "name"
	SortEmail      SortField = "email"
	SortDepartment SortField = "department"
)

// ParseSortField maps user input to a SortField.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.ToLower(s)); f {
	case SortNone, SortID, SortName, SortEmail, SortDepartment:
		return f, nil
	default:
		return SortNone, fmt.Errorf("unknown sort field %q", s)
	}
}

// SortDirection is the order applied to the sort field.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

// Filters narrows the collection per field: name and email are
// case-insensitive substring matches, department is an exact match.
// Empty fields do not filter.
type Filters struct {
	Name       string
	Email      string
	Department string
}

// filterUsers applies the free-text search and the per-field filters.
// The search matches a record when any of name, email, or department
// contains the term case-insensitively; the per-field filters are then
// AND-ed on top.
func filterUsers(users []model.User, term string, f Filters) []model.User {
	out := make([]model.User, 0, len(users))
	term = strings.ToLower(term)
	name := strings.ToLower(f.Name)
	email := strings.ToLower(f.Email)
	for _, u := range users {
		if term != "" && !containsFold(u.Name, term) &&
			!containsFold(u.Email, term) && !containsFold(u.Department, term) {
			continue
		}
		if name != "" && !containsFold(u.Name, name) {
			continue
		}
		if email != "" && !containsFold(u.Email, email) {
			continue
		}
		if f.Department != "" && u.Department != f.Department {
			continue
		}
		out = append(out, u)
	}
	return out
}

// containsFold reports whether s contains the already-lowercased needle,
// ignoring case.
func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}

// sortUsers orders a copy of users by the given field. Ids compare
// numerically, everything else case-insensitively as strings. The sort
// is stable, so records with equal keys keep their filtered order, and
// descending negates the comparator rather than reversing the result.
func sortUsers(users []model.User, field SortField, dir SortDirection) []model.User {
	out := slices.Clone(users)
	if field == SortNone {
		return out
	}
	slices.SortStableFunc(out, func(a, b model.User) int {
		var c int
		switch field {
		case SortID:
			c = cmp.Compare(a.ID, b.ID)
		case SortName:
			c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		case SortEmail:
			c = strings.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
		case SortDepartment:
			c = strings.Compare(strings.ToLower(a.Department), strings.ToLower(b.Department))
		}
		if dir == Descending {
			c = -c
		}
		return c
	})
	return out
}

// paginate slices users to the 1-based page of the given size.
func paginate(users []model.User, page, size int) []model.User {
	start := (page - 1) * size
	if start >= len(users) || start < 0 {
		return []model.User{}
	}
	return slices.Clone(users[start:min(start+size, len(users))])
}

// pageCount returns ceil(n/size), which is 0 for an empty collection.
func pageCount(n, size int) int {
	return (n + size - 1) / size
}
