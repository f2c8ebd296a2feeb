package model

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Departments is the canonical set offered by the user form. Records
// sourced from the backend or the demo dataset may carry departments
// outside this set; the User entity does not constrain the field.
var Departments = []string{"Engineering", "Marketing", "Sales", "HR", "Finance"}

// emailPattern is a deliberately loose local@domain.tld check. Real
// address validation is the backend's problem.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User is a single record in the dashboard's collection. IDs are unique
// positive integers and immutable after creation.
type User struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Draft holds the user-editable fields of a User, as submitted by a
// form or CLI flags. For updates, an empty field means "leave unchanged".
type Draft struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
}

// Apply merges a draft into a user, overwriting only the fields the
// draft actually carries. The id is never touched.
func (u User) Apply(d Draft) User {
	if d.Name != "" {
		u.Name = d.Name
	}
	if d.Email != "" {
		u.Email = d.Email
	}
	if d.Department != "" {
		u.Department = d.Department
	}
	return u
}

// Validate checks a draft for creating a new user. All three fields are
// required. This is a form-level concern: callers validate before handing
// the draft to the view-model, which performs no validation of its own.
func (d Draft) Validate() error {
	if err := validName(d.Name); err != nil {
		return err
	}
	if err := validEmail(d.Email); err != nil {
		return err
	}
	if d.Department == "" {
		return errors.New("department is required")
	}
	if !slices.Contains(Departments, d.Department) {
		return fmt.Errorf("unknown department %q (expected one of %s)",
			d.Department, strings.Join(Departments, ", "))
	}
	return nil
}

// ValidatePatch checks a draft for updating an existing user. Empty
// fields are absent and skipped; present fields must still be valid.
func (d Draft) ValidatePatch() error {
	if d.Name != "" {
		if err := validName(d.Name); err != nil {
			return err
		}
	}
	if d.Email != "" {
		if err := validEmail(d.Email); err != nil {
			return err
		}
	}
	if d.Department != "" && !slices.Contains(Departments, d.Department) {
		return fmt.Errorf("unknown department %q (expected one of %s)",
			d.Department, strings.Join(Departments, ", "))
	}
	return nil
}

func validName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return errors.New("name must be at least 2 characters")
	}
	return nil
}

func validEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address %q", email)
	}
	return nil
}
