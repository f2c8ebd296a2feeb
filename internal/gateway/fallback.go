package gateway

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/opsboard/userdash/internal/model"
)

// demoJSON is the fixed demonstration dataset, kept verbatim: ten of the
// fifteen records carry the name under "firstName" or "Name" instead of
// "name", and several departments fall outside the canonical set.
// Normalization happens once, at decode time.
//
//go:embed demo_users.json
var demoJSON []byte

var demoOnce = sync.OnceValue(decodeDemoUsers)

// DemoUsers returns the demonstration dataset used whenever the remote
// collection cannot be fetched. The returned slice is a fresh copy on
// every call.
func DemoUsers() []model.User {
	decoded := demoOnce()
	users := make([]model.User, len(decoded))
	copy(users, decoded)
	return users
}

// demoRecord tolerates the dataset's inconsistent field names. The name
// is coalesced from "name", "firstName", then "Name"; records carrying
// none of the three end up with an empty name.
type demoRecord struct {
	ID         int
	Name       string
	Email      string
	Department string
}

func (r *demoRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         int    `json:"id"`
		Name       string `json:"name"`
		FirstName  string `json:"firstName"`
		LegacyName string `json:"Name"`
		Email      string `json:"email"`
		Department string `json:"department"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ID = raw.ID
	r.Email = raw.Email
	r.Department = raw.Department
	switch {
	case raw.Name != "":
		r.Name = raw.Name
	case raw.FirstName != "":
		r.Name = raw.FirstName
	default:
		r.Name = raw.LegacyName
	}
	return nil
}

func decodeDemoUsers() []model.User {
	var records []demoRecord
	if err := json.Unmarshal(demoJSON, &records); err != nil {
		// The dataset is compiled in; a decode failure is a build defect.
		panic(fmt.Sprintf("gateway: bad embedded demo dataset: %v", err))
	}
	users := make([]model.User, 0, len(records))
	for _, r := range records {
		users = append(users, model.User{
			ID:         r.ID,
			Name:       r.Name,
			Email:      r.Email,
			Department: r.Department,
		})
	}
	return users
}
