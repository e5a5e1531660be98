package repository

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/propdesk/maintenance-service/internal/domain"
)

// Roster is the YAML document describing the staff directory and the login
// profiles served by the identity collaborator.
type Roster struct {
	Staff []domain.Staff `yaml:"staff"`
	Users []domain.User  `yaml:"users"`
}

// DefaultRoster returns the built-in demo profiles.
func DefaultRoster() Roster {
	return Roster{
		Staff: []domain.Staff{
			{
				ID:          "2",
				Name:        "Sam Rodriguez",
				Role:        "Maintenance Staff",
				Specialties: []domain.TicketCategory{domain.CategoryPlumbing, domain.CategoryElectrical, domain.CategoryHVAC, domain.CategoryAppliance, domain.CategoryStructural, domain.CategoryOther},
				Available:   true,
			},
		},
		Users: []domain.User{
			{ID: "1", Name: "Ernest Rrika", Email: "tenant@example.com", Role: domain.RoleTenant, PropertyID: "prop-001", UnitNumber: "101"},
			{ID: "2", Name: "Sam Rodriguez", Email: "staff@example.com", Role: domain.RoleStaff},
			{ID: "3", Name: "Morgan Smith", Email: "manager@example.com", Role: domain.RoleManager},
		},
	}
}

// LoadRoster reads a roster file. An empty path yields DefaultRoster.
func LoadRoster(path string) (Roster, error) {
	if path == "" {
		return DefaultRoster(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("read roster %s: %w", path, err)
	}

	var roster Roster
	if err := yaml.Unmarshal(b, &roster); err != nil {
		return Roster{}, fmt.Errorf("parse roster %s: %w", path, err)
	}
	if err := roster.validate(); err != nil {
		return Roster{}, fmt.Errorf("roster %s: %w", path, err)
	}
	return roster, nil
}

func (r Roster) validate() error {
	seen := make(map[string]struct{}, len(r.Staff))
	for _, s := range r.Staff {
		if s.ID == "" {
			return fmt.Errorf("staff %q has no id", s.Name)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("duplicate staff id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
		for _, c := range s.Specialties {
			if !c.Valid() {
				return fmt.Errorf("staff %q: unknown specialty %q", s.ID, c)
			}
		}
	}
	for _, u := range r.Users {
		if u.ID == "" || u.Email == "" {
			return fmt.Errorf("user %q needs an id and email", u.Name)
		}
		if !u.Role.Valid() || u.Role == domain.RoleSystem {
			return fmt.Errorf("user %q: invalid role %q", u.ID, u.Role)
		}
	}
	return nil
}
