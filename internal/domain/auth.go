package domain

// Actor identifies who performs an operation. The core trusts the value
// as supplied by the identity provider.
type Actor struct {
	ID   string   `json:"id"`
	Role UserRole `json:"role"`
}

// SystemActor bypasses role checks.
var SystemActor = Actor{ID: "system", Role: RoleSystem}

// Is reports whether the actor holds one of the roles. The system actor
// holds every role.
func (a Actor) Is(roles ...UserRole) bool {
	if a.Role == RoleSystem {
		return true
	}
	for _, role := range roles {
		if a.Role == role {
			return true
		}
	}
	return false
}
