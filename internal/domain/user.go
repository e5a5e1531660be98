package domain

// UserRole enumerates the roles of people using the system.
type UserRole string

const (
	RoleTenant  UserRole = "tenant"
	RoleStaff   UserRole = "staff"
	RoleManager UserRole = "manager"
	// RoleSystem is used for internal callers such as seeding and the CLI.
	RoleSystem UserRole = "system"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleTenant, RoleStaff, RoleManager, RoleSystem:
		return true
	default:
		return false
	}
}

// User is a login profile supplied by the identity provider.
type User struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Email        string   `json:"email" yaml:"email"`
	Role         UserRole `json:"role" yaml:"role"`
	Avatar       string   `json:"avatar,omitempty" yaml:"avatar"`
	PropertyID   string   `json:"propertyId,omitempty" yaml:"propertyId"`
	UnitNumber   string   `json:"unitNumber,omitempty" yaml:"unitNumber"`
	PasswordHash string   `json:"-" yaml:"passwordHash"`
	// Password is a plaintext directory entry, hashed at startup.
	Password string `json:"-" yaml:"password"`
}

// Actor returns the acting identity for the user.
func (u User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
