package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/propdesk/maintenance-service/internal/domain"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// HashDirectoryPasswords replaces plaintext directory passwords with bcrypt
// hashes in place. Users that already carry a hash are left alone.
func HashDirectoryPasswords(users []domain.User, cost int) error {
	for i := range users {
		if users[i].Password == "" {
			continue
		}
		if users[i].PasswordHash == "" {
			hashed, err := HashPassword(users[i].Password, cost)
			if err != nil {
				return fmt.Errorf("hash password for user %s: %w", users[i].ID, err)
			}
			users[i].PasswordHash = hashed
		}
		users[i].Password = ""
	}
	return nil
}
