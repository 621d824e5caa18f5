package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is an account identity. Refresh-token state lives on the user row:
// issuing a new token pair overwrites the previous one, which is what
// invalidates it.
type User struct {
	ID                  uuid.UUID
	Email               string
	HashedPassword      string
	RefreshToken        string
	RefreshTokenExpires *time.Time
	// MainWalletID points at the wallet shown by default. It may reference
	// a wallet the user only has membership in, never one they cannot
	// access at all.
	MainWalletID *uuid.UUID
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// NormalizeEmail canonicalizes an email for uniqueness checks and lookups.
// Comparison is case-insensitive throughout.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewUser creates a user with a freshly hashed password and a canonical
// email. The caller is responsible for persisting it together with the
// user's main wallet.
func NewUser(email, password string) (*User, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:             uuid.New(),
		Email:          NormalizeEmail(email),
		HashedPassword: hashed,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
