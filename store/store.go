// Package store defines the record-store contract for principals. Every
// implementation applies the active-account predicate inside its finders, so
// soft-deleted users are invisible to the rest of the system.
package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned by finders when no active user matches.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned by Create when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Role is the closed set of membership levels a user can hold.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	}
	return false
}

// User is the principal record. Credential material (PasswordHash,
// TwoFactorSecret, token hashes) never leaves the process through JSON.
type User struct {
	ID    string `bson:"_id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Photo string `bson:"photo" json:"photo"`
	Role  Role   `bson:"role" json:"role"`

	PasswordHash      string     `bson:"password" json:"-"`
	PasswordChangedAt *time.Time `bson:"passwordChangedAt,omitempty" json:"-"`

	// PasswordResetToken and PasswordResetExpires are both set or both nil.
	PasswordResetToken   string     `bson:"passwordResetToken,omitempty" json:"-"`
	PasswordResetExpires *time.Time `bson:"passwordResetExpires,omitempty" json:"-"`

	EmailConfirmed    bool   `bson:"emailConfirmed" json:"emailConfirmed"`
	EmailConfirmToken string `bson:"emailConfirmToken,omitempty" json:"-"`

	// TwoFactorSecret is non-empty iff TwoFactorEnabled is true.
	TwoFactorEnabled bool   `bson:"twoFactorEnabled" json:"twoFactorEnabled"`
	TwoFactorSecret  string `bson:"twoFactorSecret,omitempty" json:"-"`

	Active    bool      `bson:"active" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// PasswordChangedAfter reports whether the password was changed after the
// given instant. Comparison is at second precision, matching token
// issued-at resolution.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}

// Update describes a partial update applied by UpdateByID. Nil fields are
// left untouched; a pointer to the empty string clears a token or secret.
type Update struct {
	EmailConfirmed    *bool
	EmailConfirmToken *string
	TwoFactorEnabled  *bool
	TwoFactorSecret   *string
}

// UserStore is the keyed record store the auth engine runs against.
// Finders return ErrNotFound for absent or soft-deleted users; they never
// treat absence as a failure of the store itself.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByResetTokenHash matches the stored reset-token hash and requires
	// the reset expiry to be strictly after now.
	FindByResetTokenHash(ctx context.Context, hash string, now time.Time) (*User, error)
	FindByConfirmTokenHash(ctx context.Context, hash string) (*User, error)

	// Create persists a new user. ErrDuplicateEmail when the normalized
	// email already exists.
	Create(ctx context.Context, user *User) error

	// Save persists the full record by ID.
	Save(ctx context.Context, user *User) error

	// UpdateByID applies a partial update without touching credential fields
	// that the update does not name.
	UpdateByID(ctx context.Context, id string, update Update) (*User, error)
}

// NormalizeEmail lower-cases and trims an email the way the record store
// keys it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
