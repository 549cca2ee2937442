package domain

import (
	"strings"
	"time"
)

// Role is the authorization level of a caller.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User models an identity-provider account. Role holds the embedded role
// claim only; the effective role is derived per session (see DeriveRole).
type User struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	PasswordHash string            `json:"-"`
	Role         string            `json:"role,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Profile is the public account record used for admin lookups by email.
type Profile struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IdentityClaims are the facts carried by a session handle.
type IdentityClaims struct {
	SessionID string
	UserID    string
	Email     string
	Role      string
}

// Identity is the resolved view of the caller for a single request.
type Identity struct {
	Authenticated bool   `json:"is_authenticated"`
	UserID        string `json:"user_id,omitempty"`
	Email         string `json:"email,omitempty"`
	IsAdmin       bool   `json:"is_admin"`
	SessionID     string `json:"-"`
}

// Anonymous is the identity of a caller without a valid session.
func Anonymous() Identity {
	return Identity{}
}

// Owns reports whether the caller is the owning user of a.
func (i Identity) Owns(a *Appointment) bool {
	return i.Authenticated && a.UserID != "" && a.UserID == i.UserID
}

// NormalizeEmail lowercases and trims an address for comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
