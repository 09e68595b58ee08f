package models

import "time"

// AuthProvider identifies how an administrator authenticates
type AuthProvider string

const (
	// AuthProviderLocal administrators log in with a username and password
	AuthProviderLocal AuthProvider = "local"
	// AuthProviderGoogle administrators log in only through Google Sign-In
	AuthProviderGoogle AuthProvider = "google"
)

// FederatedPasswordHash is stored for federated administrators. It is not a
// valid bcrypt hash, so no password ever matches it.
const FederatedPasswordHash = "!federated"

// Administrator represents an account allowed to manage the directory
type Administrator struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"` // never expose
	AuthProvider AuthProvider `json:"auth_provider"`
	CreatedAt    time.Time    `json:"created_at"`
}

// IsFederated returns true if the administrator can only log in via an identity provider
func (a *Administrator) IsFederated() bool {
	return a.AuthProvider != AuthProviderLocal || a.PasswordHash == FederatedPasswordHash
}
