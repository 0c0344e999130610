// Copyright (c) 2026 Edubridge. All rights reserved.

/*
Package admins implements the local administrator identity and session layer.

It defines the Admin entity and the logic for registering staff accounts,
verifying credentials, and issuing the locally signed access and refresh
tokens that the token classifier recognizes as local-admin credentials.

# Architecture

Local admins are the only principal kind whose tokens this service issues
itself. The entities defined here have no external dependencies and
encapsulate all business rules related to staff identity.
*/
package admins

import "time"

// # Domain Entities

// Admin represents a local administrative staff account.
//
// The (ID, Username) pair is the natural key the authentication pipeline
// uses to resolve a local-admin token back to this record.
type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	AdminType    string    `json:"admin_type"`
	IsStaff      bool      `json:"is_staff"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasAdminPrivilege reports whether the account may act as an administrator.
// Both flags must hold; a deactivated staff account loses its privilege.
func (admin *Admin) HasAdminPrivilege() bool {
	return admin.IsStaff && admin.IsActive
}

// # Admin Types

const (
	// AdminTypeSuper has unrestricted access to administrative surfaces.
	AdminTypeSuper = "super"

	// AdminTypeStaff is the default type for operational staff accounts.
	AdminTypeStaff = "staff"
)

// # Field Identifiers

// Global field names for validation and identity mapping in the admin domain.
const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRefreshToken = "refresh_token"
	FieldAccessToken  = "access_token"
	FieldTokenType    = "token_type"
	FieldExpiresIn    = "expires_in"
	FieldMessage      = "message"
)
