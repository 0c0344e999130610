// Copyright (c) 2026 Edubridge. All rights reserved.

/*
Package bankadmins implements the bank administrator identity domain.

Bank admins authenticate through an external credential provider; their
tokens carry a nested claim structure and this service only mirrors the
account locally, gated behind an explicit approval workflow.

# Architecture

The (UserID, Email) pair is the natural key: both values come from the
provider's token claims and both must match a local row for a token to
resolve. Local rows are created on sign-up, never by the authentication
pipeline.
*/
package bankadmins

import "time"

// # Domain Entities

// BankAdmin represents a bank administrator account mirrored from the
// external credential provider.
type BankAdmin struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	BankName        string     `json:"bank_name"`
	IsActive        bool       `json:"is_active"`
	IsApproved      bool       `json:"is_approved"`
	IsEmailVerified bool       `json:"is_email_verified"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CanSignIn reports whether the account has cleared every gate required to
// establish a session: provider email confirmation plus local approval.
func (admin *BankAdmin) CanSignIn() bool {
	return admin.IsActive && admin.IsApproved && admin.IsEmailVerified
}

// # Field Identifiers

// Global field names for validation and identity mapping in the bank-admin domain.
const (
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldBankName     = "bank_name"
	FieldRefreshToken = "refresh_token"
	FieldIsApproved   = "is_approved"
	FieldMessage      = "message"
)
