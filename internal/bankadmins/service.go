// Copyright (c) 2026 Edubridge. All rights reserved.

package bankadmins

import (
	"context"
	"fmt"

	"github.com/edubridge/portal/internal/apiclients/credential"
	"github.com/edubridge/portal/internal/platform/apperr"
	"github.com/edubridge/portal/pkg/pagination"
	"github.com/edubridge/portal/pkg/uuid"
)

// # Contracts & Types

// CredentialProvider defines the contract with the external session provider.
//
// The provider owns passwords and session lifecycles; this service only
// mirrors accounts locally and enforces the approval workflow on top.
type CredentialProvider interface {
	// SignUp registers a new account and returns the initial session.
	SignUp(context context.Context, email, password string) (*credential.Session, error)

	// SignIn authenticates an existing account with email and password.
	SignIn(context context.Context, email, password string) (*credential.Session, error)

	// Refresh exchanges a refresh token for a rotated session.
	Refresh(context context.Context, refreshToken string) (*credential.Session, error)

	// Revoke terminates the session behind an access token.
	Revoke(context context.Context, accessToken string) error
}

// Service implements bank-admin authentication and management use cases.
type Service struct {
	repository Repository
	provider   CredentialProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository Repository, provider CredentialProvider) *Service {
	return &Service{
		repository: repository,
		provider:   provider,
	}
}

// # Sign-Up Flow

// SignUpInput holds the data required to enroll a new bank admin.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	BankName  string
}

/*
SignUp registers a bank admin with the credential provider and mirrors the
account locally.

Description: The provider call runs first; a provider rejection means no
local row. The local insert then degrades to get-or-create: if the natural
key already exists (a retried sign-up after a confirmation email), the
existing row is returned instead of a conflict.

New accounts start unapproved; a platform administrator must approve them
before sign-in succeeds.

Parameters:
  - context: context.Context
  - input: SignUpInput

Returns:
  - *BankAdmin: Local mirrored account
  - error: Provider rejections or storage errors
*/
func (service *Service) SignUp(context context.Context, input SignUpInput) (*BankAdmin, error) {

	// 1. Register with the credential provider; it owns the password
	session, err := service.provider.SignUp(context, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	// 2. Mirror the account locally, keyed by the provider subject
	admin := &BankAdmin{
		ID:              uuid.New(),
		UserID:          session.Account.ID,
		Email:           session.Account.Email,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		BankName:        input.BankName,
		IsActive:        true,
		IsApproved:      false,
		IsEmailVerified: session.Account.EmailConfirmed,
	}

	if err := service.repository.Create(context, admin); err != nil {

		// Get-or-create: a duplicate natural key means a prior sign-up
		// already mirrored this account
		if ae := apperr.As(err); ae != nil && ae.Code == "CONFLICT" {
			existing, findErr := service.repository.FindByUserIDAndEmail(context, admin.UserID, admin.Email)
			if findErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("bank_admin_service_sign_up_failed: %w", err)
	}

	return admin, nil
}

// # Sign-In Flow

// SignInResult couples the provider session with the local account state.
type SignInResult struct {
	Session *credential.Session
	Admin   *BankAdmin
}

/*
SignIn authenticates a bank admin and enforces the local gates.

Description: The provider validates the password; the local row must then
exist, be approved by a platform administrator, and carry a confirmed email.
A provider-confirmed email is persisted locally on first sight.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *SignInResult: Provider session plus local account
  - error: apperr.Unauthorized, apperr.Forbidden, or provider failures
*/
func (service *Service) SignIn(context context.Context, email, password string) (*SignInResult, error) {

	// 1. The provider is the source of truth for the password
	session, err := service.provider.SignIn(context, email, password)
	if err != nil {
		return nil, err
	}

	// 2. The account must have been mirrored locally at sign-up
	admin, err := service.repository.FindByUserIDAndEmail(context, session.Account.ID, session.Account.Email)
	if err != nil {
		return nil, apperr.Unauthorized("No bank admin account exists for these credentials")
	}

	// 3. Persist a provider-side email confirmation the first time we see it
	if session.Account.EmailConfirmed && !admin.IsEmailVerified {
		if err := service.repository.MarkEmailVerified(context, admin.ID); err != nil {
			return nil, fmt.Errorf("bank_admin_service_mark_verified_failed: %w", err)
		}
		admin.IsEmailVerified = true
	}

	// 4. Enforce the local gates
	if !admin.IsEmailVerified {
		return nil, apperr.Forbidden("Email address has not been confirmed")
	}
	if !admin.IsApproved {
		return nil, apperr.Forbidden("Account is awaiting approval")
	}
	if !admin.IsActive {
		return nil, apperr.Forbidden("Account is inactive")
	}

	return &SignInResult{Session: session, Admin: admin}, nil
}

// # Session Management

/*
Refresh exchanges a provider refresh token for a rotated session.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *credential.Session: Rotated session
  - error: apperr.Unauthorized or provider failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*credential.Session, error) {
	session, err := service.provider.Refresh(context, refreshToken)
	if err != nil {
		return nil, err
	}
	return session, nil
}

/*
Logout revokes the provider session behind an access token.

Description: Idempotent; already-dead sessions count as logged out.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - error: Provider connectivity failures only
*/
func (service *Service) Logout(context context.Context, accessToken string) error {
	return service.provider.Revoke(context, accessToken)
}

// # Management Surface

/*
List returns a page of bank admin accounts plus the total count.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*BankAdmin: Page of entities
  - int: Total row count
  - error: Storage errors
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]*BankAdmin, int, error) {
	return service.repository.List(context, params)
}

/*
Approve updates the approval flag on a bank admin account.

Description: Records the acting administrator and the decision time alongside
the flag itself.

Parameters:
  - context: context.Context
  - id: string
  - approved: bool
  - approvedBy: string (label of the acting administrator)

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Approve(context context.Context, id string, approved bool, approvedBy string) error {
	if err := service.repository.SetApproval(context, id, approved, approvedBy); err != nil {
		return fmt.Errorf("bank_admin_service_approve_failed: %w", err)
	}
	return nil
}
