// Copyright (c) 2026 Edubridge. All rights reserved.

package admins

import (
	"context"
	"fmt"
	"time"

	"github.com/edubridge/portal/internal/platform/apperr"
	"github.com/edubridge/portal/internal/platform/sec"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and verifying local admin tokens.
type TokenProvider interface {
	// GenerateAdminToken creates a signed JWT carrying the local-admin claim set.
	//
	// # Parameters
	//   - tokenType: "access" or "refresh".
	//   - userID: The numeric ID of the account.
	//   - username: The username of the account.
	//   - email: The email of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	GenerateAdminToken(tokenType string, userID int64, username, email string, timeToLive time.Duration) (string, error)

	// VerifyAdminToken checks the signature and validity of a locally issued JWT.
	VerifyAdminToken(tokenString string) (*sec.AdminClaims, error)
}

// Service implements local-admin authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	repository           Repository
	revocationRepository RevocationRepository
	tokenProvider        TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	repository Repository,
	revocationRepository RevocationRepository,
	tokenProvider TokenProvider,
) *Service {
	return &Service{
		repository:           repository,
		revocationRepository: revocationRepository,
		tokenProvider:        tokenProvider,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new staff account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	AdminType string
}

/*
Register validates, hashes, and persists a brand new admin account.

Description: Deep-enrollment of a staff member, handling password hashing and
uniqueness checks against both username and email.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Admin: Created entity
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Admin, error) {

	// Verify username uniqueness. Return a client-safe Conflict error.
	_, err := service.repository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err = service.repository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("admin_service_hash_failed: %w", err)
	}

	adminType := input.AdminType
	if adminType == "" {
		adminType = AdminTypeStaff
	}

	// Construct the new Admin entity. The storage layer assigns the numeric ID.
	admin := &Admin{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		AdminType:    adminType,
		IsStaff:      true,
		IsActive:     true,
	}

	// Persist the admin to the database
	if err := service.repository.Create(context, admin); err != nil {
		return nil, fmt.Errorf("admin_service_register_failed: %w", err)
	}

	return admin, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

// Session represents a successfully established admin session.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	Admin        *Admin
}

// issueSession generates a fresh access and refresh token pair for an admin.
func (service *Service) issueSession(admin *Admin) (*Session, error) {
	accessToken, err := service.tokenProvider.GenerateAdminToken(
		TokenTypeAccess, admin.ID, admin.Username, admin.Email, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("admin_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenProvider.GenerateAdminToken(
		TokenTypeRefresh, admin.ID, admin.Username, admin.Email, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("admin_service_refresh_token_failed: %w", err)
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    AccessTokenTTL,
		Admin:        admin,
	}, nil
}

/*
Login validates admin credentials and issues security tokens.

Description: Verifies identity, performs constant-time password comparison,
and issues a fresh access and refresh token pair.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Transport-ready session tokens
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {

	// Look up by username. Generic message to prevent enumeration.
	admin, err := service.repository.FindByUsername(context, input.Username)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, admin.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Deactivated or non-staff accounts may not establish sessions
	if !admin.HasAdminPrivilege() {
		return nil, apperr.Forbidden("Account is inactive")
	}

	return service.issueSession(admin)
}

// # Session Management

// verifyRefreshToken validates a refresh token and returns its claims.
//
// It checks the signature, the token_type marker, and the revocation denylist
// before the caller is allowed to act on the claims.
func (service *Service) verifyRefreshToken(context context.Context, refreshToken string) (*sec.AdminClaims, error) {
	claims, err := service.tokenProvider.VerifyAdminToken(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	if claims.TokenType != TokenTypeRefresh {
		return nil, apperr.Unauthorized("Token is not a refresh token")
	}

	revoked, err := service.revocationRepository.IsRevoked(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("admin_service_revocation_check_failed: %w", err)
	}
	if revoked {
		return nil, apperr.Unauthorized("Refresh token has been revoked")
	}

	return claims, nil
}

// denylistRemaining revokes a refresh token for the remainder of its lifetime.
func (service *Service) denylistRemaining(context context.Context, refreshToken string, claims *sec.AdminClaims) {
	if claims.ExpiresAt == nil {
		return
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return
	}
	_ = service.revocationRepository.Revoke(context, sec.HashToken(refreshToken), remaining)
}

/*
Refresh implements the refresh token rotation mechanism.

Description: Verifies the existing refresh token, denylists it to prevent
reuse (replay attack mitigation), and issues a fresh pair of rotated tokens.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Session: New session credentials
  - error: Unauthorized or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {

	// Verify signature, token type, and revocation state
	claims, err := service.verifyRefreshToken(context, refreshToken)
	if err != nil {
		return nil, err
	}

	// Resolve the account via the same compound natural key the token classifier uses
	admin, err := service.repository.FindByIDAndUsername(context, claims.UserID, claims.Username)
	if err != nil {
		return nil, apperr.Unauthorized("Admin account not found or suspended")
	}

	if !admin.HasAdminPrivilege() {
		return nil, apperr.Forbidden("Account is inactive")
	}

	// Rotation: denylist the old refresh token to prevent replay attacks
	service.denylistRemaining(context, refreshToken, claims)

	return service.issueSession(admin)
}

/*
Logout permanently revokes the admin's refresh token.

Description: Ensures that a presented refresh token can never be used again.
Logout is idempotent; an already invalid token is treated as success.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - error: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {

	// Verify the token first so we know how long to keep the denylist entry.
	// If the token is already invalid, logout is a no-op.
	claims, err := service.tokenProvider.VerifyAdminToken(refreshToken)
	if err != nil {
		return nil
	}

	service.denylistRemaining(context, refreshToken, claims)
	return nil
}
