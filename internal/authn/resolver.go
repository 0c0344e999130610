// Copyright (c) 2026 Edubridge. All rights reserved.

package authn

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/edubridge/portal/internal/admins"
	"github.com/edubridge/portal/internal/apiclients/profile"
	"github.com/edubridge/portal/internal/bankadmins"
	"github.com/edubridge/portal/internal/platform/apperr"
	"github.com/edubridge/portal/internal/platform/ctxutil"
	"github.com/edubridge/portal/internal/students"
	"github.com/edubridge/portal/pkg/pointer"
	"github.com/edubridge/portal/pkg/uuid"
)

// # Contracts
//
// The resolver depends on the narrowest slice of each identity store it
// needs. Students are the only kind it may create.

// StudentRepository is the student store surface the resolver consumes.
type StudentRepository interface {
	FindByAuthUUID(context context.Context, authUUID string) (*students.Student, error)
	Create(context context.Context, student *students.Student) error
}

// LocalAdminRepository is the admin store surface the resolver consumes.
type LocalAdminRepository interface {
	FindByIDAndUsername(context context.Context, id int64, username string) (*admins.Admin, error)
}

// BankAdminRepository is the bank-admin store surface the resolver consumes.
type BankAdminRepository interface {
	FindByUserIDAndEmail(context context.Context, userID, email string) (*bankadmins.BankAdmin, error)
}

// ProfileFetcher is the profile service adapter surface.
//
// A nil record covers every adapter failure mode; the resolver converts nil
// into an authentication failure.
type ProfileFetcher interface {
	Fetch(context context.Context, rawToken string) *profile.Record
}

// # Resolver

// Resolver turns classified, unexpired claims into a local identity.
type Resolver struct {
	studentRepository    StudentRepository
	localAdminRepository LocalAdminRepository
	bankAdminRepository  BankAdminRepository
	profileFetcher       ProfileFetcher
}

// NewResolver constructs a [Resolver] with its store and adapter dependencies.
func NewResolver(
	studentRepository StudentRepository,
	localAdminRepository LocalAdminRepository,
	bankAdminRepository BankAdminRepository,
	profileFetcher ProfileFetcher,
) *Resolver {
	return &Resolver{
		studentRepository:    studentRepository,
		localAdminRepository: localAdminRepository,
		bankAdminRepository:  bankAdminRepository,
		profileFetcher:       profileFetcher,
	}
}

/*
Resolve maps classified claims to a tagged principal.

Parameters:
  - context: context.Context
  - kind: Kind (output of Classify; must not be KindUnknown)
  - claims: RawClaims
  - rawToken: string (needed for the student profile fetch)

Returns:
  - *Principal: Resolved and tagged identity
  - error: Authentication failures from errors.go, or internal errors
*/
func (resolver *Resolver) Resolve(context context.Context, kind Kind, claims RawClaims, rawToken string) (*Principal, error) {
	switch kind {
	case KindStudent:
		return resolver.resolveStudent(context, claims, rawToken)
	case KindLocalAdmin:
		return resolver.resolveLocalAdmin(context, claims)
	case KindBankAdmin:
		return resolver.resolveBankAdmin(context, claims)
	default:
		return nil, fmt.Errorf("authn: cannot resolve kind %q", kind)
	}
}

/*
resolveStudent looks up a student by auth UUID, provisioning on first sight.

Description: The fast path is a single lookup. On a miss the raw token is
exchanged for a profile record upstream and a local identity is created
just-in-time. A profile failure aborts cleanly with no partial row. The
storage uniqueness constraint on the auth UUID arbitrates concurrent
first-time requests: the loser's conflict degrades to re-reading the
winner's row.

Parameters:
  - context: context.Context
  - claims: RawClaims
  - rawToken: string

Returns:
  - *Principal: Student principal
  - error: InvalidTokenPayload, ProfileFetchFailed, ProfileExtractFailed,
    AccountInactive, or storage errors
*/
func (resolver *Resolver) resolveStudent(context context.Context, claims RawClaims, rawToken string) (*Principal, error) {
	logger := ctxutil.GetLogger(context)

	// 1. The auth UUID is the natural key; a student token without one is broken
	authUUID := claims.String(claimUUID)
	if authUUID == "" {
		logger.Warn("authn_student_missing_uuid")
		return nil, InvalidTokenPayload("Token carries no student identifier")
	}

	// 2. Fast path: the identity already exists
	student, err := resolver.studentRepository.FindByAuthUUID(context, authUUID)
	if err == nil {
		return activeStudentPrincipal(logger, student)
	}
	if failure := apperr.As(err); failure == nil || failure.Code != "NOT_FOUND" {
		return nil, fmt.Errorf("authn_student_lookup_failed: %w", err)
	}

	// 3. First sight: exchange the raw token for a profile record.
	// A nil record covers timeouts, connection errors, and bad bodies alike.
	record := resolver.profileFetcher.Fetch(context, rawToken)
	if record == nil {
		logger.Error("authn_student_profile_fetch_failed", slog.String("auth_uuid", authUUID))
		return nil, ProfileFetchFailed()
	}

	// The upstream record must agree on the identity being provisioned
	if record.UUID == "" || record.UUID != authUUID {
		logger.Error("authn_student_profile_extract_failed",
			slog.String("auth_uuid", authUUID),
			slog.String("record_uuid", record.UUID))
		return nil, ProfileExtractFailed()
	}

	// 4. Construct the identity with defaults for absent fields
	student = newStudentFromRecord(authUUID, record)

	// 5. Persist; a conflict means a concurrent request won the race
	if err := resolver.studentRepository.Create(context, student); err != nil {
		if failure := apperr.As(err); failure != nil && failure.Code == "CONFLICT" {
			logger.Warn("authn_student_provision_conflict", slog.String("auth_uuid", authUUID))
			existing, findErr := resolver.studentRepository.FindByAuthUUID(context, authUUID)
			if findErr != nil {
				return nil, fmt.Errorf("authn_student_conflict_refetch_failed: %w", findErr)
			}
			return activeStudentPrincipal(logger, existing)
		}
		return nil, fmt.Errorf("authn_student_provision_failed: %w", err)
	}

	logger.Info("authn_student_provisioned", slog.String("auth_uuid", authUUID))
	return NewStudentPrincipal(student), nil
}

// activeStudentPrincipal rejects deactivated student identities before
// tagging. Every resolved kind enforces its active flag; students are no
// exception.
func activeStudentPrincipal(logger *slog.Logger, student *students.Student) (*Principal, error) {
	if !student.IsActive {
		logger.Warn("authn_student_inactive", slog.String("auth_uuid", student.AuthUUID))
		return nil, AccountInactive("Student account is inactive")
	}
	return NewStudentPrincipal(student), nil
}

// newStudentFromRecord builds a student entity from a normalized profile
// record, filling the documented defaults for absent fields.
func newStudentFromRecord(authUUID string, record *profile.Record) *students.Student {
	firstName := record.FirstName
	if firstName == "" {
		firstName = "User"
	}
	lastName := record.LastName
	if lastName == "" {
		lastName = fmt.Sprintf("User%d", record.ID)
	}
	email := record.Email
	if email == "" {
		email = fmt.Sprintf("user%d@example.com", record.ID)
	}

	student := &students.Student{
		ID:        uuid.New(),
		AuthUUID:  authUUID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		IsActive:  true,
	}

	if record.Mobile != "" {
		student.Mobile = pointer.To(record.Mobile)
	}
	if record.DateOfBirth != "" {
		student.DateOfBirth = pointer.To(record.DateOfBirth)
	}
	if record.Gender != "" {
		student.Gender = pointer.To(record.Gender)
	}
	if record.Nationality != "" {
		student.Nationality = pointer.To(record.Nationality)
	}

	return student
}

/*
resolveLocalAdmin looks up a local admin by the compound (user_id, username)
natural key. Local admins are never provisioned; the account must pre-exist
and still hold administrative privilege.

Parameters:
  - context: context.Context
  - claims: RawClaims

Returns:
  - *Principal: Local admin principal
  - error: InvalidTokenPayload, IdentityNotFound, or NotAuthorized
*/
func (resolver *Resolver) resolveLocalAdmin(context context.Context, claims RawClaims) (*Principal, error) {
	logger := ctxutil.GetLogger(context)

	userID, hasUserID := claims.Int64(claimUserID)
	username := claims.String(claimUsername)
	if !hasUserID || username == "" {
		logger.Warn("authn_local_admin_missing_natural_key")
		return nil, InvalidTokenPayload("Token carries no admin identifier")
	}

	admin, err := resolver.localAdminRepository.FindByIDAndUsername(context, userID, username)
	if err != nil {
		logger.Warn("authn_local_admin_not_found",
			slog.Int64("user_id", userID), slog.String("username", username))
		return nil, IdentityNotFound("No admin account matches this token")
	}

	if !admin.HasAdminPrivilege() {
		logger.Warn("authn_local_admin_not_authorized", slog.Int64("user_id", userID))
		return nil, NotAuthorized("Account lacks administrative privilege")
	}

	return NewLocalAdminPrincipal(admin), nil
}

/*
resolveBankAdmin looks up a bank admin by the (subject, email) natural key
extracted from the nested metadata claims. Bank admins are never
provisioned by the pipeline and must be active.

Parameters:
  - context: context.Context
  - claims: RawClaims

Returns:
  - *Principal: Bank admin principal
  - error: InvalidTokenPayload, IdentityNotFound, or AccountInactive
*/
func (resolver *Resolver) resolveBankAdmin(context context.Context, claims RawClaims) (*Principal, error) {
	logger := ctxutil.GetLogger(context)

	metadata := claims.Nested(claimUserMetadata)
	if metadata == nil {
		return nil, InvalidTokenPayload("Token carries no bank admin identity")
	}

	subject := metadata.String(claimSubject)
	email := metadata.String(claimEmail)
	if subject == "" || email == "" {
		logger.Warn("authn_bank_admin_missing_natural_key")
		return nil, InvalidTokenPayload("Token carries no bank admin identifier")
	}

	bankAdmin, err := resolver.bankAdminRepository.FindByUserIDAndEmail(context, subject, email)
	if err != nil {
		logger.Warn("authn_bank_admin_not_found", slog.String("subject", subject))
		return nil, IdentityNotFound("No bank admin account matches this token")
	}

	if !bankAdmin.IsActive {
		logger.Warn("authn_bank_admin_inactive", slog.String("subject", subject))
		return nil, AccountInactive("Bank admin account is inactive")
	}

	return NewBankAdminPrincipal(bankAdmin), nil
}
