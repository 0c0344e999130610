// Copyright (c) 2026 Edubridge. All rights reserved.

package authn

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/portal/internal/admins"
	"github.com/edubridge/portal/internal/apiclients/profile"
	"github.com/edubridge/portal/internal/bankadmins"
	"github.com/edubridge/portal/internal/platform/apperr"
	"github.com/edubridge/portal/internal/students"
)

// # Test Fixtures

// makeBearer builds an Authorization header around an unsigned JWT carrying
// the given claims. The pipeline never verifies signatures, so an empty
// signature segment suffices.
func makeBearer(t *testing.T, claims map[string]any) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)

	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	token := base64.RawURLEncoding.EncodeToString(header) + "." +
		base64.RawURLEncoding.EncodeToString(payload) + "."

	return "Bearer " + token
}

type fakeStudentRepo struct {
	byAuthUUID map[string]*students.Student
	created    []*students.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{byAuthUUID: map[string]*students.Student{}}
}

func (repo *fakeStudentRepo) FindByAuthUUID(_ context.Context, authUUID string) (*students.Student, error) {
	student, ok := repo.byAuthUUID[authUUID]
	if !ok {
		return nil, apperr.NotFound("Student with this auth UUID")
	}
	return student, nil
}

func (repo *fakeStudentRepo) Create(_ context.Context, student *students.Student) error {
	repo.created = append(repo.created, student)
	repo.byAuthUUID[student.AuthUUID] = student
	return nil
}

type fakeAdminRepo struct {
	admin *admins.Admin
}

func (repo *fakeAdminRepo) FindByIDAndUsername(_ context.Context, id int64, username string) (*admins.Admin, error) {
	if repo.admin == nil || repo.admin.ID != id || repo.admin.Username != username {
		return nil, apperr.NotFound("Admin with this id and username")
	}
	return repo.admin, nil
}

type fakeBankAdminRepo struct {
	admin *bankadmins.BankAdmin
}

func (repo *fakeBankAdminRepo) FindByUserIDAndEmail(_ context.Context, userID, email string) (*bankadmins.BankAdmin, error) {
	if repo.admin == nil || repo.admin.UserID != userID || repo.admin.Email != email {
		return nil, apperr.NotFound("Bank admin")
	}
	return repo.admin, nil
}

type fakeProfileFetcher struct {
	record *profile.Record
	calls  int
}

func (fetcher *fakeProfileFetcher) Fetch(_ context.Context, _ string) *profile.Record {
	fetcher.calls++
	return fetcher.record
}

type pipelineFixture struct {
	pipeline    *Pipeline
	studentRepo *fakeStudentRepo
	adminRepo   *fakeAdminRepo
	bankRepo    *fakeBankAdminRepo
	fetcher     *fakeProfileFetcher
}

// newPipelineFixture wires a pipeline around fakes with the clock pinned to
// epoch second 150.
func newPipelineFixture() *pipelineFixture {
	fixture := &pipelineFixture{
		studentRepo: newFakeStudentRepo(),
		adminRepo:   &fakeAdminRepo{},
		bankRepo:    &fakeBankAdminRepo{},
		fetcher:     &fakeProfileFetcher{},
	}
	resolver := NewResolver(fixture.studentRepo, fixture.adminRepo, fixture.bankRepo, fixture.fetcher)
	fixture.pipeline = NewPipeline(resolver)
	fixture.pipeline.now = func() time.Time { return time.Unix(150, 0) }
	return fixture
}

func studentClaims() map[string]any {
	return map[string]any{
		"uuid":       "a1b2c3",
		"created_at": 100,
		"expired_at": 200,
	}
}

// # Anonymous Degradation

func TestPipeline_AnonymousOutcomes(t *testing.T) {
	fixture := newPipelineFixture()

	tests := []struct {
		name   string
		header string
	}{
		{"empty_header", ""},
		{"no_bearer_prefix", "Token abc"},
		{"undecodable_token", "Bearer not-a-jwt"},
		{"unknown_shape", makeBearer(t, map[string]any{"foo": "bar"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := fixture.pipeline.Authenticate(context.Background(), tt.header)
			assert.Nil(t, principal)
			assert.NoError(t, err)
		})
	}
}

// # Expiry Rejection

func TestPipeline_ExpiredTokens(t *testing.T) {
	fixture := newPipelineFixture()

	tests := []struct {
		name   string
		claims map[string]any
	}{
		{
			name: "student_window_closed",
			claims: map[string]any{
				"uuid":       "a1b2c3",
				"created_at": 100,
				"expired_at": 149,
			},
		},
		{
			name: "student_window_not_open",
			claims: map[string]any{
				"uuid":       "a1b2c3",
				"created_at": 151,
				"expired_at": 200,
			},
		},
		{
			name: "local_admin_past_exp",
			claims: map[string]any{
				"token_type": "access",
				"username":   "portaladmin",
				"email":      "admin@edubridge.app",
				"user_id":    7,
				"exp":        150,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, tt.claims))
			assert.Nil(t, principal)

			failure := apperr.As(err)
			require.NotNil(t, failure)
			assert.Equal(t, CodeTokenExpired, failure.Code)
			assert.Equal(t, 401, failure.HTTPStatus)
		})
	}
}

// # Student Resolution

func TestPipeline_StudentKnown(t *testing.T) {
	fixture := newPipelineFixture()
	fixture.studentRepo.byAuthUUID["a1b2c3"] = &students.Student{ID: "s-1", AuthUUID: "a1b2c3", FirstName: "Ana", IsActive: true}

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, studentClaims()))
	require.NoError(t, err)
	require.NotNil(t, principal)

	assert.Equal(t, KindStudent, principal.Kind())
	assert.Equal(t, "Ana", principal.Student().FirstName)
	assert.Zero(t, fixture.fetcher.calls, "known students must not trigger a profile fetch")
}

func TestPipeline_StudentInactive(t *testing.T) {
	fixture := newPipelineFixture()
	fixture.studentRepo.byAuthUUID["a1b2c3"] = &students.Student{ID: "s-1", AuthUUID: "a1b2c3", IsActive: false}

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, studentClaims()))
	assert.Nil(t, principal)

	failure := apperr.As(err)
	require.NotNil(t, failure)
	assert.Equal(t, CodeAccountInactive, failure.Code)
	assert.Equal(t, 403, failure.HTTPStatus)
}

func TestPipeline_StudentProvisionedOnFirstSight(t *testing.T) {
	fixture := newPipelineFixture()
	fixture.fetcher.record = &profile.Record{
		ID:        99,
		UUID:      "a1b2c3",
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "Silva",
		Mobile:    "+5511999990000",
	}

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, studentClaims()))
	require.NoError(t, err)
	require.NotNil(t, principal)

	require.Len(t, fixture.studentRepo.created, 1)
	created := fixture.studentRepo.created[0]
	assert.Equal(t, "a1b2c3", created.AuthUUID)
	assert.Equal(t, "Ana", created.FirstName)
	assert.Equal(t, "Silva", created.LastName)
	assert.Equal(t, "ana@example.com", created.Email)
	require.NotNil(t, created.Mobile)
	assert.Equal(t, "+5511999990000", *created.Mobile)
	assert.True(t, created.IsActive)
	assert.Same(t, created, principal.Student())
}

func TestPipeline_StudentProvisioningDefaults(t *testing.T) {
	fixture := newPipelineFixture()
	fixture.fetcher.record = &profile.Record{ID: 99, UUID: "a1b2c3"}

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, studentClaims()))
	require.NoError(t, err)

	created := principal.Student()
	assert.Equal(t, "User", created.FirstName)
	assert.Equal(t, "User99", created.LastName)
	assert.Equal(t, "user99@example.com", created.Email)
	assert.Nil(t, created.Mobile)
}

func TestPipeline_StudentProfileFetchFailed(t *testing.T) {
	fixture := newPipelineFixture()
	fixture.fetcher.record = nil

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, studentClaims()))
	assert.Nil(t, principal)

	failure := apperr.As(err)
	require.NotNil(t, failure)
	assert.Equal(t, CodeProfileFetchFailed, failure.Code)
	assert.Empty(t, fixture.studentRepo.created, "a failed fetch must not leave a partial row")
}

func TestPipeline_StudentProfileIdentityMismatch(t *testing.T) {
	fixture := newPipelineFixture()
	fixture.fetcher.record = &profile.Record{ID: 99, UUID: "somebody-else"}

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, studentClaims()))
	assert.Nil(t, principal)

	failure := apperr.As(err)
	require.NotNil(t, failure)
	assert.Equal(t, CodeProfileExtract, failure.Code)
	assert.Empty(t, fixture.studentRepo.created)
}

func TestPipeline_StudentProvisionRaceLoser(t *testing.T) {
	fixture := newPipelineFixture()
	fixture.fetcher.record = &profile.Record{ID: 99, UUID: "a1b2c3", FirstName: "Ana", LastName: "Silva"}

	// The winner's row appears for the refetch after the conflict
	winner := &students.Student{ID: "s-winner", AuthUUID: "a1b2c3", FirstName: "Ana", IsActive: true}
	lookups := 0

	repo := &racingStudentRepo{winner: winner, lookups: &lookups}
	resolver := NewResolver(repo, fixture.adminRepo, fixture.bankRepo, fixture.fetcher)
	pipeline := NewPipeline(resolver)
	pipeline.now = func() time.Time { return time.Unix(150, 0) }

	principal, err := pipeline.Authenticate(context.Background(), makeBearer(t, studentClaims()))
	require.NoError(t, err)
	require.NotNil(t, principal)
	assert.Same(t, winner, principal.Student())
	assert.Equal(t, 2, lookups, "expected a miss then a post-conflict refetch")
}

// racingStudentRepo misses the first lookup, conflicts on create, then
// serves the winner's row on the refetch.
type racingStudentRepo struct {
	winner  *students.Student
	lookups *int
}

func (repo *racingStudentRepo) FindByAuthUUID(ctx context.Context, authUUID string) (*students.Student, error) {
	*repo.lookups++
	if *repo.lookups == 1 {
		return nil, apperr.NotFound("Student with this auth UUID")
	}
	return repo.winner, nil
}

func (repo *racingStudentRepo) Create(ctx context.Context, student *students.Student) error {
	return apperr.Conflict("Student identity already exists for this auth UUID")
}

func TestPipeline_StudentMissingUUIDClaimValue(t *testing.T) {
	fixture := newPipelineFixture()

	claims := map[string]any{
		"uuid":       "",
		"created_at": 100,
		"expired_at": 200,
	}

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, claims))
	assert.Nil(t, principal)

	failure := apperr.As(err)
	require.NotNil(t, failure)
	assert.Equal(t, CodeInvalidTokenPayload, failure.Code)
}

// # Local Admin Resolution

func localAdminClaims() map[string]any {
	return map[string]any{
		"token_type": "access",
		"username":   "portaladmin",
		"email":      "admin@edubridge.app",
		"user_id":    7,
		"exp":        9999999999,
	}
}

func TestPipeline_LocalAdminResolved(t *testing.T) {
	fixture := newPipelineFixture()
	fixture.adminRepo.admin = &admins.Admin{ID: 7, Username: "portaladmin", IsStaff: true, IsActive: true}

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, localAdminClaims()))
	require.NoError(t, err)
	require.NotNil(t, principal)

	assert.Equal(t, KindLocalAdmin, principal.Kind())
	assert.Equal(t, "portaladmin", principal.LocalAdmin().Username)
}

func TestPipeline_LocalAdminNotFound(t *testing.T) {
	fixture := newPipelineFixture()

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, localAdminClaims()))
	assert.Nil(t, principal)

	failure := apperr.As(err)
	require.NotNil(t, failure)
	assert.Equal(t, CodeIdentityNotFound, failure.Code)
}

func TestPipeline_LocalAdminWithoutPrivilege(t *testing.T) {
	fixture := newPipelineFixture()
	fixture.adminRepo.admin = &admins.Admin{ID: 7, Username: "portaladmin", IsStaff: true, IsActive: false}

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, localAdminClaims()))
	assert.Nil(t, principal)

	failure := apperr.As(err)
	require.NotNil(t, failure)
	assert.Equal(t, CodeNotAuthorized, failure.Code)
	assert.Equal(t, 403, failure.HTTPStatus)
}

// # Bank Admin Resolution

func bankAdminClaims() map[string]any {
	return map[string]any{
		"user_metadata": map[string]any{
			"email":          "teller@bank.example",
			"email_verified": true,
			"sub":            "bank-user-42",
		},
		"exp": 9999999999,
	}
}

func TestPipeline_BankAdminResolved(t *testing.T) {
	fixture := newPipelineFixture()
	fixture.bankRepo.admin = &bankadmins.BankAdmin{
		UserID:   "bank-user-42",
		Email:    "teller@bank.example",
		IsActive: true,
	}

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, bankAdminClaims()))
	require.NoError(t, err)
	require.NotNil(t, principal)

	assert.Equal(t, KindBankAdmin, principal.Kind())
	assert.Equal(t, "teller@bank.example", principal.BankAdmin().Email)
}

func TestPipeline_BankAdminInactive(t *testing.T) {
	fixture := newPipelineFixture()
	fixture.bankRepo.admin = &bankadmins.BankAdmin{
		UserID:   "bank-user-42",
		Email:    "teller@bank.example",
		IsActive: false,
	}

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, bankAdminClaims()))
	assert.Nil(t, principal)

	failure := apperr.As(err)
	require.NotNil(t, failure)
	assert.Equal(t, CodeAccountInactive, failure.Code)
}

func TestPipeline_BankAdminNotMirrored(t *testing.T) {
	fixture := newPipelineFixture()

	principal, err := fixture.pipeline.Authenticate(context.Background(), makeBearer(t, bankAdminClaims()))
	assert.Nil(t, principal)

	failure := apperr.As(err)
	require.NotNil(t, failure)
	assert.Equal(t, CodeIdentityNotFound, failure.Code)
}
