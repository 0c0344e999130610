// Copyright (c) 2026 Edubridge. All rights reserved.

package servicekeys_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/portal/internal/platform/apperr"
	"github.com/edubridge/portal/internal/platform/sec"
	"github.com/edubridge/portal/internal/servicekeys"
)

type fakeRepository struct {
	byKeyHash map[string]*servicekeys.Caller
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byKeyHash: map[string]*servicekeys.Caller{}}
}

func (repo *fakeRepository) FindByKeyHash(_ context.Context, keyHash string) (*servicekeys.Caller, error) {
	caller, ok := repo.byKeyHash[keyHash]
	if !ok {
		return nil, apperr.NotFound("Service key")
	}
	return caller, nil
}

func (repo *fakeRepository) Create(_ context.Context, caller *servicekeys.Caller) error {
	repo.byKeyHash[caller.KeyHash] = caller
	return nil
}

func seedCaller(repo *fakeRepository, rawKey string, category servicekeys.Category, active bool) *servicekeys.Caller {
	caller := &servicekeys.Caller{
		ID:       "sk-1",
		Name:     "payments-batch",
		Category: category,
		KeyHash:  sec.HashToken(rawKey),
		IsActive: active,
	}
	repo.byKeyHash[caller.KeyHash] = caller
	return caller
}

func TestService_Resolve(t *testing.T) {
	repository := newFakeRepository()
	caller := seedCaller(repository, "raw-key", servicekeys.CategoryPayments, true)
	service := servicekeys.NewService(repository)

	resolved, err := service.Resolve(context.Background(), "raw-key")
	require.NoError(t, err)
	assert.Same(t, caller, resolved)
}

func TestService_Resolve_Failures(t *testing.T) {
	tests := []struct {
		name     string
		rawKey   string
		category servicekeys.Category
		active   bool
		lookup   string
		wantCode string
	}{
		{"unknown_key", "raw-key", servicekeys.CategoryPayments, true, "wrong-key", "UNAUTHORIZED"},
		{"inactive_caller", "raw-key", servicekeys.CategoryPayments, false, "raw-key", "FORBIDDEN"},
		{"disallowed_category", "raw-key", servicekeys.CategoryAPIBackend, true, "raw-key", "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository := newFakeRepository()
			seedCaller(repository, tt.rawKey, tt.category, tt.active)
			service := servicekeys.NewService(repository)

			_, err := service.Resolve(context.Background(), tt.lookup)

			failure := apperr.As(err)
			require.NotNil(t, failure)
			assert.Equal(t, tt.wantCode, failure.Code)
		})
	}
}

func TestService_Issue(t *testing.T) {
	repository := newFakeRepository()
	service := servicekeys.NewService(repository)

	issued, err := service.Issue(context.Background(), servicekeys.IssueInput{
		Name:     "payments-batch",
		Category: servicekeys.CategoryPayments,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, issued.Key)
	assert.Equal(t, sec.HashToken(issued.Key), issued.Caller.KeyHash)
	assert.True(t, issued.Caller.IsActive)

	// The plaintext round-trips through Resolve
	resolved, err := service.Resolve(context.Background(), issued.Key)
	require.NoError(t, err)
	assert.Same(t, issued.Caller, resolved)
}

func TestCaller_Allowed(t *testing.T) {
	tests := []struct {
		name     string
		category servicekeys.Category
		active   bool
		want     bool
	}{
		{"active_admin", servicekeys.CategoryAdmin, true, true},
		{"active_bank_admin", servicekeys.CategoryBankAdmin, true, true},
		{"active_payments", servicekeys.CategoryPayments, true, true},
		{"active_student", servicekeys.CategoryStudent, true, true},
		{"api_backend_excluded", servicekeys.CategoryAPIBackend, true, false},
		{"inactive_admin", servicekeys.CategoryAdmin, false, false},
		{"unknown_category", servicekeys.Category("MYSTERY"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &servicekeys.Caller{Category: tt.category, IsActive: tt.active}
			assert.Equal(t, tt.want, caller.Allowed())
		})
	}
}
