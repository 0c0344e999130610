// Copyright (c) 2026 Edubridge. All rights reserved.

package authn_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/portal/internal/admins"
	"github.com/edubridge/portal/internal/authn"
	"github.com/edubridge/portal/internal/bankadmins"
	"github.com/edubridge/portal/internal/servicekeys"
	"github.com/edubridge/portal/internal/students"
)

func studentContext() context.Context {
	principal := authn.NewStudentPrincipal(&students.Student{AuthUUID: "a1b2c3"})
	return authn.WithContext(context.Background(), principal)
}

func localAdminContext() context.Context {
	principal := authn.NewLocalAdminPrincipal(&admins.Admin{ID: 7, Username: "portaladmin"})
	return authn.WithContext(context.Background(), principal)
}

func bankAdminContext() context.Context {
	principal := authn.NewBankAdminPrincipal(&bankadmins.BankAdmin{Email: "teller@bank.example"})
	return authn.WithContext(context.Background(), principal)
}

func serviceContext() context.Context {
	caller := &servicekeys.Caller{Name: "payments-batch", Category: servicekeys.CategoryPayments, IsActive: true}
	return servicekeys.WithContext(context.Background(), caller)
}

/*
TestPrincipal_KindAndAccessors tests that the kind tag is fixed at
construction and exactly one identity accessor returns non-nil.
*/
func TestPrincipal_KindAndAccessors(t *testing.T) {
	student := &students.Student{AuthUUID: "a1b2c3"}
	principal := authn.NewStudentPrincipal(student)

	assert.Equal(t, authn.KindStudent, principal.Kind())
	require.NotNil(t, principal.Student())
	assert.Equal(t, "a1b2c3", principal.Student().AuthUUID)
	assert.Nil(t, principal.LocalAdmin())
	assert.Nil(t, principal.BankAdmin())
}

/*
TestPrincipal_Label tests the audit label format per kind.
*/
func TestPrincipal_Label(t *testing.T) {
	tests := []struct {
		name      string
		principal *authn.Principal
		want      string
	}{
		{"student", authn.NewStudentPrincipal(&students.Student{AuthUUID: "a1b2c3"}), "student:a1b2c3"},
		{"local_admin", authn.NewLocalAdminPrincipal(&admins.Admin{Username: "portaladmin"}), "admin:portaladmin"},
		{"bank_admin", authn.NewBankAdminPrincipal(&bankadmins.BankAdmin{Email: "teller@bank.example"}), "bank_admin:teller@bank.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.principal.Label())
		})
	}
}

/*
TestPredicates tests each predicate against every caller context, including
the anonymous baseline.
*/
func TestPredicates(t *testing.T) {
	anonymous := context.Background()

	tests := []struct {
		name     string
		ctx      context.Context
		student  bool
		local    bool
		bank     bool
		service  bool
		anyAdmin bool
	}{
		{"anonymous", anonymous, false, false, false, false, false},
		{"student", studentContext(), true, false, false, false, false},
		{"local_admin", localAdminContext(), false, true, false, false, true},
		{"bank_admin", bankAdminContext(), false, false, true, false, true},
		{"service_caller", serviceContext(), false, false, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.student, authn.IsStudent(tt.ctx))
			assert.Equal(t, tt.local, authn.IsLocalAdmin(tt.ctx))
			assert.Equal(t, tt.bank, authn.IsBankAdmin(tt.ctx))
			assert.Equal(t, tt.service, authn.IsService(tt.ctx))
			assert.Equal(t, tt.anyAdmin, authn.IsAnyAdmin(tt.ctx))
		})
	}
}

/*
TestAnyOf tests OR-composition, including the empty composition which must
always deny.
*/
func TestAnyOf(t *testing.T) {
	ctx := studentContext()

	assert.True(t, authn.AnyOf(authn.IsStudent, authn.IsLocalAdmin)(ctx))
	assert.True(t, authn.AnyOf(authn.IsLocalAdmin, authn.IsStudent)(ctx))
	assert.False(t, authn.AnyOf(authn.IsLocalAdmin, authn.IsBankAdmin)(ctx))
	assert.False(t, authn.AnyOf()(ctx))
}

/*
TestFromContext_Anonymous tests that an undecorated context yields nil, not
a zero-value principal.
*/
func TestFromContext_Anonymous(t *testing.T) {
	assert.Nil(t, authn.FromContext(context.Background()))
}
