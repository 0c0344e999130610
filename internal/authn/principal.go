// Copyright (c) 2026 Edubridge. All rights reserved.

package authn

import (
	"context"
	"fmt"

	"github.com/edubridge/portal/internal/admins"
	"github.com/edubridge/portal/internal/bankadmins"
	"github.com/edubridge/portal/internal/platform/ctxkey"
	"github.com/edubridge/portal/internal/servicekeys"
	"github.com/edubridge/portal/internal/students"
)

// # Principal Kinds

// Kind is the closed enumeration of principal kinds a token can resolve to.
type Kind string

const (
	KindStudent    Kind = "student"
	KindLocalAdmin Kind = "local_admin"
	KindBankAdmin  Kind = "bank_admin"

	// KindUnknown marks a claim set matching no classification signature.
	// It is a classifier outcome, never a resolved principal's kind.
	KindUnknown Kind = "unknown"
)

// # Principal

// Principal is a resolved caller identity with its kind tag attached.
//
// The kind is fixed at construction and exactly one of the identity
// pointers is set, matching it. Fields are unexported so no code path can
// retag a request after resolution.
type Principal struct {
	kind      Kind
	student   *students.Student
	admin     *admins.Admin
	bankAdmin *bankadmins.BankAdmin
}

// NewStudentPrincipal tags a student identity.
func NewStudentPrincipal(student *students.Student) *Principal {
	return &Principal{kind: KindStudent, student: student}
}

// NewLocalAdminPrincipal tags a local admin identity.
func NewLocalAdminPrincipal(admin *admins.Admin) *Principal {
	return &Principal{kind: KindLocalAdmin, admin: admin}
}

// NewBankAdminPrincipal tags a bank admin identity.
func NewBankAdminPrincipal(bankAdmin *bankadmins.BankAdmin) *Principal {
	return &Principal{kind: KindBankAdmin, bankAdmin: bankAdmin}
}

// Kind returns the immutable principal kind tag.
func (principal *Principal) Kind() Kind { return principal.kind }

// Student returns the student identity, or nil for other kinds.
func (principal *Principal) Student() *students.Student { return principal.student }

// LocalAdmin returns the local admin identity, or nil for other kinds.
func (principal *Principal) LocalAdmin() *admins.Admin { return principal.admin }

// BankAdmin returns the bank admin identity, or nil for other kinds.
func (principal *Principal) BankAdmin() *bankadmins.BankAdmin { return principal.bankAdmin }

// Label returns a human-readable identifier for audit trails and logs.
func (principal *Principal) Label() string {
	switch principal.kind {
	case KindStudent:
		return fmt.Sprintf("student:%s", principal.student.AuthUUID)
	case KindLocalAdmin:
		return fmt.Sprintf("admin:%s", principal.admin.Username)
	case KindBankAdmin:
		return fmt.Sprintf("bank_admin:%s", principal.bankAdmin.Email)
	default:
		return "unknown"
	}
}

// # Context Plumbing

// WithContext returns a child context carrying the resolved principal.
func WithContext(parent context.Context, principal *Principal) context.Context {
	return context.WithValue(parent, ctxkey.KeyPrincipal, principal)
}

// FromContext extracts the resolved principal from the context.
// It returns nil for anonymous requests.
func FromContext(ctx context.Context) *Principal {
	principal, ok := ctx.Value(ctxkey.KeyPrincipal).(*Principal)
	if !ok {
		return nil
	}
	return principal
}

// # Permission Predicates

// Predicate is a side-effect-free boolean check over the request context.
//
// Predicates read the resolved principal and service caller; they never
// re-derive or mutate either.
type Predicate func(ctx context.Context) bool

// IsStudent is true when the request resolved to a student principal.
func IsStudent(ctx context.Context) bool {
	principal := FromContext(ctx)
	return principal != nil && principal.kind == KindStudent && principal.student != nil
}

// IsLocalAdmin is true when the request resolved to a local admin principal.
func IsLocalAdmin(ctx context.Context) bool {
	principal := FromContext(ctx)
	return principal != nil && principal.kind == KindLocalAdmin && principal.admin != nil
}

// IsBankAdmin is true when the request resolved to a bank admin principal.
func IsBankAdmin(ctx context.Context) bool {
	principal := FromContext(ctx)
	return principal != nil && principal.kind == KindBankAdmin && principal.bankAdmin != nil
}

// IsService is true when the request carried a valid, allowed service key.
// Service callers are authorized by the x-api-key gate, independent of the
// bearer-token pipeline.
func IsService(ctx context.Context) bool {
	return servicekeys.FromContext(ctx) != nil
}

// AnyOf composes predicates with a logical OR.
//
// Short-circuit order does not matter since predicates are side-effect-free.
func AnyOf(predicates ...Predicate) Predicate {
	return func(ctx context.Context) bool {
		for _, predicate := range predicates {
			if predicate(ctx) {
				return true
			}
		}
		return false
	}
}

// IsAnyAdmin is true for local admins, bank admins, and service callers.
var IsAnyAdmin = AnyOf(IsLocalAdmin, IsBankAdmin, IsService)
