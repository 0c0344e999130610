// Copyright (c) 2026 Edubridge. All rights reserved.

/*
Package servicekeys implements the coarse-grained service API key gate.

Non-human callers (batch jobs, sibling backends, payment processors)
authenticate with an opaque key in the x-api-key header instead of a bearer
token. A key maps to a caller category; the portal accepts a fixed subset of
categories and rejects the rest.

This gate runs alongside the bearer-token pipeline, not instead of it: a
request may carry both a service key and a bearer token, and the resolved
caller feeds the IsService permission predicate.
*/
package servicekeys

import (
	"context"
	"time"

	"github.com/edubridge/portal/internal/platform/ctxkey"
)

// # Caller Categories

// Category identifies the class of service behind an API key.
type Category string

const (
	CategoryAdmin      Category = "ADMIN"
	CategoryBankAdmin  Category = "BANK_ADMIN"
	CategoryPayments   Category = "PAYMENTS"
	CategoryStudent    Category = "STUDENT"
	CategoryAPIBackend Category = "API_BACKEND"
)

// AllowedCategories is the set of caller categories the portal accepts.
//
// API_BACKEND keys belong to the upstream identity backend itself and are
// deliberately excluded; that system talks to the portal on behalf of users,
// never as a service principal.
var AllowedCategories = map[Category]bool{
	CategoryAdmin:     true,
	CategoryBankAdmin: true,
	CategoryPayments:  true,
	CategoryStudent:   true,
}

// # Domain Entities

// Caller represents a resolved non-human service caller.
type Caller struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	KeyHash   string    `json:"-"` // Hash of the opaque key. Omitted for security.
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Allowed reports whether this caller's category is accepted by the portal.
func (caller *Caller) Allowed() bool {
	return caller.IsActive && AllowedCategories[caller.Category]
}

// # Context Plumbing

// WithContext returns a child context carrying the resolved service caller.
func WithContext(parent context.Context, caller *Caller) context.Context {
	return context.WithValue(parent, ctxkey.KeyServiceCaller, caller)
}

// FromContext extracts the resolved service caller from the context.
// It returns nil when the request carried no valid service key.
func FromContext(ctx context.Context) *Caller {
	caller, ok := ctx.Value(ctxkey.KeyServiceCaller).(*Caller)
	if !ok {
		return nil
	}
	return caller
}
