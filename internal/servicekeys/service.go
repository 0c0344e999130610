// Copyright (c) 2026 Edubridge. All rights reserved.

package servicekeys

import (
	"context"
	"fmt"

	"github.com/edubridge/portal/internal/platform/apperr"
	"github.com/edubridge/portal/internal/platform/sec"
	"github.com/edubridge/portal/pkg/uuid"
)

// # Service

// KeyByteLength is the entropy of a freshly issued service key.
const KeyByteLength = 32

// Service implements service key resolution and provisioning use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] with its storage dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
Resolve maps a raw x-api-key header value to a registered service caller.

Description: Keys are stored hashed; the raw value is hashed before lookup
and never persisted or logged. Inactive callers and callers outside the
portal's allowed category set are rejected.

Parameters:
  - context: context.Context
  - rawKey: string

Returns:
  - *Caller: Resolved caller entity
  - error: apperr.Unauthorized for unknown keys, apperr.Forbidden for
    disallowed categories, or storage errors
*/
func (service *Service) Resolve(context context.Context, rawKey string) (*Caller, error) {

	// 1. Hash the raw key for lookup
	caller, err := service.repository.FindByKeyHash(context, sec.HashToken(rawKey))
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Unknown service key")
		}
		return nil, fmt.Errorf("service_key_resolve_failed: %w", err)
	}

	// 2. Enforce the category allow-list
	if !caller.Allowed() {
		return nil, apperr.Forbidden("Service category is not allowed on this API")
	}

	return caller, nil
}

// IssueInput holds the data required to provision a new service key.
type IssueInput struct {
	Name     string
	Category Category
}

// IssuedKey couples a created caller with its one-time plaintext key.
type IssuedKey struct {
	Caller *Caller `json:"caller"`
	Key    string  `json:"key"`
}

/*
Issue provisions a new service caller and returns the plaintext key once.

Description: Only the hash is stored; the plaintext in the response is the
single opportunity to capture it.

Parameters:
  - context: context.Context
  - input: IssueInput

Returns:
  - *IssuedKey: Created caller plus the plaintext key
  - error: Generation or persistence failures
*/
func (service *Service) Issue(context context.Context, input IssueInput) (*IssuedKey, error) {

	// Generate the opaque key material
	rawKey, err := sec.GenerateSecureToken(KeyByteLength)
	if err != nil {
		return nil, fmt.Errorf("service_key_generate_failed: %w", err)
	}

	caller := &Caller{
		ID:       uuid.New(),
		Name:     input.Name,
		Category: input.Category,
		KeyHash:  sec.HashToken(rawKey),
		IsActive: true,
	}

	if err := service.repository.Create(context, caller); err != nil {
		return nil, fmt.Errorf("service_key_issue_failed: %w", err)
	}

	return &IssuedKey{Caller: caller, Key: rawKey}, nil
}
