// Copyright (c) 2026 Edubridge. All rights reserved.

package students

import (
	"context"
	"fmt"

	"github.com/edubridge/portal/pkg/pagination"
)

// # Service

// Service implements the admin-facing student management use cases.
//
// The provisioning path (first-time identity creation) lives in the
// authentication pipeline, not here; this service only covers reads and
// approval state changes performed by administrators.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] with its storage dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

/*
Get returns a single student by primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Student: Hydrated entity
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Get(context context.Context, id string) (*Student, error) {
	return service.repository.FindByID(context, id)
}

/*
List returns a page of students plus the total count.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Student: Page of entities
  - int: Total row count
  - error: Storage errors
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]*Student, int, error) {
	return service.repository.List(context, params)
}

/*
Approve updates the approval flag on a student identity.

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
		return fmt.Errorf("student_service_approve_failed: %w", err)
	}
	return nil
}
