// Copyright (c) 2026 Edubridge. All rights reserved.

package students

import (
	"context"

	"github.com/edubridge/portal/pkg/pagination"
)

// # Student Data Access

// Repository defines the data access contract for student identities.
type Repository interface {

	/*
		FindByAuthUUID returns the student with the given external auth UUID.

		Parameters:
		  - context: context.Context
		  - authUUID: string

		Returns:
		  - *Student: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByAuthUUID(context context.Context, authUUID string) (*Student, error)

	/*
		FindByID returns the student with the given primary key.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Student: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Student, error)

	/*
		Create persists a brand-new student identity to the storage.

		Parameters:
		  - context: context.Context
		  - student: *Student

		Returns:
		  - error: Persistence failures, including unique violations on AuthUUID
	*/
	Create(context context.Context, student *Student) error

	/*
		List returns a page of student identities ordered by creation time.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []*Student: Page of entities
		  - int: Total row count for pagination metadata
		  - error: Database retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]*Student, int, error)

	/*
		SetApproval updates the approval flag and records who approved and when.

		Parameters:
		  - context: context.Context
		  - id: string
		  - approved: bool
		  - approvedBy: string

		Returns:
		  - error: Persistence failures
	*/
	SetApproval(context context.Context, id string, approved bool, approvedBy string) error
}
