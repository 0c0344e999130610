// Copyright (c) 2026 Edubridge. All rights reserved.

package bankadmins

import (
	"context"

	"github.com/edubridge/portal/pkg/pagination"
)

// # Bank Admin Data Access

// Repository defines the data access contract for bank admin accounts.
type Repository interface {

	/*
		FindByUserIDAndEmail returns the account matching both natural key parts.

		Description: The authentication pipeline resolves bank-admin tokens
		with this compound lookup; both values come from the nested token
		claims and must match the same row.

		Parameters:
		  - context: context.Context
		  - userID: string (provider subject identifier)
		  - email: string

		Returns:
		  - *BankAdmin: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUserIDAndEmail(context context.Context, userID, email string) (*BankAdmin, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *BankAdmin: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*BankAdmin, error)

	/*
		FindByID returns the account with the given primary key.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *BankAdmin: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*BankAdmin, error)

	/*
		Create persists a brand-new bank admin account to the storage.

		Parameters:
		  - context: context.Context
		  - admin: *BankAdmin

		Returns:
		  - error: Persistence failures, including unique violations on the natural key
	*/
	Create(context context.Context, admin *BankAdmin) error

	/*
		List returns a page of bank admin accounts ordered by creation time.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []*BankAdmin: Page of entities
		  - int: Total row count for pagination metadata
		  - error: Database retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]*BankAdmin, int, error)

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

	/*
		MarkEmailVerified flips the email verification flag after a confirmed sign-in.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	MarkEmailVerified(context context.Context, id string) error
}
