// Copyright (c) 2026 Edubridge. All rights reserved.

package admins

import (
	"context"
	"time"
)

// # Admin Data Access

// Repository defines the data access contract for admin accounts.
type Repository interface {

	/*
		FindByID returns the account with the given numeric ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *Admin: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*Admin, error)

	/*
		FindByIDAndUsername returns the account matching both natural key parts.

		Description: The authentication pipeline resolves local-admin tokens
		with this compound lookup; both values come from token claims and both
		must match the same row.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - username: string

		Returns:
		  - *Admin: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByIDAndUsername(context context.Context, id int64, username string) (*Admin, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *Admin: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*Admin, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Admin: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Admin, error)

	/*
		Create persists a brand-new admin account to the storage.

		Description: The generated numeric ID is written back onto the entity.

		Parameters:
		  - context: context.Context
		  - admin: *Admin

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, admin *Admin) error
}

// # Volatile Data Access

// RevocationRepository defines the contract for the refresh-token denylist.
//
// Refresh tokens are self-contained JWTs; revocation is tracked by listing
// the hash of a revoked token until its natural expiry passes.
type RevocationRepository interface {

	/*
		Revoke lists a refresh token hash as revoked for the given duration.

		Parameters:
		  - context: context.Context
		  - tokenHash: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, tokenHash string, ttl time.Duration) error

	/*
		IsRevoked reports whether a refresh token hash has been revoked.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - bool: True if the token is on the denylist
		  - error: Retrieval failures
	*/
	IsRevoked(context context.Context, tokenHash string) (bool, error)
}
