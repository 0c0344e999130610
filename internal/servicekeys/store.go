// Copyright (c) 2026 Edubridge. All rights reserved.

package servicekeys

import "context"

// # Service Key Data Access

// Repository defines the data access contract for service API keys.
type Repository interface {

	/*
		FindByKeyHash returns the caller registered under a key hash.

		Parameters:
		  - context: context.Context
		  - keyHash: string

		Returns:
		  - *Caller: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByKeyHash(context context.Context, keyHash string) (*Caller, error)

	/*
		Create persists a brand-new service caller and its key hash.

		Parameters:
		  - context: context.Context
		  - caller: *Caller

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, caller *Caller) error
}
