// Copyright (c) 2026 Edubridge. All rights reserved.

package servicekeys

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edubridge/portal/internal/platform/apperr"
	"github.com/edubridge/portal/internal/platform/dberr"
)

// # Service Key Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new service caller into the portal.servicekey table.

Parameters:
  - context: context.Context
  - caller: *Caller (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate key hash, or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, caller *Caller) error {
	const query = `
		INSERT INTO portal.servicekey (
			id, name, category, keyhash, isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if caller.CreatedAt.IsZero() {
		caller.CreatedAt = now
	}
	caller.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		caller.ID,
		caller.Name,
		caller.Category,
		caller.KeyHash,
		caller.IsActive,
		caller.CreatedAt,
		caller.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Service key already exists")
		}
		return fmt.Errorf("postgres_service_key_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByKeyHash retrieves a service caller by its key hash.

Parameters:
  - context: context.Context
  - keyHash: string

Returns:
  - *Caller: Hydrated entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByKeyHash(context context.Context, keyHash string) (*Caller, error) {
	const query = `
		SELECT id, name, category, keyhash, isactive, createdat, updatedat
		FROM portal.servicekey
		WHERE keyhash = $1`

	caller := &Caller{}
	err := repository.pool.QueryRow(context, query, keyHash).Scan(
		&caller.ID,
		&caller.Name,
		&caller.Category,
		&caller.KeyHash,
		&caller.IsActive,
		&caller.CreatedAt,
		&caller.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Service key")
		}
		return nil, fmt.Errorf("postgres_service_key_repo_find_failed: %w", err)
	}

	return caller, nil
}
