// Copyright (c) 2026 Edubridge. All rights reserved.

package admins

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

// # Admin Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const adminColumns = `
	id, username, email, passwordhash, admintype, isstaff, isactive, createdat, updatedat`

// scanAdmin hydrates an Admin entity from a single result row.
func scanAdmin(row pgx.Row) (*Admin, error) {
	admin := &Admin{}
	err := row.Scan(
		&admin.ID,
		&admin.Username,
		&admin.Email,
		&admin.PasswordHash,
		&admin.AdminType,
		&admin.IsStaff,
		&admin.IsActive,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

/*
Create persists a new admin record into the portal.admin table.

Description: The table owns ID generation via an identity column; the
generated value is scanned back onto the entity.

Parameters:
  - context: context.Context
  - admin: *Admin (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate username/email, or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, admin *Admin) error {
	const query = `
		INSERT INTO portal.admin (
			username, email, passwordhash, admintype, isstaff, isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	now := time.Now()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now

	err := repository.pool.QueryRow(context, query,
		admin.Username,
		admin.Email,
		admin.PasswordHash,
		admin.AdminType,
		admin.IsStaff,
		admin.IsActive,
		admin.CreatedAt,
		admin.UpdatedAt,
	).Scan(&admin.ID)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Username or email is already registered")
		}
		return fmt.Errorf("postgres_admin_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves an admin record by its numeric primary key.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *Admin: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Admin, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.admin
		WHERE id = $1`, adminColumns)

	admin, err := scanAdmin(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Admin")
		}
		return nil, fmt.Errorf("postgres_admin_repo_find_by_id_failed: %w", err)
	}

	return admin, nil
}

/*
FindByIDAndUsername retrieves an admin record by the compound natural key.

Description: Both claim-supplied values must match the same row; a token
carrying a valid ID with a stale or forged username resolves to nothing.

Parameters:
  - context: context.Context
  - id: int64
  - username: string

Returns:
  - *Admin: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByIDAndUsername(context context.Context, id int64, username string) (*Admin, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.admin
		WHERE id = $1 AND username = $2`, adminColumns)

	admin, err := scanAdmin(repository.pool.QueryRow(context, query, id, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Admin with this id and username")
		}
		return nil, fmt.Errorf("postgres_admin_repo_find_by_id_and_username_failed: %w", err)
	}

	return admin, nil
}

/*
FindByUsername retrieves an admin record by its unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *Admin: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByUsername(context context.Context, username string) (*Admin, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.admin
		WHERE username = $1`, adminColumns)

	admin, err := scanAdmin(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Admin with this username")
		}
		return nil, fmt.Errorf("postgres_admin_repo_find_by_username_failed: %w", err)
	}

	return admin, nil
}

/*
FindByEmail retrieves an admin record by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Admin: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*Admin, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.admin
		WHERE email = $1`, adminColumns)

	admin, err := scanAdmin(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Admin with this email")
		}
		return nil, fmt.Errorf("postgres_admin_repo_find_by_email_failed: %w", err)
	}

	return admin, nil
}
