// Copyright (c) 2026 Edubridge. All rights reserved.

package bankadmins

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edubridge/portal/internal/platform/apperr"
	"github.com/edubridge/portal/internal/platform/dberr"
	"github.com/edubridge/portal/pkg/pagination"
)

// # Bank Admin Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const bankAdminColumns = `
	id, userid, email, firstname, lastname, bankname, isactive, isapproved,
	isemailverified, approvedby, approvedat, createdat, updatedat`

// scanBankAdmin hydrates a BankAdmin entity from a single result row.
func scanBankAdmin(row pgx.Row) (*BankAdmin, error) {
	admin := &BankAdmin{}
	err := row.Scan(
		&admin.ID,
		&admin.UserID,
		&admin.Email,
		&admin.FirstName,
		&admin.LastName,
		&admin.BankName,
		&admin.IsActive,
		&admin.IsApproved,
		&admin.IsEmailVerified,
		&admin.ApprovedBy,
		&admin.ApprovedAt,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return admin, nil
}

/*
Create persists a new bank admin record into the portal.bankadmin table.

Description: A unique violation on the (userid, email) natural key is mapped
to apperr.Conflict so sign-up can degrade to get-or-create.

Parameters:
  - context: context.Context
  - admin: *BankAdmin (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate natural key, or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, admin *BankAdmin) error {
	const query = `
		INSERT INTO portal.bankadmin (
			id, userid, email, firstname, lastname, bankname, isactive, isapproved,
			isemailverified, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		admin.ID,
		admin.UserID,
		admin.Email,
		admin.FirstName,
		admin.LastName,
		admin.BankName,
		admin.IsActive,
		admin.IsApproved,
		admin.IsEmailVerified,
		admin.CreatedAt,
		admin.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Bank admin account already exists")
		}
		return fmt.Errorf("postgres_bank_admin_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByUserIDAndEmail retrieves a bank admin by the compound natural key.

Description: Both claim-supplied values must match the same row; a token
carrying a valid subject with a mismatched email resolves to nothing.

Parameters:
  - context: context.Context
  - userID: string
  - email: string

Returns:
  - *BankAdmin: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByUserIDAndEmail(context context.Context, userID, email string) (*BankAdmin, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.bankadmin
		WHERE userid = $1 AND email = $2`, bankAdminColumns)

	admin, err := scanBankAdmin(repository.pool.QueryRow(context, query, userID, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Bank admin with this subject and email")
		}
		return nil, fmt.Errorf("postgres_bank_admin_repo_find_by_user_id_and_email_failed: %w", err)
	}

	return admin, nil
}

/*
FindByEmail retrieves a bank admin record by its unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *BankAdmin: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*BankAdmin, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.bankadmin
		WHERE email = $1`, bankAdminColumns)

	admin, err := scanBankAdmin(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Bank admin with this email")
		}
		return nil, fmt.Errorf("postgres_bank_admin_repo_find_by_email_failed: %w", err)
	}

	return admin, nil
}

/*
FindByID retrieves a bank admin record by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *BankAdmin: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*BankAdmin, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.bankadmin
		WHERE id = $1`, bankAdminColumns)

	admin, err := scanBankAdmin(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Bank admin")
		}
		return nil, fmt.Errorf("postgres_bank_admin_repo_find_by_id_failed: %w", err)
	}

	return admin, nil
}

/*
List returns a page of bank admin records ordered by creation time, newest first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*BankAdmin: Page of entities
  - int: Total row count for pagination metadata
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]*BankAdmin, int, error) {

	// Resolve the total count first for pagination metadata
	var total int
	if err := repository.pool.QueryRow(context, "SELECT COUNT(*) FROM portal.bankadmin").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_bank_admin_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.bankadmin
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`, bankAdminColumns)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_bank_admin_repo_list_failed: %w", err)
	}
	defer rows.Close()

	listing := make([]*BankAdmin, 0, params.Limit)
	for rows.Next() {
		admin, err := scanBankAdmin(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_bank_admin_repo_scan_failed: %w", err)
		}
		listing = append(listing, admin)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_bank_admin_repo_rows_failed: %w", err)
	}

	return listing, total, nil
}

/*
SetApproval updates a bank admin's approval state and audit fields.

Description: Records which administrator changed the flag and when.

Parameters:
  - context: context.Context
  - id: string
  - approved: bool
  - approvedBy: string

Returns:
  - error: apperr.NotFound if the account does not exist, or execution errors
*/
func (repository *PostgresRepository) SetApproval(context context.Context, id string, approved bool, approvedBy string) error {
	const query = `
		UPDATE portal.bankadmin
		SET isapproved = $2, approvedby = $3, approvedat = $4, updatedat = $4
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, approved, approvedBy, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_bank_admin_repo_set_approval_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Bank admin")
	}

	return nil
}

/*
MarkEmailVerified updates the account's status to isemailverified = true.

Description: Post-confirmation cleanup after the provider reports a
confirmed email on sign-in.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Database errors
*/
func (repository *PostgresRepository) MarkEmailVerified(context context.Context, id string) error {
	const query = "UPDATE portal.bankadmin SET isemailverified = TRUE, updatedat = $2 WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_bank_admin_repo_mark_email_verified_failed: %w", err)
	}
	return nil
}
