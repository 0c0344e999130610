// Copyright (c) 2026 Edubridge. All rights reserved.

// PostgreSQL implementation of the student identity store.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement the domain-defined [Repository] interface using the
// [pgxpool.Pool] connection manager against the portal.student table.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types in dberr to avoid leaking storage details.
package students

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

// # Student Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const studentColumns = `
	id, authuuid, firstname, lastname, email, mobile, dateofbirth, gender,
	nationality, isactive, isapproved, approvedby, approvedat, createdat, updatedat`

// scanStudent hydrates a Student entity from a single result row.
func scanStudent(row pgx.Row) (*Student, error) {
	student := &Student{}
	err := row.Scan(
		&student.ID,
		&student.AuthUUID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.Mobile,
		&student.DateOfBirth,
		&student.Gender,
		&student.Nationality,
		&student.IsActive,
		&student.IsApproved,
		&student.ApprovedBy,
		&student.ApprovedAt,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return student, nil
}

/*
Create persists a new student record into the portal.student table.

Description: Deep-persists the provisioned identity, ensuring timestamps are
initialized if not provided. A unique violation on authuuid is mapped to
apperr.Conflict so the resolver can fall back to re-fetching the winner of a
concurrent first-time provisioning race.

Parameters:
  - context: context.Context
  - student: *Student (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate authuuid, or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, student *Student) error {
	const query = `
		INSERT INTO portal.student (
			id, authuuid, firstname, lastname, email, mobile, dateofbirth, gender,
			nationality, isactive, isapproved, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	now := time.Now()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		student.ID,
		student.AuthUUID,
		student.FirstName,
		student.LastName,
		student.Email,
		student.Mobile,
		student.DateOfBirth,
		student.Gender,
		student.Nationality,
		student.IsActive,
		student.IsApproved,
		student.CreatedAt,
		student.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Student identity already exists for this auth UUID")
		}
		return fmt.Errorf("postgres_student_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByAuthUUID retrieves a student record by the externally issued auth UUID.

Description: Natural-key lookup used by the authentication pipeline on every
student request.

Parameters:
  - context: context.Context
  - authUUID: string

Returns:
  - *Student: Hydrated identity entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) FindByAuthUUID(context context.Context, authUUID string) (*Student, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.student
		WHERE authuuid = $1`, studentColumns)

	student, err := scanStudent(repository.pool.QueryRow(context, query, authUUID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Student with this auth UUID")
		}
		return nil, fmt.Errorf("postgres_student_repo_find_by_auth_uuid_failed: %w", err)
	}

	return student, nil
}

/*
FindByID retrieves a student record by its primary key.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Student: Hydrated identity entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Student, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.student
		WHERE id = $1`, studentColumns)

	student, err := scanStudent(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Student")
		}
		return nil, fmt.Errorf("postgres_student_repo_find_by_id_failed: %w", err)
	}

	return student, nil
}

/*
List returns a page of student records ordered by creation time, newest first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Student: Page of entities
  - int: Total row count for pagination metadata
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, params pagination.Params) ([]*Student, int, error) {

	// Resolve the total count first for pagination metadata
	var total int
	if err := repository.pool.QueryRow(context, "SELECT COUNT(*) FROM portal.student").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_student_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM portal.student
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`, studentColumns)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_student_repo_list_failed: %w", err)
	}
	defer rows.Close()

	listing := make([]*Student, 0, params.Limit)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_student_repo_scan_failed: %w", err)
		}
		listing = append(listing, student)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_student_repo_rows_failed: %w", err)
	}

	return listing, total, nil
}

/*
SetApproval updates a student's approval state and audit fields.

Description: Records which administrator changed the flag and when.

Parameters:
  - context: context.Context
  - id: string
  - approved: bool
  - approvedBy: string

Returns:
  - error: apperr.NotFound if the student does not exist, or execution errors
*/
func (repository *PostgresRepository) SetApproval(context context.Context, id string, approved bool, approvedBy string) error {
	const query = `
		UPDATE portal.student
		SET isapproved = $2, approvedby = $3, approvedat = $4, updatedat = $4
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, approved, approvedBy, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_student_repo_set_approval_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Student")
	}

	return nil
}
