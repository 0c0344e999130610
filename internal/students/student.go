// Copyright (c) 2026 Edubridge. All rights reserved.

/*
Package students implements the student identity domain.

It defines the StudentIdentity entity and its persistence contract. Students
are never registered through this service directly: a record is provisioned
just-in-time the first time a previously unseen auth UUID presents a valid
token, populated from the external profile service.

# Architecture

This layer is the "Truth" of the student side of the system. The entity has
no external dependencies; the authentication pipeline and the admin-facing
listing endpoints both operate on the types defined here.
*/
package students

import "time"

// # Domain Entities

// Student represents a provisioned student identity on the Edubridge platform.
//
// AuthUUID is the natural key: the stable identifier issued by the external
// token service. A student row is created at most once per AuthUUID.
type Student struct {
	ID          string     `json:"id"`
	AuthUUID    string     `json:"auth_uuid"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Mobile      *string    `json:"mobile,omitempty"`
	DateOfBirth *string    `json:"date_of_birth,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	Nationality *string    `json:"nationality,omitempty"`
	IsActive    bool       `json:"is_active"`
	IsApproved  bool       `json:"is_approved"`
	ApprovedBy  *string    `json:"approved_by,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FullName returns the display name composed from first and last name.
func (student *Student) FullName() string {
	if student.FirstName == "" {
		return student.LastName
	}
	if student.LastName == "" {
		return student.FirstName
	}
	return student.FirstName + " " + student.LastName
}

// # Field Identifiers

// Global field names for validation and identity mapping in the student domain.
const (
	FieldAuthUUID   = "auth_uuid"
	FieldFirstName  = "first_name"
	FieldLastName   = "last_name"
	FieldEmail      = "email"
	FieldIsApproved = "is_approved"
)
