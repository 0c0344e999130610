// Copyright (c) 2026 Edubridge. All rights reserved.

package authn

import (
	"errors"
	"net/http"

	"github.com/edubridge/portal/internal/platform/apperr"
)

// # Decode Failures
//
// Decode failures are expected traffic from anonymous or misconfigured
// clients. They never surface as API errors; the pipeline degrades the
// request to anonymous instead.

var (
	// ErrMissingHeader marks a request with no Authorization header at all.
	ErrMissingHeader = errors.New("authn: missing authorization header")

	// ErrMalformedHeader marks a header without the expected Bearer prefix.
	ErrMalformedHeader = errors.New("authn: malformed authorization header")

	// ErrInvalidToken marks a bearer value that is not a decodable token.
	ErrInvalidToken = errors.New("authn: invalid bearer token")
)

// # Authentication Failures
//
// Everything past classification is terminal. These constructors produce
// the stable code/message tuples the API returns; internal detail (storage
// errors, upstream response text) never reaches the client.

// CodeTokenExpired and friends are the machine-readable authentication
// failure codes.
const (
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeInvalidTokenPayload = "INVALID_TOKEN_PAYLOAD"
	CodeIdentityNotFound    = "IDENTITY_NOT_FOUND"
	CodeNotAuthorized       = "NOT_AUTHORIZED"
	CodeAccountInactive     = "ACCOUNT_INACTIVE"
	CodeProfileFetchFailed  = "PROFILE_FETCH_FAILED"
	CodeProfileExtract      = "PROFILE_EXTRACT_FAILED"
)

// TokenExpired reports that a classified token failed its expiry check.
func TokenExpired(message string) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeTokenExpired,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidTokenPayload reports a classified token missing its natural key.
func InvalidTokenPayload(message string) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeInvalidTokenPayload,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// IdentityNotFound reports that no local identity matches the token's
// natural key.
func IdentityNotFound(message string) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeIdentityNotFound,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NotAuthorized reports a resolved identity lacking the required privilege.
func NotAuthorized(message string) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeNotAuthorized,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// AccountInactive reports a resolved identity that has been deactivated.
func AccountInactive(message string) *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeAccountInactive,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// ProfileFetchFailed reports that first-time student provisioning could not
// obtain a profile from the upstream identity service.
func ProfileFetchFailed() *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeProfileFetchFailed,
		Message:    "Could not retrieve the user profile",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ProfileExtractFailed reports a profile response missing required fields.
func ProfileExtractFailed() *apperr.AppError {
	return &apperr.AppError{
		Code:       CodeProfileExtract,
		Message:    "User profile is missing required fields",
		HTTPStatus: http.StatusUnauthorized,
	}
}
