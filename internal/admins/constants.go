// Copyright (c) 2026 Edubridge. All rights reserved.

package admins

import "time"

// # Session Constraints

const (
	// AccessTokenTTL is the duration an admin access token remains valid.
	// Kept short (15m) to minimize the impact of a leaked token.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is the duration an admin refresh token remains valid.
	// Long-lived (7 days) to keep staff sessions usable across a work week.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// TokenTypeAccess marks a locally issued access token.
	TokenTypeAccess = "access"

	// TokenTypeRefresh marks a locally issued refresh token.
	TokenTypeRefresh = "refresh"
)
