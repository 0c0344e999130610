// Copyright (c) 2026 Edubridge. All rights reserved.

package authn

import "time"

// # Expiry Validation
//
// Expiry math differs per kind. Student tokens carry an explicit validity
// window (created_at inclusive, expired_at exclusive); admin tokens carry
// the standard absolute exp claim. In both cases a missing claim fails
// closed: no expiry information means expired.

/*
IsExpired reports whether a classified token has expired at the given time.

Description: Pure function, no I/O. The caller supplies now so boundary
behavior is testable.

Parameters:
  - kind: Kind (must be a classified kind, not KindUnknown)
  - claims: RawClaims
  - now: time.Time

Returns:
  - bool: True if the token must be rejected as expired
*/
func IsExpired(kind Kind, claims RawClaims, now time.Time) bool {
	switch kind {
	case KindStudent:
		return isStudentExpired(claims, now)
	case KindLocalAdmin, KindBankAdmin:
		return isAdminExpired(claims, now)
	default:
		// Unclassified tokens have no expiry semantics; fail closed
		return true
	}
}

// isStudentExpired checks the student validity window.
// Valid iff created_at <= now < expired_at, in epoch seconds.
func isStudentExpired(claims RawClaims, now time.Time) bool {
	createdAt, hasCreated := claims.Epoch(claimCreatedAt)
	expiredAt, hasExpired := claims.Epoch(claimExpiredAt)
	if !hasCreated || !hasExpired {
		return true
	}

	moment := now.Unix()
	return moment < createdAt || moment >= expiredAt
}

// isAdminExpired checks the standard absolute expiry claim.
// Expired iff now >= exp, in epoch seconds.
func isAdminExpired(claims RawClaims, now time.Time) bool {
	expiry, hasExpiry := claims.Epoch(claimExpiry)
	if !hasExpiry {
		return true
	}
	return now.Unix() >= expiry
}
