// Copyright (c) 2026 Edubridge. All rights reserved.

package authn

// # Classification Signatures
//
// Each principal kind is identified by the simultaneous presence of an
// exact set of claim names. The three signatures are mutually exclusive
// for every legal token; the fixed evaluation order below is the tie-break
// if a malformed token ever satisfies more than one.

// Claim names making up the three classification signatures.
const (
	// Bank admin: a nested metadata object carrying the provider identity.
	claimUserMetadata  = "user_metadata"
	claimEmail         = "email"
	claimEmailVerified = "email_verified"
	claimSubject       = "sub"

	// Local admin: the flat claim set this service signs itself.
	claimTokenType = "token_type"
	claimUsername  = "username"
	claimUserID    = "user_id"

	// Student: the flat claim set of the external identity backend.
	claimUUID      = "uuid"
	claimCreatedAt = "created_at"
	claimExpiredAt = "expired_at"

	// Shared standard expiry claim for admin kinds.
	claimExpiry = "exp"
)

/*
Classify maps a decoded claim set to its principal kind.

Description: Deterministic shape matching in fixed priority order:
bank admin, then local admin, then student. A claim set matching none of
the signatures classifies as KindUnknown, which the pipeline treats as
"no authentication attempted" rather than an error.

Parameters:
  - claims: RawClaims

Returns:
  - Kind: The matched principal kind, or KindUnknown
*/
func Classify(claims RawClaims) Kind {
	switch {
	case isBankAdminShape(claims):
		return KindBankAdmin
	case isLocalAdminShape(claims):
		return KindLocalAdmin
	case isStudentShape(claims):
		return KindStudent
	default:
		return KindUnknown
	}
}

// isBankAdminShape matches tokens whose user_metadata object carries a
// non-empty email, a truthy email_verified flag, and a non-empty subject.
func isBankAdminShape(claims RawClaims) bool {
	metadata := claims.Nested(claimUserMetadata)
	if metadata == nil {
		return false
	}
	return metadata.String(claimEmail) != "" &&
		metadata.Truthy(claimEmailVerified) &&
		metadata.String(claimSubject) != ""
}

// isLocalAdminShape matches the flat claim set issued by this service.
// Presence of all four names is the signature; values are checked later.
func isLocalAdminShape(claims RawClaims) bool {
	return claims.Has(claimTokenType) &&
		claims.Has(claimUsername) &&
		claims.Has(claimEmail) &&
		claims.Has(claimUserID)
}

// isStudentShape matches the flat claim set of the external identity backend.
func isStudentShape(claims RawClaims) bool {
	return claims.Has(claimUUID) &&
		claims.Has(claimCreatedAt) &&
		claims.Has(claimExpiredAt)
}
