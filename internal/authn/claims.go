// Copyright (c) 2026 Edubridge. All rights reserved.

/*
Package authn implements the bearer-token authentication pipeline.

Three principal kinds share one Authorization header: students (tokens
issued by the external identity backend), local admins (tokens issued by
this service), and bank admins (tokens issued by the credential provider).
The SHAPE of the decoded claim set, not its issuer or signature, decides
which kind a token represents.

# Pipeline

Every request runs the same four sequential stages:

	decode -> classify -> expiry check -> identity resolution

Decode and classification failures degrade the request to anonymous so that
endpoints permitting unauthenticated access keep working. Failures after
classification are terminal: the caller presented a recognizable credential
that did not hold up, and the request is rejected.

# Signature Verification

Token payloads are decoded WITHOUT cryptographic verification. This mirrors
the trust model of the upstream identity backend, which fronts this service
and owns signature checks for student and bank-admin tokens. Deployments
exposing this API directly must terminate verification in front of it.
*/
package authn

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edubridge/portal/internal/platform/constants"
)

// # Raw Claims

// RawClaims is a decoded token payload before classification.
//
// Values come straight from JSON decoding: strings, float64 numbers, bools,
// and nested maps. The typed accessors below centralize the coercion rules
// so the classifier and resolver never touch the dynamic values directly.
type RawClaims map[string]any

// String returns the claim as a string, or "" when absent or not a string.
func (claims RawClaims) String(name string) string {
	value, _ := claims[name].(string)
	return value
}

// Has reports whether the claim is present with any value.
func (claims RawClaims) Has(name string) bool {
	_, ok := claims[name]
	return ok
}

// Nested returns the claim as a nested claim set, or nil when absent or flat.
func (claims RawClaims) Nested(name string) RawClaims {
	value, ok := claims[name].(map[string]any)
	if !ok {
		return nil
	}
	return RawClaims(value)
}

// Epoch returns the claim as epoch seconds.
//
// Numeric claims arrive as float64 from the JSON decoder; string-encoded
// integers are accepted because the external issuer has emitted both forms.
func (claims RawClaims) Epoch(name string) (int64, bool) {
	switch value := claims[name].(type) {
	case float64:
		return int64(value), true
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case int64:
		return value, true
	case string:
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// Int64 returns the claim as an integer identifier, with the same coercion
// rules as [RawClaims.Epoch].
func (claims RawClaims) Int64(name string) (int64, bool) {
	return claims.Epoch(name)
}

// Truthy reports whether the claim holds a value that counts as true:
// boolean true, a non-zero number, or the strings "true" / "True".
func (claims RawClaims) Truthy(name string) bool {
	switch value := claims[name].(type) {
	case bool:
		return value
	case float64:
		return value != 0
	case string:
		return strings.EqualFold(value, "true")
	default:
		return false
	}
}

// # Bearer Decoding

/*
DecodeBearer parses an Authorization header into a raw token and its claims.

Description: The header must carry the "Bearer " prefix; the token payload
is base64-decoded as a JWT without signature verification. Pure function of
the header string, no side effects.

Parameters:
  - header: string (the raw Authorization header value)

Returns:
  - string: The raw token, needed downstream for profile fetches
  - RawClaims: The decoded payload
  - error: ErrMissingHeader, ErrMalformedHeader, or ErrInvalidToken
*/
func DecodeBearer(header string) (string, RawClaims, error) {
	if header == "" {
		return "", nil, ErrMissingHeader
	}

	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return "", nil, ErrMalformedHeader
	}

	rawToken := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
	if rawToken == "" {
		return "", nil, ErrMalformedHeader
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return "", nil, ErrInvalidToken
	}

	return rawToken, RawClaims(claims), nil
}
