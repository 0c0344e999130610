// Copyright (c) 2026 Edubridge. All rights reserved.

package middleware

import (
	"context"
	"net/http"

	"github.com/edubridge/portal/internal/authn"
	"github.com/edubridge/portal/internal/platform/apperr"
	"github.com/edubridge/portal/internal/platform/constants"
	"github.com/edubridge/portal/internal/platform/respond"
	"github.com/edubridge/portal/internal/servicekeys"
)

// Authenticator defines the interface needed to run the token pipeline.
//
// # Why an interface?
//
// Defining Authenticator here decouples the middleware from the authn
// pipeline implementation, allowing us to easily inject fakes during unit
// testing.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*authn.Principal, error)
}

// ServiceKeyResolver defines the interface for the x-api-key gate.
type ServiceKeyResolver interface {
	Resolve(ctx context.Context, rawKey string) (*servicekeys.Caller, error)
}

// Authenticate runs the token classification pipeline on every request.
//
// # Flow
//  1. Read the 'Authorization' header and run decode/classify/expiry/resolve.
//  2. A nil principal with no error means anonymous; the request proceeds.
//  3. A pipeline error (expired, unresolvable, inactive) aborts the request.
//  4. Inject the resolved [*authn.Principal] into the context for downstream use.
//
// # Parameters
//   - authenticator: The pipeline instance.
//
// # Returns
//   - An [http.Handler] middleware.
func Authenticate(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Run the pipeline ───────────────────────────────────────────
			header := request.Header.Get(constants.HeaderAuthorization)
			principal, err := authenticator.Authenticate(request.Context(), header)

			// ── 2. Terminal failures abort the request ────────────────────────
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Anonymous requests proceed untagged ────────────────────────
			if principal == nil {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := authn.WithContext(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// ServiceKeyGate resolves the x-api-key header into a service caller.
//
// # Flow
//  1. No header: the request proceeds as a non-service caller.
//  2. A present but unknown key, or a key from a disallowed category,
//     aborts the request.
//  3. Inject the resolved [*servicekeys.Caller] into the context.
//
// The gate runs alongside [Authenticate], not instead of it; a request may
// carry both a service key and a bearer token.
func ServiceKeyGate(resolver ServiceKeyResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			rawKey := request.Header.Get(constants.ServiceKeyHeader)
			if rawKey == "" {
				next.ServeHTTP(writer, request)
				return
			}

			caller, err := resolver.Resolve(request.Context(), rawKey)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := servicekeys.WithContext(request.Context(), caller)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequirePrincipal blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if authn.FromContext(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// Require blocks requests that fail a permission predicate.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate] (and
// [ServiceKeyGate] when the predicate involves service callers). Compose
// predicates with [authn.AnyOf] for OR semantics.
//
// # Flow
//  1. Evaluate the predicate against the request context.
//  2. Unauthenticated requests abort with HTTP 401.
//  3. Authenticated requests failing the predicate abort with HTTP 403.
func Require(predicate authn.Predicate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			if predicate(ctx) {
				next.ServeHTTP(writer, request)
				return
			}

			// ── Distinguish 401 from 403 ──────────────────────────────────────
			if authn.FromContext(ctx) == nil && servicekeys.FromContext(ctx) == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
		})
	}
}
