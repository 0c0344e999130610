// Copyright (c) 2026 Edubridge. All rights reserved.

package authn

import (
	"context"
	"log/slog"
	"time"

	"github.com/edubridge/portal/internal/platform/ctxutil"
)

// # Pipeline

// Pipeline runs the four-stage authentication sequence for one request.
//
// Stages are strictly ordered: decode, classify, expiry check, resolve.
// A later stage never runs after an earlier one fails.
type Pipeline struct {
	resolver *Resolver
	now      func() time.Time
}

// NewPipeline constructs a [Pipeline] around an identity resolver.
func NewPipeline(resolver *Resolver) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		now:      time.Now,
	}
}

/*
Authenticate runs the full pipeline against an Authorization header.

Description: The outcome is three-valued. A nil principal with a nil error
is a legal anonymous request: the header was absent, undecodable, or matched
no classification signature, and endpoints permitting anonymous access must
proceed. A non-nil error is terminal: the caller presented a recognizable
credential that is expired, unresolvable, or not authorized.

Parameters:
  - context: context.Context
  - header: string (raw Authorization header value, possibly empty)

Returns:
  - *Principal: Resolved principal, or nil for anonymous requests
  - error: Terminal authentication failures from errors.go
*/
func (pipeline *Pipeline) Authenticate(context context.Context, header string) (*Principal, error) {
	logger := ctxutil.GetLogger(context)

	// 1. Decode. Failures here are expected anonymous traffic, kept quiet.
	rawToken, claims, err := DecodeBearer(header)
	if err != nil {
		logger.Debug("authn_decode_failed", slog.String("reason", err.Error()))
		return nil, nil
	}

	// 2. Classify. An unknown shape may be a client/version mismatch, so it
	// is worth a warning, but it still degrades to anonymous.
	kind := Classify(claims)
	if kind == KindUnknown {
		logger.Warn("authn_unknown_token_shape")
		return nil, nil
	}

	// 3. Expiry. From here on failures are terminal.
	if IsExpired(kind, claims, pipeline.now()) {
		if kind == KindStudent {
			return nil, TokenExpired("Student token is expired or not yet valid")
		}
		return nil, TokenExpired("Admin token is expired")
	}

	// 4. Resolve or provision the local identity and attach the kind tag.
	principal, err := pipeline.resolver.Resolve(context, kind, claims, rawToken)
	if err != nil {
		return nil, err
	}

	return principal, nil
}
