// Copyright (c) 2026 Edubridge. All rights reserved.

/*
Package profile adapts the external identity-profile service.

The adapter wraps a single endpoint: given a student's raw bearer token it
returns the profile record held by the upstream identity service, used only
to provision a local student identity on first sight.

# Failure Policy

The adapter never returns an error to its caller. Every failure mode, from
connection errors and timeouts to non-2xx statuses and malformed bodies,
collapses to a nil record. The authentication pipeline converts nil into a
clean authentication failure; deciding how loudly to log happens here since
only the adapter can tell an expected 401 from an upstream outage.
*/
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/edubridge/portal/internal/platform/ctxutil"
)

// # Normalized Record

// Record is the canonical field set extracted from the upstream response.
//
// The upstream payload nests personal fields under a "profile" sub-object
// and names the stable identifier "uid"; Record flattens and remaps both.
type Record struct {
	ID          int64
	UUID        string
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Mobile      string
	IsVerified  bool
	DateOfBirth string
	Gender      string
	Nationality string
}

// # Wire Shapes

// wireProfile mirrors the nested "profile" sub-object of the upstream body.
type wireProfile struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dob"`
	Gender      string `json:"gender"`
	Nationality string `json:"nationality"`
}

// wireResponse mirrors the upstream response body.
//
// The stable identifier arrives as "uid", not "uuid". The remap to
// Record.UUID must stay explicit; missing it silently breaks provisioning.
type wireResponse struct {
	ID         int64       `json:"id"`
	UID        string      `json:"uid"`
	Username   string      `json:"username"`
	Email      string      `json:"email"`
	FirstName  string      `json:"first_name"`
	LastName   string      `json:"last_name"`
	Mobile     string      `json:"mobile"`
	IsVerified bool        `json:"is_verified"`
	Profile    wireProfile `json:"profile"`
}

// # Client

// Client calls the external profile service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a profile service client.
//
// timeout bounds the whole fetch including connection setup; the upstream
// contract allows responses up to 30 seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

/*
Fetch retrieves the profile record for the holder of a raw bearer token.

Description: Sends a single, non-retried GET to <base>/user-profile/ with
the raw token in a "Token" authorization scheme plus the service API key.
A 200 yields a normalized Record; 401 and 404 are expected traffic and yield
nil quietly; every other outcome yields nil and an error-level log line.

Parameters:
  - context: context.Context
  - rawToken: string (the student's bearer token, passed through verbatim)

Returns:
  - *Record: Normalized profile, or nil on any failure
*/
func (client *Client) Fetch(context context.Context, rawToken string) *Record {
	logger := ctxutil.GetLogger(context)

	// 1. Build the authenticated request
	request, err := http.NewRequestWithContext(context, http.MethodGet, client.baseURL+"/user-profile/", nil)
	if err != nil {
		logger.Error("profile_client_request_build_failed", slog.String("error", err.Error()))
		return nil
	}
	request.Header.Set("Authorization", "Token "+rawToken)
	request.Header.Set("APIKEY", client.apiKey)

	// 2. Execute with the configured timeout, single attempt, no retry
	response, err := client.httpClient.Do(request)
	if err != nil {
		logger.Error("profile_client_request_failed", slog.String("error", err.Error()))
		return nil
	}
	defer response.Body.Close()

	// 3. Map status codes to outcomes
	switch response.StatusCode {
	case http.StatusOK:
		// Fall through to body decoding
	case http.StatusUnauthorized, http.StatusNotFound:
		// Expected traffic: unknown or unauthorized tokens
		logger.Warn("profile_client_profile_unavailable", slog.Int("status", response.StatusCode))
		return nil
	default:
		logger.Error("profile_client_unexpected_status", slog.Int("status", response.StatusCode))
		return nil
	}

	// 4. Decode and normalize the body
	var body wireResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		logger.Error("profile_client_malformed_body", slog.String("error", err.Error()))
		return nil
	}

	return normalize(&body)
}

// # Normalization

/*
normalize converts the upstream wire shape into the canonical Record.

Description: Remaps "uid" to UUID, lifts the nested profile fields, and
applies the name fallback chain: explicit first/last name, then the first
space split of the composite profile name, then "User" / "User{id}".

Parameters:
  - body: *wireResponse

Returns:
  - *Record: Canonical field set, never nil
*/
func normalize(body *wireResponse) *Record {
	record := &Record{
		ID:          body.ID,
		UUID:        body.UID,
		Username:    body.Username,
		Email:       body.Email,
		FirstName:   body.FirstName,
		LastName:    body.LastName,
		Mobile:      body.Mobile,
		IsVerified:  body.IsVerified,
		DateOfBirth: body.Profile.DateOfBirth,
		Gender:      body.Profile.Gender,
		Nationality: body.Profile.Nationality,
	}

	// Composite-name fallback: only when both explicit parts are empty
	if record.FirstName == "" && record.LastName == "" && body.Profile.Name != "" {
		first, last, found := strings.Cut(body.Profile.Name, " ")
		record.FirstName = first
		if found {
			record.LastName = last
		}
	}

	// Final fallback keyed by the upstream numeric ID
	if record.FirstName == "" {
		record.FirstName = "User"
	}
	if record.LastName == "" {
		record.LastName = fmt.Sprintf("User%d", body.ID)
	}

	return record
}
