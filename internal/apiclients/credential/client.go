// Copyright (c) 2026 Edubridge. All rights reserved.

/*
Package credential adapts the external session/credential provider used for
bank administrator accounts.

The provider owns credentials and session lifecycles; this service never
sees or stores bank-admin passwords beyond passing them through. Sessions
issued here carry the nested claim structure the token classifier
recognizes as bank-admin credentials.

# Failure Policy

Unlike the profile adapter, provider errors ARE surfaced to the caller,
mapped to client-safe [apperr.AppError] values. Sign-in and sign-up are
interactive flows where the user needs a reason, not a silent nil.
*/
package credential

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/edubridge/portal/internal/platform/apperr"
	"github.com/edubridge/portal/internal/platform/ctxutil"
)

// # Session Types

// AccountInfo is the provider's view of the account behind a session.
type AccountInfo struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

// Session is an established provider session.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	Account      AccountInfo `json:"user"`
}

// wireSession mirrors the provider's token response body.
type wireSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID               string     `json:"id"`
		Email            string     `json:"email"`
		EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
		ConfirmedAt      *time.Time `json:"confirmed_at"`
	} `json:"user"`
}

// wireError mirrors the provider's error body.
type wireError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"msg"`
}

// # Client

// Client calls the external credential provider's REST API.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient constructs a credential provider client.
func NewClient(baseURL, serviceKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// post executes an authenticated JSON POST against a provider endpoint.
//
// Provider 4xx bodies are translated to client-safe AppErrors; transport
// failures and 5xx statuses surface as ServiceUnavailable.
func (client *Client) post(context context.Context, path string, payload any) (*wireSession, error) {
	logger := ctxutil.GetLogger(context)

	// 1. Encode the request payload
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("credential_client_encode_failed: %w", err)
	}

	// 2. Build the authenticated request
	request, err := http.NewRequestWithContext(context, http.MethodPost, client.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("credential_client_request_build_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("apikey", client.serviceKey)
	request.Header.Set("Authorization", "Bearer "+client.serviceKey)

	// 3. Execute
	response, err := client.httpClient.Do(request)
	if err != nil {
		logger.Error("credential_client_request_failed",
			slog.String("path", path), slog.String("error", err.Error()))
		return nil, apperr.ServiceUnavailable("Credential provider is unreachable")
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, apperr.ServiceUnavailable("Credential provider response could not be read")
	}

	// 4. Translate provider failures without leaking raw upstream text to clients
	if response.StatusCode >= 500 {
		logger.Error("credential_client_provider_failure",
			slog.String("path", path), slog.Int("status", response.StatusCode))
		return nil, apperr.ServiceUnavailable("Credential provider failed")
	}
	if response.StatusCode >= 400 {
		var failure wireError
		_ = json.Unmarshal(raw, &failure)
		logger.Warn("credential_client_rejected",
			slog.String("path", path),
			slog.Int("status", response.StatusCode),
			slog.String("provider_error", failure.Error))
		return nil, mapProviderError(response.StatusCode, &failure)
	}

	// 5. Decode the established session
	var session wireSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, apperr.ServiceUnavailable("Credential provider returned a malformed session")
	}

	return &session, nil
}

// mapProviderError converts a provider 4xx body into a client-safe AppError.
func mapProviderError(status int, failure *wireError) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.Unauthorized("Invalid credentials")
	case http.StatusUnprocessableEntity:
		if strings.Contains(strings.ToLower(failure.Message), "already registered") ||
			strings.Contains(strings.ToLower(failure.ErrorDescription), "already registered") {
			return apperr.Conflict("Email is already registered")
		}
		return apperr.Unprocessable("Credential provider rejected the request")
	case http.StatusTooManyRequests:
		return apperr.RateLimited(60)
	default:
		return apperr.Unauthorized("Credential provider rejected the request")
	}
}

// toSession converts a wire session into the exported Session type.
func toSession(wire *wireSession) *Session {
	confirmed := wire.User.EmailConfirmedAt != nil || wire.User.ConfirmedAt != nil
	return &Session{
		AccessToken:  wire.AccessToken,
		RefreshToken: wire.RefreshToken,
		TokenType:    wire.TokenType,
		ExpiresIn:    wire.ExpiresIn,
		Account: AccountInfo{
			ID:             wire.User.ID,
			Email:          wire.User.Email,
			EmailConfirmed: confirmed,
		},
	}
}

/*
SignUp registers a new account with the credential provider.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *Session: Established session (may be unconfirmed pending email verification)
  - error: apperr.Conflict, apperr.ServiceUnavailable, or validation failures
*/
func (client *Client) SignUp(context context.Context, email, password string) (*Session, error) {
	wire, err := client.post(context, "/signup", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	return toSession(wire), nil
}

/*
SignIn authenticates an existing account with email and password.

Parameters:
  - context: context.Context
  - email: string
  - password: string

Returns:
  - *Session: Established session
  - error: apperr.Unauthorized or provider failures
*/
func (client *Client) SignIn(context context.Context, email, password string) (*Session, error) {
	wire, err := client.post(context, "/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	return toSession(wire), nil
}

/*
Refresh exchanges a refresh token for a new session.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Session: Rotated session
  - error: apperr.Unauthorized or provider failures
*/
func (client *Client) Refresh(context context.Context, refreshToken string) (*Session, error) {
	wire, err := client.post(context, "/token?grant_type=refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
	if err != nil {
		return nil, err
	}
	return toSession(wire), nil
}

/*
Revoke terminates the session behind an access token.

Description: The provider treats logout as idempotent; a 401 from an already
dead session is swallowed.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - error: Provider connectivity failures only
*/
func (client *Client) Revoke(context context.Context, accessToken string) error {
	logger := ctxutil.GetLogger(context)

	request, err := http.NewRequestWithContext(context, http.MethodPost, client.baseURL+"/logout", nil)
	if err != nil {
		return fmt.Errorf("credential_client_request_build_failed: %w", err)
	}
	request.Header.Set("apikey", client.serviceKey)
	request.Header.Set("Authorization", "Bearer "+accessToken)

	response, err := client.httpClient.Do(request)
	if err != nil {
		logger.Error("credential_client_revoke_failed", slog.String("error", err.Error()))
		return apperr.ServiceUnavailable("Credential provider is unreachable")
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	// Idempotent: already-invalid sessions count as logged out
	return nil
}
