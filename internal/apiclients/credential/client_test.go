// Copyright (c) 2026 Edubridge. All rights reserved.

package credential_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/portal/internal/apiclients/credential"
	"github.com/edubridge/portal/internal/platform/apperr"
)

/*
TestClient_SignIn_Success tests the happy path: request shape, the service-key
headers, and the lifting of the nested user object into AccountInfo.
*/
func TestClient_SignIn_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/token", request.URL.Path)
		assert.Equal(t, "password", request.URL.Query().Get("grant_type"))
		assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
		assert.Equal(t, "portal-service-key", request.Header.Get("apikey"))
		assert.Equal(t, "Bearer portal-service-key", request.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body["email"])
		assert.Equal(t, "s3cret", body["password"])

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"access_token": "at-123",
			"refresh_token": "rt-456",
			"token_type": "bearer",
			"expires_in": 3600,
			"user": {"id": "u-1", "email": "ana@example.com", "email_confirmed_at": "2026-01-02T15:04:05Z"}
		}`))
	}))
	defer server.Close()

	client := credential.NewClient(server.URL, "portal-service-key", 5*time.Second)
	session, err := client.SignIn(context.Background(), "ana@example.com", "s3cret")

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "at-123", session.AccessToken)
	assert.Equal(t, "rt-456", session.RefreshToken)
	assert.Equal(t, "bearer", session.TokenType)
	assert.Equal(t, int64(3600), session.ExpiresIn)
	assert.Equal(t, "u-1", session.Account.ID)
	assert.Equal(t, "ana@example.com", session.Account.Email)
	assert.True(t, session.Account.EmailConfirmed)
}

/*
TestClient_SignUp_Unconfirmed tests that a fresh registration with neither
confirmation timestamp yields an unconfirmed account.
*/
func TestClient_SignUp_Unconfirmed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/signup", request.URL.Path)
		_, _ = writer.Write([]byte(`{
			"access_token": "at-new",
			"refresh_token": "rt-new",
			"user": {"id": "u-2", "email": "new@example.com"}
		}`))
	}))
	defer server.Close()

	client := credential.NewClient(server.URL, "key", 5*time.Second)
	session, err := client.SignUp(context.Background(), "new@example.com", "s3cret")

	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "u-2", session.Account.ID)
	assert.False(t, session.Account.EmailConfirmed)
}

/*
TestClient_Refresh_SendsRefreshToken tests the refresh grant's path and body.
*/
func TestClient_Refresh_SendsRefreshToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/token", request.URL.Path)
		assert.Equal(t, "refresh_token", request.URL.Query().Get("grant_type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		assert.Equal(t, "rt-456", body["refresh_token"])

		_, _ = writer.Write([]byte(`{"access_token": "at-rotated", "user": {"id": "u-1", "confirmed_at": "2026-01-02T15:04:05Z"}}`))
	}))
	defer server.Close()

	client := credential.NewClient(server.URL, "key", 5*time.Second)
	session, err := client.Refresh(context.Background(), "rt-456")

	require.NoError(t, err)
	assert.Equal(t, "at-rotated", session.AccessToken)
	assert.True(t, session.Account.EmailConfirmed)
}

/*
TestClient_ProviderErrors tests the translation of provider failure statuses
into client-safe error codes, including the duplicate-registration body match.
*/
func TestClient_ProviderErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
	}{
		{
			name:     "unauthorized_invalid_credentials",
			status:   http.StatusUnauthorized,
			body:     `{"error": "invalid_grant", "error_description": "Invalid login credentials"}`,
			wantCode: "UNAUTHORIZED",
		},
		{
			name:     "forbidden_maps_to_unauthorized",
			status:   http.StatusForbidden,
			body:     `{"error": "forbidden"}`,
			wantCode: "UNAUTHORIZED",
		},
		{
			name:     "already_registered_msg_field",
			status:   http.StatusUnprocessableEntity,
			body:     `{"msg": "A user with this email address has already registered"}`,
			wantCode: "CONFLICT",
		},
		{
			name:     "already_registered_description_field",
			status:   http.StatusUnprocessableEntity,
			body:     `{"error_description": "Email already registered"}`,
			wantCode: "CONFLICT",
		},
		{
			name:     "other_validation_failure",
			status:   http.StatusUnprocessableEntity,
			body:     `{"msg": "Password should be at least 6 characters"}`,
			wantCode: "UNPROCESSABLE",
		},
		{
			name:     "rate_limited",
			status:   http.StatusTooManyRequests,
			body:     `{"msg": "Rate limit exceeded"}`,
			wantCode: "RATE_LIMITED",
		},
		{
			name:     "other_4xx_defaults_to_unauthorized",
			status:   http.StatusBadRequest,
			body:     `{"error": "bad_request"}`,
			wantCode: "UNAUTHORIZED",
		},
		{
			name:     "upstream_5xx",
			status:   http.StatusBadGateway,
			body:     "boom",
			wantCode: "SERVICE_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(tt.status)
				_, _ = writer.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := credential.NewClient(server.URL, "key", 5*time.Second)
			session, err := client.SignIn(context.Background(), "ana@example.com", "wrong")

			assert.Nil(t, session)
			failure := apperr.As(err)
			require.NotNil(t, failure)
			assert.Equal(t, tt.wantCode, failure.Code)
		})
	}
}

/*
TestClient_MalformedSession tests that an undecodable 2xx body surfaces as a
provider failure rather than a partial session.
*/
func TestClient_MalformedSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = writer.Write([]byte(`{"access_token": 42`))
	}))
	defer server.Close()

	client := credential.NewClient(server.URL, "key", 5*time.Second)
	session, err := client.SignIn(context.Background(), "ana@example.com", "s3cret")

	assert.Nil(t, session)
	failure := apperr.As(err)
	require.NotNil(t, failure)
	assert.Equal(t, "SERVICE_UNAVAILABLE", failure.Code)
}

/*
TestClient_ConnectionRefused tests that an unreachable provider surfaces as
SERVICE_UNAVAILABLE on both the session and revoke paths.
*/
func TestClient_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // deliberately closed before use

	client := credential.NewClient(server.URL, "key", time.Second)

	session, err := client.SignIn(context.Background(), "ana@example.com", "s3cret")
	assert.Nil(t, session)
	failure := apperr.As(err)
	require.NotNil(t, failure)
	assert.Equal(t, "SERVICE_UNAVAILABLE", failure.Code)

	err = client.Revoke(context.Background(), "at-123")
	failure = apperr.As(err)
	require.NotNil(t, failure)
	assert.Equal(t, "SERVICE_UNAVAILABLE", failure.Code)
}

/*
TestClient_Revoke tests that logout authenticates with the session's access
token and that an already-dead session still counts as logged out.
*/
func TestClient_Revoke(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"live_session", http.StatusNoContent},
		{"already_invalid_session", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, http.MethodPost, request.Method)
				assert.Equal(t, "/logout", request.URL.Path)
				assert.Equal(t, "key", request.Header.Get("apikey"))
				assert.Equal(t, "Bearer at-123", request.Header.Get("Authorization"))
				writer.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := credential.NewClient(server.URL, "key", 5*time.Second)
			assert.NoError(t, client.Revoke(context.Background(), "at-123"))
		})
	}
}

/*
TestClient_TrailingSlashBase tests that a base URL with a trailing slash does
not produce a double-slash request path.
*/
func TestClient_TrailingSlashBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/signup", request.URL.Path)
		_, _ = writer.Write([]byte(`{"access_token": "at", "user": {"id": "u-1"}}`))
	}))
	defer server.Close()

	client := credential.NewClient(server.URL+"/", "key", 5*time.Second)
	_, err := client.SignUp(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
}
