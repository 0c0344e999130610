// Copyright (c) 2026 Edubridge. All rights reserved.

package profile_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edubridge/portal/internal/apiclients/profile"
)

/*
TestClient_Fetch_Success tests the happy path: request shape, the uid to
UUID remap, and the lifting of nested profile fields.
*/
func TestClient_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "/user-profile/", request.URL.Path)
		assert.Equal(t, "Token raw-student-token", request.Header.Get("Authorization"))
		assert.Equal(t, "portal-api-key", request.Header.Get("APIKEY"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"id": 99,
			"uid": "a1b2c3",
			"username": "ana.silva",
			"email": "ana@example.com",
			"first_name": "Ana",
			"last_name": "Silva",
			"mobile": "+5511999990000",
			"is_verified": true,
			"profile": {"name": "ignored", "dob": "2001-04-12", "gender": "F", "nationality": "BR"}
		}`))
	}))
	defer server.Close()

	client := profile.NewClient(server.URL, "portal-api-key", 5*time.Second)
	record := client.Fetch(context.Background(), "raw-student-token")

	require.NotNil(t, record)
	assert.Equal(t, int64(99), record.ID)
	assert.Equal(t, "a1b2c3", record.UUID)
	assert.Equal(t, "ana@example.com", record.Email)
	assert.Equal(t, "Ana", record.FirstName)
	assert.Equal(t, "Silva", record.LastName)
	assert.Equal(t, "2001-04-12", record.DateOfBirth)
	assert.Equal(t, "F", record.Gender)
	assert.Equal(t, "BR", record.Nationality)
	assert.True(t, record.IsVerified)
}

/*
TestClient_Fetch_NameFallbacks tests the composite-name split and the final
numeric-ID fallbacks when the upstream record has no explicit name fields.
*/
func TestClient_Fetch_NameFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		firstName string
		lastName  string
	}{
		{
			name:      "composite_name_split_on_first_space",
			body:      `{"id": 5, "uid": "u-5", "profile": {"name": "Maria de Souza"}}`,
			firstName: "Maria",
			lastName:  "de Souza",
		},
		{
			name:      "single_word_composite_name",
			body:      `{"id": 5, "uid": "u-5", "profile": {"name": "Cher"}}`,
			firstName: "Cher",
			lastName:  "User5",
		},
		{
			name:      "no_name_at_all",
			body:      `{"id": 5, "uid": "u-5"}`,
			firstName: "User",
			lastName:  "User5",
		},
		{
			name:      "explicit_names_win_over_composite",
			body:      `{"id": 5, "uid": "u-5", "first_name": "Ana", "last_name": "Silva", "profile": {"name": "Somebody Else"}}`,
			firstName: "Ana",
			lastName:  "Silva",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
				_, _ = writer.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := profile.NewClient(server.URL, "key", 5*time.Second)
			record := client.Fetch(context.Background(), "token")

			require.NotNil(t, record)
			assert.Equal(t, tt.firstName, record.FirstName)
			assert.Equal(t, tt.lastName, record.LastName)
		})
	}
}

/*
TestClient_Fetch_Failures tests that every failure mode collapses to nil
without an error.
*/
func TestClient_Fetch_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail": "Invalid token."}`},
		{"not_found", http.StatusNotFound, `{"detail": "Not found."}`},
		{"upstream_error", http.StatusInternalServerError, "boom"},
		{"malformed_body", http.StatusOK, `{"id": "not-a-number"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(tt.status)
				_, _ = writer.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := profile.NewClient(server.URL, "key", 5*time.Second)
			assert.Nil(t, client.Fetch(context.Background(), "token"))
		})
	}
}

/*
TestClient_Fetch_ConnectionRefused tests that an unreachable upstream also
yields nil rather than a panic or error.
*/
func TestClient_Fetch_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // deliberately closed before use

	client := profile.NewClient(server.URL, "key", time.Second)
	assert.Nil(t, client.Fetch(context.Background(), "token"))
}

/*
TestClient_TrailingSlashBase tests that a base URL with a trailing slash does
not produce a double-slash request path.
*/
func TestClient_TrailingSlashBase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/user-profile/", request.URL.Path)
		_, _ = writer.Write([]byte(`{"id": 1, "uid": "u-1"}`))
	}))
	defer server.Close()

	client := profile.NewClient(server.URL+"/", "key", 5*time.Second)
	require.NotNil(t, client.Fetch(context.Background(), "token"))
}
