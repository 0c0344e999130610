// Copyright (c) 2026 Edubridge. All rights reserved.

package authn_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edubridge/portal/internal/authn"
)

/*
TestIsExpired_Student tests the half-open student validity window:
created_at inclusive, expired_at exclusive.
*/
func TestIsExpired_Student(t *testing.T) {
	claims := authn.RawClaims{
		"uuid":       "a1b2c3",
		"created_at": float64(100),
		"expired_at": float64(200),
	}

	tests := []struct {
		name    string
		now     int64
		expired bool
	}{
		{"before_window", 99, true},
		{"window_opens", 100, false},
		{"inside_window", 150, false},
		{"last_valid_second", 199, false},
		{"window_closes", 200, true},
		{"after_window", 1000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := authn.IsExpired(authn.KindStudent, claims, time.Unix(tt.now, 0))
			assert.Equal(t, tt.expired, got)
		})
	}
}

/*
TestIsExpired_Admin tests the absolute exp claim shared by both admin kinds.
*/
func TestIsExpired_Admin(t *testing.T) {
	claims := authn.RawClaims{"exp": float64(100)}

	tests := []struct {
		name    string
		kind    authn.Kind
		now     int64
		expired bool
	}{
		{"local_admin_before_expiry", authn.KindLocalAdmin, 99, false},
		{"local_admin_at_expiry", authn.KindLocalAdmin, 100, true},
		{"local_admin_after_expiry", authn.KindLocalAdmin, 101, true},
		{"bank_admin_before_expiry", authn.KindBankAdmin, 99, false},
		{"bank_admin_at_expiry", authn.KindBankAdmin, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := authn.IsExpired(tt.kind, claims, time.Unix(tt.now, 0))
			assert.Equal(t, tt.expired, got)
		})
	}
}

/*
TestIsExpired_FailsClosed tests that missing expiry information always counts
as expired, for every kind.
*/
func TestIsExpired_FailsClosed(t *testing.T) {
	now := time.Unix(150, 0)

	tests := []struct {
		name   string
		kind   authn.Kind
		claims authn.RawClaims
	}{
		{"student_missing_created_at", authn.KindStudent, authn.RawClaims{"expired_at": float64(200)}},
		{"student_missing_expired_at", authn.KindStudent, authn.RawClaims{"created_at": float64(100)}},
		{"student_garbage_window", authn.KindStudent, authn.RawClaims{"created_at": "soon", "expired_at": "later"}},
		{"local_admin_missing_exp", authn.KindLocalAdmin, authn.RawClaims{}},
		{"bank_admin_missing_exp", authn.KindBankAdmin, authn.RawClaims{}},
		{"unknown_kind", authn.KindUnknown, authn.RawClaims{"exp": float64(9999999999)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, authn.IsExpired(tt.kind, tt.claims, now))
		})
	}
}
