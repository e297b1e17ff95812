package main

import (
	"bytes"
	"strings"
	"testing"

	"airport-ops/tarmac/internal/auth"
	"airport-ops/tarmac/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(args ...string) (string, error) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestTokenGen_RegionalAdmin(t *testing.T) {
	out, err := execute("--user", "ops-7", "--airport", "airport-1", "--secret", "s3cret", "--ttl", "1h")
	require.NoError(t, err)

	claims, err := auth.ParseToken([]byte("s3cret"), out)
	require.NoError(t, err)
	assert.Equal(t, "ops-7", claims.UserID())
	assert.Equal(t, constants.RoleAdminRegional.String(), claims.Role())
	assert.Equal(t, "airport-1", claims.AirportID())
}

func TestTokenGen_Superadmin(t *testing.T) {
	out, err := execute("--user", "root", "--role", "superadmin", "--secret", "s3cret")
	require.NoError(t, err)

	claims, err := auth.ParseToken([]byte("s3cret"), out)
	require.NoError(t, err)
	assert.True(t, claims.HasPermission(auth.PermissionDeleteFlight))
}

func TestTokenGen_Rejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing user", []string{"--secret", "s"}},
		{"regional without airport", []string{"--user", "u", "--secret", "s"}},
		{"unknown role", []string{"--user", "u", "--role", "pilot", "--secret", "s"}},
		{"non-positive ttl", []string{"--user", "u", "--role", "superadmin", "--ttl", "0s", "--secret", "s"}},
		{"stray argument", []string{"--user", "u", "--secret", "s", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(tt.args...)
			assert.Error(t, err)
		})
	}
}
