package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/bilemo/internal/auth"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("Secret123!")
	require.NoError(t, err)

	salt, sum, ok := strings.Cut(hash, "$")
	require.True(t, ok)
	assert.Len(t, salt, 32)
	assert.Len(t, sum, 64)

	again, err := auth.HashPassword("Secret123!")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salts must differ")
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("exemple1")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		encoded  string
		want     bool
	}{
		{name: "correct password", password: "exemple1", encoded: hash, want: true},
		{name: "wrong password", password: "exemple2", encoded: hash, want: false},
		{name: "empty encoded", password: "exemple1", encoded: "", want: false},
		{name: "no separator", password: "exemple1", encoded: "abcdef", want: false},
		{name: "empty hash part", password: "exemple1", encoded: "abcd$", want: false},
		{name: "non-hex salt", password: "exemple1", encoded: "zz$abcd", want: false},
		{name: "non-hex hash", password: "exemple1", encoded: "abcd$zz", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, auth.VerifyPassword(tt.password, tt.encoded))
		})
	}
}
