package service

import (
	"testing"

	errorc "wopanel/pkg/core/err"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	s := &AdminService{err: errorc.NewErrorBuilder("AdminService")}

	hash, err := s.HashPassword("secret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", hash)

	assert.True(t, s.VerifyPassword("secret-password", hash))
	assert.False(t, s.VerifyPassword("wrong-password", hash))
	assert.False(t, s.VerifyPassword("secret-password", "not-a-hash"))
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	s := &AdminService{err: errorc.NewErrorBuilder("AdminService")}

	h1, err := s.HashPassword("same")
	require.NoError(t, err)
	h2, err := s.HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
