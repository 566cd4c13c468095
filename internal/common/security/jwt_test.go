package security_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeclash/internal/common/security"
)

func TestGenerateAndDecodeRoundTrip(t *testing.T) {
	tokens := security.NewTokens([]byte("test-secret"), time.Hour)

	raw, err := tokens.Generate("participant-42", security.RoleParticipant)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	decoded, err := tokens.Auth().Decode(raw)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	id, err := security.ParticipantIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "participant-42", id)

	role, err := security.RoleFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, security.RoleParticipant, role)
}

func TestDecodeRejectsWrongKey(t *testing.T) {
	issuer := security.NewTokens([]byte("key-one"), time.Hour)
	verifier := security.NewTokens([]byte("key-two"), time.Hour)

	raw, err := issuer.Generate("participant-42", security.RoleParticipant)
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(verifier.Auth(), raw)
	assert.Error(t, err)
}

func TestClaimsMissingFields(t *testing.T) {
	_, err := security.ParticipantIDFromClaims(map[string]interface{}{})
	assert.Error(t, err)

	_, err = security.RoleFromClaims(map[string]interface{}{"role": 7})
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := security.HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, security.CheckPasswordHash("hunter2", hash))
	assert.False(t, security.CheckPasswordHash("wrong", hash))
	assert.False(t, security.CheckPasswordHash("hunter2", ""))
}
