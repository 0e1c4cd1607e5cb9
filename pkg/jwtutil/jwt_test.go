package jwtutil

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

const (
	testIssuer   = "marketplace-service"
	testAudience = "marketplace-clients"
)

func newTestKeys(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return priv, &priv.PublicKey
}

func TestGenerateAndVerify_RoundTrip(t *testing.T) {
	priv, pub := newTestKeys(t)
	gen := NewGenerator(priv, testIssuer, testAudience, "kid-v1", time.Hour)
	ver := NewVerifier(pub, testIssuer, testAudience)

	token, jti, err := gen.Generate("12345", "alice", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := ver.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, "12345", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestVerify_ExpiredToken(t *testing.T) {
	priv, pub := newTestKeys(t)
	gen := NewGenerator(priv, testIssuer, testAudience, "kid-v1", -time.Minute)
	ver := NewVerifier(pub, testIssuer, testAudience)

	token, _, err := gen.Generate("12345", "alice", "user")
	require.NoError(t, err)

	_, err = ver.ParseAndValidate(token)
	assert.ErrorIs(t, err, xerrors.ErrTokenExpired)
	assert.NotErrorIs(t, err, xerrors.ErrTokenInvalid)
}

func TestVerify_WrongKey(t *testing.T) {
	priv, _ := newTestKeys(t)
	_, otherPub := newTestKeys(t)
	gen := NewGenerator(priv, testIssuer, testAudience, "kid-v1", time.Hour)
	ver := NewVerifier(otherPub, testIssuer, testAudience)

	token, _, err := gen.Generate("12345", "alice", "user")
	require.NoError(t, err)

	_, err = ver.ParseAndValidate(token)
	assert.ErrorIs(t, err, xerrors.ErrTokenInvalid)
}

func TestVerify_GarbageToken(t *testing.T) {
	_, pub := newTestKeys(t)
	ver := NewVerifier(pub, testIssuer, testAudience)

	_, err := ver.ParseAndValidate("not-a-jwt")
	assert.ErrorIs(t, err, xerrors.ErrTokenInvalid)
}

func TestVerify_WrongAudience(t *testing.T) {
	priv, pub := newTestKeys(t)
	gen := NewGenerator(priv, testIssuer, "some-other-audience", "kid-v1", time.Hour)
	ver := NewVerifier(pub, testIssuer, testAudience)

	token, _, err := gen.Generate("12345", "alice", "user")
	require.NoError(t, err)

	_, err = ver.ParseAndValidate(token)
	assert.ErrorIs(t, err, xerrors.ErrTokenInvalid)
}

func TestVerify_KidRotation(t *testing.T) {
	oldPriv, oldPub := newTestKeys(t)
	newPriv, newPub := newTestKeys(t)

	// Default key is the old one; the rotated key is registered under its kid.
	ver := NewVerifier(oldPub, testIssuer, testAudience)
	ver.AddKey("kid-v2", newPub)

	oldGen := NewGenerator(oldPriv, testIssuer, testAudience, "", time.Hour)
	newGen := NewGenerator(newPriv, testIssuer, testAudience, "kid-v2", time.Hour)

	oldTok, _, err := oldGen.Generate("1", "alice", "user")
	require.NoError(t, err)
	newTok, _, err := newGen.Generate("2", "bob", "admin")
	require.NoError(t, err)

	claims, err := ver.ParseAndValidate(oldTok)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID)

	claims, err = ver.ParseAndValidate(newTok)
	require.NoError(t, err)
	assert.Equal(t, "2", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}
