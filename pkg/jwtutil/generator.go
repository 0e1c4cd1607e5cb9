package jwtutil

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/id"
)

type Generator struct {
	priv     *rsa.PrivateKey
	issuer   string
	audience string
	kid      string // key id for rotation
	Ttl      time.Duration
}

func NewGenerator(priv *rsa.PrivateKey, issuer, audience, kid string, ttl time.Duration) *Generator {
	return &Generator{priv: priv, issuer: issuer, audience: audience, kid: kid, Ttl: ttl}
}

// Generate signs a session token for the account. Returns the signed token
// and its jti.
func (g *Generator) Generate(userID, username, role string) (string, string, error) {
	if g.priv == nil {
		return "", "", fmt.Errorf("jwt generator has nil private key")
	}
	now := time.Now()
	jti := id.NewULID()

	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   userID,
			Audience:  []string{g.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(g.Ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if g.kid != "" {
		tok.Header["kid"] = g.kid
	}

	signed, err := tok.SignedString(g.priv)
	return signed, jti, err
}
