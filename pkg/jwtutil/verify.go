package jwtutil

import (
	"crypto/rsa"
	"errors"

	"github.com/golang-jwt/jwt/v5"

	xerrors "github.com/cakeoats/ZEROWASTEFORK-sub000/pkg/xerrors"
)

type Verifier struct {
	pubKeys  map[string]*rsa.PublicKey // kid -> pub
	defPub   *rsa.PublicKey            // fallback if no kid
	issuer   string
	audience string
}

func NewVerifier(def *rsa.PublicKey, issuer, audience string) *Verifier {
	return &Verifier{
		pubKeys:  map[string]*rsa.PublicKey{},
		defPub:   def,
		issuer:   issuer,
		audience: audience,
	}
}

func (v *Verifier) AddKey(kid string, pub *rsa.PublicKey) {
	v.pubKeys[kid] = pub
}

// ParseAndValidate returns the claims of a well-formed, signed, unexpired
// token. An expired token surfaces as xerrors.ErrTokenExpired so callers can
// answer 401 TokenExpired instead of a generic invalid-token error.
func (v *Verifier) ParseAndValidate(tokenStr string) (*Claims, error) {
	claims := new(Claims)
	parser := jwt.NewParser(jwt.WithAudience(v.audience), jwt.WithIssuer(v.issuer))

	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid != "" {
			if k, ok := v.pubKeys[kid]; ok {
				return k, nil
			}
		}
		return v.defPub, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, xerrors.ErrTokenExpired
		}
		return nil, xerrors.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, xerrors.ErrTokenInvalid
	}
	return claims, nil
}
