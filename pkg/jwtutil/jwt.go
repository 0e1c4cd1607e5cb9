package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by every marketplace session token.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type JWTConfig struct {
	PrivPath string
	PubPath  string
	Issuer   string
	Audience string
	TTL      time.Duration
	KID      string
}
