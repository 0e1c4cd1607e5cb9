package jwtutil

import (
	"log"
)

// LoadAndBuild constructs the signing and verifying sides from one config.
func LoadAndBuild(cfg JWTConfig) (*Generator, *Verifier) {
	priv, err := LoadRSAPrivateKeyFromPEM(cfg.PrivPath)
	if err != nil || priv == nil {
		log.Fatalf("failed to load private key from %s: %v", cfg.PrivPath, err)
	}

	pub, err := LoadRSAPublicKeyFromPEM(cfg.PubPath)
	if err != nil || pub == nil {
		log.Fatalf("failed to load public key from %s: %v", cfg.PubPath, err)
	}

	gen := NewGenerator(priv, cfg.Issuer, cfg.Audience, cfg.KID, cfg.TTL)
	ver := NewVerifier(pub, cfg.Issuer, cfg.Audience)
	if cfg.KID != "" {
		ver.AddKey(cfg.KID, pub)
	}

	return gen, ver
}
