package engine

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NewServerSeed produces a fresh cryptographically random 256-bit seed,
// hex encoded. One is generated per bet.
func NewServerSeed() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate server seed: %w", err)
	}
	return hex.EncodeToString(buf[:]), nil
}

// HashServerSeed returns the SHA-256 hex digest of a server seed. The hash
// is stored alongside each bet so a commit/reveal scheme can publish it
// before play without a schema change.
func HashServerSeed(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}
