// Package engine implements the deterministic randomness primitive that every
// game resolver is built on. A draw is a keyed hash of the public bet inputs:
//
//	HMAC-SHA256(key = serverSeed, message = "clientSeed:nonce:cursor")
//
// The top 52 bits of the digest divided by 2^52 give a uniform float in [0,1).
// The cursor lets one (serverSeed, clientSeed, nonce) triple yield arbitrarily
// many independent draws without reusing a preimage, which is what multi-cell
// mine placement and multi-step interactive play need.
package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Seeds pairs the operator seed with the player-supplied seed. Both are
// treated as ASCII strings; the server seed is never hex-decoded.
type Seeds struct {
	Server string
	Client string
}

const floatBits = 52

// Derive computes the deterministic float for a single cursor position.
// Identical inputs always yield an identical output.
func Derive(serverSeed, clientSeed string, nonce, cursor uint64) float64 {
	h := hmac.New(sha256.New, []byte(serverSeed))
	fmt.Fprintf(h, "%s:%d:%d", clientSeed, nonce, cursor)
	digest := h.Sum(nil)

	// Leading 52 bits of the digest, the largest integer a float64 holds
	// without precision loss.
	v := binary.BigEndian.Uint64(digest[:8]) >> (64 - floatBits)
	return float64(v) / (1 << floatBits)
}

// Floats returns count consecutive draws starting at the given cursor.
func Floats(serverSeed, clientSeed string, nonce, cursor uint64, count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = Derive(serverSeed, clientSeed, nonce, cursor+uint64(i))
	}
	return out
}
