package loomtest

import (
	"github.com/domainlend/loom"
	"github.com/domainlend/loom/crypto"
)

// NewKey returns a random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a random key.
func NewCondition() loom.Condition {
	return NewKey().PublicKey().Condition()
}

// KeyFromSeed returns a deterministic private key. Keys created with the
// same number are always equal.
func KeyFromSeed(n byte) *crypto.PrivateKey {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = n
	}
	return crypto.PrivKeyEd25519FromSeed(seed)
}
