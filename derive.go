package loom

import (
	"crypto/sha256"

	"github.com/agl/ed25519/edwards25519"
	"github.com/domainlend/loom/errors"
)

// ErrDerivationExhausted is returned when none of the 256 bump values
// produces a derived address that is off the ed25519 curve.
var ErrDerivationExhausted = errors.Register(17, "derivation exhausted")

const (
	// DerivedType is the condition type of all derived authorities.
	DerivedType = "derived"

	// MaxSeeds is the maximum number of seeds a derivation accepts.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	derivationMarker = "loom:derived"
)

// DerivedAddress is an authority that no private key exists for. It can
// only be placed in a context by the extension that knows the seeds.
type DerivedAddress struct {
	Condition Condition
	Bump      uint8
}

// Address returns the address of the derived condition.
func (d DerivedAddress) Address() Address {
	return d.Condition.Address()
}

// FindDerivedAddress searches for the highest bump that produces a digest
// which is not a valid ed25519 point. The search starts at 255 and goes down
// to 0. The result is a deterministic function of the extension name and
// the seeds.
func FindDerivedAddress(ext string, seeds ...[]byte) (DerivedAddress, error) {
	if err := validateSeeds(seeds); err != nil {
		return DerivedAddress{}, err
	}
	for bump := 255; bump >= 0; bump-- {
		digest := derivedDigest(ext, uint8(bump), seeds)
		if !onCurve(&digest) {
			return DerivedAddress{
				Condition: NewCondition(ext, DerivedType, digest[:]),
				Bump:      uint8(bump),
			}, nil
		}
	}
	return DerivedAddress{}, errors.Wrapf(ErrDerivationExhausted, "extension %q", ext)
}

// CreateDerivedAddress rebuilds a derived address from a known bump. It
// fails if the bump does not produce an off curve digest.
func CreateDerivedAddress(ext string, bump uint8, seeds ...[]byte) (DerivedAddress, error) {
	if err := validateSeeds(seeds); err != nil {
		return DerivedAddress{}, err
	}
	digest := derivedDigest(ext, bump, seeds)
	if onCurve(&digest) {
		return DerivedAddress{}, errors.Wrapf(errors.ErrInput, "bump %d produces an on curve point", bump)
	}
	return DerivedAddress{
		Condition: NewCondition(ext, DerivedType, digest[:]),
		Bump:      bump,
	}, nil
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return errors.Wrapf(errors.ErrInput, "too many seeds: %d", len(seeds))
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return errors.Wrapf(errors.ErrInput, "seed %d too long: %d", i, len(s))
		}
	}
	return nil
}

func derivedDigest(ext string, bump uint8, seeds [][]byte) [32]byte {
	h := sha256.New()
	for _, s := range seeds {
		_, _ = h.Write(s)
	}
	_, _ = h.Write([]byte{bump})
	_, _ = h.Write([]byte(ext))
	_, _ = h.Write([]byte(derivationMarker))
	var digest [32]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

// onCurve returns true if the bytes decode as an ed25519 point, which means
// a private key might exist for it.
func onCurve(b *[32]byte) bool {
	var p edwards25519.ExtendedGroupElement
	return p.FromBytes(b)
}
