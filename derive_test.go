package loom

import (
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/loomtest/assert"
)

func escrowSeeds(nonce uint64) [][]byte {
	maker := make([]byte, AddressLength)
	for i := range maker {
		maker[i] = byte(i + 1)
	}
	n := make([]byte, 8)
	binary.LittleEndian.PutUint64(n, nonce)
	return [][]byte{[]byte("escrow"), []byte("test-service"), maker, n}
}

func TestFindDerivedAddress(t *testing.T) {
	cases := map[string]struct {
		nonce      uint64
		wantBump   uint8
		wantDigest string
		wantAddr   string
	}{
		"first bump is off curve": {
			nonce:      0,
			wantBump:   255,
			wantDigest: "548e982539db08ec9dc64d102ade9a6519f7168c50ba34fd9006eef9ce2a31ff",
			wantAddr:   "A0F821F872E8C8FF99726D970A07F46BBF8937AD",
		},
		"one bump skipped": {
			nonce:      1,
			wantBump:   254,
			wantDigest: "c06f1edc9eb1f1f07e9d9180a9c1d9fbbb5e698e7533db9350130d5017416511",
			wantAddr:   "D9462A8E5DF3C5F6EBDDF804ABBD9A45A9DB9CC1",
		},
		"two bumps skipped": {
			nonce:      7,
			wantBump:   253,
			wantDigest: "853554c9be18649590107fe61183ce1f98ba3ec693e50a01684f0aecb61ccd84",
			wantAddr:   "6A8EF20015E1C7286B75D9B926CBA78966AA293F",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			d, err := FindDerivedAddress("escrow", escrowSeeds(tc.nonce)...)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBump, d.Bump)

			ext, typ, data, err := d.Condition.Parse()
			assert.Nil(t, err)
			assert.Equal(t, "escrow", ext)
			assert.Equal(t, DerivedType, typ)
			assert.Equal(t, tc.wantDigest, hex.EncodeToString(data))
			assert.Equal(t, tc.wantAddr, d.Address().String())

			// Rebuilding from the stored bump must produce the same result.
			again, err := CreateDerivedAddress("escrow", d.Bump, escrowSeeds(tc.nonce)...)
			assert.Nil(t, err)
			assert.Equal(t, d, again)
		})
	}
}

func TestDerivationIsDeterministic(t *testing.T) {
	a, err := FindDerivedAddress("escrow", escrowSeeds(42)...)
	assert.Nil(t, err)
	b, err := FindDerivedAddress("escrow", escrowSeeds(42)...)
	assert.Nil(t, err)
	assert.Equal(t, a, b)

	other, err := FindDerivedAddress("escrow", escrowSeeds(43)...)
	assert.Nil(t, err)
	if a.Address().Equals(other.Address()) {
		t.Fatal("different seeds produced the same address")
	}

	// Extension name is part of the derivation.
	foreign, err := FindDerivedAddress("token", escrowSeeds(42)...)
	assert.Nil(t, err)
	if a.Address().Equals(foreign.Address()) {
		t.Fatal("different extensions produced the same address")
	}
}

func TestCreateDerivedAddressRejectsOnCurveBump(t *testing.T) {
	// For nonce 7 both 255 and 254 produce a valid curve point.
	_, err := CreateDerivedAddress("escrow", 255, escrowSeeds(7)...)
	assert.IsErr(t, errors.ErrInput, err)
	_, err = CreateDerivedAddress("escrow", 254, escrowSeeds(7)...)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestDerivedAddressIsOffCurve(t *testing.T) {
	for nonce := uint64(0); nonce < 50; nonce++ {
		d, err := FindDerivedAddress("escrow", escrowSeeds(nonce)...)
		assert.Nil(t, err)
		_, _, data, err := d.Condition.Parse()
		assert.Nil(t, err)
		var digest [32]byte
		copy(digest[:], data)
		if onCurve(&digest) {
			t.Fatalf("nonce %d: derived digest is on curve", nonce)
		}
		for bump := int(d.Bump) + 1; bump <= 255; bump++ {
			digest := derivedDigest("escrow", uint8(bump), escrowSeeds(nonce))
			if !onCurve(&digest) {
				t.Fatalf("nonce %d: bump %d is off curve but was skipped", nonce, bump)
			}
		}
	}
}

func TestDerivationSeedLimits(t *testing.T) {
	_, err := FindDerivedAddress("escrow", make([]byte, MaxSeedLength+1))
	assert.IsErr(t, errors.ErrInput, err)

	seeds := make([][]byte, MaxSeeds+1)
	_, err = FindDerivedAddress("escrow", seeds...)
	assert.IsErr(t, errors.ErrInput, err)
}
