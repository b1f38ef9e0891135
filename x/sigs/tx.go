package sigs

import (
	"github.com/domainlend/loom/codec"
	"github.com/domainlend/loom/crypto"
	"github.com/domainlend/loom/errors"
)

// SignedTx represents a transaction that contains signatures, which can be
// verified by the sigs.Decorator
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the
	// transaction without the signatures.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the
	// transaction.
	GetSignatures() []*StdSignature
}

// StdSignature is a signature together with the public key of the signer
// and the sequence used to prevent replays.
type StdSignature struct {
	Sequence  int64
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if s.Pubkey == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if s.Signature == nil {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Uint64(1, uint64(s.Sequence))
	e.Message(2, s.Pubkey)
	e.Message(3, s.Signature)
	return e.Result()
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	*s = StdSignature{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			s.Sequence = int64(d.Uint64())
		case 2:
			s.Pubkey = &crypto.PublicKey{}
			d.Message(s.Pubkey)
		case 3:
			s.Signature = &crypto.Signature{}
			d.Message(s.Signature)
		default:
			d.Skip()
		}
	}
	return d.Err()
}
