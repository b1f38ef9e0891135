package sigs

import (
	"github.com/domainlend/loom"
	"github.com/domainlend/loom/codec"
	"github.com/domainlend/loom/crypto"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData is the replay protection state of a single public key.
type UserData struct {
	Metadata *loom.Metadata
	Sequence int64
	Pubkey   *crypto.PublicKey
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", u.Metadata.Validate())
	if seq := u.Sequence; seq < 0 {
		errs = errors.AppendField(errs, "Sequence", ErrInvalidSequence)
	} else if seq > 0 && u.Pubkey == nil {
		errs = errors.Append(errs, errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey"))
	}
	return errs
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}

	// Greatest nonce value a javascript client can represent.
	const maxSequenceValue = (1 << 53) - 1

	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

func (u *UserData) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, u.Metadata)
	e.Uint64(2, uint64(u.Sequence))
	e.Message(3, u.Pubkey)
	return e.Result()
}

func (u *UserData) Unmarshal(raw []byte) error {
	*u = UserData{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			u.Metadata = &loom.Metadata{}
			d.Message(u.Metadata)
		case 2:
			u.Sequence = int64(d.Uint64())
		case 3:
			u.Pubkey = &crypto.PublicKey{}
			d.Message(u.Pubkey)
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// NewBucket returns the bucket of UserData, keyed by the public key
// address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &UserData{})
}

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr loom.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// loadOrCreate returns the state of given public key. A fresh state with
// sequence zero is returned for keys that never signed anything.
func loadOrCreate(db loom.ReadOnlyKVStore, b orm.ModelBucket, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{
			Metadata: &loom.Metadata{Schema: 1},
			Pubkey:   pubkey,
		}, nil
	default:
		return nil, err
	}
}
