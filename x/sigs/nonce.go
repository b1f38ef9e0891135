package sigs

import (
	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
)

// NextNonce returns the next numeric nonce value that should be used during
// a transaction signing. You can get the signer's address by calling
//
//	address := <crypto.Signer>.PublicKey().Address()
func NextNonce(db loom.ReadOnlyKVStore, signer loom.Address) (int64, error) {
	var user UserData
	switch err := NewBucket().One(db, signer, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		// If not yet present, nonce counting starts with zero.
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket")
	}
}
