package escrow

import (
	"context"
	"encoding/binary"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/x/token"
)

const (
	// DerivationExtension is the extension name of vault authorities.
	DerivationExtension = "escrow"

	// escrowed amount of a non fungible asset
	assetAmount = 1
	// non fungible assets are not divisible
	assetDecimals = 0
)

// VaultAuthority derives the authority of the vault that belongs to the
// maker and nonce. The result address is also the escrow record id.
func VaultAuthority(serviceID string, maker loom.Address, nonce uint64) (loom.DerivedAddress, error) {
	return loom.FindDerivedAddress(DerivationExtension, vaultSeeds(serviceID, maker, nonce)...)
}

// rebuildVaultAuthority recreates the authority of an existing escrow from
// the stored bump.
func rebuildVaultAuthority(serviceID string, e *Escrow) (loom.DerivedAddress, error) {
	if e.AuthorityNonce > 255 {
		return loom.DerivedAddress{}, errors.Wrapf(errors.ErrState, "bump %d", e.AuthorityNonce)
	}
	seeds := vaultSeeds(serviceID, e.Maker, e.Nonce)
	return loom.CreateDerivedAddress(DerivationExtension, uint8(e.AuthorityNonce), seeds...)
}

func vaultSeeds(serviceID string, maker loom.Address, nonce uint64) [][]byte {
	n := make([]byte, 8)
	binary.LittleEndian.PutUint64(n, nonce)
	return [][]byte{[]byte(DerivationExtension), []byte(serviceID), maker, n}
}

// lock opens the vault and moves the asset of the maker into it. The
// maker must be authorized in the context.
func lock(ctx context.Context, db loom.KVStore, ledger token.Controller, e *Escrow) error {
	if _, err := ledger.OpenHolding(db, e.Vault, e.Vault, e.AssetMint); err != nil {
		return errors.Wrap(err, "open vault")
	}
	if err := ledger.Move(ctx, db, e.Maker, e.Vault, e.AssetMint, assetAmount, assetDecimals); err != nil {
		return errors.Wrap(err, "lock asset")
	}
	return nil
}

// release moves the asset back to the maker under the vault authority.
func release(ctx context.Context, db loom.KVStore, ledger token.Controller, e *Escrow, authority loom.DerivedAddress) error {
	ctx = withVault(ctx, authority.Condition)
	if err := ledger.Move(ctx, db, e.Vault, e.Maker, e.AssetMint, assetAmount, assetDecimals); err != nil {
		return errors.Wrap(err, "release asset")
	}
	return nil
}
