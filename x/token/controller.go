package token

import (
	"context"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/orm"
	"github.com/domainlend/loom/x"
)

// Mover is the transfer-checked asset movement the escrow depends on.
type Mover interface {
	// Move transfers amount of the mint from the holding of src to the
	// holding of dst. The authority of the source holding must be
	// authenticated in the context and decimals must match the mint.
	// A missing source holding holds nothing. A missing destination
	// holding is created.
	Move(ctx context.Context, db loom.KVStore, src, dst, mint loom.Address, amount uint64, decimals uint32) error
}

// Controller is the whole ledger API used by handlers and genesis.
type Controller interface {
	Mover

	// Mint returns the mint stored under given address.
	Mint(db loom.ReadOnlyKVStore, mint loom.Address) (*Mint, error)

	// Balance returns the amount held by owner. A missing holding holds
	// nothing.
	Balance(db loom.ReadOnlyKVStore, owner, mint loom.Address) (uint64, error)

	// Issue credits owner with a new supply of the mint.
	Issue(db loom.KVStore, owner, mint loom.Address, amount uint64) error

	// OpenHolding creates an empty holding. It fails if the holding
	// already exists.
	OpenHolding(db loom.KVStore, owner, authority, mint loom.Address) (*Holding, error)

	// CloseHolding deletes an empty holding.
	CloseHolding(db loom.KVStore, owner, mint loom.Address) error
}

// NewController returns a ledger controller that authorizes debits with
// given authenticator.
func NewController(auth x.Authenticator) Controller {
	return &controller{
		auth:     auth,
		mints:    NewMintBucket(),
		holdings: NewHoldingBucket(),
	}
}

type controller struct {
	auth     x.Authenticator
	mints    orm.ModelBucket
	holdings orm.ModelBucket
}

var _ Controller = (*controller)(nil)

func (c *controller) Move(ctx context.Context, db loom.KVStore, src, dst, mint loom.Address, amount uint64, decimals uint32) error {
	var from Holding
	switch err := c.holdings.One(db, HoldingAddress(src, mint), &from); {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrInsufficientAmount, "%s holds nothing", src)
	case err != nil:
		return errors.Wrapf(err, "source holding %s", src)
	}
	if !c.auth.HasAddress(ctx, from.Authority) {
		return errors.Wrap(errors.ErrUnauthorized, "source holding authority")
	}
	m, err := c.Mint(db, mint)
	if err != nil {
		return err
	}
	if m.Decimals != decimals {
		return errors.Wrapf(ErrMintMismatch, "mint has %d decimals, got %d", m.Decimals, decimals)
	}
	if !from.Mint.Equals(mint) {
		return errors.Wrap(ErrMintMismatch, "source holding mint")
	}
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "amount must be positive")
	}
	if from.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "holding has %d, need %d", from.Amount, amount)
	}
	if src.Equals(dst) {
		return nil
	}

	to, err := c.loadOrCreate(db, dst, mint)
	if err != nil {
		return err
	}
	if to.Amount+amount < to.Amount {
		return errors.Wrap(errors.ErrOverflow, "destination amount")
	}
	from.Amount -= amount
	to.Amount += amount

	if _, err := c.holdings.Put(db, from.Key(), &from); err != nil {
		return errors.Wrap(err, "save source holding")
	}
	if _, err := c.holdings.Put(db, to.Key(), to); err != nil {
		return errors.Wrap(err, "save destination holding")
	}
	return nil
}

func (c *controller) Mint(db loom.ReadOnlyKVStore, mint loom.Address) (*Mint, error) {
	var m Mint
	if err := c.mints.One(db, mint, &m); err != nil {
		return nil, errors.Wrapf(err, "mint %s", mint)
	}
	return &m, nil
}

func (c *controller) Balance(db loom.ReadOnlyKVStore, owner, mint loom.Address) (uint64, error) {
	var h Holding
	switch err := c.holdings.One(db, HoldingAddress(owner, mint), &h); {
	case err == nil:
		return h.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

func (c *controller) Issue(db loom.KVStore, owner, mint loom.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "amount must be positive")
	}
	if err := c.mints.Has(db, mint); err != nil {
		return errors.Wrapf(err, "mint %s", mint)
	}
	h, err := c.loadOrCreate(db, owner, mint)
	if err != nil {
		return err
	}
	if h.Amount+amount < h.Amount {
		return errors.Wrap(errors.ErrOverflow, "holding amount")
	}
	h.Amount += amount
	_, err = c.holdings.Put(db, h.Key(), h)
	return err
}

func (c *controller) OpenHolding(db loom.KVStore, owner, authority, mint loom.Address) (*Holding, error) {
	if err := c.mints.Has(db, mint); err != nil {
		return nil, errors.Wrapf(err, "mint %s", mint)
	}
	key := HoldingAddress(owner, mint)
	switch err := c.holdings.Has(db, key); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "holding %s", key)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	h := &Holding{
		Metadata:  &loom.Metadata{Schema: 1},
		Owner:     owner,
		Mint:      mint,
		Authority: authority,
	}
	if _, err := c.holdings.Put(db, key, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (c *controller) CloseHolding(db loom.KVStore, owner, mint loom.Address) error {
	key := HoldingAddress(owner, mint)
	var h Holding
	if err := c.holdings.One(db, key, &h); err != nil {
		return err
	}
	if h.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "holding not empty: %d", h.Amount)
	}
	return c.holdings.Delete(db, key)
}

// loadOrCreate returns the holding of owner, or a fresh one owned and
// controlled by owner.
func (c *controller) loadOrCreate(db loom.ReadOnlyKVStore, owner, mint loom.Address) (*Holding, error) {
	var h Holding
	switch err := c.holdings.One(db, HoldingAddress(owner, mint), &h); {
	case err == nil:
		return &h, nil
	case errors.ErrNotFound.Is(err):
		return &Holding{
			Metadata:  &loom.Metadata{Schema: 1},
			Owner:     owner,
			Mint:      mint,
			Authority: owner,
		}, nil
	default:
		return nil, err
	}
}
