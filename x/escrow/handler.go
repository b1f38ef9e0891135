package escrow

import (
	"context"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/orm"
	"github.com/domainlend/loom/x"
	"github.com/domainlend/loom/x/token"
)

// RegisterRoutes will instantiate and register all handlers in this
// package. The ledger must authorize debits with an authenticator that
// includes Authenticate, or no vault can ever be withdrawn.
func RegisterRoutes(r loom.Registry, auth x.Authenticator, ledger token.Controller) {
	bucket := NewBucket()
	r.Handle(&DepositMsg{}, DepositHandler{auth: auth, bucket: bucket, ledger: ledger})
	r.Handle(&SellOfferMsg{}, SellOfferHandler{auth: auth, bucket: bucket})
	r.Handle(&LoanOfferMsg{}, LoanOfferHandler{auth: auth, bucket: bucket})
	r.Handle(&WithdrawMsg{}, WithdrawHandler{auth: auth, bucket: bucket, ledger: ledger})
}

// RegisterQuery will register this bucket as "/escrows" and
// "/escrows/maker".
func RegisterQuery(qr loom.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// DepositHandler locks the asset of the maker in a new vault.
type DepositHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ledger token.Controller
}

var _ loom.Handler = DepositHandler{}

// Check just verifies it is properly formed.
func (h DepositHandler) Check(ctx context.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{}, nil
}

// Deliver stores the escrow record, opens the vault and moves the asset
// into it. The record id is returned as data.
func (h DepositHandler) Deliver(ctx context.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := h.bucket.Put(db, escrow.Vault, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	if err := lock(ctx, db, h.ledger, escrow); err != nil {
		return nil, err
	}
	return &loom.DeliverResult{Data: escrow.Vault}, nil
}

// validate returns the escrow to be created.
func (h DepositHandler) validate(ctx context.Context, db loom.KVStore, tx loom.Tx) (*Escrow, error) {
	var msg DepositMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	maker := msg.Maker
	if len(maker) == 0 {
		signer := x.MainSigner(ctx, h.auth)
		if signer == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
		}
		maker = signer.Address()
	} else if !h.auth.HasAddress(ctx, maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker must sign")
	}

	asset, err := h.ledger.Mint(db, msg.AssetMint)
	if err != nil {
		return nil, errors.Wrap(err, "asset mint")
	}
	if _, err := h.ledger.Mint(db, msg.CurrencyMint); err != nil {
		return nil, errors.Wrap(err, "currency mint")
	}
	if !asset.IsUnique() {
		return nil, errors.Wrapf(token.ErrMintMismatch, "asset mint has %d decimals", asset.Decimals)
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	authority, err := VaultAuthority(conf.ServiceID, maker, msg.Nonce)
	if err != nil {
		return nil, err
	}
	vault := authority.Address()
	switch err := h.bucket.Has(db, vault); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s", vault)
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}

	return &Escrow{
		Metadata:       &loom.Metadata{Schema: 1},
		Nonce:          msg.Nonce,
		Maker:          maker,
		Owner:          maker,
		AssetMint:      msg.AssetMint,
		CurrencyMint:   msg.CurrencyMint,
		AuthorityNonce: uint32(authority.Bump),
		Vault:          vault,
		State:          StateFunded,
	}, nil
}

// SellOfferHandler sets the sell price of a funded escrow.
type SellOfferHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ loom.Handler = SellOfferHandler{}

func (h SellOfferHandler) Check(ctx context.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{}, nil
}

func (h SellOfferHandler) Deliver(ctx context.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	escrow.WantedSellAmount = msg.Amount
	if _, err := h.bucket.Put(db, msg.EscrowID, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	return &loom.DeliverResult{Data: msg.EscrowID}, nil
}

func (h SellOfferHandler) validate(ctx context.Context, db loom.KVStore, tx loom.Tx) (*SellOfferMsg, *Escrow, error) {
	var msg SellOfferMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadEditable(ctx, db, h.auth, h.bucket, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if len(msg.CurrencyMint) != 0 && !msg.CurrencyMint.Equals(escrow.CurrencyMint) {
		return nil, nil, errors.Wrap(token.ErrMintMismatch, "currency mint")
	}
	return &msg, escrow, nil
}

// LoanOfferHandler sets the loan request of a funded escrow.
type LoanOfferHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ loom.Handler = LoanOfferHandler{}

func (h LoanOfferHandler) Check(ctx context.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{}, nil
}

func (h LoanOfferHandler) Deliver(ctx context.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	escrow.WantedLoanAmount = msg.Amount
	escrow.WantedAPY = msg.APY
	if _, err := h.bucket.Put(db, msg.EscrowID, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	return &loom.DeliverResult{Data: msg.EscrowID}, nil
}

func (h LoanOfferHandler) validate(ctx context.Context, db loom.KVStore, tx loom.Tx) (*LoanOfferMsg, *Escrow, error) {
	var msg LoanOfferMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadEditable(ctx, db, h.auth, h.bucket, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if conf.MaxAPY > 0 && msg.APY > conf.MaxAPY {
		return nil, nil, errors.Wrapf(errors.ErrAmount, "apy %d above %d", msg.APY, conf.MaxAPY)
	}
	return &msg, escrow, nil
}

// loadEditable returns the escrow if its listing terms can be changed by
// the current signers.
func loadEditable(ctx context.Context, db loom.ReadOnlyKVStore, auth x.Authenticator, b orm.ModelBucket, id loom.Address) (*Escrow, error) {
	var escrow Escrow
	if err := b.One(db, id, &escrow); err != nil {
		return nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	if !auth.HasAddress(ctx, escrow.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker must sign")
	}
	if escrow.State != StateFunded {
		return nil, errors.Wrapf(ErrEmptyVault, "escrow is %s", escrow.State)
	}
	return &escrow, nil
}

// WithdrawHandler returns the asset to the maker.
type WithdrawHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ledger token.Controller
}

var _ loom.Handler = WithdrawHandler{}

func (h WithdrawHandler) Check(ctx context.Context, db loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &loom.CheckResult{}, nil
}

// Deliver moves the asset out of the vault. Depending on the
// configuration the escrow is either kept as emptied or deleted together
// with the vault. A vault that still holds units after the release is
// never deleted.
func (h WithdrawHandler) Deliver(ctx context.Context, db loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	w, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := release(ctx, db, h.ledger, w.escrow, w.authority); err != nil {
		return nil, err
	}

	if w.conf.ReclaimOnWithdraw {
		left, err := h.ledger.Balance(db, w.escrow.Vault, w.escrow.AssetMint)
		if err != nil {
			return nil, err
		}
		if left == 0 {
			return h.reclaim(db, w.escrow)
		}
	}

	w.escrow.State = StateEmptied
	if _, err := h.bucket.Put(db, w.escrow.Vault, w.escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	return &loom.DeliverResult{Data: w.escrow.Vault}, nil
}

// reclaim deletes an empty vault together with its escrow.
func (h WithdrawHandler) reclaim(db loom.KVStore, escrow *Escrow) (*loom.DeliverResult, error) {
	if err := h.ledger.CloseHolding(db, escrow.Vault, escrow.AssetMint); err != nil {
		return nil, errors.Wrap(err, "close vault")
	}
	if err := h.bucket.Delete(db, escrow.Vault); err != nil {
		return nil, errors.Wrap(err, "cannot delete escrow")
	}
	return &loom.DeliverResult{Data: escrow.Vault}, nil
}

type withdrawal struct {
	escrow    *Escrow
	authority loom.DerivedAddress
	conf      *Configuration
}

func (h WithdrawHandler) validate(ctx context.Context, db loom.KVStore, tx loom.Tx) (*withdrawal, error) {
	var msg WithdrawMsg
	if err := loom.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	var escrow Escrow
	if err := h.bucket.One(db, msg.EscrowID, &escrow); err != nil {
		return nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	if !h.auth.HasAddress(ctx, escrow.Maker) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "maker must sign")
	}
	if !msg.AssetMint.Equals(escrow.AssetMint) {
		return nil, errors.Wrap(token.ErrMintMismatch, "asset mint")
	}
	held, err := h.ledger.Balance(db, escrow.Vault, escrow.AssetMint)
	if err != nil {
		return nil, err
	}
	// Units credited to the vault by anyone else do not block the release
	// of the deposited one.
	if escrow.State != StateFunded || held < assetAmount {
		return nil, errors.Wrapf(ErrEmptyVault, "vault holds %d", held)
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	authority, err := rebuildVaultAuthority(conf.ServiceID, &escrow)
	if err != nil {
		return nil, err
	}
	if !authority.Address().Equals(msg.EscrowID) {
		return nil, errors.Wrap(errors.ErrState, "vault authority does not match the escrow")
	}
	return &withdrawal{escrow: &escrow, authority: authority, conf: conf}, nil
}
