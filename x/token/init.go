package token

import (
	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/orm"
)

const optKey = "token"

// GenesisMint is a mint declared in the genesis file.
type GenesisMint struct {
	Address  loom.Address `json:"address"`
	Decimals uint32       `json:"decimals"`
	Symbol   string       `json:"symbol"`
}

// GenesisHolding is a holding declared in the genesis file. An empty
// authority defaults to the owner.
type GenesisHolding struct {
	Owner     loom.Address `json:"owner"`
	Mint      loom.Address `json:"mint"`
	Authority loom.Address `json:"authority,omitempty"`
	Amount    uint64       `json:"amount"`
}

// Genesis is the content of the "token" section of the genesis file.
type Genesis struct {
	Mints    []GenesisMint    `json:"mints"`
	Holdings []GenesisHolding `json:"holdings"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ loom.Initializer = Initializer{}

// FromGenesis will parse initial mints and holdings from genesis and save
// them to the database.
func (Initializer) FromGenesis(opts loom.Options, kv loom.KVStore) error {
	var gen Genesis
	if err := opts.ReadOptions(optKey, &gen); err != nil {
		return err
	}

	mints := NewMintBucket()
	for i, gm := range gen.Mints {
		if err := gm.Address.Validate(); err != nil {
			return errors.Wrapf(err, "mint #%d", i)
		}
		if err := mints.Has(kv, gm.Address); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "mint %s", gm.Address)
		}
		m := &Mint{
			Metadata: &loom.Metadata{Schema: 1},
			Decimals: gm.Decimals,
			Symbol:   gm.Symbol,
		}
		if _, err := mints.Put(kv, gm.Address, m); err != nil {
			return errors.Wrapf(err, "mint %s", gm.Address)
		}
	}

	holdings := NewHoldingBucket()
	for i, gh := range gen.Holdings {
		if err := loadHolding(kv, mints, holdings, gh); err != nil {
			return errors.Wrapf(err, "holding #%d", i)
		}
	}
	return nil
}

func loadHolding(kv loom.KVStore, mints, holdings orm.ModelBucket, gh GenesisHolding) error {
	if err := mints.Has(kv, gh.Mint); err != nil {
		return err
	}
	authority := gh.Authority
	if len(authority) == 0 {
		authority = gh.Owner
	}
	h := &Holding{
		Metadata:  &loom.Metadata{Schema: 1},
		Owner:     gh.Owner,
		Mint:      gh.Mint,
		Authority: authority,
		Amount:    gh.Amount,
	}
	if err := holdings.Has(kv, h.Key()); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "holding %s", h.Key())
	}
	_, err := holdings.Put(kv, h.Key(), h)
	return err
}
