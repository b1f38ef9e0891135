package token

import (
	"regexp"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/codec"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/orm"
)

const (
	// MaxDecimals is the highest precision a mint can declare.
	MaxDecimals = 18

	holdingCondType = "holding"
)

var isSymbol = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_\-\.]{0,15}$`).MatchString

// Mint describes an asset. It is stored under the mint address.
type Mint struct {
	Metadata *loom.Metadata
	Decimals uint32
	Symbol   string
}

var _ orm.Model = (*Mint)(nil)

func (m *Mint) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Decimals > MaxDecimals {
		errs = errors.Append(errs, errors.Field("Decimals", errors.ErrInput, "too many decimals"))
	}
	if !isSymbol(m.Symbol) {
		errs = errors.Append(errs, errors.Field("Symbol", errors.ErrInput, "invalid symbol"))
	}
	return errs
}

// IsUnique returns true for mints whose assets are not divisible.
func (m *Mint) IsUnique() bool {
	return m.Decimals == 0
}

func (m *Mint) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, m.Metadata)
	e.Uint32(2, m.Decimals)
	e.String(3, m.Symbol)
	return e.Result()
}

func (m *Mint) Unmarshal(raw []byte) error {
	*m = Mint{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Metadata = &loom.Metadata{}
			d.Message(m.Metadata)
		case 2:
			m.Decimals = d.Uint32()
		case 3:
			m.Symbol = d.String()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// Holding is the balance of a single owner in a single mint.
type Holding struct {
	Metadata *loom.Metadata
	Owner    loom.Address
	Mint     loom.Address
	// Authority must authorize every debit of this holding.
	Authority loom.Address
	Amount    uint64
}

var _ orm.Model = (*Holding)(nil)

func (h *Holding) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", h.Metadata.Validate())
	errs = errors.AppendField(errs, "Owner", h.Owner.Validate())
	errs = errors.AppendField(errs, "Mint", h.Mint.Validate())
	errs = errors.AppendField(errs, "Authority", h.Authority.Validate())
	return errs
}

// Key returns the address this holding is stored under.
func (h *Holding) Key() loom.Address {
	return HoldingAddress(h.Owner, h.Mint)
}

func (h *Holding) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, h.Metadata)
	e.Bytes(2, h.Owner)
	e.Bytes(3, h.Mint)
	e.Bytes(4, h.Authority)
	e.Uint64(5, h.Amount)
	return e.Result()
}

func (h *Holding) Unmarshal(raw []byte) error {
	*h = Holding{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			h.Metadata = &loom.Metadata{}
			d.Message(h.Metadata)
		case 2:
			h.Owner = d.Bytes()
		case 3:
			h.Mint = d.Bytes()
		case 4:
			h.Authority = d.Bytes()
		case 5:
			h.Amount = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// HoldingAddress returns the address of the holding associated with the
// owner and the mint. There is exactly one such holding for every pair.
func HoldingAddress(owner, mint loom.Address) loom.Address {
	data := make([]byte, 0, len(owner)+len(mint))
	data = append(data, owner...)
	data = append(data, mint...)
	return loom.NewCondition("token", holdingCondType, data).Address()
}

// NewMintBucket returns a bucket of Mint models keyed by the mint address.
func NewMintBucket() orm.ModelBucket {
	return orm.NewModelBucket("mint", &Mint{})
}

// NewHoldingBucket returns a bucket of Holding models keyed by the
// HoldingAddress, indexed by owner and by mint.
func NewHoldingBucket() orm.ModelBucket {
	return orm.NewModelBucket("holding", &Holding{},
		orm.WithIndex("owner", holdingOwnerIndexer, false),
		orm.WithIndex("mint", holdingMintIndexer, false),
	)
}

func holdingOwnerIndexer(m orm.Model) ([]byte, error) {
	h, ok := m.(*Holding)
	if !ok {
		return nil, errors.WithType(errors.ErrType, m)
	}
	return h.Owner, nil
}

func holdingMintIndexer(m orm.Model) ([]byte, error) {
	h, ok := m.(*Holding)
	if !ok {
		return nil, errors.WithType(errors.ErrType, m)
	}
	return h.Mint, nil
}
