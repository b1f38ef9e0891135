package escrow

import (
	"fmt"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/codec"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/migration"
	"github.com/domainlend/loom/orm"
)

// State of an escrow.
type State uint32

const (
	// StateFunded means the vault holds the asset.
	StateFunded State = 1
	// StateEmptied means the asset was withdrawn. No transition leaves
	// this state.
	StateEmptied State = 2
)

func (s State) String() string {
	switch s {
	case StateFunded:
		return "funded"
	case StateEmptied:
		return "emptied"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(raw []byte) error {
	switch string(raw) {
	case "funded":
		*s = StateFunded
	case "emptied":
		*s = StateEmptied
	default:
		return errors.Wrapf(errors.ErrInput, "unknown state %q", raw)
	}
	return nil
}

// Escrow is the record of a single deposit. It is stored under the vault
// authority address.
type Escrow struct {
	Metadata *loom.Metadata `json:"metadata"`
	// Nonce is chosen by the maker to deposit more than one asset.
	Nonce uint64 `json:"nonce"`
	// Maker deposited the asset and is the only one who can withdraw it.
	Maker loom.Address `json:"maker"`
	// Owner of the listing. Set to the maker on deposit.
	Owner        loom.Address `json:"owner"`
	AssetMint    loom.Address `json:"asset_mint"`
	CurrencyMint loom.Address `json:"currency_mint"`
	// Zero values mean there is no such offer.
	WantedLoanAmount uint64 `json:"wanted_loan_amount"`
	WantedAPY        uint64 `json:"wanted_apy"`
	WantedSellAmount uint64 `json:"wanted_sell_amount"`
	// AuthorityNonce is the bump the vault authority was derived with.
	AuthorityNonce uint32       `json:"authority_nonce"`
	Vault          loom.Address `json:"vault"`
	State          State        `json:"state"`
}

var _ orm.Model = (*Escrow)(nil)

func init() {
	migration.MustRegister(1, &Escrow{}, migration.NoModification)
}

// GetMetadata returns the schema information of this escrow.
func (e *Escrow) GetMetadata() *loom.Metadata {
	return e.Metadata
}

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", e.Metadata.Validate())
	errs = errors.AppendField(errs, "Maker", e.Maker.Validate())
	if len(e.Owner) == 0 {
		errs = errors.Append(errs, errors.Field("Owner", errors.ErrEmpty, "required"))
	} else {
		errs = errors.AppendField(errs, "Owner", e.Owner.Validate())
	}
	errs = errors.AppendField(errs, "AssetMint", e.AssetMint.Validate())
	errs = errors.AppendField(errs, "CurrencyMint", e.CurrencyMint.Validate())
	if e.AuthorityNonce > 255 {
		errs = errors.Append(errs, errors.Field("AuthorityNonce", errors.ErrInput, "bump out of range"))
	}
	errs = errors.AppendField(errs, "Vault", e.Vault.Validate())
	if e.State != StateFunded && e.State != StateEmptied {
		errs = errors.Append(errs, errors.Field("State", errors.ErrState, "unknown state %d", e.State))
	}
	return errs
}

// HasSellOffer returns true if the asset is offered for sale.
func (e *Escrow) HasSellOffer() bool {
	return e.WantedSellAmount > 0
}

// HasLoanOffer returns true if a loan against the asset is requested.
func (e *Escrow) HasLoanOffer() bool {
	return e.WantedLoanAmount > 0
}

func (e *Escrow) Marshal() ([]byte, error) {
	enc := codec.NewEncoder()
	enc.Message(1, e.Metadata)
	enc.Uint64(2, e.Nonce)
	enc.Bytes(3, e.Maker)
	enc.Bytes(4, e.Owner)
	enc.Bytes(5, e.AssetMint)
	enc.Bytes(6, e.CurrencyMint)
	enc.Uint64(7, e.WantedLoanAmount)
	enc.Uint64(8, e.WantedAPY)
	enc.Uint64(9, e.WantedSellAmount)
	enc.Uint32(10, e.AuthorityNonce)
	enc.Bytes(11, e.Vault)
	enc.Uint32(12, uint32(e.State))
	return enc.Result()
}

func (e *Escrow) Unmarshal(raw []byte) error {
	*e = Escrow{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			e.Metadata = &loom.Metadata{}
			d.Message(e.Metadata)
		case 2:
			e.Nonce = d.Uint64()
		case 3:
			e.Maker = d.Bytes()
		case 4:
			e.Owner = d.Bytes()
		case 5:
			e.AssetMint = d.Bytes()
		case 6:
			e.CurrencyMint = d.Bytes()
		case 7:
			e.WantedLoanAmount = d.Uint64()
		case 8:
			e.WantedAPY = d.Uint64()
		case 9:
			e.WantedSellAmount = d.Uint64()
		case 10:
			e.AuthorityNonce = d.Uint32()
		case 11:
			e.Vault = d.Bytes()
		case 12:
			e.State = State(d.Uint32())
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// NewBucket returns a bucket of escrows keyed by the vault authority
// address and indexed by maker.
func NewBucket() orm.ModelBucket {
	b := orm.NewModelBucket("escrow", &Escrow{},
		orm.WithIndex("maker", makerIndexer, false),
	)
	return migration.NewModelBucket("escrow", b)
}

func makerIndexer(m orm.Model) ([]byte, error) {
	e, ok := m.(*Escrow)
	if !ok {
		return nil, errors.WithType(errors.ErrType, m)
	}
	return e.Maker, nil
}
