package escrow

import (
	"github.com/domainlend/loom"
	"github.com/domainlend/loom/codec"
	"github.com/domainlend/loom/errors"
)

const (
	pathDepositMsg   = "escrow/deposit"
	pathSellOfferMsg = "escrow/sell_offer"
	pathLoanOfferMsg = "escrow/loan_offer"
	pathWithdrawMsg  = "escrow/withdraw"
)

var (
	_ loom.Msg = (*DepositMsg)(nil)
	_ loom.Msg = (*SellOfferMsg)(nil)
	_ loom.Msg = (*LoanOfferMsg)(nil)
	_ loom.Msg = (*WithdrawMsg)(nil)
)

// DepositMsg moves a non fungible asset of the maker into a new vault.
type DepositMsg struct {
	Metadata *loom.Metadata
	// Maker defaults to the main signer.
	Maker        loom.Address
	Nonce        uint64
	AssetMint    loom.Address
	CurrencyMint loom.Address
}

// Path returns the routing path for this message
func (DepositMsg) Path() string {
	return pathDepositMsg
}

// Validate makes sure that this is sensible
func (m *DepositMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if len(m.Maker) != 0 {
		errs = errors.AppendField(errs, "Maker", m.Maker.Validate())
	}
	errs = errors.AppendField(errs, "AssetMint", m.AssetMint.Validate())
	errs = errors.AppendField(errs, "CurrencyMint", m.CurrencyMint.Validate())
	return errs
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, m.Metadata)
	e.Bytes(2, m.Maker)
	e.Uint64(3, m.Nonce)
	e.Bytes(4, m.AssetMint)
	e.Bytes(5, m.CurrencyMint)
	return e.Result()
}

func (m *DepositMsg) Unmarshal(raw []byte) error {
	*m = DepositMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Metadata = &loom.Metadata{}
			d.Message(m.Metadata)
		case 2:
			m.Maker = d.Bytes()
		case 3:
			m.Nonce = d.Uint64()
		case 4:
			m.AssetMint = d.Bytes()
		case 5:
			m.CurrencyMint = d.Bytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// SellOfferMsg sets the price the escrowed asset is offered for.
type SellOfferMsg struct {
	Metadata *loom.Metadata
	EscrowID loom.Address
	Amount   uint64
	// CurrencyMint is optional. When set it must be the currency of the
	// escrow.
	CurrencyMint loom.Address
}

// Path returns the routing path for this message
func (SellOfferMsg) Path() string {
	return pathSellOfferMsg
}

// Validate makes sure that this is sensible
func (m *SellOfferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	errs = errors.AppendField(errs, "EscrowID", m.EscrowID.Validate())
	if len(m.CurrencyMint) != 0 {
		errs = errors.AppendField(errs, "CurrencyMint", m.CurrencyMint.Validate())
	}
	return errs
}

func (m *SellOfferMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, m.Metadata)
	e.Bytes(2, m.EscrowID)
	e.Uint64(3, m.Amount)
	e.Bytes(4, m.CurrencyMint)
	return e.Result()
}

func (m *SellOfferMsg) Unmarshal(raw []byte) error {
	*m = SellOfferMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Metadata = &loom.Metadata{}
			d.Message(m.Metadata)
		case 2:
			m.EscrowID = d.Bytes()
		case 3:
			m.Amount = d.Uint64()
		case 4:
			m.CurrencyMint = d.Bytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// LoanOfferMsg sets the loan the maker asks for against the escrowed
// asset.
type LoanOfferMsg struct {
	Metadata *loom.Metadata
	EscrowID loom.Address
	Amount   uint64
	APY      uint64
}

// Path returns the routing path for this message
func (LoanOfferMsg) Path() string {
	return pathLoanOfferMsg
}

// Validate makes sure that this is sensible
func (m *LoanOfferMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	errs = errors.AppendField(errs, "EscrowID", m.EscrowID.Validate())
	return errs
}

func (m *LoanOfferMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, m.Metadata)
	e.Bytes(2, m.EscrowID)
	e.Uint64(3, m.Amount)
	e.Uint64(4, m.APY)
	return e.Result()
}

func (m *LoanOfferMsg) Unmarshal(raw []byte) error {
	*m = LoanOfferMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Metadata = &loom.Metadata{}
			d.Message(m.Metadata)
		case 2:
			m.EscrowID = d.Bytes()
		case 3:
			m.Amount = d.Uint64()
		case 4:
			m.APY = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// WithdrawMsg returns the escrowed asset to the maker.
type WithdrawMsg struct {
	Metadata  *loom.Metadata
	EscrowID  loom.Address
	AssetMint loom.Address
}

// Path returns the routing path for this message
func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

// Validate makes sure that this is sensible
func (m *WithdrawMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "EscrowID", m.EscrowID.Validate())
	errs = errors.AppendField(errs, "AssetMint", m.AssetMint.Validate())
	return errs
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, m.Metadata)
	e.Bytes(2, m.EscrowID)
	e.Bytes(3, m.AssetMint)
	return e.Result()
}

func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	*m = WithdrawMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Metadata = &loom.Metadata{}
			d.Message(m.Metadata)
		case 2:
			m.EscrowID = d.Bytes()
		case 3:
			m.AssetMint = d.Bytes()
		default:
			d.Skip()
		}
	}
	return d.Err()
}
