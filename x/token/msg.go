package token

import (
	"github.com/domainlend/loom"
	"github.com/domainlend/loom/codec"
	"github.com/domainlend/loom/errors"
)

const pathSendMsg = "token/send"

var _ loom.Msg = (*SendMsg)(nil)

// SendMsg moves an amount of a mint between two owners. Decimals must
// match the mint so a client cannot misread the precision of an amount.
type SendMsg struct {
	Metadata *loom.Metadata
	// Source defaults to the main signer when empty.
	Source      loom.Address
	Destination loom.Address
	Mint        loom.Address
	Amount      uint64
	Decimals    uint32
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", m.Metadata.Validate())
	if len(m.Source) != 0 {
		errs = errors.AppendField(errs, "Source", m.Source.Validate())
	}
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	errs = errors.AppendField(errs, "Mint", m.Mint.Validate())
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *SendMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, m.Metadata)
	e.Bytes(2, m.Source)
	e.Bytes(3, m.Destination)
	e.Bytes(4, m.Mint)
	e.Uint64(5, m.Amount)
	e.Uint32(6, m.Decimals)
	return e.Result()
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Metadata = &loom.Metadata{}
			d.Message(m.Metadata)
		case 2:
			m.Source = d.Bytes()
		case 3:
			m.Destination = d.Bytes()
		case 4:
			m.Mint = d.Bytes()
		case 5:
			m.Amount = d.Uint64()
		case 6:
			m.Decimals = d.Uint32()
		default:
			d.Skip()
		}
	}
	return d.Err()
}
