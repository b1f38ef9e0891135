package app

import (
	"github.com/domainlend/loom"
	"github.com/domainlend/loom/codec"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/x/escrow"
	"github.com/domainlend/loom/x/sigs"
	"github.com/domainlend/loom/x/token"
)

// Tx is the transaction accepted by the escrow application. Exactly one
// of the message fields is set.
type Tx struct {
	Signatures []*sigs.StdSignature

	DepositMsg   *escrow.DepositMsg
	SellOfferMsg *escrow.SellOfferMsg
	LoanOfferMsg *escrow.LoanOfferMsg
	WithdrawMsg  *escrow.WithdrawMsg
	SendMsg      *token.SendMsg
}

var (
	_ loom.Tx       = (*Tx)(nil)
	_ sigs.SignedTx = (*Tx)(nil)
)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (loom.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message carried by the transaction.
func (tx *Tx) GetMsg() (loom.Msg, error) {
	var msgs []loom.Msg
	if tx.DepositMsg != nil {
		msgs = append(msgs, tx.DepositMsg)
	}
	if tx.SellOfferMsg != nil {
		msgs = append(msgs, tx.SellOfferMsg)
	}
	if tx.LoanOfferMsg != nil {
		msgs = append(msgs, tx.LoanOfferMsg)
	}
	if tx.WithdrawMsg != nil {
		msgs = append(msgs, tx.WithdrawMsg)
	}
	if tx.SendMsg != nil {
		msgs = append(msgs, tx.SendMsg)
	}
	switch len(msgs) {
	case 0:
		return nil, errors.Wrap(errors.ErrMsg, "message container is empty")
	case 1:
		return msgs[0], nil
	default:
		return nil, errors.Wrapf(errors.ErrMsg, "message container holds %d messages", len(msgs))
	}
}

// SetMsg sets the message carried by the transaction, replacing any
// previous one.
func (tx *Tx) SetMsg(msg loom.Msg) error {
	tx.DepositMsg = nil
	tx.SellOfferMsg = nil
	tx.LoanOfferMsg = nil
	tx.WithdrawMsg = nil
	tx.SendMsg = nil

	switch m := msg.(type) {
	case *escrow.DepositMsg:
		tx.DepositMsg = m
	case *escrow.SellOfferMsg:
		tx.SellOfferMsg = m
	case *escrow.LoanOfferMsg:
		tx.LoanOfferMsg = m
	case *escrow.WithdrawMsg:
		tx.WithdrawMsg = m
	case *token.SendMsg:
		tx.SendMsg = m
	default:
		return errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return nil
}

// GetSignatures returns the signatures of all signers.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign, that is the transaction without
// any signature.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}

func (tx *Tx) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	for _, s := range tx.Signatures {
		e.Message(1, s)
	}
	e.Message(10, tx.DepositMsg)
	e.Message(11, tx.SellOfferMsg)
	e.Message(12, tx.LoanOfferMsg)
	e.Message(13, tx.WithdrawMsg)
	e.Message(20, tx.SendMsg)
	return e.Result()
}

func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			var s sigs.StdSignature
			d.Message(&s)
			tx.Signatures = append(tx.Signatures, &s)
		case 10:
			tx.DepositMsg = &escrow.DepositMsg{}
			d.Message(tx.DepositMsg)
		case 11:
			tx.SellOfferMsg = &escrow.SellOfferMsg{}
			d.Message(tx.SellOfferMsg)
		case 12:
			tx.LoanOfferMsg = &escrow.LoanOfferMsg{}
			d.Message(tx.LoanOfferMsg)
		case 13:
			tx.WithdrawMsg = &escrow.WithdrawMsg{}
			d.Message(tx.WithdrawMsg)
		case 20:
			tx.SendMsg = &token.SendMsg{}
			d.Message(tx.SendMsg)
		default:
			d.Skip()
		}
	}
	return d.Err()
}
