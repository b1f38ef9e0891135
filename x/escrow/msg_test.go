package escrow

import (
	"testing"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/loomtest"
	"github.com/domainlend/loom/loomtest/assert"
)

func TestMsgValidate(t *testing.T) {
	addr := loomtest.KeyFromSeed(1).PublicKey().Address()
	mint := loomtest.KeyFromSeed(2).PublicKey().Address()

	cases := map[string]struct {
		msg     loom.Msg
		wantErr map[string]*errors.Error
	}{
		"deposit without maker": {
			msg: &DepositMsg{Metadata: &loom.Metadata{Schema: 1}, AssetMint: mint, CurrencyMint: mint},
			wantErr: map[string]*errors.Error{
				"Maker":        nil,
				"AssetMint":    nil,
				"CurrencyMint": nil,
			},
		},
		"deposit with bad maker and no mints": {
			msg: &DepositMsg{Metadata: &loom.Metadata{Schema: 1}, Maker: []byte("bad")},
			wantErr: map[string]*errors.Error{
				"Maker":        errors.ErrInput,
				"AssetMint":    errors.ErrInput,
				"CurrencyMint": errors.ErrInput,
			},
		},
		"sell offer": {
			msg: &SellOfferMsg{Metadata: &loom.Metadata{Schema: 1}, EscrowID: addr, Amount: 1},
			wantErr: map[string]*errors.Error{
				"Amount":       nil,
				"EscrowID":     nil,
				"CurrencyMint": nil,
			},
		},
		"sell offer without amount": {
			msg: &SellOfferMsg{Metadata: &loom.Metadata{Schema: 1}, EscrowID: addr, CurrencyMint: []byte("bad")},
			wantErr: map[string]*errors.Error{
				"Amount":       errors.ErrAmount,
				"CurrencyMint": errors.ErrInput,
			},
		},
		"loan offer without escrow": {
			msg: &LoanOfferMsg{Metadata: &loom.Metadata{Schema: 1}, Amount: 5},
			wantErr: map[string]*errors.Error{
				"Amount":   nil,
				"EscrowID": errors.ErrInput,
			},
		},
		"withdraw without metadata": {
			msg: &WithdrawMsg{EscrowID: addr, AssetMint: mint},
			wantErr: map[string]*errors.Error{
				"Metadata":  errors.ErrMetadata,
				"EscrowID":  nil,
				"AssetMint": nil,
			},
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.wantErr {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestMsgSerialization(t *testing.T) {
	addr := loomtest.KeyFromSeed(1).PublicKey().Address()
	mint := loomtest.KeyFromSeed(2).PublicKey().Address()

	cases := map[string]struct {
		msg  loom.Msg
		dest loom.Msg
		path string
	}{
		"deposit": {
			msg:  &DepositMsg{Metadata: &loom.Metadata{Schema: 1}, Maker: addr, Nonce: 1 << 40, AssetMint: mint, CurrencyMint: addr},
			dest: &DepositMsg{},
			path: "escrow/deposit",
		},
		"sell offer": {
			msg:  &SellOfferMsg{Metadata: &loom.Metadata{Schema: 1}, EscrowID: addr, Amount: 12, CurrencyMint: mint},
			dest: &SellOfferMsg{},
			path: "escrow/sell_offer",
		},
		"loan offer": {
			msg:  &LoanOfferMsg{Metadata: &loom.Metadata{Schema: 1}, EscrowID: addr, Amount: 12, APY: 4},
			dest: &LoanOfferMsg{},
			path: "escrow/loan_offer",
		},
		"withdraw": {
			msg:  &WithdrawMsg{Metadata: &loom.Metadata{Schema: 1}, EscrowID: addr, AssetMint: mint},
			dest: &WithdrawMsg{},
			path: "escrow/withdraw",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.path, tc.msg.Path())
			raw, err := tc.msg.Marshal()
			assert.Nil(t, err)
			assert.Nil(t, tc.dest.Unmarshal(raw))
			assert.Equal(t, tc.msg, tc.dest)
		})
	}
}
