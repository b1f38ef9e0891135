package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/app"
	"github.com/domainlend/loom/x/escrow"
)

func cmdDeposit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Deposit a domain asset into a new escrow vault.

The key owner is the maker unless a maker is given, in which case it must
still sign. On success the escrow address is printed.
`)
		fl.PrintDefaults()
	}
	var (
		confFl     = flConfig(fl)
		keyFl      = flKey(fl)
		makerFl    = flAddress(fl, "maker", "", "Maker of the escrow. Defaults to the key owner.")
		nonceFl    = fl.Uint64("nonce", 0, "Nonce distinguishing escrows of the same maker.")
		assetFl    = flAddress(fl, "asset", "", "Mint of the domain asset.")
		currencyFl = flAddress(fl, "currency", "", "Mint of the currency offers are made in.")
	)
	fl.Parse(args)

	msg := &escrow.DepositMsg{
		Metadata:     &loom.Metadata{Schema: 1},
		Maker:        *makerFl,
		Nonce:        *nonceFl,
		AssetMint:    *assetFl,
		CurrencyMint: *currencyFl,
	}
	res, err := deliverMsg(confFl, *keyFl, msg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, loom.Address(res.Data))
	return err
}

func cmdSellOffer(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Set the price the maker is willing to sell the escrowed domain for.
`)
		fl.PrintDefaults()
	}
	var (
		confFl     = flConfig(fl)
		keyFl      = flKey(fl)
		escrowFl   = flAddress(fl, "escrow", "", "Address of the escrow.")
		amountFl   = fl.Uint64("amount", 0, "Wanted amount, in the smallest currency unit.")
		currencyFl = flAddress(fl, "currency", "", "Optional currency mint, must match the escrow currency.")
	)
	fl.Parse(args)

	msg := &escrow.SellOfferMsg{
		Metadata:     &loom.Metadata{Schema: 1},
		EscrowID:     *escrowFl,
		Amount:       *amountFl,
		CurrencyMint: *currencyFl,
	}
	if _, err := deliverMsg(confFl, *keyFl, msg); err != nil {
		return err
	}
	return nil
}

func cmdLoanOffer(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Set the loan the maker wants to take against the escrowed domain.
`)
		fl.PrintDefaults()
	}
	var (
		confFl   = flConfig(fl)
		keyFl    = flKey(fl)
		escrowFl = flAddress(fl, "escrow", "", "Address of the escrow.")
		amountFl = fl.Uint64("amount", 0, "Wanted loan amount, in the smallest currency unit.")
		apyFl    = fl.Uint64("apy", 0, "Wanted annual percentage yield.")
	)
	fl.Parse(args)

	msg := &escrow.LoanOfferMsg{
		Metadata: &loom.Metadata{Schema: 1},
		EscrowID: *escrowFl,
		Amount:   *amountFl,
		APY:      *apyFl,
	}
	if _, err := deliverMsg(confFl, *keyFl, msg); err != nil {
		return err
	}
	return nil
}

func cmdWithdraw(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Return the escrowed domain to the maker.
`)
		fl.PrintDefaults()
	}
	var (
		confFl   = flConfig(fl)
		keyFl    = flKey(fl)
		escrowFl = flAddress(fl, "escrow", "", "Address of the escrow.")
		assetFl  = flAddress(fl, "asset", "", "Mint of the escrowed domain asset.")
	)
	fl.Parse(args)

	msg := &escrow.WithdrawMsg{
		Metadata:  &loom.Metadata{Schema: 1},
		EscrowID:  *escrowFl,
		AssetMint: *assetFl,
	}
	if _, err := deliverMsg(confFl, *keyFl, msg); err != nil {
		return err
	}
	return nil
}

func cmdEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the escrow record with the given address as JSON.
`)
		fl.PrintDefaults()
	}
	var (
		confFl   = flConfig(fl)
		escrowFl = flAddress(fl, "escrow", "", "Address of the escrow.")
	)
	fl.Parse(args)

	escrows, err := queryEscrows(confFl, "/escrows", *escrowFl)
	if err != nil {
		return err
	}
	if len(escrows) == 0 {
		return fmt.Errorf("escrow %s not found", *escrowFl)
	}
	return writeJSON(output, escrows[0])
}

func cmdEscrows(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print all escrow records of a maker as JSON.
`)
		fl.PrintDefaults()
	}
	var (
		confFl  = flConfig(fl)
		makerFl = flAddress(fl, "maker", "", "Maker of the escrows.")
	)
	fl.Parse(args)

	escrows, err := queryEscrows(confFl, "/escrows/maker", *makerFl)
	if err != nil {
		return err
	}
	return writeJSON(output, escrows)
}

// escrowRecord is an escrow together with its address.
type escrowRecord struct {
	ID loom.Address `json:"id"`
	*escrow.Escrow
}

func queryEscrows(confFl *configFlags, path string, key loom.Address) ([]escrowRecord, error) {
	conf, err := confFl.Load()
	if err != nil {
		return nil, err
	}
	n, err := openNode(conf)
	if err != nil {
		return nil, err
	}
	defer n.Close()

	models, err := n.app.Query(path, key)
	if err != nil {
		return nil, fmt.Errorf("query: %s", err)
	}
	escrows := make([]escrowRecord, 0, len(models))
	for _, m := range models {
		var e escrow.Escrow
		if err := e.Unmarshal(m.Value); err != nil {
			return nil, fmt.Errorf("cannot decode escrow %X: %s", m.Key, err)
		}
		escrows = append(escrows, escrowRecord{ID: m.Key, Escrow: &e})
	}
	return escrows, nil
}

// deliverMsg opens the application, signs the message with the key and
// delivers it.
func deliverMsg(confFl *configFlags, keyPath string, msg loom.Msg) (*app.TxResult, error) {
	conf, err := confFl.Load()
	if err != nil {
		return nil, err
	}
	key, err := loadKey(keyPath)
	if err != nil {
		return nil, err
	}
	n, err := openNode(conf)
	if err != nil {
		return nil, err
	}
	defer n.Close()
	return n.deliver(key, msg)
}
