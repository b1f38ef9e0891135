package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/x/token"
)

func cmdSend(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Transfer tokens between holdings.

The source defaults to the key owner. Decimals must match the mint.
`)
		fl.PrintDefaults()
	}
	var (
		confFl     = flConfig(fl)
		keyFl      = flKey(fl)
		srcFl      = flAddress(fl, "src", "", "Owner of the source holding. Defaults to the key owner.")
		dstFl      = flAddress(fl, "dst", "", "Owner of the destination holding.")
		mintFl     = flAddress(fl, "mint", "", "Mint of the transferred tokens.")
		amountFl   = fl.Uint64("amount", 0, "Amount in the smallest unit.")
		decimalsFl = fl.Uint("decimals", 0, "Decimals of the mint.")
	)
	fl.Parse(args)

	msg := &token.SendMsg{
		Metadata:    &loom.Metadata{Schema: 1},
		Source:      *srcFl,
		Destination: *dstFl,
		Mint:        *mintFl,
		Amount:      *amountFl,
		Decimals:    uint32(*decimalsFl),
	}
	if _, err := deliverMsg(confFl, *keyFl, msg); err != nil {
		return err
	}
	return nil
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the committed balance of an owner for a mint.
`)
		fl.PrintDefaults()
	}
	var (
		confFl  = flConfig(fl)
		ownerFl = flAddress(fl, "owner", "", "Owner of the holding.")
		mintFl  = flAddress(fl, "mint", "", "Mint of the holding.")
	)
	fl.Parse(args)

	conf, err := confFl.Load()
	if err != nil {
		return err
	}
	n, err := openNode(conf)
	if err != nil {
		return err
	}
	defer n.Close()

	models, err := n.app.Query("/holdings", token.HoldingAddress(*ownerFl, *mintFl))
	if err != nil {
		return fmt.Errorf("query: %s", err)
	}
	var amount uint64
	if len(models) == 1 {
		var h token.Holding
		if err := h.Unmarshal(models[0].Value); err != nil {
			return fmt.Errorf("cannot decode holding: %s", err)
		}
		amount = h.Amount
	}
	_, err = fmt.Fprintln(output, amount)
	return err
}
