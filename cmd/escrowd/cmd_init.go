package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/domainlend/loom/app"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Initialize the application state from a genesis file.

The genesis declares the chain id, mints, holdings and the escrow
configuration. A database can be initialized only once.
`)
		fl.PrintDefaults()
	}
	var (
		confFl    = flConfig(fl)
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
	)
	fl.Parse(args)

	conf, err := confFl.Load()
	if err != nil {
		return err
	}
	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	if conf.ChainID != "" && conf.ChainID != gen.ChainID {
		return fmt.Errorf("genesis chain id %q does not match configured %q", gen.ChainID, conf.ChainID)
	}

	n, err := openNode(conf)
	if err != nil {
		return err
	}
	defer n.Close()

	if err := n.app.InitChain(gen); err != nil {
		return fmt.Errorf("cannot initialize: %s", err)
	}
	id, err := n.app.Commit()
	if err != nil {
		return fmt.Errorf("cannot commit: %s", err)
	}
	_, err = fmt.Fprintf(output, "%s %d %X\n", gen.ChainID, id.Version, id.Hash)
	return err
}
