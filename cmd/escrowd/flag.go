package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/domainlend/loom"
)

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *loom.Address {
	var a loom.Address
	if defaultVal != "" {
		var err error
		a, err = loom.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q loom.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return &a
}

func flKey(fl *flag.FlagSet) *string {
	return fl.String("key", env("ESCROWD_PRIV_KEY", os.ExpandEnv("$HOME")+"/.escrowd.priv.key"),
		"Path to the private key file that transaction should be signed with. You can use ESCROWD_PRIV_KEY environment variable to set it.")
}
