package migration

import (
	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
)

const optKey = "initialize_schema"

// GenesisSchema declares the schema version of a package at genesis.
type GenesisSchema struct {
	Pkg     string `json:"pkg"`
	Version uint32 `json:"version"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ loom.Initializer = Initializer{}

// FromGenesis stores the declared schema versions. The section is optional.
func (Initializer) FromGenesis(opts loom.Options, kv loom.KVStore) error {
	var schemas []GenesisSchema
	if err := opts.ReadOptions(optKey, &schemas); err != nil {
		return err
	}
	b := NewSchemaBucket()
	for _, gs := range schemas {
		if err := b.Has(kv, []byte(gs.Pkg)); err == nil {
			return errors.Wrapf(errors.ErrDuplicate, "schema of %q", gs.Pkg)
		}
		s := &Schema{
			Metadata: &loom.Metadata{Schema: 1},
			Pkg:      gs.Pkg,
			Version:  gs.Version,
		}
		if _, err := b.Put(kv, []byte(gs.Pkg), s); err != nil {
			return errors.Wrapf(err, "schema of %q", gs.Pkg)
		}
	}
	return nil
}
