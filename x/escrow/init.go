package escrow

import (
	"github.com/domainlend/loom"
	"github.com/domainlend/loom/gconf"
)

// Initializer fulfils the Initializer interface to load the escrow
// configuration from the genesis file.
type Initializer struct{}

var _ loom.Initializer = Initializer{}

// FromGenesis saves the "conf"/"escrow" section of the genesis. The
// configuration is required.
func (Initializer) FromGenesis(opts loom.Options, db loom.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, confPkg, &conf)
}
