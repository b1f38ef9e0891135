package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
)

// Genesis file format. Each extension reads its own key of the
// application state.
type Genesis struct {
	ChainID  string       `json:"chain_id"`
	AppState loom.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "loading genesis file: %s", err)
	}
	return ParseGenesis(raw)
}

// ParseGenesis decodes a genesis document and validates the chain id.
func ParseGenesis(raw []byte) (*Genesis, error) {
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "unmarshaling genesis file: %s", err)
	}
	if !loom.IsValidChainID(gen.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %q", gen.ChainID)
	}
	if len(gen.AppState) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "app_state not set in genesis")
	}
	return &gen, nil
}
