package escrow

import "github.com/domainlend/loom/errors"

// ErrEmptyVault is returned when an operation requires the escrowed asset
// to be held by the vault but it is not.
var ErrEmptyVault = errors.Register(1010, "empty vault")
