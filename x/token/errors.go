package token

import "github.com/domainlend/loom/errors"

// ErrMintMismatch is returned when an asset of one mint is used where
// another mint, or another number of decimals, is expected.
var ErrMintMismatch = errors.Register(1100, "mint mismatch")
