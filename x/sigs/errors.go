package sigs

import (
	"github.com/domainlend/loom/errors"
)

// x/sigs reserves 120~129.
var (
	// ErrInvalidSequence is returned when a signature sequence does not
	// match the signer's current sequence.
	ErrInvalidSequence = errors.Register(120, "invalid sequence number")
)
