package migration

import "github.com/domainlend/loom/errors"

// ErrSchema is returned when a model cannot be used with the current
// schema version of its package.
var ErrSchema = errors.Register(1200, "invalid schema version")
