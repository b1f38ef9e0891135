package loom

import (
	"context"
	"encoding/json"

	"github.com/domainlend/loom/errors"
)

// Handler is a core engine that can process a few specific messages. This
// could represent "token transfer", or "escrow deposit".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator.
type Checker interface {
	Check(ctx context.Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction. It is its own
// interface to allow better type controls in the next arguments in
// Decorator.
type Deliverer interface {
	Deliver(ctx context.Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality like
// authentication or logging to many Handlers.
type Decorator interface {
	Check(ctx context.Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx context.Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler, the setup side of a
// Router.
type Registry interface {
	// Handle assigns given handler to handle processing of every message
	// of the same path as given message.
	Handle(m Msg, h Handler)
}

// CheckResult captures any non-error check result.
type CheckResult struct {
	// Data is a machine-parseable return value, like the id of a created
	// entity.
	Data []byte
	// Log is human-readable informational string.
	Log string
}

// DeliverResult captures any non-error delivery result.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the id of a created
	// entity.
	Data []byte
	// Log is human-readable informational string.
	Log string
	// Tags are indexable attributes of the executed transaction.
	Tags []Tag
}

// Tag is a single key value attribute of a delivered transaction.
type Tag struct {
	Key   string
	Value string
}

// Options are the genesis options. Each extension can look up its key and
// parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key, and parses the
// json into the given obj. A missing key is a no-op.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "%s options: %s", key, err)
	}
	return nil
}

// Stream reads the list stored under a given key one element at a time.
func (o Options) Stream(key string) func(obj interface{}) error {
	var items []json.RawMessage
	var err error
	if raw := o[key]; len(raw) != 0 {
		err = json.Unmarshal(raw, &items)
	}
	return func(obj interface{}) error {
		if err != nil {
			return errors.Wrapf(errors.ErrInput, "%s options: %s", key, err)
		}
		if len(items) == 0 {
			return errors.ErrEmpty
		}
		raw := items[0]
		items = items[1:]
		if e := json.Unmarshal(raw, obj); e != nil {
			return errors.Wrapf(errors.ErrInput, "%s options: %s", key, e)
		}
		return nil
	}
}

// Initializer implementations are used to initialize extensions from
// genesis file contents.
type Initializer interface {
	FromGenesis(opts Options, kv KVStore) error
}

// MultiInitializer calls all initializers in order.
type MultiInitializer []Initializer

var _ Initializer = MultiInitializer(nil)

func (m MultiInitializer) FromGenesis(opts Options, kv KVStore) error {
	for _, i := range m {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
