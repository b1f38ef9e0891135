package app

import (
	"sync"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp. Transactions are processed one at a time.
type BaseApp struct {
	*StoreApp
	mu      sync.Mutex
	decoder loom.TxDecoder
	handler loom.Handler
	debug   bool
}

// NewBaseApp constructs a basic application
func NewBaseApp(store *StoreApp, decoder loom.TxDecoder, handler loom.Handler, debug bool) *BaseApp {
	return &BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx decodes the transaction and dispatches it to the handler. The
// result is visible to other delivered transactions and persisted on the
// next Commit.
func (b *BaseApp) DeliverTx(txBytes []byte) TxResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.loadTx(txBytes)
	if err != nil {
		return DeliverOrError(nil, err, b.debug)
	}

	ctx := loom.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", loom.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return DeliverOrError(res, err, b.debug)
}

// CheckTx decodes the transaction and dispatches it to the handler
// against the check state. It never changes the delivered state.
func (b *BaseApp) CheckTx(txBytes []byte) TxResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	tx, err := b.loadTx(txBytes)
	if err != nil {
		return CheckOrError(nil, err, b.debug)
	}

	ctx := loom.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", loom.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return CheckOrError(res, err, b.debug)
}

// Commit persists all delivered transactions.
func (b *BaseApp) Commit() (loom.CommitID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.StoreApp.Commit()
}

// loadTx calls the decoder, and capture any panics
func (b *BaseApp) loadTx(txBytes []byte) (tx loom.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
