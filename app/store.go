package app

import (
	"context"
	"encoding/hex"
	"strings"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp contains a data store and all info needed to perform queries
// and to initialize the state from a genesis.
//
// It should be embedded in another struct that processes transactions.
type StoreApp struct {
	logger log.Logger

	// name is used in logs
	name string

	// Database state (committed, check, deliver....)
	store *CommitStore

	// Code to initialize from a genesis file
	initializer loom.Initializer

	// How to handle queries
	queryRouter loom.QueryRouter

	// chainID is loaded from db in initialization
	// saved once in InitChain
	chainID string

	// baseContext contains context info that is valid for
	// lifetime of this app (eg. chainID)
	baseContext context.Context

	// blockContext contains context info that is valid for the
	// version being built (eg. height)
	blockContext context.Context
}

// NewStoreApp initializes this app into a ready state with some defaults.
func NewStoreApp(name string, store loom.CommitKVStore, queryRouter loom.QueryRouter, baseContext context.Context) (*StoreApp, error) {
	cs, err := NewCommitStore(store)
	if err != nil {
		return nil, err
	}
	s := &StoreApp{
		name:        name,
		store:       cs,
		queryRouter: queryRouter,
		baseContext: baseContext,
	}
	s = s.WithLogger(log.NewNopLogger())

	chainID, err := loadChainID(cs.Committed())
	if err != nil {
		return nil, err
	}
	if chainID != "" {
		s.chainID = chainID
		s.baseContext = loom.WithChainID(s.baseContext, chainID)
	}
	if err := s.resetBlockContext(); err != nil {
		return nil, err
	}
	return s, nil
}

// GetChainID returns the current chainID
func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit is used to set the init function we call
func (s *StoreApp) WithInit(init loom.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger sets the logger on the StoreApp and returns it,
// to make it easy to chain in initialization
//
// also sets baseContext logger
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.baseContext = loom.WithLogger(s.baseContext, logger)
	if s.blockContext != nil {
		s.blockContext = loom.WithLogger(s.blockContext, logger)
	}
	s.logger = logger
	return s
}

// Logger returns the application base logger
func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext returns the context of the version being built.
func (s *StoreApp) BlockContext() context.Context {
	return s.blockContext
}

// DeliverStore returns the store used by delivered transactions.
func (s *StoreApp) DeliverStore() loom.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore returns the store used by checked transactions.
func (s *StoreApp) CheckStore() loom.CacheableKVStore {
	return s.store.CheckStore()
}

// InitChain stores the chain id and loads the application state of the
// genesis. It can be called only once for a store.
func (s *StoreApp) InitChain(gen *Genesis) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "state previously loaded for chain %s", s.chainID)
	}
	if s.initializer == nil {
		return errors.Wrap(errors.ErrHuman, "no initializer")
	}
	if err := saveChainID(s.DeliverStore(), gen.ChainID); err != nil {
		return err
	}
	if err := s.initializer.FromGenesis(gen.AppState, s.DeliverStore()); err != nil {
		return errors.Wrap(err, "genesis")
	}
	s.chainID = gen.ChainID
	s.baseContext = loom.WithChainID(s.baseContext, gen.ChainID)
	s.logger.Info("genesis loaded", "chain_id", gen.ChainID)
	return s.resetBlockContext()
}

// Query dispatches the query to the handler registered for the path. The
// path can end with "?<mod>", for example "/escrows?prefix". Only the
// committed state is visible.
func (s *StoreApp) Query(path string, data []byte) ([]loom.Model, error) {
	var mod string
	if i := strings.Index(path, "?"); i >= 0 {
		path, mod = path[:i], path[i+1:]
	}
	h := s.queryRouter.Handler(path)
	if h == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "unknown query path %q", path)
	}
	return h.Query(s.store.Committed(), mod, data)
}

// Commit writes the delivered state to disk and starts a new version.
func (s *StoreApp) Commit() (loom.CommitID, error) {
	id, err := s.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	s.logger.Info("commit synced", "version", id.Version, "hash", strings.ToUpper(hex.EncodeToString(id.Hash)))
	return id, s.resetBlockContext()
}

// Close releases the underlying store.
func (s *StoreApp) Close() error {
	return s.store.Close()
}

// resetBlockContext sets the height of the next version.
func (s *StoreApp) resetBlockContext() error {
	info, err := s.store.CommitInfo()
	if err != nil {
		return err
	}
	s.blockContext = loom.WithHeight(s.baseContext, info.Version+1)
	return nil
}
