/*
Package app links together all the various components
to construct the escrowd application.
*/
package app

import (
	"context"
	"path/filepath"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/app"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/migration"
	"github.com/domainlend/loom/store/leveldb"
	"github.com/domainlend/loom/x"
	"github.com/domainlend/loom/x/escrow"
	"github.com/domainlend/loom/x/sigs"
	"github.com/domainlend/loom/x/token"
	"github.com/domainlend/loom/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Authenticator returns the authentication of transaction signers, just
// using public key signatures.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Ledger returns the token controller. Holdings can be moved by their
// signing authority or, while an escrow transition runs, by the vault
// authority that escrow grants.
func Ledger() token.Controller {
	return token.NewController(x.ChainAuth(sigs.Authenticate{}, escrow.Authenticate{}))
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery. A nil registerer disables metrics.
func Chain(reg prometheus.Registerer) app.Decorators {
	var metrics loom.Decorator
	if reg != nil {
		metrics = utils.NewMetrics(reg)
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment the nonce even if the
		// message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching all escrow and token messages.
func Router(authFn x.Authenticator, ledger token.Controller) *app.Router {
	r := app.NewRouter()
	token.RegisterRoutes(r, authFn, ledger)
	escrow.RegisterRoutes(r, authFn, ledger)
	return r
}

// QueryRouter returns a default query router, allowing access to
// "/auth", "/mints", "/holdings", "/escrows" and "/schemas".
func QueryRouter() loom.QueryRouter {
	r := loom.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		token.RegisterQuery,
		escrow.RegisterQuery,
		migration.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis loaders of all extensions.
func Initializers() loom.Initializer {
	return loom.MultiInitializer{
		migration.Initializer{},
		token.Initializer{},
		escrow.Initializer{},
	}
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(reg prometheus.Registerer) loom.Handler {
	return Chain(reg).WithHandler(Router(Authenticator(), Ledger()))
}

// Application constructs the escrow application over the given store. If
// you are not sure what to use for the Handler, just use Stack().
func Application(name string, h loom.Handler, kv loom.CommitKVStore, debug bool) (*app.BaseApp, error) {
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return nil, err
	}
	store.WithInit(Initializers())
	return app.NewBaseApp(store, TxDecoder, h, debug), nil
}

// CommitKVStore returns an initialized store that persists the data in the
// given directory. An empty path returns a memory backed store, useful for
// testing.
func CommitKVStore(dbPath string) (loom.CommitKVStore, error) {
	var (
		db  *leveldb.Store
		err error
	)
	if dbPath == "" {
		db, err = leveldb.OpenMemory()
	} else {
		path, perr := filepath.Abs(dbPath)
		if perr != nil {
			return nil, errors.Wrapf(errors.ErrInput, "invalid database path %q", dbPath)
		}
		db, err = leveldb.Open(path)
	}
	if err != nil {
		return nil, err
	}
	return db, nil
}
