package escrow

import (
	"context"
	"testing"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/gconf"
	"github.com/domainlend/loom/loomtest"
	"github.com/domainlend/loom/loomtest/assert"
	"github.com/domainlend/loom/store"
	"github.com/domainlend/loom/x"
	"github.com/domainlend/loom/x/token"
)

const testServiceID = "test-service"

// routes is a minimal registry dispatching by message path.
type routes map[string]loom.Handler

func (r routes) Handle(m loom.Msg, h loom.Handler) {
	r[m.Path()] = h
}

type fixture struct {
	db     loom.CacheableKVStore
	auth   *loomtest.CtxAuth
	ledger token.Controller
	routes routes

	maker  loom.Condition
	other  loom.Condition
	domain loom.Address
	usd    loom.Address
}

func newFixture(t testing.TB, conf Configuration) *fixture {
	t.Helper()

	auth := &loomtest.CtxAuth{Key: "auth"}
	f := &fixture{
		db:     store.MemStore(),
		auth:   auth,
		ledger: token.NewController(x.ChainAuth(auth, Authenticate{})),
		routes: routes{},
		maker:  loomtest.KeyFromSeed(1).PublicKey().Condition(),
		other:  loomtest.KeyFromSeed(2).PublicKey().Condition(),
		domain: loomtest.KeyFromSeed(10).PublicKey().Address(),
		usd:    loomtest.KeyFromSeed(11).PublicKey().Address(),
	}
	RegisterRoutes(f.routes, auth, f.ledger)

	mints := token.NewMintBucket()
	_, err := mints.Put(f.db, f.domain, &token.Mint{Metadata: &loom.Metadata{Schema: 1}, Symbol: "EXAMPLE.COM"})
	assert.Nil(t, err)
	_, err = mints.Put(f.db, f.usd, &token.Mint{Metadata: &loom.Metadata{Schema: 1}, Decimals: 6, Symbol: "USD"})
	assert.Nil(t, err)
	assert.Nil(t, f.ledger.Issue(f.db, f.maker.Address(), f.domain, 1))
	assert.Nil(t, f.ledger.Issue(f.db, f.maker.Address(), f.usd, 1000000))

	if conf.Metadata == nil {
		conf.Metadata = &loom.Metadata{Schema: 1}
	}
	if conf.ServiceID == "" {
		conf.ServiceID = testServiceID
	}
	assert.Nil(t, gconf.Save(f.db, confPkg, &conf))
	return f
}

// signed returns a context authenticated by given conditions.
func (f *fixture) signed(conds ...loom.Condition) context.Context {
	return f.auth.SetConditions(context.Background(), conds...)
}

func (f *fixture) check(ctx context.Context, msg loom.Msg) error {
	_, err := f.routes[msg.Path()].Check(ctx, f.db, &loomtest.Tx{Msg: msg})
	return err
}

func (f *fixture) deliver(ctx context.Context, msg loom.Msg) (*loom.DeliverResult, error) {
	return f.routes[msg.Path()].Deliver(ctx, f.db, &loomtest.Tx{Msg: msg})
}

// deposit delivers a deposit of the domain by the maker and returns the
// escrow id.
func (f *fixture) deposit(t testing.TB, nonce uint64) loom.Address {
	t.Helper()
	res, err := f.deliver(f.signed(f.maker), &DepositMsg{
		Metadata:     &loom.Metadata{Schema: 1},
		Nonce:        nonce,
		AssetMint:    f.domain,
		CurrencyMint: f.usd,
	})
	assert.Nil(t, err)
	return res.Data
}

func (f *fixture) escrow(t testing.TB, id loom.Address) *Escrow {
	t.Helper()
	var e Escrow
	assert.Nil(t, NewBucket().One(f.db, id, &e))
	return &e
}

func (f *fixture) balance(t testing.TB, owner, mint loom.Address) uint64 {
	t.Helper()
	n, err := f.ledger.Balance(f.db, owner, mint)
	assert.Nil(t, err)
	return n
}
