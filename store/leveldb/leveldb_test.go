package leveldb

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/loomtest/assert"
	"github.com/domainlend/loom/store"
)

// autoCommit writes every change straight to the database, so that the
// generic store suite exercises leveldb reads and iterators.
type autoCommit struct {
	*Store
}

var _ loom.KVStore = autoCommit{}

func (a autoCommit) apply(op store.Op) error {
	cache := a.Store.CacheWrap()
	if err := op.Apply(cache); err != nil {
		return err
	}
	if err := cache.Write(); err != nil {
		return err
	}
	_, err := a.Store.Commit()
	return err
}

func (a autoCommit) Set(key, value []byte) error {
	return a.apply(store.SetOp(key, value))
}

func (a autoCommit) Delete(key []byte) error {
	return a.apply(store.DelOp(key))
}

func (a autoCommit) NewBatch() loom.Batch {
	return store.NewNonAtomicBatch(a)
}

func TestStoreSuite(t *testing.T) {
	suite := store.NewTestSuite(func() (store.CacheableKVStore, func()) {
		db, err := OpenMemory()
		assert.Nil(t, err)
		return store.BTreeCacheable{KVStore: autoCommit{db}}, func() { _ = db.Close() }
	})
	suite.RunAll(t)
}

func TestCommitIsVersioned(t *testing.T) {
	db, err := OpenMemory()
	assert.Nil(t, err)
	defer db.Close()

	id, err := db.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, int64(0), id.Version)

	cache := db.CacheWrap()
	assert.Nil(t, cache.Set([]byte("escrow"), []byte("funded")))
	assert.Nil(t, cache.Write())

	// Staged data is not visible in the committed state.
	v, err := db.Get([]byte("escrow"))
	assert.Nil(t, err)
	assert.Nil(t, v)

	// But it is visible to the following cache wraps.
	v, err = db.CacheWrap().Get([]byte("escrow"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("funded"), v)

	first, err := db.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.Equal(t, 32, len(first.Hash))

	v, err = db.Get([]byte("escrow"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("funded"), v)

	// An empty commit still increases the version and chains the hash.
	second, err := db.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(2), second.Version)
	if string(first.Hash) == string(second.Hash) {
		t.Fatal("hash must change with every version")
	}
}

func TestDiscardedCacheIsNotCommitted(t *testing.T) {
	db, err := OpenMemory()
	assert.Nil(t, err)
	defer db.Close()

	cache := db.CacheWrap()
	assert.Nil(t, cache.Set([]byte("vault"), []byte("1")))
	cache.Discard()

	_, err = db.Commit()
	assert.Nil(t, err)
	ok, err := db.Has([]byte("vault"))
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
}

func TestPersistence(t *testing.T) {
	dir, err := ioutil.TempDir("", "loom-leveldb")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	db, err := Open(dir)
	assert.Nil(t, err)
	cache := db.CacheWrap()
	assert.Nil(t, cache.Set([]byte("a"), []byte("1")))
	assert.Nil(t, cache.Write())
	committed, err := db.Commit()
	assert.Nil(t, err)

	// Staged, but never committed.
	cache = db.CacheWrap()
	assert.Nil(t, cache.Set([]byte("b"), []byte("2")))
	assert.Nil(t, cache.Write())
	assert.Nil(t, db.Close())

	db, err = Open(dir)
	assert.Nil(t, err)
	defer db.Close()

	id, err := db.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, committed, id)

	v, err := db.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), v)
	v, err = db.Get([]byte("b"))
	assert.Nil(t, err)
	assert.Nil(t, v)
}

func TestSameWritesProduceSameHash(t *testing.T) {
	commit := func() loom.CommitID {
		db, err := OpenMemory()
		assert.Nil(t, err)
		defer db.Close()
		cache := db.CacheWrap()
		assert.Nil(t, cache.Set([]byte("a"), []byte("1")))
		assert.Nil(t, cache.Delete([]byte("b")))
		assert.Nil(t, cache.Write())
		id, err := db.Commit()
		assert.Nil(t, err)
		return id
	}
	assert.Equal(t, commit(), commit())
}
