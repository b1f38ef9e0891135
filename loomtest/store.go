package loomtest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/domainlend/loom/store/leveldb"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data. Use it instead of MemStore when the exact
// storage implementation of the production instance is wanted.
func CommitKVStore(t testing.TB) (db *leveldb.Store, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "loom")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	db, err = leveldb.Open(dbpath)
	if err != nil {
		os.RemoveAll(dbpath)
		t.Fatalf("cannot open the database: %s", err)
	}
	return db, func() {
		db.Close()
		os.RemoveAll(dbpath)
	}
}
