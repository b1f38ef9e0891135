/*
Package leveldb provides a durable CommitKVStore on top of goleveldb.

Transactions work on cache wraps of the store. Written cache wraps are
staged in memory and land on disk together with the new version number as
a single atomic leveldb batch when Commit is called, so a crash never
leaves a partially applied state behind.
*/
package leveldb

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/store"
	"github.com/syndtr/goleveldb/leveldb"
	ldbiter "github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	dataPrefix byte = 'd'
	metaPrefix byte = 'm'
)

var versionKey = []byte{metaPrefix, 'v'}

// Store is a CommitKVStore persisting data in a leveldb database.
type Store struct {
	db     *leveldb.DB
	latest loom.CommitID
	staged store.BTreeCacheWrap
	batch  *batch
}

var _ loom.CommitKVStore = (*Store)(nil)

// Open opens or creates a database in the given directory and loads the
// latest committed version.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s: %s", dir, err)
	}
	return newStore(db)
}

// OpenMemory returns a store backed by an in-memory leveldb storage. It is
// useful for tests.
func OpenMemory() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open memory: %s", err)
	}
	return newStore(db)
}

func newStore(db *leveldb.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.LoadLatestVersion(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// LoadLatestVersion reads the last committed version and drops everything
// that was staged but not committed.
func (s *Store) LoadLatestVersion() error {
	raw, err := s.db.Get(versionKey, nil)
	switch {
	case err == leveldb.ErrNotFound:
		s.latest = loom.CommitID{}
	case err != nil:
		return errors.Wrapf(errors.ErrDatabase, "load version: %s", err)
	case len(raw) != 8+sha256.Size:
		return errors.Wrapf(errors.ErrDatabase, "malformed version record of %d bytes", len(raw))
	default:
		s.latest = loom.CommitID{
			Version: int64(binary.BigEndian.Uint64(raw[:8])),
			Hash:    append([]byte(nil), raw[8:]...),
		}
	}
	s.resetStaged()
	return nil
}

func (s *Store) resetStaged() {
	s.batch = newBatch(s.db, s.latest.Hash)
	s.staged = store.NewBTreeCacheWrap(committed{s.db}, s.batch, nil)
}

// LatestVersion returns the last committed version.
func (s *Store) LatestVersion() (loom.CommitID, error) {
	return s.latest, nil
}

// CacheWrap returns a cache on top of the staged, not yet committed state.
// Writing it stages the changes for the next Commit.
func (s *Store) CacheWrap() loom.KVCacheWrap {
	return s.staged.CacheWrap()
}

// Commit writes all staged changes together with the next version number
// as one atomic batch.
func (s *Store) Commit() (loom.CommitID, error) {
	id := loom.CommitID{
		Version: s.latest.Version + 1,
		Hash:    s.batch.digest(),
	}
	s.batch.setVersion(id)
	if err := s.staged.Write(); err != nil {
		s.resetStaged()
		return loom.CommitID{}, err
	}
	s.latest = id
	s.resetStaged()
	return id, nil
}

// Get returns the committed value of the key.
func (s *Store) Get(key []byte) ([]byte, error) {
	return committed{s.db}.Get(key)
}

// Has returns true if the key exists in the committed state.
func (s *Store) Has(key []byte) (bool, error) {
	return committed{s.db}.Has(key)
}

// Iterator iterates the committed state in ascending key order.
func (s *Store) Iterator(start, end []byte) (loom.Iterator, error) {
	return committed{s.db}.Iterator(start, end)
}

// ReverseIterator iterates the committed state in descending key order.
func (s *Store) ReverseIterator(start, end []byte) (loom.Iterator, error) {
	return committed{s.db}.ReverseIterator(start, end)
}

// Close closes the database. Staged changes are lost.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "close: %s", err)
	}
	return nil
}

// committed gives read access to the data keys of the database.
type committed struct {
	db *leveldb.DB
}

var _ loom.ReadOnlyKVStore = committed{}

func dataKey(key []byte) []byte {
	return append([]byte{dataPrefix}, key...)
}

func (c committed) Get(key []byte) ([]byte, error) {
	val, err := c.db.Get(dataKey(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "get: %s", err)
	}
	return val, nil
}

func (c committed) Has(key []byte) (bool, error) {
	ok, err := c.db.Has(dataKey(key), nil)
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "has: %s", err)
	}
	return ok, nil
}

func (c committed) Iterator(start, end []byte) (loom.Iterator, error) {
	return &iterator{it: c.db.NewIterator(dataRange(start, end), nil)}, nil
}

func (c committed) ReverseIterator(start, end []byte) (loom.Iterator, error) {
	return &iterator{it: c.db.NewIterator(dataRange(start, end), nil), reverse: true}, nil
}

// dataRange maps a [start, end) range of the user key space to the data
// prefix. A nil bound is unlimited.
func dataRange(start, end []byte) *util.Range {
	r := util.BytesPrefix([]byte{dataPrefix})
	if start != nil {
		r.Start = dataKey(start)
	}
	if end != nil {
		r.Limit = dataKey(end)
	}
	return r
}

type iterator struct {
	it      ldbiter.Iterator
	reverse bool
	started bool
}

var _ loom.Iterator = (*iterator)(nil)

func (i *iterator) Next() (key, value []byte, err error) {
	var ok bool
	switch {
	case !i.started && i.reverse:
		ok = i.it.Last()
	case !i.started:
		ok = i.it.First()
	case i.reverse:
		ok = i.it.Prev()
	default:
		ok = i.it.Next()
	}
	i.started = true
	if !ok {
		if err := i.it.Error(); err != nil {
			return nil, nil, errors.Wrapf(errors.ErrDatabase, "iterator: %s", err)
		}
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "leveldb iterator")
	}
	// The iterator reuses its buffers, so both must be copied.
	key = append([]byte(nil), i.it.Key()[1:]...)
	value = append([]byte(nil), i.it.Value()...)
	return key, value, nil
}

func (i *iterator) Release() {
	i.it.Release()
}

// batch collects the writes of one commit in a leveldb batch and keeps a
// running digest of them.
type batch struct {
	db  *leveldb.DB
	b   *leveldb.Batch
	sum hash.Hash
}

var _ loom.Batch = (*batch)(nil)

func newBatch(db *leveldb.DB, prevHash []byte) *batch {
	sum := sha256.New()
	_, _ = sum.Write(prevHash)
	return &batch{db: db, b: new(leveldb.Batch), sum: sum}
}

func (b *batch) Set(key, value []byte) error {
	b.b.Put(dataKey(key), value)
	b.record('s', key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(dataKey(key))
	b.record('d', key, nil)
	return nil
}

func (b *batch) record(op byte, key, value []byte) {
	var n [8]byte
	_, _ = b.sum.Write([]byte{op})
	binary.BigEndian.PutUint64(n[:], uint64(len(key)))
	_, _ = b.sum.Write(n[:])
	_, _ = b.sum.Write(key)
	binary.BigEndian.PutUint64(n[:], uint64(len(value)))
	_, _ = b.sum.Write(n[:])
	_, _ = b.sum.Write(value)
}

func (b *batch) digest() []byte {
	return b.sum.Sum(nil)
}

func (b *batch) setVersion(id loom.CommitID) {
	raw := make([]byte, 8, 8+len(id.Hash))
	binary.BigEndian.PutUint64(raw, uint64(id.Version))
	b.b.Put(versionKey, append(raw, id.Hash...))
}

func (b *batch) Write() error {
	if err := b.db.Write(b.b, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write batch: %s", err)
	}
	b.b.Reset()
	return nil
}
