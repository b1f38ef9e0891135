package loom

// ReadOnlyKVStore is a simple interface to query data.
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is exclusive.
	// Start must be less than end, or the Iterator is invalid.
	// CONTRACT: No writes may happen within a domain while an iterator
	// exists over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator over a domain of keys in descending order. End is
	// exclusive. Start must be less than end.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is a minimal interface for writing, unifying KVStore and
// Batch.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is a simple interface to get/set data.
//
// For simplicity, we require all backing stores to implement this
// interface. They *may* implement other methods as well, but at least
// these are required.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter

	// NewBatch returns a batch that can write multiple ops atomically.
	NewBatch() Batch
}

// Batch can write multiple ops atomically to an underlying KVStore.
type Batch interface {
	SetDeleter
	Write() error
}

/*
Iterator allows us to access a set of items within a range of keys.

	itr, err := db.Iterator(start, end)
	if err != nil {
		return err
	}
	defer itr.Release()

	for {
		key, value, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		} else if err != nil {
			return err
		}
		// ...
	}
*/
type Iterator interface {
	// Next moves the iterator to the next key in the order of iteration
	// and returns it together with its value. It returns
	// errors.ErrIteratorDone once all entries were consumed.
	// CONTRACT: key and value are readonly []byte
	Next() (key, value []byte, err error)

	// Release releases the Iterator. It is safe to call it more than
	// once.
	Release()
}

// CacheableKVStore is a KVStore that supports cache wrapping. CacheWrap
// should not return a committer, since Commit on a cache-wrap makes no
// sense.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap maintains a scratch-pad of uncommitted data that we can view
// with all queries. Like a SQL savepoint, at the end call Write to use the
// cached data, or Discard to drop it.
type KVCacheWrap interface {
	// CacheableKVStore allows us to use this cache recursively.
	CacheableKVStore

	// Write syncs with the underlying store.
	Write() error

	// Discard invalidates this CacheWrap and releases all data.
	Discard()
}

// CommitKVStore is a store that persists state and keeps a version counter
// increased on every commit.
type CommitKVStore interface {
	ReadOnlyKVStore

	// CacheWrap returns a cache to perform actions on. Writing the cache
	// stages the changes for the next commit.
	CacheWrap() KVCacheWrap

	// Commit persists all staged writes as the next version.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the latest persisted version. If there was
	// a crash during the last commit, it is guaranteed to return a
	// stable state, even if older.
	LoadLatestVersion() error

	// LatestVersion returns info on the latest version saved to disk.
	LatestVersion() (CommitID, error)

	// Close releases all resources.
	Close() error
}

// CommitID contains the version number and a digest of the written data.
type CommitID struct {
	Version int64
	Hash    []byte
}
