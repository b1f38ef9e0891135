package orm

import (
	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
)

// ConsumeIterator will read all remaining data and release the iterator.
func ConsumeIterator(itr loom.Iterator) ([]loom.Model, error) {
	defer itr.Release()

	var res []loom.Model
	for {
		key, value, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, loom.Pair(key, value))
	}
}

// prefixRange returns the range of all keys starting with given prefix.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return prefix, end[:i+1]
		}
	}
	// Prefix is all 0xff, no upper limit.
	return prefix, nil
}

// queryPrefix returns all models with keys starting with given prefix.
func queryPrefix(db loom.ReadOnlyKVStore, prefix []byte) ([]loom.Model, error) {
	start, end := prefixRange(prefix)
	itr, err := db.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}
