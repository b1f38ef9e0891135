package store

import (
	"bytes"

	"github.com/domainlend/loom/errors"
	"github.com/google/btree"
)

// collectRange returns a snapshot of all btree items in [start, end), in
// the order of iteration. A nil bound is unlimited.
func collectRange(bt *btree.BTree, start, end []byte, reverse bool) []keyer {
	var res []keyer
	add := func(i btree.Item) bool {
		res = append(res, i.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(add)
	case start == nil:
		bt.AscendLessThan(bkey{end}, add)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, add)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, add)
	}
	if reverse {
		for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
			res[i], res[j] = res[j], res[i]
		}
	}
	return res
}

// itemIter merges the cached items with the iterator of the parent store.
// Cached items take precedence over parent entries of the same key, and
// deleted items hide them.
type itemIter struct {
	items   []keyer
	pos     int
	reverse bool

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentDone bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []keyer, parent Iterator, reverse bool) (*itemIter, error) {
	it := &itemIter{
		items:   items,
		reverse: reverse,
		parent:  parent,
	}
	if err := it.advanceParent(); err != nil {
		parent.Release()
		return nil, err
	}
	return it, nil
}

func (i *itemIter) advanceParent() error {
	key, value, err := i.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		i.parentDone = true
		i.parentKey, i.parentVal = nil, nil
		return nil
	}
	if err != nil {
		return err
	}
	i.parentKey, i.parentVal = key, value
	return nil
}

// source marks where the next item comes from.
type source int32

const (
	us source = iota
	parent
	both
)

func (i *itemIter) next() source {
	if i.pos >= len(i.items) {
		return parent
	}
	if i.parentDone {
		return us
	}
	cmp := bytes.Compare(i.items[i.pos].Key(), i.parentKey)
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return us
	case cmp > 0:
		return parent
	default:
		return both
	}
}

// Next implements Iterator.
func (i *itemIter) Next() (key, value []byte, err error) {
	for {
		if i.pos >= len(i.items) && i.parentDone {
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache wrap iterator")
		}

		switch i.next() {
		case parent:
			key, value = i.parentKey, i.parentVal
			if err := i.advanceParent(); err != nil {
				return nil, nil, err
			}
			return key, value, nil
		case both:
			// Cached value shadows the parent entry.
			if err := i.advanceParent(); err != nil {
				return nil, nil, err
			}
		}

		item := i.items[i.pos]
		i.pos++
		if s, ok := item.(setItem); ok {
			return s.key, s.value, nil
		}
	}
}

// Release releases the parent iterator.
func (i *itemIter) Release() {
	i.parent.Release()
}
