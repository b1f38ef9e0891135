package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	loom.Persistent
	Validate() error
}

// ModelSlicePtr is a pointer to a slice of models. Both []T and []*T are
// accepted, where *T implements Model.
type ModelSlicePtr interface{}

// ModelBucket is implemented by buckets that operate on Models.
type ModelBucket interface {
	// One queries the database for a single model instance. Lookup is
	// done by the primary key. Result is loaded into given destination
	// model. This method returns ErrNotFound if the entity does not exist
	// in the database.
	One(db loom.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists and
	// ErrNotFound otherwise.
	Has(db loom.ReadOnlyKVStore, key []byte) error

	// ByIndex returns all models that are referenced by the given index
	// value, loaded into dest. Primary keys of the returned entities are
	// returned in the same order.
	ByIndex(db loom.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error)

	// Put saves given model in the database. If the key is nil and the
	// bucket was created with a sequence, a new key is allocated. The
	// key used is returned.
	Put(db loom.KVStore, key []byte, m Model) ([]byte, error)

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db loom.KVStore, key []byte) error

	// Register registers the bucket and all its indexes under the given
	// query path.
	Register(name string, r loom.QueryRouter)
}

// ModelBucketOption configures a ModelBucket.
type ModelBucketOption func(*modelBucket)

// WithIndex adds a secondary index to the bucket.
func WithIndex(name string, indexer IndexerFunc, unique bool) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic(fmt.Sprintf("index %q declared twice", name))
		}
		mb.indexes[name] = newIndex(mb.name, name, indexer, unique)
	}
}

// NewModelBucket returns a ModelBucket storing instances of the given model
// type under the given name. It panics if the name is not valid.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %s", name))
	}
	t := reflect.TypeOf(m)
	if t.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("model must be a pointer, got %T", m))
	}
	mb := &modelBucket{
		name:      name,
		prefix:    []byte(name + ":"),
		modelType: t.Elem(),
		indexes:   make(map[string]*index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name      string
	prefix    []byte
	modelType reflect.Type
	indexes   map[string]*index
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey returns a new slice, so that consecutive calls never share the
// prefix backing array.
func (mb *modelBucket) dbKey(key []byte) []byte {
	out := make([]byte, len(mb.prefix)+len(key))
	copy(out, mb.prefix)
	copy(out[len(mb.prefix):], key)
	return out
}

func (mb *modelBucket) newModel() Model {
	return reflect.New(mb.modelType).Interface().(Model)
}

func (mb *modelBucket) load(db loom.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return nil, nil
	}
	m := mb.newModel()
	if err := m.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "cannot unmarshal %s", mb.modelType)
	}
	return m, nil
}

func (mb *modelBucket) One(db loom.ReadOnlyKVStore, key []byte, dest Model) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() || dv.Type().Elem() != mb.modelType {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.modelType)
	}
	m, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if m == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	dv.Elem().Set(reflect.ValueOf(m).Elem())
	return nil
}

func (mb *modelBucket) Has(db loom.ReadOnlyKVStore, key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrNotFound, "nil key")
	}
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) ByIndex(db loom.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "%s has no %q index", mb.name, indexName)
	}

	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() || dv.Elem().Kind() != reflect.Slice {
		return nil, errors.Wrapf(errors.ErrType, "destination must be a pointer to a slice, got %T", dest)
	}
	slice := dv.Elem()
	elemType := slice.Type().Elem()
	asPtr := elemType == reflect.PtrTo(mb.modelType)
	if !asPtr && elemType != mb.modelType {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %s in %T", mb.modelType, dest)
	}

	keys, err := idx.keys(db, key)
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		m, err := mb.load(db, k)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, errors.Wrapf(errors.ErrHuman, "index %q references missing %s %X", indexName, mb.name, k)
		}
		if asPtr {
			slice = reflect.Append(slice, reflect.ValueOf(m))
		} else {
			slice = reflect.Append(slice, reflect.ValueOf(m).Elem())
		}
	}
	dv.Elem().Set(slice)
	return keys, nil
}

func (mb *modelBucket) Put(db loom.KVStore, key []byte, m Model) ([]byte, error) {
	if reflect.TypeOf(m) != reflect.PtrTo(mb.modelType) {
		return nil, errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid model")
	}

	if len(key) == 0 {
		return nil, errors.Wrap(errors.ErrInput, "key is required")
	}

	prev, err := mb.load(db, key)
	if err != nil {
		return nil, err
	}
	for _, idx := range mb.indexes {
		if err := idx.update(db, key, prev, m); err != nil {
			return nil, err
		}
	}

	raw, err := m.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize model")
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return nil, errors.Wrap(err, "cannot store in the database")
	}
	return key, nil
}

func (mb *modelBucket) Delete(db loom.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	for _, idx := range mb.indexes {
		if err := idx.update(db, key, prev, nil); err != nil {
			return err
		}
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

func (mb *modelBucket) Register(name string, r loom.QueryRouter) {
	if name == "" {
		name = mb.name
	}
	root := "/" + name
	r.Register(root, bucketQuery{mb})
	for n, idx := range mb.indexes {
		r.Register(root+"/"+n, indexQuery{mb: mb, idx: idx})
	}
}

// bucketQuery serves lookups by primary key or key prefix. Returned model
// keys are primary keys, without the bucket prefix.
type bucketQuery struct {
	mb *modelBucket
}

func (q bucketQuery) Query(db loom.ReadOnlyKVStore, mod string, data []byte) ([]loom.Model, error) {
	switch mod {
	case loom.KeyQueryMod:
		raw, err := db.Get(q.mb.dbKey(data))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, nil
		}
		return []loom.Model{loom.Pair(data, raw)}, nil
	case loom.PrefixQueryMod:
		found, err := queryPrefix(db, q.mb.dbKey(data))
		if err != nil {
			return nil, err
		}
		for i := range found {
			found[i].Key = found[i].Key[len(q.mb.prefix):]
		}
		return found, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// indexQuery serves lookups by an index value. Referenced entities are
// returned.
type indexQuery struct {
	mb  *modelBucket
	idx *index
}

func (q indexQuery) Query(db loom.ReadOnlyKVStore, mod string, data []byte) ([]loom.Model, error) {
	if mod != loom.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported index query mod %q", mod)
	}
	keys, err := q.idx.keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]loom.Model, 0, len(keys))
	for _, k := range keys {
		raw, err := db.Get(q.mb.dbKey(k))
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, errors.Wrapf(errors.ErrHuman, "index references missing %s %X", q.mb.name, k)
		}
		res = append(res, loom.Pair(k, raw))
	}
	return res, nil
}
