package migration

import (
	"reflect"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/orm"
)

// ModelBucket implements the orm.ModelBucket interface and provides the same
// functionality with additional model schema migration.
//
// Queries are not migrated and return data as it is stored.
type ModelBucket struct {
	orm.ModelBucket
	packageName string
	migrations  *register
}

var _ orm.ModelBucket = (*ModelBucket)(nil)

// NewModelBucket wraps given bucket so that all models are migrated to the
// current schema version of the package.
func NewModelBucket(packageName string, b orm.ModelBucket) *ModelBucket {
	return &ModelBucket{
		ModelBucket: b,
		packageName: packageName,
		migrations:  reg,
	}
}

func (m *ModelBucket) One(db loom.ReadOnlyKVStore, key []byte, dest orm.Model) error {
	if err := m.ModelBucket.One(db, key, dest); err != nil {
		return err
	}
	if err := m.migrate(db, dest); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return nil
}

func (m *ModelBucket) ByIndex(db loom.ReadOnlyKVStore, indexName string, key []byte, dest orm.ModelSlicePtr) ([][]byte, error) {
	keys, err := m.ModelBucket.ByIndex(db, indexName, key, dest)
	if err != nil {
		return nil, err
	}

	// The type of dest was already validated by the wrapped bucket, it is
	// a pointer to a slice of models or model pointers.
	slice := reflect.ValueOf(dest).Elem()
	for i := 0; i < slice.Len(); i++ {
		item := slice.Index(i)
		var model orm.Model
		if mod, ok := item.Interface().(orm.Model); ok {
			model = mod
		} else {
			model = item.Addr().Interface().(orm.Model)
		}
		if err := m.migrate(db, model); err != nil {
			return nil, errors.Wrapf(err, "migrate %d element", i)
		}
	}
	return keys, nil
}

func (m *ModelBucket) Put(db loom.KVStore, key []byte, model orm.Model) ([]byte, error) {
	if err := m.migrate(db, model); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}
	return m.ModelBucket.Put(db, key, model)
}

// useRegister will update this bucket to use a custom register instead of
// the global one. It is meant to be used by tests only.
func (m *ModelBucket) useRegister(r *register) {
	m.migrations = r
}

func (m *ModelBucket) migrate(db loom.ReadOnlyKVStore, model orm.Model) error {
	mig, ok := model.(Migratable)
	if !ok {
		return errors.Wrapf(errors.ErrModel, "%T cannot be migrated", model)
	}
	current, err := CurrentSchema(db, m.packageName)
	if err != nil {
		return errors.Wrapf(err, "current schema version of package %q", m.packageName)
	}
	meta := mig.GetMetadata()
	if meta == nil {
		return errors.Wrapf(errors.ErrMetadata, "%T metadata is nil", model)
	}
	if meta.Schema > current {
		return errors.Wrapf(ErrSchema, "model schema higher than %d", current)
	}
	// Migration is applied in place, directly modifying the instance.
	if err := m.migrations.Apply(db, mig, current); err != nil {
		return errors.Wrap(err, "schema migration")
	}
	return nil
}
