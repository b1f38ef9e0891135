package migration

import (
	"reflect"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
)

// Migratable is implemented by models that carry schema information.
type Migratable interface {
	GetMetadata() *loom.Metadata
	Validate() error
}

// Migrator is a function that migrates a model from version
// requiredVersion-1 to requested version.
type Migrator func(db loom.ReadOnlyKVStore, m Migratable) error

// NoModification is a migration function that migrates data that requires
// no change. It should be used to register migrations that do not require
// any modification.
func NoModification(db loom.ReadOnlyKVStore, m Migratable) error {
	return nil
}

func newRegister() *register {
	return &register{
		handlers: make(map[payloadVersion]Migrator),
	}
}

type register struct {
	handlers map[payloadVersion]Migrator
}

// payloadVersion references a model at a given schema version.
type payloadVersion struct {
	payload reflect.Type
	version uint32
}

func (r *register) MustRegister(migrationTo uint32, m Migratable, fn Migrator) {
	if err := r.Register(migrationTo, m, fn); err != nil {
		panic(err)
	}
}

func (r *register) Register(migrationTo uint32, m Migratable, fn Migrator) error {
	tp, err := structType(m)
	if err != nil {
		return err
	}
	if migrationTo < 1 {
		return errors.Wrap(errors.ErrInput, "version must be greater than zero")
	}
	pv := payloadVersion{version: migrationTo, payload: tp}
	if _, ok := r.handlers[pv]; ok {
		return errors.Wrapf(errors.ErrDuplicate, "already registered: %s.%s:%d", tp.PkgPath(), tp.Name(), migrationTo)
	}
	r.handlers[pv] = fn
	return nil
}

func (r *register) Apply(db loom.ReadOnlyKVStore, m Migratable, migrateTo uint32) error {
	tp, err := structType(m)
	if err != nil {
		return err
	}
	meta := m.GetMetadata()
	if meta == nil {
		return errors.Wrapf(errors.ErrMetadata, "%T metadata is nil", m)
	}
	for v := meta.Schema + 1; v <= migrateTo; v++ {
		migrate, ok := r.handlers[payloadVersion{payload: tp, version: v}]
		if !ok {
			return errors.Wrapf(ErrSchema, "migration to version %d missing", v)
		}
		if err := migrate(db, m); err != nil {
			return errors.Wrapf(err, "migration to version %d", v)
		}
		meta.Schema = v
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "validation")
	}
	return nil
}

func structType(m Migratable) (reflect.Type, error) {
	tp := reflect.TypeOf(m)
	for tp != nil && tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}
	if tp == nil || tp.Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrType, "only struct can be migrated, got %T", m)
	}
	return tp, nil
}

// reg is the register used by the application. Migrations must be
// registered during program initialization.
var reg = newRegister()

// MustRegister registers a migration of given model to given version. It
// panics if a migration for this version was already registered.
func MustRegister(migrationTo uint32, m Migratable, fn Migrator) {
	reg.MustRegister(migrationTo, m, fn)
}

// Apply updates a model by applying all missing migrations. Even a no
// modification migration is updating the metadata to point to the latest
// data format version. A model already at migrateTo is only validated.
//
// Because changes are applied directly on the passed model, even if this
// function fails some of the migrations might be applied.
//
// Validation method is called only on the final version of the model.
func Apply(db loom.ReadOnlyKVStore, m Migratable, migrateTo uint32) error {
	return reg.Apply(db, m, migrateTo)
}
