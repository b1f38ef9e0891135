package migration

import (
	"regexp"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/codec"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/orm"
)

var isPkgName = regexp.MustCompile(`^[a-z][a-z0-9_]{1,31}$`).MatchString

// Schema declares the current schema version of a package.
type Schema struct {
	Metadata *loom.Metadata `json:"metadata"`
	Pkg      string         `json:"pkg"`
	Version  uint32         `json:"version"`
}

var _ orm.Model = (*Schema)(nil)

func (s *Schema) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", s.Metadata.Validate())
	if !isPkgName(s.Pkg) {
		errs = errors.Append(errs, errors.Field("Pkg", errors.ErrInput, "invalid package name %q", s.Pkg))
	}
	if s.Version < 1 {
		errs = errors.Append(errs, errors.Field("Version", errors.ErrInput, "version must be greater than zero"))
	}
	return errs
}

func (s *Schema) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, s.Metadata)
	e.String(2, s.Pkg)
	e.Uint32(3, s.Version)
	return e.Result()
}

func (s *Schema) Unmarshal(raw []byte) error {
	*s = Schema{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			s.Metadata = &loom.Metadata{}
			d.Message(s.Metadata)
		case 2:
			s.Pkg = d.String()
		case 3:
			s.Version = d.Uint32()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// NewSchemaBucket returns a bucket storing one schema per package, keyed by
// the package name. It is a plain orm bucket, so that schemas are never
// migrated themselves.
func NewSchemaBucket() orm.ModelBucket {
	return orm.NewModelBucket("schema", &Schema{})
}

// RegisterQuery registers the schema bucket under "/schemas".
func RegisterQuery(qr loom.QueryRouter) {
	NewSchemaBucket().Register("schemas", qr)
}

// CurrentSchema returns the current schema version of given package.
// Packages that never declared a schema are at version one.
func CurrentSchema(db loom.ReadOnlyKVStore, pkg string) (uint32, error) {
	var s Schema
	switch err := NewSchemaBucket().One(db, []byte(pkg), &s); {
	case err == nil:
		return s.Version, nil
	case errors.ErrNotFound.Is(err):
		return 1, nil
	default:
		return 0, errors.Wrap(err, "schema bucket")
	}
}

// Upgrade bumps the schema version of given package by one and returns the
// new version. Models of this package are migrated to the new version when
// they are loaded or stored next time.
func Upgrade(db loom.KVStore, pkg string) (uint32, error) {
	current, err := CurrentSchema(db, pkg)
	if err != nil {
		return 0, err
	}
	s := &Schema{
		Metadata: &loom.Metadata{Schema: 1},
		Pkg:      pkg,
		Version:  current + 1,
	}
	if _, err := NewSchemaBucket().Put(db, []byte(pkg), s); err != nil {
		return 0, errors.Wrapf(err, "save %s schema", pkg)
	}
	return s.Version, nil
}
