package escrow

import (
	"regexp"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/codec"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/gconf"
)

const confPkg = "escrow"

var isServiceID = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]{1,32}$`).MatchString

// Configuration of the escrow extension, stored with gconf.
type Configuration struct {
	Metadata *loom.Metadata `json:"metadata"`
	// ServiceID is mixed into every vault authority derivation.
	ServiceID string `json:"service_id"`
	// ReclaimOnWithdraw deletes the vault and the record on withdraw
	// instead of keeping an emptied record.
	ReclaimOnWithdraw bool `json:"reclaim_on_withdraw"`
	// MaxAPY bounds loan offers. Zero means unbounded.
	MaxAPY uint64 `json:"max_apy"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", c.Metadata.Validate())
	if !isServiceID(c.ServiceID) {
		errs = errors.Append(errs, errors.Field("ServiceID", errors.ErrInput, "invalid service id %q", c.ServiceID))
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, c.Metadata)
	e.String(2, c.ServiceID)
	e.Bool(3, c.ReclaimOnWithdraw)
	e.Uint64(4, c.MaxAPY)
	return e.Result()
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			c.Metadata = &loom.Metadata{}
			d.Message(c.Metadata)
		case 2:
			c.ServiceID = d.String()
		case 3:
			c.ReclaimOnWithdraw = d.Bool()
		case 4:
			c.MaxAPY = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

// loadConf returns the configuration of this extension.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, confPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
