package loom

import (
	"testing"

	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/loomtest/assert"
)

type demoMsg struct {
	Num   int
	Valid bool
}

var _ Msg = (*demoMsg)(nil)

func (*demoMsg) Path() string              { return "demo/msg" }
func (*demoMsg) Marshal() ([]byte, error)  { return []byte("demo"), nil }
func (*demoMsg) Unmarshal(bz []byte) error { return nil }
func (m *demoMsg) Validate() error {
	if !m.Valid {
		return errors.Wrap(errors.ErrMsg, "not valid")
	}
	return nil
}

type otherMsg struct {
	demoMsg
}

func (*otherMsg) Path() string { return "demo/other" }

type demoTx struct {
	msg Msg
	err error
}

func (*demoTx) Marshal() ([]byte, error) { return nil, nil }
func (*demoTx) Unmarshal([]byte) error   { return nil }
func (tx *demoTx) GetMsg() (Msg, error)  { return tx.msg, tx.err }

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		tx      Tx
		dest    interface{}
		want    interface{}
		wantErr *errors.Error
	}{
		"load into a value": {
			tx:   &demoTx{msg: &demoMsg{Num: 3, Valid: true}},
			dest: &demoMsg{},
			want: &demoMsg{Num: 3, Valid: true},
		},
		"load into a pointer": {
			tx:   &demoTx{msg: &demoMsg{Num: 4, Valid: true}},
			dest: new(*demoMsg),
			want: func() interface{} { m := &demoMsg{Num: 4, Valid: true}; return &m }(),
		},
		"message is validated": {
			tx:      &demoTx{msg: &demoMsg{Num: 3}},
			dest:    &demoMsg{},
			wantErr: errors.ErrMsg,
		},
		"wrong message type": {
			tx:      &demoTx{msg: &otherMsg{demoMsg{Valid: true}}},
			dest:    &demoMsg{},
			wantErr: errors.ErrType,
		},
		"missing message": {
			tx:      &demoTx{},
			dest:    &demoMsg{},
			wantErr: errors.ErrMsg,
		},
		"tx error is returned": {
			tx:      &demoTx{err: errors.ErrInput},
			dest:    &demoMsg{},
			wantErr: errors.ErrInput,
		},
		"destination must be a pointer": {
			tx:      &demoTx{msg: &demoMsg{Valid: true}},
			dest:    demoMsg{},
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := LoadMsg(tc.tx, tc.dest)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, tc.dest)
			}
		})
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "demo/msg", GetPath(&demoTx{msg: &demoMsg{}}))
	assert.Equal(t, "(missing)", GetPath(&demoTx{}))
}
