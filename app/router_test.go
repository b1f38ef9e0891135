package app

import (
	"context"
	"testing"

	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/loomtest"
	"github.com/domainlend/loom/loomtest/assert"
)

func TestRouter(t *testing.T) {
	var (
		r  = NewRouter()
		h  = &loomtest.Handler{}
		ok = &loomtest.Msg{RoutePath: "test/good"}
	)
	r.Handle(ok, h)
	assert.Equal(t, 1, r.Paths())

	_, err := r.Check(context.Background(), nil, &loomtest.Tx{Msg: ok})
	assert.Nil(t, err)
	_, err = r.Deliver(context.Background(), nil, &loomtest.Tx{Msg: ok})
	assert.Nil(t, err)
	assert.Equal(t, 2, h.CallCount())

	unknown := &loomtest.Tx{Msg: &loomtest.Msg{RoutePath: "test/unknown"}}
	_, err = r.Deliver(context.Background(), nil, unknown)
	assert.IsErr(t, errors.ErrNotFound, err)

	broken := &loomtest.Tx{Err: errors.ErrInput}
	_, err = r.Check(context.Background(), nil, broken)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestRouterRegistrationPanics(t *testing.T) {
	r := NewRouter()
	r.Handle(&loomtest.Msg{RoutePath: "test/good"}, &loomtest.Handler{})

	assert.Panics(t, func() {
		r.Handle(&loomtest.Msg{RoutePath: "test/good"}, &loomtest.Handler{})
	})
	assert.Panics(t, func() {
		r.Handle(&loomtest.Msg{RoutePath: "no slash"}, &loomtest.Handler{})
	})
}
