package app

import (
	"context"
	"fmt"
	"regexp"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/errors"
)

var isPath = regexp.MustCompile(`^[a-z0-9_\-]+/[a-z0-9_\-]+$`).MatchString

// Router allows us to register many handlers with different paths and
// dispatch a transaction to the handler of its message path.
type Router struct {
	routes map[string]loom.Handler
}

var (
	_ loom.Registry = (*Router)(nil)
	_ loom.Handler  = (*Router)(nil)
)

// NewRouter returns a new empty router.
func NewRouter() *Router {
	return &Router{routes: make(map[string]loom.Handler)}
}

// Handle registers a handler for the path of given message. It panics if
// the path is not valid or is already registered, both being programming
// errors found at startup.
func (r *Router) Handle(m loom.Msg, h loom.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Paths returns the number of registered routes.
func (r *Router) Paths() int {
	return len(r.routes)
}

// Check dispatches to the proper handler based on path.
func (r *Router) Check(ctx context.Context, store loom.KVStore, tx loom.Tx) (*loom.CheckResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path.
func (r *Router) Deliver(ctx context.Context, store loom.KVStore, tx loom.Tx) (*loom.DeliverResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, store, tx)
}

func (r *Router) handler(tx loom.Tx) (loom.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInput, "unknown msg")
	}
	h, ok := r.routes[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for path %q", msg.Path())
	}
	return h, nil
}
