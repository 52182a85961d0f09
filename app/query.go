package app

import (
	"fmt"
	"regexp"

	treasury "github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// QueryHandler returns the models found for given key. An empty key
// means all entities.
type QueryHandler interface {
	Query(db treasury.ReadOnlyKVStore, key []byte) ([]treasury.Model, error)
}

// QueryHandlerFunc is an adapter to use a function as a QueryHandler.
type QueryHandlerFunc func(db treasury.ReadOnlyKVStore, key []byte) ([]treasury.Model, error)

// Query implements QueryHandler.
func (fn QueryHandlerFunc) Query(db treasury.ReadOnlyKVStore, key []byte) ([]treasury.Model, error) {
	return fn(db, key)
}

var isQueryPath = regexp.MustCompile(`^/[a-z0-9_/]+$`).MatchString

// QueryRouter dispatches queries by path.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns an empty router.
func NewQueryRouter() *QueryRouter {
	return &QueryRouter{routes: make(map[string]QueryHandler)}
}

// Register adds a handler for the path. It panics if the path is already
// registered.
func (r *QueryRouter) Register(path string, h QueryHandler) {
	if !isQueryPath(path) {
		panic(fmt.Sprintf("invalid query path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering query path: %s", path))
	}
	r.routes[path] = h
}

// Paths returns all registered paths.
func (r *QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	return paths
}

// Query calls the handler registered for the path.
func (r *QueryRouter) Query(db treasury.ReadOnlyKVStore, path string, key []byte) ([]treasury.Model, error) {
	h, ok := r.routes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no query handler for %q", path)
	}
	return h.Query(db, key)
}
