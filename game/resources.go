package game

import (
	"errors"
	"fmt"
	"log/slog"
)

// resource is one owned collaborator and how to release it.
type resource struct {
	name     string
	release  func() error
	released bool
}

// resources is a LIFO release stack. Everything acquired is released in
// reverse order, each exactly once.
type resources struct {
	stack []*resource
}

// acquire pushes a resource. release may be nil for resources that only need
// ordering.
func (r *resources) acquire(name string, release func() error) {
	r.stack = append(r.stack, &resource{name: name, release: release})
}

// len returns the number of resources still held.
func (r *resources) len() int {
	n := 0
	for _, res := range r.stack {
		if !res.released {
			n++
		}
	}
	return n
}

// releaseAll releases every held resource, newest first. A failing release
// does not stop the others; all errors are joined. Calling it again does nothing.
func (r *resources) releaseAll() error {
	var errs []error
	for i := len(r.stack) - 1; i >= 0; i-- {
		res := r.stack[i]
		if res.released {
			continue
		}
		res.released = true
		if res.release == nil {
			continue
		}
		if err := res.release(); err != nil {
			errs = append(errs, fmt.Errorf("releasing %s: %w", res.name, err))
			continue
		}
		slog.Debug("resource_released", "name", res.name)
	}
	r.stack = r.stack[:0]
	return errors.Join(errs...)
}
