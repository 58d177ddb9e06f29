package registry

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/DoctorLogiq/Terrascape/internal/debug"
)

var (
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrNotFound              = errors.New("not found")
)

// Named is implemented by anything that can be stored in a Registry.
type Named interface {
	Name() Identifier
}

// Registry maps identifiers to objects. Get fails loudly for a missing entry
// while GetOrNone degrades to an empty result.
type Registry[T Named] struct {
	mu      sync.RWMutex
	kind    string
	entries map[Identifier]T
	log     *debug.Logger
}

// New creates an empty registry; kind names the stored objects in messages.
func New[T Named](kind string, log *debug.Logger) *Registry[T] {
	return &Registry[T]{
		kind:    kind,
		entries: make(map[Identifier]T),
		log:     log,
	}
}

func (r *Registry[T]) Kind() string { return r.kind }

func (r *Registry[T]) IsRegistered(id Identifier) bool {
	if id.IsZero() {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// Contains reports whether obj's name is registered. A nil object is never
// registered.
func (r *Registry[T]) Contains(obj T) bool {
	if isNil(obj) {
		return false
	}
	return r.IsRegistered(obj.Name())
}

func (r *Registry[T]) Register(obj T) error {
	if isNil(obj) {
		return errors.Errorf("cannot register a nil %s", r.kind)
	}
	id := obj.Name()
	if id.IsZero() {
		return errors.Wrapf(ErrInvalidIdentifier, "cannot register a %s without a name", r.kind)
	}

	r.mu.Lock()
	if _, ok := r.entries[id]; ok {
		r.mu.Unlock()
		return errors.Wrapf(ErrDuplicateRegistration,
			"cannot register %s '%s' to the %s registry because a %s is already registered under this identifier",
			r.kind, id, r.kind, r.kind)
	}
	r.entries[id] = obj
	r.mu.Unlock()

	if r.log != nil {
		r.log.Debug(fmt.Sprintf("Registered %s '%s' to the %s registry", r.kind, id, r.kind), debug.VerboseOnly)
	}
	return nil
}

func (r *Registry[T]) Get(id Identifier) (T, error) {
	if obj, ok := r.GetOrNone(id); ok {
		return obj, nil
	}
	var zero T
	return zero, errors.Wrapf(ErrNotFound, "cannot find %s '%s' in the %s registry", r.kind, id, r.kind)
}

func (r *Registry[T]) GetOrNone(id Identifier) (T, bool) {
	if id.IsZero() {
		var zero T
		return zero, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	obj, ok := r.entries[id]
	return obj, ok
}

func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Identifiers lists registered identifiers in lexical order.
func (r *Registry[T]) Identifiers() []Identifier {
	r.mu.RLock()
	ids := make([]Identifier, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.SortFunc(ids, func(a, b Identifier) int {
		return strings.Compare(a.name, b.name)
	})
	return ids
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
