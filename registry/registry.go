package registry

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrDuplicate = errors.New("duplicate registry")
	ErrEmptyName = errors.New("empty registry name")
)

// Namer is anything that can be registered, the name is its identity
type Namer interface {
	Name() string
}

// Registry keeps named values of one kind. It is safe for concurrent use,
// the registration order is kept so callers can probe values in order.
type Registry[T Namer] struct {
	m sync.Map

	mu    sync.RWMutex
	order []string
}

// New create an empty registry
func New[T Namer]() *Registry[T] {
	return &Registry[T]{}
}

// Register add v under v.Name(), registering the same name twice fails
func (r *Registry[T]) Register(v T) error {
	name := v.Name()
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, loaded := r.m.LoadOrStore(name, v); loaded {
		return errors.Wrap(ErrDuplicate, name)
	}

	r.order = append(r.order, name)
	return nil
}

// MustRegister register all values or panic, for package init
func (r *Registry[T]) MustRegister(vs ...T) {
	for _, v := range vs {
		if err := r.Register(v); err != nil {
			panic(errors.Wrap(err, "registry fail"))
		}
	}
}

func (r *Registry[T]) Get(name string) (T, bool) {
	v, ok := r.m.Load(name)
	if !ok {
		var zero T
		return zero, false
	}

	return v.(T), true
}

func (r *Registry[T]) Has(name string) bool {
	_, ok := r.m.Load(name)
	return ok
}

// Ordered returns the values in registration order
func (r *Registry[T]) Ordered() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]T, 0, len(r.order))
	for _, name := range r.order {
		v, _ := r.m.Load(name)
		res = append(res, v.(T))
	}

	return res
}

// Names returns the registered names, sorted
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// ========== namer =========

type StrNamer string

func (sn StrNamer) Name() string {
	return string(sn)
}
