package reflection

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/km-arc/go-inject/framework/container"
)

var (
	// ErrDuplicateClass is returned when a class name or Go type is
	// registered twice.
	ErrDuplicateClass = errors.New("duplicate class")

	// ErrInvalidTarget is returned when a registration target is neither a
	// constructor function nor a typed nil pointer to a struct or interface.
	ErrInvalidTarget = errors.New("invalid class target")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Loader is called when Describe misses. It may register the class and
// reports whether it did anything.
type Loader func(classID string) bool

// ── Registry ──────────────────────────────────────────────────────────────────

// Registry is the static class table the container introspects. Go cannot
// look types up by name, so every class is registered once, usually from a
// service provider, together with how it is built.
//
// Registry implements container.TypeInfoProvider.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*class
	byType  map[reflect.Type]string
	loaders []Loader
}

// NewRegistry creates an empty class table.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*class),
		byType:  make(map[reflect.Type]string),
	}
}

// Class registers name. target decides how the class is built:
//
//	classes.Class(`App\Car`, NewCar)               // constructor func(deps...) T or (T, error)
//	classes.Class(`App\Engine`, (*Engine)(nil))    // no constructor: new(Engine)
//	classes.Class(`App\Vehicle`, (*Vehicle)(nil))  // interface: abstract
//
// Constructor parameters whose Go type is the type of another registered
// class are injected; all other parameters take their Default or the zero
// value.
func (r *Registry) Class(name string, target any, opts ...Option) error {
	name = container.Normalize(name)
	if name == "" {
		return fmt.Errorf("%w: class name cannot be empty", ErrInvalidTarget)
	}

	c, err := newClass(name, target)
	if err != nil {
		return err
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateClass, name)
	}
	if other, exists := r.byType[c.typ]; exists {
		return fmt.Errorf("%w: %s has the same type as %s (%s)", ErrDuplicateClass, name, other, c.typ)
	}

	r.classes[name] = c
	r.byType[c.typ] = name
	return nil
}

// MustClass is like Class but panics on error. Intended for service
// providers, where a bad registration is a programming error.
func (r *Registry) MustClass(name string, target any, opts ...Option) {
	if err := r.Class(name, target, opts...); err != nil {
		panic(fmt.Sprintf("reflection: %v", err))
	}
}

// OnMissing registers a loader consulted, in order, when Describe is asked
// for an unknown class. Deferred service providers use it to register their
// classes lazily.
func (r *Registry) OnMissing(l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders = append(r.loaders, l)
}

// Describe implements container.TypeInfoProvider.
func (r *Registry) Describe(classID string) (container.ClassDescriptor, error) {
	name := container.Normalize(classID)

	if d, ok := r.describe(name); ok {
		return d, nil
	}

	r.mu.RLock()
	loaders := append([]Loader(nil), r.loaders...)
	r.mu.RUnlock()

	for _, load := range loaders {
		if !load(name) {
			continue
		}
		if d, ok := r.describe(name); ok {
			return d, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", container.ErrUnknownClass, name)
}

func (r *Registry) describe(name string) (*descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[name]
	if !ok {
		return nil, false
	}
	return &descriptor{class: c, params: r.parameters(c)}, true
}

// parameters classifies c's constructor parameters against the current
// table. Must hold mu.RLock.
func (r *Registry) parameters(c *class) []container.Parameter {
	if !c.ctor.IsValid() {
		return nil
	}

	fnType := c.ctor.Type()
	params := make([]container.Parameter, fnType.NumIn())
	for i := range params {
		paramType := fnType.In(i)
		p := container.Parameter{Position: i, Type: paramType.String()}

		if id, ok := c.inject[i]; ok {
			p.ClassID = id
		} else if id, ok := r.byType[paramType]; ok {
			p.ClassID = id
		}

		if v, ok := c.defaults[i]; ok {
			p.HasDefault = true
			p.Default = v
		}
		params[i] = p
	}
	return params
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Has reports whether name has been registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.classes[container.Normalize(name)]
	return ok
}

// Names returns all registered class names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.classes))
	for name := range r.classes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// NameOf returns the class registered for the Go type of v.
//
//	name, ok := classes.NameOf((*Engine)(nil)) // `App\Engine`, true
func (r *Registry) NameOf(v any) (string, bool) {
	t := reflect.TypeOf(v)
	if t == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.byType[t]; ok {
		return name, true
	}
	// A typed nil interface pointer names the interface itself.
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Interface {
		name, ok := r.byType[t.Elem()]
		return name, ok
	}
	return "", false
}
