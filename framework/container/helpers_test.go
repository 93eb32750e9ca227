package container_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/reflection"
)

// Shared fixtures used across test files.

type Engine struct{ Serial int64 }

type Car struct {
	Engine *Engine
	Wheels string
}

type Driver struct {
	Car  *Car
	Name string
	Age  int
}

type Vehicle interface{ Honk() string }

type Garage struct {
	Cars []*Car
}

type circA struct{ B *circB }
type circB struct{ C *circC }
type circC struct{ A *circA }

func NewCar(e *Engine, wheels string) *Car { return &Car{Engine: e, Wheels: wheels} }

func NewDriver(c *Car, name string, age int) *Driver {
	return &Driver{Car: c, Name: name, Age: age}
}

// counter hands out increasing serials so instances can be told apart.
type counter struct{ n atomic.Int64 }

func (c *counter) newEngine() *Engine { return &Engine{Serial: c.n.Add(1)} }

// garageClasses registers Engine (no constructor), Car(Engine, wheels =
// "alloy") and Driver(Car, name = "ada", age).
func garageClasses(t *testing.T) *reflection.Registry {
	t.Helper()
	r := reflection.NewRegistry()
	mustClass(t, r, `App\Garage\Engine`, (*Engine)(nil))
	mustClass(t, r, `App\Garage\Car`, NewCar, reflection.Default(1, "alloy"))
	mustClass(t, r, `App\Garage\Driver`, NewDriver, reflection.Default(1, "ada"))
	mustClass(t, r, `App\Garage\Vehicle`, (*Vehicle)(nil))
	return r
}

func mustClass(t *testing.T, r *reflection.Registry, name string, target any, opts ...reflection.Option) {
	t.Helper()
	if err := r.Class(name, target, opts...); err != nil {
		t.Fatalf("Class(%q): %v", name, err)
	}
}

func mustResolve(t *testing.T, r *container.Resolver, classID string, forceNew bool) any {
	t.Helper()
	v, err := r.Resolve(classID, forceNew)
	if err != nil {
		t.Fatalf("Resolve(%q, %v): %v", classID, forceNew, err)
	}
	return v
}

// stubProvider lets tests hand the resolver arbitrary descriptors.
type stubProvider map[string]container.ClassDescriptor

func (s stubProvider) Describe(classID string) (container.ClassDescriptor, error) {
	if d, ok := s[classID]; ok {
		return d, nil
	}
	return nil, errors.New("stub: malformed class metadata")
}

type stubDescriptor struct {
	name string
	ctor func(args []any) (any, error)
}

func (d stubDescriptor) Name() string                      { return d.name }
func (d stubDescriptor) Instantiable() bool                { return true }
func (d stubDescriptor) HasConstructor() bool              { return false }
func (d stubDescriptor) Parameters() []container.Parameter { return nil }
func (d stubDescriptor) NewInstance(args []any) (any, error) {
	return d.ctor(args)
}
