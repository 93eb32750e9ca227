// Package objectmanager is the consumer-facing facade over the resolver.
//
//	objects := objectmanager.New(resolver, handler)
//
//	shared, err := objects.GetSingleton(`App\Garage\Car`)
//	fresh, err := objects.CreateObject(`App\Garage\Car`)
//
//	car, err := objectmanager.Singleton[*garage.Car](objects, `App\Garage\Car`)
//
// Every failure is handed to the configured exception.Handler exactly once
// before it is returned. A failed call never yields an instance.
package objectmanager

import (
	"fmt"
	"reflect"

	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/exception"
)

// ObjectManager offers getSingleton / createObject on top of a Resolver. It
// keeps no state of its own.
type ObjectManager struct {
	resolver *container.Resolver
	handler  exception.Handler
}

// New returns an ObjectManager. A nil handler means errors are only returned.
func New(resolver *container.Resolver, handler exception.Handler) *ObjectManager {
	if handler == nil {
		handler = exception.HandlerFunc(func(error) {})
	}
	return &ObjectManager{resolver: resolver, handler: handler}
}

// GetSingleton returns the process-wide instance of classID, creating it on
// first use.
func (m *ObjectManager) GetSingleton(classID string) (any, error) {
	return m.resolve(classID, false)
}

// CreateObject always returns a new instance of classID. Its dependencies are
// freshly built too, and the singleton cache is left untouched.
func (m *ObjectManager) CreateObject(classID string) (any, error) {
	return m.resolve(classID, true)
}

// Resolver returns the underlying resolver.
func (m *ObjectManager) Resolver() *container.Resolver { return m.resolver }

func (m *ObjectManager) resolve(classID string, forceNew bool) (any, error) {
	instance, err := m.resolver.Resolve(classID, forceNew)
	if err != nil {
		return nil, m.fail(err)
	}
	return instance, nil
}

func (m *ObjectManager) fail(err error) error {
	m.handler.Handle(err)
	return err
}

// ── Generic helpers ───────────────────────────────────────────────────────────

// Singleton is GetSingleton with a type assertion.
//
//	// Instead of: car := objects.GetSingleton(`App\Car`).(*Car)
//	// Write:      car, err := objectmanager.Singleton[*Car](objects, `App\Car`)
func Singleton[T any](m *ObjectManager, classID string) (T, error) {
	return typed[T](m, classID, false)
}

// Create is CreateObject with a type assertion.
func Create[T any](m *ObjectManager, classID string) (T, error) {
	return typed[T](m, classID, true)
}

func typed[T any](m *ObjectManager, classID string, forceNew bool) (T, error) {
	var zero T

	instance, err := m.resolver.Resolve(classID, forceNew)
	if err != nil {
		return zero, m.fail(err)
	}

	out, ok := instance.(T)
	if !ok {
		return zero, m.fail(fmt.Errorf("objectmanager: [%s] resolved to %T, not %s", container.Normalize(classID), instance, reflect.TypeFor[T]()))
	}
	return out, nil
}
