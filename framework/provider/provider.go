// Package provider registers classes in bulk through service providers.
//
//	type GarageServiceProvider struct{ provider.BaseProvider }
//
//	func (p *GarageServiceProvider) Register(classes *reflection.Registry) error {
//	    return classes.Class(`App\Garage\Car`, garage.NewCar)
//	}
//
//	func (p *GarageServiceProvider) Boot(objects *objectmanager.ObjectManager) error {
//	    _, err := objects.GetSingleton(`App\Garage\Car`)
//	    return err
//	}
package provider

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/objectmanager"
	"github.com/km-arc/go-inject/framework/reflection"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups class registrations for one part of an application.
type ServiceProvider interface {
	// Register adds classes to the table. Do not resolve anything here; use
	// Boot for that.
	Register(classes *reflection.Registry) error

	// Boot is called after all eager providers are registered. Resolving
	// any class is safe here.
	Boot(objects *objectmanager.ObjectManager) error

	// Provides lists the classes a deferred provider registers.
	Provides() []string

	// IsDeferred reports whether Register should wait until one of the
	// Provides classes is first described.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op implementation of Boot, Provides and
// IsDeferred.
//
//	type MyProvider struct{ provider.BaseProvider }
//	func (p *MyProvider) Register(classes *reflection.Registry) error { ... }
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *objectmanager.ObjectManager) error { return nil }
func (p *BaseProvider) Provides() []string                       { return nil }
func (p *BaseProvider) IsDeferred() bool                         { return false }

// ── Registry ──────────────────────────────────────────────────────────────────

// pending is a deferred provider waiting for its first class lookup.
type pending struct {
	provider ServiceProvider
	once     sync.Once
	err      error
}

// Registry registers and boots ServiceProviders, including deferred ones.
//
// Deferred providers are registered the first time the class table misses
// one of their Provides classes. Their Boot is not called: at that point a
// resolution is already in flight.
type Registry struct {
	classes *reflection.Registry
	objects *objectmanager.ObjectManager
	log     *slog.Logger

	mu         sync.Mutex
	eager      []ServiceProvider
	deferred   map[string]*pending // class → provider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewRegistry creates a provider registry bound to classes and objects. A nil
// log discards output.
func NewRegistry(classes *reflection.Registry, objects *objectmanager.ObjectManager, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	r := &Registry{
		classes:    classes,
		objects:    objects,
		log:        log,
		deferred:   make(map[string]*pending),
		registered: make(map[ServiceProvider]bool),
	}
	classes.OnMissing(r.load)
	return r
}

// Register adds a provider and calls its Register method unless it is
// deferred. A provider added after Boot is booted immediately. Registering
// the same provider twice is a no-op.
func (r *Registry) Register(p ServiceProvider) error {
	r.mu.Lock()
	if r.registered[p] {
		r.mu.Unlock()
		return nil
	}
	r.registered[p] = true

	if p.IsDeferred() {
		entry := &pending{provider: p}
		for _, class := range p.Provides() {
			r.deferred[container.Normalize(class)] = entry
		}
		r.mu.Unlock()
		r.log.Debug("provider: deferred", "provider", fmt.Sprintf("%T", p), "provides", p.Provides())
		return nil
	}
	r.mu.Unlock()

	if err := p.Register(r.classes); err != nil {
		return fmt.Errorf("provider %T: register: %w", p, err)
	}

	r.mu.Lock()
	r.eager = append(r.eager, p)
	booted := r.booted
	r.mu.Unlock()

	r.log.Debug("provider: registered", "provider", fmt.Sprintf("%T", p))

	if booted {
		return r.boot(p)
	}
	return nil
}

// load is the class table's OnMissing hook.
func (r *Registry) load(classID string) bool {
	r.mu.Lock()
	entry, ok := r.deferred[classID]
	r.mu.Unlock()
	if !ok {
		return false
	}

	entry.once.Do(func() {
		entry.err = entry.provider.Register(r.classes)
		if entry.err != nil {
			r.log.Error("provider: deferred register failed",
				"provider", fmt.Sprintf("%T", entry.provider),
				"class", classID,
				"error", entry.err,
			)
			return
		}
		r.log.Debug("provider: loaded", "provider", fmt.Sprintf("%T", entry.provider), "class", classID)
	})
	return entry.err == nil
}

// Boot calls Boot on every eager provider in registration order. Later calls
// are no-ops. All provider errors are returned joined.
func (r *Registry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	eager := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	var errs []error
	for _, p := range eager {
		if err := r.boot(p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) boot(p ServiceProvider) error {
	if err := p.Boot(r.objects); err != nil {
		return fmt.Errorf("provider %T: boot: %w", p, err)
	}
	return nil
}

// Booted reports whether Boot has been called.
func (r *Registry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the eager providers in registration order.
func (r *Registry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
