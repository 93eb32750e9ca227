package container

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ── Resolver ──────────────────────────────────────────────────────────────────

// Resolver builds object graphs from constructor signatures.
//
// It owns the singleton cache: normalized class identifier → instance. An
// entry appears the first time a class is resolved without forceNew and is
// never replaced or removed afterwards. Forced resolutions neither read nor
// write the cache, for the requested class or anything beneath it.
//
// A Resolver is safe for concurrent use. Check-cache / construct / store runs
// as one unit per class identifier, so at most one singleton is ever built for
// a given class.
type Resolver struct {
	types     TypeInfoProvider
	log       *slog.Logger
	observers []Observer

	mu     sync.RWMutex
	loaded map[string]any

	flights singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for construction traces. The default
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithObserver registers an Observer that is notified after every resolution.
//
//	r := container.NewResolver(classes, container.WithObserver(collector))
func WithObserver(o Observer) Option {
	return func(r *Resolver) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// NewResolver creates a Resolver with an empty singleton cache.
func NewResolver(types TypeInfoProvider, opts ...Option) *Resolver {
	r := &Resolver{
		types:  types,
		log:    slog.New(slog.DiscardHandler),
		loaded: make(map[string]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Normalize strips leading namespace separators, so `\App\Car` and `App\Car`
// name the same class.
func Normalize(classID string) string {
	return strings.TrimLeft(classID, `\`)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve returns an instance of classID.
//
// With forceNew false the cached singleton is returned, constructing and
// caching it (and every class-typed dependency) on first use. With forceNew
// true a fresh instance is built, and the flag cascades: every dependency in
// the graph is freshly built too, and the cache is left untouched.
//
// Every failure, however deep in the graph, is returned as a
// *ResolutionError; no partially built instance is ever returned.
func (r *Resolver) Resolve(classID string, forceNew bool) (any, error) {
	key := Normalize(classID)
	start := time.Now()

	instance, err := r.resolve(key, forceNew, nil)
	if err != nil {
		r.notify(Event{Class: key, Forced: forceNew, Duration: time.Since(start), Err: err})
		return nil, &ResolutionError{Class: key, Err: err}
	}
	return instance, nil
}

// flight is the value shared by callers waiting on the same singleton.
type flight struct {
	instance any
}

// resolve is the recursive worker. path holds the classes currently being
// built on this call chain and is used to diagnose cycles.
func (r *Resolver) resolve(key string, forceNew bool, path []string) (any, error) {
	start := time.Now()

	if !forceNew {
		if instance, ok := r.Cached(key); ok {
			r.notify(Event{Class: key, Cached: true, Duration: time.Since(start)})
			return instance, nil
		}
	}

	if slices.Contains(path, key) {
		return nil, circularError(path, key)
	}
	path = append(path, key)

	if forceNew {
		instance, err := r.build(key, true, path)
		if err != nil {
			return nil, err
		}
		r.notify(Event{Class: key, Forced: true, Duration: time.Since(start)})
		return instance, nil
	}

	// built is only set by the caller whose closure ran the constructor.
	// Callers that joined its flight received an instance built elsewhere.
	built := false
	v, err, _ := r.flights.Do(key, func() (any, error) {
		// Another flight may have finished between the lookup above and now.
		if instance, ok := r.Cached(key); ok {
			return flight{instance: instance}, nil
		}
		instance, err := r.build(key, false, path)
		if err != nil {
			return nil, err
		}
		built = true
		return flight{instance: r.store(key, instance)}, nil
	})
	if err != nil {
		return nil, err
	}

	f := v.(flight)
	r.notify(Event{Class: key, Cached: !built, Duration: time.Since(start)})
	return f.instance, nil
}

// build describes key, assembles its constructor arguments and instantiates it.
func (r *Resolver) build(key string, forceNew bool, path []string) (any, error) {
	desc, err := r.types.Describe(key)
	if err != nil {
		return nil, err
	}

	if !desc.Instantiable() {
		return nil, fmt.Errorf("%w: %s", ErrClassNotInstantiable, key)
	}

	var args []any
	if desc.HasConstructor() {
		params := desc.Parameters()
		args = make([]any, len(params))

		for i, p := range params {
			switch {
			case p.ClassTyped():
				dep, err := r.resolve(Normalize(p.ClassID), forceNew, path)
				if err != nil {
					return nil, fmt.Errorf("%s parameter %d: %w", key, p.Position, err)
				}
				args[i] = dep
			case p.HasDefault:
				args[i] = p.Default
			default:
				// No annotation, no default: the absence value.
				args[i] = nil
			}
		}
	}

	instance, err := r.instantiate(desc, args)
	if err != nil {
		return nil, err
	}

	r.log.Debug("container: constructed", "class", key, "forced", forceNew, "args", len(args))
	return instance, nil
}

func (r *Resolver) instantiate(desc ClassDescriptor, args []any) (instance any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			instance = nil
			err = fmt.Errorf("%w: %s: panic: %v", ErrConstructorFailed, desc.Name(), rec)
		}
	}()

	instance, err = desc.NewInstance(args)
	if err != nil {
		if errors.Is(err, ErrConstructorFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrConstructorFailed, desc.Name(), err)
	}
	if instance == nil {
		return nil, fmt.Errorf("%w: %s returned nil", ErrConstructorFailed, desc.Name())
	}
	return instance, nil
}

// store registers instance under key unless a singleton already exists, then
// returns whatever the cache holds.
func (r *Resolver) store(key string, instance any) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.loaded[key]; !ok {
		r.loaded[key] = instance
	}
	return r.loaded[key]
}

func (r *Resolver) notify(e Event) {
	for _, o := range r.observers {
		o.Observe(e)
	}
}

func circularError(path []string, key string) error {
	chain := make([]string, len(path)+1)
	copy(chain, path)
	chain[len(path)] = key
	return fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(chain, " -> "))
}

// ── Cache inspection ──────────────────────────────────────────────────────────

// Cached returns the singleton registered for classID, if any.
func (r *Resolver) Cached(classID string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	instance, ok := r.loaded[Normalize(classID)]
	return instance, ok
}

// Resolved returns true if classID has been resolved as a singleton at least
// once.
func (r *Resolver) Resolved(classID string) bool {
	_, ok := r.Cached(classID)
	return ok
}

// Loaded returns the sorted identifiers of all cached singletons.
func (r *Resolver) Loaded() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.loaded))
	for k := range r.loaded {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
