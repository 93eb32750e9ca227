package routing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/objectmanager"
	gohttp "github.com/km-arc/go-inject/http"
)

// Router wraps chi.Router and dispatches to controllers resolved from the
// container.
type Router struct {
	mux     chi.Router
	objects *objectmanager.ObjectManager
}

// New creates a Router with sane defaults (RequestID, RealIP, Recoverer).
func New(objects *objectmanager.ObjectManager) *Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	return &Router{mux: r, objects: objects}
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Patch(pattern string, h http.HandlerFunc)  { r.mux.Patch(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// Any registers a handler for all common HTTP methods.
func (r *Router) Any(pattern string, h http.HandlerFunc) {
	for _, m := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"} {
		r.mux.Method(m, pattern, h)
	}
}

// Mount attaches another handler under pattern.
//
//	router.Mount("/metrics", metrics.Handler(registry))
func (r *Router) Mount(pattern string, h http.Handler) {
	r.mux.Mount(pattern, h)
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group that shares middleware.
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(&Router{mux: mx, objects: r.objects})
	})
}

// Prefix creates a sub-router with a URL prefix.
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(&Router{mux: mx, objects: r.objects})
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// ── Controllers ──────────────────────────────────────────────────────────────

// Controller routes method+pattern to the http.Handler registered as classID.
// Every request gets a freshly built controller, dependencies included.
//
//	router.Controller(http.MethodGet, "/cars/new", `App\Garage\CarController`)
func (r *Router) Controller(method, pattern, classID string) {
	r.mux.Method(method, pattern, r.dispatch(classID, true))
}

// SingletonController is like Controller but serves every request from the
// shared instance of classID.
func (r *Router) SingletonController(method, pattern, classID string) {
	r.mux.Method(method, pattern, r.dispatch(classID, false))
}

func (r *Router) dispatch(classID string, forceNew bool) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		h, err := r.handler(classID, forceNew)
		if err != nil {
			gohttp.NewResponse(w).ServerError(err.Error())
			return
		}
		h.ServeHTTP(w, req)
	}
}

func (r *Router) handler(classID string, forceNew bool) (http.Handler, error) {
	if forceNew {
		return objectmanager.Create[http.Handler](r.objects, classID)
	}
	return objectmanager.Singleton[http.Handler](r.objects, classID)
}

// ResourceController is the set of actions Resource routes to.
//
//	GET    /photos           → c.Index
//	POST   /photos           → c.Store
//	GET    /photos/{id}      → c.Show
//	PUT    /photos/{id}      → c.Update
//	DELETE /photos/{id}      → c.Destroy
type ResourceController interface {
	Index(w http.ResponseWriter, r *http.Request)
	Store(w http.ResponseWriter, r *http.Request)
	Show(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Destroy(w http.ResponseWriter, r *http.Request)
}

// Resource registers standard RESTful routes for the ResourceController
// registered as classID. The controller is resolved as a singleton.
func (r *Router) Resource(pattern, classID string) {
	action := func(fn func(ResourceController) http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			c, err := objectmanager.Singleton[ResourceController](r.objects, classID)
			if err != nil {
				gohttp.NewResponse(w).ServerError(err.Error())
				return
			}
			fn(c)(w, req)
		}
	}

	r.mux.Get(pattern, action(func(c ResourceController) http.HandlerFunc { return c.Index }))
	r.mux.Post(pattern, action(func(c ResourceController) http.HandlerFunc { return c.Store }))
	r.mux.Get(pattern+"/{id}", action(func(c ResourceController) http.HandlerFunc { return c.Show }))
	r.mux.Put(pattern+"/{id}", action(func(c ResourceController) http.HandlerFunc { return c.Update }))
	r.mux.Patch(pattern+"/{id}", action(func(c ResourceController) http.HandlerFunc { return c.Update }))
	r.mux.Delete(pattern+"/{id}", action(func(c ResourceController) http.HandlerFunc { return c.Destroy }))
}

// ── Introspection ────────────────────────────────────────────────────────────

// ClassLister is the part of the class table Introspect reads.
type ClassLister interface {
	Names() []string
}

// ClassInfo is one row of the {prefix}/classes listing.
type ClassInfo struct {
	Name     string `json:"name"`
	Resolved bool   `json:"resolved"`
}

// Introspect serves read-only views of the container:
//
//	GET {prefix}/singletons → {"data": ["App\\Garage\\Car", ...]}
//	GET {prefix}/classes    → {"data": [{"name": "...", "resolved": true}, ...]}
func (r *Router) Introspect(prefix string, resolver *container.Resolver, classes ClassLister) {
	r.Prefix(prefix, func(sub *Router) {
		sub.Get("/singletons", func(w http.ResponseWriter, _ *http.Request) {
			gohttp.NewResponse(w).Success(resolver.Loaded())
		})
		sub.Get("/classes", func(w http.ResponseWriter, _ *http.Request) {
			names := classes.Names()
			out := make([]ClassInfo, len(names))
			for i, name := range names {
				out[i] = ClassInfo{Name: name, Resolved: resolver.Resolved(name)}
			}
			gohttp.NewResponse(w).Success(out)
		})
	})
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.ListenAndServe.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler (for testing etc.).
func (r *Router) Handler() http.Handler {
	return r.mux
}
