package reflection_test

import (
	"errors"
	"testing"

	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/reflection"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type engine struct{ Cylinders int }

type wheelSet struct{ Kind string }

type car struct {
	Engine *engine
	Wheels string
}

type vehicle interface{ Drive() string }

func (c *car) Drive() string { return "vroom" }

func newCar(e *engine, wheels string) *car { return &car{Engine: e, Wheels: wheels} }

func newFailing() (*car, error) { return nil, errors.New("boom") }

func newNilCar() *car { return nil }

func mustDescribe(t *testing.T, r *reflection.Registry, name string) container.ClassDescriptor {
	t.Helper()
	d, err := r.Describe(name)
	if err != nil {
		t.Fatalf("Describe(%q): %v", name, err)
	}
	return d
}

// ── Class ─────────────────────────────────────────────────────────────────────

func TestClass_Targets(t *testing.T) {
	tests := []struct {
		name         string
		target       any
		instantiable bool
		hasCtor      bool
	}{
		{"struct pointer", (*engine)(nil), true, false},
		{"constructor", newCar, true, true},
		{"interface", (*vehicle)(nil), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := reflection.NewRegistry()
			if err := r.Class(`App\Thing`, tt.target); err != nil {
				t.Fatalf("Class: %v", err)
			}
			d := mustDescribe(t, r, `App\Thing`)
			if d.Instantiable() != tt.instantiable {
				t.Errorf("Instantiable: got %v want %v", d.Instantiable(), tt.instantiable)
			}
			if d.HasConstructor() != tt.hasCtor {
				t.Errorf("HasConstructor: got %v want %v", d.HasConstructor(), tt.hasCtor)
			}
		})
	}
}

func TestClass_InvalidTargets(t *testing.T) {
	tests := []struct {
		name   string
		target any
	}{
		{"untyped nil", nil},
		{"string", "App\\Car"},
		{"int pointer", (*int)(nil)},
		{"no results", func() {}},
		{"three results", func() (int, int, error) { return 0, 0, nil }},
		{"second result not error", func() (*car, int) { return nil, 0 }},
		{"nil func", (func() *car)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := reflection.NewRegistry()
			err := r.Class(`App\Bad`, tt.target)
			if !errors.Is(err, reflection.ErrInvalidTarget) {
				t.Fatalf("expected ErrInvalidTarget, got %v", err)
			}
		})
	}
}

func TestClass_EmptyName(t *testing.T) {
	r := reflection.NewRegistry()
	if err := r.Class(`\\`, (*engine)(nil)); !errors.Is(err, reflection.ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestClass_Duplicates(t *testing.T) {
	t.Run("same name", func(t *testing.T) {
		r := reflection.NewRegistry()
		r.MustClass(`App\Engine`, (*engine)(nil))
		err := r.Class(`\App\Engine`, (*wheelSet)(nil))
		if !errors.Is(err, reflection.ErrDuplicateClass) {
			t.Fatalf("expected ErrDuplicateClass, got %v", err)
		}
	})

	t.Run("same type", func(t *testing.T) {
		r := reflection.NewRegistry()
		r.MustClass(`App\Engine`, (*engine)(nil))
		err := r.Class(`App\Motor`, func() *engine { return &engine{} })
		if !errors.Is(err, reflection.ErrDuplicateClass) {
			t.Fatalf("expected ErrDuplicateClass, got %v", err)
		}
	})
}

func TestMustClass_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustClass should panic on an invalid target")
		}
	}()
	reflection.NewRegistry().MustClass(`App\Bad`, 42)
}

// ── Options ───────────────────────────────────────────────────────────────────

func newGauge(small int8, count uint, ratio float32, whole int) *wheelSet { return &wheelSet{} }

func TestDefault_Validation(t *testing.T) {
	tests := []struct {
		name    string
		target  any
		opt     reflection.Option
		wantErr bool
	}{
		{"valid string default", newCar, reflection.Default(1, "alloy"), false},
		{"position out of range", newCar, reflection.Default(5, "alloy"), true},
		{"negative position", newCar, reflection.Default(-1, "alloy"), true},
		{"wrong type", newCar, reflection.Default(1, 42), true},
		{"nil for string", newCar, reflection.Default(1, nil), true},
		{"nil for pointer", newCar, reflection.Default(0, nil), false},
		{"struct without constructor", (*engine)(nil), reflection.Default(0, 1), true},
		{"empty inject", newCar, reflection.Inject(0, `\`), true},
		{"int fits int8", newGauge, reflection.Default(0, 127), false},
		{"int overflows int8", newGauge, reflection.Default(0, 300), true},
		{"negative for uint", newGauge, reflection.Default(1, -1), true},
		{"float64 overflows float32", newGauge, reflection.Default(2, 1e300), true},
		{"fractional float for int", newGauge, reflection.Default(3, 3.9), true},
		{"integral float for int", newGauge, reflection.Default(3, 4.0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reflection.NewRegistry().Class(`App\Car`, tt.target, tt.opt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Class error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, reflection.ErrInvalidTarget) {
				t.Fatalf("expected ErrInvalidTarget, got %v", err)
			}
		})
	}
}

func TestDefault_NumericConversion(t *testing.T) {
	r := reflection.NewRegistry()
	r.MustClass(`App\Limits`, func(limit int64, ratio float32) *wheelSet { return &wheelSet{} },
		reflection.Default(0, 10), reflection.Default(1, 0.5))

	params := mustDescribe(t, r, `App\Limits`).Parameters()
	if v, ok := params[0].Default.(int64); !ok || v != 10 {
		t.Errorf("param 0 default: got %#v, want int64(10)", params[0].Default)
	}
	if v, ok := params[1].Default.(float32); !ok || v != 0.5 {
		t.Errorf("param 1 default: got %#v, want float32(0.5)", params[1].Default)
	}
}

func TestDefault_ConversionKeepsValue(t *testing.T) {
	r := reflection.NewRegistry()
	r.MustClass(`App\Gauge`, newGauge,
		reflection.Default(0, -128), reflection.Default(1, 7), reflection.Default(3, 4.0))

	params := mustDescribe(t, r, `App\Gauge`).Parameters()
	if v, ok := params[0].Default.(int8); !ok || v != -128 {
		t.Errorf("param 0 default: got %#v, want int8(-128)", params[0].Default)
	}
	if v, ok := params[1].Default.(uint); !ok || v != 7 {
		t.Errorf("param 1 default: got %#v, want uint(7)", params[1].Default)
	}
	if v, ok := params[3].Default.(int); !ok || v != 4 {
		t.Errorf("param 3 default: got %#v, want int(4)", params[3].Default)
	}
}

// ── Describe ──────────────────────────────────────────────────────────────────

func TestDescribe_Unknown(t *testing.T) {
	_, err := reflection.NewRegistry().Describe(`App\Nope`)
	if !errors.Is(err, container.ErrUnknownClass) {
		t.Fatalf("expected ErrUnknownClass, got %v", err)
	}
}

func TestDescribe_ParameterClassification(t *testing.T) {
	r := reflection.NewRegistry()
	// Car is registered before Engine; classification happens at Describe.
	r.MustClass(`App\Car`, newCar, reflection.Default(1, "alloy"))
	r.MustClass(`App\Engine`, (*engine)(nil))

	params := mustDescribe(t, r, `\App\Car`).Parameters()
	if len(params) != 2 {
		t.Fatalf("got %d parameters, want 2", len(params))
	}

	if params[0].ClassID != `App\Engine` || !params[0].ClassTyped() {
		t.Errorf("param 0: got class %q, want App\\Engine", params[0].ClassID)
	}
	if params[0].Type != "*reflection_test.engine" {
		t.Errorf("param 0 type: got %q", params[0].Type)
	}
	if params[1].ClassTyped() {
		t.Errorf("param 1 should not be class-typed, got %q", params[1].ClassID)
	}
	if !params[1].HasDefault || params[1].Default != "alloy" {
		t.Errorf("param 1 default: got %v/%v, want true/alloy", params[1].HasDefault, params[1].Default)
	}
}

func TestDescribe_InjectAnnotation(t *testing.T) {
	r := reflection.NewRegistry()
	r.MustClass(`App\Car`, func(v vehicle) *wheelSet { return &wheelSet{Kind: v.Drive()} },
		reflection.Inject(0, `\App\Sedan`))

	params := mustDescribe(t, r, `App\Car`).Parameters()
	if params[0].ClassID != `App\Sedan` {
		t.Fatalf("param 0: got %q, want App\\Sedan", params[0].ClassID)
	}
}

func TestDescribe_OnMissing(t *testing.T) {
	r := reflection.NewRegistry()
	calls := 0
	r.OnMissing(func(classID string) bool {
		calls++
		if classID != `App\Lazy` {
			return false
		}
		r.MustClass(`App\Lazy`, (*engine)(nil))
		return true
	})

	if _, err := r.Describe(`App\Lazy`); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if _, err := r.Describe(`App\Lazy`); err != nil {
		t.Fatalf("second Describe: %v", err)
	}
	if calls != 1 {
		t.Errorf("loader calls: got %d, want 1", calls)
	}

	if _, err := r.Describe(`App\Other`); !errors.Is(err, container.ErrUnknownClass) {
		t.Errorf("expected ErrUnknownClass for unrelated class, got %v", err)
	}
}

// ── NewInstance ───────────────────────────────────────────────────────────────

func TestNewInstance(t *testing.T) {
	r := reflection.NewRegistry()
	r.MustClass(`App\Engine`, (*engine)(nil))
	r.MustClass(`App\Car`, newCar)
	r.MustClass(`App\Vehicle`, (*vehicle)(nil))
	r.MustClass(`App\Failing`, newFailing)
	r.MustClass(`App\NilCar`, newNilCar)

	t.Run("no constructor", func(t *testing.T) {
		got, err := mustDescribe(t, r, `App\Engine`).NewInstance(nil)
		if err != nil {
			t.Fatalf("NewInstance: %v", err)
		}
		if _, ok := got.(*engine); !ok {
			t.Fatalf("got %T, want *engine", got)
		}
	})

	t.Run("arguments passed in order", func(t *testing.T) {
		e := &engine{Cylinders: 8}
		got, err := mustDescribe(t, r, `App\Car`).NewInstance([]any{e, "steel"})
		if err != nil {
			t.Fatalf("NewInstance: %v", err)
		}
		c := got.(*car)
		if c.Engine != e || c.Wheels != "steel" {
			t.Errorf("got %+v", c)
		}
	})

	t.Run("nil becomes zero value", func(t *testing.T) {
		got, err := mustDescribe(t, r, `App\Car`).NewInstance([]any{nil, nil})
		if err != nil {
			t.Fatalf("NewInstance: %v", err)
		}
		c := got.(*car)
		if c.Engine != nil || c.Wheels != "" {
			t.Errorf("got %+v, want zero fields", c)
		}
	})

	failures := []struct {
		name  string
		class string
		args  []any
	}{
		{"abstract", `App\Vehicle`, nil},
		{"wrong arity", `App\Car`, []any{nil}},
		{"args for struct", `App\Engine`, []any{1}},
		{"wrong argument type", `App\Car`, []any{"engine", "alloy"}},
		{"constructor error", `App\Failing`, nil},
		{"nil result", `App\NilCar`, nil},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mustDescribe(t, r, tt.class).NewInstance(tt.args)
			if err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestNewInstance_Variadic(t *testing.T) {
	r := reflection.NewRegistry()
	r.MustClass(`App\Set`, func(kinds ...string) *wheelSet {
		return &wheelSet{Kind: string(rune('0' + len(kinds)))}
	}, reflection.Default(0, []string{"a", "b"}))

	d := mustDescribe(t, r, `App\Set`)
	got, err := d.NewInstance([]any{d.Parameters()[0].Default})
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	if got.(*wheelSet).Kind != "2" {
		t.Errorf("got %q, want 2", got.(*wheelSet).Kind)
	}
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func TestNamesAndHas(t *testing.T) {
	r := reflection.NewRegistry()
	r.MustClass(`App\Zeta`, (*engine)(nil))
	r.MustClass(`\App\Alpha`, (*wheelSet)(nil))

	names := r.Names()
	if len(names) != 2 || names[0] != `App\Alpha` || names[1] != `App\Zeta` {
		t.Errorf("Names: got %v", names)
	}
	if !r.Has(`\App\Alpha`) {
		t.Error("Has should normalize leading separators")
	}
	if r.Has(`App\Missing`) {
		t.Error("Has should be false for unknown classes")
	}
}

func TestNameOf(t *testing.T) {
	r := reflection.NewRegistry()
	r.MustClass(`App\Engine`, (*engine)(nil))
	r.MustClass(`App\Vehicle`, (*vehicle)(nil))

	if name, ok := r.NameOf(&engine{}); !ok || name != `App\Engine` {
		t.Errorf("NameOf(*engine): got %q/%v", name, ok)
	}
	if name, ok := r.NameOf((*vehicle)(nil)); !ok || name != `App\Vehicle` {
		t.Errorf("NameOf(*vehicle): got %q/%v", name, ok)
	}
	if _, ok := r.NameOf(nil); ok {
		t.Error("NameOf(nil) should be false")
	}
}
