package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type testProvider struct {
	name      string
	available bool
}

func (p *testProvider) Name() string                         { return p.name }
func (p *testProvider) IsAvailable(ctx context.Context) bool { return p.available }

func factoryFor(name string, available bool) Factory[*testProvider] {
	return func(cfg map[string]any) (*testProvider, error) {
		return &testProvider{name: name, available: available}, nil
	}
}

func newTestManager() *Manager[*testProvider] {
	return NewManager[*testProvider](NewRegistry[*testProvider](), &HealthCheckSelector[*testProvider]{})
}

func TestRegistry_CreatePassesConfig(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("local", func(cfg map[string]any) (*testProvider, error) {
		return &testProvider{name: cfg["socket"].(string), available: true}, nil
	})

	p, err := reg.Create("local", map[string]any{"socket": "/tmp/whisper.sock"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Name() != "/tmp/whisper.sock" {
		t.Errorf("expected factory to see config, got %q", p.Name())
	}
}

func TestRegistry_CreateUnregisteredNamesKnown(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("local", factoryFor("local", true))

	_, err := reg.Create("cloud", nil)
	if err == nil {
		t.Fatal("expected error for unregistered factory")
	}
	if !strings.Contains(err.Error(), `"cloud" not registered`) || !strings.Contains(err.Error(), "known: local") {
		t.Errorf("unexpected error %q", err.Error())
	}
}

func TestRegistry_CreateFactoryError(t *testing.T) {
	boom := errors.New("bad socket")
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("local", func(map[string]any) (*testProvider, error) { return nil, boom })

	if _, err := reg.Create("local", nil); !errors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("remote", factoryFor("remote", true))
	reg.RegisterFactory("local", factoryFor("local", true))

	names := reg.Names()
	if len(names) != 2 || names[0] != "local" || names[1] != "remote" {
		t.Errorf("expected sorted [local remote], got %v", names)
	}
}

func TestHealthCheckSelector_FirstAvailableByName(t *testing.T) {
	providers := map[string]*testProvider{
		"c": {name: "c", available: true},
		"a": {name: "a", available: false},
		"b": {name: "b", available: true},
	}

	p, err := (&HealthCheckSelector[*testProvider]{}).Select(context.Background(), providers)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if p.Name() != "b" {
		t.Errorf("expected 'b', got %q", p.Name())
	}
}

func TestHealthCheckSelector_NoneAvailable(t *testing.T) {
	providers := map[string]*testProvider{"a": {name: "a"}}

	_, err := (&HealthCheckSelector[*testProvider]{}).Select(context.Background(), providers)
	if !errors.Is(err, ErrNoneAvailable) {
		t.Errorf("expected ErrNoneAvailable, got %v", err)
	}
}

func TestManager_GetUsesSelectorWithoutDefault(t *testing.T) {
	mgr := newTestManager()
	mgr.Register("down", factoryFor("down", false))
	mgr.Register("up", factoryFor("up", true))
	if err := mgr.Initialize("down", nil); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Initialize("up", nil); err != nil {
		t.Fatal(err)
	}

	p, err := mgr.Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.Name() != "up" {
		t.Errorf("expected 'up', got %q", p.Name())
	}
}

func TestManager_GetByName(t *testing.T) {
	mgr := newTestManager()
	mgr.Register("local", factoryFor("local", true))
	if err := mgr.Initialize("local", nil); err != nil {
		t.Fatal(err)
	}

	p, err := mgr.GetByName("local")
	if err != nil || p.Name() != "local" {
		t.Fatalf("GetByName = (%v, %v)", p, err)
	}
	if _, err := mgr.GetByName("missing"); err == nil {
		t.Error("expected error for missing provider")
	}
}

func TestManager_SetDefault(t *testing.T) {
	mgr := newTestManager()
	mgr.Register("a", factoryFor("a", true))
	mgr.Register("b", factoryFor("b", true))
	_ = mgr.Initialize("a", nil)
	_ = mgr.Initialize("b", nil)

	if err := mgr.SetDefault("b"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	p, err := mgr.Get(context.Background())
	if err != nil || p.Name() != "b" {
		t.Fatalf("expected default 'b', got (%v, %v)", p, err)
	}
	if err := mgr.SetDefault("missing"); err == nil {
		t.Error("expected error for uninitialized default")
	}
}

func TestManager_Available(t *testing.T) {
	mgr := newTestManager()
	mgr.Register("x", factoryFor("x", true))
	mgr.Register("y", factoryFor("y", false))
	_ = mgr.Initialize("y", nil)
	_ = mgr.Initialize("x", nil)

	avail := mgr.Available()
	if len(avail) != 2 || avail[0] != "x" || avail[1] != "y" {
		t.Errorf("expected [x y], got %v", avail)
	}
}

func TestManager_InitializeUnregistered(t *testing.T) {
	if err := newTestManager().Initialize("unregistered", nil); err == nil {
		t.Error("expected error for unregistered provider")
	}
}

func TestManager_InitializeDefaultBypassesSelector(t *testing.T) {
	mgr := newTestManager()
	mgr.Register("local", factoryFor("local", false))
	if err := mgr.InitializeDefault("local", nil); err != nil {
		t.Fatalf("InitializeDefault failed: %v", err)
	}

	p, err := mgr.Get(context.Background())
	if err != nil {
		t.Fatalf("expected default provider even when unavailable, got %v", err)
	}
	if p.Name() != "local" {
		t.Errorf("expected 'local', got %q", p.Name())
	}
}

func TestManager_InitializeDefaultUnregistered(t *testing.T) {
	if err := newTestManager().InitializeDefault("missing", nil); err == nil {
		t.Error("expected error for unregistered provider")
	}
}

type healthyProvider struct{ testProvider }

func (p *healthyProvider) Health(ctx context.Context) HealthStatus {
	return HealthStatus{Status: StatusDegraded, Message: "warming up"}
}

func TestCheckHealth(t *testing.T) {
	ctx := context.Background()

	if got := CheckHealth(ctx, &testProvider{name: "up", available: true}); got.Status != StatusHealthy {
		t.Errorf("expected healthy, got %s", got.Status)
	}
	if got := CheckHealth(ctx, &testProvider{name: "down"}); got.Status != StatusUnavailable {
		t.Errorf("expected unavailable, got %s", got.Status)
	}
	got := CheckHealth(ctx, &healthyProvider{testProvider{name: "hc", available: true}})
	if got.Status != StatusDegraded || got.Message != "warming up" {
		t.Errorf("expected HealthChecker result, got %+v", got)
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusHealthy:     "healthy",
		StatusDegraded:    "degraded",
		StatusUnavailable: "unavailable",
		Status(99):        "unknown",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("Status(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}

func TestFromSlice(t *testing.T) {
	ctx := context.Background()
	it := FromSlice([]int{1, 2})

	for _, want := range []int{1, 2} {
		v, ok, err := it.Next(ctx)
		if err != nil || !ok || v != want {
			t.Fatalf("Next() = (%d, %v, %v), want (%d, true, nil)", v, ok, err, want)
		}
	}
	if _, ok, err := it.Next(ctx); ok || err != nil {
		t.Errorf("expected exhaustion, got ok=%v err=%v", ok, err)
	}
}

func TestFromSliceWithError_Sticky(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	it := FromSliceWithError([]string{"a"}, boom)

	if v, ok, err := it.Next(ctx); v != "a" || !ok || err != nil {
		t.Fatalf("unexpected first value (%q, %v, %v)", v, ok, err)
	}
	for i := 0; i < 2; i++ {
		if _, ok, err := it.Next(ctx); ok || !errors.Is(err, boom) {
			t.Fatalf("expected sticky error, got ok=%v err=%v", ok, err)
		}
	}
}

func TestFromSlice_ClosedAndCancelled(t *testing.T) {
	it := FromSlice([]int{1, 2, 3})
	_ = it.Close()
	if _, ok, _ := it.Next(context.Background()); ok {
		t.Error("expected no values after Close")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := FromSlice([]int{1}).Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
