package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Engine hooks
	e := NoopEngineHooks{}
	e.OnEvaluate(ctx, 3, true, time.Millisecond)
	e.OnPreferencesUpdated(ctx, 10)
	e.OnImport(ctx, 42, errors.New("bad json"))

	// Store hooks
	s := NoopStoreHooks{}
	s.OnLoad(ctx, "file", false, nil)
	s.OnSave(ctx, "sqlite", 1024, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset() should restore NoopStoreHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)

	// Setting nil should be ignored
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}

	Reset()
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)

	Engine().OnEvaluate(context.Background(), 2, false, time.Millisecond)
	Engine().OnEvaluate(context.Background(), 0, true, time.Millisecond)

	if custom.evaluations != 2 {
		t.Errorf("evaluations = %d, want 2", custom.evaluations)
	}
}

// Test implementations
type testEngineHooks struct {
	NoopEngineHooks
	evaluations int
}

func (h *testEngineHooks) OnEvaluate(context.Context, int, bool, time.Duration) {
	h.evaluations++
}

type testStoreHooks struct{ NoopStoreHooks }
