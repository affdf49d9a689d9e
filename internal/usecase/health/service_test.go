package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockCatalog struct {
	loaded bool
}

func (m *mockCatalog) Loaded() bool { return m.loaded }

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

type mockBreaker struct {
	state string
}

func (m *mockBreaker) State() string { return m.state }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockCatalog{loaded: true}, &mockCachePinger{}, &mockBreaker{state: "closed"})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"catalog", "cache", "metadata"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
}

func TestCheck_CatalogNotLoaded(t *testing.T) {
	svc := New(&mockCatalog{}, &mockCachePinger{}, nil)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["catalog"] != CheckError {
		t.Errorf("expected catalog %q, got %q", CheckError, r.Checks["catalog"])
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockCatalog{loaded: true}, &mockCachePinger{err: errors.New("conn refused")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
}

func TestCheck_BreakerOpen(t *testing.T) {
	svc := New(&mockCatalog{loaded: true}, nil, &mockBreaker{state: "open"})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["metadata"] != CheckError {
		t.Errorf("expected metadata %q, got %q", CheckError, r.Checks["metadata"])
	}
}

func TestCheck_OptionalComponentsOmitted(t *testing.T) {
	svc := New(&mockCatalog{loaded: true}, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check must be absent when disabled")
	}
	if _, ok := r.Checks["metadata"]; ok {
		t.Error("metadata check must be absent without a breaker")
	}
}
