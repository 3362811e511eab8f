package provider

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Get("nope", nil); err == nil {
		t.Fatal("Get() should fail for unknown provider")
	}
}

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()
	mock := NewMockCompleter("hello")
	r.Register("mock", mock)

	got, err := r.Get("mock", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != Completer(mock) {
		t.Error("Get() returned a different provider")
	}
}

func TestRegistryFactoryConstructedOnce(t *testing.T) {
	r := NewRegistry()

	calls := 0
	r.RegisterFactory("counted", func(config map[string]any) (Completer, error) {
		calls++
		return NewMockCompleter("ok"), nil
	})

	first, err := r.Get("counted", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	second, err := r.Get("counted", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if calls != 1 {
		t.Errorf("factory ran %d times, want 1", calls)
	}
	if first != second {
		t.Error("Get() returned different instances for the same name")
	}
}

func TestRegistryFactoryError(t *testing.T) {
	r := NewRegistry()

	wantErr := errors.New("boom")
	r.RegisterFactory("broken", func(config map[string]any) (Completer, error) {
		return nil, wantErr
	})

	if _, err := r.Get("broken", nil); !errors.Is(err, wantErr) {
		t.Fatalf("Get() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestRegistryHasAndList(t *testing.T) {
	r := NewRegistry()
	if !r.Has("openai") || !r.Has("gemini") {
		t.Error("built-in factories should be registered")
	}
	if r.Has("mock") {
		t.Error("Has() true for unregistered provider")
	}

	r.Register("mock", NewMockCompleter("ok"))
	names := r.List()
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	for _, want := range []string{"openai", "gemini", "mock"} {
		if !found[want] {
			t.Errorf("List() missing %q: %v", want, names)
		}
	}
}

func TestMockCompleterSequence(t *testing.T) {
	m := &MockCompleter{
		Responses: []string{"first", "second"},
		Errors:    []error{nil, nil, errors.New("upstream down")},
	}
	ctx := context.Background()

	tests := []struct {
		want    string
		wantErr bool
	}{
		{want: "first"},
		{want: "second"},
		{wantErr: true},
	}

	for i, tt := range tests {
		got, err := m.Complete(ctx, "prompt")
		if tt.wantErr {
			if err == nil {
				t.Fatalf("call %d: expected error", i)
			}
			continue
		}
		if err != nil {
			t.Fatalf("call %d: error = %v", i, err)
		}
		if got != tt.want {
			t.Errorf("call %d: got %q, want %q", i, got, tt.want)
		}
	}

	if m.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", m.Calls())
	}
}
