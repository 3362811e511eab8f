package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/intervue-dev/intervue/internal/interview"
)

func TestCacheGetOrCreateSingleInit(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()

	const callers = 50
	var initCalls atomic.Int32
	var wg sync.WaitGroup

	results := make([]*Context, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = cache.GetOrCreate(ctx, "itv-7", func(ctx context.Context) (*Context, error) {
				initCalls.Add(1)
				return &Context{ResumeText: "resume text"}, nil
			})
		}(i)
	}
	wg.Wait()

	if got := initCalls.Load(); got != 1 {
		t.Errorf("initializer ran %d times, want 1", got)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d: GetOrCreate() error = %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Fatalf("caller %d observed a different context instance", i)
		}
		if results[i].ResumeText != "resume text" {
			t.Errorf("caller %d: ResumeText = %q", i, results[i].ResumeText)
		}
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}

func TestCacheGetOrCreateDoesNotRelitigate(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()

	first, err := cache.GetOrCreate(ctx, "itv-7", func(ctx context.Context) (*Context, error) {
		return &Context{ResumeText: "first"}, nil
	})
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	second, err := cache.GetOrCreate(ctx, "itv-7", func(ctx context.Context) (*Context, error) {
		t.Error("initializer ran for an installed key")
		return &Context{ResumeText: "second"}, nil
	})
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	if second != first {
		t.Error("second caller did not observe the installed context")
	}
	if second.ResumeText != "first" {
		t.Errorf("ResumeText = %q, want %q", second.ResumeText, "first")
	}
}

func TestCacheGetOrCreateInitFailure(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()

	wantErr := errors.New("resume download failed")
	if _, err := cache.GetOrCreate(ctx, "itv-7", func(ctx context.Context) (*Context, error) {
		return nil, wantErr
	}); !errors.Is(err, wantErr) {
		t.Fatalf("GetOrCreate() error = %v, want %v", err, wantErr)
	}

	// A failed initialization installs nothing; the next call retries.
	sc, err := cache.GetOrCreate(ctx, "itv-7", func(ctx context.Context) (*Context, error) {
		return &Context{ResumeText: "recovered"}, nil
	})
	if err != nil {
		t.Fatalf("GetOrCreate() after failure error = %v", err)
	}
	if sc.ResumeText != "recovered" {
		t.Errorf("ResumeText = %q, want %q", sc.ResumeText, "recovered")
	}
}

func TestCacheRemoveForcesReload(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()

	var initCalls atomic.Int32
	init := func(ctx context.Context) (*Context, error) {
		initCalls.Add(1)
		return &Context{ResumeText: fmt.Sprintf("load %d", initCalls.Load())}, nil
	}

	if _, err := cache.GetOrCreate(ctx, "itv-7", init); err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	cache.Remove("itv-7")
	if _, ok := cache.Get("itv-7"); ok {
		t.Fatal("Get() found an entry after Remove()")
	}

	sc, err := cache.GetOrCreate(ctx, "itv-7", init)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if got := initCalls.Load(); got != 2 {
		t.Errorf("initializer ran %d times, want 2", got)
	}
	if sc.ResumeText != "load 2" {
		t.Errorf("ResumeText = %q, want %q", sc.ResumeText, "load 2")
	}
}

func TestCacheRemoveAbsentIsNoop(t *testing.T) {
	cache := NewCache()
	cache.Remove("itv-404")
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cache.Len())
	}
}

func TestCacheReplaceOverwrites(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()

	if _, err := cache.GetOrCreate(ctx, "itv-7", func(ctx context.Context) (*Context, error) {
		return &Context{ResumeText: "stale"}, nil
	}); err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}

	fresh := &Context{ResumeText: "fresh"}
	cache.Replace("itv-7", fresh)

	sc, ok := cache.Get("itv-7")
	if !ok {
		t.Fatal("Get() missing entry after Replace()")
	}
	if sc != fresh {
		t.Error("Replace() did not install the new context")
	}
}

func TestHistoryAppendOrder(t *testing.T) {
	sc := &Context{}
	for i := 0; i < 10; i++ {
		sc.Append(Turn{Content: fmt.Sprintf("turn-%d", i)})
	}

	if len(sc.History) != 10 {
		t.Fatalf("history length = %d, want 10", len(sc.History))
	}
	for i, turn := range sc.History {
		if want := fmt.Sprintf("turn-%d", i); turn.Content != want {
			t.Errorf("History[%d].Content = %q, want %q", i, turn.Content, want)
		}
	}
}

func TestFromMessages(t *testing.T) {
	msgs := []interview.Message{
		{ID: "m1", Content: "Tell me about yourself.", FromAssistant: true, Kind: interview.KindText},
		{ID: "m2", Content: "I build Go services.", Kind: interview.KindText},
		{ID: "m3", Content: "Walk me through this.", Kind: interview.KindCoding, Code: "func f() {}"},
	}

	turns := FromMessages(msgs)
	if len(turns) != 3 {
		t.Fatalf("len = %d, want 3", len(turns))
	}
	if !turns[0].FromAssistant || turns[0].MessageID != "m1" {
		t.Errorf("turns[0] = %+v", turns[0])
	}
	if turns[2].Kind != TurnCoding || turns[2].Code != "func f() {}" {
		t.Errorf("turns[2] = %+v", turns[2])
	}
}
