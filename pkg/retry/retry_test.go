package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), DefaultPolicy(), "fetch", func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	if result != 42 {
		t.Errorf("Expected 42, got %d", result)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestDoRetriesThenSucceeds(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}

	calls := 0
	result, err := Do(context.Background(), p, "fetch", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	if result != "ok" {
		t.Errorf("Expected ok, got %s", result)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestDoExhausted(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 10 * time.Millisecond}

	calls := 0
	lastErr := errors.New("upstream down")
	_, err := Do(context.Background(), p, "fetch-quote", func(ctx context.Context) (int, error) {
		calls++
		return 0, lastErr
	})

	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}

	if !IsExhausted(err) {
		t.Fatalf("Expected exhausted error, got %v", err)
	}

	if !errors.Is(err, lastErr) {
		t.Error("Expected exhausted error to wrap the last error")
	}

	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatal("Expected *ExhaustedError")
	}
	if ex.Op != "fetch-quote" || ex.Attempts != 3 {
		t.Errorf("Unexpected exhausted error fields: %+v", ex)
	}
}

func TestDoContextCancelled(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseDelay: 50 * time.Millisecond, MaxDelay: time.Second}

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Do(ctx, p, "fetch", func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("transient")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call before cancellation, got %d", calls)
	}
}
