package passcache

import (
	"context"
	"errors"
	"testing"

	"github.com/airswitch/airswitch/internal/config"
	"github.com/airswitch/airswitch/internal/sysexec"
)

func newTestCache(runner *sysexec.MockRunner) *Cache {
	cfg := config.Default()
	return New(cfg, WithRunner(runner))
}

func TestByIndex(t *testing.T) {
	runner := sysexec.NewMockRunner()
	runner.Script("wifipass show 0", sysexec.MockResult{Stdout: "ABCD1234\n"})
	cache := newTestCache(runner)

	secret, err := cache.ByIndex(context.Background(), 0)
	if err != nil {
		t.Fatalf("ByIndex(0) failed: %v", err)
	}
	if secret != "ABCD1234" {
		t.Errorf("expected secret 'ABCD1234', got %q", secret)
	}
}

func TestByIndexOutOfRange(t *testing.T) {
	runner := sysexec.NewMockRunner()
	runner.Script("wifipass show 99", sysexec.MockResult{ExitCode: 1})
	cache := newTestCache(runner)

	_, err := cache.ByIndex(context.Background(), 99)
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
}

func TestByIndexEmptyOutput(t *testing.T) {
	runner := sysexec.NewMockRunner()
	runner.Script("wifipass show 2", sysexec.MockResult{Stdout: "\n"})
	cache := newTestCache(runner)

	_, err := cache.ByIndex(context.Background(), 2)
	if !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for empty output, got %v", err)
	}
}

func TestToday(t *testing.T) {
	runner := sysexec.NewMockRunner()
	runner.Script("wifipass show 0", sysexec.MockResult{Stdout: "todaysecret\n"})
	cache := newTestCache(runner)

	secret, err := cache.Today(context.Background())
	if err != nil {
		t.Fatalf("Today() failed: %v", err)
	}
	if secret != "todaysecret" {
		t.Errorf("expected 'todaysecret', got %q", secret)
	}
}

func TestTodayCacheMiss(t *testing.T) {
	runner := sysexec.NewMockRunner()
	runner.Script("wifipass show 0", sysexec.MockResult{ExitCode: 1})
	cache := newTestCache(runner)

	_, err := cache.Today(context.Background())
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	runner := sysexec.NewMockRunner()
	cache := newTestCache(runner)

	if err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() failed: %v", err)
	}

	calls := runner.Calls()
	if len(calls) != 1 || calls[0] != "wifipass update" {
		t.Errorf("expected a single 'wifipass update' invocation, got %v", calls)
	}
}

func TestRefreshFailure(t *testing.T) {
	runner := sysexec.NewMockRunner()
	runner.Script("wifipass update", sysexec.MockResult{ExitCode: 1})
	cache := newTestCache(runner)

	if err := cache.Refresh(context.Background()); err == nil {
		t.Error("expected an error when the cache tool fails")
	}
}

func TestMissingBinary(t *testing.T) {
	runner := sysexec.NewMockRunner()
	runner.SetLookPathError(errors.New("executable file not found in $PATH"))
	cache := newTestCache(runner)

	if _, err := cache.Today(context.Background()); err == nil {
		t.Error("expected an error when the cache binary is missing")
	}
}
