package netpoll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/airswitch/airswitch/internal/config"
)

// stubChecker reports a fixed adapter state.
type stubChecker struct {
	err error
}

func (s stubChecker) Check(name string) error {
	return s.err
}

// flakyProber fails a fixed number of times before succeeding.
type flakyProber struct {
	failures int
	attempts int
}

func (p *flakyProber) Probe(ctx context.Context) error {
	p.attempts++
	if p.attempts <= p.failures {
		return errors.New("connection refused")
	}
	return nil
}

func newTestPoller(checker AdapterChecker, prober Prober) *Poller {
	cfg := config.Default()
	cfg.Poll.Interval = time.Millisecond
	return New(cfg, WithAdapterChecker(checker), WithProber(prober))
}

func TestWaitAdapterUnavailable(t *testing.T) {
	checker := stubChecker{err: fmt.Errorf("%w: \"wlan0\" not found", ErrAdapterUnavailable)}
	prober := &flakyProber{}

	p := newTestPoller(checker, prober)
	_, err := p.Wait(context.Background())
	if !errors.Is(err, ErrAdapterUnavailable) {
		t.Fatalf("expected ErrAdapterUnavailable, got %v", err)
	}

	if prober.attempts != 0 {
		t.Error("the probe loop must not run when the adapter is unavailable")
	}
}

func TestWaitImmediateSuccess(t *testing.T) {
	p := newTestPoller(stubChecker{}, &flakyProber{})

	elapsed, err := p.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}
	if elapsed < 0 {
		t.Errorf("expected non-negative elapsed duration, got %v", elapsed)
	}
}

func TestWaitRetriesUntilReachable(t *testing.T) {
	prober := &flakyProber{failures: 3}
	p := newTestPoller(stubChecker{}, prober)

	_, err := p.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() failed: %v", err)
	}
	if prober.attempts != 4 {
		t.Errorf("expected 4 probe attempts, got %d", prober.attempts)
	}
}

func TestWaitCancellation(t *testing.T) {
	// A prober that never succeeds: only cancellation ends the loop.
	prober := &flakyProber{failures: int(^uint(0) >> 1)}
	p := newTestPoller(stubChecker{}, prober)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := p.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
