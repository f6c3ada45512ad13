// Package netpoll confirms that a newly established connection is actually
// usable by probing an external reachability target.
package netpoll

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/airswitch/airswitch/internal/config"
)

// ErrAdapterUnavailable is returned when the wireless adapter is missing or
// administratively down. This is fatal; there is no retry.
var ErrAdapterUnavailable = errors.New("wireless adapter unavailable")

// AdapterChecker reports whether a network interface is present and up.
type AdapterChecker interface {
	Check(name string) error
}

// systemAdapterChecker checks interfaces via the OS network stack.
type systemAdapterChecker struct{}

func (systemAdapterChecker) Check(name string) error {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return fmt.Errorf("%w: %q not found", ErrAdapterUnavailable, name)
	}
	if iface.Flags&net.FlagUp == 0 {
		return fmt.Errorf("%w: %q is down", ErrAdapterUnavailable, name)
	}
	return nil
}

// Prober performs a single reachability attempt against the probe target.
type Prober interface {
	Probe(ctx context.Context) error
}

// httpProber probes with a plain GET and a short per-attempt timeout. Any
// HTTP response counts as reachability; captive portals and redirects still
// prove the network path works.
type httpProber struct {
	url    string
	client *http.Client
}

func (p *httpProber) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("invalid probe URL: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// Poller blocks until the network path behind the adapter is usable.
type Poller struct {
	cfg     *config.Config
	checker AdapterChecker
	prober  Prober
}

// Option configures a Poller.
type Option func(*Poller)

// WithAdapterChecker sets a custom adapter checker (for testing).
func WithAdapterChecker(checker AdapterChecker) Option {
	return func(p *Poller) {
		p.checker = checker
	}
}

// WithProber sets a custom reachability prober (for testing).
func WithProber(prober Prober) Option {
	return func(p *Poller) {
		p.prober = prober
	}
}

// New creates a Poller for the given configuration.
func New(cfg *config.Config, opts ...Option) *Poller {
	p := &Poller{
		cfg:     cfg,
		checker: systemAdapterChecker{},
		prober: &httpProber{
			url:    cfg.ProbeURL,
			client: &http.Client{Timeout: cfg.Poll.ProbeTimeout},
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait checks the adapter once, then probes the reachability target at a
// fixed interval until it answers. The loop has no overall deadline: once the
// adapter is confirmed present the poll blocks for as long as the network
// association takes, and only context cancellation (process termination)
// aborts it. The returned duration is the elapsed wall-clock time.
func (p *Poller) Wait(ctx context.Context) (time.Duration, error) {
	if err := p.checker.Check(p.cfg.Adapter); err != nil {
		return 0, err
	}

	start := time.Now()
	for {
		if err := p.prober.Probe(ctx); err == nil {
			return time.Since(start), nil
		}

		select {
		case <-ctx.Done():
			return time.Since(start), ctx.Err()
		case <-time.After(p.cfg.Poll.Interval):
		}
	}
}
