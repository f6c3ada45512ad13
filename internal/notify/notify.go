// Package notify provides desktop notification support for airswitch.
package notify

import (
	"fmt"
	"time"

	"github.com/airswitch/airswitch/internal/config"
)

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// NotifyConnected sends a notification about an established connection.
	NotifyConnected(profile string, elapsed time.Duration) error
	// NotifyFailure sends a notification about a failed connection attempt.
	NotifyFailure(profile string, err error) error
}

// Option configures a Notifier.
type Option func(*notifier)

// WithBackend sets a custom notification backend (for testing).
func WithBackend(backend Backend) Option {
	return func(n *notifier) {
		n.backend = backend
	}
}

// notifier sends desktop notifications using the system notification service.
type notifier struct {
	onConnect bool
	onFailure bool
	backend   Backend
}

// NotifyConnected sends a notification about an established connection.
func (n *notifier) NotifyConnected(profile string, elapsed time.Duration) error {
	if !n.onConnect {
		return nil
	}

	title := "airswitch: Connected"
	message := fmt.Sprintf("Profile '%s' is up.\nNetwork reachable after %dms", profile, elapsed.Milliseconds())

	return n.backend.Notify(title, message, "")
}

// NotifyFailure sends a notification about a failed connection attempt.
func (n *notifier) NotifyFailure(profile string, err error) error {
	if !n.onFailure {
		return nil
	}

	title := "airswitch: Connection Failed"
	message := fmt.Sprintf("Could not bring up profile '%s'.\nError: %v", profile, err)

	return n.backend.Alert(title, message, "")
}

// New creates a new Notifier based on the configuration.
func New(cfg config.NotificationConfig, opts ...Option) Notifier {
	n := &notifier{
		onConnect: cfg.Enabled && cfg.OnConnect,
		onFailure: cfg.Enabled && cfg.OnFailure,
		backend:   newDesktopBackend(),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}
