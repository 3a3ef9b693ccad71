// Package share delivers a score summary to wherever the platform lets the
// user paste it from.
package share

import (
	"context"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"
)

// Sharer delivers a text message outside the app.
type Sharer interface {
	Share(ctx context.Context, message string) error
}

// ClipboardSharer copies the message to the system clipboard.
type ClipboardSharer struct {
	write func(string) error
}

// NewClipboardSharer returns a Sharer backed by the system clipboard.
func NewClipboardSharer() *ClipboardSharer {
	return &ClipboardSharer{write: clipboard.WriteAll}
}

// Available reports whether a clipboard utility was found.
func (c *ClipboardSharer) Available() bool {
	return !clipboard.Unsupported
}

func (c *ClipboardSharer) Share(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.write(message); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// LoggingSharer logs every share attempt and its outcome.
type LoggingSharer struct {
	inner Sharer
	log   logrus.FieldLogger
}

// WithLogging wraps s so each delivery is logged.
func WithLogging(s Sharer, log logrus.FieldLogger) *LoggingSharer {
	return &LoggingSharer{inner: s, log: log}
}

func (l *LoggingSharer) Share(ctx context.Context, message string) error {
	err := l.inner.Share(ctx, message)
	entry := l.log.WithField("length", len(message))
	if err != nil {
		entry.WithError(err).Warn("share failed")
		return err
	}
	entry.Debug("shared")
	return nil
}

// MockSharer records messages for tests.
type MockSharer struct {
	mu       sync.Mutex
	Err      error
	Messages []string
}

func (m *MockSharer) Share(ctx context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, message)
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MockSharer) Sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Messages))
	copy(out, m.Messages)
	return out
}
