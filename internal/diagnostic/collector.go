package diagnostic

import (
	"context"
	"log/slog"
	"sync"
)

// Reporter receives diagnostics. Implementations must be safe for
// concurrent use.
type Reporter interface {
	Report(d Diagnostic)
}

// Collector is a Reporter that accumulates diagnostics in arrival order and
// echoes them to a logger.
type Collector struct {
	mu     sync.Mutex
	diags  Diagnostics
	logger *slog.Logger
}

// NewCollector creates a collector. A nil logger disables the echo.
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{logger: logger}
}

// Report implements Reporter.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	c.diags.Add(d)
	c.mu.Unlock()

	if c.logger == nil {
		return
	}

	level := slog.LevelInfo

	switch d.Severity {
	case DiagnosticError:
		level = slog.LevelError
	case DiagnosticWarning:
		level = slog.LevelWarn
	}

	c.logger.Log(context.Background(), level, d.Message,
		slog.String("kind", d.Kind.String()),
		slog.String("pair", d.TypePair),
		slog.String("member", d.Member),
	)
}

// Diagnostics returns a snapshot of everything reported so far.
func (c *Collector) Diagnostics() Diagnostics {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out Diagnostics
	out.Merge(c.diags)

	return out
}

// Len returns the number of diagnostics reported so far.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.diags.Errors) + len(c.diags.Warnings) + len(c.diags.Infos)
}
