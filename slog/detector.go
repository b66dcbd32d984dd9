package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/docpack"
)

// Ensure LoggingInspector implements docpack.Inspector.
var _ docpack.Inspector = (*LoggingInspector)(nil)

// LoggingInspector wraps an Inspector with debug logging for framework detection.
type LoggingInspector struct {
	next   docpack.Inspector
	logger *slog.Logger
}

// NewLoggingInspector creates a new LoggingInspector.
func NewLoggingInspector(next docpack.Inspector, logger *slog.Logger) *LoggingInspector {
	return &LoggingInspector{next: next, logger: logger}
}

// Detect delegates to the wrapped inspector and logs the detected framework.
func (p *LoggingInspector) Detect(html string) docpack.Framework {
	begin := time.Now()
	framework := p.next.Detect(html)
	frameworkName := string(framework)
	if framework == docpack.FrameworkUnknown {
		frameworkName = "(unknown)"
	}
	p.logger.Debug("framework detection",
		"framework", frameworkName,
		"duration", time.Since(begin),
	)
	return framework
}

// RequiresJS delegates to the wrapped inspector.
func (p *LoggingInspector) RequiresJS(framework docpack.Framework) (requires bool, known bool) {
	return p.next.RequiresJS(framework)
}
