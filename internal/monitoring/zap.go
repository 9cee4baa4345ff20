package monitoring

import (
	"context"

	"go.uber.org/zap"
)

// ZapMonitor implements Monitor on top of a zap sugared logger. Breadcrumbs
// land at debug level under a "category" field; errors at error level.
type ZapMonitor struct {
	l *zap.SugaredLogger
}

// NewZapMonitor wraps the given zap logger.
func NewZapMonitor(l *zap.Logger) *ZapMonitor {
	return &ZapMonitor{l: l.Sugar()}
}

func (m *ZapMonitor) LogError(_ context.Context, err error, msg string, args ...any) {
	kv := append([]any{"error", err}, args...)
	m.l.Errorw(msg, kv...)
}

func (m *ZapMonitor) AddBreadcrumb(_ context.Context, msg string, category string, args ...any) {
	kv := append([]any{"category", category}, args...)
	m.l.Debugw(msg, kv...)
}
