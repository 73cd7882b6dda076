package httpapi

import "log/slog"

// auditLogger records security-relevant events. Failures log the reason
// but never the credentials involved.
type auditLogger struct {
	logger *slog.Logger
}

func newAuditLogger(logger *slog.Logger) *auditLogger {
	return &auditLogger{logger: logger}
}

func (l *auditLogger) success(event string, attrs ...any) {
	l.logger.Info(event, append([]any{slog.String("outcome", "success")}, attrs...)...)
}

func (l *auditLogger) failure(event string, err error, attrs ...any) {
	l.logger.Warn(event, append([]any{
		slog.String("outcome", "failure"),
		slog.String("reason", err.Error()),
	}, attrs...)...)
}
