package observability

import (
	"context"
	"log/slog"
)

// RepoLogger provides structured logging for repository writes.
type RepoLogger struct {
	table  string
	logger *slog.Logger
}

// NewRepoLogger creates a RepoLogger for the given table.
func NewRepoLogger(table string, logger *slog.Logger) *RepoLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepoLogger{table: table, logger: logger}
}

// LogWrite logs a successful create, update or delete.
func (l *RepoLogger) LogWrite(ctx context.Context, operation string, attrs ...slog.Attr) {
	args := []any{
		slog.String("table", l.table),
		slog.String("operation", operation),
	}
	for _, a := range attrs {
		args = append(args, a)
	}
	l.logger.InfoContext(ctx, "repository "+operation, args...)
}

// LogError logs a failed repository operation.
func (l *RepoLogger) LogError(ctx context.Context, operation string, err error) {
	l.logger.ErrorContext(ctx, "repository error",
		slog.String("table", l.table),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
