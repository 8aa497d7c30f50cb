// Package logger provides a thin, context-aware wrapper around log/slog used
// across the dashboard core.
//
// It exposes a single factory – New – configured through functional options,
// plus typed attribute constructors for the identifiers that appear in
// dashboard log records (user, notification, toast, operation). Context
// extractors registered at construction time inject request-scoped values
// into every record without the call sites knowing about them.
//
// # Usage
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithFormat(logger.FormatText),
//	)
//
//	log.InfoContext(ctx, "notification marked read",
//		logger.NotificationID(id),
//		logger.Operation("mark_as_read"),
//	)
package logger
