package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger logs one line per service operation with its outcome.
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{logger: logger.With("service", service)}
}

// LogOperation picks the level from the error: expected client mistakes log
// at warn, missing resources at info, everything else at error.
func (l *ServiceLogger) LogOperation(ctx context.Context, operation, userID, resourceID string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err) || IsBusinessRule(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsUnauthorized(err):
			level = slog.LevelWarn
			status = "unauthorized"
		case IsNotFound(err):
			status = "not_found"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case errors.Is(err, ErrOptimizationTooLarge) || errors.Is(err, ErrHorizonTooLarge):
			level = slog.LevelWarn
			status = "rejected"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.String("resource_id", resourceID),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var ve ValidationErrors
		var bre *BusinessRuleError
		switch {
		case errors.As(err, &ve):
			attrs = append(attrs, slog.Int("validation_errors_count", len(ve)))
		case errors.As(err, &bre):
			attrs = append(attrs, slog.String("business_rule", bre.Rule))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// Operation tracks the timing of one call.
type Operation struct {
	logger    *ServiceLogger
	ctx       context.Context
	name      string
	userID    string
	startTime time.Time
}

func (l *ServiceLogger) WithOperation(ctx context.Context, name, userID string) *Operation {
	return &Operation{
		logger:    l,
		ctx:       ctx,
		name:      name,
		userID:    userID,
		startTime: time.Now(),
	}
}

func (o *Operation) LogResult(resourceID string, err error) {
	o.logger.LogOperation(o.ctx, o.name, o.userID, resourceID, time.Since(o.startTime), err)
}
