package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/mobile_banking_api/internal/apperrors"
	"github.com/SscSPs/mobile_banking_api/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// LogFailure logs business-rule outcomes at warn level and everything else at error level.
func (s *BaseService) LogFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if apperrors.IsExpected(err) {
		args := make([]any, 0, len(keyvals)+2)
		args = append(args, slog.String("reason", err.Error()), slog.String("code", string(apperrors.KindOf(err))))
		args = append(args, keyvals...)
		s.LogWarn(ctx, msg, args...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}
