package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Ключи для context
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

// WithRequestID добавляет request ID в context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithUserID добавляет user ID в context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}

// FromContext создает entry с полями из context (request_id, user_id)
func FromContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(GetLogger())
	if ctx == nil {
		return entry
	}

	f := logrus.Fields{}
	if requestID := GetRequestID(ctx); requestID != "" {
		f["request_id"] = requestID
	}
	if userID := GetUserID(ctx); userID != "" {
		f["user_id"] = userID
	}
	if len(f) > 0 {
		entry = entry.WithFields(f)
	}
	return entry
}

// ============================================
// Логирование с context
// ============================================

func CtxDebug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WithFields(fields(args)).Debug(msg)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WithFields(fields(args)).Info(msg)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WithFields(fields(args)).Warn(msg)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).WithFields(fields(args)).Error(msg)
}

// CtxWithError логирует error с error объектом
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	entry := FromContext(ctx).WithFields(fields(args))
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}
