package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey    contextKey = "logger"
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	orderIDKey   contextKey = "order_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the request logger enriched with trace ids,
// or a no-op logger when none is attached.
func FromContext(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok || l == nil {
		return zap.NewNop()
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		l = l.With(
			zap.String("trace_id", spanCtx.TraceID().String()),
			zap.String("span_id", spanCtx.SpanID().String()),
		)
	}
	return l
}

// WithRequestID stores the request id and adds it to the context logger
func WithRequestID(ctx context.Context, requestID string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	return enrich(ctx, zap.String("request_id", requestID))
}

// WithUserID stores the authenticated user id and adds it to the context logger
func WithUserID(ctx context.Context, userID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return enrich(ctx, zap.String("user_id", userID))
}

// WithOrderID stores the order being worked on and adds it to the context logger
func WithOrderID(ctx context.Context, orderID string) context.Context {
	ctx = context.WithValue(ctx, orderIDKey, orderID)
	return enrich(ctx, zap.String("order_id", orderID))
}

// GetRequestID retrieves request ID from context
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// GetUserID retrieves user ID from context
func GetUserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// GetOrderID retrieves order ID from context
func GetOrderID(ctx context.Context) string {
	v, _ := ctx.Value(orderIDKey).(string)
	return v
}

func enrich(ctx context.Context, field zap.Field) context.Context {
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok || l == nil {
		return ctx
	}
	return WithContext(ctx, l.With(field))
}
