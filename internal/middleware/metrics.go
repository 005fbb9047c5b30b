package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/sharebook/internal/metrics"
)

type metricsInterceptor struct {
	m *metrics.Metrics
}

// MetricsInterceptor counts handled RPCs and records their duration.
func MetricsInterceptor(m *metrics.Metrics) connect.Interceptor {
	return &metricsInterceptor{m: m}
}

func (i *metricsInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		i.observe(req.Spec().Procedure, start, err)
		return resp, err
	}
}

func (i *metricsInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *metricsInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		i.m.Streams.Inc()
		defer i.m.Streams.Dec()
		err := next(ctx, conn)
		i.observe(conn.Spec().Procedure, start, err)
		return err
	}
}

func (i *metricsInterceptor) observe(procedure string, start time.Time, err error) {
	code := "ok"
	if err != nil {
		code = connect.CodeOf(err).String()
	}
	i.m.RPCs.WithLabelValues(procedure, code).Inc()
	i.m.RPCDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
}
