package client

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}

// authorization sets a prebuilt Authorization header unless the
// request already carries one.
type authorization struct {
	value string
	base  http.RoundTripper
}

func (a authorization) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get("Authorization") != "" {
		return a.base.RoundTrip(r)
	}

	cpy := r.Clone(r.Context())
	cpy.Header.Set("Authorization", a.value)
	return a.base.RoundTrip(cpy)
}

// traced wraps every request in a client span, propagates the trace
// context in the outgoing headers, and optionally logs the exchange.
type traced struct {
	tracer trace.Tracer
	logFn  func() *slog.Logger
	log    bool
	base   http.RoundTripper
}

func (t traced) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(r.Context(), "pixeldrain.http",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("path", r.URL.Path),
		),
	)
	defer span.End()

	cpy := r.Clone(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(cpy.Header))

	traceID := span.SpanContext().TraceID().String()
	if !span.SpanContext().TraceID().IsValid() {
		traceID = uuid.New().String()
	}

	log := t.logFn()
	now := time.Now()
	if t.log {
		log.Info("request started", "method", r.Method, "path", r.URL.Path, "traceid", traceID, "contentLength", r.ContentLength)
	}

	resp, err := t.base.RoundTrip(cpy)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if t.log {
			log.Info("request failed", "method", r.Method, "path", r.URL.Path, "traceid", traceID, "since", time.Since(now).String(), "error", err)
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if !Success(resp) {
		span.SetStatus(codes.Error, resp.Status)
	}

	if t.log {
		log.Info("request completed", "method", r.Method, "path", r.URL.Path, "traceid", traceID, "statusCode", resp.StatusCode, "since", time.Since(now).String())
	}

	return resp, nil
}
