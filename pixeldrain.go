package pixeldrain

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/pixeldrain/client"
	"github.com/adamwoolhether/pixeldrain/errs"
)

// Version is reported in the default User-Agent.
const Version = "0.1.0"

// Client is a pixeldrain API client. Its services are safe for
// concurrent use; each call owns its own request and transfer state.
type Client struct {
	Files *FilesService
	Lists *ListsService
	User  *UserService

	c *client.Client
}

// New builds a Client. Options are those of [client.Build]; without
// client.WithAPIKey only anonymous operations succeed.
func New(opts ...client.Option) (*Client, error) {
	defaults := []client.Option{client.WithUserAgent("pixeldrain-go/" + Version)}

	c, err := client.Build(slices.Concat(defaults, opts)...)
	if err != nil {
		return nil, fmt.Errorf("building client: %w", err)
	}

	s := service{c: c}

	return &Client{
		Files: &FilesService{s},
		Lists: &ListsService{s},
		User:  &UserService{s},
		c:     c,
	}, nil
}

// service holds what every API group shares.
type service struct {
	c *client.Client
}

// request builds a request against path, which must already be escaped.
func (s service) request(ctx context.Context, method, path string, opts ...client.RequestOption) (*http.Request, error) {
	req, err := s.c.Request(ctx, s.c.URL(path), method, opts...)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}

	return req, nil
}

// exec runs a request whose success carries no payload.
func (s service) exec(ctx context.Context, method, path string, opts ...client.RequestOption) error {
	req, err := s.request(ctx, method, path, opts...)
	if err != nil {
		return err
	}

	return s.c.Do(req)
}

// fetch runs a request and decodes its payload into a T.
func fetch[T any](ctx context.Context, s service, method, path string, opts ...client.RequestOption) (T, error) {
	var v T

	req, err := s.request(ctx, method, path, opts...)
	if err != nil {
		return v, err
	}

	if err := s.c.Do(req, client.WithDestination(&v)); err != nil {
		return v, err
	}

	return v, nil
}

// start opens the span for one API operation.
func (s service) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.c.Tracer().Start(ctx, "pixeldrain."+op, trace.WithAttributes(attrs...))
}

// finish records err, if any, on span and ends it.
func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if code := errs.CodeOf(err); code != "" {
			span.SetAttributes(attribute.String("pixeldrain.error_code", code))
		}
	}
	span.End()
}
