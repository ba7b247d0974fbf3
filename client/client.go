package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/pixeldrain/client/throttle"
	"github.com/adamwoolhether/pixeldrain/errs"
)

// Client wraps the std-lib *http.Client with an API root, a logger
// and a tracer. It sets a default *http.Client and transport chain,
// which can be customized via optional funcs.
type Client struct {
	c       *http.Client
	logger  *slog.Logger
	tracer  trace.Tracer
	baseURL *url.URL
}

func Build(optFns ...Option) (*Client, error) {
	base, err := url.Parse(DefaultBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing default base url: %w", err)
	}

	client := &Client{
		c:       &http.Client{},
		logger:  slog.Default(),
		tracer:  noop.NewTracerProvider().Tracer("no-op tracer"),
		baseURL: base,
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.client != nil {
		client.c = opts.client
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.baseURL != nil {
		client.baseURL = opts.baseURL
	}

	if opts.timeout != nil {
		client.c.Timeout = *opts.timeout
	}

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	logFn := func() *slog.Logger { return client.logger }
	transport = traced{tracer: client.tracer, logFn: logFn, log: opts.logRequests, base: transport}
	if opts.authorization != "" {
		transport = authorization{value: opts.authorization, base: transport}
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.New(*opts.throttle, logFn, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

// Logger returns the logger the Client was built with.
func (c *Client) Logger() *slog.Logger { return c.logger }

// Tracer returns the tracer the Client was built with.
func (c *Client) Tracer() trace.Tracer { return c.tracer }

// Do fires the request and verifies the response. A failed status is
// returned as an *errs.Error built from the error envelope. With
// WithDestination, the body is decoded into the destination and an
// empty or null body is an error.
func (c *Client) Do(req *http.Request, opts ...DoOption) error {
	var settings doOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return err
		}
	}

	doFunc := func(resp *http.Response) error {
		if settings.responseBody == nil {
			return nil
		}

		return decodeBody(resp.Body, settings.responseBody, settings.useJSONNum)
	}

	return c.exec(req, doFunc)
}

// Stream fires the request and, once the response headers report
// success, hands the response to fn to consume the body. The body is
// closed after fn returns.
func (c *Client) Stream(req *http.Request, fn func(*http.Response) error) error {
	if fn == nil {
		return errors.New("stream func must not be nil")
	}

	return c.exec(req, fn)
}

// Request instantiates an *http.Request with the provided information.
// It's just a convenience method that wraps the public Request func.
func (c *Client) Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	return Request(ctx, reqURL, method, opts...)
}

// URL resolves path against the Client's base URL. Path segments taken
// from user input must be escaped with [url.PathEscape].
func (c *Client) URL(path string, opts ...URLOption) *url.URL {
	var settings urlOpts
	for _, opt := range opts {
		opt(&settings)
	}

	endpoint := c.baseURL.JoinPath(path)

	if settings.queryStrings != nil {
		queryParams := url.Values{}
		for k, v := range settings.queryStrings {
			queryParams.Add(k, v)
		}

		endpoint.RawQuery = queryParams.Encode()
	}

	return endpoint
}

// exec runs the request and injected function on success after verifying the status code.
func (c *Client) exec(req *http.Request, fn execFn) error {
	resp, err := c.c.Do(req)
	if err != nil {
		return fmt.Errorf("exec http do: %w", err)
	}

	discardBody := true
	defer func() {
		if discardBody {
			if _, err = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrBodySize)); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err = resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if err := Verify(resp); err != nil {
		return err
	}

	if err := fn(resp); err != nil {
		discardBody = false
		// Coded errors keep their "code: message" form.
		if _, ok := err.(*errs.Error); ok {
			return err
		}
		return fmt.Errorf("exec fn: %w", err)
	}

	return nil
}

// Request instantiates an *http.Request with the provided information.
// At most one of WithPayload, WithForm and WithStream may be given;
// Content-Type is set to match the body unless overridden via
// WithContentType.
func Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	var settings requestOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return nil, err
		}
	}

	if settings.bodies > 1 {
		return nil, errors.New("only one of payload, form or stream may be set")
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	var contentType string
	switch {
	case settings.body != nil:
		var payload bytes.Buffer
		if err := json.NewEncoder(&payload).Encode(settings.body); err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
		setBufferedBody(req, payload.Bytes())
		contentType = "application/json"

	case settings.form != nil:
		var payload bytes.Buffer
		mw := multipart.NewWriter(&payload)
		for _, k := range slices.Sorted(maps.Keys(settings.form)) {
			if err := mw.WriteField(k, settings.form[k]); err != nil {
				return nil, fmt.Errorf("writing form field %q: %w", k, err)
			}
		}
		if err := mw.Close(); err != nil {
			return nil, fmt.Errorf("closing form: %w", err)
		}
		setBufferedBody(req, payload.Bytes())
		contentType = mw.FormDataContentType()

	case settings.stream != nil:
		body, err := settings.stream.Reader()
		if err != nil {
			return nil, fmt.Errorf("opening request stream: %w", err)
		}
		req.Body = body
		req.GetBody = settings.stream.Reader
		req.ContentLength = settings.stream.ContentLength()
		contentType = "application/octet-stream"
	}

	for _, cookie := range settings.cookies {
		req.AddCookie(cookie)
	}

	if settings.contentType != nil {
		contentType = *settings.contentType
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for k, v := range settings.headers {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	return req, nil
}

func setBufferedBody(req *http.Request, b []byte) {
	req.ContentLength = int64(len(b))
	req.Body = io.NopCloser(bytes.NewReader(b))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}
}
