package client_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/adamwoolhether/pixeldrain/client"
	"github.com/adamwoolhether/pixeldrain/client/throttle"
	"github.com/adamwoolhether/pixeldrain/client/transfer"
	"github.com/adamwoolhether/pixeldrain/errs"
)

type payload struct {
	Body string `json:"body"`
}

// roundTripFunc adapts a function into an http.RoundTripper.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// newTestClient builds a Client whose base URL is a test server running h.
func newTestClient(t *testing.T, h http.Handler, opts ...client.Option) *client.Client {
	t.Helper()

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := client.Build(append([]client.Option{client.WithBaseURL(ts.URL + "/api/")}, opts...)...)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return c
}

func get(t *testing.T, c *client.Client, path string) *http.Request {
	t.Helper()

	req, err := c.Request(t.Context(), c.URL(path), http.MethodGet)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	return req
}

func TestClient_WithUserAgent(t *testing.T) {
	expectedUA := "TestUserAgent/1.0"

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != expectedUA {
			t.Errorf("expected User-Agent %q, got %q", expectedUA, ua)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	}), client.WithUserAgent(expectedUA))

	if err := c.Do(get(t, c, "user")); err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
}

func TestClient_WithAPIKey(t *testing.T) {
	testCases := map[string]struct {
		key     string
		headers map[string][]string
		exp     string
	}{
		"key": {
			key: "secret-key",
			exp: "Basic " + base64.StdEncoding.EncodeToString([]byte(":secret-key")),
		},
		"blankKey": {
			key: "   ",
			exp: "",
		},
		"explicitHeaderWins": {
			key:     "secret-key",
			headers: map[string][]string{"Authorization": {"Bearer other"}},
			exp:     "Bearer other",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var got string
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
			}), client.WithAPIKey(tc.key))

			req, err := c.Request(t.Context(), c.URL("user"), http.MethodGet, client.WithHeaders(tc.headers))
			if err != nil {
				t.Fatalf("failed to create request: %v", err)
			}

			if err := c.Do(req); err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}

			if got != tc.exp {
				t.Errorf("exp Authorization %q, got %q", tc.exp, got)
			}
		})
	}
}

func TestClient_FullChainComposition(t *testing.T) {
	expectedUA := "FullChain/1.0"
	expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(":k"))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != expectedUA {
			t.Errorf("expected User-Agent %q, got %q", expectedUA, ua)
		}
		if auth := r.Header.Get("Authorization"); auth != expectedAuth {
			t.Errorf("expected Authorization %q, got %q", expectedAuth, auth)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	var transportCalled bool
	custom := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		transportCalled = true
		return http.DefaultTransport.RoundTrip(r)
	})

	// Option order must not change the resulting chain.
	orders := [][]client.Option{
		{client.WithTransport(custom), client.WithUserAgent(expectedUA), client.WithThrottle(100, 10), client.WithAPIKey("k")},
		{client.WithThrottle(100, 10), client.WithAPIKey("k"), client.WithTransport(custom), client.WithUserAgent(expectedUA)},
		{client.WithAPIKey("k"), client.WithUserAgent(expectedUA), client.WithThrottle(100, 10), client.WithTransport(custom)},
	}

	for i, opts := range orders {
		transportCalled = false

		c, err := client.Build(append(opts, client.WithBaseURL(ts.URL))...)
		if err != nil {
			t.Fatalf("order %d: failed to create client: %v", i, err)
		}

		if err := c.Do(get(t, c, "user")); err != nil {
			t.Errorf("order %d: expected no error, got: %v", i, err)
		}
		if !transportCalled {
			t.Errorf("order %d: custom transport was not called", i)
		}
	}
}

func TestClient_BuildValidation(t *testing.T) {
	testCases := map[string]struct {
		opt    client.Option
		expErr error
	}{
		"nilTransport":     {opt: client.WithTransport(nil)},
		"nilClient":        {opt: client.WithClient(nil)},
		"negativeTimeout":  {opt: client.WithTimeout(-1)},
		"nilTracer":        {opt: client.WithTracer(nil)},
		"relativeBaseURL":  {opt: client.WithBaseURL("/api/")},
		"zeroThrottleRPS":  {opt: client.WithThrottle(0, 10), expErr: throttle.ErrMustNotBeZero},
		"zeroThrottleBurs": {opt: client.WithThrottle(10, 0), expErr: throttle.ErrMustNotBeZero},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := client.Build(tc.opt)
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.expErr != nil && !errors.Is(err, tc.expErr) {
				t.Errorf("expected %v, got: %v", tc.expErr, err)
			}
		})
	}
}

func TestClient_WithClientAndWithTimeout(t *testing.T) {
	custom := &http.Client{Timeout: 42 * time.Second}

	if _, err := client.Build(client.WithClient(custom), client.WithTimeout(5*time.Second)); err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if custom.Timeout != 5*time.Second {
		t.Errorf("expected WithTimeout to apply to the custom client, got %v", custom.Timeout)
	}
}

func TestClient_WithNoFollowRedirects(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/redirect") {
			http.Redirect(w, r, "/target", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}), client.WithNoFollowRedirects())

	// A redirect is not a success status, so it surfaces as an API error.
	err := c.Do(get(t, c, "redirect"))
	if !errors.Is(err, errs.ErrAPI) {
		t.Fatalf("expected API error for unfollowed redirect, got: %v", err)
	}

	var apiErr *errs.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusFound {
		t.Errorf("expected status %d on error, got %+v", http.StatusFound, apiErr)
	}
}

func TestClient_Do(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"body":"success"}`))
	})
	mux.HandleFunc("GET /api/empty", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/null", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	})
	mux.HandleFunc("GET /api/mismatch", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"body":42}`))
	})
	mux.HandleFunc("GET /api/number", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":12345678901234567}`))
	})
	mux.HandleFunc("GET /api/failure-success-body", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"body":"success"}`))
	})
	mux.HandleFunc("POST /api/echo", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(w, r.Body)
	})

	c := newTestClient(t, mux)

	testCases := map[string]struct {
		path     string
		method   string
		payload  *payload
		capture  bool
		useNumb  bool
		expResp  *payload
		expKind  error
		expCode  string
		checkRaw func(t *testing.T, raw map[string]any)
	}{
		"noDestination": {
			path: "ok",
		},
		"emptyBodyNoDestination": {
			path: "empty",
		},
		"captureResp": {
			path:    "ok",
			capture: true,
			expResp: &payload{Body: "success"},
		},
		"echo": {
			path:    "echo",
			method:  http.MethodPost,
			payload: &payload{Body: "hey there"},
			capture: true,
			expResp: &payload{Body: "hey there"},
		},
		"emptyBodyIsNull": {
			path:    "empty",
			capture: true,
			expKind: errs.ErrDecode,
			expCode: errs.CodeNullResponse,
		},
		"nullBody": {
			path:    "null",
			capture: true,
			expKind: errs.ErrDecode,
			expCode: errs.CodeNullResponse,
		},
		"shapeMismatch": {
			path:    "mismatch",
			capture: true,
			expKind: errs.ErrDecode,
			expCode: errs.CodeDecodeFailed,
		},
		"statusWinsOverBody": {
			path:    "failure-success-body",
			capture: true,
			expKind: errs.ErrAPI,
			expCode: errs.CodeUnknown,
		},
		"notFound": {
			path:    "missing",
			expKind: errs.ErrAPI,
			expCode: errs.CodeUnknown,
		},
		"withJSONNumb": {
			path:    "number",
			useNumb: true,
			checkRaw: func(t *testing.T, raw map[string]any) {
				t.Helper()
				n, ok := raw["id"].(json.Number)
				if !ok {
					t.Fatalf("expected json.Number, got %T", raw["id"])
				}
				if n.String() != "12345678901234567" {
					t.Errorf("expected 12345678901234567, got %s", n.String())
				}
			},
		},
		"withoutJSONNumb": {
			path: "number",
			checkRaw: func(t *testing.T, raw map[string]any) {
				t.Helper()
				if _, ok := raw["id"].(float64); !ok {
					t.Fatalf("expected float64 without UseNumber, got %T", raw["id"])
				}
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			method := tc.method
			if method == "" {
				method = http.MethodGet
			}

			var reqOpts []client.RequestOption
			if tc.payload != nil {
				reqOpts = append(reqOpts, client.WithPayload(*tc.payload))
			}

			req, err := c.Request(t.Context(), c.URL(tc.path), method, reqOpts...)
			if err != nil {
				t.Fatalf("generating req: %v", err)
			}

			var opts []client.DoOption
			var got payload
			var raw map[string]any
			if tc.capture {
				opts = append(opts, client.WithDestination(&got))
			}
			if tc.checkRaw != nil {
				opts = append(opts, client.WithDestination(&raw))
			}
			if tc.useNumb {
				opts = append(opts, client.WithJSONNumb())
			}

			err = c.Do(req, opts...)
			if tc.expKind != nil {
				if !errors.Is(err, tc.expKind) {
					t.Fatalf("exp err kind %v, got: %v", tc.expKind, err)
				}
				if code := errs.CodeOf(err); code != tc.expCode {
					t.Errorf("exp code %q, got %q", tc.expCode, code)
				}
				return
			}
			if err != nil {
				t.Fatalf("exp nil err, got: %v", err)
			}

			if tc.expResp != nil {
				if diff := cmp.Diff(*tc.expResp, got); diff != "" {
					t.Errorf("response mismatch (-want +got):\n%s", diff)
				}
			}

			if tc.checkRaw != nil {
				tc.checkRaw(t, raw)
			}
		})
	}
}

func TestClient_Do_ErrorBodyCapped(t *testing.T) {
	// A valid envelope pushed past the 4KB read limit no longer parses.
	largeBody := `{"value":"too_big","message":"` + strings.Repeat("Y", 8192) + `"}`

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(largeBody))
	}))

	err := c.Do(get(t, c, "file/abc"))
	if code := errs.CodeOf(err); code != errs.CodeUnknown {
		t.Errorf("expected code %q for capped body, got %q (%v)", errs.CodeUnknown, code, err)
	}
}

func TestClient_Request(t *testing.T) {
	c, err := client.Build(client.WithBaseURL("https://localhost:8888/api"))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	testCases := map[string]struct {
		opts        []client.RequestOption
		expCT       string
		expBody     string
		expLength   int64
		checkGetter bool
		expErr      bool
	}{
		"noBody": {
			expCT: "",
		},
		"withPayload": {
			opts:        []client.RequestOption{client.WithPayload(payload{Body: "hey there"})},
			expCT:       "application/json",
			expBody:     "{\"body\":\"hey there\"}\n",
			expLength:   int64(len("{\"body\":\"hey there\"}\n")),
			checkGetter: true,
		},
		"withStream": {
			opts:      []client.RequestOption{client.WithStream(mustBody(t, []byte("raw bytes")))},
			expCT:     "application/octet-stream",
			expBody:   "raw bytes",
			expLength: 9,
		},
		"withStreamCustomType": {
			opts: []client.RequestOption{
				client.WithStream(mustBody(t, []byte("raw bytes"))),
				client.WithContentType("text/plain"),
			},
			expCT:     "text/plain",
			expBody:   "raw bytes",
			expLength: 9,
		},
		"conflictingBodies": {
			opts: []client.RequestOption{
				client.WithPayload(payload{}),
				client.WithForm(map[string]string{"a": "b"}),
			},
			expErr: true,
		},
		"emptyForm": {
			opts:   []client.RequestOption{client.WithForm(nil)},
			expErr: true,
		},
		"emptyContentType": {
			opts:   []client.RequestOption{client.WithContentType("")},
			expErr: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			req, err := c.Request(t.Context(), c.URL("file"), http.MethodPut, tc.opts...)
			if tc.expErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("create request exp nil err; got: %v", err)
			}

			if ct := req.Header.Get("Content-Type"); ct != tc.expCT {
				t.Errorf("exp content type %q, got %q", tc.expCT, ct)
			}

			if tc.expBody == "" {
				if req.Body != nil && req.Body != http.NoBody {
					t.Error("expected no request body")
				}
				return
			}

			if req.ContentLength != tc.expLength {
				t.Errorf("exp content length %d, got %d", tc.expLength, req.ContentLength)
			}

			b, err := io.ReadAll(req.Body)
			if err != nil {
				t.Fatalf("reading req body: %v", err)
			}
			if string(b) != tc.expBody {
				t.Errorf("exp body %q, got %q", tc.expBody, b)
			}

			if req.GetBody == nil {
				t.Fatal("expected GetBody to be set")
			}
			if tc.checkGetter {
				rc, err := req.GetBody()
				if err != nil {
					t.Fatalf("GetBody: %v", err)
				}
				again, _ := io.ReadAll(rc)
				if string(again) != tc.expBody {
					t.Errorf("GetBody returned %q, want %q", again, tc.expBody)
				}
			}
		})
	}
}

func TestClient_Request_Form(t *testing.T) {
	c, err := client.Build()
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	fields := map[string]string{"action": "rename", "name": "new.txt"}
	req, err := c.Request(t.Context(), c.URL("file/abc"), http.MethodPost, client.WithForm(fields))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		t.Fatalf("exp multipart content type, got %q (%v)", req.Header.Get("Content-Type"), err)
	}

	form, err := multipart.NewReader(req.Body, params["boundary"]).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("reading form: %v", err)
	}

	got := map[string]string{}
	for k, v := range form.Value {
		got[k] = v[0]
	}
	if diff := cmp.Diff(fields, got); diff != "" {
		t.Errorf("form mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_Request_Cookies(t *testing.T) {
	var got []*http.Cookie
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Cookies()
		w.WriteHeader(http.StatusNoContent)
	}))

	req, err := c.Request(t.Context(), c.URL("user"), http.MethodGet,
		client.WithCookies(
			&http.Cookie{Name: "pd_auth_key", Value: "abc"},
			&http.Cookie{Name: "theme", Value: "dark"},
		),
	)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	if err := c.Do(req); err != nil {
		t.Fatalf("do: %v", err)
	}

	exp := map[string]string{"pd_auth_key": "abc", "theme": "dark"}
	sent := map[string]string{}
	for _, ck := range got {
		sent[ck.Name] = ck.Value
	}
	if diff := cmp.Diff(exp, sent); diff != "" {
		t.Errorf("cookies mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_URL(t *testing.T) {
	testCases := map[string]struct {
		base string
		path string
		qs   map[string]string
		exp  string
	}{
		"default": {
			path: "file/abc/info",
			exp:  "https://pixeldrain.com/api/file/abc/info",
		},
		"baseWithoutSlash": {
			base: "http://localhost:8080/api",
			path: "user/files",
			exp:  "http://localhost:8080/api/user/files",
		},
		"escapedSegment": {
			base: "http://localhost:8080/api/",
			path: "file/a%20b%2Fc.txt",
			exp:  "http://localhost:8080/api/file/a%20b%2Fc.txt",
		},
		"withQS": {
			base: "http://localhost:8080/api/",
			path: "file/abc",
			qs:   map[string]string{"download": "", "key": "value"},
			exp:  "http://localhost:8080/api/file/abc?download=&key=value",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var opts []client.Option
			if tc.base != "" {
				opts = append(opts, client.WithBaseURL(tc.base))
			}

			c, err := client.Build(opts...)
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			var urlOpts []client.URLOption
			if tc.qs != nil {
				urlOpts = append(urlOpts, client.WithQueryStrings(tc.qs))
			}

			if got := c.URL(tc.path, urlOpts...).String(); got != tc.exp {
				t.Errorf("exp generated url %q, got: %q", tc.exp, got)
			}
		})
	}
}

func TestClient_Stream(t *testing.T) {
	data := bytes.Repeat([]byte("pixel"), 1000)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/file/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	})
	mux.HandleFunc("GET /api/file/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"value":"not_found","message":"The entity you requested could not be found"}`))
	})

	c := newTestClient(t, mux)

	var got bytes.Buffer
	err := c.Stream(get(t, c, "file/ok"), func(resp *http.Response) error {
		_, err := transfer.Copy(t.Context(), &got, resp.Body)
		return err
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !bytes.Equal(got.Bytes(), data) {
		t.Error("streamed body differs from served body")
	}

	var called bool
	err = c.Stream(get(t, c, "file/gone"), func(*http.Response) error {
		called = true
		return nil
	})
	if called {
		t.Error("stream func should not run for a failed response")
	}
	if !errs.IsCode(err, "not_found") {
		t.Errorf("expected not_found, got: %v", err)
	}
	if !strings.Contains(err.Error(), "could not be found") {
		t.Errorf("expected server message in %q", err.Error())
	}
}

func TestClient_StreamReplay(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789"), 10000)

	testCases := map[string]struct {
		src       func() *transfer.Source
		expErr    error
		expResend bool
	}{
		"seekable": {
			src:       func() *transfer.Source { return transfer.Bytes(data) },
			expResend: true,
		},
		"sequential": {
			src:    func() *transfer.Source { return transfer.NewSource(bytes.NewReader(data)) },
			expErr: transfer.ErrAlreadyConsumed,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			var received []byte
			mux := http.NewServeMux()
			mux.HandleFunc("PUT /api/file/data.bin", func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				http.Redirect(w, r, "/api/target", http.StatusTemporaryRedirect)
			})
			mux.HandleFunc("PUT /api/target", func(w http.ResponseWriter, r *http.Request) {
				received, _ = io.ReadAll(r.Body)
				_, _ = w.Write([]byte(`{"id":"abc"}`))
			})
			c := newTestClient(t, mux)

			body, err := transfer.NewBody(t.Context(), tc.src())
			if err != nil {
				t.Fatalf("new body: %v", err)
			}
			defer body.Close()

			req, err := c.Request(t.Context(), c.URL("file/data.bin"), http.MethodPut, client.WithStream(body))
			if err != nil {
				t.Fatalf("create request: %v", err)
			}

			var resp struct {
				ID string `json:"id"`
			}
			err = c.Do(req, client.WithDestination(&resp))

			if tc.expErr != nil {
				if !errors.Is(err, tc.expErr) {
					t.Fatalf("exp err %v, got: %v", tc.expErr, err)
				}
				if !errors.Is(err, errs.ErrResourceState) {
					t.Errorf("expected resource state failure, got: %v", err)
				}
				if received != nil {
					t.Error("target should not receive a partial body")
				}
				return
			}

			if err != nil {
				t.Fatalf("exp nil err, got: %v", err)
			}
			if !bytes.Equal(received, data) {
				t.Errorf("replayed body differs: got %d bytes, want %d", len(received), len(data))
			}
			if resp.ID != "abc" {
				t.Errorf("exp id abc, got %q", resp.ID)
			}
		})
	}
}

func TestClient_TracePropagation(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	traceID := trace.TraceID{0x0a, 0xf7, 0x65, 0x19, 0x16, 0xcd, 0x43, 0xdd, 0x84, 0x48, 0xeb, 0x21, 0x1c, 0x80, 0x31, 0x9c}
	spanID := trace.SpanID{0xb7, 0xad, 0x6b, 0x71, 0x69, 0x20, 0x33, 0x31}

	var traceparent string
	var logs bytes.Buffer
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("Traceparent")
	}), client.WithRequestLogging(), client.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	ctx := trace.ContextWithSpanContext(t.Context(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	req, err := c.Request(ctx, c.URL("user"), http.MethodGet)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if err := c.Do(req); err != nil {
		t.Fatalf("exp nil err, got: %v", err)
	}

	if !strings.Contains(traceparent, traceID.String()) {
		t.Errorf("exp traceparent to carry trace id %s, got %q", traceID, traceparent)
	}

	out := logs.String()
	for _, want := range []string{"request started", "request completed", "traceid=" + traceID.String(), "statusCode=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in logs: %s", want, out)
		}
	}
}

func mustBody(t *testing.T, b []byte) *transfer.Body {
	t.Helper()

	body, err := transfer.NewBody(t.Context(), transfer.Bytes(b))
	if err != nil {
		t.Fatalf("new body: %v", err)
	}
	t.Cleanup(func() { _ = body.Close() })

	return body
}
