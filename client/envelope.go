package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/adamwoolhether/pixeldrain/errs"
)

// errorEnvelope is the body of a failed API response. Older endpoints
// name the code "value", newer ones "code".
type errorEnvelope struct {
	Value   string  `json:"value"`
	Code    string  `json:"code"`
	Message *string `json:"message"`
}

// Success reports whether the status code is in the 2xx range.
func Success(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Verify returns nil for a 2xx response. Otherwise it reads at most 4KB
// of the body and returns an *errs.Error of kind errs.ErrAPI built from
// the error envelope. A missing or malformed envelope only loses detail:
// the error then carries code "unknown" and message "Unknown error".
// The body is not closed.
func Verify(resp *http.Response) error {
	if Success(resp) {
		return nil
	}

	code, message := errs.CodeUnknown, errs.UnknownMessage

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
	if err == nil {
		var env errorEnvelope
		if err := json.Unmarshal(b, &env); err == nil {
			code, message = env.resolve()
		}
	}

	apiErr := errs.New(errs.ErrAPI, code, message)
	apiErr.StatusCode = resp.StatusCode

	return apiErr
}

func (env errorEnvelope) resolve() (string, string) {
	code := env.Value
	if code == "" {
		code = env.Code
	}
	if code == "" {
		code = errs.CodeUnknown
	}

	var message string
	if env.Message != nil {
		message = *env.Message
	}
	if message == "" && code == errs.CodeUnknown {
		message = errs.UnknownMessage
	}

	return code, message
}

// Decode verifies resp and decodes its JSON body into a T. A 2xx
// response whose body is empty or the JSON literal null fails with
// code errs.CodeNullResponse; a body that does not match T fails with
// errs.CodeDecodeFailed. Both are of kind errs.ErrDecode. The body is
// not closed.
func Decode[T any](resp *http.Response) (T, error) {
	var v T
	if err := Verify(resp); err != nil {
		return v, err
	}

	if err := decodeBody(resp.Body, &v, false); err != nil {
		return v, err
	}

	return v, nil
}

func decodeBody(r io.Reader, dst any, useNumber bool) error {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nullResponse()
		}
		return errs.Wrap(errs.ErrDecode, errs.CodeDecodeFailed, "response body is not valid JSON", err)
	}

	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nullResponse()
	}

	d := json.NewDecoder(bytes.NewReader(raw))
	if useNumber {
		d.UseNumber()
	}

	if err := d.Decode(dst); err != nil {
		return errs.Wrap(errs.ErrDecode, errs.CodeDecodeFailed, "response body does not match the expected shape", err)
	}

	return nil
}

func nullResponse() error {
	return errs.New(errs.ErrDecode, errs.CodeNullResponse, "Response was null")
}
