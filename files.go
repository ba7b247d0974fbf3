package pixeldrain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/otel/attribute"

	"github.com/adamwoolhether/pixeldrain/client"
	"github.com/adamwoolhether/pixeldrain/client/transfer"
	"github.com/adamwoolhether/pixeldrain/errs"
	"github.com/adamwoolhether/pixeldrain/filename"
)

// FilesService groups the file operations.
type FilesService struct {
	service
}

// Upload stores the bytes of src under name and returns the new file's
// ID. name is validated before any request is made; use
// filename.Normalize to repair user input. src is released when Upload
// returns, on every path. If the transport has to resend the body, a
// resettable src is rewound and a sequential one fails the upload with
// an already_consumed error. A resent body is a new pass: progress
// reporting restarts from zero, so an observer spanning the whole
// Upload sees the count drop back once per resend.
func (s *FilesService) Upload(ctx context.Context, name string, src *transfer.Source, opts ...transfer.Option) (string, error) {
	return s.upload(ctx, name, src, "", opts...)
}

// upload sends src with contentType, or application/octet-stream when
// contentType is empty.
func (s *FilesService) upload(ctx context.Context, name string, src *transfer.Source, contentType string, opts ...transfer.Option) (id string, err error) {
	if src == nil {
		return "", errors.New("source must not be nil")
	}

	ctx, span := s.start(ctx, "files.upload", attribute.String("name", name))
	defer func() { finish(span, err) }()

	if err := filename.Validate(name); err != nil {
		if cerr := src.Close(); cerr != nil {
			s.c.Logger().Error("failed to release upload source", "name", name, "error", cerr)
		}
		return "", err
	}

	body, err := transfer.NewBody(ctx, src, opts...)
	if err != nil {
		return "", fmt.Errorf("preparing upload body: %w", err)
	}
	defer func() {
		if cerr := body.Close(); cerr != nil {
			s.c.Logger().Error("failed to release upload source", "name", name, "error", cerr)
		}
	}()

	if n := body.ContentLength(); n >= 0 {
		span.SetAttributes(attribute.Int64("size", n))
	}

	reqOpts := []client.RequestOption{client.WithStream(body)}
	if contentType != "" {
		span.SetAttributes(attribute.String("content_type", contentType))
		reqOpts = append(reqOpts, client.WithContentType(contentType))
	}

	created, err := fetch[itemCreated](ctx, s.service, http.MethodPut, "file/"+url.PathEscape(name), reqOpts...)
	if err != nil {
		return "", err
	}

	if created.ID == "" {
		return "", errs.New(errs.ErrDecode, errs.CodeNullResponse, "Response was null")
	}

	s.c.Logger().Debug("file uploaded", "id", created.ID, "name", name)

	return created.ID, nil
}

// UploadFile uploads the file at path under its base name, normalized
// to the API's rules. The file is opened as a resettable source and its
// Content-Type is sniffed from the leading bytes.
func (s *FilesService) UploadFile(ctx context.Context, path string, opts ...transfer.Option) (string, error) {
	if err := transfer.ValidateOptions(opts...); err != nil {
		return "", err
	}

	var contentType string
	if mt, err := mimetype.DetectFile(path); err == nil {
		contentType = mt.String()
	}

	src, err := transfer.Open(path)
	if err != nil {
		return "", err
	}

	return s.upload(ctx, filename.Normalize(filepath.Base(path)), src, contentType, opts...)
}

// Download writes the contents of file id to dst and returns the number
// of bytes written. The response body is copied in chunks; with
// transfer.WithProgress the cumulative count is reported after each
// chunk reaches dst. A cancelled ctx stops the copy at the next chunk
// boundary and leaves a prefix of the file in dst.
func (s *FilesService) Download(ctx context.Context, id string, dst io.Writer, opts ...transfer.Option) (n int64, err error) {
	ctx, span := s.start(ctx, "files.download", attribute.String("id", id))
	defer func() {
		span.SetAttributes(attribute.Int64("transferred", n))
		finish(span, err)
	}()

	if err := transfer.ValidateOptions(opts...); err != nil {
		return 0, err
	}

	req, err := s.request(ctx, http.MethodGet, "file/"+url.PathEscape(id))
	if err != nil {
		return 0, err
	}

	err = s.c.Stream(req, func(resp *http.Response) error {
		var cerr error
		n, cerr = transfer.Copy(ctx, dst, resp.Body, opts...)
		return cerr
	})

	return n, err
}

// DownloadFile streams file id to destPath. Data is written to a temp
// file in the same directory, which replaces destPath only once the
// whole body arrived and matches the declared Content-Length.
func (s *FilesService) DownloadFile(ctx context.Context, id, destPath string, opts ...transfer.Option) (n int64, err error) {
	ctx, span := s.start(ctx, "files.download_file", attribute.String("id", id), attribute.String("path", destPath))
	defer func() {
		span.SetAttributes(attribute.Int64("transferred", n))
		finish(span, err)
	}()

	if destPath == "" {
		return 0, errors.New("destPath must not be empty")
	}
	if err := transfer.ValidateOptions(opts...); err != nil {
		return 0, err
	}

	req, err := s.request(ctx, http.MethodGet, "file/"+url.PathEscape(id))
	if err != nil {
		return 0, err
	}

	err = s.c.Stream(req, func(resp *http.Response) error {
		var werr error
		n, werr = transfer.WriteFile(ctx, destPath, resp.Body, resp.ContentLength, s.c.Logger(), opts...)
		return werr
	})

	return n, err
}

// Info returns the metadata of file id.
func (s *FilesService) Info(ctx context.Context, id string) (_ *FileInfo, err error) {
	ctx, span := s.start(ctx, "files.info", attribute.String("id", id))
	defer func() { finish(span, err) }()

	info, err := fetch[FileInfo](ctx, s.service, http.MethodGet, "file/"+url.PathEscape(id)+"/info")
	if err != nil {
		return nil, err
	}

	return &info, nil
}

// Rename changes the name of file id. The new name is validated first.
func (s *FilesService) Rename(ctx context.Context, id, name string) (err error) {
	ctx, span := s.start(ctx, "files.rename", attribute.String("id", id), attribute.String("name", name))
	defer func() { finish(span, err) }()

	if err := filename.Validate(name); err != nil {
		return err
	}

	form := map[string]string{
		"action": "rename",
		"name":   name,
	}

	return s.exec(ctx, http.MethodPost, "file/"+url.PathEscape(id), client.WithForm(form))
}

// Delete removes file id.
func (s *FilesService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := s.start(ctx, "files.delete", attribute.String("id", id))
	defer func() { finish(span, err) }()

	return s.exec(ctx, http.MethodDelete, "file/"+url.PathEscape(id))
}

// All returns every file owned by the authenticated user.
func (s *FilesService) All(ctx context.Context) (_ []FileInfo, err error) {
	ctx, span := s.start(ctx, "files.all")
	defer func() { finish(span, err) }()

	resp, err := fetch[userFiles](ctx, s.service, http.MethodGet, "user/files")
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("count", len(resp.Files)))

	return resp.Files, nil
}
