package pixeldrain

import (
	"context"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"

	"github.com/adamwoolhether/pixeldrain/client"
	"github.com/adamwoolhether/pixeldrain/errs"
)

// ListsService groups the operations on lists, which are ordered
// collections of files.
type ListsService struct {
	service
}

// All returns the lists owned by the authenticated user.
func (s *ListsService) All(ctx context.Context) (_ []ListMetadata, err error) {
	ctx, span := s.start(ctx, "lists.all")
	defer func() { finish(span, err) }()

	resp, err := fetch[userLists](ctx, s.service, http.MethodGet, "user/lists")
	if err != nil {
		return nil, err
	}

	return resp.Lists, nil
}

// Create makes a list of the given file IDs and returns its ID. An
// anonymous list is not tied to the authenticated user.
func (s *ListsService) Create(ctx context.Context, title string, files []string, anonymous bool) (_ string, err error) {
	ctx, span := s.start(ctx, "lists.create", attribute.String("title", title), attribute.Int("files", len(files)))
	defer func() { finish(span, err) }()

	payload := listRequest{Title: title, Anonymous: anonymous, Files: nonNil(files)}

	created, err := fetch[itemCreated](ctx, s.service, http.MethodPost, "list", client.WithPayload(payload))
	if err != nil {
		return "", err
	}

	if created.ID == "" {
		return "", errs.New(errs.ErrDecode, errs.CodeNullResponse, "Response was null")
	}

	return created.ID, nil
}

// Info returns list id with its files.
func (s *ListsService) Info(ctx context.Context, id string) (_ *ListInfo, err error) {
	ctx, span := s.start(ctx, "lists.info", attribute.String("id", id))
	defer func() { finish(span, err) }()

	info, err := fetch[ListInfo](ctx, s.service, http.MethodGet, "list/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	return &info, nil
}

// Update replaces the title and files of list id.
func (s *ListsService) Update(ctx context.Context, id, title string, files []string, anonymous bool) (err error) {
	ctx, span := s.start(ctx, "lists.update", attribute.String("id", id), attribute.Int("files", len(files)))
	defer func() { finish(span, err) }()

	payload := listRequest{Title: title, Anonymous: anonymous, Files: nonNil(files)}

	return s.exec(ctx, http.MethodPut, "list/"+url.PathEscape(id), client.WithPayload(payload))
}

// Delete removes list id. The files in it are not deleted.
func (s *ListsService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := s.start(ctx, "lists.delete", attribute.String("id", id))
	defer func() { finish(span, err) }()

	return s.exec(ctx, http.MethodDelete, "list/"+url.PathEscape(id))
}

// nonNil keeps an empty file set encoded as [] rather than null.
func nonNil(files []string) []string {
	if files == nil {
		return []string{}
	}
	return files
}
