package pixeldrain

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/adamwoolhether/pixeldrain/client"
	"github.com/adamwoolhether/pixeldrain/errs"
)

// UserService groups the account operations.
type UserService struct {
	service
}

// Current returns the account the API key belongs to.
func (s *UserService) Current(ctx context.Context) (_ *UserInfo, err error) {
	ctx, span := s.start(ctx, "user.current")
	defer func() { finish(span, err) }()

	info, err := fetch[UserInfo](ctx, s.service, http.MethodGet, "user")
	if err != nil {
		return nil, err
	}

	return &info, nil
}

// Login exchanges a username and password for a new API key. appName,
// when not empty, labels the key in the account's session list.
func (s *UserService) Login(ctx context.Context, username, password, appName string) (_ *LoginResponse, err error) {
	ctx, span := s.start(ctx, "user.login", attribute.String("username", username))
	defer func() { finish(span, err) }()

	if username == "" || password == "" {
		return nil, errors.New("username and password must not be empty")
	}

	form := map[string]string{
		"username": username,
		"password": password,
	}
	if appName != "" {
		form["app_name"] = appName
	}

	resp, err := fetch[LoginResponse](ctx, s.service, http.MethodPost, "user/login", client.WithForm(form))
	if err != nil {
		return nil, err
	}

	if resp.AuthKey == "" {
		return nil, errs.New(errs.ErrDecode, errs.CodeNullResponse, "Response was null")
	}

	return &resp, nil
}
