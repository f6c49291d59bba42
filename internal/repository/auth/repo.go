// Package auth talks to the authentication endpoints of the OCR service.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/ocrdesk/internal/transport/api"
)

// transport is the consumer interface for the session client (ISP).
type transport interface {
	Do(ctx context.Context, req api.Request, out any) error
}

// User is the authenticated account.
type User struct {
	ID       string
	Username string
	Email    string
}

type userDTO struct {
	MongoID  string `json:"_id"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *userDTO) toUser() User {
	if u == nil {
		return User{}
	}
	id := u.ID
	if id == "" {
		id = u.MongoID
	}
	return User{ID: id, Username: u.Username, Email: u.Email}
}

type tokenResponse struct {
	Token   string   `json:"token"`
	User    *userDTO `json:"user"`
	Message string   `json:"message"`
}

type meResponse struct {
	User *userDTO `json:"user"`
}

// ErrNoToken is returned when the server accepts credentials but issues no token.
var ErrNoToken = errors.New("server returned no token")

// Repo calls the auth endpoints.
type Repo struct {
	api transport
}

// New creates an auth repository.
func New(t transport) *Repo {
	return &Repo{api: t}
}

// Login exchanges credentials for a token.
func (r *Repo) Login(ctx context.Context, email, password string) (string, User, error) {
	body := map[string]string{"email": email, "password": password}
	return r.exchange(ctx, "/auth/login", body)
}

// Register creates an account and returns its token.
func (r *Repo) Register(ctx context.Context, username, email, password string) (string, User, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	return r.exchange(ctx, "/auth/register", body)
}

// Me returns the user owning the current credential.
func (r *Repo) Me(ctx context.Context) (User, error) {
	var resp meResponse
	if err := r.api.Do(ctx, api.Request{Method: http.MethodGet, Path: "/auth/me"}, &resp); err != nil {
		return User{}, fmt.Errorf("me: %w", err)
	}
	return resp.User.toUser(), nil
}

func (r *Repo) exchange(ctx context.Context, path string, body any) (string, User, error) {
	reader, contentType, err := api.JSON(body)
	if err != nil {
		return "", User{}, err
	}
	var resp tokenResponse
	err = r.api.Do(ctx, api.Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        reader,
		ContentType: contentType,
	}, &resp)
	if err != nil {
		return "", User{}, fmt.Errorf("%s: %w", path, err)
	}
	if resp.Token == "" {
		return "", User{}, fmt.Errorf("%s: %w", path, ErrNoToken)
	}
	return resp.Token, resp.User.toUser(), nil
}
