package auth

import (
	"context"

	authrepo "github.com/kailas-cloud/ocrdesk/internal/repository/auth"
)

// Repository calls the auth endpoints.
type Repository interface {
	Login(ctx context.Context, email, password string) (string, authrepo.User, error)
	Register(ctx context.Context, username, email, password string) (string, authrepo.User, error)
	Me(ctx context.Context) (authrepo.User, error)
}

// Session stores the credential.
type Session interface {
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Authenticated() bool
}
