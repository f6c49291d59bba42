package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/kailas-cloud/ocrdesk/internal/domain"
	authrepo "github.com/kailas-cloud/ocrdesk/internal/repository/auth"
)

// --- Mocks ---

type mockRepo struct {
	token    string
	user     authrepo.User
	err      error
	calls    int
	gotEmail string
}

func (m *mockRepo) Login(_ context.Context, email, _ string) (string, authrepo.User, error) {
	m.calls++
	m.gotEmail = email
	return m.token, m.user, m.err
}

func (m *mockRepo) Register(_ context.Context, _, email, _ string) (string, authrepo.User, error) {
	m.calls++
	m.gotEmail = email
	return m.token, m.user, m.err
}

func (m *mockRepo) Me(context.Context) (authrepo.User, error) {
	m.calls++
	return m.user, m.err
}

type mockSession struct {
	token string
}

func (m *mockSession) Set(_ context.Context, token string) error {
	m.token = token
	return nil
}

func (m *mockSession) Clear(context.Context) error {
	m.token = ""
	return nil
}

func (m *mockSession) Authenticated() bool { return m.token != "" }

// --- Tests ---

func TestLogin_Success(t *testing.T) {
	repo := &mockRepo{token: "tok", user: authrepo.User{ID: "u1"}}
	sess := &mockSession{}
	user, err := New(repo, sess, nil).Login(context.Background(), " a@x.io ", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != "u1" || sess.token != "tok" {
		t.Errorf("user=%+v token=%q", user, sess.token)
	}
	if repo.gotEmail != "a@x.io" {
		t.Errorf("email = %q, want trimmed", repo.gotEmail)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	repo := &mockRepo{}
	_, err := New(repo, &mockSession{}, nil).Login(context.Background(), "a@x.io", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if FailureMessage(err, MessageLoginFailed) != MessageLoginFieldsMissing {
		t.Errorf("message = %q", FailureMessage(err, MessageLoginFailed))
	}
	if repo.calls != 0 {
		t.Error("request sent despite validation failure")
	}
}

func TestLogin_ServerMessageVerbatim(t *testing.T) {
	repo := &mockRepo{err: &domain.APIError{Status: http.StatusBadRequest, Message: "Invalid credentials"}}
	sess := &mockSession{}
	_, err := New(repo, sess, nil).Login(context.Background(), "a@x.io", "wrong")
	if got := FailureMessage(err, MessageLoginFailed); got != "Invalid credentials" {
		t.Errorf("message = %q", got)
	}
	if sess.token != "" {
		t.Error("token stored after failed login")
	}
}

func TestLogin_FallbackMessage(t *testing.T) {
	repo := &mockRepo{err: domain.ErrTransport}
	_, err := New(repo, &mockSession{}, nil).Login(context.Background(), "a@x.io", "pw")
	if got := FailureMessage(err, MessageLoginFailed); got != MessageLoginFailed {
		t.Errorf("message = %q", got)
	}
}

func TestRegistration_Validate(t *testing.T) {
	tests := []struct {
		name string
		in   Registration
		want string
	}{
		{"missing username", Registration{Email: "a@x.io", Password: "secret", ConfirmPassword: "secret"}, MessageRegisterFieldsMissing},
		{"mismatch", Registration{Username: "a", Email: "a@x.io", Password: "secret", ConfirmPassword: "secreT"}, MessagePasswordMismatch},
		{"too short", Registration{Username: "a", Email: "a@x.io", Password: "abc", ConfirmPassword: "abc"}, MessagePasswordTooShort},
		{"valid", Registration{Username: "a", Email: "a@x.io", Password: "secret", ConfirmPassword: "secret"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.want {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestRegister_StoresToken(t *testing.T) {
	repo := &mockRepo{token: "new", user: authrepo.User{ID: "u2"}}
	sess := &mockSession{}
	_, err := New(repo, sess, nil).Register(context.Background(), Registration{
		Username: "bob", Email: "b@x.io", Password: "secret", ConfirmPassword: "secret",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if sess.token != "new" {
		t.Errorf("token = %q", sess.token)
	}
}

func TestLogoutAndMe(t *testing.T) {
	repo := &mockRepo{user: authrepo.User{ID: "u1"}}
	sess := &mockSession{token: "tok"}
	svc := New(repo, sess, nil)

	if u, err := svc.Me(context.Background()); err != nil || u.ID != "u1" {
		t.Fatalf("Me = %+v, %v", u, err)
	}
	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Me(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Me after logout err = %v, want ErrUnauthorized", err)
	}
}
