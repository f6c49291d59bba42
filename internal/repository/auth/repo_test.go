package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/kailas-cloud/ocrdesk/internal/domain"
	"github.com/kailas-cloud/ocrdesk/internal/transport/api"
)

type mockTransport struct {
	doFn func(ctx context.Context, req api.Request, out any) error
	reqs []api.Request
	body []byte
}

func (m *mockTransport) Do(ctx context.Context, req api.Request, out any) error {
	if req.Body != nil {
		m.body, _ = io.ReadAll(req.Body)
	}
	m.reqs = append(m.reqs, req)
	if m.doFn != nil {
		return m.doFn(ctx, req, out)
	}
	return nil
}

func reply(body string) func(context.Context, api.Request, any) error {
	return func(_ context.Context, _ api.Request, out any) error {
		return json.Unmarshal([]byte(body), out)
	}
}

func TestLogin(t *testing.T) {
	m := &mockTransport{doFn: reply(`{"token":"tok","user":{"id":"u1","username":"ann","email":"a@x.io"}}`)}
	token, user, err := New(m).Login(context.Background(), "a@x.io", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok" || user.ID != "u1" || user.Username != "ann" {
		t.Errorf("token=%q user=%+v", token, user)
	}
	if m.reqs[0].Method != http.MethodPost || m.reqs[0].Path != "/auth/login" {
		t.Errorf("request = %s %s", m.reqs[0].Method, m.reqs[0].Path)
	}
	if m.reqs[0].ContentType != "application/json" {
		t.Errorf("content type = %q", m.reqs[0].ContentType)
	}
	var sent map[string]string
	if err := json.Unmarshal(m.body, &sent); err != nil {
		t.Fatalf("body: %v", err)
	}
	if sent["email"] != "a@x.io" || sent["password"] != "secret" {
		t.Errorf("body = %v", sent)
	}
}

func TestRegister_UserWithMongoID(t *testing.T) {
	m := &mockTransport{doFn: reply(`{"token":"tok","user":{"_id":"u9","username":"bob"}}`)}
	_, user, err := New(m).Register(context.Background(), "bob", "b@x.io", "secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID != "u9" {
		t.Errorf("id = %q, want u9", user.ID)
	}
	var sent map[string]string
	_ = json.Unmarshal(m.body, &sent)
	if sent["username"] != "bob" {
		t.Errorf("body = %v", sent)
	}
}

func TestLogin_NoToken(t *testing.T) {
	m := &mockTransport{doFn: reply(`{"message":"ok"}`)}
	_, _, err := New(m).Login(context.Background(), "a", "b")
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
}

func TestLogin_ServerMessage(t *testing.T) {
	m := &mockTransport{doFn: func(context.Context, api.Request, any) error {
		return &domain.APIError{Status: http.StatusBadRequest, Message: "Invalid credentials"}
	}}
	_, _, err := New(m).Login(context.Background(), "a", "b")
	msg, ok := domain.ServerMessage(err)
	if !ok || msg != "Invalid credentials" {
		t.Fatalf("message = %q, %v", msg, ok)
	}
}

func TestMe(t *testing.T) {
	m := &mockTransport{doFn: reply(`{"user":{"id":"u1","email":"a@x.io"}}`)}
	user, err := New(m).Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.Email != "a@x.io" {
		t.Errorf("user = %+v", user)
	}
}
