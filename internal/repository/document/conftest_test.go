package document

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kailas-cloud/ocrdesk/internal/transport/api"
)

// mockTransport implements the consumer interface for tests.
type mockTransport struct {
	doFn  func(ctx context.Context, req api.Request, out any) error
	calls []api.Request
}

func (m *mockTransport) Do(ctx context.Context, req api.Request, out any) error {
	m.calls = append(m.calls, req)
	if m.doFn != nil {
		return m.doFn(ctx, req, out)
	}
	return nil
}

// respond returns a doFn that decodes body into the caller's out value.
func respond(t *testing.T, body string) func(context.Context, api.Request, any) error {
	t.Helper()
	return func(_ context.Context, _ api.Request, out any) error {
		if out == nil {
			return nil
		}
		return json.Unmarshal([]byte(body), out)
	}
}
