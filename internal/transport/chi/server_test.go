package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/happycart/happycart/internal/domain"
	healthuc "github.com/happycart/happycart/internal/usecase/health"
)

type fakeDispatcher struct {
	env    domain.Envelope
	err    error
	userID string
}

func (f *fakeDispatcher) Dispatch(_ context.Context, userID, _ string) (domain.Envelope, error) {
	f.userID = userID
	return f.env, f.err
}

type fakeHealth struct {
	report healthuc.Report
}

func (f *fakeHealth) Check(context.Context) healthuc.Report { return f.report }

func newTestServer(d Dispatcher) *Server {
	return NewServer(d, &fakeHealth{report: healthuc.Report{Status: healthuc.Healthy}}, zap.NewNop())
}

func postChat(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Chat(rec, req)
	return rec
}

func TestChat_ReturnsEnvelope(t *testing.T) {
	d := &fakeDispatcher{env: domain.Envelope{
		Type:     domain.IntentProduct,
		Message:  "Here are some products you might like: Red Sneakers.",
		Cart:     []domain.CartItem{},
		Products: []domain.Product{{ID: "P1", Title: "Red Sneakers", Price: 1500}},
	}}
	s := newTestServer(d)

	rec := postChat(t, s, `{"query": "red sneakers"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	for _, field := range []string{"type", "message", "cart", "total", "count", "products"} {
		if _, ok := env[field]; !ok {
			t.Errorf("response missing field %q", field)
		}
	}
	if d.userID != "guest" {
		t.Errorf("userID = %q, want guest default", d.userID)
	}
}

func TestChat_UserIDPassedThrough(t *testing.T) {
	d := &fakeDispatcher{env: domain.Envelope{Cart: []domain.CartItem{}, Products: []domain.Product{}}}
	s := newTestServer(d)

	rec := postChat(t, s, `{"query": "view cart", "user_id": "u42"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if d.userID != "u42" {
		t.Errorf("userID = %q, want u42", d.userID)
	}
}

func TestChat_BadRequests(t *testing.T) {
	s := newTestServer(&fakeDispatcher{})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"empty query", `{"query": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postChat(t, s, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestChat_EmbeddingProviderErrorIs502(t *testing.T) {
	s := newTestServer(&fakeDispatcher{
		err: fmt.Errorf("embed query: %w", domain.ErrEmbeddingProviderError),
	})

	rec := postChat(t, s, `{"query": "red sneakers"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestChat_UnknownErrorIs500(t *testing.T) {
	s := newTestServer(&fakeDispatcher{err: errors.New("db down")})

	rec := postChat(t, s, `{"query": "view cart"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "db down") {
		t.Error("internal error details must not leak to the client")
	}
}

func TestHealth(t *testing.T) {
	s := NewServer(&fakeDispatcher{}, &fakeHealth{report: healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
	}}, zap.NewNop())

	rec := httptest.NewRecorder()
	s.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || resp.Checks["database"] != "ok" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestHealth_Degraded(t *testing.T) {
	s := NewServer(&fakeDispatcher{}, &fakeHealth{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
	}}, zap.NewNop())

	rec := httptest.NewRecorder()
	s.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}
