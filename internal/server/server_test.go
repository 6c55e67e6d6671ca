package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goldenloop/workplace/internal/logging"
	"github.com/goldenloop/workplace/internal/types"
	"github.com/goldenloop/workplace/internal/workplace"
)

func init() {
	logging.Disable()
}

type memStore struct {
	mu   sync.Mutex
	data []byte
}

func (m *memStore) LoadState(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data, nil
}

func (m *memStore) SaveState(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *workplace.Service) {
	t.Helper()
	svc, err := workplace.NewService(context.Background(), &memStore{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	srv := httptest.NewServer(Router(svc))
	t.Cleanup(srv.Close)
	return srv, svc
}

func do(t *testing.T, method, url string, body any) (*http.Response, types.WorkplaceState) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var state types.WorkplaceState
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
	}
	return resp, state
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestCompanyLifecycleOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, state := do(t, http.MethodPost, srv.URL+"/api/workplace/companies",
		map[string]any{"name": "Acme"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	if len(state.Companies) != 1 {
		t.Fatalf("expected 1 company, got %d", len(state.Companies))
	}
	companyId := state.Companies[0].Id
	if state.ActiveCompanyId != companyId {
		t.Errorf("activeCompanyId = %q, want %q", state.ActiveCompanyId, companyId)
	}

	resp, state = do(t, http.MethodPatch, srv.URL+"/api/workplace/companies/"+companyId,
		map[string]any{"description": "makes widgets"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d", resp.StatusCode)
	}
	if state.Companies[0].Description != "makes widgets" {
		t.Errorf("description = %q", state.Companies[0].Description)
	}

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/workplace/state", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("get state status = %d", resp.StatusCode)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	srv, _ := newTestServer(t)

	// Missing company -> 404.
	resp, _ := do(t, http.MethodPost, srv.URL+"/api/workplace/employees",
		map[string]any{"companyId": "nope", "name": "Riley"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("not found: status = %d, want 404", resp.StatusCode)
	}

	// Invalid payload -> 400.
	resp, _ = do(t, http.MethodPost, srv.URL+"/api/workplace/companies",
		map[string]any{"name": "   "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("validation: status = %d, want 400", resp.StatusCode)
	}

	// Halting an idle workday -> 409.
	_, state := do(t, http.MethodPost, srv.URL+"/api/workplace/companies",
		map[string]any{"name": "Acme"})
	resp, _ = do(t, http.MethodPost, srv.URL+"/api/workplace/workday/halt",
		map[string]any{"companyId": state.Companies[0].Id})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("invalid state: status = %d, want 409", resp.StatusCode)
	}
}

func TestWorkdayOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)

	_, state := do(t, http.MethodPost, srv.URL+"/api/workplace/companies",
		map[string]any{"name": "Acme"})
	companyId := state.Companies[0].Id

	resp, state := do(t, http.MethodPost, srv.URL+"/api/workplace/workday/start",
		map[string]any{"companyId": companyId, "reason": "manual"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start status = %d", resp.StatusCode)
	}
	if state.Companies[0].Workday.Status != types.WorkdayActive {
		t.Errorf("workday status = %q, want active", state.Companies[0].Workday.Status)
	}

	resp, state = do(t, http.MethodPost, srv.URL+"/api/workplace/workday/halt",
		map[string]any{"companyId": companyId})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("halt status = %d", resp.StatusCode)
	}
	if state.Companies[0].Workday.Status != types.WorkdayPaused {
		t.Errorf("workday status = %q, want paused", state.Companies[0].Workday.Status)
	}
}
