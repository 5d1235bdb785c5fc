package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bowling-game/internal/config"
	"bowling-game/internal/models"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// testClient talks to a server running under httptest.
type testClient struct {
	t       *testing.T
	baseURL string
	client  *http.Client
}

func testConfig() *config.Config {
	return &config.Config{
		Port:            "0",
		StoreDriver:     config.DriverMemory,
		PlayerCacheSize: 16,
		IDStrategy:      "sequence",
		ShutdownTimeout: time.Second,
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *testClient {
	t.Helper()
	srv, err := NewServer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return &testClient{
		t:       t,
		baseURL: ts.URL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (tc *testClient) do(method, path string) (int, envelope) {
	tc.t.Helper()
	req, err := http.NewRequest(method, tc.baseURL+path, nil)
	if err != nil {
		tc.t.Fatalf("new request: %v", err)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		tc.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		tc.t.Fatalf("read body: %v", err)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		tc.t.Fatalf("%s %s: decoding %q: %v", method, path, body, err)
	}
	return resp.StatusCode, env
}

func (tc *testClient) Get(path string) (int, envelope) {
	return tc.do(http.MethodGet, path)
}

func (tc *testClient) Post(path string) (int, envelope) {
	return tc.do(http.MethodPost, path)
}

// PostGame posts and decodes a successful game reply.
func (tc *testClient) PostGame(path string) *models.GameView {
	tc.t.Helper()
	status, env := tc.Post(path)
	return tc.decodeGame(path, status, env)
}

func (tc *testClient) GetGame(path string) *models.GameView {
	tc.t.Helper()
	status, env := tc.Get(path)
	return tc.decodeGame(path, status, env)
}

func (tc *testClient) decodeGame(path string, status int, env envelope) *models.GameView {
	tc.t.Helper()
	if status != http.StatusOK || env.Code != CodeSuccess {
		tc.t.Fatalf("%s: HTTP %d code %d: %s", path, status, env.Code, env.Message)
	}
	var game models.GameView
	if err := json.Unmarshal(env.Data, &game); err != nil {
		tc.t.Fatalf("%s: decoding game: %v", path, err)
	}
	return &game
}
