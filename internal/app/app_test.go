package app

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"apexcrm/internal/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.JWT.Secret = "test-secret"
	cfg.Seed.Enabled = true
	cfg.Seed.AdminPassword = "admin123"
	cfg.Jobs.OverdueSpec = ""
	return cfg
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	a, err := New(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/login", "application/json",
		strings.NewReader(`{"email":"admin@apexcrm.local","password":"admin123"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestPublicEndpoints(t *testing.T) {
	srv := newServer(t)

	resp := get(t, srv.URL+"/healthz", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp = get(t, srv.URL+"/deals", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = get(t, srv.URL+"/metrics", "")
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "apexcrm_http_requests_total")
}

func TestSeededDealsVisibleAfterLogin(t *testing.T) {
	srv := newServer(t)
	token := login(t, srv)

	resp := get(t, srv.URL+"/deals", token)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res struct {
		Data  []map[string]interface{} `json:"data"`
		Total int                      `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, 5, res.Total)
}

func TestBoardWebsocket(t *testing.T) {
	srv := newServer(t)
	token := login(t, srv)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/pipeline?token=" + token
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var f struct {
			Type    string `json:"type"`
			Payload struct {
				Columns []json.RawMessage `json:"columns"`
			} `json:"payload"`
		}
		require.NoError(t, ws.ReadJSON(&f))
		if f.Type == "board" && len(f.Payload.Columns) == 5 {
			break
		}
	}

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/pipeline", nil)
	assert.Error(t, err)
}

func TestUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "oracle"
	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
