package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"diamond-bridge/internal/bridge"
	"diamond-bridge/internal/config"
)

func startTestRouter(t *testing.T, cfg config.ServerConfig) (*bridge.Bridge, *httptest.Server) {
	t.Helper()
	b, err := bridge.New(bridge.Config{Seed: 3, QualityInterval: time.Hour}, nil, nil)
	if err != nil {
		t.Fatalf("bridge.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx)
	}()

	if cfg.ViewerSendBuffer == 0 {
		cfg.ViewerSendBuffer = 16
	}
	httpSrv := httptest.NewServer(NewRouter(b, cfg))
	t.Cleanup(func() {
		httpSrv.Close()
		cancel()
		<-done
	})
	return b, httpSrv
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return resp.StatusCode, out
}

func TestHealthz(t *testing.T) {
	_, srv := startTestRouter(t, config.ServerConfig{})

	status, body := getJSON(t, srv.URL+"/healthz")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["ok"] != true {
		t.Fatalf("body = %v", body)
	}
}

func TestStateEndpoint(t *testing.T) {
	_, srv := startTestRouter(t, config.ServerConfig{})

	status, body := getJSON(t, srv.URL+"/api/state")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["inning"] != float64(1) || body["half"] != "top" {
		t.Fatalf("unexpected state: %v", body)
	}
}

func TestQualityEndpoint(t *testing.T) {
	_, srv := startTestRouter(t, config.ServerConfig{})

	status, body := getJSON(t, srv.URL+"/api/quality")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if body["quality"] != "ultra" || body["fps"] != float64(60) {
		t.Fatalf("unexpected quality: %v", body)
	}
}

func TestDebugVarsRequiresAdminKey(t *testing.T) {
	_, srv := startTestRouter(t, config.ServerConfig{AdminAPIKey: "sekrit"})

	resp, err := http.Get(srv.URL + "/api/debug/vars")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/debug/vars", nil)
	req.Header.Set("X-Admin-Key", "sekrit")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET with key: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRendererConnectEndpoint(t *testing.T) {
	b, srv := startTestRouter(t, config.ServerConfig{RendererDialTimeoutMS: 1000})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	payload, _ := json.Marshal(map[string]string{"addr": ln.Addr().String()})
	resp, err := http.Post(srv.URL+"/api/renderer/connect", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || body["connected"] != true {
		t.Fatalf("status=%d body=%v", resp.StatusCode, body)
	}
	if !b.Link().Connected() {
		t.Fatal("link not connected after successful dial")
	}

	select {
	case conn := <-accepted:
		conn.Close()
	case <-time.After(2 * time.Second):
		t.Fatal("renderer side never accepted")
	}

	status, rs := getJSON(t, srv.URL+"/api/renderer/status")
	if status != http.StatusOK || rs["connected"] != true {
		t.Fatalf("status endpoint: %d %v", status, rs)
	}
}

func TestRendererConnectWithoutAddress(t *testing.T) {
	_, srv := startTestRouter(t, config.ServerConfig{})

	resp, err := http.Post(srv.URL+"/api/renderer/connect", "application/json", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
