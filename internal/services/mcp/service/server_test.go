package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/pipdeck/internal/services/mcp/tools"
	"github.com/louisbranch/pipdeck/internal/services/story/scaffold"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := scaffold.New(scaffold.WithLogf(t.Logf))
	if err != nil {
		t.Fatalf("new scaffold: %v", err)
	}
	session := scaffold.NewSession(s)
	server, err := New(func(notify tools.ResourceUpdateNotifier) *tools.Host {
		return tools.NewHost(session, tools.WithNotifier(notify))
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return server
}

func TestNewRequiresHost(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); err == nil {
		t.Fatal("expected error for nil builder")
	}
	if _, err := New(func(tools.ResourceUpdateNotifier) *tools.Host { return nil }); err == nil {
		t.Fatal("expected error for nil host")
	}
}

func TestServeWithTransportStopsOnCancel(t *testing.T) {
	t.Parallel()

	server := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.serveWithTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer clientCancel()
	session, err := client.Connect(clientCtx, clientTransport, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer session.Close()

	res, err := session.CallTool(clientCtx, &mcp.CallToolParams{Name: "game_create", Arguments: map[string]any{"name": "Ashfall"}})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %+v", res.Content)
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestRunUnsupportedTransport(t *testing.T) {
	t.Parallel()

	err := newTestServer(t).Run(context.Background(), Config{Transport: "websocket"})
	if err == nil || !strings.Contains(err.Error(), "not supported") {
		t.Fatalf("err = %v, want not supported", err)
	}
}

func TestHTTPGuard(t *testing.T) {
	t.Parallel()

	transport := newHTTPTransport(Config{AllowedHosts: []string{" Tables.Example.com "}}, newTestServer(t).MCP())
	tests := []struct {
		name   string
		host   string
		origin string
		want   int
	}{
		{name: "loopback", host: "localhost:8081", want: http.StatusOK},
		{name: "ipv6 loopback", host: "[::1]:8081", want: http.StatusOK},
		{name: "listed host", host: "tables.example.com", want: http.StatusOK},
		{name: "foreign host", host: "evil.example.com", want: http.StatusForbidden},
		{name: "foreign origin", host: "localhost", origin: "http://evil.example.com", want: http.StatusForbidden},
		{name: "listed origin", host: "localhost", origin: "https://tables.example.com", want: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/mcp/health", nil)
			req.Host = tc.host
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rec := httptest.NewRecorder()
			transport.handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestHTTPTransportStartStops(t *testing.T) {
	t.Parallel()

	transport := newHTTPTransport(Config{HTTPAddr: "127.0.0.1:0"}, newTestServer(t).MCP())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- transport.Start(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("HTTP transport did not stop")
	}
}

func TestNormalizeHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		want   string
		wantOk bool
	}{
		{"localhost:8081", "localhost", true},
		{"example.com:443", "example.com", true},
		{"[::1]:8081", "::1", true},
		{"[::1]", "::1", true},
		{"::1", "::1", true},
		{"example.com", "example.com", true},
		{"", "", false},
		{"  ", "", false},
		{"[::1", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeHost(tt.input)
		if ok != tt.wantOk || got != tt.want {
			t.Errorf("normalizeHost(%q) = %q, %v, want %q, %v", tt.input, got, ok, tt.want, tt.wantOk)
		}
	}
}
