package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/pipdeck/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var listenTCP = net.Listen

// httpTransport serves the streamable MCP handler behind a Host/Origin
// guard. Loopback hosts are always accepted; others must be listed.
type httpTransport struct {
	addr         string
	allowedHosts map[string]struct{}
	handler      http.Handler
}

func newHTTPTransport(cfg Config, server *mcp.Server) *httpTransport {
	addr := cfg.HTTPAddr
	if addr == "" {
		addr = "localhost:8081"
	}
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
	t := &httpTransport{addr: addr, allowedHosts: parseAllowedHosts(cfg.AllowedHosts)}
	t.handler = t.routes(streamable)
	return t
}

func (t *httpTransport) routes(streamable http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/mcp", t.guard(streamable))
	mux.Handle("/mcp/health", t.guard(http.HandlerFunc(handleHealth)))
	return mux
}

// Start listens on the configured address until ctx ends.
func (t *httpTransport) Start(ctx context.Context) error {
	listener, err := listenTCP("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", t.addr, err)
	}
	httpServer := &http.Server{Handler: t.handler, ReadHeaderTimeout: timeouts.ReadHeader}

	log.Printf("Starting MCP HTTP server on %s", listener.Addr())
	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errChan:
		if err == nil {
			return nil
		}
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

func (t *httpTransport) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := t.validateRequest(r); err != nil {
			http.Error(w, err.Error(), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validateRequest checks the Host header and, when present, the Origin.
func (t *httpTransport) validateRequest(r *http.Request) error {
	if !t.isAllowedHost(r.Host) {
		return fmt.Errorf("invalid host")
	}
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return nil
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" || !t.isAllowedHost(parsed.Host) {
		return fmt.Errorf("invalid origin")
	}
	return nil
}

func (t *httpTransport) isAllowedHost(host string) bool {
	resolved, ok := normalizeHost(host)
	if !ok {
		return false
	}
	if isLoopbackHost(resolved) {
		return true
	}
	_, ok = t.allowedHosts[strings.ToLower(resolved)]
	return ok
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func isLoopbackHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}

func parseAllowedHosts(hosts []string) map[string]struct{} {
	result := make(map[string]struct{}, len(hosts))
	for _, entry := range hosts {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			result[strings.ToLower(trimmed)] = struct{}{}
		}
	}
	return result
}

// normalizeHost extracts the hostname from a Host or Origin authority.
func normalizeHost(host string) (string, bool) {
	host = strings.TrimSpace(host)
	switch {
	case host == "":
		return "", false
	case strings.HasPrefix(host, "["):
		if h, _, err := net.SplitHostPort(host); err == nil {
			return h, true
		}
		if strings.HasSuffix(host, "]") {
			return strings.Trim(host, "[]"), true
		}
		return "", false
	case strings.Count(host, ":") > 1:
		return host, true
	case strings.Contains(host, ":"):
		h, _, err := net.SplitHostPort(host)
		if err != nil {
			return "", false
		}
		return h, true
	default:
		return host, true
	}
}
