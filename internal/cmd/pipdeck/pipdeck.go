// Package pipdeck parses the story server command configuration and runs it.
package pipdeck

import (
	"context"
	"flag"
	"fmt"
	"strings"

	platformcmd "github.com/louisbranch/pipdeck/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/pipdeck/internal/platform/grpc"
	"github.com/louisbranch/pipdeck/internal/platform/timeouts"
	"github.com/louisbranch/pipdeck/internal/services/mcp/service"
	"github.com/louisbranch/pipdeck/internal/services/story/app"
)

// Config holds story server configuration.
type Config struct {
	DBPath       string   `env:"DB_PATH"           envDefault:"data/pipdeck.db"`
	SnapshotName string   `env:"SNAPSHOT_NAME"     envDefault:"default"`
	Locale       string   `env:"LOCALE"            envDefault:"en-US"`
	PipBudget    string   `env:"PIP_BUDGET"        envDefault:"characters"`
	HealthAddr   string   `env:"HEALTH_ADDR"       envDefault:"localhost:8082"`
	Transport    string   `env:"MCP_TRANSPORT"     envDefault:"stdio"`
	HTTPAddr     string   `env:"MCP_HTTP_ADDR"     envDefault:"localhost:8081"`
	AllowedHosts []string `env:"MCP_ALLOWED_HOSTS" envSeparator:","`
	// HealthCheck probes a running server at HealthAddr instead of serving.
	HealthCheck  bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "snapshot database path (empty keeps state in memory)")
	fs.StringVar(&cfg.SnapshotName, "snapshot", cfg.SnapshotName, "snapshot name to load and save")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale for tool error messages")
	fs.StringVar(&cfg.PipBudget, "pip-budget", cfg.PipBudget, "scene pip rule: characters or players")
	fs.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health address (empty disables)")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "MCP transport: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.Func("allowed-hosts", "comma-separated non-loopback hosts accepted over HTTP", func(value string) error {
		cfg.AllowedHosts = splitList(value)
		return nil
	})
	fs.BoolVar(&cfg.HealthCheck, "healthcheck", false, "check that a running server at -health-addr is serving, then exit")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// AppConfig converts command configuration into app configuration.
func (c Config) AppConfig() app.Config {
	return app.Config{
		DBPath:       strings.TrimSpace(c.DBPath),
		SnapshotName: c.SnapshotName,
		Locale:       c.Locale,
		PipBudget:    c.PipBudget,
		HealthAddr:   strings.TrimSpace(c.HealthAddr),
		MCP: service.Config{
			Transport:    service.TransportKind(strings.ToLower(strings.TrimSpace(c.Transport))),
			HTTPAddr:     c.HTTPAddr,
			AllowedHosts: c.AllowedHosts,
		},
	}
}

// Run starts the story server with telemetry, or runs the health check when
// cfg.HealthCheck is set.
func Run(ctx context.Context, cfg Config) error {
	if cfg.HealthCheck {
		return Check(ctx, cfg)
	}
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServicePipdeck, func(ctx context.Context) error {
		return app.Run(ctx, cfg.AppConfig())
	})
}

// Check waits until the server at cfg.HealthAddr reports the story service
// as SERVING, for at most timeouts.HealthCheck.
func Check(ctx context.Context, cfg Config) error {
	addr := strings.TrimSpace(cfg.HealthAddr)
	if addr == "" {
		return fmt.Errorf("health address is required for -healthcheck")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.HealthCheck)
	defer cancel()
	if err := platformgrpc.Probe(ctx, addr, app.HealthService, nil); err != nil {
		return fmt.Errorf("health check %s: %w", addr, err)
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
