// Package app wires the story scaffold, its snapshot store, the MCP server
// and the health endpoint into one process.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"
	platformgrpc "github.com/louisbranch/pipdeck/internal/platform/grpc"
	"github.com/louisbranch/pipdeck/internal/platform/timeouts"
	"github.com/louisbranch/pipdeck/internal/services/mcp/service"
	"github.com/louisbranch/pipdeck/internal/services/mcp/tools"
	"github.com/louisbranch/pipdeck/internal/services/story/scaffold"
	"github.com/louisbranch/pipdeck/internal/services/story/seed"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/sqlite"
)

// HealthService is the gRPC health service name reported while MCP is up.
const HealthService = "pipdeck.v1.Story"

// Pip budget rule names accepted by Config.PipBudget.
const (
	BudgetCharacters = "characters"
	BudgetPlayers    = "players"
)

// Config configures a story process.
type Config struct {
	// DBPath is the snapshot database. Empty keeps state in memory only.
	DBPath string
	// SnapshotName selects which snapshot line is loaded and saved.
	SnapshotName string
	// Locale renders tool errors.
	Locale string
	// PipBudget selects the scene pip rule, BudgetCharacters by default.
	PipBudget string
	// HealthAddr serves grpc.health.v1 when set.
	HealthAddr string
	// MCP configures the MCP transport.
	MCP service.Config
}

// App is a running story process.
type App struct {
	cfg     Config
	store   *sqlite.Store
	session *scaffold.Session
	server  *service.Server
	health  *platformgrpc.HealthServer
	// loaded is the digest of the data the session started from.
	loaded string
}

// New loads the story state and builds the servers without serving them.
func New(ctx context.Context, cfg Config) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(cfg.SnapshotName) == "" {
		cfg.SnapshotName = tools.DefaultSnapshotName
	}
	budget, err := pipBudget(cfg.PipBudget)
	if err != nil {
		return nil, err
	}

	sc, err := scaffold.New(scaffold.WithPipBudget(budget))
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg}

	var hostOpts []tools.HostOption
	if cfg.Locale != "" {
		hostOpts = append(hostOpts, tools.WithLocale(cfg.Locale))
	}
	if cfg.DBPath != "" {
		store, err := openStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.store = store
		hostOpts = append(hostOpts, tools.WithSnapshotStore(store))
	}

	text, err := a.initialData(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	if _, err := sc.LoadData(text); err != nil {
		a.Close()
		return nil, err
	}
	a.loaded = sqlite.Digest(sc.RawData())
	a.session = scaffold.NewSession(sc)

	server, err := service.New(func(notify tools.ResourceUpdateNotifier) *tools.Host {
		return tools.NewHost(a.session, append(hostOpts, tools.WithNotifier(notify))...)
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.server = server

	if cfg.HealthAddr != "" {
		health, err := platformgrpc.NewHealthServer(cfg.HealthAddr, HealthService)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.health = health
	}
	return a, nil
}

// Run builds an App and serves it until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	a, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	return a.Serve(ctx)
}

// Session exposes the guarded scaffold.
func (a *App) Session() *scaffold.Session {
	return a.session
}

// HealthAddr returns the bound health address, or "" when disabled.
func (a *App) HealthAddr() string {
	if a == nil || a.health == nil {
		return ""
	}
	return a.health.Addr()
}

// Serve runs MCP and the health endpoint until ctx ends or MCP stops. On
// exit the current data is saved when it differs from what was loaded.
func (a *App) Serve(ctx context.Context) error {
	if a == nil || a.server == nil {
		return errors.New("app is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	healthDone := make(chan error, 1)
	if a.health != nil {
		log.Printf("health listening at %s", a.health.Addr())
		go func() { healthDone <- a.health.Serve(ctx) }()
		a.health.SetServing("", true)
		a.health.SetServing(HealthService, true)
	} else {
		healthDone <- nil
	}

	log.Printf("serving MCP over %s", transportName(a.cfg.MCP.Transport))
	serveErr := a.server.Run(ctx, a.cfg.MCP)
	cancel()
	healthErr := <-healthDone

	saveCtx, saveCancel := context.WithTimeout(context.Background(), timeouts.SnapshotIO)
	defer saveCancel()
	saveErr := a.Persist(saveCtx)

	return errors.Join(serveErr, healthErr, saveErr)
}

// Persist saves the current data as a snapshot when a store is configured
// and the data changed since it was loaded or last persisted.
func (a *App) Persist(ctx context.Context) error {
	if a == nil || a.store == nil || a.session == nil {
		return nil
	}
	var body string
	_ = a.session.View(func(s *scaffold.Scaffold) error {
		body = s.RawData()
		return nil
	})
	digest := sqlite.Digest(body)
	if digest == a.loaded {
		return nil
	}
	snap, err := a.store.Save(ctx, a.cfg.SnapshotName, body)
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", a.cfg.SnapshotName, err)
	}
	a.loaded = digest
	log.Printf("saved snapshot %q revision %d", snap.Name, snap.Revision)
	return nil
}

// Close releases the store and listeners.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.health != nil {
		a.health.Stop()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Printf("close snapshot store: %v", err)
		}
		a.store = nil
	}
}

// initialData returns the latest snapshot of the configured name, falling
// back to the bundled seed when there is none.
func (a *App) initialData(ctx context.Context) (string, error) {
	if a.store == nil {
		return seed.Text(), nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.SnapshotIO)
	defer cancel()
	snap, err := a.store.Latest(ctx, a.cfg.SnapshotName)
	if apperrors.CodeOf(err) == apperrors.CodeNotFound {
		log.Printf("no snapshot %q, loading seed", a.cfg.SnapshotName)
		return seed.Text(), nil
	}
	if err != nil {
		return "", fmt.Errorf("load snapshot %q: %w", a.cfg.SnapshotName, err)
	}
	log.Printf("loaded snapshot %q revision %d", snap.Name, snap.Revision)
	return snap.Body, nil
}

func pipBudget(name string) (scaffold.PipBudget, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BudgetCharacters:
		return scaffold.ActiveOwnedCharacters, nil
	case BudgetPlayers:
		return scaffold.PlayersInGame, nil
	default:
		return nil, fmt.Errorf("pip budget %q is not supported", name)
	}
}

func transportName(kind service.TransportKind) string {
	if kind == "" {
		return string(service.TransportStdio)
	}
	return string(kind)
}

func openStore(path string) (*sqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return store, nil
}
