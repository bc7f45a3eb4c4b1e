// Package seed loads story data, normalizes it through the scaffold and
// saves it as a snapshot.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	platformcmd "github.com/louisbranch/pipdeck/internal/platform/cmd"
	"github.com/louisbranch/pipdeck/internal/platform/timeouts"
	"github.com/louisbranch/pipdeck/internal/services/mcp/tools"
	"github.com/louisbranch/pipdeck/internal/services/story/scaffold"
	"github.com/louisbranch/pipdeck/internal/services/story/seed"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath       string `env:"DB_PATH"       envDefault:"data/pipdeck.db"`
	SnapshotName string `env:"SNAPSHOT_NAME" envDefault:"default"`
	// File replaces the bundled seed when set.
	File string `env:"SEED_FILE"`
	// Print writes the normalized data to the output.
	Print bool `env:"SEED_PRINT"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "snapshot database path (empty skips saving)")
	fs.StringVar(&cfg.SnapshotName, "name", cfg.SnapshotName, "snapshot name")
	fs.StringVar(&cfg.File, "file", cfg.File, "data file to load instead of the bundled seed")
	fs.BoolVar(&cfg.Print, "print", cfg.Print, "print the normalized data")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run loads the configured data and saves it, writing any printed output
// to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceSeed, func(ctx context.Context) error {
		text, err := source(cfg.File)
		if err != nil {
			return err
		}
		body, err := normalize(text)
		if err != nil {
			return err
		}
		if cfg.Print {
			if _, err := io.WriteString(out, body); err != nil {
				return fmt.Errorf("write data: %w", err)
			}
		}
		if strings.TrimSpace(cfg.DBPath) == "" {
			return nil
		}
		return save(ctx, cfg.DBPath, cfg.SnapshotName, body)
	})
}

func source(path string) (string, error) {
	if path == "" {
		return seed.Text(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read seed file: %w", err)
	}
	return string(data), nil
}

// normalize loads text into a fresh scaffold and renders it back, dropping
// rejected rows.
func normalize(text string) (string, error) {
	s, err := scaffold.New()
	if err != nil {
		return "", err
	}
	result, err := s.LoadData(text)
	if err != nil {
		return "", err
	}
	log.Printf("loaded %d row(s) across %d table(s), %d rejected", result.Rows, len(result.Tables), result.Rejected)
	return s.RawData(), nil
}

func save(ctx context.Context, path, name, body string) error {
	if strings.TrimSpace(name) == "" {
		name = tools.DefaultSnapshotName
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(ctx, timeouts.SnapshotIO)
	defer cancel()
	snap, err := store.Save(ctx, name, body)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	log.Printf("saved snapshot %q revision %d (%s)", snap.Name, snap.Revision, snap.Digest[:12])
	return nil
}
