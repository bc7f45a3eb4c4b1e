package seed

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/pipdeck/internal/services/story/storage/sqlite"
)

func TestParseConfigFlags(t *testing.T) {
	t.Setenv("PIPDECK_SNAPSHOT_NAME", "env-name")

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-print", "-db", "x.db", "-file", "in.txt"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if !cfg.Print || cfg.DBPath != "x.db" || cfg.File != "in.txt" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.SnapshotName != "env-name" {
		t.Fatalf("name = %q, want env value", cfg.SnapshotName)
	}
}

func TestRunPrintsWithoutSaving(t *testing.T) {
	var out bytes.Buffer
	if err := Run(context.Background(), Config{Print: true}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Guard Captain's Key") {
		t.Fatalf("printed data is missing seed rows:\n%s", out.String())
	}
}

func TestRunSavesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipdeck.db")
	cfg := Config{DBPath: path, SnapshotName: "demo"}

	if err := Run(context.Background(), cfg, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := Run(context.Background(), cfg, nil); err != nil {
		t.Fatalf("second run: %v", err)
	}

	store, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	summaries, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Revision != 2 {
		t.Fatalf("summaries = %+v, want one row promoted to revision 2", summaries)
	}
}

func TestRunReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("tblGames:id|name|desc\n1|Solo|Just one\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var out bytes.Buffer
	if err := Run(context.Background(), Config{File: path, Print: true}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Solo") || strings.Contains(out.String(), "Guard Captain's Key") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	if err := Run(context.Background(), Config{File: filepath.Join(t.TempDir(), "missing.txt")}, nil); err == nil {
		t.Fatal("expected missing file error")
	}
}
