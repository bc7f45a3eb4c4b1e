package tools

import (
	"context"
	"strings"
	"time"

	"github.com/louisbranch/pipdeck/internal/services/story/scaffold"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/sqlite"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SnapshotSaveInput stores the current database.
type SnapshotSaveInput struct {
	Name string `json:"name,omitempty" jsonschema:"snapshot name; defaults to default"`
}

// SnapshotEntry describes a stored snapshot.
type SnapshotEntry struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Revision  int64  `json:"revision"`
	Digest    string `json:"digest"`
	Size      int    `json:"size"`
	CreatedAt string `json:"created_at"`
}

// SnapshotRestoreInput loads a snapshot by id or the latest one of a name.
type SnapshotRestoreInput struct {
	ID   int64  `json:"id,omitempty" jsonschema:"snapshot identifier"`
	Name string `json:"name,omitempty" jsonschema:"restore the latest revision of this name"`
}

// SnapshotRestoreResult reports a restored snapshot.
type SnapshotRestoreResult struct {
	Snapshot SnapshotEntry    `json:"snapshot"`
	Loaded   DataImportResult `json:"loaded"`
}

// SnapshotListInput lists snapshots.
type SnapshotListInput struct{}

// SnapshotListResult holds snapshot summaries.
type SnapshotListResult struct {
	Snapshots []SnapshotEntry `json:"snapshots"`
}

func (h *Host) registerSnapshotTools(server *mcp.Server) {
	addTool(server, h, accessRead, "snapshot_save", "Saves the current database as a named snapshot", h.saveSnapshot)
	addTool(server, h, accessWrite, "snapshot_restore", "Replaces the database with a stored snapshot", h.restoreSnapshot)
	addTool(server, h, accessRead, "snapshot_list", "Lists stored snapshots", h.listSnapshots)
}

func snapshotName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return DefaultSnapshotName
}

func snapshotEntry(snap sqlite.Snapshot) SnapshotEntry {
	return SnapshotEntry{
		ID:        snap.ID,
		Name:      snap.Name,
		Revision:  snap.Revision,
		Digest:    snap.Digest,
		Size:      len(snap.Body),
		CreatedAt: snap.CreatedAt.Format(time.RFC3339),
	}
}

func (h *Host) saveSnapshot(ctx context.Context, s *scaffold.Scaffold, in SnapshotSaveInput) (SnapshotEntry, error) {
	snap, err := h.store.Save(ctx, snapshotName(in.Name), s.RawData())
	if err != nil {
		return SnapshotEntry{}, err
	}
	return snapshotEntry(snap), nil
}

func (h *Host) restoreSnapshot(ctx context.Context, s *scaffold.Scaffold, in SnapshotRestoreInput) (SnapshotRestoreResult, error) {
	var (
		snap sqlite.Snapshot
		err  error
	)
	if in.ID > 0 {
		snap, err = h.store.Get(ctx, in.ID)
	} else {
		snap, err = h.store.Latest(ctx, snapshotName(in.Name))
	}
	if err != nil {
		return SnapshotRestoreResult{}, err
	}
	loaded, err := s.LoadData(snap.Body)
	if err != nil {
		return SnapshotRestoreResult{}, err
	}
	h.notifyAll(ctx, rawDataURI, gamesURI, cardsURI)
	return SnapshotRestoreResult{
		Snapshot: snapshotEntry(snap),
		Loaded:   importResult(loaded),
	}, nil
}

func (h *Host) listSnapshots(ctx context.Context, _ *scaffold.Scaffold, _ SnapshotListInput) (SnapshotListResult, error) {
	summaries, err := h.store.List(ctx)
	if err != nil {
		return SnapshotListResult{}, err
	}
	return SnapshotListResult{Snapshots: mapEntries(summaries, func(sum sqlite.Summary) SnapshotEntry {
		return SnapshotEntry{
			ID:        sum.ID,
			Name:      sum.Name,
			Revision:  sum.Revision,
			Digest:    sum.Digest,
			Size:      sum.Size,
			CreatedAt: sum.CreatedAt.Format(time.RFC3339),
		}
	})}, nil
}
