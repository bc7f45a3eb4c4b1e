package seed

import (
	"testing"

	"github.com/louisbranch/pipdeck/internal/services/story/storage/memdb"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/textfmt"
)

func TestTextLoadsCleanly(t *testing.T) {
	t.Parallel()

	db := memdb.New(memdb.WithLogf(t.Logf))
	result, err := textfmt.Load(db, Text())
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	if result.Rejected != 0 {
		t.Fatalf("rejected rows = %d, want 0", result.Rejected)
	}
	if len(result.Tables) != 12 {
		t.Fatalf("tables = %d (%v), want 12", len(result.Tables), result.Tables)
	}
	challenges, err := db.Read("tblChallenges", nil)
	if err != nil {
		t.Fatalf("read challenges: %v", err)
	}
	if idx := challenges.Columns.Index("difficulty"); idx < 0 {
		t.Fatal("challenges are missing the difficulty column")
	}
}
