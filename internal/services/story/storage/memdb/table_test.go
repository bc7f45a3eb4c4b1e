package memdb

import (
	"errors"
	"testing"

	apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db := New(WithLogf(t.Logf))
	if _, err := db.Define("tblCardTypes", AnyColumns("name"), []string{"name"}); err != nil {
		t.Fatalf("define card types: %v", err)
	}
	if _, err := db.Define("tblCards", AnyColumns("name", "count")); err != nil {
		t.Fatalf("define cards: %v", err)
	}
	return db
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	for want := int64(1); want <= 3; want++ {
		id, err := db.Create("tblCards", Fields{"name": String("card")})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if id != want {
			t.Fatalf("id = %d, want %d", id, want)
		}
	}
}

func TestCreateHonorsExplicitID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	id, err := db.Create("tblCards", Fields{"id": Int(10), "name": String("ten")})
	if err != nil || id != 10 {
		t.Fatalf("create explicit = %d, %v", id, err)
	}
	next, err := db.Create("tblCards", Fields{"name": String("next")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if next != 11 {
		t.Fatalf("next id = %d, want 11", next)
	}

	// A lower explicit id does not move the counter backwards.
	if _, err := db.Create("tblCards", Fields{"id": Int(4)}); err != nil {
		t.Fatalf("create low id: %v", err)
	}
	if id, _ := db.Create("tblCards", Fields{}); id != 12 {
		t.Fatalf("id after low explicit = %d, want 12", id)
	}
}

func TestCreateRejectsDuplicateAndInvalidID(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	if _, err := db.Create("tblCards", Fields{"id": Int(1)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	id, err := db.Create("tblCards", Fields{"id": Int(1)})
	if id != NoID || !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("duplicate id = %d, %v", id, err)
	}
	id, err = db.Create("tblCards", Fields{"id": String("abc")})
	if id != NoID || !errors.Is(err, ErrInvalidID) {
		t.Fatalf("text id = %d, %v", id, err)
	}
	id, err = db.Create("tblCards", Fields{"id": Number(1.5)})
	if id != NoID || !errors.Is(err, ErrInvalidID) {
		t.Fatalf("fractional id = %d, %v", id, err)
	}
	if id, err := db.Create("tblCards", Fields{"id": String("")}); err != nil || id != 2 {
		t.Fatalf("empty id should auto-assign, got %d, %v", id, err)
	}
}

func TestUniqueGroupRejectsCollision(t *testing.T) {
	t.Parallel()

	var logged int
	db := New(WithLogf(func(string, ...any) { logged++ }))
	if _, err := db.Define("tblCardTypes", AnyColumns("name"), []string{"name"}); err != nil {
		t.Fatalf("define: %v", err)
	}
	if _, err := db.Create("tblCardTypes", Fields{"name": String("Wild")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	id, err := db.Create("tblCardTypes", Fields{"name": String("Wild")})
	if id != NoID {
		t.Fatalf("id = %d, want NoID", id)
	}
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("err = %v, want constraint violation", err)
	}
	if apperrors.CodeOf(err) != apperrors.CodeConstraintViolation {
		t.Fatalf("code = %s", apperrors.CodeOf(err))
	}
	if got := apperrors.MetadataOf(err)["Table"]; got != "tblCardTypes" {
		t.Fatalf("metadata table = %q", got)
	}
	if logged != 1 {
		t.Fatalf("logged = %d, want 1", logged)
	}
	rs, _ := db.Read("tblCardTypes", nil)
	if len(rs.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rs.Rows))
	}

	// Strict kinds: the number 1 and the string "1" are distinct keys.
	if _, err := db.Create("tblCardTypes", Fields{"name": Int(1)}); err != nil {
		t.Fatalf("create numeric name: %v", err)
	}
	if _, err := db.Create("tblCardTypes", Fields{"name": String("1")}); err != nil {
		t.Fatalf("create text name: %v", err)
	}
}

func TestUpdateRekeysUniqueIndex(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	a, _ := db.Create("tblCardTypes", Fields{"name": String("A")})
	b, _ := db.Create("tblCardTypes", Fields{"name": String("B")})

	if err := db.Update("tblCardTypes", a, Fields{"name": String("C")}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	// The old key was released.
	if _, err := db.Create("tblCardTypes", Fields{"name": String("A")}); err != nil {
		t.Fatalf("reuse released key: %v", err)
	}
	err := db.Update("tblCardTypes", b, Fields{"name": String("C")})
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("collision err = %v", err)
	}
	row, _, _ := db.Get("tblCardTypes", b)
	if got := row[1].String(); got != "B" {
		t.Fatalf("row changed on rejected update: %q", got)
	}
	// Updating a row to its own key is fine.
	if err := db.Update("tblCardTypes", b, Fields{"name": String("B")}); err != nil {
		t.Fatalf("self update: %v", err)
	}
}

func TestUpdateIgnoresIDAndUnknownColumns(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	id, _ := db.Create("tblCards", Fields{"name": String("x")})
	if err := db.Update("tblCards", id, Fields{"id": Int(99), "bogus": Int(1), "count": Int(3)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	row, ok, _ := db.Get("tblCards", id)
	if !ok {
		t.Fatal("row vanished")
	}
	if row.ID() != id {
		t.Fatalf("id changed to %d", row.ID())
	}
	if n, _ := row[2].Int(); n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
	if err := db.Update("tblCards", 404, Fields{"name": String("y")}); err != nil {
		t.Fatalf("missing id update should be a no-op: %v", err)
	}
}

func TestDeleteReleasesKeys(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	id, _ := db.Create("tblCardTypes", Fields{"name": String("Wild")})
	if err := db.Delete("tblCardTypes", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := db.Delete("tblCardTypes", id); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if _, err := db.Create("tblCardTypes", Fields{"name": String("Wild")}); err != nil {
		t.Fatalf("recreate after delete: %v", err)
	}
}

func TestReadFilters(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	db.Create("tblCards", Fields{"name": String("a"), "count": Int(1)})
	db.Create("tblCards", Fields{"name": String("b"), "count": Int(2)})
	db.Create("tblCards", Fields{"name": String("a"), "count": Int(2)})

	rs, err := db.Read("tblCards", nil)
	if err != nil || len(rs.Rows) != 3 {
		t.Fatalf("read all = %d rows, %v", len(rs.Rows), err)
	}
	rs, _ = db.Read("tblCards", Fields{"name": String("a"), "count": Int(2)})
	if len(rs.Rows) != 1 || rs.Rows[0].ID() != 3 {
		t.Fatalf("filtered rows = %v", rs.Rows)
	}
	rs, _ = db.Read("tblCards", Fields{"count": String("2")})
	if len(rs.Rows) != 0 {
		t.Fatalf("string filter matched numbers: %v", rs.Rows)
	}
	if got := rs.Columns.String(); got != "id|name|count" {
		t.Fatalf("columns = %q", got)
	}

	rs, _ = db.Read("tblCards", Fields{"name": String("b")})
	if f := rs.Fields(0); !f["count"].Equal(Int(2)) {
		t.Fatalf("fields = %v", f)
	}
}

func TestReadReturnsCopies(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	id, _ := db.Create("tblCards", Fields{"name": String("a")})
	rs, _ := db.Read("tblCards", nil)
	rs.Rows[0][1] = String("mutated")
	row, _, _ := db.Get("tblCards", id)
	if row[1].String() != "a" {
		t.Fatal("caller mutation leaked into table")
	}
}

func TestUndefinedTable(t *testing.T) {
	t.Parallel()

	db := New()
	if _, err := db.Create("tblNope", Fields{}); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("create err = %v", err)
	}
	if _, err := db.Read("tblNope", nil); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("read err = %v", err)
	}
	if err := db.Update("tblNope", 1, nil); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("update err = %v", err)
	}
	if err := db.Delete("tblNope", 1); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("delete err = %v", err)
	}
}

func TestDefineExistingClearsAndKeepsSchema(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	db.Create("tblCards", Fields{"name": String("a")})
	table, err := db.Define("tblCards", AnyColumns("other"))
	if err != nil {
		t.Fatalf("redefine: %v", err)
	}
	if table.Len() != 0 {
		t.Fatalf("rows = %d, want 0", table.Len())
	}
	if got := table.Columns().String(); got != "id|name|count" {
		t.Fatalf("schema changed to %q", got)
	}
	if id, _ := db.Create("tblCards", Fields{}); id != 1 {
		t.Fatalf("counter not reset, id = %d", id)
	}
	names := []string{}
	for _, tbl := range db.Tables() {
		names = append(names, tbl.Name())
	}
	if len(names) != 2 || names[0] != "tblCardTypes" || names[1] != "tblCards" {
		t.Fatalf("tables = %v", names)
	}
}

func TestDefineRejectsUnknownUniqueColumn(t *testing.T) {
	t.Parallel()

	db := New()
	if _, err := db.Define("tblX", AnyColumns("a"), []string{"b"}); err == nil {
		t.Fatal("expected error for unknown unique column")
	}
}

func TestClearAllTables(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	db.Create("tblCardTypes", Fields{"name": String("Wild")})
	db.Create("tblCards", Fields{"name": String("a")})
	db.ClearAllTables()
	for _, tbl := range db.Tables() {
		if tbl.Len() != 0 {
			t.Fatalf("%s still has %d rows", tbl.Name(), tbl.Len())
		}
	}
	if id, err := db.Create("tblCardTypes", Fields{"name": String("Wild")}); err != nil || id != 1 {
		t.Fatalf("create after clear = %d, %v", id, err)
	}
}
