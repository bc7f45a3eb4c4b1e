package crud

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/memdb"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/textfmt"
)

type status string

type card struct {
	ID          int64
	Name        string
	Count       int
	Wild        bool
	DefaultType *int64
	Status      status
}

func cardSchema() Schema[card] {
	return Schema[card]{
		Table:  "tblCards",
		Entity: "card",
		ID:     ID(func(c *card) *int64 { return &c.ID }),
		Fields: []Field[card]{
			Text("name", func(c *card) *string { return &c.Name }),
			Int("count", func(c *card) *int { return &c.Count }),
			Flag("is_wild", func(c *card) *bool { return &c.Wild }),
			NullableInt("default_card_type_id", func(c *card) **int64 { return &c.DefaultType }),
			Text("status", func(c *card) *status { return &c.Status }),
		},
		Unique:       [][]string{{"name"}},
		DisplayField: "name",
	}
}

func newRepo(t *testing.T) (*Mapper, *Repo[card]) {
	t.Helper()
	m := NewMapper(memdb.New(memdb.WithLogf(t.Logf)))
	repo, err := Define(m, cardSchema())
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	return m, repo
}

func TestCreateReturnsStoredRecord(t *testing.T) {
	t.Parallel()

	_, repo := newRepo(t)
	typeID := int64(4)
	created, err := repo.Create(card{ID: 99, Name: "Key", Count: 2, Wild: true, DefaultType: &typeID, Status: "Active"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 {
		t.Fatalf("id = %d, want 1 (caller id ignored)", created.ID)
	}
	if created.Name != "Key" || created.Count != 2 || !created.Wild || created.Status != "Active" {
		t.Fatalf("created = %+v", created)
	}
	if created.DefaultType == nil || *created.DefaultType != 4 {
		t.Fatalf("default type = %v", created.DefaultType)
	}
}

func TestCreateConstraintViolation(t *testing.T) {
	t.Parallel()

	_, repo := newRepo(t)
	if _, err := repo.Create(card{Name: "Key"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(card{Name: "Key"})
	if !errors.Is(err, memdb.ErrConstraintViolation) {
		t.Fatalf("err = %v, want constraint violation", err)
	}
	if repo.Count(nil) != 1 {
		t.Fatalf("count = %d, want 1", repo.Count(nil))
	}
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	_, repo := newRepo(t)
	_, err := repo.Get(7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
	meta := apperrors.MetadataOf(err)
	if meta["Entity"] != "card" || meta["ID"] != "7" {
		t.Fatalf("metadata = %v", meta)
	}
}

func TestReadAllUpdateDelete(t *testing.T) {
	t.Parallel()

	_, repo := newRepo(t)
	a, _ := repo.Create(card{Name: "A", Count: 1})
	b, _ := repo.Create(card{Name: "B", Count: 1})
	repo.Create(card{Name: "C", Count: 2})

	ones, err := repo.ReadAll(memdb.Fields{"count": memdb.Int(1)})
	if err != nil || len(ones) != 2 {
		t.Fatalf("read all = %v, %v", ones, err)
	}

	b.Count = 5
	if err := repo.Update(b.ID, repo.Fields(&b, "count")); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := repo.Get(b.ID)
	if got.Count != 5 || got.Name != "B" {
		t.Fatalf("after update = %+v", got)
	}

	if err := repo.Delete(a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.Exists(a.ID) {
		t.Fatal("record still exists after delete")
	}
}

func TestFieldsSubset(t *testing.T) {
	t.Parallel()

	_, repo := newRepo(t)
	rec := card{Name: "A", Count: 3}
	fields := repo.Fields(&rec, "count")
	if len(fields) != 1 || !fields["count"].Equal(memdb.Int(3)) {
		t.Fatalf("fields = %v", fields)
	}
	all := repo.Fields(&rec)
	if _, ok := all[memdb.IDColumn]; ok {
		t.Fatal("id must not be encoded")
	}
	if !all["default_card_type_id"].IsNull() {
		t.Fatalf("nil pointer encoded as %#v", all["default_card_type_id"])
	}
}

func TestDecodeLoadedText(t *testing.T) {
	t.Parallel()

	m, repo := newRepo(t)
	if _, err := textfmt.Load(m.Database(), "tblCards:id|name|count|is_wild|default_card_type_id\n3|Wild Card|2|1|\n4|7|0|0|9"); err != nil {
		t.Fatalf("load: %v", err)
	}
	wild, err := repo.Get(3)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !wild.Wild || wild.DefaultType != nil || wild.Count != 2 {
		t.Fatalf("wild = %+v", wild)
	}
	numeric, _ := repo.Get(4)
	if numeric.Name != "7" || numeric.DefaultType == nil || *numeric.DefaultType != 9 {
		t.Fatalf("numeric = %+v", numeric)
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	_, repo := newRepo(t)
	repo.Create(card{Name: "A", Count: 1})
	repo.Create(card{Name: "B", Count: 4})
	repo.Create(card{Name: "C", Count: 6})

	got, err := repo.Select("count >= 4")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(got) != 2 || got[0].Name != "B" || got[1].Name != "C" {
		t.Fatalf("select = %+v", got)
	}
	if _, err := repo.Select("count = \"x\""); apperrors.CodeOf(err) != apperrors.CodeInvalidArgument {
		t.Fatalf("bad filter err = %v", err)
	}
}

func TestBuildRawDataOrdersSchemaTablesFirst(t *testing.T) {
	t.Parallel()

	m := NewMapper(memdb.New(memdb.WithLogf(t.Logf)))
	if _, err := textfmt.Load(m.Database(), "tblExtra:id|x\n1|y"); err != nil {
		t.Fatalf("load: %v", err)
	}
	repo, err := Define(m, cardSchema())
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	repo.Create(card{Name: "A"})

	raw := m.BuildRawData()
	cards := strings.Index(raw, "tblCards:")
	extra := strings.Index(raw, "tblExtra:")
	if cards < 0 || extra < 0 || cards > extra {
		t.Fatalf("raw data order wrong:\n%s", raw)
	}
	if field, ok := m.DisplayField("tblCards"); !ok || field != "name" {
		t.Fatalf("display field = %q, %v", field, ok)
	}
}

func TestCreateAndUpdateRejectUnencodableText(t *testing.T) {
	t.Parallel()

	_, repo := newRepo(t)
	for _, name := range []string{"a|b", "a\nb", "a\r\nb"} {
		_, err := repo.Create(card{Name: name})
		if apperrors.CodeOf(err) != apperrors.CodeInvalidArgument {
			t.Fatalf("create %q err = %v, want invalid argument", name, err)
		}
		if !errors.Is(err, ErrUnencodable) {
			t.Fatalf("create %q err = %v, want ErrUnencodable", name, err)
		}
		if got := apperrors.MetadataOf(err)["Field"]; got != "name" {
			t.Fatalf("field = %q, want name", got)
		}
	}
	if n := repo.Count(nil); n != 0 {
		t.Fatalf("rows = %d, want 0", n)
	}

	created, err := repo.Create(card{Name: "Key"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	err = repo.Update(created.ID, memdb.Fields{"count": memdb.Int(3), "status": memdb.String("x|y")})
	if apperrors.CodeOf(err) != apperrors.CodeInvalidArgument {
		t.Fatalf("update err = %v, want invalid argument", err)
	}
	got, _ := repo.Get(created.ID)
	if got.Count != 0 || got.Status != "" {
		t.Fatalf("record changed by rejected update: %+v", got)
	}
}

func TestFindTextMatchesCoercedNumbers(t *testing.T) {
	t.Parallel()

	m, repo := newRepo(t)
	if _, err := repo.Create(card{Name: "42"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := repo.FindText("name", "42"); len(got) != 1 {
		t.Fatalf("before load = %v, want one match", got)
	}

	if _, err := textfmt.Load(m.Database(), m.BuildRawData()); err != nil {
		t.Fatalf("load: %v", err)
	}
	rs, err := m.Database().Read("tblCards", nil)
	if err != nil || len(rs.Rows) != 1 {
		t.Fatalf("read = %v, %v", rs.Rows, err)
	}
	if !rs.Rows[0][1].Equal(memdb.Int(42)) {
		t.Fatalf("loaded name = %#v, want number", rs.Rows[0][1])
	}
	if got := repo.FindText("name", "42"); len(got) != 1 || got[0].Name != "42" {
		t.Fatalf("after load = %v, want one match", got)
	}
	if got := repo.FindText("missing", "42"); len(got) != 0 {
		t.Fatalf("unknown column = %v", got)
	}
}
