package scaffold

import (
	"fmt"
	"log"

	"github.com/louisbranch/pipdeck/internal/services/story/core/filter"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/crud"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/memdb"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/textfmt"
)

// Scaffold is the story rule facade over one in-memory database.
type Scaffold struct {
	db     *memdb.Database
	mapper *crud.Mapper
	budget PipBudget
	logf   func(format string, args ...any)
	repos
}

// Option configures a Scaffold.
type Option func(*Scaffold)

// WithPipBudget replaces the rule computing a scene's maximum pips.
func WithPipBudget(budget PipBudget) Option {
	return func(s *Scaffold) {
		if budget != nil {
			s.budget = budget
		}
	}
}

// WithLogf overrides the logger used by the scaffold and its database.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Scaffold) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// New builds a Scaffold with the story schema defined and no rows.
func New(opts ...Option) (*Scaffold, error) {
	s := &Scaffold{
		budget: ActiveOwnedCharacters,
		logf:   log.Printf,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.db = memdb.New(memdb.WithLogf(s.logf))
	s.mapper = crud.NewMapper(s.db)
	r, err := defineSchema(s.mapper)
	if err != nil {
		return nil, fmt.Errorf("define story schema: %w", err)
	}
	s.repos = r
	return s, nil
}

// RawData renders the whole database in the table text format.
func (s *Scaffold) RawData() string {
	return s.mapper.BuildRawData()
}

// LoadData replaces every table with the contents of text.
func (s *Scaffold) LoadData(text string) (textfmt.LoadResult, error) {
	result, err := textfmt.Load(s.db, text)
	if err != nil {
		return result, fmt.Errorf("load story data: %w", err)
	}
	if result.Rejected > 0 {
		s.logf("scaffold: load rejected %d row(s)", result.Rejected)
	}
	return result, nil
}

// Tables returns the names of every defined table in serialization order.
func (s *Scaffold) Tables() []string {
	tables := s.db.Tables()
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = t.Name()
	}
	return out
}

// Search returns the rows of table matching an AIP-160 filter expression.
func (s *Scaffold) Search(table, expr string) (memdb.Rowset, error) {
	t, err := s.db.Table(table)
	if err != nil {
		return memdb.Rowset{}, err
	}
	pred, err := filter.Compile(t.Columns(), expr)
	if err != nil {
		return memdb.Rowset{}, err
	}
	return memdb.Rowset{Columns: t.Columns(), Rows: t.Select(pred)}, nil
}

func byID(column string, id int64) memdb.Fields {
	return memdb.Fields{column: memdb.Int(id)}
}
