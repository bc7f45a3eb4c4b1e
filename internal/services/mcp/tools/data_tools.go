package tools

import (
	"context"

	"github.com/louisbranch/pipdeck/internal/services/story/scaffold"
	"github.com/louisbranch/pipdeck/internal/services/story/storage/textfmt"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DataExportInput requests the raw data text.
type DataExportInput struct{}

// DataExportResult holds the raw data text.
type DataExportResult struct {
	Text   string   `json:"text"`
	Tables []string `json:"tables"`
}

// DataImportInput replaces the whole database with raw data text.
type DataImportInput struct {
	Text string `json:"text" jsonschema:"pipe-delimited table blocks"`
}

// DataImportResult reports what a load wrote.
type DataImportResult struct {
	Tables   []string `json:"tables"`
	Rows     int      `json:"rows"`
	Rejected int      `json:"rejected"`
}

// SearchInput filters the rows of one table.
type SearchInput struct {
	Table  string `json:"table" jsonschema:"table name, for example tblCards"`
	Filter string `json:"filter,omitempty" jsonschema:"AIP-160 filter such as name = \"Scrappy\" AND id > 3"`
}

// SearchResult holds matching rows rendered as text.
type SearchResult struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func (h *Host) registerDataTools(server *mcp.Server) {
	addTool(server, h, accessRead, "data_export", "Renders the whole database as pipe-delimited text", h.exportData)
	addTool(server, h, accessWrite, "data_import", "Replaces the whole database with pipe-delimited text", h.importData)
	addTool(server, h, accessRead, "search", "Finds rows of a table with an AIP-160 filter", h.search)
}

func (h *Host) exportData(_ context.Context, s *scaffold.Scaffold, _ DataExportInput) (DataExportResult, error) {
	return DataExportResult{Text: s.RawData(), Tables: s.Tables()}, nil
}

func (h *Host) importData(ctx context.Context, s *scaffold.Scaffold, in DataImportInput) (DataImportResult, error) {
	result, err := s.LoadData(in.Text)
	if err != nil {
		return DataImportResult{}, err
	}
	h.notifyAll(ctx, rawDataURI, gamesURI, cardsURI)
	return importResult(result), nil
}

func importResult(result textfmt.LoadResult) DataImportResult {
	tables := result.Tables
	if tables == nil {
		tables = []string{}
	}
	return DataImportResult{Tables: tables, Rows: result.Rows, Rejected: result.Rejected}
}

func (h *Host) search(_ context.Context, s *scaffold.Scaffold, in SearchInput) (SearchResult, error) {
	rowset, err := s.Search(in.Table, in.Filter)
	if err != nil {
		return SearchResult{}, err
	}
	out := SearchResult{Columns: rowset.Columns.Names(), Rows: make([][]string, 0, len(rowset.Rows))}
	for _, row := range rowset.Rows {
		cells := make([]string, len(row))
		for i, value := range row {
			cells[i] = value.String()
		}
		out.Rows = append(out.Rows, cells)
	}
	return out, nil
}
