package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/pipdeck/internal/platform/errors"
	"github.com/louisbranch/pipdeck/internal/services/story/scaffold"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	rawDataURI = "story://raw"
	gamesURI   = "story://games"
	cardsURI   = "story://cards"

	characterURIPrefix = "story://character/"
	challengeURIPrefix = "story://challenge/"
)

func (h *Host) registerResources(server *mcp.Server) {
	server.AddResource(&mcp.Resource{
		URI:         rawDataURI,
		Name:        "raw_data",
		Title:       "Raw data",
		Description: "The whole database as pipe-delimited table blocks",
		MIMEType:    "text/plain",
	}, h.readRawData)
	server.AddResource(&mcp.Resource{
		URI:         gamesURI,
		Name:        "games",
		Description: "Every game",
		MIMEType:    "application/json",
	}, h.jsonResource(func(s *scaffold.Scaffold, _ string) (any, error) {
		return h.listGames(context.Background(), s, GameListInput{})
	}))
	server.AddResource(&mcp.Resource{
		URI:         cardsURI,
		Name:        "cards",
		Description: "The card catalog",
		MIMEType:    "application/json",
	}, h.jsonResource(func(s *scaffold.Scaffold, _ string) (any, error) {
		return h.listCards(context.Background(), s, CardListInput{})
	}))
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: characterURIPrefix + "{id}",
		Name:        "character",
		Description: "A character sheet with owner and inventory",
		MIMEType:    "application/json",
	}, h.jsonResource(func(s *scaffold.Scaffold, uri string) (any, error) {
		id, err := parseResourceID(uri, characterURIPrefix)
		if err != nil {
			return nil, err
		}
		return sheetFor(s, id)
	}))
	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: challengeURIPrefix + "{id}",
		Name:        "challenge",
		Description: "A challenge with its pips and played count",
		MIMEType:    "application/json",
	}, h.jsonResource(func(s *scaffold.Scaffold, uri string) (any, error) {
		id, err := parseResourceID(uri, challengeURIPrefix)
		if err != nil {
			return nil, err
		}
		return detailFor(s, id)
	}))
}

func (h *Host) readRawData(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	var text string
	if err := h.session.View(func(s *scaffold.Scaffold) error {
		text = s.RawData()
		return nil
	}); err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: rawDataURI, MIMEType: "text/plain", Text: text}},
	}, nil
}

// jsonResource renders the value built by fn under the read lock.
func (h *Host) jsonResource(fn func(s *scaffold.Scaffold, uri string) (any, error)) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
			return nil, fmt.Errorf("resource uri is required")
		}
		uri := req.Params.URI
		_, span := h.tracer.Start(ctx, "mcp.resource "+uri)
		defer span.End()

		var payload any
		if err := h.session.View(func(s *scaffold.Scaffold) error {
			var err error
			payload, err = fn(s, uri)
			return err
		}); err != nil {
			span.RecordError(err)
			if apperrors.CodeOf(err) == apperrors.CodeUnknown {
				return nil, err
			}
			return nil, h.toolError(err)
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", uri, err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: "application/json", Text: string(data)}},
		}, nil
	}
}

func parseResourceID(uri, prefix string) (int64, error) {
	raw, ok := strings.CutPrefix(uri, prefix)
	if !ok {
		return 0, mcp.ResourceNotFoundError(uri)
	}
	id, err := strconv.ParseInt(strings.Trim(raw, "/"), 10, 64)
	if err != nil || id <= 0 {
		return 0, mcp.ResourceNotFoundError(uri)
	}
	return id, nil
}
