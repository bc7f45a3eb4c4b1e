package tools

import (
	"context"
	"fmt"

	"github.com/louisbranch/pipdeck/internal/services/story/scaffold"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Module is a named group of tools or resources.
type Module struct {
	Name     string
	Register func(*mcp.Server)
}

// Modules returns every tool and resource module of the host. Snapshot tools
// are included only when a store is configured.
func (h *Host) Modules() []Module {
	modules := []Module{
		{Name: "story-tools", Register: h.registerStoryTools},
		{Name: "character-tools", Register: h.registerCharacterTools},
		{Name: "card-tools", Register: h.registerCardTools},
		{Name: "challenge-tools", Register: h.registerChallengeTools},
		{Name: "data-tools", Register: h.registerDataTools},
		{Name: "story-resources", Register: h.registerResources},
	}
	if h.store != nil {
		modules = append(modules, Module{Name: "snapshot-tools", Register: h.registerSnapshotTools})
	}
	return modules
}

// Register adds every module to server.
func (h *Host) Register(server *mcp.Server) {
	for _, module := range h.Modules() {
		module.Register(server)
	}
}

func addTool[I, O any](server *mcp.Server, h *Host, mode access, name, description string, fn func(context.Context, *scaffold.Scaffold, I) (O, error)) {
	mcp.AddTool(server, &mcp.Tool{Name: name, Description: description}, handle(h, name, mode, fn))
}

// DeleteResult reports a removed row.
type DeleteResult struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}

func deleted(id int64) DeleteResult {
	return DeleteResult{ID: id, Deleted: true}
}

func entityURI(kind string, id int64) string {
	return fmt.Sprintf("story://%s/%d", kind, id)
}
