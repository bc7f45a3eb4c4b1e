// Package tools exposes the story scaffold as MCP tools and resources.
//
// Every tool runs inside the scaffold session lock, so a call observes and
// leaves a consistent database even when several clients share one server.
package tools
