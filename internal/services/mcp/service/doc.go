// Package service hosts the story tools over an MCP transport.
package service
