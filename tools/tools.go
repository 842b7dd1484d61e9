//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are run via `go run` or installed globally and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools:
//
// mockgen - regenerates internal/mocks from internal/core
//   Run: go generate ./internal/mocks
//   Version: go.uber.org/mock v0.6.0 (matches go.mod)
//
// Air - Live reload for the API server (cmd/jobhunt)
//   Install: go install github.com/air-verse/air@v1.63.0
//   Docs: https://github.com/air-verse/air
