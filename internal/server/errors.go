// Package server exposes the recruiting tools over the Model Context
// Protocol. Tool failures never propagate through the RPC layer: every
// handler converts them into a JSON error envelope.
package server

import "errors"

var (
	// ErrMissingDeps is returned when the server is built without dependencies.
	ErrMissingDeps = errors.New("server: dependencies are required")
	// ErrMissingLogger is returned when no logger is provided.
	ErrMissingLogger = errors.New("server: logger is required")
)

// Availability messages reported when a capability was disabled at startup.
const (
	msgRetrievalUnavailable = "LlamaCloud service is not available. Check configuration and API key."
	msgAIUnavailable        = "AI service is not available. Check configuration and API key."
)
