package api

import (
	"encoding/json"
	"time"
)

// v0 contains the public wire types every diagnostic endpoint returns.

// Wire is the full serialized reply: the structured payload plus a JSON
// Schema describing it.
type Wire struct {
	StructuredContent StructuredContent `json:"structuredContent"`
	OutputSchema      json.RawMessage   `json:"outputSchema"`
}

type StructuredContent struct {
	Response Response `json:"response"`
}

// Response is the canonical {code, message, data} payload. Data is always
// present, possibly empty, never null.
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    []json.RawMessage `json:"data"`
}

// ToolInfo describes one registered diagnostic endpoint.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// TakesDevice marks tools accepting an optional device path parameter.
	TakesDevice bool `json:"takes_device,omitempty"`
}

type HeartbeatResponse struct {
	Time    time.Time `json:"time"`
	Host    string    `json:"host"`
	Version string    `json:"version"`
}
