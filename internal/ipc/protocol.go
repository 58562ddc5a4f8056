package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/sidedock/internal/geometry"
	"github.com/1broseidon/sidedock/internal/shell"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload        CommandType = "RELOAD"
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandGetMonitors   CommandType = "GET_MONITORS"
	CommandListPanels    CommandType = "LIST_PANELS"
	CommandPanelShow     CommandType = "PANEL_SHOW"
	CommandPanelHide     CommandType = "PANEL_HIDE"
	CommandPanelToggle   CommandType = "PANEL_TOGGLE"
	CommandSidebarToggle CommandType = "SIDEBAR_TOGGLE"
	CommandForgetBounds  CommandType = "FORGET_BOUNDS"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	TargetClass   string       `json:"target_class"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	DaemonRunning bool         `json:"daemon_running"`
	Window        shell.Status `json:"window"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int           `json:"id"`
	Name   string        `json:"name"`
	Bounds geometry.Rect `json:"bounds"`
	Usable geometry.Rect `json:"usable"`
	// Host marks the monitor the attached window lives on.
	Host bool `json:"host,omitempty"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

type PanelInfo struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Hotkey string `json:"hotkey,omitempty"`
	Open   bool   `json:"open,omitempty"`
}

// PanelsData represents the data returned by LIST_PANELS
type PanelsData struct {
	Panels       []PanelInfo `json:"panels"`
	DefaultPanel string      `json:"default_panel"`
	SidebarOpen  bool        `json:"sidebar_open"`
}

// PanelPayload names the panel for PANEL_SHOW and PANEL_TOGGLE.
type PanelPayload struct {
	Name string `json:"name"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
