package calculator

import (
	"go-chi-calculator/internal/session"
	"go-chi-calculator/internal/tape"
)

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys and
// POST /calculator/evaluate.
type KeysRequest struct {
	Keys []string `json:"keys"` // raw key names, e.g. "7", "+", "clear-all"
}

// KeysResponse reports every step of a key sequence and the final display.
type KeysResponse struct {
	SessionID string         `json:"session_id,omitempty"`
	Steps     []session.Step `json:"steps"`
	Display   string         `json:"display"`
	State     string         `json:"state"`
	Error     string         `json:"error,omitempty"`
	Unknown   []string       `json:"unknown,omitempty"` // keys the keypad did not recognise
}

// TapeResponse is the JSON response for GET /calculator/tape.
type TapeResponse struct {
	Entries []tape.Entry `json:"entries"`
}

// KeyMessage is a client frame on the WebSocket stream.
type KeyMessage struct {
	Key string `json:"key"`
}

// DisplayMessage is a server frame on the WebSocket stream.
type DisplayMessage struct {
	Display string `json:"display"`
	State   string `json:"state"`
	Error   string `json:"error,omitempty"`
}
