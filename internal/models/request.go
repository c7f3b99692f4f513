package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

type CreateOrderRequest struct {
	FileURL  string        `json:"fileUrl" binding:"required"`
	FileName string        `json:"fileName"`
	Details  *OrderDetails `json:"details" binding:"required"`
}

type ChatRequest struct {
	// Message is kept raw so non-string values are coerced instead of rejected.
	Message json.RawMessage `json:"message" swaggertype:"string"`
	// History is kept raw: anything that is not an array is treated as empty.
	History json.RawMessage `json:"history,omitempty"`
}

// MessageText returns the trimmed message. Strings are used as is, other
// truthy values (numbers, true, objects, arrays) as their JSON text, and
// falsy ones (null, false, 0, "") as empty.
func (r ChatRequest) MessageText() string {
	raw := bytes.TrimSpace(r.Message)
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}
	switch string(raw) {
	case "null", "false":
		return ""
	}
	var n float64
	if json.Unmarshal(raw, &n) == nil && n == 0 {
		return ""
	}
	return string(raw)
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
