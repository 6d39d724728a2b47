package types

import "encoding/json"

// Envelope is the uniform response wrapper for every feedback endpoint.
// Clients branch on Success rather than on the HTTP status alone.
type Envelope struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
}

// RawEnvelope mirrors Envelope with Data left undecoded, for API clients.
type RawEnvelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Details string          `json:"details,omitempty"`
}

// SuccessResponse wraps data in a successful envelope.
func SuccessResponse(data interface{}, message string) Envelope {
	return Envelope{Success: true, Data: data, Message: message}
}

// ListResponse wraps a feedback list, reporting its length in Count.
func ListResponse(items []*Feedback) Envelope {
	if items == nil {
		items = []*Feedback{}
	}
	count := len(items)
	return Envelope{Success: true, Count: &count, Data: items}
}

// ErrorResponse builds a failed envelope.
func ErrorResponse(code, message, details string) Envelope {
	return Envelope{Success: false, Error: code, Message: message, Details: details}
}
