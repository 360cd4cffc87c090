package client

import (
	"bytes"
	"encoding/json"
)

// errorBody covers the error shapes the backend emits:
//
//	{"detail": "Incorrect username or password"}
//	{"detail": [{"loc": ["body", "password"], "msg": "Password too short"}]}
//	{"message": "..."} / {"error": "..."}
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// decodeError turns a non-2xx body into an *APIError. A top-level list of
// field errors is accepted as well as one under "detail".
func decodeError(status int, body []byte) *APIError {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return newAPIError(status, nil, "")
	}

	var fields []FieldError
	if body[0] == '[' {
		if err := json.Unmarshal(body, &fields); err == nil {
			return newAPIError(status, fields, "")
		}
		return newAPIError(status, nil, "")
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return newAPIError(status, nil, "")
	}

	var detail string
	if len(eb.Detail) > 0 {
		if err := json.Unmarshal(eb.Detail, &detail); err != nil {
			_ = json.Unmarshal(eb.Detail, &fields)
		}
	}

	msg := detail
	if msg == "" {
		msg = eb.Message
	}
	if msg == "" {
		msg = eb.Error
	}
	return newAPIError(status, fields, msg)
}
