package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	MsgNoResponse   = "No response from server. Make sure the backend is running."
	MsgAuthRequired = "Authentication required"
)

// ErrMalformedResponse is returned when a response decodes but lacks the
// fields the caller needs, e.g. a login body without a token.
var ErrMalformedResponse = errors.New("unexpected response format")

// Result is the single shape every API call resolves to. The backend mixes
// {success, data, message} envelopes with bare payloads; Data is the
// envelope's data field when there is one and the whole body otherwise.
type Result struct {
	Success      bool
	Data         json.RawMessage
	Body         json.RawMessage
	Message      string
	StatusCode   int
	RequiresAuth bool
}

// Error is the error form of a failed Result.
type Error struct {
	Message      string
	StatusCode   int
	RequiresAuth bool
}

func (e *Error) Error() string {
	return e.Message
}

// Failure builds a failed Result that never reached the server.
func Failure(message string) Result {
	return Result{Message: message}
}

func authRequired() Result {
	return Result{Message: MsgAuthRequired, RequiresAuth: true}
}

// Err returns nil for a successful Result and an *Error otherwise.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return &Error{Message: r.Message, StatusCode: r.StatusCode, RequiresAuth: r.RequiresAuth}
}

// Decode unmarshals Data into v.
func (r Result) Decode(v interface{}) error {
	if len(bytes.TrimSpace(r.Data)) == 0 {
		return ErrMalformedResponse
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// DecodeAt unmarshals Data[key] into v when Data is an object carrying key,
// and the whole of Data otherwise.
func (r Result) DecodeAt(key string, v interface{}) error {
	if raw, ok := lookup(r.Data, key); ok {
		if err := json.Unmarshal(raw, v); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return nil
	}
	return r.Decode(v)
}

// lookup returns obj[key] when raw is a JSON object holding a non-null key.
func lookup(raw json.RawMessage, key string) (json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	v, ok := fields[key]
	if !ok || string(bytes.TrimSpace(v)) == "null" {
		return nil, false
	}
	return v, true
}

// normalize turns a raw HTTP response into a Result. A body whose "success"
// field is a boolean is an envelope; anything else is a bare payload and
// succeeds on a 2xx status.
func normalize(status int, body []byte, fallback string) Result {
	res := Result{StatusCode: status, Body: body, Data: body}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil && fields != nil {
		if raw, ok := fields["message"]; ok {
			_ = json.Unmarshal(raw, &res.Message)
		}

		var success bool
		if raw, ok := fields["success"]; ok && json.Unmarshal(raw, &success) == nil {
			res.Success = success && status < 400
			if data, ok := fields["data"]; ok {
				res.Data = data
			}
		} else {
			res.Success = status >= 200 && status < 300
		}
	} else {
		res.Success = status >= 200 && status < 300
	}

	if status == 401 {
		res.RequiresAuth = true
	}
	if !res.Success && res.Message == "" {
		res.Message = fallback
	}
	return res
}
