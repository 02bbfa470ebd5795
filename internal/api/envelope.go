package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the backend's response wrapper. Every successful body is
// {data: T}, optionally with a message.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

var jsonNull = []byte("null")

// decodeData unwraps the envelope into out. A missing or null data field and
// any shape mismatch are typed errors; callers never receive a silent zero
// value. Pass a nil out to accept any body.
func decodeData(raw []byte, out any) error {
	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrEnvelope, err)
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, jsonNull) {
		return fmt.Errorf("%w: missing data field", ErrEnvelope)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrEnvelope, err)
	}
	return nil
}
