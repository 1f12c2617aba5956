package api

import (
	"encoding/json"

	"github.com/yantology/linkfy/internal/schema"
)

// MessageResponse is the envelope for mutation-only responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// DataResponse is the envelope for read responses: a validated value
// plus the server message.
type DataResponse[T any] struct {
	Data    T
	Message string
}

// dataEnvelope is the raw wire form of a read response. Pointer fields
// distinguish "absent" from zero so missing envelope members are
// reported as violations rather than silently coerced.
type dataEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Message *string         `json:"message"`
}

// decodeMessage parses and validates a {message} envelope.
func decodeMessage(body []byte) (*MessageResponse, error) {
	var raw struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, shapeError(schema.Issues{{Path: "message", Message: "malformed response body"}})
	}

	// Presence only: the backend is free to answer with "".
	var c schema.Check
	c.Required("message", raw.Message != nil)
	if err := c.Err(); err != nil {
		return nil, shapeError(err)
	}

	return &MessageResponse{Message: *raw.Message}, nil
}

// decodeData parses a {data, message} envelope and hands the data
// member to decode, which builds the typed value while collecting
// violations into c. The call fails atomically: one bad field rejects
// the whole response.
func decodeData[T any](body []byte, decode func(c *schema.Check, data json.RawMessage) T) (*DataResponse[T], error) {
	var raw dataEnvelope
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, shapeError(schema.Issues{{Path: "data", Message: "malformed response body"}})
	}

	var c schema.Check
	c.Required("message", raw.Message != nil)

	var value T
	if c.Required("data", raw.Data != nil) {
		value = decode(&c, raw.Data)
	}

	if err := c.Err(); err != nil {
		return nil, shapeError(err)
	}

	return &DataResponse[T]{Data: value, Message: *raw.Message}, nil
}
