// Package packet implements the Yeelight wire format: one JSON object per
// line, either a request, a response tagged by the id it answers, or an
// unsolicited notification.
//
// Classification of incoming frames follows a single rule: a frame with an
// `id` field is a response, a frame without one is a notification.  All
// downstream routing depends on this.
package packet

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Leixb/yeelight/common"
)

// Request is an outgoing command frame
type Request struct {
	ID     uint64        `json:"id"`
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

// Encode serializes the request as a single newline terminated frame.
// Encoding never fails for well-formed parameter values; callers are
// responsible for passing values the wire format accepts.
func (r *Request) Encode() []byte {
	if r.Params == nil {
		r.Params = []interface{}{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		// Parameters are strings and integers by construction, so this is
		// unreachable with values produced by this library.
		common.Log.Panicf(`failed encoding request: %v`, err)
	}
	return append(data, '\r', '\n')
}

// ErrorDetail carries the code and message of an error response
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Notification is an unsolicited state change pushed by the bulb, carrying
// the changed properties and their new values
type Notification struct {
	Method string
	Params map[string]string
}

// Frame is one decoded incoming frame, either a response or a notification
type Frame struct {
	// ID is only meaningful when IsResponse() is true
	ID     uint64
	Result []string
	Err    *ErrorDetail

	notification *Notification
	response     bool
}

// IsResponse reports whether the frame carried an id field
func (f *Frame) IsResponse() bool {
	return f.response
}

// Notification returns the notification payload, or nil for response frames
func (f *Frame) Notification() *Notification {
	return f.notification
}

type rawFrame struct {
	ID     *uint64           `json:"id"`
	Method string            `json:"method"`
	Result []json.RawMessage `json:"result"`
	Error  *ErrorDetail      `json:"error"`
	Params json.RawMessage   `json:"params"`
}

// Decode parses one newline-delimited frame.  It returns
// common.ErrMalformedFrame (wrapped) when the bytes are not valid JSON or
// match neither the response nor the notification shape.
func Decode(data []byte) (*Frame, error) {
	data = bytes.TrimRight(data, "\r\n")

	var raw rawFrame
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedFrame, err)
	}

	if raw.ID != nil {
		if raw.Result == nil && raw.Error == nil {
			return nil, fmt.Errorf("%w: response %d has neither result nor error", common.ErrMalformedFrame, *raw.ID)
		}
		frame := &Frame{ID: *raw.ID, Err: raw.Error, response: true}
		for _, v := range raw.Result {
			frame.Result = append(frame.Result, rawToString(v))
		}
		return frame, nil
	}

	if raw.Method == `` || raw.Params == nil {
		return nil, fmt.Errorf("%w: notification lacks method or params", common.ErrMalformedFrame)
	}
	params := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw.Params, &params); err != nil {
		return nil, fmt.Errorf("%w: notification params: %v", common.ErrMalformedFrame, err)
	}
	notification := &Notification{
		Method: raw.Method,
		Params: make(map[string]string, len(params)),
	}
	for k, v := range params {
		notification.Params[k] = rawToString(v)
	}
	return &Frame{notification: notification}, nil
}

// rawToString renders a scalar JSON value as the string the caller sees.
// Bulbs report most values as strings but use bare numbers in some firmware
// versions.
func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
