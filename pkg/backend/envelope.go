package backend

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrMalformedResponse means the top-level response was not a usable envelope.
	ErrMalformedResponse = errors.New("malformed backend response")
	// ErrUnsuccessful means the envelope carried a falsy success flag.
	ErrUnsuccessful = errors.New("backend reported failure")
)

// Envelope is the decoded `{ success, body | message }` wrapper every endpoint returns.
type Envelope struct {
	// HasSuccess is false when the response carried no success flag at all.
	HasSuccess bool
	Success    bool
	Message    string
	Rows       []gjson.Result
	// Raw is the undecoded rows array, used for fingerprinting.
	Raw string
}

// ParseEnvelope reads an envelope. success may be a JSON bool or the string
// "true". Rows come from body, or from message when message is an array (the
// payments endpoint does this).
func ParseEnvelope(body string) (Envelope, error) {
	var env Envelope
	if !gjson.Valid(body) {
		return env, ErrMalformedResponse
	}
	root := gjson.Parse(body)
	if !root.IsObject() {
		return env, ErrMalformedResponse
	}

	if s := root.Get("success"); s.Exists() {
		env.HasSuccess = true
		env.Success = truthy(s)
	}

	rows := root.Get("body")
	msg := root.Get("message")
	switch {
	case rows.IsArray():
		env.Rows = rows.Array()
		env.Raw = rows.Raw
		if msg.Type == gjson.String {
			env.Message = msg.Str
		}
	case msg.IsArray():
		env.Rows = msg.Array()
		env.Raw = msg.Raw
	default:
		if msg.Exists() {
			env.Message = msg.String()
		} else if rows.Type == gjson.String {
			env.Message = rows.Str
		}
	}
	return env, nil
}

// OK reports whether the envelope should be treated as a success for a
// response with the given HTTP status. A missing flag defers to the status.
func (e Envelope) OK(status int) bool {
	if e.HasSuccess {
		return e.Success
	}
	return status >= 200 && status < 300
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.True:
		return true
	case gjson.String:
		return strings.EqualFold(strings.TrimSpace(r.Str), "true")
	case gjson.Number:
		return r.Num != 0
	default:
		return false
	}
}
