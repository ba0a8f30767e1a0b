package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrAuthenticationFailed is returned when the server rejects the admin credentials.
var ErrAuthenticationFailed = errors.New("Failed to authenticate admin user")

const defaultErrorMessage = "Something went wrong while processing your request."

// FieldError is a validation failure reported for one request field.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServerError is any non-2xx response other than a failed login. It carries
// the server's error payload {code, message, data}.
type ServerError struct {
	Status  int                   `json:"-"`
	Code    int                   `json:"code"`
	Message string                `json:"message"`
	Data    map[string]FieldError `json:"data"`
}

func (e *ServerError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if len(e.Data) > 0 {
		fields := make([]string, 0, len(e.Data))
		for k := range e.Data {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		for i, k := range fields {
			if i == 0 {
				b.WriteString(" ")
			} else {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s (%s)", k, e.Data[k].Code, e.Data[k].Message)
		}
	}
	return b.String()
}

// parseError builds a ServerError from a failed response body. Bodies that
// are not an error payload keep the default message.
func parseError(status int, body []byte) *ServerError {
	e := &ServerError{Status: status}
	var payload struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Code = payload.Code
		e.Message = payload.Message
		var data map[string]FieldError
		if json.Unmarshal(payload.Data, &data) == nil {
			e.Data = data
		}
	}
	if e.Code == 0 {
		e.Code = status
	}
	if e.Message == "" {
		e.Message = defaultErrorMessage
	}
	if status >= http.StatusInternalServerError && e.Message == defaultErrorMessage {
		e.Message = fmt.Sprintf("%s (status %d)", defaultErrorMessage, status)
	}
	return e
}
