package digistore

import (
	"fmt"
)

// ErrorKind values match the error codes used by the Digistore24 api.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrNotConnected
	ErrBadAPIKey
	ErrBadParameters
	ErrNotFound
	ErrPermissionDenied
	ErrBadServerResponse
	ErrTransport
	ErrBadHTTPStatus
	ErrBadAPICall
	ErrAPIKeyMissing
	ErrInternal
	ErrTooManyRequests
)

var kindNames = map[ErrorKind]string{
	ErrUnknown:           "unknown",
	ErrNotConnected:      "not_connected",
	ErrBadAPIKey:         "bad_api_key",
	ErrBadParameters:     "bad_parameters",
	ErrNotFound:          "not_found",
	ErrPermissionDenied:  "permission_denied",
	ErrBadServerResponse: "bad_server_response",
	ErrTransport:         "transport",
	ErrBadHTTPStatus:     "bad_http_status",
	ErrBadAPICall:        "bad_api_call",
	ErrAPIKeyMissing:     "api_key_missing",
	ErrInternal:          "internal",
	ErrTooManyRequests:   "too_many_requests",
}

var kindMessages = map[ErrorKind]string{
	ErrUnknown:           "Unknown error!",
	ErrNotConnected:      "No api key given - not connected to the Digistore24 server.",
	ErrBadAPIKey:         "Invalid connection parameters.",
	ErrBadParameters:     "Invalid parameters for function call %s.",
	ErrNotFound:          "Requested object not found",
	ErrPermissionDenied:  "Permission denied.",
	ErrBadServerResponse: "The Digistore24 server delivered an invalid response. (Technical information: %s)",
	ErrTransport:         "Http call error (%s)",
	ErrBadHTTPStatus:     "The Digistore24 server responded with an invalid http code (%d)",
	ErrBadAPICall:        "Invalid function call.",
	ErrAPIKeyMissing:     "Api key is missing.",
	ErrInternal:          "Internal error on Digistore side",
	ErrTooManyRequests:   "Too many requests to the server",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[ErrUnknown]
}

func kindFromCode(code int) ErrorKind {
	kind := ErrorKind(code)
	if _, ok := kindNames[kind]; !ok {
		return ErrUnknown
	}
	return kind
}

type APIError struct {
	Kind    ErrorKind
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("digistore24 %s: %s", e.Kind, e.Message)
}

// Is lets callers match on kind: errors.Is(err, &APIError{Kind: ErrTransport}).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind, args ...any) *APIError {
	msg := kindMessages[kind]
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Kind: kind, Code: int(kind), Message: msg}
}
