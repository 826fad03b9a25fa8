package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer   = http.StatusInternalServerError
	ErrStatusClient           = http.StatusBadRequest
	ErrStatusNoPermission     = http.StatusForbidden
	ErrStatusMethodNotAllowed = http.StatusMethodNotAllowed
	ErrStatusBadGateway       = http.StatusBadGateway
	ErrStatusTooManyRequests  = http.StatusTooManyRequests
)

var (
	ErrInternalServer        = errors.New("Internal server error")
	ErrInvalidRequestData    = errors.New("Invalid request data")
	ErrInvalidSignature      = errors.New("Invalid signature")
	ErrForbiddenOrigin       = errors.New("Forbidden: Invalid Origin")
	ErrMethodNotAllowed      = errors.New("Method Not Allowed")
	ErrBadGateway            = errors.New("Bad gateway")
	ErrInvalidOrderReference = errors.New("Invalid order reference")
	ErrTooManyRequests       = errors.New("Too many requests")
)

var errorMap = map[error]int{
	ErrInternalServer:        ErrStatusInternalServer,
	ErrInvalidRequestData:    ErrStatusClient,
	ErrInvalidSignature:      ErrStatusClient,
	ErrForbiddenOrigin:       ErrStatusNoPermission,
	ErrMethodNotAllowed:      ErrStatusMethodNotAllowed,
	ErrBadGateway:            ErrStatusBadGateway,
	ErrInvalidOrderReference: ErrStatusClient,
	ErrTooManyRequests:       ErrStatusTooManyRequests,
}

// GetErrorStatusCode resolves wrapped errors too, falling back to 500.
func GetErrorStatusCode(err error) int {
	if errStatusCode, ok := errorMap[err]; ok {
		return errStatusCode
	}

	for known, errStatusCode := range errorMap {
		if errors.Is(err, known) {
			return errStatusCode
		}
	}

	return errorMap[ErrInternalServer]
}
