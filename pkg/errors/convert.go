package errors

import "net/http"

// codeMapping maps an error code to the HTTP status returned to clients.
var codeMapping = map[string]int{
	ErrInternal:           http.StatusInternalServerError,
	ErrNotFound:           http.StatusNotFound,
	ErrInvalidArgument:    http.StatusBadRequest,
	ErrUnauthenticated:    http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrConflict:           http.StatusConflict,
	ErrTimeout:            http.StatusGatewayTimeout,
	ErrNotImplemented:     http.StatusNotImplemented,
	ErrInvalidState:       http.StatusConflict,
	ErrInvalidContentType: http.StatusUnsupportedMediaType,
	ErrPayloadTooLarge:    http.StatusRequestEntityTooLarge,
	ErrAlreadyEntitled:    http.StatusConflict,
	ErrItemNotFound:       http.StatusNotFound,
}

// GetCodeMapping returns the HTTP status for the given error code.
// Unknown codes map to 500.
func GetCodeMapping(code string) int {
	if status, ok := codeMapping[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
