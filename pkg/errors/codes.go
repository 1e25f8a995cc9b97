package errors

// Common error codes shared by every layer of the service.
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrForbidden       = "FORBIDDEN"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"

	// Payment workflow codes
	ErrInvalidState       = "INVALID_STATE"
	ErrInvalidContentType = "INVALID_CONTENT_TYPE"
	ErrPayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	ErrAlreadyEntitled    = "ALREADY_ENTITLED"
	ErrItemNotFound       = "ITEM_NOT_FOUND"
)
