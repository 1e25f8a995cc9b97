package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToHTTPStatus converts an error code into an HTTP status code.
func ToHTTPStatus(code string) int {
	return GetCodeMapping(code)
}

// ToHTTPError converts err into an echo HTTP error carrying an ErrorResponse.
// Internal errors never leak their cause to the client.
func ToHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	if echoErr, ok := err.(*echo.HTTPError); ok {
		return echoErr
	}

	var coded Error
	if As(err, &coded) {
		code := coded.Code()
		status := ToHTTPStatus(code)
		msg := err.Error()
		if r, ok := coded.(interface{ Reason() string }); ok {
			msg = r.Reason()
		}
		if status >= http.StatusInternalServerError {
			msg = http.StatusText(status)
		}
		return echo.NewHTTPError(status, ErrorResponse{Error: msg, Code: code})
	}

	return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{
		Error: http.StatusText(http.StatusInternalServerError),
		Code:  ErrInternal,
	})
}

// ToErrorResponse returns the JSON body for an echo HTTP error.
// Plain string messages get the code implied by the status.
func ToErrorResponse(he *echo.HTTPError) ErrorResponse {
	switch m := he.Message.(type) {
	case ErrorResponse:
		return m
	case string:
		return ErrorResponse{Error: m, Code: httpStatusToCode(he.Code)}
	case error:
		return ErrorResponse{Error: m.Error(), Code: httpStatusToCode(he.Code)}
	default:
		return ErrorResponse{Error: http.StatusText(he.Code), Code: httpStatusToCode(he.Code)}
	}
}

// FromHTTPError converts an echo HTTP error back into an AppError.
func FromHTTPError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return err
	}

	if echoErr, ok := err.(*echo.HTTPError); ok {
		code := httpStatusToCode(echoErr.Code)
		msg := "HTTP error"
		switch m := echoErr.Message.(type) {
		case string:
			msg = m
		case ErrorResponse:
			return NewAppError(m.Code, m.Error, nil)
		}
		return NewAppError(code, msg, nil)
	}

	return NewAppError(ErrInternal, err.Error(), err)
}

func httpStatusToCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrInvalidArgument
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnsupportedMediaType:
		return ErrInvalidContentType
	case http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge
	case http.StatusGatewayTimeout:
		return ErrTimeout
	case http.StatusNotImplemented:
		return ErrNotImplemented
	default:
		return ErrInternal
	}
}
