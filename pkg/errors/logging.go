package errors

import (
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func errorFields(err error, extra []zap.Field) []zap.Field {
	fields := make([]zap.Field, 0, len(extra)+2)
	fields = append(fields, zap.Error(err), zap.String("error_code", CodeOf(err)))
	return append(fields, extra...)
}

// LogError writes err as a structured log entry including its code.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if err == nil {
		return
	}
	logger.Error(msg, errorFields(err, fields)...)
}

// LogRequestError logs err at error level when it maps to a 5xx status and at
// debug level otherwise. It returns the status err maps to.
func LogRequestError(logger *zap.Logger, err error, msg string, fields ...zap.Field) int {
	if err == nil {
		return http.StatusOK
	}

	status := ToHTTPError(err).Code
	level := zapcore.DebugLevel
	if status >= http.StatusInternalServerError {
		level = zapcore.ErrorLevel
	}

	fields = append(fields, zap.Int("status", status))
	logger.Log(level, msg, errorFields(err, fields)...)
	return status
}
