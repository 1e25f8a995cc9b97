package logger

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
)

// NewEchoRequestLogger logs every request through zap.
// Health and metrics probes are skipped.
func NewEchoRequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/health" || p == "/metrics"
		},
		HandleError: true,

		LogLatency:       true,
		LogRemoteIP:      true,
		LogMethod:        true,
		LogURI:           true,
		LogRoutePath:     true,
		LogRequestID:     true,
		LogUserAgent:     true,
		LogStatus:        true,
		LogError:         true,
		LogContentLength: true,
		LogResponseSize:  true,
		LogHeaders:       []string{"Content-Type", "Authorization"},
		LogQueryParams:   []string{"state", "page", "limit", "buyer"},

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request.remote_ip", v.RemoteIP),
				zap.String("request.method", v.Method),
				zap.String("request.uri", v.URI),
				zap.String("request.route", v.RoutePath),
				zap.String("request.user_agent", v.UserAgent),
				zap.String("request.request_id", v.RequestID),
				zap.String("request.content_length", v.ContentLength),
				zap.Int("response.status", v.Status),
				zap.Duration("response.latency", v.Latency),
				zap.Int64("response.response_size", v.ResponseSize),
			}

			if len(v.Headers) > 0 {
				fields = append(fields, zap.Any("request.headers", maskHeaders(v.Headers)))
			}
			if len(v.QueryParams) > 0 {
				fields = append(fields, zap.Any("request.query_params", v.QueryParams))
			}

			switch {
			case v.Status >= 500:
				if v.Error != nil {
					fields = append(fields, zap.Error(v.Error))
				}
				logger.Error("Server error", fields...)
			case v.Status >= 400:
				if v.Error != nil {
					fields = append(fields, zap.Error(v.Error))
				}
				logger.Warn("Client error", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
			return nil
		},
	})
}

// maskHeaders keeps only the first value of each header and hides bearer tokens.
func maskHeaders(in map[string][]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, values := range in {
		if len(values) == 0 {
			continue
		}
		val := values[0]
		if http.CanonicalHeaderKey(k) == "Authorization" {
			if len(val) > 15 {
				val = val[:10] + "..." + val[len(val)-5:]
			} else {
				val = "[MASKED]"
			}
		}
		out[k] = val
	}
	return out
}

// WithEchoLogger routes echo's internal logger through zap.
func WithEchoLogger(e *echo.Echo, logger *zap.Logger) {
	e.Logger = NewEchoZapLogger(logger)
}

// EchoZapLogger adapts a zap logger to echo.Logger.
type EchoZapLogger struct {
	Logger *zap.Logger
	level  log.Lvl
}

// NewEchoZapLogger wraps logger.
func NewEchoZapLogger(logger *zap.Logger) *EchoZapLogger {
	return &EchoZapLogger{Logger: logger, level: log.INFO}
}

func (l *EchoZapLogger) Output() io.Writer { return &zapWriter{logger: l.Logger} }

// SetOutput is a no-op; zap owns its sinks.
func (l *EchoZapLogger) SetOutput(io.Writer) {}

func (l *EchoZapLogger) Level() log.Lvl     { return l.level }
func (l *EchoZapLogger) SetLevel(v log.Lvl) { l.level = v }
func (l *EchoZapLogger) SetHeader(string)   {}
func (l *EchoZapLogger) Prefix() string     { return "" }
func (l *EchoZapLogger) SetPrefix(string)   {}

func (l *EchoZapLogger) Print(i ...interface{})                 { l.Logger.Sugar().Info(i...) }
func (l *EchoZapLogger) Printf(format string, i ...interface{}) { l.Logger.Sugar().Infof(format, i...) }
func (l *EchoZapLogger) Printj(j log.JSON)                      { l.Logger.Info("json_message", zap.Any("json", j)) }

func (l *EchoZapLogger) Debug(i ...interface{})                 { l.Logger.Sugar().Debug(i...) }
func (l *EchoZapLogger) Debugf(format string, i ...interface{}) { l.Logger.Sugar().Debugf(format, i...) }
func (l *EchoZapLogger) Debugj(j log.JSON)                      { l.Logger.Debug("json_message", zap.Any("json", j)) }

func (l *EchoZapLogger) Info(i ...interface{})                 { l.Logger.Sugar().Info(i...) }
func (l *EchoZapLogger) Infof(format string, i ...interface{}) { l.Logger.Sugar().Infof(format, i...) }
func (l *EchoZapLogger) Infoj(j log.JSON)                      { l.Logger.Info("json_message", zap.Any("json", j)) }

func (l *EchoZapLogger) Warn(i ...interface{})                 { l.Logger.Sugar().Warn(i...) }
func (l *EchoZapLogger) Warnf(format string, i ...interface{}) { l.Logger.Sugar().Warnf(format, i...) }
func (l *EchoZapLogger) Warnj(j log.JSON)                      { l.Logger.Warn("json_message", zap.Any("json", j)) }

func (l *EchoZapLogger) Error(i ...interface{})                 { l.Logger.Sugar().Error(i...) }
func (l *EchoZapLogger) Errorf(format string, i ...interface{}) { l.Logger.Sugar().Errorf(format, i...) }
func (l *EchoZapLogger) Errorj(j log.JSON)                      { l.Logger.Error("json_message", zap.Any("json", j)) }

func (l *EchoZapLogger) Fatal(i ...interface{})                 { l.Logger.Sugar().Fatal(i...) }
func (l *EchoZapLogger) Fatalf(format string, i ...interface{}) { l.Logger.Sugar().Fatalf(format, i...) }
func (l *EchoZapLogger) Fatalj(j log.JSON)                      { l.Logger.Fatal("json_message", zap.Any("json", j)) }

func (l *EchoZapLogger) Panic(i ...interface{})                 { l.Logger.Sugar().Panic(i...) }
func (l *EchoZapLogger) Panicf(format string, i ...interface{}) { l.Logger.Sugar().Panicf(format, i...) }
func (l *EchoZapLogger) Panicj(j log.JSON)                      { l.Logger.Panic("json_message", zap.Any("json", j)) }

type zapWriter struct {
	logger *zap.Logger
}

func (w *zapWriter) Write(p []byte) (n int, err error) {
	w.logger.Info(string(p))
	return len(p), nil
}
