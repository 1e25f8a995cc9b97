package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger implements gorm's logger.Interface on top of zap.
type GormLogger struct {
	logger *zap.Logger
	// LogLevel is the minimum gorm level written.
	LogLevel gormlogger.LogLevel
	// SlowThreshold marks queries above it as slow. Zero disables it.
	SlowThreshold time.Duration
	// IgnoreRecordNotFoundError drops gorm.ErrRecordNotFound from the error log.
	IgnoreRecordNotFoundError bool
}

// NewGormLogger returns a gorm logger writing to logger.
func NewGormLogger(logger *zap.Logger, level gormlogger.LogLevel, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{
		logger:                    logger.With(zap.String("component", "gorm")),
		LogLevel:                  level,
		SlowThreshold:             slowThreshold,
		IgnoreRecordNotFoundError: true,
	}
}

// GormLevel maps a log level name onto gorm's levels.
func GormLevel(name string) gormlogger.LogLevel {
	switch name {
	case "debug", "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "silent":
		return gormlogger.Silent
	default:
		return gormlogger.Error
	}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copied := *g
	copied.LogLevel = level
	return &copied
}

func (g *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.LogLevel >= gormlogger.Info {
		g.logger.Sugar().Infof(msg, data...)
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.LogLevel >= gormlogger.Warn {
		g.logger.Sugar().Warnf(msg, data...)
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.LogLevel >= gormlogger.Error {
		g.logger.Sugar().Errorf(msg, data...)
	}
}

// Trace logs one executed statement with its latency and affected rows.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && g.LogLevel >= gormlogger.Error &&
		(!g.IgnoreRecordNotFoundError || !errors.Is(err, gorm.ErrRecordNotFound)):
		sql, rows := fc()
		g.logger.Error("GORM query failed",
			zap.Error(err),
			zap.Duration("elapsed", elapsed),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
		)
	case g.SlowThreshold != 0 && elapsed > g.SlowThreshold && g.LogLevel >= gormlogger.Warn:
		sql, rows := fc()
		g.logger.Warn("GORM slow query",
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", g.SlowThreshold),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
		)
	case g.LogLevel >= gormlogger.Info:
		sql, rows := fc()
		g.logger.Debug("GORM query",
			zap.Duration("elapsed", elapsed),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
		)
	}
}
