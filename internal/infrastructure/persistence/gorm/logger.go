package gorm

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// zapWriter routes GORM's printf-style log lines into zap
type zapWriter struct {
	logger *zap.Logger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	w.logger.Info(fmt.Sprintf(format, args...))
}

// NewLogger builds a GORM logger backed by zap. level follows the app log
// level names; GORM is one notch quieter than the app so "info" only shows
// slow queries and errors.
func NewLogger(logger *zap.Logger, level string, slowThreshold time.Duration) gormlogger.Interface {
	logLevel := gormlogger.Silent
	switch level {
	case "debug":
		logLevel = gormlogger.Info
	case "info":
		logLevel = gormlogger.Warn
	case "warn", "error":
		logLevel = gormlogger.Error
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	return gormlogger.New(
		zapWriter{logger: logger.Named("gorm")},
		gormlogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
