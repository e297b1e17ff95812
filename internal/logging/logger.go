package logging

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	globalLogger *zap.SugaredLogger
)

// Init builds the process logger. Production runs at info level, everything
// else at debug; both write JSON with ISO8601 timestamps.
func Init(appEnv string) error {
	cfg := zap.NewDevelopmentConfig()
	if appEnv == "production" {
		cfg = zap.NewProductionConfig()
	}
	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	mu.Lock()
	globalLogger = logger.Sugar()
	mu.Unlock()
	return nil
}

// GetLogger returns the process logger, falling back to a production logger
// when Init has not run (tests, one-off commands)
func GetLogger() *zap.SugaredLogger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		logger, _ := zap.NewProduction(zap.AddCallerSkip(1))
		globalLogger = logger.Sugar()
	}
	return globalLogger
}

// Close flushes buffered entries
func Close() error {
	mu.RLock()
	defer mu.RUnlock()
	if globalLogger == nil {
		return nil
	}
	return globalLogger.Sync()
}

func Info(message string, fields ...interface{})  { GetLogger().Infow(message, fields...) }
func Debug(message string, fields ...interface{}) { GetLogger().Debugw(message, fields...) }
func Warn(message string, fields ...interface{})  { GetLogger().Warnw(message, fields...) }
func Error(message string, fields ...interface{}) { GetLogger().Errorw(message, fields...) }

// Fatal logs and exits with status 1
func Fatal(message string, fields ...interface{}) {
	GetLogger().Fatalw(message, fields...)
	os.Exit(1)
}

// WithRequest returns a logger carrying the request's correlation fields
func WithRequest(requestID string, userID string, airportID string, endpoint string) *zap.SugaredLogger {
	return GetLogger().WithOptions(zap.AddCallerSkip(-1)).With(
		"request_id", requestID,
		"user_id", userID,
		"airport_id", airportID,
		"endpoint", endpoint,
	)
}
