package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMegabytes = 10
	logFileMaxBackups       = 5
)

// NewLogger builds the process-wide logger: human-readable output on stderr,
// plus a size-rotated JSON file when a file path is configured.
func NewLogger(logFilePath string, logLevel string) (*zap.Logger, error) {
	parsedLevel, levelParseError := zapcore.ParseLevel(logLevel)
	if levelParseError != nil {
		parsedLevel = zapcore.InfoLevel
	}

	consoleEncoderConfiguration := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfiguration.EncodeLevel = zapcore.CapitalLevelEncoder
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleEncoderConfiguration),
		zapcore.Lock(os.Stderr),
		parsedLevel,
	)

	if logFilePath == "" {
		return zap.New(consoleCore), nil
	}

	rotatingFileWriter := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    logFileMaxSizeMegabytes,
		MaxBackups: logFileMaxBackups,
	}

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(rotatingFileWriter),
		parsedLevel,
	)

	return zap.New(zapcore.NewTee(consoleCore, fileCore)), nil
}
