// Package logger собирает zap-логгер для проверок калькулятора.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StepPrefix отмечает успешно выполненный шаг сценария
const StepPrefix = "✓ "

// New создает логгер с уровнем из конфигурации (DEBUG, INFO, WARN, ERROR).
// json=false дает человекочитаемый вывод для локального запуска.
func New(level string, json bool) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.DisableStacktrace = true
	if !json {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log, nil
}

// ParseLevel переводит строковый уровень в zapcore.Level
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "", "INFO":
		return zapcore.InfoLevel, nil
	case "WARN", "WARNING":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// Named возвращает логгер с полем context, как у компонентов сценария
func Named(log *zap.Logger, component string) *zap.Logger {
	return log.Named(component).With(zap.String("context", component))
}

// Step пишет информационное сообщение об успешном шаге
func Step(log *zap.Logger, msg string, fields ...zap.Field) {
	log.Info(StepPrefix+msg, append(fields, zap.Bool("step", true))...)
}
