// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package log

import (
	"context"
	"log/slog"

	luxlog "github.com/luxfi/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZap builds a development-mode zap-backed Logger, for cmd/airlock
// and other standalone entrypoints. Test code should prefer
// NewNoOpLogger.
func NewZap(level zapcore.Level) (Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{z: zl}, nil
}

// zapLogger implements the luxfi/log.Logger interface directly over a
// *zap.Logger, following the same shape as the no-op implementation it
// sits beside (log/noop.go's delegate to luxfi/log.NewNoOpLogger).
type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) With(ctx ...interface{}) Logger {
	return &zapLogger{z: l.z.Sugar().With(ctx...).Desugar()}
}
func (l *zapLogger) New(ctx ...interface{}) Logger { return l.With(ctx...) }

func (l *zapLogger) Log(level slog.Level, msg string, ctx ...interface{}) {
	l.z.Sugar().With(ctx...).Log(zapLevel(level), msg)
}

func (l *zapLogger) Trace(msg string, ctx ...interface{}) { l.z.Sugar().Debugw(msg, ctx...) }
func (l *zapLogger) Debug(msg string, ctx ...interface{}) { l.z.Sugar().Debugw(msg, ctx...) }
func (l *zapLogger) Info(msg string, ctx ...interface{})  { l.z.Sugar().Infow(msg, ctx...) }
func (l *zapLogger) Warn(msg string, ctx ...interface{})  { l.z.Sugar().Warnw(msg, ctx...) }
func (l *zapLogger) Error(msg string, ctx ...interface{}) { l.z.Sugar().Errorw(msg, ctx...) }
func (l *zapLogger) Crit(msg string, ctx ...interface{})  { l.z.Sugar().Errorw(msg, ctx...) }

func (l *zapLogger) WriteLog(level slog.Level, msg string, attrs ...any) {
	l.Log(level, msg, attrs...)
}

func (l *zapLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.z.Core().Enabled(zapLevel(level))
}

func (l *zapLogger) Handler() slog.Handler { return nil }

func (l *zapLogger) Fatal(msg string, fields ...zap.Field) { l.z.Fatal(msg, fields...) }
func (l *zapLogger) Verbo(msg string, fields ...zap.Field) { l.z.Debug(msg, fields...) }

func (l *zapLogger) WithFields(fields ...zap.Field) Logger {
	return &zapLogger{z: l.z.With(fields...)}
}

func (l *zapLogger) WithOptions(opts ...zap.Option) Logger {
	return &zapLogger{z: l.z.WithOptions(opts...)}
}

func (l *zapLogger) SetLevel(level slog.Level)        {}
func (l *zapLogger) GetLevel() slog.Level             { return slog.LevelInfo }
func (l *zapLogger) EnabledLevel(lvl slog.Level) bool { return true }

func (l *zapLogger) StopOnPanic() {}
func (l *zapLogger) RecoverAndPanic(f func()) {
	defer l.z.Sync()
	f()
}
func (l *zapLogger) RecoverAndExit(f, exit func()) {
	defer exit()
	f()
}
func (l *zapLogger) Stop() { _ = l.z.Sync() }

func (l *zapLogger) Write(p []byte) (n int, err error) {
	l.z.Info(string(p))
	return len(p), nil
}

func zapLevel(level slog.Level) zapcore.Level {
	switch {
	case level >= slog.LevelError:
		return zapcore.ErrorLevel
	case level >= slog.LevelWarn:
		return zapcore.WarnLevel
	case level >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

var _ luxlog.Logger = (*zapLogger)(nil)
