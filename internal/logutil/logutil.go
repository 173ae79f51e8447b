// Copyright 2025 The dgb Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logutil owns the process-wide zap logger: console output plus an
// optional size-rotated log file.
package logutil

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger setup.
type Config struct {
	// Level is the minimum level emitted ("debug", "info", "warn", "error").
	Level string
	// Filename enables file output with rotation when non-empty.
	Filename string
	// MaxSizeMB is the rotation threshold per log file (default 64).
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept (default 3).
	MaxBackups int
}

var global atomic.Pointer[zap.Logger]

func init() {
	logger, _ := zap.NewDevelopment()
	global.Store(logger)
}

// Setup replaces the global logger according to cfg.
func Setup(cfg Config) error {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level),
	}
	if cfg.Filename != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 64
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level))
	}

	global.Store(zap.New(zapcore.NewTee(cores...), zap.AddCaller()))
	return nil
}

// GetGlobalLogger returns the current global logger.
func GetGlobalLogger() *zap.Logger {
	return global.Load()
}

// Sync flushes buffered log entries.
func Sync() {
	_ = global.Load().Sync()
}

func Debug(msg string, fields ...zap.Field) {
	global.Load().WithOptions(zap.AddCallerSkip(1)).Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	global.Load().WithOptions(zap.AddCallerSkip(1)).Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	global.Load().WithOptions(zap.AddCallerSkip(1)).Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	global.Load().WithOptions(zap.AddCallerSkip(1)).Error(msg, fields...)
}
