// Copyright © by the dns64perf authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

// Package log configures the process-wide zap logger.
package log

import (
	"errors"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the log destinations and verbosity.
type Config struct {
	Stdout     bool   // mirror log lines to stdout
	File       string // rotating log file path, empty disables the file sink
	Debug      bool   // enable debug level
	MaxSizeMB  int    // size limit of a single log file
	MaxBackups int    // rotated files kept
}

var (
	Logger = zap.NewNop()
	Sugar  = Logger.Sugar()
)

// Init replaces the package loggers according to config. At least one
// destination must be enabled.
func Init(config Config) error {
	var wss []zapcore.WriteSyncer
	if config.File != "" {
		wss = append(wss, zapcore.AddSync(&lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
		}))
	}
	if config.Stdout {
		wss = append(wss, zapcore.AddSync(os.Stdout))
	}
	if len(wss) == 0 {
		return errors.New("write syncer needed")
	}

	level := zapcore.InfoLevel
	if config.Debug {
		level = zapcore.DebugLevel
	}

	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "C",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	})

	Logger = zap.New(zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(wss...), level), zap.AddCaller())
	Sugar = Logger.Sugar()

	return nil
}
