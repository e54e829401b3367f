/*
Copyright 2024 The CTrack Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level       string
	Filename    string
	SendToFile  bool
	Development bool
	MaxSize     int
}

var (
	once    sync.Once
	logger  *zap.Logger
	sugared *zap.SugaredLogger
)

// Init builds the process-wide logger. It is a singleton, repeated calls are
// no-ops.
func Init(cfg *Config) {
	once.Do(func() {
		logger = newLogger(cfg)
		sugared = logger.Sugar()
	})
}

func newLogger(cfg *Config) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.DisableStacktrace = true
	zapCfg.OutputPaths = []string{"stdout"}
	if cfg.SendToFile && cfg.Filename != "" {
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, cfg.Filename)
	}

	l, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	return l
}

func getLogger() *zap.Logger {
	if logger == nil {
		Init(&Config{Level: "debug", Development: true})
	}
	return logger
}

// Logger returns the structured logger.
func Logger() *zap.Logger {
	return getLogger()
}

// SugaredLogger returns the sugared logger handed down into services.
func SugaredLogger() *zap.SugaredLogger {
	getLogger()
	return sugared
}

func Debugf(format string, args ...interface{}) {
	SugaredLogger().Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	SugaredLogger().Infof(format, args...)
}

func Info(args ...interface{}) {
	SugaredLogger().Info(args...)
}

func Warnf(format string, args ...interface{}) {
	SugaredLogger().Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	SugaredLogger().Errorf(format, args...)
}

func Error(args ...interface{}) {
	SugaredLogger().Error(args...)
}

func Fatal(args ...interface{}) {
	SugaredLogger().Fatal(args...)
}

func Fatalf(format string, args ...interface{}) {
	SugaredLogger().Fatalf(format, args...)
}

func Panicf(format string, args ...interface{}) {
	SugaredLogger().Panicf(format, args...)
}

func DPanic(args ...interface{}) {
	SugaredLogger().DPanic(args...)
}
