/*
 * Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package log provides the structured logger shared by all middleware components.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// LoggerKeyComponentName is the field key used to tag log lines with the emitting component.
const LoggerKeyComponentName = "component"

var (
	logger *Logger
	mu     sync.RWMutex
)

// Logger is a wrapper around a logrus entry.
type Logger struct {
	internal *logrus.Entry
}

// GetLogger returns the process-wide logger. A default info-level JSON logger is
// created on first use when Init has not been called.
func GetLogger() *Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = newLogger(logrus.InfoLevel, "json", os.Stdout)
	}
	return logger
}

// Init initializes the logger with the given level, format ("json" or "text") and output.
func Init(logLevel, format string, out io.Writer) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}
	if out == nil {
		out = os.Stdout
	}

	mu.Lock()
	logger = newLogger(level, format, out)
	mu.Unlock()
	return nil
}

func newLogger(level logrus.Level, format string, out io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(level)
	if strings.EqualFold(format, "text") {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		base.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Logger{internal: logrus.NewEntry(base)}
}

// With creates a new logger instance with additional fields.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{internal: l.internal.WithFields(convertFields(fields))}
}

// IsDebugEnabled reports whether debug lines will be emitted.
func (l *Logger) IsDebugEnabled() bool {
	return l.internal.Logger.IsLevelEnabled(logrus.DebugLevel)
}

// Info logs an informational message with custom fields.
func (l *Logger) Info(msg string, fields ...Field) {
	l.internal.WithFields(convertFields(fields)).Info(msg)
}

// Debug logs a debug message with custom fields.
func (l *Logger) Debug(msg string, fields ...Field) {
	l.internal.WithFields(convertFields(fields)).Debug(msg)
}

// Warn logs a warning message with custom fields.
func (l *Logger) Warn(msg string, fields ...Field) {
	l.internal.WithFields(convertFields(fields)).Warn(msg)
}

// Error logs an error message with custom fields.
func (l *Logger) Error(msg string, fields ...Field) {
	l.internal.WithFields(convertFields(fields)).Error(msg)
}

// Fatal logs a fatal message with custom fields and exits the application.
func (l *Logger) Fatal(msg string, fields ...Field) {
	l.internal.WithFields(convertFields(fields)).Fatal(msg)
}

func convertFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, field := range fields {
		if err, ok := field.Value.(error); ok && field.Key == logrus.ErrorKey {
			out[field.Key] = err.Error()
			continue
		}
		out[field.Key] = field.Value
	}
	return out
}
