// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.

// Package logger is a small structured JSON logger for diagnostic,
// non-hot-path use by cmd/spdmctl; the SPDM core packages do not log.
// No package-level singleton: every
// long-lived object that wants to log takes a Logger explicitly, since the
// design notes call for no process-wide mutable state.
package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Field is a structured logging key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

func String(key, value string) Field      { return Field{Key: key, Value: value} }
func Int(key string, value int) Field     { return Field{Key: key, Value: value} }
func Uint32(key string, value uint32) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field   { return Field{Key: key, Value: value} }

func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Logger is the structured logging surface used by cmd/spdmctl.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	WithContext(ctx context.Context) Logger
	WithFields(fields ...Field) Logger
	SetLevel(level Level)
}

// Nop is a Logger that discards everything; cmd/spdmctl starts with it
// until a Logger is configured, so callers never nil-check.
type Nop struct{}

func (Nop) Debug(string, ...Field)             {}
func (Nop) Info(string, ...Field)              {}
func (Nop) Warn(string, ...Field)              {}
func (Nop) Error(string, ...Field)             {}
func (Nop) WithContext(context.Context) Logger { return Nop{} }
func (Nop) WithFields(...Field) Logger         { return Nop{} }
func (Nop) SetLevel(Level)                     {}

// JSONLogger writes one JSON object per line to an io.Writer.
type JSONLogger struct {
	mu         sync.RWMutex
	level      Level
	output     io.Writer
	ctx        context.Context
	baseFields []Field
	timeFormat string
}

// New creates a JSONLogger writing at the given minimum level.
func New(output io.Writer, level Level) *JSONLogger {
	return &JSONLogger{level: level, output: output, timeFormat: time.RFC3339}
}

// NewDefault creates a logger to stdout, honoring SPDM_LOG_LEVEL.
func NewDefault() *JSONLogger {
	level := InfoLevel
	switch strings.ToUpper(os.Getenv("SPDM_LOG_LEVEL")) {
	case "DEBUG":
		level = DebugLevel
	case "WARN":
		level = WarnLevel
	case "ERROR":
		level = ErrorLevel
	}
	return New(os.Stdout, level)
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields...) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields...) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields...) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields...) }

func (l *JSONLogger) WithContext(ctx context.Context) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &JSONLogger{level: l.level, output: l.output, ctx: ctx, baseFields: l.baseFields, timeFormat: l.timeFormat}
}

func (l *JSONLogger) WithFields(fields ...Field) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	merged := make([]Field, 0, len(l.baseFields)+len(fields))
	merged = append(merged, l.baseFields...)
	merged = append(merged, fields...)
	return &JSONLogger{level: l.level, output: l.output, ctx: l.ctx, baseFields: merged, timeFormat: l.timeFormat}
}

func (l *JSONLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if level < l.level {
		return
	}

	entry := make(map[string]interface{}, 4+len(l.baseFields)+len(fields))
	entry["timestamp"] = time.Now().Format(l.timeFormat)
	entry["level"] = level.String()
	entry["message"] = msg

	if l.ctx != nil {
		if connID := l.ctx.Value(contextIDKey{}); connID != nil {
			entry["context_id"] = connID
		}
	}
	for _, f := range l.baseFields {
		entry[f.Key] = f.Value
	}
	for _, f := range fields {
		entry[f.Key] = f.Value
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.output, `{"level":"ERROR","message":"failed to marshal log entry","error":%q}`+"\n", err.Error())
		return
	}
	fmt.Fprintf(l.output, "%s\n", data)
}

// contextIDKey is the context.Context key the demo transport binds a
// connection identifier to, for correlated log lines.
type contextIDKey struct{}

// WithContextID returns a context carrying id for later log correlation.
func WithContextID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextIDKey{}, id)
}
