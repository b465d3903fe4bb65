package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logger writes one JSON object per line. A nil *Logger drops everything,
// so models built in tests need no logger.
type Logger struct {
	mu        sync.Mutex
	writer    io.Writer
	debugMode bool
	now       func() time.Time
}

func New(w io.Writer, debug bool) *Logger {
	return &Logger{writer: w, debugMode: debug, now: time.Now}
}

// Open appends to the log file at path, creating it if needed. The caller
// closes the returned file.
func Open(path string, debug bool) (*Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, debug), f, nil
}

// Discard returns a logger that drops every entry.
func Discard() *Logger {
	return New(io.Discard, false)
}

type LogEntry struct {
	Level     Level     `json:"level"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
}

func (l *Logger) Info(msg string, data any) {
	l.log(LevelInfo, msg, data)
}

func (l *Logger) Warn(msg string, data any) {
	l.log(LevelWarn, msg, data)
}

func (l *Logger) Error(msg string, data any) {
	l.log(LevelError, msg, data)
}

func (l *Logger) Debug(msg string, data any) {
	l.log(LevelDebug, msg, data)
}

func (l *Logger) log(level Level, msg string, data any) {
	if l == nil || (level == LevelDebug && !l.debugMode) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err, ok := data.(error); ok {
		// errors marshal to {} otherwise
		data = err.Error()
	}

	entry := LogEntry{
		Level:     level,
		Timestamp: l.now(),
		Message:   msg,
		Data:      data,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return
	}
	fmt.Fprintln(l.writer, string(line))
}
