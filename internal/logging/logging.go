// Package logging adapts github.com/charmbracelet/log into the small
// structured-field interface the engine logs through, grounded on the
// teacher's internal/infrastructure/logging adapter. Unlike the teacher's
// HTTP-serving original, nothing here carries a context.Context or
// correlation id: the engine has no request-scoped transport layer in
// this spec, so fields are supplied directly by the caller.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	cblog "github.com/charmbracelet/log"
)

// Logger is the structured logging surface the engine depends on.
// Field arguments are alternating key/value pairs, exactly like
// charmbracelet/log's own variadic logging methods.
type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	With(fields ...any) Logger
}

// Options configures a Logger backed by charmbracelet/log.
type Options struct {
	Writer     io.Writer
	Level      string
	TimeFormat string
	// HumanReadable selects the text formatter for interactive/terminal
	// use; false selects JSON, matching the teacher's HumanReadable flag.
	HumanReadable bool
	Component     string
}

type logger struct {
	base      *cblog.Logger
	component string
	fields    []any
}

// New builds a Logger from Options.
func New(opts Options) (Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	level := cblog.InfoLevel
	if opts.Level != "" {
		parsed, err := cblog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	formatter := cblog.JSONFormatter
	if opts.HumanReadable {
		formatter = cblog.TextFormatter
	}

	base := cblog.NewWithOptions(writer, cblog.Options{
		Level:           level,
		TimeFormat:      opts.TimeFormat,
		ReportTimestamp: true,
		Formatter:       formatter,
	})

	var fields []any
	if opts.Component != "" {
		fields = []any{"component", opts.Component}
	}

	return &logger{base: base, component: opts.Component, fields: fields}, nil
}

func (l *logger) Debug(msg string, fields ...any) { l.log(cblog.DebugLevel, msg, fields...) }
func (l *logger) Info(msg string, fields ...any)  { l.log(cblog.InfoLevel, msg, fields...) }
func (l *logger) Warn(msg string, fields ...any)  { l.log(cblog.WarnLevel, msg, fields...) }
func (l *logger) Error(msg string, fields ...any) { l.log(cblog.ErrorLevel, msg, fields...) }

func (l *logger) With(fields ...any) Logger {
	next := make([]any, 0, len(l.fields)+len(fields))
	next = append(next, l.fields...)
	next = append(next, fields...)
	return &logger{base: l.base, component: l.component, fields: next}
}

func (l *logger) log(level cblog.Level, msg string, fields ...any) {
	if l == nil || l.base == nil {
		return
	}
	payload := mergeFields(l.fields, fields)
	switch level {
	case cblog.DebugLevel:
		l.base.Debug(msg, payload...)
	case cblog.WarnLevel:
		l.base.Warn(msg, payload...)
	case cblog.ErrorLevel:
		l.base.Error(msg, payload...)
	default:
		l.base.Info(msg, payload...)
	}
}

// mergeFields unions base and additions keyed by field name, additions
// winning on conflict, with base's original ordering preserved and any new
// keys from additions appended in the order they first appear.
func mergeFields(base, additions []any) []any {
	store := make(map[string]any, len(base)+len(additions))
	order := make([]string, 0, len(base)+len(additions))

	add := func(key string, value any) {
		if _, exists := store[key]; !exists {
			order = append(order, key)
		}
		store[key] = value
	}

	process := func(values []any) {
		for i := 0; i+1 < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok || key == "" {
				continue
			}
			add(key, values[i+1])
		}
	}
	process(base)
	process(additions)

	out := make([]any, 0, len(order)*2)
	for _, key := range order {
		out = append(out, key, store[key])
	}
	return out
}

type noop struct{}

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}
func (n noop) With(...any) Logger { return n }

// NoOp returns a Logger that discards every entry, the default for
// packages that accept an injected Logger but aren't given one.
func NoOp() Logger {
	return noop{}
}
