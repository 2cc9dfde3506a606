// Package logutil provides logging utilities.
//
// All loggers returned by GetLogger share one output, which can be changed
// at any time with SetOutput, including after the loggers have been created.
// Logging is discarded until an output is set.
package logutil

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	outMutex sync.Mutex
	out      io.Writer = io.Discard
	level              = zerolog.InfoLevel
)

type switchWriter struct{}

func (switchWriter) Write(p []byte) (int, error) {
	outMutex.Lock()
	defer outMutex.Unlock()
	return out.Write(p)
}

// GetLogger gets a logger for a component. The component name is recorded in
// the "component" field of every event.
func GetLogger(component string) zerolog.Logger {
	return zerolog.New(switchWriter{}).Level(zerolog.TraceLevel).
		Hook(levelHook{}).
		With().Timestamp().Str("component", component).Logger()
}

// The level is checked at log time, so that SetLevel also applies to
// existing loggers.
type levelHook struct{}

func (levelHook) Run(e *zerolog.Event, l zerolog.Level, _ string) {
	if l < currentLevel() {
		e.Discard()
	}
}

func currentLevel() zerolog.Level {
	outMutex.Lock()
	defer outMutex.Unlock()
	return level
}

// SetOutput redirects the output of all loggers obtained with GetLogger.
func SetOutput(newout io.Writer) {
	outMutex.Lock()
	defer outMutex.Unlock()
	out = newout
}

// SetOutputFile redirects the output of all loggers obtained with GetLogger to
// the named file, truncating it. An empty name discards the output. The
// returned function closes the file.
func SetOutputFile(fname string) (func() error, error) {
	if fname == "" {
		SetOutput(io.Discard)
		return func() error { return nil }, nil
	}
	file, err := os.OpenFile(fname, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	SetOutput(file)
	return func() error {
		SetOutput(io.Discard)
		return file.Close()
	}, nil
}

// SetLevel sets the minimal level of events that are written.
func SetLevel(l zerolog.Level) {
	outMutex.Lock()
	defer outMutex.Unlock()
	level = l
}
