package log

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Global vars related to the logger package
var (
	subLoggers = map[string]*SubLogger{}

	Global     *SubLogger
	Backtester *SubLogger
	Portfolio  *SubLogger
	Sweep      *SubLogger
	Report     *SubLogger
)

var errSubLoggerAlreadyRegistered = errors.New("sub logger already registered")

func init() {
	Global = registerSubLogger("LOG")
	Backtester = registerSubLogger("BACKTESTER")
	Portfolio = registerSubLogger("PORTFOLIO")
	Sweep = registerSubLogger("SWEEP")
	Report = registerSubLogger("REPORT")
}

func registerSubLogger(name string) *SubLogger {
	sl := &SubLogger{
		name:   name,
		levels: splitLevel("INFO|WARN|ERROR"),
		output: defaultOutput,
	}
	mu.Lock()
	subLoggers[name] = sl
	mu.Unlock()
	return sl
}

// NewSubLogger allows for a new sub logger to be registered
func NewSubLogger(name string) (*SubLogger, error) {
	if name == "" {
		return nil, fmt.Errorf("cannot register sub logger %w", errEmptyLoggerName)
	}
	name = strings.ToUpper(name)
	mu.RLock()
	_, ok := subLoggers[name]
	mu.RUnlock()
	if ok {
		return nil, fmt.Errorf("'%v' %w", name, errSubLoggerAlreadyRegistered)
	}
	return registerSubLogger(name), nil
}

// SetLevels overrides the sub logger levels
func (sl *SubLogger) SetLevels(newLevels Levels) {
	mu.Lock()
	sl.levels = newLevels
	mu.Unlock()
}

// GetLevels returns the current sub logger levels
func (sl *SubLogger) GetLevels() Levels {
	mu.RLock()
	defer mu.RUnlock()
	return sl.levels
}

// SetOutput overrides the sub logger output
func (sl *SubLogger) SetOutput(o io.Writer) {
	mu.Lock()
	sl.output = o
	mu.Unlock()
}

// SetGlobalLogLevels sets the level string eg "INFO|WARN|ERROR" across every
// registered sub logger
func SetGlobalLogLevels(level string) {
	levels := splitLevel(level)
	mu.Lock()
	for x := range subLoggers {
		subLoggers[x].levels = levels
	}
	mu.Unlock()
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch level := enabledLevels[x]; level {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}
