package log

import (
	"errors"
	"fmt"
	stdlog "log"
	"time"
)

var errEmptyLoggerName = errors.New("cannot have empty logger name")

// Info takes a pointer sublogger struct and string and writes to its output
func Info(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.levels.Info {
		return
	}
	sl.write(logger.InfoHeader, data)
}

// Infoln takes a pointer sublogger struct and interface and writes to its output
func Infoln(sl *SubLogger, v ...interface{}) {
	Info(sl, fmt.Sprintln(v...))
}

// Infof takes a pointer sublogger struct, string and interface formats and writes to its output
func Infof(sl *SubLogger, data string, v ...interface{}) {
	Info(sl, fmt.Sprintf(data, v...))
}

// Debug takes a pointer sublogger struct and string and writes to its output
func Debug(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.levels.Debug {
		return
	}
	sl.write(logger.DebugHeader, data)
}

// Debugln takes a pointer sublogger struct and interface and writes to its output
func Debugln(sl *SubLogger, v ...interface{}) {
	Debug(sl, fmt.Sprintln(v...))
}

// Debugf takes a pointer sublogger struct, string and interface formats and writes to its output
func Debugf(sl *SubLogger, data string, v ...interface{}) {
	Debug(sl, fmt.Sprintf(data, v...))
}

// Warn takes a pointer sublogger struct and string and writes to its output
func Warn(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.levels.Warn {
		return
	}
	sl.write(logger.WarnHeader, data)
}

// Warnln takes a pointer sublogger struct and interface and writes to its output
func Warnln(sl *SubLogger, v ...interface{}) {
	Warn(sl, fmt.Sprintln(v...))
}

// Warnf takes a pointer sublogger struct, string and interface formats and writes to its output
func Warnf(sl *SubLogger, data string, v ...interface{}) {
	Warn(sl, fmt.Sprintf(data, v...))
}

// Error takes a pointer sublogger struct and string and writes to its output
func Error(sl *SubLogger, data string) {
	mu.RLock()
	defer mu.RUnlock()
	if sl == nil || !sl.levels.Error {
		return
	}
	sl.write(logger.ErrorHeader, data)
}

// Errorln takes a pointer sublogger struct and interface and writes to its output
func Errorln(sl *SubLogger, v ...interface{}) {
	Error(sl, fmt.Sprintln(v...))
}

// Errorf takes a pointer sublogger struct, string and interface formats and writes to its output
func Errorf(sl *SubLogger, data string, v ...interface{}) {
	Error(sl, fmt.Sprintf(data, v...))
}

func (sl *SubLogger) write(header, data string) {
	line := fmt.Sprintf("%s%s%s%s%s%s%s",
		time.Now().Format(logger.Timestamp),
		logger.Spacer,
		header,
		logger.Spacer,
		sl.name,
		logger.Spacer,
		data)
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line += "\n"
	}
	if _, err := sl.output.Write([]byte(line)); err != nil {
		stdlog.Printf("Logger write error: %v\n", err)
	}
}
