package log

import (
	"io"
	"os"
	"sync"
)

const (
	timestampFormat = "02/01/2006 15:04:05"
	spacer          = " | "
)

var (
	logger = Logger{
		Timestamp:   timestampFormat,
		Spacer:      spacer,
		InfoHeader:  "[INFO]",
		WarnHeader:  "[WARN]",
		DebugHeader: "[DEBUG]",
		ErrorHeader: "[ERROR]",
	}

	// read/write mutex protecting sublogger state
	mu = &sync.RWMutex{}

	defaultOutput io.Writer = os.Stdout
)

// Logger holds the shared formatting settings for all subloggers
type Logger struct {
	Timestamp   string
	Spacer      string
	InfoHeader  string
	WarnHeader  string
	DebugHeader string
	ErrorHeader string
}

// Levels flags for each sub logger type
type Levels struct {
	Info, Debug, Warn, Error bool
}

// SubLogger defines a sublogger for a specific subsystem, holding its own
// level flags and output destination
type SubLogger struct {
	name   string
	levels Levels
	output io.Writer
}
