package logger

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Level orders log labels from most to least severe.
type Level int32

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

const (
	errorLabel = "[ERROR] "
	warnLabel  = "[WARN ] "
	infoLabel  = "[INFO ] "
	debugLabel = "[DEBUG] "
)

var (
	std   = log.New(os.Stderr, "", log.LstdFlags)
	level atomic.Int32
)

func init() {
	level.Store(int32(LevelInfo))
}

// SetLevel drops messages less severe than l.
func SetLevel(l Level) {
	level.Store(int32(l))
}

// SetOutput redirects log output, which defaults to stderr.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// mylog prepends the level string to the logger's Printf when l is enabled.
// Arguments are handled in the manner of [fmt.Printf].
func mylog(l Level, label string, format string, args ...interface{}) {
	if Level(level.Load()) < l {
		return
	}
	std.Printf(label+format, args...)
}

// Error prints to the logger, adding an error label.
// Arguments are handled in the manner of [fmt.Printf].
func Error(format string, args ...interface{}) {
	mylog(LevelError, errorLabel, format, args...)
}

// Warn prints to the logger, adding a warn label.
// Arguments are handled in the manner of [fmt.Printf].
func Warn(format string, args ...interface{}) {
	mylog(LevelWarn, warnLabel, format, args...)
}

// Info prints to the logger, adding an info label.
// Arguments are handled in the manner of [fmt.Printf].
func Info(format string, args ...interface{}) {
	mylog(LevelInfo, infoLabel, format, args...)
}

// Debug prints to the logger, adding a debug label.
// Arguments are handled in the manner of [fmt.Printf].
func Debug(format string, args ...interface{}) {
	mylog(LevelDebug, debugLabel, format, args...)
}
