// Package debuglog wraps the standard logger with levels that can be raised or
// lowered through the APPSCAN_TR_DEBUG environment variable.
package debuglog

import (
	"fmt"
	"log"
	"os"
	"strings"
)

type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelVerbose
	LevelTrace
)

const envKey = "APPSCAN_TR_DEBUG"

var GlobalLevel = ParseLevel(os.Getenv(envKey))

// ParseLevel maps a level name to a Level. Unknown or empty input means LevelInfo.
func ParseLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return LevelTrace
	case "verbose", "debug":
		return LevelVerbose
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "off", "none":
		return LevelOff
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "OFF"
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelVerbose:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return fmt.Sprintf("Level(%d)", uint8(l))
	}
}

// Enabled reports whether messages at level are currently written.
func Enabled(level Level) bool {
	return level != LevelOff && level <= GlobalLevel
}

// Log writes "[prefix] message" to the standard logger when level is enabled.
func Log(prefix string, level Level, format string, args ...interface{}) {
	if !Enabled(level) {
		return
	}
	message := fmt.Sprintf(format, args...)
	if prefix != "" {
		log.Printf("[%s] %s", prefix, message)
	} else {
		log.Print(message)
	}
}

func Errorf(prefix, format string, args ...interface{}) { Log(prefix, LevelError, format, args...) }
func Warnf(prefix, format string, args ...interface{})  { Log(prefix, LevelWarn, format, args...) }
func Infof(prefix, format string, args ...interface{})  { Log(prefix, LevelInfo, format, args...) }
func Debugf(prefix, format string, args ...interface{}) { Log(prefix, LevelVerbose, format, args...) }

// Fragment logs a possibly large text body, keeping only its head and tail
// when it is longer than 2*maxChars.
func Fragment(prefix string, level Level, description, text string, maxChars int) {
	if !Enabled(level) {
		return
	}
	n := len(text)
	if n <= maxChars*2 {
		Log(prefix, level, "%s (len=%d): %s", description, n, text)
		return
	}
	Log(prefix, level, "%s (len=%d): first %d chars: %s", description, n, maxChars, text[:maxChars])
	Log(prefix, level, "%s (len=%d): last %d chars: %s", description, n, maxChars, text[n-maxChars:])
}
