// Package core provides the application logic behind the window: the
// controller, the proxy table model, port selection and the tray menu.
package core

import (
	"fmt"
	"strings"

	"appscan-traffic-recorder/internal/debuglog"
	"appscan-traffic-recorder/internal/logpane"
)

const logPrefix = "LogPane"

// Log adds a message to the log pane and mirrors it to the process log.
// Entries filtered out of the pane are still written to the process log.
func (ac *AppController) Log(level logpane.Level, format string, args ...interface{}) {
	ac.logMessage(level, fmt.Sprintf(format, args...))
}

// logMessage has the shape of services.Handlers.OnLog.
func (ac *AppController) logMessage(level logpane.Level, msg string) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	switch level {
	case logpane.LevelError:
		debuglog.Errorf(logPrefix, "%s", msg)
	case logpane.LevelDebug:
		debuglog.Debugf(logPrefix, "%s", msg)
	default:
		debuglog.Infof(logPrefix, "%s", msg)
	}
	ac.LogBuffer.Append(level, msg)
}
