// Package util provides logging, traffic counters and peer identifiers shared
// by both roles.
package util

import (
	"fmt"

	"github.com/pterm/pterm"
)

func init() {
	pterm.DefaultLogger.ShowTime = true
	pterm.DefaultLogger.TimeFormat = "15:04:05.000"
	pterm.DefaultLogger.MaxWidth = 1000
}

// Leveled logging functions backed by pterm's default logger (stderr).

func LogDebug(format string, args ...interface{}) {
	pterm.DefaultLogger.Debug(fmt.Sprintf(format, args...))
}

func LogInfo(format string, args ...interface{}) {
	pterm.DefaultLogger.Info(fmt.Sprintf(format, args...))
}

func LogSuccess(format string, args ...interface{}) {
	pterm.DefaultLogger.Info(fmt.Sprintf(format, args...))
}

func LogWarning(format string, args ...interface{}) {
	pterm.DefaultLogger.Warn(fmt.Sprintf(format, args...))
}

func LogError(format string, args ...interface{}) {
	pterm.DefaultLogger.Error(fmt.Sprintf(format, args...))
}

// PeerLogger logs on behalf of one connection. Every message is prefixed
// with the connection's tag as 8 hex digits.
type PeerLogger uint32

func (p PeerLogger) prefix(format string) string {
	return fmt.Sprintf("[%08x] ", uint32(p)) + format
}

func (p PeerLogger) Debug(format string, args ...interface{}) { LogDebug(p.prefix(format), args...) }
func (p PeerLogger) Info(format string, args ...interface{})  { LogInfo(p.prefix(format), args...) }
func (p PeerLogger) Success(format string, args ...interface{}) {
	LogSuccess(p.prefix(format), args...)
}
func (p PeerLogger) Warning(format string, args ...interface{}) {
	LogWarning(p.prefix(format), args...)
}

// EnableDebug configures the logger to show debug messages.
func EnableDebug() {
	pterm.DefaultLogger.Level = pterm.LogLevelDebug
}

// Silence turns logging off. Tests use it to keep per-packet events out of
// the output.
func Silence() {
	pterm.DefaultLogger.Level = pterm.LogLevelDisabled
}
