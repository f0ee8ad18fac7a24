package base

import (
	"fmt"
	"log"
)

// Logger defines an interface for writing log messages. The merge engine
// never calls Fatalf itself -- that method exists for callers that want to
// plug in their own process-wide logger without wrapping it.
type Logger interface {
	Infof(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// DefaultLogger logs to the Go stdlib log package.
type DefaultLogger struct{}

// Infof implements Logger.
func (DefaultLogger) Infof(format string, args ...interface{}) {
	_ = log.Output(2, fmt.Sprintf(format, args...))
}

// Fatalf implements Logger.
func (DefaultLogger) Fatalf(format string, args ...interface{}) {
	log.Output(2, fmt.Sprintf(format, args...))
	panic(fmt.Sprintf(format, args...))
}
