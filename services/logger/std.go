package logsvc

import (
	"log"

	"github.com/trezcool/sajili/core"
)

// StdLogger writes app events to a standard library logger.
type StdLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger, conf *core.Config) *StdLogger {
	return &StdLogger{std: std, debug: conf.Debug}
}

func (l StdLogger) Debug(msg string, args ...interface{}) {
	if l.debug {
		l.print("DEBUG: "+msg, args)
	}
}

func (l StdLogger) Info(msg string, args ...interface{}) {
	l.print("INFO: "+msg, args)
}

func (l StdLogger) Error(msg string, args ...interface{}) {
	l.print("ERROR: "+msg, args)
}

func (l StdLogger) Fatal(msg string, args ...interface{}) {
	l.print("FATAL: "+msg, args)
	l.std.Fatal(msg)
}

func (l StdLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}
