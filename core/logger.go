package core

// Logger is any service that can log app events.
// Implementations may inspect `args` for errors or a student.Student to enrich reports.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
