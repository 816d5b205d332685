package services

// LogHandler is the logging surface used across the service. Implementations
// may mirror records into the document store for later inspection.
type LogHandler interface {
	Debug(message string)
	Info(message string)
	Warn(message string)
	Error(message string, err error)
}
