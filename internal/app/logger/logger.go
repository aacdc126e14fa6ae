package logger

import (
	"net/http"

	"go.uber.org/zap"
)

// Logger
var Log *zap.Logger = zap.NewNop()

// Response writer remembering status and size of the response
type LoggingResponseWriter struct {
	http.ResponseWriter
	ResponseStatus int
	ResponseSize   int
}

// Write
func (r *LoggingResponseWriter) Write(b []byte) (int, error) {
	if r.ResponseStatus == 0 {
		r.ResponseStatus = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.ResponseSize += size

	return size, err
}

// WriteHeader
func (r *LoggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.ResponseStatus = statusCode
}

// Status written so far, 200 if the handler wrote nothing
func (r *LoggingResponseWriter) Status() int {
	if r.ResponseStatus == 0 {
		return http.StatusOK
	}
	return r.ResponseStatus
}

// Initialize Log
func Initialize(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	config := zap.NewProductionConfig()
	config.Level = lvl
	zLogger, err := config.Build()
	if err != nil {
		return err
	}

	Log = zLogger
	return nil
}
