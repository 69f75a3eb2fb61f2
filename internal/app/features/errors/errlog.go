// internal/app/features/errors/errlog.go
package errors

import (
	"net/http"

	"github.com/dalemusser/labsite/internal/app/system/dberr"
	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with user-facing error pages so
// handlers can report a failure in one call. The log line carries the
// internal detail; the rendered page only shows userMsg.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger on top of the given zap logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}

// LogServerError logs an internal failure and renders the generic error
// page with a 500 status.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Error(logMsg, e.fields(r, err)...)
	w.WriteHeader(http.StatusInternalServerError)
	RenderError(w, r, userMsg, backURL)
}

// LogBadRequest logs a client error and renders the generic error page
// with a 400 status.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg, e.fields(r, err)...)
	w.WriteHeader(http.StatusBadRequest)
	RenderError(w, r, userMsg, backURL)
}

// LogNotFound logs a missing-resource request and renders the generic
// error page with a 404 status.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	e.log.Warn(logMsg, e.fields(r, err)...)
	w.WriteHeader(http.StatusNotFound)
	RenderError(w, r, userMsg, backURL)
}

// LogDBError logs a database failure and renders an error page whose
// status and message reflect the error class. An unavailable database gets
// a 503 and a retry message, a permissions failure a 500 that points at
// server configuration. Anything else falls through to LogServerError
// with userMsg.
func (e *ErrorLogger) LogDBError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg, backURL string) {
	switch {
	case dberr.IsUnavailable(err):
		e.log.Error(logMsg, e.fields(r, err)...)
		w.WriteHeader(http.StatusServiceUnavailable)
		RenderError(w, r, "The service is temporarily unavailable. Please try again in a moment.", backURL)
	case dberr.IsAccessDenied(err):
		e.log.Error(logMsg, e.fields(r, err)...)
		w.WriteHeader(http.StatusInternalServerError)
		RenderError(w, r, "The server could not reach its database. Please contact the site administrator if this persists.", backURL)
	default:
		e.LogServerError(w, r, logMsg, err, userMsg, backURL)
	}
}
