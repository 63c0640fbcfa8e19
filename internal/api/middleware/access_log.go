package middleware

import (
	"net/http"

	"github.com/felixge/httpsnoop"
)

type Logger interface {
	Info(format string, v ...interface{})
}

// AccessLog пишет строку лога на каждый запрос с идентификатором из RequestID
// Ставится после RequestID
func AccessLog(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snoop := httpsnoop.CaptureMetrics(next, w, r)
			logger.Info("%s %s - status=%d, duration=%s, request_id=%s",
				r.Method, r.URL.Path, snoop.Code, snoop.Duration, GetRequestID(r.Context()))
		})
	}
}
