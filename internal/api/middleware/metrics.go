package middleware

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
)

// routeUnmatched метка для запросов, не попавших ни в один маршрут
const routeUnmatched = "unmatched"

// MetricsMiddleware пишет длительность и статус HTTP запросов в Prometheus
// Маршрут берется из шаблона mux, чтобы номера мест не раздували кардинальность
func MetricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snoop := httpsnoop.CaptureMetrics(next, w, r)
			m.ObserveHTTPRequest(r.Method, routeTemplate(r), snoop.Code, snoop.Duration)
		})
	}
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return routeUnmatched
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return routeUnmatched
	}
	return tpl
}
