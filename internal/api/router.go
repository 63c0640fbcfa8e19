package api

import (
	"fmt"
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
)

// Handlers обработчики маршрутов API
type Handlers struct {
	ListSlots    http.HandlerFunc
	GetOccupancy http.HandlerFunc
	GetSlot      http.HandlerFunc
	CreateSlot   http.HandlerFunc
	SeedSlots    http.HandlerFunc
	SweepSlots   http.HandlerFunc
	BookSlot     http.HandlerFunc
	OccupySlot   http.HandlerFunc
	VacantSlot   http.HandlerFunc
	CancelSlot   http.HandlerFunc
	UpdateSlot   http.HandlerFunc
	DeleteSlot   http.HandlerFunc
	ListLogs     http.HandlerFunc
	ClearLogs    http.HandlerFunc
}

// Options параметры роутера
// Metrics и MetricsHandler могут быть nil, тогда HTTP метрики не пишутся и не отдаются
type Options struct {
	JWTSecret      []byte
	Metrics        *metrics.Metrics
	MetricsPath    string
	MetricsHandler http.Handler
	AllowedOrigins []string
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NewRouter собирает маршруты /api/v1 и оборачивает их в RecoveryHandler и CORS
func NewRouter(h Handlers, opts Options, logger Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))

	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))
	}

	// Metrics endpoint (публичный, без аутентификации)
	if opts.MetricsHandler != nil && opts.MetricsPath != "" {
		r.Handle(opts.MetricsPath, opts.MetricsHandler).Methods(http.MethodGet)
		logger.Info("Prometheus metrics endpoint exposed at %s", opts.MetricsPath)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth(opts.JWTSecret))

	// Статические пути регистрируются раньше /slots/{slotNumber}
	api.HandleFunc("/slots", h.ListSlots).Methods(http.MethodGet)
	api.HandleFunc("/slots/occupancy", h.GetOccupancy).Methods(http.MethodGet)
	api.Handle("/slots", adminOnly(h.CreateSlot)).Methods(http.MethodPost)
	api.Handle("/slots/default", adminOnly(h.SeedSlots)).Methods(http.MethodPost)
	api.Handle("/slots/sweep", adminOnly(h.SweepSlots)).Methods(http.MethodPost)

	// --- Жизненный цикл места ---
	api.HandleFunc("/slots/book/{slotNumber}", h.BookSlot).Methods(http.MethodPost)
	api.HandleFunc("/slots/occupy/{slotNumber}", h.OccupySlot).Methods(http.MethodPost)
	api.HandleFunc("/slots/vacant/{slotNumber}", h.VacantSlot).Methods(http.MethodPost)
	api.HandleFunc("/slots/cancel/{slotNumber}", h.CancelSlot).Methods(http.MethodPost)

	api.HandleFunc("/slots/{slotNumber}", h.GetSlot).Methods(http.MethodGet)
	api.Handle("/slots/{slotNumber}", adminOnly(h.UpdateSlot)).Methods(http.MethodPut)
	api.Handle("/slots/{slotNumber}", adminOnly(h.DeleteSlot)).Methods(http.MethodDelete)

	// --- Журнал действий ---
	api.HandleFunc("/logs", h.ListLogs).Methods(http.MethodGet)
	api.Handle("/logs", adminOnly(h.ClearLogs)).Methods(http.MethodDelete)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(origins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Authorization", "Content-Type", middleware.HeaderRequestID}),
	)

	recovery := gorillaHandlers.RecoveryHandler(
		gorillaHandlers.RecoveryLogger(recoveryLogger{logger: logger}),
	)

	return recovery(cors(r))
}

func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.AdminOnly(h)
}

// recoveryLogger пишет перехваченные паники в логгер сервиса
type recoveryLogger struct {
	logger Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("panic recovered: %s", fmt.Sprint(v...))
}
