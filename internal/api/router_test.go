package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/internal/service/activity"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots"
	"github.com/m04kA/SMC-ParkingService/internal/service/slots/models"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/slot_lifecycle"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/sweep_expired"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
)

var secret = []byte("router-test-secret")

var (
	admin = domain.Actor{ID: "admin", Name: "Admin", IsAdmin: true}
	alice = domain.Actor{ID: "u1", Name: "Alice"}
	bob   = domain.Actor{ID: "u2", Name: "Bob"}
	carol = domain.Actor{ID: "u3", Name: "Carol", IsDifferentlyAbled: true}
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
}

func newTestServer(t *testing.T, m *metrics.Metrics, metricsHandler http.Handler) *testServer {
	t.Helper()
	log := logger.NewDiscard()
	policy := domain.DefaultWaitPolicy()

	slotSvc := slots.NewService(memory.NewSlotRepository(), memory.NewTxManager(), log)
	activitySvc := activity.NewService(memory.NewActivityRepository(), m, log)
	sweeper := sweep_expired.NewUseCase(slotSvc, activitySvc, policy, m, log)
	lifecycle := slot_lifecycle.NewUseCase(slotSvc, sweeper, activitySvc, policy, log)

	h := NewHandlers(Services{
		Lifecycle: lifecycle,
		Slots:     slotSvc,
		Sweeper:   sweeper,
		Activity:  activitySvc,
	}, models.SeedRequest{Total: 120, Reserved: 24, Prefix: "PARKING"}, log)

	return &testServer{
		t: t,
		handler: NewRouter(h, Options{
			JWTSecret:      secret,
			Metrics:        m,
			MetricsPath:    "/metrics",
			MetricsHandler: metricsHandler,
		}, log),
	}
}

func token(t *testing.T, actor domain.Actor) string {
	t.Helper()
	claims := middleware.Claims{
		Name:               actor.Name,
		IsAdmin:            actor.IsAdmin,
		IsDifferentlyAbled: actor.IsDifferentlyAbled,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

// do выполняет запрос от имени actor, nil actor означает запрос без токена
func (s *testServer) do(method, path string, actor *domain.Actor, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if actor != nil {
		req.Header.Set("Authorization", "Bearer "+token(s.t, *actor))
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestRouter_Auth(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec, env := s.do(http.MethodGet, "/api/v1/slots", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, env.Error)

	rec, _ = s.do(http.MethodPost, "/api/v1/slots", &alice, models.CreateSlotRequest{SlotNumber: "A"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/v1/logs", &alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/slots", &alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
}

func TestRouter_SlotLifecycle(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec, env := s.do(http.MethodPost, "/api/v1/slots/default", &admin, models.SeedRequest{Total: 2, Reserved: 1, Prefix: "P"})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	var seeded models.SeedResponse
	require.NoError(t, json.Unmarshal(env.Data, &seeded))
	assert.Equal(t, int64(2), seeded.Created)

	rec, _ = s.do(http.MethodPost, "/api/v1/slots/book/P1", &alice, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code, "P1 is reserved")

	rec, _ = s.do(http.MethodPost, "/api/v1/slots/book/P1", &carol, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/v1/slots/book/P2", &alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var slot models.SlotResponse
	require.NoError(t, json.Unmarshal(env.Data, &slot))
	assert.Equal(t, "u1", slot.BookedByID)
	assert.NotNil(t, slot.BookedAt)

	rec, _ = s.do(http.MethodPost, "/api/v1/slots/book/P2", &bob, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/slots/occupy/P2", &bob, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/slots/occupy/P2", &alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/slots/vacant/P2", &bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/slots/vacant/P2", &alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/slots/cancel/P1", &admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "admin may cancel any booking")

	rec, env = s.do(http.MethodGet, "/api/v1/slots/occupancy", &alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var occupancy slot_lifecycle.OccupancyResponse
	require.NoError(t, json.Unmarshal(env.Data, &occupancy))
	assert.Equal(t, 0, occupancy.Booked)
	assert.Equal(t, 2, occupancy.Total)

	rec, env = s.do(http.MethodGet, "/api/v1/logs?slot=P2", &bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var logs struct {
		Logs []struct {
			ActivityType string `json:"activityType"`
		} `json:"logs"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &logs))
	require.Len(t, logs.Logs, 3)
	assert.Equal(t, "vacant", logs.Logs[0].ActivityType)

	rec, _ = s.do(http.MethodGet, "/api/v1/logs?limit=-1", &bob, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_AdminSlotManagement(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec, _ := s.do(http.MethodPost, "/api/v1/slots", &admin, models.CreateSlotRequest{SlotNumber: "A1", SlotType: "2 wheeler"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/slots", &admin, models.CreateSlotRequest{SlotNumber: "A1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/slots", &admin, map[string]string{"slotNumber": "A2", "colour": "red"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown fields are rejected")

	reserved := true
	rec, env := s.do(http.MethodPut, "/api/v1/slots/A1", &admin, models.UpdateSlotRequest{IsReserved: &reserved})
	require.Equal(t, http.StatusOK, rec.Code)
	var slot models.SlotResponse
	require.NoError(t, json.Unmarshal(env.Data, &slot))
	assert.True(t, slot.IsReserved)

	booked := true
	rec, _ = s.do(http.MethodPut, "/api/v1/slots/A1", &admin, models.UpdateSlotRequest{IsBooked: &booked})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPut, "/api/v1/slots/A1", &admin, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty update is rejected")

	rec, _ = s.do(http.MethodGet, "/api/v1/slots?reserved=yes-please", &alice, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/slots?reserved=true", &alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list models.SlotListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Slots, 1)

	rec, _ = s.do(http.MethodDelete, "/api/v1/slots/A1", &admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/v1/slots/A1", &alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/v1/slots/sweep", &admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result sweep_expired.Result
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 0, result.Candidates)
}

func TestRouter_SeedUsesDefaults(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec, env := s.do(http.MethodPost, "/api/v1/slots/default", &admin, nil)
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)

	var seeded models.SeedResponse
	require.NoError(t, json.Unmarshal(env.Data, &seeded))
	assert.Equal(t, int64(120), seeded.Created)
	assert.Equal(t, 24, seeded.Reserved)

	rec, _ = s.do(http.MethodGet, "/api/v1/slots/PARKING120", &alice, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegisterer("parking", reg)
	s := newTestServer(t, m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	s.do(http.MethodGet, "/api/v1/slots/missing", &alice, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/v1/slots/{slotNumber}"`)
}

func TestRouter_RecoversFromPanics(t *testing.T) {
	h := Handlers{
		ListSlots: func(http.ResponseWriter, *http.Request) { panic("boom") },
	}
	router := NewRouter(h, Options{JWTSecret: secret}, logger.NewDiscard())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/slots", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, alice))
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() { router.ServeHTTP(rec, req) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
