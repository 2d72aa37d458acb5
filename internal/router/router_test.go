package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/handler"
	"github.com/noah-isme/campus-timetable-api/internal/service"
	"github.com/noah-isme/campus-timetable-api/pkg/config"
)

func testEngine() http.Handler {
	cfg := &config.Config{
		Env:       config.EnvProduction,
		APIPrefix: "/api/v1",
		Metrics:   config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	metrics := service.NewMetricsService()
	h := Handlers{
		Timetable:  handler.NewTimetableHandler(nil),
		Enrollment: handler.NewEnrollmentHandler(nil),
		Course:     handler.NewCourseHandler(nil),
		Export:     handler.NewExportHandler(nil),
		Metrics:    handler.NewMetricsHandler(metrics, nil),
	}
	auth := service.NewAuthService(config.JWTConfig{Secret: "test-secret"})
	return Setup(cfg, h, auth, metrics, zap.NewNop())
}

func TestSetupOpsEndpoints(t *testing.T) {
	r := testEngine()
	for _, path := range []string{"/health", "/ready", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupProtectsAPI(t *testing.T) {
	r := testEngine()
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/courses"},
		{http.MethodGet, "/api/v1/timetables"},
		{http.MethodPost, "/api/v1/timetables"},
		{http.MethodPatch, "/api/v1/timetables/1"},
		{http.MethodGet, "/api/v1/timetables/1/export"},
		{http.MethodGet, "/api/v1/timetables/1/enrolls"},
		{http.MethodPost, "/api/v1/timetables/1/enrolls/custom"},
		{http.MethodPatch, "/api/v1/timetables/1/enrolls/2/custom"},
		{http.MethodDelete, "/api/v1/timetables/1/enrolls/2"},
	}
	for _, rt := range routes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(rt.method, rt.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, rt.method+" "+rt.path)
	}
}
