package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logpkg "github.com/kailas-cloud/gourmet/internal/logger"
)

func TestWideEventMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(zap.New(core)))
	r.Get("/api/v1/restaurants/{id}", func(w http.ResponseWriter, r *http.Request) {
		logpkg.FromContext(r.Context()).Debug("handler")
		_, _ = w.Write([]byte("{}"))
	})
	r.Get("/api/v1/restaurants", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Post("/api/v1/search", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	tests := []struct {
		method, path string
		route        string
		status       int64
		level        zapcore.Level
	}{
		{http.MethodGet, "/api/v1/restaurants/r-1", "/api/v1/restaurants/{id}", 200, zapcore.InfoLevel},
		{http.MethodGet, "/api/v1/restaurants", "/api/v1/restaurants", 400, zapcore.WarnLevel},
		{http.MethodPost, "/api/v1/search", "/api/v1/search", 502, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			logs.TakeAll()
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, http.NoBody))

			reqID := rr.Header().Get("X-Request-ID")
			if reqID == "" {
				t.Fatal("X-Request-ID not echoed")
			}

			lines := logs.FilterMessage("request").All()
			if len(lines) != 1 {
				t.Fatalf("request lines = %d, want 1", len(lines))
			}
			line := lines[0]
			fields := line.ContextMap()
			if line.Level != tt.level {
				t.Errorf("level = %v, want %v", line.Level, tt.level)
			}
			if fields["route"] != tt.route || fields["status"] != tt.status {
				t.Errorf("route/status = %v/%v, want %s/%d", fields["route"], fields["status"], tt.route, tt.status)
			}
			if fields["request_id"] != reqID {
				t.Errorf("request_id = %v, want %s", fields["request_id"], reqID)
			}
		})
	}

	// the handler logger inherits request_id
	logs.TakeAll()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/restaurants/r-2", http.NoBody))
	handlerLines := logs.FilterMessage("handler").All()
	if len(handlerLines) != 1 || handlerLines[0].ContextMap()["request_id"] == "" {
		t.Errorf("handler log lines = %+v", handlerLines)
	}
}
