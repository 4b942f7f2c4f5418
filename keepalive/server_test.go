package keepalive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRootReportsOnline(t *testing.T) {
	s := NewServer(0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != Body {
		t.Errorf("body = %q, want %q", w.Body.String(), Body)
	}
}

func TestUnknownPath(t *testing.T) {
	s := NewServer(0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestStartShutdown(t *testing.T) {
	s := NewServer(0)

	done := make(chan error, 1)
	go func() { done <- s.Start() }()

	// Give ListenAndServe a moment to bind before shutting down.
	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v after shutdown", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after shutdown")
	}
}

func TestNewServerDefaultsToReleaseMode(t *testing.T) {
	t.Setenv(gin.EnvGinMode, "")
	gin.SetMode(gin.DebugMode)
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	NewServer(0)
	if got := gin.Mode(); got != gin.ReleaseMode {
		t.Errorf("mode = %q, want %q", got, gin.ReleaseMode)
	}

	gin.SetMode(gin.TestMode)
	NewServer(0)
	if got := gin.Mode(); got != gin.TestMode {
		t.Errorf("mode = %q, explicit test mode should be kept", got)
	}
}
