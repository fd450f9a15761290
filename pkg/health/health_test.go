package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
)

func probe(t *testing.T, endpoint http.HandlerFunc) int {
	t.Helper()
	w := httptest.NewRecorder()
	endpoint(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w.Code
}

func TestReadyGate(t *testing.T) {
	h := New()

	assert.Equal(t, http.StatusServiceUnavailable, probe(t, h.ReadyEndpoint))

	h.SetReady(true)
	assert.Equal(t, http.StatusOK, probe(t, h.ReadyEndpoint))

	h.SetReady(false)
	assert.Equal(t, http.StatusServiceUnavailable, probe(t, h.ReadyEndpoint))
}

func TestFailingReadinessCheck(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New()
	h.AddReadinessCheck("db", time.Second, func(context.Context) error {
		return errors.New("connection refused")
	})
	h.Start(ctx, time.Minute)
	defer h.Stop()
	h.SetReady(true)

	assert.Equal(t, http.StatusServiceUnavailable, probe(t, h.ReadyEndpoint))
}

func TestLivenessHealthy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := New()
	h.AddLivenessCheck("goroutines", time.Second, GoroutineCountCheck(100000))
	h.Start(ctx, time.Minute)
	defer h.Stop()

	assert.Equal(t, http.StatusOK, probe(t, h.LiveEndpoint))
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(1000000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
