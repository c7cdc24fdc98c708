package server_test

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/internal/server"
)

func TestRunServesUntilCancelled(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var started, stopped atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, server.Config{
			Listener: ln,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTeapot)
			}),
			Background: []func(context.Context){func(ctx context.Context) {
				started.Store(true)
				<-ctx.Done()
				stopped.Store(true)
			}},
			ShutdownTimeout: time.Second,
		})
	}()

	url := "http://" + ln.Addr().String()
	require.Eventually(t, func() bool {
		res, err := http.Get(url)
		if err != nil {
			return false
		}
		res.Body.Close()
		return res.StatusCode == http.StatusTeapot
	}, 2*time.Second, 20*time.Millisecond)
	assert.True(t, started.Load())
	assert.False(t, stopped.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, stopped.Load(), "background loops stop on shutdown")
}

func TestRunReportsListenerFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	err = server.Run(context.Background(), server.Config{Listener: ln, Handler: http.NotFoundHandler()})
	assert.ErrorContains(t, err, "server: listen")
}
