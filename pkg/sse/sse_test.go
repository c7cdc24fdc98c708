package sse_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/sse"
	"github.com/shashiranjanraj/storefront/pkg/ws"
)

func TestHandlerRelaysHubFrames(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(sse.Handler(hub))
	defer srv.Close()

	reqCtx, stop := context.WithTimeout(ctx, 3*time.Second)
	defer stop()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	// the subscription is registered once headers are flushed
	go func() {
		for i := 0; i < 20; i++ {
			hub.Publish("order.created", map[string]any{"id": 9})
			time.Sleep(50 * time.Millisecond)
		}
	}()

	sc := bufio.NewScanner(res.Body)
	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if line == "" && len(lines) >= 2 {
			break
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "event: order.created", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "data: "))
	assert.Contains(t, lines[1], `"id":9`)
}
