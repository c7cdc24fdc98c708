package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMongoDocumentFlattensAttrs(t *testing.T) {
	h := &MongoHandler{level: slog.LevelInfo}
	child := h.WithAttrs([]slog.Attr{slog.String("request_id", "req-1"), slog.String("route", "/api/cart")}).
		WithGroup("order").(*MongoHandler)

	r := slog.NewRecord(time.Unix(0, 0), slog.LevelWarn, "checkout failed", 0)
	r.AddAttrs(slog.Int("id", 7), slog.String("status", "new"))

	doc := child.document(r)
	assert.Equal(t, "req-1", doc.RequestID)
	assert.Equal(t, "WARN", doc.Level)
	assert.Equal(t, "/api/cart", doc.Attrs["route"])
	assert.EqualValues(t, 7, doc.Attrs["order.id"])
	assert.Equal(t, "new", doc.Attrs["order.status"])
	assert.False(t, child.Enabled(context.Background(), slog.LevelDebug))
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var debug, warn bytes.Buffer
	m := NewMultiHandler(
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	log := slog.New(m).With("request_id", "abc")
	log.Info("cart updated")
	log.Warn("stock low")

	assert.Contains(t, debug.String(), "cart updated")
	assert.Contains(t, debug.String(), "stock low")
	assert.NotContains(t, warn.String(), "cart updated")
	require.Contains(t, warn.String(), "stock low")
	assert.Contains(t, warn.String(), "request_id=abc")
}

func TestWithCtxFallsBackToDefault(t *testing.T) {
	assert.NotNil(t, WithCtx(context.Background()))
}
