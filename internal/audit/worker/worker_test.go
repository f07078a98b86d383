package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvass/internal/audit"
)

func TestWorkerDrainsQueueOnStop(t *testing.T) {
	store := audit.NewMemoryStore()
	w := New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.Start()

	for i := 0; i < 10; i++ {
		require.NoError(t, w.Emit(context.Background(), audit.Event{Action: "campaign_created"}))
	}
	w.Stop()

	events := store.Events()
	assert.Len(t, events, 10)
	for _, e := range events {
		assert.False(t, e.Timestamp.IsZero())
	}
}

func TestWorkerStopIsIdempotent(t *testing.T) {
	w := New(audit.NewMemoryStore(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.Start()
	w.Stop()
	w.Stop()
}
