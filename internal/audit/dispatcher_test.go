package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/oto-servis/internal/logger"
	"github.com/BruksfildServices01/oto-servis/internal/models"
	"github.com/BruksfildServices01/oto-servis/internal/testutil"
)

type recordingWriter struct {
	mu      sync.Mutex
	entries []Entry
	err     error
	block   chan struct{}
}

func (w *recordingWriter) Log(_ context.Context, e Entry) error {
	if w.block != nil {
		<-w.block
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, e)
	return w.err
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	w := &recordingWriter{}
	d := NewDispatcher(w, logger.Nop(), 10)

	d.Dispatch(Entry{Action: "is_emri_olusturuldu"})
	d.Dispatch(Entry{Action: "is_emri_guncellendi"})
	d.Close()

	require.Len(t, w.entries, 2)
	assert.Equal(t, "is_emri_olusturuldu", w.entries[0].Action)
	assert.Equal(t, "is_emri_guncellendi", w.entries[1].Action)
}

func TestDispatcherSwallowsWriteErrors(t *testing.T) {
	w := &recordingWriter{err: errors.New("db down")}
	d := NewDispatcher(w, logger.Nop(), 1)

	assert.NotPanics(t, func() { d.Dispatch(Entry{Action: "x"}) })
	d.Close()
	assert.Len(t, w.entries, 1)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	w := &recordingWriter{block: make(chan struct{})}
	d := NewDispatcher(w, logger.Nop(), 1)

	// o worker fica preso no primeiro, o segundo ocupa o buffer, o resto é descartado
	for i := 0; i < 10; i++ {
		d.Dispatch(Entry{Action: "x"})
	}
	close(w.block)
	d.Close()

	assert.LessOrEqual(t, len(w.entries), 2)
	assert.GreaterOrEqual(t, len(w.entries), 1)
}

func TestDispatchAfterCloseDoesNotPanic(t *testing.T) {
	d := NewDispatcher(&recordingWriter{}, logger.Nop(), 1)
	d.Close()
	assert.NotPanics(t, func() { d.Dispatch(Entry{Action: "late"}) })
}

func TestLoggerPersistsEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)

	uid := uint(3)
	target := uint(42)
	l := New(db)
	require.NoError(t, l.Log(context.Background(), Entry{
		UserID:      &uid,
		Action:      "is_emri_silindi",
		Detail:      "Fiş #42",
		TargetTable: "work_orders",
		TargetID:    &target,
		IPAddress:   "10.0.0.1",
	}))

	var row models.ActivityLog
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "is_emri_silindi", row.Action)
	assert.Equal(t, "work_orders", row.TargetTable)
	assert.Equal(t, uint(42), *row.TargetID)
	assert.Equal(t, uint(3), *row.UserID)
}
