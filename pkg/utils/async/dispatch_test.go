package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskgrid/pkg/utils/async"
	"github.com/secmon-lab/riskgrid/pkg/utils/logging"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestDispatch(t *testing.T) {
	var out syncBuffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&out, nil)))
	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	done := make(chan error, 1)
	async.Dispatch(cancelled, func(ctx context.Context) error {
		// handler runs detached from the caller's cancellation
		done <- ctx.Err()
		return errors.New("refresh failed")
	})

	select {
	case err := <-done:
		gt.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("handler was not called")
	}

	gt.Bool(t, waitFor(func() bool { return bytes.Contains([]byte(out.String()), []byte("async handler failed")) })).True()
}

func TestDispatch_Panic(t *testing.T) {
	var out syncBuffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&out, nil)))

	async.Dispatch(ctx, func(ctx context.Context) error {
		panic("boom")
	})

	gt.Bool(t, waitFor(func() bool { return bytes.Contains([]byte(out.String()), []byte("panic in async handler")) })).True()
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
