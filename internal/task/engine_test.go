package task

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"traffic-intel-go/internal/analytics"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource plays back a fixed series of frame counts
type sliceSource struct {
	counts  []int
	fps     float64
	total   int
	hasMeta bool
	failAt  int // frame index that returns an error; -1 disables
	idx     int
}

func newSliceSource(counts []int, fps float64) *sliceSource {
	return &sliceSource{
		counts:  counts,
		fps:     fps,
		total:   len(counts),
		hasMeta: true,
		failAt:  -1,
	}
}

func (s *sliceSource) Meta() (float64, int, bool) {
	return s.fps, s.total, s.hasMeta
}

func (s *sliceSource) Next(ctx context.Context) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	if s.failAt >= 0 && s.idx == s.failAt {
		return 0, false, errors.New("detector stream broke")
	}
	if s.idx >= len(s.counts) {
		return 0, true, nil
	}
	c := s.counts[s.idx]
	s.idx++
	return c, false, nil
}

func (s *sliceSource) Close() error { return nil }

// gatedSource blocks every Next until the gate channel is closed,
// letting tests observe tasks in flight
type gatedSource struct {
	gate   chan struct{}
	counts []int
	idx    int
}

func (g *gatedSource) Meta() (float64, int, bool) { return 0, 0, false }

func (g *gatedSource) Next(ctx context.Context) (int, bool, error) {
	select {
	case <-ctx.Done():
		return 0, false, ctx.Err()
	case <-g.gate:
	}
	if g.idx >= len(g.counts) {
		return 0, true, nil
	}
	c := g.counts[g.idx]
	g.idx++
	return c, false, nil
}

func (g *gatedSource) Close() error { return nil }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEngine(hook CompletionHook) *Engine {
	return NewEngine(analytics.NewPipeline(), testLogger(), hook)
}

// waitTerminal polls until the task leaves the running states
func waitTerminal(t *testing.T, e *Engine, id string) Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := e.Snapshot(id)
		require.NoError(t, err)
		if snap.Status.IsTerminal() {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("task %s never reached a terminal state", id)
	return Snapshot{}
}

func TestEngineSubmit(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid smoothing window synchronously", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(nil)
		_, err := e.Submit(newSliceSource([]int{1, 2}, 30), Options{SmoothingWindow: 0})
		assert.Error(t, err)
	})

	t.Run("new task starts queued with an id", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(nil)
		src := &gatedSource{gate: make(chan struct{}), counts: []int{1, 2, 3}}

		snap, err := e.Submit(src, Options{SmoothingWindow: 5})
		require.NoError(t, err)
		assert.NotEmpty(t, snap.ID)
		assert.Equal(t, StatusQueued, snap.Status)
		assert.Nil(t, snap.Result)

		close(src.gate)
		waitTerminal(t, e, snap.ID)
	})
}

func TestEngineLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("completes and exposes the result", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(nil)
		counts := []int{3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

		snap, err := e.Submit(newSliceSource(counts, 30), Options{SmoothingWindow: 3})
		require.NoError(t, err)

		final := waitTerminal(t, e, snap.ID)
		assert.Equal(t, StatusDone, final.Status)
		assert.Empty(t, final.Error)
		assert.Equal(t, len(counts), final.Processed)
		require.NotNil(t, final.Percentage)
		assert.InDelta(t, 100, *final.Percentage, 1e-9)

		require.NotNil(t, final.Result)
		assert.Equal(t, len(counts), final.Result.Summary.TotalFrames)

		result, err := e.Result(snap.ID)
		require.NoError(t, err)
		assert.Same(t, final.Result, result)
	})

	t.Run("result is unavailable before completion", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(nil)
		src := &gatedSource{gate: make(chan struct{}), counts: []int{1, 2, 3}}

		snap, err := e.Submit(src, Options{SmoothingWindow: 1})
		require.NoError(t, err)

		_, err = e.Result(snap.ID)
		assert.Error(t, err)

		mid, err := e.Snapshot(snap.ID)
		require.NoError(t, err)
		assert.Nil(t, mid.Result)
		assert.Empty(t, mid.Error)

		close(src.gate)
		final := waitTerminal(t, e, snap.ID)
		assert.Equal(t, StatusDone, final.Status)
	})

	t.Run("source failure lands in error state", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(nil)
		src := newSliceSource([]int{1, 2, 3, 4, 5}, 30)
		src.failAt = 3

		snap, err := e.Submit(src, Options{SmoothingWindow: 1})
		require.NoError(t, err)

		final := waitTerminal(t, e, snap.ID)
		assert.Equal(t, StatusError, final.Status)
		assert.Contains(t, final.Error, "detector stream broke")
		assert.Nil(t, final.Result)

		_, err = e.Result(snap.ID)
		assert.Error(t, err)
	})

	t.Run("completion hook fires with the result", func(t *testing.T) {
		t.Parallel()
		done := make(chan *analytics.AnalysisResult, 1)
		e := newTestEngine(func(id string, opts Options, result *analytics.AnalysisResult) {
			done <- result
		})

		snap, err := e.Submit(newSliceSource([]int{2, 2, 2}, 30), Options{SmoothingWindow: 1})
		require.NoError(t, err)
		waitTerminal(t, e, snap.ID)

		select {
		case result := <-done:
			assert.Equal(t, 3, result.Summary.TotalFrames)
		case <-time.After(5 * time.Second):
			t.Fatal("completion hook never fired")
		}
	})
}

func TestEngineCancel(t *testing.T) {
	t.Parallel()

	t.Run("cancel is terminal the moment it returns", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(nil)
		src := &gatedSource{gate: make(chan struct{}), counts: []int{1, 2, 3}}

		snap, err := e.Submit(src, Options{SmoothingWindow: 1})
		require.NoError(t, err)

		require.NoError(t, e.Cancel(snap.ID))

		after, err := e.Snapshot(snap.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusError, after.Status)
		assert.Equal(t, ErrCancelled, after.Error)
		assert.Nil(t, after.Result)
	})

	t.Run("cancelled task never flips back to done", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(nil)
		src := &gatedSource{gate: make(chan struct{}), counts: []int{1, 2, 3}}

		snap, err := e.Submit(src, Options{SmoothingWindow: 1})
		require.NoError(t, err)
		require.NoError(t, e.Cancel(snap.ID))

		// Let the worker drain and observe the cancellation
		close(src.gate)
		time.Sleep(20 * time.Millisecond)

		final, err := e.Snapshot(snap.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusError, final.Status)
		assert.Equal(t, ErrCancelled, final.Error)
	})

	t.Run("cancelling a finished task is an error", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(nil)

		snap, err := e.Submit(newSliceSource([]int{1, 2, 3}, 30), Options{SmoothingWindow: 1})
		require.NoError(t, err)
		waitTerminal(t, e, snap.ID)

		assert.Error(t, e.Cancel(snap.ID))
	})

	t.Run("unknown task ids are rejected everywhere", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(nil)

		_, err := e.Snapshot("missing")
		assert.Error(t, err)
		_, err = e.Result("missing")
		assert.Error(t, err)
		assert.Error(t, e.Cancel("missing"))
	})
}

func TestCollect(t *testing.T) {
	t.Parallel()

	t.Run("drains the source and returns fps", func(t *testing.T) {
		t.Parallel()
		counts, fps, err := Collect(context.Background(), newSliceSource([]int{4, 5, 6}, 25))
		require.NoError(t, err)
		assert.Equal(t, []int{4, 5, 6}, counts)
		assert.InDelta(t, 25, fps, 1e-9)
	})

	t.Run("propagates source errors", func(t *testing.T) {
		t.Parallel()
		src := newSliceSource([]int{1, 2, 3}, 30)
		src.failAt = 1
		_, _, err := Collect(context.Background(), src)
		assert.Error(t, err)
	})

	t.Run("honours context cancellation", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, _, err := Collect(ctx, newSliceSource([]int{1, 2, 3}, 30))
		assert.Error(t, err)
	})
}
