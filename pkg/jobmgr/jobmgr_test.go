package jobmgr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func blockUntilDone(started chan<- struct{}) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}
}

func TestStartAndStop(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))
	started := make(chan struct{})

	require.NoError(t, m.Start(context.Background(), "presence", blockUntilDone(started)))
	<-started
	assert.Equal(t, []string{"presence"}, m.List())
	assert.Equal(t, "Running jobs: presence", m.Status())

	err := m.Start(context.Background(), "presence", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrRunning)

	require.NoError(t, m.Stop("presence"))
	m.Wait()
	assert.Empty(t, m.List())
	assert.Equal(t, "No jobs are running.", m.Status())

	assert.ErrorIs(t, m.Stop("presence"), ErrNotRunning)
}

func TestParentCancellationStopsJobs(t *testing.T) {
	m := NewManager(nil)
	ctx, cancel := context.WithCancel(context.Background())
	a, b := make(chan struct{}), make(chan struct{})

	require.NoError(t, m.Start(ctx, "a", blockUntilDone(a)))
	require.NoError(t, m.Start(ctx, "b", blockUntilDone(b)))
	<-a
	<-b

	cancel()
	m.Wait()
	assert.Empty(t, m.List())
}

func TestFinishedJobsAreForgotten(t *testing.T) {
	m := NewManager(zaptest.NewLogger(t))

	require.NoError(t, m.Start(context.Background(), "once", func(context.Context) error {
		return errors.New("boom")
	}))
	m.Wait()

	assert.Empty(t, m.List())
	require.NoError(t, m.Start(context.Background(), "once", func(context.Context) error { return nil }))
	m.Wait()
}

func TestStopAll(t *testing.T) {
	m := NewManager(nil)
	started := make(chan struct{})
	require.NoError(t, m.Start(context.Background(), "x", blockUntilDone(started)))
	<-started

	m.StopAll()
	assert.Empty(t, m.List())
}
