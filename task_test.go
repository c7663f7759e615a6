package flame

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskStartsReady(t *testing.T) {
	task := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	assert.Equal(t, TaskReady, task.State())
	assert.False(t, task.IsTerminated())
}

func TestNewTaskCopiesSettings(t *testing.T) {
	s := DefaultSettings()
	task := NewTask(s, NewSliceSource(nil), nil)
	s.Width = 1
	assert.NotEqual(t, s.Width, task.Settings.Width)
}

func TestTaskStartThenComplete(t *testing.T) {
	task := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	require.True(t, task.start())
	assert.Equal(t, TaskRunning, task.State())
	require.True(t, task.complete())
	assert.True(t, task.IsCompleted())
	assert.True(t, task.IsTerminated())
}

func TestTaskStartTwiceFails(t *testing.T) {
	task := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	require.True(t, task.start())
	assert.False(t, task.start())
}

func TestCancelBeforeStartAlwaysSucceeds(t *testing.T) {
	task := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	assert.True(t, task.Cancel(false))
	assert.True(t, task.IsCancelled())
}

func TestCancelAfterStartRespectsMayCancelIfStarted(t *testing.T) {
	task := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	require.True(t, task.start())

	assert.False(t, task.Cancel(false))
	assert.Equal(t, TaskRunning, task.State())

	assert.True(t, task.Cancel(true))
	assert.True(t, task.IsCancelled())
}

func TestCancelAfterCompleteFails(t *testing.T) {
	task := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	require.True(t, task.start())
	require.True(t, task.complete())
	assert.False(t, task.Cancel(true))
}

func TestCompleteWithoutStartFails(t *testing.T) {
	task := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	assert.False(t, task.complete())
}

func TestAwaitTerminationUnblocksOnComplete(t *testing.T) {
	task := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	require.True(t, task.start())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		task.AwaitTermination()
	}()

	time.Sleep(10 * time.Millisecond)
	task.complete()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("AwaitTermination did not unblock after complete")
	}
}

func TestAwaitTerminationTimeoutExpires(t *testing.T) {
	task := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	require.True(t, task.start())
	assert.False(t, task.AwaitTerminationTimeout(20*time.Millisecond))
}

func TestAwaitTerminationTimeoutSucceedsEarly(t *testing.T) {
	task := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	require.True(t, task.start())
	require.True(t, task.complete())
	assert.True(t, task.AwaitTerminationTimeout(time.Second))
}
