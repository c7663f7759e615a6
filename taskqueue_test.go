package flame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskQueueAddThenTakeIsFIFO(t *testing.T) {
	q := NewTaskQueue()
	t1 := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	t2 := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	q.Add(t1)
	q.Add(t2)

	got, ok := q.Take(nil)
	require.True(t, ok)
	assert.Same(t, t1, got)

	got, ok = q.Take(nil)
	require.True(t, ok)
	assert.Same(t, t2, got)
}

func TestTaskQueueTakeBlocksUntilAdd(t *testing.T) {
	q := NewTaskQueue()
	task := NewTask(DefaultSettings(), NewSliceSource(nil), nil)

	result := make(chan *Task, 1)
	go func() {
		got, ok := q.Take(nil)
		if ok {
			result <- got
		} else {
			result <- nil
		}
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-result:
		t.Fatal("Take returned before any task was added")
	default:
	}

	q.Add(task)
	select {
	case got := <-result:
		assert.Same(t, task, got)
	case <-time.After(time.Second):
		t.Fatal("Take never returned after Add")
	}
}

func TestTaskQueueTakeReturnsFalseOnStopSignal(t *testing.T) {
	q := NewTaskQueue()
	stop := make(chan struct{})

	result := make(chan bool, 1)
	go func() {
		_, ok := q.Take(stop)
		result <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	close(stop)

	select {
	case ok := <-result:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Take never returned after stop was closed")
	}
}

func TestTaskQueueTakePrefersQueuedItemOverStop(t *testing.T) {
	q := NewTaskQueue()
	stop := make(chan struct{})
	close(stop)

	task := NewTask(DefaultSettings(), NewSliceSource(nil), nil)
	q.Add(task)

	got, ok := q.Take(stop)
	require.True(t, ok)
	assert.Same(t, task, got)
}

func TestTaskQueueTakeReturnsFalseOnClose(t *testing.T) {
	q := NewTaskQueue()
	q.Close()
	_, ok := q.Take(nil)
	assert.False(t, ok)
}

func TestTaskQueueEmpty(t *testing.T) {
	q := NewTaskQueue()
	assert.True(t, q.Empty())
	q.Add(NewTask(DefaultSettings(), NewSliceSource(nil), nil))
	assert.False(t, q.Empty())
}
