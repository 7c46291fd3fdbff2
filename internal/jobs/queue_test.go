package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestTaskQueueRunsTasksAndIsolatesFailures(t *testing.T) {
	q := NewTaskQueue(2, 16, time.Second)
	q.Start()

	var ran atomic.Int32
	q.Submit(Task{Kind: "fail", Run: func(ctx context.Context) error { return errors.New("boom") }})
	q.Submit(Task{Kind: "panic", Run: func(ctx context.Context) error { panic("bad task") }})
	for i := 0; i < 5; i++ {
		ok := q.Submit(Task{Kind: "ok", Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}})
		if !ok {
			t.Fatalf("Submit %d rejected", i)
		}
	}

	q.Stop()
	if got := ran.Load(); got != 5 {
		t.Fatalf("ran %d tasks, want 5", got)
	}
}

func TestTaskQueueSubmitNeverBlocks(t *testing.T) {
	q := NewTaskQueue(1, 1, time.Second)
	q.Start()
	defer q.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	q.Submit(Task{Kind: "slow", Run: func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}})
	<-started

	q.Submit(Task{Kind: "buffered", Run: func(ctx context.Context) error { return nil }})

	done := make(chan bool)
	go func() { done <- q.Submit(Task{Kind: "overflow", Run: func(ctx context.Context) error { return nil }}) }()
	select {
	case ok := <-done:
		if ok {
			t.Fatal("expected overflow task to be dropped")
		}
	case <-time.After(time.Second):
		t.Fatal("Submit blocked on a full queue")
	}
	close(release)
}

func TestTaskQueueRejectsAfterStop(t *testing.T) {
	q := NewTaskQueue(1, 4, time.Second)
	q.Start()
	q.Stop()
	if q.Submit(Task{Kind: "late", Run: func(ctx context.Context) error { return nil }}) {
		t.Fatal("Submit after Stop should be rejected")
	}
}

func TestTaskQueueAppliesTimeout(t *testing.T) {
	q := NewTaskQueue(1, 1, 20*time.Millisecond)
	q.Start()

	var sawDeadline atomic.Bool
	q.Submit(Task{Kind: "slow", Run: func(ctx context.Context) error {
		<-ctx.Done()
		sawDeadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return ctx.Err()
	}})
	q.Stop()

	if !sawDeadline.Load() {
		t.Fatal("task context did not time out")
	}
}
