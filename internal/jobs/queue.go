package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ananth-NQI/transitlink-ussd/internal/metrics"
)

// Task is a unit of post-response work such as an SMS or a record write
type Task struct {
	ID   string
	Kind string
	Run  func(ctx context.Context) error
}

// Task results reported to metrics
const (
	ResultSucceeded = "succeeded"
	ResultFailed    = "failed"
	ResultDropped   = "dropped"
)

// TaskQueue runs tasks on a fixed pool of workers, off the request path.
// A failing task never affects another task or the caller.
type TaskQueue struct {
	tasks   chan Task
	workers int
	timeout time.Duration

	mu        sync.RWMutex
	isRunning bool
	wg        sync.WaitGroup
}

// NewTaskQueue creates a queue with the given worker count, buffer size and per-task timeout
func NewTaskQueue(workers, size int, timeout time.Duration) *TaskQueue {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TaskQueue{
		tasks:   make(chan Task, size),
		workers: workers,
		timeout: timeout,
	}
}

// Start launches the workers
func (q *TaskQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.isRunning {
		log.Println("Task queue already running")
		return
	}
	q.isRunning = true

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	log.Printf("⚙️  Task queue started with %d workers", q.workers)
}

// Stop stops accepting tasks, drains the buffer and waits for the workers
func (q *TaskQueue) Stop() {
	q.mu.Lock()
	if !q.isRunning {
		q.mu.Unlock()
		return
	}
	q.isRunning = false
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
	log.Println("⏹️  Task queue stopped")
}

// Submit enqueues a task without blocking. It reports false when the queue
// is stopped or full; the task is then dropped.
func (q *TaskQueue) Submit(task Task) bool {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if !q.isRunning {
		log.Printf("⚠️  Task %s (%s) dropped: queue not running", task.ID, task.Kind)
		metrics.CountTask(task.Kind, ResultDropped)
		return false
	}

	select {
	case q.tasks <- task:
		return true
	default:
		log.Printf("⚠️  Task %s (%s) dropped: queue full", task.ID, task.Kind)
		metrics.CountTask(task.Kind, ResultDropped)
		return false
	}
}

func (q *TaskQueue) work() {
	defer q.wg.Done()
	for task := range q.tasks {
		if err := q.run(task); err != nil {
			log.Printf("❌ Task %s (%s) failed: %v", task.ID, task.Kind, err)
			metrics.CountTask(task.Kind, ResultFailed)
			continue
		}
		metrics.CountTask(task.Kind, ResultSucceeded)
	}
}

func (q *TaskQueue) run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	return task.Run(ctx)
}
