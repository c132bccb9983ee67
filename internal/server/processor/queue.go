// FILE: checkers/internal/server/processor/queue.go
package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"checkers/internal/server/board"
	"checkers/internal/server/core"
	"checkers/internal/server/engine"
)

const (
	DefaultWorkers   = 2
	queueCapacity    = 100
	resultSendWindow = 100 * time.Millisecond
)

var (
	ErrQueueFull     = errors.New("queue is full")
	ErrQueueShutdown = errors.New("queue is shutting down")
	ErrSearchTimeout = errors.New("engine timeout")
)

// EngineTask is one search request and its response channel
type EngineTask struct {
	ID       string
	Board    *board.Board
	Color    core.Color
	Depth    int
	Response chan<- EngineResult
}

// EngineResult contains the outcome of an engine calculation
type EngineResult struct {
	ID      string
	Result  engine.Result
	Elapsed time.Duration
	Error   error
}

// EngineQueue runs searches on a fixed pool of workers
type EngineQueue struct {
	tasks   chan EngineTask
	workers int
	timeout time.Duration
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.RWMutex
	closed  bool
}

// NewEngineQueue creates a queue with the given worker count and per-search timeout
func NewEngineQueue(workerCount int, timeout time.Duration) *EngineQueue {
	if workerCount < 1 {
		workerCount = DefaultWorkers
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &EngineQueue{
		tasks:   make(chan EngineTask, queueCapacity),
		workers: workerCount,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}

	q.start()
	return q
}

func (q *EngineQueue) start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

func (q *EngineQueue) worker(id int) {
	defer q.wg.Done()

	for {
		select {
		case task, ok := <-q.tasks:
			if !ok {
				return
			}

			result := q.processTask(id, task)

			// Send result if receiver still listening
			select {
			case task.Response <- result:
			case <-time.After(resultSendWindow):
			}

		case <-q.ctx.Done():
			return
		}
	}
}

// processTask runs one search on the task's own board copy
func (q *EngineQueue) processTask(workerID int, task EngineTask) (result EngineResult) {
	result.ID = task.ID
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Worker %d: search %s panicked: %v", workerID, task.ID, r)
			result.Error = fmt.Errorf("engine search failed: %v", r)
		}
		result.Elapsed = time.Since(start)
	}()

	result.Result = engine.Search(task.Board, task.Color, task.Depth)
	return result
}

// Submit adds a task to the queue without blocking
func (q *EngineQueue) Submit(task EngineTask) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueShutdown
	}

	select {
	case q.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// SubmitAsync queues a search and delivers the result, or a timeout error, to callback
func (q *EngineQueue) SubmitAsync(id string, b *board.Board, color core.Color, depth int, callback func(EngineResult)) error {
	respChan := make(chan EngineResult, 1)

	task := EngineTask{
		ID:       id,
		Board:    b.Clone(),
		Color:    color,
		Depth:    depth,
		Response: respChan,
	}

	if err := q.Submit(task); err != nil {
		return err
	}

	go func() {
		select {
		case result := <-respChan:
			callback(result)
		case <-time.After(q.timeout):
			callback(EngineResult{ID: id, Error: ErrSearchTimeout})
		}
	}()

	return nil
}

// SubmitWait queues a search and blocks until it finishes or times out
func (q *EngineQueue) SubmitWait(id string, b *board.Board, color core.Color, depth int) EngineResult {
	done := make(chan EngineResult, 1)
	err := q.SubmitAsync(id, b, color, depth, func(r EngineResult) {
		done <- r
	})
	if err != nil {
		return EngineResult{ID: id, Error: err}
	}
	return <-done
}

// Len returns the number of queued tasks
func (q *EngineQueue) Len() int {
	return len(q.tasks)
}

// Shutdown gracefully stops the queue
func (q *EngineQueue) Shutdown(timeout time.Duration) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.cancel()
	close(q.tasks)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout exceeded")
	}
}
