package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"checkers/internal/server/core"
)

const (
	// WaitTimeout is the maximum time a client can wait for an analysis to change state
	WaitTimeout = 25 * time.Second

	WaitChannelBuffer = 1
)

// WaitRegistry manages long-polling clients waiting on analysis jobs
type WaitRegistry struct {
	mu       sync.RWMutex
	waiters  map[string][]*WaitRequest // analysisID → waiting clients
	shutdown chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
	timeout  time.Duration
}

// WaitRequest represents a single client waiting for an analysis update
type WaitRequest struct {
	Known      core.State    // State the client last saw
	Notify     chan struct{} // Receives exactly one value when the wait ends
	Timer      *time.Timer
	AnalysisID string

	released chan struct{}
	once     sync.Once
}

func NewWaitRegistry() *WaitRegistry {
	return &WaitRegistry{
		waiters:  make(map[string][]*WaitRequest),
		shutdown: make(chan struct{}),
		timeout:  WaitTimeout,
	}
}

// RegisterWait returns a channel that fires when the analysis leaves the known
// state, when the wait times out, or when the analysis is removed
func (w *WaitRegistry) RegisterWait(analysisID string, known core.State, ctx context.Context) <-chan struct{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	req := &WaitRequest{
		Known:      known,
		Notify:     make(chan struct{}, WaitChannelBuffer),
		AnalysisID: analysisID,
		released:   make(chan struct{}),
	}
	req.Timer = time.AfterFunc(w.timeout, func() {
		req.release()
	})

	w.waiters[analysisID] = append(w.waiters[analysisID], req)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
			// Client disconnected
		case <-req.released:
		case <-w.shutdown:
			req.release()
		}
		req.Timer.Stop()
		w.removeWaiter(analysisID, req)
	}()

	return req.Notify
}

// release ends the wait; only the first call has an effect
func (req *WaitRequest) release() {
	req.once.Do(func() {
		req.Notify <- struct{}{}
		close(req.released)
	})
}

// NotifyAnalysis wakes every waiter whose known state differs from the new one
func (w *WaitRegistry) NotifyAnalysis(analysisID string, state core.State) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, req := range w.waiters[analysisID] {
		if req.Known != state {
			req.release()
		}
	}
}

// RemoveAnalysis wakes all waiters for an analysis that is going away
func (w *WaitRegistry) RemoveAnalysis(analysisID string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, req := range w.waiters[analysisID] {
		req.release()
	}
}

// Waiting returns the number of registered waiters for an analysis
func (w *WaitRegistry) Waiting(analysisID string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.waiters[analysisID])
}

// Shutdown releases every waiter and waits for the watcher goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.once.Do(func() { close(w.shutdown) })

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out")
	}
}

func (w *WaitRegistry) removeWaiter(analysisID string, req *WaitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[analysisID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[analysisID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[analysisID]) == 0 {
		delete(w.waiters, analysisID)
	}
}
