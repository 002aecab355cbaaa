package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// chanSource pops ids from a channel and blocks when it is empty.
type chanSource struct {
	ids  chan string
	errs chan error
}

func (s *chanSource) Pop(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-s.errs:
		return "", err
	case id := <-s.ids:
		return id, nil
	}
}

type recordingProcessor struct {
	mu   sync.Mutex
	seen []string
	done chan string
}

func (p *recordingProcessor) ProcessJob(_ context.Context, jobID string) {
	p.mu.Lock()
	p.seen = append(p.seen, jobID)
	p.mu.Unlock()
	if jobID == "boom" {
		panic("pipeline exploded")
	}
	p.done <- jobID
}

func TestWorkerProcessesJobs(t *testing.T) {
	src := &chanSource{ids: make(chan string, 3), errs: make(chan error, 1)}
	proc := &recordingProcessor{done: make(chan string, 3)}
	w := New(src, proc)
	w.backoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(ctx) }()

	src.errs <- errors.New("connection reset")
	src.ids <- "job-1"
	src.ids <- "boom"
	src.ids <- "job-2"

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-proc.done:
			got[id] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
	if !got["job-1"] || !got["job-2"] {
		t.Errorf("processed = %v", got)
	}

	cancel()
	select {
	case err := <-runErr:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	proc.mu.Lock()
	defer proc.mu.Unlock()
	if len(proc.seen) != 3 {
		t.Errorf("seen = %v, want 3 jobs including the panicking one", proc.seen)
	}
}

type blockingProcessor struct {
	started chan string
	release chan struct{}
}

func (p *blockingProcessor) ProcessJob(_ context.Context, jobID string) {
	p.started <- jobID
	<-p.release
}

func TestWorkerRunWaitsForInFlightJobs(t *testing.T) {
	src := &chanSource{ids: make(chan string, 1), errs: make(chan error)}
	proc := &blockingProcessor{started: make(chan string, 1), release: make(chan struct{})}
	w := New(src, proc)

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(ctx) }()

	src.ids <- "job-slow"
	select {
	case <-proc.started:
	case <-time.After(2 * time.Second):
		t.Fatal("job never started")
	}

	cancel()
	select {
	case err := <-runErr:
		t.Fatalf("Run returned %v while a job was still running", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(proc.release)
	select {
	case err := <-runErr:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the job finished")
	}
}
