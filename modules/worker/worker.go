package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// JobSource - 큐에서 Job ID를 꺼냄
type JobSource interface {
	Pop(ctx context.Context) (string, error)
}

// Processor runs one design job to a terminal state.
type Processor interface {
	ProcessJob(ctx context.Context, jobID string)
}

// Worker - Redis Queue Worker
type Worker struct {
	source    JobSource
	processor Processor
	backoff   time.Duration
	wg        sync.WaitGroup
}

func New(source JobSource, processor Processor) *Worker {
	return &Worker{
		source:    source,
		processor: processor,
		backoff:   5 * time.Second,
	}
}

// Run watches the queue until ctx is cancelled. Each job runs in its own
// goroutine, and Run returns only after every job it started has finished.
func (w *Worker) Run(ctx context.Context) error {
	log.Info().Msg("👀 Watching design queue")
	defer w.wg.Wait()

	for {
		jobID, err := w.source.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("🛑 Worker stopped")
				return ctx.Err()
			}
			log.Error().Err(err).Msg("❌ Redis BRPOP error")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.backoff):
			}
			continue
		}

		log.Info().Str("job_id", jobID).Msg("🎯 Received new job")
		w.wg.Add(1)
		go w.process(jobID)
	}
}

// process detaches the job from the queue context so a shutdown does not
// abort it halfway. Panics are logged, never propagated.
func (w *Worker) process(jobID string) {
	defer w.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("job_id", jobID).
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("💥 Job goroutine panicked")
		}
	}()

	w.processor.ProcessJob(context.Background(), jobID)
}
