package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Abraxas-365/skillpath/career/analysis"
	"github.com/Abraxas-365/skillpath/pkg/logx"
)

const (
	dequeueTimeout       = 5 * time.Second
	delayedMoverInterval = 30 * time.Second
)

// JobProcessor handles one dequeued analysis job
type JobProcessor interface {
	ProcessAnalysisJob(ctx context.Context, job *analysis.ProcessingJob) error
}

type AnalysisWorker struct {
	processor JobProcessor
	queue     analysis.JobQueue
	workers   int
	wg        sync.WaitGroup
}

func NewAnalysisWorker(processor JobProcessor, queue analysis.JobQueue, workers int) *AnalysisWorker {
	if workers < 1 {
		workers = 1
	}
	return &AnalysisWorker{
		processor: processor,
		queue:     queue,
		workers:   workers,
	}
}

// Start launches the worker pool and the delayed job mover. They stop when
// ctx is cancelled; Wait blocks until they have.
func (w *AnalysisWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d analysis workers", w.workers)

	w.wg.Add(w.workers + 1)
	go w.moveDelayedJobs(ctx)
	for i := 0; i < w.workers; i++ {
		go w.processJobs(ctx, i)
	}
}

// Wait blocks until every goroutine started by Start has returned
func (w *AnalysisWorker) Wait() {
	w.wg.Wait()
}

func (w *AnalysisWorker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	logx.Infof("Analysis worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Infof("Analysis worker %d stopping", workerID)
			return
		default:
			w.processNext(ctx, workerID)
		}
	}
}

// processNext handles at most one job
func (w *AnalysisWorker) processNext(ctx context.Context, workerID int) {
	data, err := w.queue.Dequeue(ctx, dequeueTimeout)
	if err != nil {
		if ctx.Err() == nil {
			logx.Errorf("Analysis worker %d dequeue error: %v", workerID, err)
		}
		return
	}

	// queue timeout, no jobs available
	if len(data) == 0 {
		return
	}

	var job analysis.ProcessingJob
	if err := json.Unmarshal(data, &job); err != nil {
		logx.Errorf("Analysis worker %d unmarshal error: %v (data: %s)", workerID, err, string(data))
		return
	}

	logx.Debugf("Analysis worker %d processing job: %s", workerID, job.ID)
	if err := w.processor.ProcessAnalysisJob(ctx, &job); err != nil {
		logx.Errorf("Analysis worker %d job %s failed: %v", workerID, job.ID, err)
	}
}

func (w *AnalysisWorker) moveDelayedJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(delayedMoverInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDelayedToReady(ctx)
			if err != nil {
				logx.Errorf("Failed to move delayed analysis jobs: %v", err)
			} else if count > 0 {
				logx.Infof("Moved %d delayed analysis jobs to ready queue", count)
			}
		}
	}
}
