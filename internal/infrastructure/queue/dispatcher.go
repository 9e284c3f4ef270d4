package queue

import (
	"context"
	"hash/fnv"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/fleetline/logistics-platform/internal/core/domain"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Processor is the interface the dispatcher hands dequeued jobs to.
type Processor interface {
	Process(ctx context.Context, job *domain.Job)
}

// Dispatcher routes jobs to a fixed set of workers using consistent hashing
// on the job id, guaranteeing per-job ordering of any follow-up work.
// It is the in-process asynchronous executor behind the job dispatch path;
// when it is not running, callers fall back to synchronous processing.
type Dispatcher struct {
	workers []chan *domain.Job
	running atomic.Bool
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan *domain.Job, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.Job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines feeding processor. Workers stop when
// ctx is cancelled, after which the dispatcher reports unavailable.
func (d *Dispatcher) Start(ctx context.Context, processor Processor) {
	d.running.Store(true)
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch, processor)
	}
	go func() {
		<-ctx.Done()
		d.running.Store(false)
	}()
}

// Available reports whether the async path can accept work right now.
func (d *Dispatcher) Available() bool {
	return d.running.Load()
}

// Enqueue hands the job to the worker responsible for its id. It fails
// fast instead of blocking: ErrDispatchUnavailable when the dispatcher is
// not running, ErrQueueFull when the target worker's buffer is exhausted.
func (d *Dispatcher) Enqueue(job *domain.Job) error {
	if !d.running.Load() {
		return domain.ErrDispatchUnavailable
	}
	select {
	case d.workers[d.shardIndex(job.JobID)] <- job:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// QueueDepths reports the number of jobs pending in each worker channel.
func (d *Dispatcher) QueueDepths() []int {
	depths := make([]int, len(d.workers))
	for i, ch := range d.workers {
		depths[i] = len(ch)
	}
	return depths
}

// shardIndex maps a job id deterministically to a worker index.
func (d *Dispatcher) shardIndex(jobID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(jobID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan *domain.Job, processor Processor) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			d.log.Debug().
				Str("job_id", job.JobID).
				Int("worker_id", id).
				Msg("job dequeued")
			processor.Process(ctx, job)
		}
	}
}
