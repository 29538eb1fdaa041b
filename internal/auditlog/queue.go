package auditlog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

type worker struct {
	id         int
	workerPool chan chan Entry
	jobChannel chan Entry
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan Entry, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan Entry),
		logger:     logger,
	}
}

func (w *worker) start(quit <-chan struct{}, wg *sync.WaitGroup, process func(Entry)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.workerPool <- w.jobChannel

			select {
			case entry := <-w.jobChannel:
				process(entry)
			case <-quit:
				w.logger.Debug("audit worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

type QueueConfig struct {
	Workers      int
	QueueSize    int
	WriteTimeout time.Duration
}

// Queue persists entries on a bounded worker pool. Record never blocks: when the
// buffer is full the entry is dropped and a warning is logged.
type Queue struct {
	writer       Writer
	logger       *slog.Logger
	writeTimeout time.Duration

	jobQueue   chan Entry
	workerPool chan chan Entry
	maxWorkers int
	quit       chan struct{}
	done       chan struct{}
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewQueue(writer Writer, cfg QueueConfig, logger *slog.Logger) *Queue {
	maxWorkers := cfg.Workers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 1024
	}

	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}

	q := &Queue{
		writer:       writer,
		logger:       logger,
		writeTimeout: writeTimeout,
		jobQueue:     make(chan Entry, queueSize),
		workerPool:   make(chan chan Entry, maxWorkers),
		maxWorkers:   maxWorkers,
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}

	for i := 0; i < maxWorkers; i++ {
		newWorker(i, q.workerPool, logger).start(q.quit, &q.wg, q.process)
	}
	go q.dispatch()

	logger.Info("audit queue started",
		"workers", maxWorkers,
		"queue_size", queueSize)

	return q
}

func (q *Queue) Record(_ context.Context, entry Entry) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		entriesDropped.Inc()
		q.logger.Warn("audit queue closed, dropping entry",
			"user_id", entry.UserID,
			"action", entry.Action,
			"affected_table", entry.AffectedTable,
			"record_id", entry.RecordID)
		return
	}

	select {
	case q.jobQueue <- entry:
		entriesEnqueued.Inc()
		queueDepth.Set(float64(len(q.jobQueue)))
	default:
		entriesDropped.Inc()
		q.logger.Warn("audit queue full, dropping entry",
			"user_id", entry.UserID,
			"action", entry.Action,
			"affected_table", entry.AffectedTable,
			"record_id", entry.RecordID,
			"queue_capacity", cap(q.jobQueue))
	}
}

// Pending returns the number of buffered entries not yet handed to a worker.
func (q *Queue) Pending() int {
	return len(q.jobQueue)
}

// dispatch hands buffered entries to idle workers until the queue is closed and drained.
func (q *Queue) dispatch() {
	defer close(q.done)

	for entry := range q.jobQueue {
		queueDepth.Set(float64(len(q.jobQueue)))
		jobChannel := <-q.workerPool
		jobChannel <- entry
	}

	close(q.quit)
	q.wg.Wait()
}

func (q *Queue) process(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), q.writeTimeout)
	defer cancel()

	if err := q.writer.Write(ctx, entry); err != nil {
		entriesFailed.Inc()
		q.logger.Error("failed to write audit entry",
			"error", err,
			"user_id", entry.UserID,
			"action", entry.Action,
			"affected_table", entry.AffectedTable,
			"record_id", entry.RecordID)
		return
	}
	entriesWritten.Inc()
}

// Shutdown stops accepting entries and waits until the buffered ones are written.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobQueue)
	}
	q.mu.Unlock()

	q.logger.Info("shutting down audit queue", "pending", len(q.jobQueue))

	select {
	case <-q.done:
		q.logger.Info("audit queue shutdown complete")
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("audit queue did not drain before deadline"), ctx.Err())
	}
}
