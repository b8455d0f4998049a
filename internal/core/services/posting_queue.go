package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Africall/sote-minimart/internal/core/domain"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/middleware"
)

// postingTimeout bounds a single queued posting.
const postingTimeout = 30 * time.Second

// PostingQueue posts journals in the background so sales and shift changes never
// wait on the ledger. It is best effort: a full or stopped queue drops the task
// and the sweeper posts it on its next run.
type PostingQueue struct {
	poster  portssvc.JournalPosterSvc
	logger  *slog.Logger
	tasks   chan portssvc.PostingTask
	workers int

	mu      sync.RWMutex
	started bool
	closed  bool
	wg      sync.WaitGroup
}

// NewPostingQueue creates a queue with the given buffer and worker count.
func NewPostingQueue(poster portssvc.JournalPosterSvc, size, workers int, logger *slog.Logger) *PostingQueue {
	if size <= 0 {
		size = 1
	}
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostingQueue{
		poster:  poster,
		logger:  logger.With(slog.String("component", "posting_queue")),
		tasks:   make(chan portssvc.PostingTask, size),
		workers: workers,
	}
}

var _ portssvc.PostingEnqueuer = (*PostingQueue)(nil)

// Start launches the workers. Calling it twice has no effect.
func (q *PostingQueue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.run(ctx)
	}
	q.logger.Info("Posting queue started", slog.Int("workers", q.workers), slog.Int("buffer", cap(q.tasks)))
}

// Enqueue never blocks. It reports false when the task was dropped.
func (q *PostingQueue) Enqueue(task portssvc.PostingTask) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	select {
	case q.tasks <- task:
		return true
	default:
		return false
	}
}

// Stop refuses new tasks, lets the workers drain what is buffered, and waits for them.
func (q *PostingQueue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.tasks)
	q.mu.Unlock()

	q.wg.Wait()
	q.logger.Info("Posting queue stopped")
}

func (q *PostingQueue) run(ctx context.Context) {
	defer q.wg.Done()
	for task := range q.tasks {
		q.process(ctx, task)
	}
}

func (q *PostingQueue) process(ctx context.Context, task portssvc.PostingTask) {
	logger := q.logger.With(slog.String("source", string(task.Source)), slog.String("source_id", task.SourceID))
	ctx, cancel := context.WithTimeout(middleware.WithLogger(ctx, logger), postingTimeout)
	defer cancel()

	res, err := q.poster.Post(ctx, task.Source, task.SourceID)
	if err != nil {
		logger.Error("Queued posting failed, leaving it for the sweeper", slog.String("error", err.Error()))
		return
	}
	logger.Debug("Queued posting done", slog.String("status", string(res.Status)))
}

// PostingSweeper periodically posts every source event the queue missed.
type PostingSweeper struct {
	poster   portssvc.JournalPosterSvc
	logger   *slog.Logger
	interval time.Duration
	sources  []domain.JournalSource

	mu     sync.Mutex
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
}

// NewPostingSweeper creates a sweeper over every postable source.
func NewPostingSweeper(poster portssvc.JournalPosterSvc, interval time.Duration, logger *slog.Logger) *PostingSweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostingSweeper{
		poster:   poster,
		logger:   logger.With(slog.String("component", "posting_sweeper")),
		interval: interval,
		sources:  []domain.JournalSource{domain.SourceSale, domain.SourceExpense, domain.SourceShift, domain.SourceRecon},
	}
}

// Start runs a sweep immediately and then on every tick. A non-positive interval disables it.
func (ps *PostingSweeper) Start(ctx context.Context) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.interval <= 0 {
		ps.logger.Info("Posting sweeper disabled")
		return
	}
	if ps.ticker != nil {
		return
	}
	ps.ticker = time.NewTicker(ps.interval)
	ps.stop = make(chan struct{})
	ps.wg.Add(1)
	go ps.run(ctx)

	ps.logger.Info("Posting sweeper started", slog.Duration("interval", ps.interval))
}

// Stop halts the ticker and waits for a running sweep to finish.
func (ps *PostingSweeper) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
		ps.wg.Wait()
		ps.ticker = nil
		ps.logger.Info("Posting sweeper stopped")
	}
}

func (ps *PostingSweeper) run(ctx context.Context) {
	defer ps.wg.Done()

	ps.RunOnce(ctx)
	for {
		select {
		case <-ps.ticker.C:
			ps.RunOnce(ctx)
		case <-ps.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce sweeps every source once and returns the per-source results.
func (ps *PostingSweeper) RunOnce(ctx context.Context) []domain.PostAllResult {
	ctx = middleware.WithLogger(ctx, ps.logger)
	results := make([]domain.PostAllResult, 0, len(ps.sources))
	for _, source := range ps.sources {
		res, err := ps.poster.PostAll(ctx, source)
		if err != nil {
			ps.logger.Error("Sweep failed", slog.String("source", string(source)), slog.String("error", err.Error()))
		}
		if res != nil {
			results = append(results, *res)
		}
	}
	return results
}
