package domain

import (
	"log/slog"
	"sync"
)

// PreviewRequest asks the worker to render a preview for a selection. Seq
// lets the consumer recognise stale results.
type PreviewRequest struct {
	Seq       uint64
	Selection []string
}

// PreviewResult is the outcome of one preview computation.
type PreviewResult struct {
	Seq  uint64
	Text string
	Err  error
}

// PreviewWorker computes previews with at most one computation in flight.
// Requests submitted while a computation runs overwrite each other; only
// the latest is computed once the current one finishes. Computations are
// never cancelled mid-flight, the consumer drops results whose Seq is
// stale.
type PreviewWorker struct {
	compute func(PreviewRequest) (string, error)
	results chan PreviewResult
	log     *slog.Logger

	mu      sync.Mutex
	pending *PreviewRequest
	running bool
}

// NewPreviewWorker constructs a PreviewWorker around compute.
func NewPreviewWorker(compute func(PreviewRequest) (string, error), log *slog.Logger) *PreviewWorker {
	if log == nil {
		log = slog.Default()
	}

	return &PreviewWorker{
		compute: compute,
		results: make(chan PreviewResult, 1),
		log:     log,
	}
}

// Results delivers finished previews. The channel holds the most recent
// result only; an unread result is replaced when a newer one arrives.
func (w *PreviewWorker) Results() <-chan PreviewResult {
	return w.results
}

// Submit schedules a preview. When the worker is idle the request starts
// immediately; otherwise it lands in the single pending slot, replacing any
// request already waiting there.
func (w *PreviewWorker) Submit(req PreviewRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		w.pending = &req

		return
	}

	w.running = true

	go w.run(req)
}

func (w *PreviewWorker) run(req PreviewRequest) {
	for {
		text, err := w.compute(req)
		if err != nil {
			w.log.Debug("preview failed", "seq", req.Seq, "error", err)
		}

		w.deliver(PreviewResult{Seq: req.Seq, Text: text, Err: err})

		w.mu.Lock()
		if w.pending == nil {
			w.running = false
			w.mu.Unlock()

			return
		}

		req = *w.pending
		w.pending = nil
		w.mu.Unlock()
	}
}

// deliver replaces any unread result so the consumer always sees the
// newest one.
func (w *PreviewWorker) deliver(res PreviewResult) {
	for {
		select {
		case w.results <- res:
			return
		default:
		}

		select {
		case <-w.results:
		default:
		}
	}
}
