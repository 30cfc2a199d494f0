package pipeline

import (
	"context"
	"math"
	"sync"

	"reponex/internal"
	"reponex/internal/catalog"
)

// BuildRestockList walks the sales records in input order and emits one
// RestockRecord per product whose stock sits strictly below the threshold.
// The quantity to replace is the current stock itself. After each record the
// builder reports integer percent progress and yields, so a host driving it
// from an event loop stays responsive and can cancel through ctx; on
// cancellation the partial list is discarded and ctx.Err() returned.
//
// An empty sales set completes immediately with a single 100% report.
func BuildRestockList(ctx context.Context, sales []internal.SalesRecord, idx *catalog.Index, matchThreshold, stockThreshold float64, onProgress func(percent int)) ([]internal.RestockRecord, error) {
	out := []internal.RestockRecord{}
	total := len(sales)
	if total == 0 {
		if onProgress != nil {
			onProgress(100)
		}
		return out, nil
	}

	for i, record := range sales {
		if record.Product != "" && record.Stock < stockThreshold {
			item := internal.RestockRecord{
				Product:           record.Product,
				QuantityToReplace: record.Stock,
				Supplier:          "-",
			}
			if match := idx.BestPrice(record.Product, matchThreshold); match != nil {
				price := match.Price
				item.Price = &price
				item.Supplier = match.Supplier
			}
			out = append(out, item)
		}

		if onProgress != nil {
			onProgress(int(math.Round(float64(i+1) / float64(total) * 100)))
		}

		// Yield between records so cancellation has a bounded reaction time.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}

	return out, nil
}

// Runner serializes restock builds with a last-request-wins contract: a new
// submission cancels the in-flight run, and a superseded run can never
// deliver its result, even if it happens to finish after cancellation.
type Runner struct {
	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	matchTh float64
}

func NewRunner(matchThreshold float64) *Runner {
	return &Runner{matchTh: matchThreshold}
}

// Submit starts a build in the background. onProgress and onDone fire only
// while the run is still the latest one; onDone is skipped entirely for
// superseded runs.
func (r *Runner) Submit(sales []internal.SalesRecord, idx *catalog.Index, stockThreshold float64, onProgress func(int), onDone func([]internal.RestockRecord)) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.seq++
	run := r.seq
	r.mu.Unlock()

	go func() {
		defer cancel()
		progress := func(percent int) {
			if onProgress != nil && r.isCurrent(run) {
				onProgress(percent)
			}
		}
		list, err := BuildRestockList(ctx, sales, idx, r.matchTh, stockThreshold, progress)
		if err != nil {
			return
		}

		r.mu.Lock()
		current := run == r.seq
		r.mu.Unlock()
		if current && onDone != nil {
			onDone(list)
		}
	}()
}

// Stop cancels the in-flight run, if any.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.seq++
}

func (r *Runner) isCurrent(run uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return run == r.seq
}
