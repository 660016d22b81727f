package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopsense/backend/internal/domain"
)

// ReconcilerConfig holds configuration for the sync reconciler
type ReconcilerConfig struct {
	// BatchLimit caps how many stale products one cycle propagates.
	BatchLimit int

	// Pacer spaces out index calls. Defaults to a 500ms SleepPacer.
	Pacer Pacer
}

// Reconciler detects catalog records that are missing or stale in the search
// index and pushes them downstream in rate-limited batches. Records are
// processed strictly one at a time: the index rejects bursts with
// capacity-exceeded errors.
type Reconciler struct {
	store      domain.ProductStore
	index      domain.IndexClient
	pacer      Pacer
	logger     *slog.Logger
	batchLimit int
}

// NewReconciler creates a reconciler with dependencies
func NewReconciler(
	store domain.ProductStore,
	index domain.IndexClient,
	logger *slog.Logger,
	config ReconcilerConfig,
) *Reconciler {
	batchLimit := config.BatchLimit
	if batchLimit <= 0 {
		batchLimit = 20
	}

	pacer := config.Pacer
	if pacer == nil {
		pacer = SleepPacer{Delay: 500 * time.Millisecond}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		store:      store,
		index:      index,
		pacer:      pacer,
		logger:     logger.With("component", "reconciler"),
		batchLimit: batchLimit,
	}
}

// ReconcileOnce runs one bounded reconciliation cycle and returns how many
// records were successfully propagated. A failing record is logged, left
// stale for the next cycle, and never blocks the rest of the batch. This
// retry-by-staying-stale is the system's only retry mechanism.
func (r *Reconciler) ReconcileOnce(ctx context.Context) (int, error) {
	stale, err := r.store.ListStale(ctx, r.batchLimit)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	r.logger.Info("reconciling stale products", "count", len(stale))

	synced, err := r.push(ctx, stale)
	if err != nil {
		return synced, err
	}

	r.logger.Info("cycle completed", "synced", synced, "stale", len(stale))
	return synced, nil
}

// push propagates the given records one at a time with pacing between them.
func (r *Reconciler) push(ctx context.Context, products []domain.Product) (int, error) {
	synced := 0
	for i := range products {
		if err := ctx.Err(); err != nil {
			return synced, err
		}

		product := &products[i]
		if err := r.index.Upsert(ctx, domain.IndexDocumentFor(product)); err != nil {
			// Leave the record stale; it is retried next cycle.
			r.logger.Warn("propagation failed", "id", product.ID, "error", err)
		} else if err := r.store.MarkSynced(ctx, product.ID, time.Now().UTC()); err != nil {
			// Upsert landed but the mark did not commit: the next cycle
			// re-upserts redundantly, which is harmless since the index
			// upsert is idempotent by id.
			r.logger.Warn("mark synced failed", "id", product.ID, "error", err)
		} else {
			synced++
			r.logger.Debug("synced product", "id", product.ID, "title", product.Title)
		}

		if err := r.pacer.Pause(ctx); err != nil {
			return synced, err
		}
	}
	return synced, nil
}

// ReconcileAll drains the whole backlog by running bounded cycles until one
// makes no progress.
func (r *Reconciler) ReconcileAll(ctx context.Context) (int, error) {
	total := 0
	for {
		synced, err := r.ReconcileOnce(ctx)
		total += synced
		if err != nil {
			return total, err
		}
		if synced == 0 {
			return total, nil
		}
	}
}

// SyncAll pushes every catalog product to the index regardless of staleness.
// A freshly provisioned index starts empty while the catalog's synced_at
// bookkeeping survives, so the stale filter alone would never repopulate it.
func (r *Reconciler) SyncAll(ctx context.Context) (int, error) {
	products, err := r.store.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(products) == 0 {
		return 0, nil
	}

	r.logger.Info("full sync", "count", len(products))

	synced, err := r.push(ctx, products)
	if err != nil {
		return synced, err
	}

	r.logger.Info("full sync completed", "synced", synced, "total", len(products))
	return synced, nil
}

// Run performs an initial full sync and then reconciles at a fixed cadence
// until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) error {
	if total, err := r.SyncAll(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		r.logger.Error("initial full sync incomplete", "synced", total, "error", err)
	} else {
		r.logger.Info("initial full sync completed", "synced", total)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.ReconcileOnce(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("reconcile cycle failed", "error", err)
			}
		}
	}
}
