package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopsense/backend/internal/domain"
)

const productColumns = "id, url, title, price, description, features, images, category, source, created_at, updated_at, synced_at"

// ProductStore is the pgx-backed implementation of domain.ProductStore.
// Each operation is its own committed unit; concurrent upserts on the same
// url are serialized by the row lock taken inside the transaction.
type ProductStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewProductStore creates a store on the given pool.
func NewProductStore(pool *pgxpool.Pool, logger *slog.Logger) *ProductStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProductStore{pool: pool, logger: logger.With("component", "product_store")}
}

// UpsertByURL inserts the draft or updates the record with the same url.
// When every mutable field is unchanged the row is left untouched, so an
// unchanged re-scrape does not bump updated_at and does not re-trigger
// propagation.
func (s *ProductStore) UpsertByURL(ctx context.Context, draft domain.ProductDraft) (*domain.UpsertResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", domain.ErrPersistence, err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE url = $1 FOR UPDATE",
		draft.URL)

	existing, err := scanProduct(row)
	switch {
	case err == nil:
		if !draft.Changes(existing) {
			// No-op write: content identical, keep timestamps as they are.
			if err := tx.Commit(ctx); err != nil {
				return nil, fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
			}
			return &domain.UpsertResult{Product: *existing, Created: false}, nil
		}

		row := tx.QueryRow(ctx, `
			UPDATE products
			SET title = $2, price = $3, description = $4, features = $5,
			    images = $6, category = $7, source = $8, updated_at = now()
			WHERE id = $1
			RETURNING `+productColumns,
			existing.ID, draft.Title, draft.Price, draft.Description,
			draft.Features, draft.Images, draft.Category, draft.Source)

		updated, err := scanProduct(row)
		if err != nil {
			return nil, fmt.Errorf("%w: update %q: %v", domain.ErrPersistence, draft.URL, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
		}
		return &domain.UpsertResult{Product: *updated, Created: false}, nil

	case errors.Is(err, pgx.ErrNoRows):
		row := tx.QueryRow(ctx, `
			INSERT INTO products (url, title, price, description, features, images, category, source)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+productColumns,
			draft.URL, draft.Title, draft.Price, draft.Description,
			draft.Features, draft.Images, draft.Category, draft.Source)

		inserted, err := scanProduct(row)
		if err != nil {
			return nil, fmt.Errorf("%w: insert %q: %v", domain.ErrPersistence, draft.URL, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
		}
		return &domain.UpsertResult{Product: *inserted, Created: true}, nil

	default:
		return nil, fmt.Errorf("%w: lookup %q: %v", domain.ErrPersistence, draft.URL, err)
	}
}

// ListStale returns up to limit products needing propagation, oldest first.
func (s *ProductStore) ListStale(ctx context.Context, limit int) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE synced_at IS NULL OR updated_at > synced_at
		ORDER BY id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list stale: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// MarkSynced records a confirmed propagation timestamp.
func (s *ProductStore) MarkSynced(ctx context.Context, id int64, syncedAt time.Time) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE products SET synced_at = $2 WHERE id = $1", id, syncedAt)
	if err != nil {
		return fmt.Errorf("%w: mark synced %d: %v", domain.ErrPersistence, id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// GetByID fetches one product.
func (s *ProductStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)

	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %d: %v", domain.ErrPersistence, id, err)
	}
	return p, nil
}

// List returns the whole catalog, insertion order.
func (s *ProductStore) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.URL, &p.Title, &p.Price, &p.Description,
		&p.Features, &p.Images, &p.Category, &p.Source,
		&p.CreatedAt, &p.UpdatedAt, &p.SyncedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan: %v", domain.ErrPersistence, err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", domain.ErrPersistence, err)
	}
	return products, nil
}
