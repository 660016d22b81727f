package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/shopsense/backend/internal/domain"
)

// fakeStore is an in-memory ProductStore honoring the same contract as the
// postgres implementation: upsert-by-url with no-op change detection,
// insertion-ordered stale listing, per-record sync marking.
type fakeStore struct {
	mu       sync.Mutex
	products []domain.Product
	nextID   int64

	upsertErr     error
	listStaleErr  error
	markSyncedErr map[int64]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, markSyncedErr: map[int64]error{}}
}

func (s *fakeStore) UpsertByURL(ctx context.Context, draft domain.ProductDraft) (*domain.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.upsertErr != nil {
		return nil, s.upsertErr
	}

	now := time.Now()
	for i := range s.products {
		p := &s.products[i]
		if p.URL != draft.URL {
			continue
		}
		if !draft.Changes(p) {
			return &domain.UpsertResult{Product: *p, Created: false}, nil
		}
		p.Title = draft.Title
		p.Price = draft.Price
		p.Description = draft.Description
		p.Features = draft.Features
		p.Images = draft.Images
		p.Category = draft.Category
		p.Source = draft.Source
		p.UpdatedAt = now
		return &domain.UpsertResult{Product: *p, Created: false}, nil
	}

	product := domain.Product{
		ID:          s.nextID,
		URL:         draft.URL,
		Title:       draft.Title,
		Price:       draft.Price,
		Description: draft.Description,
		Features:    draft.Features,
		Images:      draft.Images,
		Category:    draft.Category,
		Source:      draft.Source,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextID++
	s.products = append(s.products, product)
	return &domain.UpsertResult{Product: product, Created: true}, nil
}

func (s *fakeStore) ListStale(ctx context.Context, limit int) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listStaleErr != nil {
		return nil, s.listStaleErr
	}

	var stale []domain.Product
	for _, p := range s.products {
		if p.Stale() {
			stale = append(stale, p)
			if len(stale) == limit {
				break
			}
		}
	}
	return stale, nil
}

func (s *fakeStore) MarkSynced(ctx context.Context, id int64, syncedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.markSyncedErr[id]; err != nil {
		return err
	}
	for i := range s.products {
		if s.products[i].ID == id {
			ts := syncedAt
			s.products[i].SyncedAt = &ts
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (s *fakeStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (s *fakeStore) List(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Product(nil), s.products...), nil
}

func (s *fakeStore) seed(n int) {
	for i := 0; i < n; i++ {
		s.UpsertByURL(context.Background(), domain.ProductDraft{
			URL:   "https://shop.example/products/item-" + strconv.Itoa(i),
			Title: "Item " + strconv.Itoa(i),
			Price: "100",
		})
	}
}

// fakeIndex records upserts and fails the ids it is told to fail.
type fakeIndex struct {
	mu       sync.Mutex
	upserts  []domain.IndexDocument
	failIDs  map[int64]bool
	failAll  bool
	queryRes []domain.SearchResult
	queryErr error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{failIDs: map[int64]bool{}}
}

func (f *fakeIndex) Upsert(ctx context.Context, doc domain.IndexDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAll || f.failIDs[doc.ID] {
		return domain.ErrPropagation
	}
	f.upserts = append(f.upserts, doc)
	return nil
}

func (f *fakeIndex) upsertCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upserts)
}

func (f *fakeIndex) Query(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if len(f.queryRes) > topK {
		return f.queryRes[:topK], nil
	}
	return f.queryRes, nil
}

// fakeLLM replies with a canned string or an error.
type fakeLLM struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

var errStoreDown = errors.New("store down")
