package handlers_test

import (
	"context"
	"sync"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/store"
	domain "github.com/CloudDevelopmentGroup/arbitrage/pkg/types"
)

// fakeStore is a configurable in-memory store.Store for handler tests.
// Unset fields return zero values or ErrNotFound.
type fakeStore struct {
	pingErr   error
	manifests []domain.Manifest
	items     map[string][]domain.Item
	uploads   map[string]*domain.Upload
	listErr   error
}

var _ store.Store = (*fakeStore)(nil)

func (f *fakeStore) CreateManifest(context.Context, *domain.Manifest) error { return nil }

func (f *fakeStore) GetManifest(_ context.Context, id string) (*domain.Manifest, error) {
	for i := range f.manifests {
		if f.manifests[i].ID == id {
			return &f.manifests[i], nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListManifests(context.Context) ([]domain.Manifest, error) {
	return f.manifests, f.listErr
}

func (f *fakeStore) RecomputeManifestSummary(context.Context, string) error { return nil }

func (f *fakeStore) CreateUpload(context.Context, *domain.Upload) error { return nil }

func (f *fakeStore) GetUpload(_ context.Context, id string) (*domain.Upload, error) {
	if u, ok := f.uploads[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListUploadsByStatus(context.Context, domain.UploadStatus, int) ([]domain.Upload, error) {
	return nil, nil
}

func (f *fakeStore) SetUploadStatus(context.Context, string, domain.UploadStatus) error { return nil }

func (f *fakeStore) UpdateUploadProgress(context.Context, string) (store.Progress, error) {
	return store.Progress{}, nil
}

func (f *fakeStore) InsertItems(_ context.Context, _ string, items []domain.RawItem) (int, error) {
	return len(items), nil
}

func (f *fakeStore) ListItemsByStatus(context.Context, string, domain.ItemStatus, int) ([]domain.Item, error) {
	return nil, nil
}

func (f *fakeStore) ListItems(_ context.Context, manifestID string) ([]domain.Item, error) {
	return f.items[manifestID], nil
}

func (f *fakeStore) SaveItemAnalysis(context.Context, string, domain.EnrichedItem, domain.Analysis, float64) error {
	return nil
}

func (f *fakeStore) SaveItemError(context.Context, string, domain.EnrichedItem, string) error {
	return nil
}

func (f *fakeStore) Migrate(context.Context) error { return nil }

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

// fakeProcessor records trigger calls and signals when invoked.
type fakeProcessor struct {
	mu        sync.Mutex
	allCalls  int
	oneCalls  []string
	done      chan struct{}
	returnErr error
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{done: make(chan struct{}, 4)}
}

func (f *fakeProcessor) ProcessPendingUploads(context.Context) error {
	f.mu.Lock()
	f.allCalls++
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.returnErr
}

func (f *fakeProcessor) ProcessUpload(_ context.Context, upload *domain.Upload) error {
	f.mu.Lock()
	f.oneCalls = append(f.oneCalls, upload.ID)
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.returnErr
}
