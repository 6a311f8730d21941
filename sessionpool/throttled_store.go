package sessionpool

import (
	"context"

	"github.com/hupe1980/bmserial/blobstore"
)

// ThrottledStore wraps a blobstore.BlobStore so every call is bounded by a
// shared Controller: one session slot for the call's duration, plus an I/O
// budget check sized to the bytes actually moved.
type ThrottledStore struct {
	store blobstore.BlobStore
	ctrl  *Controller
}

// NewThrottledStore returns a BlobStore-compatible wrapper around store,
// throttled through ctrl.
func NewThrottledStore(store blobstore.BlobStore, ctrl *Controller) *ThrottledStore {
	return &ThrottledStore{store: store, ctrl: ctrl}
}

// Open opens a blob for reading, charging its size against the I/O budget.
func (s *ThrottledStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if err := s.ctrl.AcquireSession(ctx); err != nil {
		return nil, err
	}
	defer s.ctrl.ReleaseSession()

	b, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := s.ctrl.AcquireIO(ctx, int(b.Size())); err != nil {
		_ = b.Close()
		return nil, err
	}

	return b, nil
}

// Create opens a blob for streaming writes. The returned blob's writes are
// not throttled, and the session slot is held only while the underlying
// Create call runs, not for the life of the returned writer.
func (s *ThrottledStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if err := s.ctrl.AcquireSession(ctx); err != nil {
		return nil, err
	}
	defer s.ctrl.ReleaseSession()

	return s.store.Create(ctx, name)
}

// Put writes a blob atomically, charging its size against the I/O budget.
func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.ctrl.AcquireSession(ctx); err != nil {
		return err
	}
	defer s.ctrl.ReleaseSession()

	if err := s.ctrl.AcquireIO(ctx, len(data)); err != nil {
		return err
	}

	return s.store.Put(ctx, name, data)
}

// Delete removes a blob.
func (s *ThrottledStore) Delete(ctx context.Context, name string) error {
	if err := s.ctrl.AcquireSession(ctx); err != nil {
		return err
	}
	defer s.ctrl.ReleaseSession()

	return s.store.Delete(ctx, name)
}

// List returns the names of every blob whose key starts with prefix.
func (s *ThrottledStore) List(ctx context.Context, prefix string) ([]string, error) {
	if err := s.ctrl.AcquireSession(ctx); err != nil {
		return nil, err
	}
	defer s.ctrl.ReleaseSession()

	return s.store.List(ctx, prefix)
}
