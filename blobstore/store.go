package blobstore

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for storing and retrieving immutable
// serialized bit-vector streams, keyed by name.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create opens a blob for streaming writes. Whether a partly written
	// blob is visible to Open/List before the returned WritableBlob is
	// closed depends on the implementation.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a blob atomically in one call.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a name that doesn't exist is not
	// an error.
	Delete(ctx context.Context, name string) error
	// List returns the names of every blob whose name starts with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at offset off, io.ReaderAt-style.
	// ctx bounds backends that issue a network call per read.
	ReadAt(ctx context.Context, p []byte, off int64) (n int, err error)
	// ReadRange streams [off, off+length) without buffering it all in memory.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is a streaming handle for writing a new blob.
type WritableBlob interface {
	io.Writer
	io.Closer
	// Sync flushes buffered writes to the backing store without closing
	// the blob. Backends that only commit on Close (e.g. S3 multipart
	// uploads) treat this as a no-op.
	Sync() error
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	// This is a zero-copy operation if supported.
	Bytes() ([]byte, error)
}

// NewBlobID generates a random name suitable for a blob a caller doesn't
// need to address by a meaningful key, e.g. a serialized stream written by
// OptimizeSerializeDestroy and referenced only by the ID handed back here.
func NewBlobID() string {
	return uuid.NewString()
}
