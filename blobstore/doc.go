// Package blobstore provides a storage abstraction for the immutable
// serialized bit-vector streams Serialize/SerializeIntoResizable produce.
//
// BlobStore is the interface for reading and writing named blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, mmap-backed reads
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3, range reads and multipart uploads
//   - minio.Store: MinIO and other S3-compatible object stores
//
// # Custom Implementations
//
// Implement BlobStore to support another backend:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Blob additionally exposes ReadRange for backends (S3, MinIO) where a
// partial read is cheaper as a streamed range request than a buffered
// ReadAt:
//
//	type Blob interface {
//	    ReadAt(ctx, p, off) (int, error)
//	    ReadRange(ctx, off, length int64) (io.ReadCloser, error)
//	    io.Closer
//	    Size() int64
//	}
package blobstore
