package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/bmserial/internal/mmap"
)

// LocalStore implements BlobStore using the local file system.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, name)
}

// Open opens a blob for reading. Deserialize walks a stream block by block
// from the start, so the mapping is advised for sequential access; a caller
// that only ever needs a block range should use ReadRange instead, which
// advises its own Region independently.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	path := s.path(name)
	m, err := mmap.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	_ = m.Advise(mmap.AccessSequential)
	return &localBlob{m: m}, nil
}

// Create opens a blob for streaming writes. The file is created at its
// final path at once, so Open/List see it, partly written, before the
// returned WritableBlob is closed.
func (s *LocalStore) Create(_ context.Context, name string) (WritableBlob, error) {
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &localWritableBlob{f: f}, nil
}

// Put writes a blob atomically in one call.
func (s *LocalStore) Put(_ context.Context, name string, data []byte) error {
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Delete removes a blob.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	if err := os.Remove(s.path(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns the names of every blob under root whose name starts with
// prefix.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, prefix) {
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// localBlob implements Blob over a memory-mapped file.
type localBlob struct {
	m *mmap.Mapping
}

func (b *localBlob) ReadAt(_ context.Context, p []byte, off int64) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	data := b.m.Bytes()
	if off < 0 || off >= int64(len(data)) {
		return 0, io.EOF
	}
	n = copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// ReadRange serves a DeserializeRange-style request for a block range that
// doesn't start at the beginning of the stream, so it is advised for random
// rather than sequential access, independent of the whole-mapping advice
// Open already gave.
func (b *localBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	size := int64(len(b.m.Bytes()))
	if off < 0 || off >= size {
		return nil, io.EOF
	}
	end := off + length
	if end > size {
		end = size
	}
	region, err := b.m.Region(int(off), int(end-off))
	if err != nil {
		return nil, err
	}
	_ = region.Advise(mmap.AccessRandom)
	return io.NopCloser(bytes.NewReader(region.Bytes())), nil
}

func (b *localBlob) Close() error {
	return b.m.Close()
}

func (b *localBlob) Size() int64 {
	return int64(len(b.m.Bytes()))
}

func (b *localBlob) Bytes() ([]byte, error) {
	return b.m.Bytes(), nil
}

// localWritableBlob implements WritableBlob over a plain *os.File.
type localWritableBlob struct {
	f *os.File
}

func (w *localWritableBlob) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

func (w *localWritableBlob) Close() error {
	return w.f.Close()
}

func (w *localWritableBlob) Sync() error {
	return w.f.Sync()
}
