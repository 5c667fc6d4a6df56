package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// Sink receives a finished document
type Sink interface {
	Deliver(ctx context.Context, name string, data []byte) error
}

// FileSink writes documents into Dir on Fs.
// Data goes to a temp file first and is renamed into place, so a failed
// write never leaves a partial document under the final name.
type FileSink struct {
	Fs  afero.Fs
	Dir string
}

// NewFileSink creates a sink on the OS filesystem
func NewFileSink(dir string) *FileSink {
	return &FileSink{Fs: afero.NewOsFs(), Dir: dir}
}

// Path returns the final location of name
func (s *FileSink) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Deliver implements Sink
func (s *FileSink) Deliver(ctx context.Context, name string, data []byte) error {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}

	if err := s.Fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := afero.TempFile(s.Fs, dir, ".invoice-*.pdf.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		s.Fs.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.Fs.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := s.Fs.Rename(tmpName, filepath.Join(dir, name)); err != nil {
		s.Fs.Remove(tmpName)
		return fmt.Errorf("move into place: %w", err)
	}
	return nil
}

// WriterSink streams the whole document to W in one write
type WriterSink struct {
	W io.Writer
}

// Deliver implements Sink
func (s *WriterSink) Deliver(ctx context.Context, name string, data []byte) error {
	n, err := s.W.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return io.ErrShortWrite
	}
	return nil
}

// MemorySink keeps the last delivered document in memory
type MemorySink struct {
	mu   sync.Mutex
	name string
	buf  bytes.Buffer
}

// Deliver implements Sink
func (s *MemorySink) Deliver(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
	s.buf.Reset()
	s.buf.Write(data)
	return nil
}

// Name returns the name of the last delivered document
func (s *MemorySink) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// Bytes returns a copy of the last delivered document
func (s *MemorySink) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.buf.Bytes())
}
