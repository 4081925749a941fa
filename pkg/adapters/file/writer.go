package file

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aretw0/treeflat/pkg/domain"
)

// LineWriter implements ports.RuleSink by writing one rendered rule per line
// to a buffered io.Writer.
type LineWriter struct {
	buf   *bufio.Writer
	count int
}

// NewLineWriter wraps w. Rules reach w on Flush or when the buffer fills.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{buf: bufio.NewWriter(w)}
}

// Emit writes the rendered rule followed by a newline.
func (l *LineWriter) Emit(ctx context.Context, rule domain.Rule) error {
	if _, err := l.buf.WriteString(rule.String() + "\n"); err != nil {
		return fmt.Errorf("failed to write rule: %w", err)
	}
	l.count++
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (l *LineWriter) Flush(ctx context.Context) error {
	if err := l.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush rules: %w", err)
	}
	return nil
}

// Count returns the number of rules emitted so far.
func (l *LineWriter) Count() int {
	return l.count
}

// AtomicFile is a LineWriter backed by a temp file that replaces the
// destination only on Commit, so a failed run never leaves a truncated output.
type AtomicFile struct {
	*LineWriter
	path string
	tmp  *os.File
	done bool
}

// Create prepares an AtomicFile for path. The temp file lives in the same
// directory so the final rename stays on one filesystem.
func Create(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return &AtomicFile{
		LineWriter: NewLineWriter(tmp),
		path:       path,
		tmp:        tmp,
	}, nil
}

// Commit flushes, fsyncs and renames the temp file onto the destination.
func (a *AtomicFile) Commit(ctx context.Context) error {
	if a.done {
		return nil
	}
	a.done = true
	tmpPath := a.tmp.Name()

	if err := a.Flush(ctx); err != nil {
		_ = a.tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := a.tmp.Sync(); err != nil {
		_ = a.tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Close before rename (cannot rename an open file on Windows).
	if err := a.tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, a.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// Abort discards everything written so far. It is a no-op after Commit.
func (a *AtomicFile) Abort() error {
	if a.done {
		return nil
	}
	a.done = true
	_ = a.tmp.Close()
	return os.Remove(a.tmp.Name())
}
