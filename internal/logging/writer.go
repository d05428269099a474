package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	logerrors "github.com/Aman-CERP/amanlog/internal/errors"
)

// RotatingWriter implements io.Writer with size-triggered, fixed-window rotation.
//
// Write and rotation share one mutex, so a record handed to Write in a
// single call always lands whole in exactly one file. Rotation additionally
// holds a flock on "<path>.lock" so that two processes sharing a log file
// do not both roll it.
type RotatingWriter struct {
	path   string
	policy RotationPolicy

	mu            sync.Mutex
	file          *os.File
	written       int64
	rotations     int
	immediateSync bool
	closed        bool

	lock    *flock.Flock
	breaker *logerrors.CircuitBreaker
	errOut  io.Writer
}

// NewRotatingWriter opens (or creates) the active log file at path.
// The parent directory is created if missing. The policy must be valid.
func NewRotatingWriter(path string, policy RotationPolicy) (*RotatingWriter, error) {
	if path == "" {
		return nil, logerrors.New(logerrors.ErrCodeInvalidLogPath, "log file path is empty", nil)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	w := &RotatingWriter{
		path:    path,
		policy:  policy,
		lock:    flock.New(path + ".lock"),
		breaker: logerrors.NewCircuitBreaker("rotate " + path),
		errOut:  os.Stderr,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, logerrors.IOError("create log directory", err).WithDetail("path", path)
	}
	if err := w.openFile(); err != nil {
		return nil, err
	}

	return w, nil
}

// SetImmediateSync enables or disables fsync after each write.
// When enabled, lines are visible to a follower as soon as Write returns.
func (w *RotatingWriter) SetImmediateSync(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.immediateSync = enabled
}

// Write appends p to the active file and rotates once the file exceeds
// the policy's size limit.
func (w *RotatingWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, os.ErrClosed
	}
	if w.file == nil {
		// A previous rotation could not reopen the file.
		if err := w.openFile(); err != nil {
			return 0, err
		}
	}

	n, err = w.file.Write(p)
	w.written += int64(n)
	if err != nil {
		return n, err
	}

	if w.immediateSync {
		_ = w.file.Sync()
	}

	if w.written > w.policy.MaxSizeBytes {
		rerr := w.breaker.Execute(w.rotate)
		if rerr != nil && !errors.Is(rerr, logerrors.ErrCircuitOpen) {
			// Keep writing to whatever file is open.
			_, _ = fmt.Fprintf(w.errOut, "log rotation failed: %v\n", rerr)
		}
	}

	return n, nil
}

// Close closes the underlying file. Later writes fail with os.ErrClosed.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Sync flushes the file to disk.
func (w *RotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Sync()
	}
	return nil
}

// Path returns the active file path.
func (w *RotatingWriter) Path() string {
	return w.path
}

// Policy returns the rotation policy.
func (w *RotatingWriter) Policy() RotationPolicy {
	return w.policy
}

// Size returns the number of bytes in the active file.
func (w *RotatingWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.written
}

// Rotations returns how many rotations this writer performed.
func (w *RotatingWriter) Rotations() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rotations
}

// openFile opens or creates the active log file. Caller holds w.mu
// (or owns w exclusively during construction).
func (w *RotatingWriter) openFile() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return logerrors.IOError("open log file", err).WithDetail("path", w.path)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return logerrors.IOError("stat log file", err).WithDetail("path", w.path)
	}

	w.file = f
	w.written = info.Size()
	return nil
}

// rotate closes the active file, rolls the archive window and opens a
// fresh active file. Caller holds w.mu.
func (w *RotatingWriter) rotate() error {
	if err := w.lock.Lock(); err != nil {
		return logerrors.New(logerrors.ErrCodeLockFailed, "acquire rotation lock", err).
			WithDetail("path", w.lock.Path())
	}
	defer func() { _ = w.lock.Unlock() }()

	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return logerrors.New(logerrors.ErrCodeRotationFailed, "close log file", err)
		}
		w.file = nil
	}

	// Another process sharing the file may have rolled it while we waited.
	if info, err := os.Stat(w.path); err == nil && info.Size() <= w.policy.MaxSizeBytes {
		return w.openFile()
	}

	if err := w.roll(); err != nil {
		if oerr := w.openFile(); oerr != nil {
			return errors.Join(err, oerr)
		}
		return err
	}

	w.rotations++
	return w.openFile()
}

// roll shifts archives up by one and moves the active file into the
// first slot: active -> start, start -> start+1, ..., last is deleted.
func (w *RotatingWriter) roll() error {
	p := w.policy
	last := p.LastIndex()

	if err := os.Remove(p.ArchivePath(last)); err != nil && !os.IsNotExist(err) {
		return rotationError("delete oldest archive", p.ArchivePath(last), "", err)
	}

	for i := last - 1; i >= p.StartIndex; i-- {
		src, dst := p.ArchivePath(i), p.ArchivePath(i+1)
		if err := moveFile(src, dst); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return rotationError("shift archive", src, dst, err)
		}
	}

	dst := p.ArchivePath(p.StartIndex)
	if err := moveFile(w.path, dst); err != nil && !os.IsNotExist(err) {
		return rotationError("archive log file", w.path, dst, err)
	}
	return nil
}

func moveFile(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.Rename(src, dst)
}

func rotationError(msg, from, to string, cause error) error {
	e := logerrors.New(logerrors.ErrCodeRotationFailed, msg, cause).WithDetail("from", from)
	if to != "" {
		e = e.WithDetail("to", to)
	}
	return e
}
