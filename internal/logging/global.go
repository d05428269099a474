package logging

import (
	"fmt"
	"log/slog"
	"sync"

	logerrors "github.com/Aman-CERP/amanlog/internal/errors"
)

// ErrAlreadyInitialized matches (via errors.Is) the error returned when a
// second installation is attempted.
var ErrAlreadyInitialized = logerrors.New(logerrors.ErrCodeAlreadyInitialized,
	"global logger already initialized", nil)

var (
	globalMu sync.Mutex
	global   *Handle
)

// Initialize builds the file and console sinks and installs them as the
// process-wide logger. verbose selects TRACE instead of INFO; archivePattern
// must hold exactly one "{}" or "{index}" placeholder.
//
// Only the first successful call installs anything; later calls return an
// error matching ErrAlreadyInitialized.
func Initialize(verbose bool, filePath, archivePattern string) error {
	_, err := Install(Config{
		Verbose:        verbose,
		FilePath:       filePath,
		ArchivePattern: archivePattern,
	})
	return err
}

// Install is Initialize with full configuration. It returns the installed
// handle so the owner can pass the logger on explicitly.
func Install(cfg Config) (*Handle, error) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global != nil {
		return nil, logerrors.New(logerrors.ErrCodeAlreadyInitialized,
			fmt.Sprintf("global logger already initialized (writing to %s)", global.FilePath()), nil)
	}

	h, err := New(cfg)
	if err != nil {
		return nil, err
	}

	global = h
	slog.SetDefault(h.Logger())
	return h, nil
}

// Installed returns the installed handle, or nil.
func Installed() *Handle {
	globalMu.Lock()
	defer globalMu.Unlock()
	return global
}

// L returns the installed logger, falling back to slog.Default().
func L() *slog.Logger {
	if h := Installed(); h != nil {
		return h.Logger()
	}
	return slog.Default()
}
