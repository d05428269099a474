package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	logerrors "github.com/Aman-CERP/amanlog/internal/errors"
)

// GatingMode decides which sinks the verbose/quiet level applies to.
type GatingMode int

const (
	// GateConsoleOnly filters only the console; the file captures every level.
	GateConsoleOnly GatingMode = iota
	// GateRoot applies the level at the root, so quiet mode also keeps
	// TRACE and DEBUG out of the file.
	GateRoot
)

// String returns the config spelling of the mode.
func (g GatingMode) String() string {
	switch g {
	case GateConsoleOnly:
		return "console"
	case GateRoot:
		return "root"
	default:
		return "unknown"
	}
}

// ParseGatingMode accepts "console" (or "") and "root".
func ParseGatingMode(s string) (GatingMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "console":
		return GateConsoleOnly, nil
	case "root":
		return GateRoot, nil
	default:
		return GateConsoleOnly, fmt.Errorf("unknown gating mode %q (use: console, root)", s)
	}
}

// Config contains logging configuration.
type Config struct {
	// Verbose selects TRACE instead of INFO as the threshold.
	Verbose bool
	// FilePath is the active log file.
	FilePath string
	// ArchivePattern names rotated files; must hold one "{}" or "{index}".
	ArchivePattern string
	// Policy overrides the default 5 MB / 50 archive rotation policy.
	// Its ArchivePattern wins over the field above when set.
	Policy *RotationPolicy
	// Gating selects where the threshold applies (default: console only).
	Gating GatingMode
	// ImmediateSync fsyncs the file after every record.
	ImmediateSync bool
	// Console is the console sink target (default: os.Stderr).
	Console io.Writer
}

// DefaultConfig returns the quiet configuration at the default paths.
func DefaultConfig() Config {
	return Config{
		FilePath:       DefaultLogPath,
		ArchivePattern: DefaultArchivePattern,
	}
}

// DebugConfig returns configuration for development mode.
func DebugConfig() Config {
	cfg := DefaultConfig()
	cfg.Verbose = true
	return cfg
}

// Level returns the threshold the configuration selects.
func (c Config) Level() slog.Level {
	return LevelForVerbose(c.Verbose)
}

// EffectivePolicy returns the rotation policy New will use.
func (c Config) EffectivePolicy() RotationPolicy {
	if c.Policy != nil {
		p := *c.Policy
		if p.ArchivePattern == "" {
			p.ArchivePattern = c.ArchivePattern
		}
		return p
	}
	return DefaultRotationPolicy(c.ArchivePattern)
}

// Handle owns a configured logging backend: the composed logger and the
// rotating file behind it.
type Handle struct {
	logger *slog.Logger
	level  slog.Level
	writer *RotatingWriter

	closeOnce sync.Once
	closeErr  error
}

// New builds a logging backend from cfg without touching global state.
// On error nothing is left open.
func New(cfg Config) (*Handle, error) {
	if cfg.FilePath == "" {
		return nil, logerrors.New(logerrors.ErrCodeInvalidLogPath, "log file path is empty", nil)
	}

	policy := cfg.EffectivePolicy()
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	writer, err := NewRotatingWriter(cfg.FilePath, policy)
	if err != nil {
		return nil, err
	}
	writer.SetImmediateSync(cfg.ImmediateSync)

	level := cfg.Level()

	// File sink: library-default JSON layout, no filter of its own.
	var file slog.Handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:       LevelTrace,
		ReplaceAttr: replaceLevel,
	})
	if cfg.Gating == GateRoot {
		file = ThresholdFilter(file, level)
	}

	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	stderr := ThresholdFilter(slog.NewTextHandler(console, &slog.HandlerOptions{
		Level:       LevelTrace,
		ReplaceAttr: replaceLevel,
	}), level)

	return &Handle{
		logger: slog.New(newFanout(file, stderr)),
		level:  level,
		writer: writer,
	}, nil
}

// Logger returns the composed logger.
func (h *Handle) Logger() *slog.Logger {
	return h.logger
}

// Level returns the selected threshold.
func (h *Handle) Level() slog.Level {
	return h.level
}

// FilePath returns the active log file path.
func (h *Handle) FilePath() string {
	return h.writer.Path()
}

// Writer returns the rotating file writer.
func (h *Handle) Writer() *RotatingWriter {
	return h.writer
}

// Close flushes and closes the log file. Safe to call more than once.
// An installed handle stays installed; records logged through it afterwards
// reach the console but are dropped by the file sink.
func (h *Handle) Close() error {
	h.closeOnce.Do(func() {
		_ = h.writer.Sync()
		h.closeErr = h.writer.Close()
	})
	return h.closeErr
}
