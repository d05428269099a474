package logging

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/amanlog/internal/ui"
)

// LogEntry represents a parsed JSON log line.
type LogEntry struct {
	Time    time.Time
	Level   string
	Msg     string
	Source  string         // file the line came from
	Attrs   map[string]any // additional attributes
	Raw     string         // original line
	IsValid bool           // whether JSON parsing succeeded
}

// ViewerConfig configures the log viewer.
type ViewerConfig struct {
	Level        string         // minimum level (trace, debug, info, warn, error)
	Pattern      *regexp.Regexp // filter by pattern
	NoColor      bool           // disable colors
	ShowSource   bool           // prefix lines with the file they came from
	PollInterval time.Duration  // follow fallback poll (default 250ms)
}

// Viewer provides log viewing and filtering capabilities.
type Viewer struct {
	config ViewerConfig
	styles ui.Styles
	out    io.Writer
}

// NewViewer creates a new log viewer.
func NewViewer(cfg ViewerConfig, out io.Writer) *Viewer {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 250 * time.Millisecond
	}
	return &Viewer{
		config: cfg,
		styles: ui.StylesFor(out, cfg.NoColor),
		out:    out,
	}
}

// Tail reads the last n lines from a log file and returns matching entries.
// n <= 0 returns no entries.
func (v *Viewer) Tail(path string, n int) ([]LogEntry, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	var entries []LogEntry
	for _, line := range lines {
		entry := v.parseLineWithSource(line, filepath.Base(path))
		if v.matchesFilter(entry) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// TailMultiple reads the active file and its archives and returns the last n
// matching entries ordered by timestamp.
func (v *Viewer) TailMultiple(paths []string, n int) ([]LogEntry, error) {
	if n <= 0 {
		return nil, nil
	}
	var all []LogEntry
	for _, path := range paths {
		entries, err := v.Tail(path, n)
		if err != nil {
			// An archive may be rolled away between listing and reading.
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		all = append(all, entries...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Time.Before(all[j].Time)
	})

	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var lines []string
	scanner := bufio.NewScanner(file)
	const maxCapacity = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxCapacity)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file %s: %w", path, err)
	}
	return lines, nil
}

// Follow streams new entries appended to path until ctx is cancelled.
// When the file is rotated away, the rest of the old file is drained and
// following continues from the start of the new active file.
func (v *Viewer) Follow(ctx context.Context, path string, entries chan<- LogEntry) error {
	t, err := openTail(path, true)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { t.close() }()

	var events <-chan fsnotify.Event
	var watchErrs <-chan error
	if w, err := fsnotify.NewWatcher(); err == nil {
		defer func() { _ = w.Close() }()
		if err := w.Add(filepath.Dir(path)); err == nil {
			events, watchErrs = w.Events, w.Errors
		}
	}

	ticker := time.NewTicker(v.config.PollInterval)
	defer ticker.Stop()

	source := filepath.Base(path)
	emit := func(line string) bool {
		entry := v.parseLineWithSource(line, source)
		if !v.matchesFilter(entry) {
			return true
		}
		select {
		case entries <- entry:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if t, err = reopenIfRotated(t, path, emit); err != nil {
				return nil
			}
		case _, ok := <-watchErrs:
			// Polling below still picks up writes.
			if !ok {
				watchErrs = nil
			}
		case <-ticker.C:
			if t, err = reopenIfRotated(t, path, emit); err != nil {
				return nil
			}
		}
	}
}

// reopenIfRotated drains t and, when path now names a new file, switches
// to it from the start. It returns errStopped once emit gives up.
func reopenIfRotated(t *tail, path string, emit func(string) bool) (*tail, error) {
	if !t.drain(emit) {
		return t, errStopped
	}
	if !t.rotated(path) {
		return t, nil
	}
	nt, err := openTail(path, false)
	if err != nil {
		return t, nil
	}
	if !t.drain(emit) {
		nt.close()
		return t, errStopped
	}
	t.close()
	return nt, nil
}

var errStopped = errors.New("follow stopped")

// FollowMultiple follows every path concurrently into one channel.
func (v *Viewer) FollowMultiple(ctx context.Context, paths []string, entries chan<- LogEntry) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			return v.Follow(gctx, path, entries)
		})
	}
	return g.Wait()
}

// tail reads complete lines from an open file, keeping a partial last line
// until its newline arrives.
type tail struct {
	file    *os.File
	reader  *bufio.Reader
	partial string
}

func openTail(path string, fromEnd bool) (*tail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if fromEnd {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	return &tail{file: f, reader: bufio.NewReader(f)}, nil
}

func (t *tail) drain(emit func(string) bool) bool {
	for {
		chunk, err := t.reader.ReadString('\n')
		if err != nil {
			t.partial += chunk
			return true
		}
		line := strings.TrimSuffix(t.partial+chunk, "\n")
		t.partial = ""
		if line == "" {
			continue
		}
		if !emit(line) {
			return false
		}
	}
}

// rotated reports whether path now names a different file than t reads.
func (t *tail) rotated(path string) bool {
	cur, err := os.Stat(path)
	if err != nil {
		return false
	}
	open, err := t.file.Stat()
	if err != nil {
		return true
	}
	return !os.SameFile(cur, open)
}

func (t *tail) close() {
	_ = t.file.Close()
}

// parseLineWithSource parses a JSON log line and sets the source if not present.
func (v *Viewer) parseLineWithSource(line, defaultSource string) LogEntry {
	entry := v.parseLine(line)
	if entry.Source == "" {
		entry.Source = defaultSource
	}
	return entry
}

// FormatEntry formats a log entry for display.
func (v *Viewer) FormatEntry(entry LogEntry) string {
	if !entry.IsValid {
		return entry.Raw
	}

	timestamp := v.styles.Time.Render(entry.Time.Format("15:04:05.000"))
	level := v.formatLevel(entry.Level)

	sourceLabel := ""
	if v.config.ShowSource && entry.Source != "" {
		sourceLabel = v.styles.Source.Render("["+entry.Source+"]") + " "
	}

	keys := make([]string, 0, len(entry.Attrs))
	for k := range entry.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var attrs []string
	for _, k := range keys {
		attrs = append(attrs, fmt.Sprintf("%s=%v", k, entry.Attrs[k]))
	}
	attrStr := ""
	if len(attrs) > 0 {
		attrStr = " " + strings.Join(attrs, " ")
	}

	return fmt.Sprintf("%s %s %s%s%s", timestamp, level, sourceLabel, entry.Msg, attrStr)
}

// Print prints entries to the output.
func (v *Viewer) Print(entries []LogEntry) {
	for _, entry := range entries {
		_, _ = fmt.Fprintln(v.out, v.FormatEntry(entry))
	}
}

// parseLine parses a JSON log line into LogEntry.
func (v *Viewer) parseLine(line string) LogEntry {
	entry := LogEntry{Raw: line}

	var data map[string]any
	if err := json.Unmarshal([]byte(line), &data); err != nil {
		return entry
	}
	entry.IsValid = true

	if t, ok := data["time"].(string); ok {
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			entry.Time = parsed
		}
	}
	if l, ok := data["level"].(string); ok {
		entry.Level = l
	}
	if m, ok := data["msg"].(string); ok {
		entry.Msg = m
	}
	if s, ok := data["source"].(string); ok {
		entry.Source = s
	}

	entry.Attrs = make(map[string]any)
	for k, val := range data {
		switch k {
		case "time", "level", "msg", "source":
		default:
			entry.Attrs[k] = val
		}
	}

	return entry
}

// matchesFilter checks if an entry matches the configured filters.
func (v *Viewer) matchesFilter(entry LogEntry) bool {
	if v.config.Level != "" && entry.IsValid {
		if LevelFromString(entry.Level) < LevelFromString(v.config.Level) {
			return false
		}
	}

	if v.config.Pattern != nil && !v.config.Pattern.MatchString(entry.Raw) {
		return false
	}

	return true
}

// formatLevel pads the level to five columns and colours it.
func (v *Viewer) formatLevel(level string) string {
	levelStr := strings.ToUpper(level)
	if len(levelStr) > 5 {
		levelStr = levelStr[:5]
	}
	return v.styles.ForLevel(strings.ToUpper(level)).Render(fmt.Sprintf("%-5s", levelStr))
}
