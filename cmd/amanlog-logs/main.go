// Package main provides the amanlog-logs command, a viewer for the JSON
// log files written by amanlog.
//
// Usage:
//
//	amanlog-logs [flags]
//
// Flags:
//
//	-f, --follow                  Follow log output (like tail -f), across rotations
//	-n, --lines int               Number of lines to show (default 50)
//	    --level string            Minimum level (trace|debug|info|warn|error)
//	    --filter string           Filter by pattern (regex)
//	    --no-color                Disable colored output
//	    --file strings            Active log file, repeatable (default log/file.log)
//	    --archive-pattern string  Archive name pattern (default archive/file.{}.log)
//	    --archives                Include rotated archives
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	logerrors "github.com/Aman-CERP/amanlog/internal/errors"
	"github.com/Aman-CERP/amanlog/internal/logging"
	"github.com/Aman-CERP/amanlog/pkg/version"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprint(os.Stderr, logerrors.FormatForCLI(err))
		os.Exit(1)
	}
}

type logsOptions struct {
	follow         bool
	lines          int
	level          string
	filter         string
	noColor        bool
	logFiles       []string
	archivePattern string
	archives       bool
}

func newRootCmd() *cobra.Command {
	var opts logsOptions

	cmd := &cobra.Command{
		Use:   "amanlog-logs",
		Short: "View amanlog log files",
		Long: `View and tail the JSON log file written by amanlog.

By default, shows the last 50 lines of the active file. With --archives the
rotated files are read too and entries are merged by timestamp. Use -f to
follow new entries; following continues across rotations.

Examples:
  amanlog-logs                          # Last 50 lines of log/file.log
  amanlog-logs --archives -n 500        # Include rotated archives
  amanlog-logs -f                       # Follow in real time
  amanlog-logs -f --file a.log --file b.log  # Follow two logs at once
  amanlog-logs --level trace            # Everything, including TRACE
  amanlog-logs --level error            # Errors only
  amanlog-logs --filter "rotation"      # Filter by pattern`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogs(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.follow, "follow", "f", false, "Follow log output (like tail -f)")
	cmd.Flags().IntVarP(&opts.lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&opts.level, "level", "", "Minimum level (trace|debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Filter by keyword/pattern (regex)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringSliceVar(&opts.logFiles, "file", []string{logging.DefaultLogPath}, "Active log file (repeat or comma-separate for several)")
	cmd.Flags().StringVar(&opts.archivePattern, "archive-pattern", logging.DefaultArchivePattern, "Archive name pattern")
	cmd.Flags().BoolVar(&opts.archives, "archives", false, "Include rotated archives")

	return cmd
}

func runLogs(ctx context.Context, stdout, stderr io.Writer, opts logsOptions) error {
	if opts.lines < 1 {
		return logerrors.ConfigError(fmt.Sprintf("--lines must be at least 1, got %d", opts.lines), nil)
	}

	paths, err := resolvePaths(opts)
	if err != nil {
		return err
	}

	var pattern *regexp.Regexp
	if opts.filter != "" {
		pattern, err = regexp.Compile(opts.filter)
		if err != nil {
			return logerrors.ConfigError("invalid filter pattern", err)
		}
	}

	viewer := logging.NewViewer(logging.ViewerConfig{
		Level:      opts.level,
		Pattern:    pattern,
		NoColor:    opts.noColor,
		ShowSource: len(paths) > 1,
	}, stdout)

	if len(paths) == 1 {
		fmt.Fprintf(stderr, "Log file: %s\n", paths[0])
	} else {
		fmt.Fprintf(stderr, "Log files: %s\n", strings.Join(paths, ", "))
	}
	if opts.follow {
		fmt.Fprintln(stderr, "Following... (Ctrl+C to stop)")
	}
	fmt.Fprintln(stderr, "---")

	if opts.follow {
		if len(paths) == 1 {
			return runFollow(ctx, viewer, stdout, stderr, paths[0])
		}
		return runFollowMultiple(ctx, viewer, stdout, stderr, paths)
	}

	entries, err := viewer.TailMultiple(paths, opts.lines)
	if err != nil {
		return err
	}
	viewer.Print(entries)
	return nil
}

// resolvePaths lists the files to read, oldest first. Archives (from the
// one --archive-pattern) are listed ahead of the first active file; they
// are skipped when following because they never grow.
func resolvePaths(opts logsOptions) ([]string, error) {
	files := opts.logFiles
	if len(files) == 0 {
		files = []string{logging.DefaultLogPath}
	}

	seen := make(map[string]bool)
	var paths []string
	for i, file := range files {
		found, err := logging.FindLogFiles(file, opts.archivePattern, i == 0 && opts.archives && !opts.follow)
		if err != nil {
			return nil, logerrors.IOError("no log file to read", err).
				WithSuggestion("run 'amanlog emit' or pass --file")
		}
		for _, p := range found {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	return paths, nil
}

func runFollow(ctx context.Context, viewer *logging.Viewer, stdout, stderr io.Writer, path string) error {
	return stream(ctx, viewer, stdout, stderr, func(ctx context.Context, entries chan<- logging.LogEntry) error {
		return viewer.Follow(ctx, path, entries)
	})
}

func runFollowMultiple(ctx context.Context, viewer *logging.Viewer, stdout, stderr io.Writer, paths []string) error {
	return stream(ctx, viewer, stdout, stderr, func(ctx context.Context, entries chan<- logging.LogEntry) error {
		return viewer.FollowMultiple(ctx, paths, entries)
	})
}

// stream prints entries produced by follow until it fails or the context
// (or SIGINT/SIGTERM) stops it.
func stream(ctx context.Context, viewer *logging.Viewer, stdout, stderr io.Writer,
	follow func(context.Context, chan<- logging.LogEntry) error) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	entries := make(chan logging.LogEntry, 100)
	errCh := make(chan error, 1)

	go func() {
		errCh <- follow(ctx, entries)
	}()

	for {
		select {
		case entry := <-entries:
			fmt.Fprintln(stdout, viewer.FormatEntry(entry))
		case err := <-errCh:
			return err
		case <-ctx.Done():
			fmt.Fprintln(stderr, "\n---")
			fmt.Fprintln(stderr, "Stopped.")
			return nil
		}
	}
}
