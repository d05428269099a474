package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	logerrors "github.com/Aman-CERP/amanlog/internal/errors"
	"github.com/Aman-CERP/amanlog/internal/logging"
	"github.com/Aman-CERP/amanlog/internal/output"
)

var allLevels = []slog.Level{
	logging.LevelTrace,
	slog.LevelDebug,
	slog.LevelInfo,
	slog.LevelWarn,
	slog.LevelError,
}

func newEmitCmd(opts *rootOptions) *cobra.Command {
	var (
		count   int
		message string
		level   string
	)

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Write log records through the configured logger",
		Long: `Initialize logging and write records at every level (or one level).

Each record goes to the log file; the console shows only records at or
above the selected level. Use a large --count to exercise rotation.`,
		Example: `  # One record per level, console shows INFO and above
  amanlog emit

  # Show TRACE and DEBUG on the console too
  amanlog --verbose emit

  # Fill the file past the rotation limit
  amanlog emit --count 20000 --level info`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{setupAnnotation: setupLogging},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEmit(cmd, opts, count, message, level)
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "Records to write per level")
	cmd.Flags().StringVar(&message, "message", "hello from amanlog", "Record message")
	cmd.Flags().StringVar(&level, "level", "all", "Level to write: all, trace, debug, info, warn, error")

	return cmd
}

// parseEmitLevels resolves --level to the levels to write.
func parseEmitLevels(level string) ([]slog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	switch name {
	case "", "all":
		return allLevels, nil
	case "trace", "debug", "info", "warn", "warning", "error":
		return []slog.Level{logging.LevelFromString(name)}, nil
	default:
		return nil, logerrors.ConfigError(fmt.Sprintf("unknown level %q", level), nil).
			WithSuggestion("use one of: all, trace, debug, info, warn, error")
	}
}

func runEmit(cmd *cobra.Command, opts *rootOptions, count int, message, level string) error {
	if count < 1 {
		return logerrors.ConfigError(fmt.Sprintf("--count must be at least 1, got %d", count), nil)
	}
	levels, err := parseEmitLevels(level)
	if err != nil {
		return err
	}

	logger := opts.handle.Logger().With("component", "emit")
	ctx := cmd.Context()
	for i := 1; i <= count; i++ {
		for _, l := range levels {
			logger.Log(ctx, l, message, slog.Int("seq", i))
		}
	}

	w := opts.handle.Writer()
	out := output.New(cmd.OutOrStdout())
	out.Successf("Wrote %d records", count*len(levels))
	out.Field("File", w.Path())
	out.Field("Size", output.FormatBytes(w.Size()))
	out.Field("Rotations", w.Rotations())
	out.Field("Console level", logging.LevelName(opts.handle.Level()))
	return nil
}
