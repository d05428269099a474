// Package cmd provides the CLI commands for amanlog.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanlog/internal/config"
	logerrors "github.com/Aman-CERP/amanlog/internal/errors"
	"github.com/Aman-CERP/amanlog/internal/logging"
	"github.com/Aman-CERP/amanlog/internal/profiling"
	"github.com/Aman-CERP/amanlog/pkg/version"
)

// Values of the setup annotation. Commands without it skip config loading.
const (
	setupAnnotation = "amanlog/setup"
	setupConfig     = "config"
	setupLogging    = "logging"
)

// installFunc builds the logging backend for a command.
type installFunc func(logging.Config) (*logging.Handle, error)

// rootOptions carries flag values and per-run state shared by subcommands.
type rootOptions struct {
	verbose        bool
	file           string
	archivePattern string
	configPath     string
	gating         string
	immediateSync  bool
	profile        profiling.Options

	install  installFunc
	cfg      *config.Config
	handle   *logging.Handle
	profiler *profiling.Profiler
}

// NewRootCmd creates the root command for the amanlog CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(logging.Install)
}

func newRootCmd(install installFunc) *cobra.Command {
	opts := &rootOptions{install: install}

	cmd := &cobra.Command{
		Use:   "amanlog",
		Short: "Rotating file and console logging for a process",
		Long: `amanlog configures process-wide logging: every record goes to a
size-rotated JSON log file and, at or above the selected level, to stderr.

The active file rotates once it grows past 5,000,000 bytes. Rotated files
are named from the archive pattern, index 1 newest, and at most 50 are kept.

Configuration precedence (lowest to highest):
  1. Defaults (log/file.log, archive/file.{}.log)
  2. User config ($XDG_CONFIG_HOME/amanlog/config.yaml)
  3. --config file
  4. Environment variables (AMANLOG_*)
  5. Flags`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return opts.teardown()
		},
	}

	cmd.SetVersionTemplate("amanlog version {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Send TRACE and DEBUG records to the console")
	pf.StringVar(&opts.file, "file", "", "Active log file (default log/file.log)")
	pf.StringVar(&opts.archivePattern, "archive-pattern", "", `Archive name pattern with one "{}" or "{index}" (default archive/file.{}.log)`)
	pf.StringVar(&opts.configPath, "config", "", "Config file to load over the user config")
	pf.StringVar(&opts.gating, "gating", "", "Where the level applies: console (file keeps everything) or root")
	pf.BoolVar(&opts.immediateSync, "immediate-sync", false, "fsync the log file after every record")
	pf.StringVar(&opts.profile.CPU, "profile-cpu", "", "Write CPU profile to file")
	pf.StringVar(&opts.profile.Heap, "profile-mem", "", "Write memory profile to file")
	pf.StringVar(&opts.profile.Trace, "profile-trace", "", "Write execution trace to file")

	cmd.AddCommand(newEmitCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprint(os.Stderr, logerrors.FormatForCLI(err))
	}
	return err
}

// setup loads configuration, starts profiling and installs logging,
// depending on what cmd declares it needs.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	if o.profile.Enabled() {
		o.profiler = profiling.NewProfiler(o.profile)
		if err := o.profiler.Start(); err != nil {
			o.profiler = nil
			return err
		}
	}

	need := cmd.Annotations[setupAnnotation]
	if need == "" {
		return nil
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg

	if need != setupLogging {
		return nil
	}

	lc, err := cfg.ToLogging()
	if err != nil {
		return err
	}
	h, err := o.install(lc)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	o.handle = h

	h.Logger().Debug("logging initialized",
		"file", lc.FilePath,
		"archive_pattern", lc.ArchivePattern,
		"level", logging.LevelName(h.Level()),
		"gating", lc.Gating.String())
	return nil
}

// applyFlags copies explicitly set flags over cfg.
func (o *rootOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Logging.Verbose = o.verbose
	}
	if flags.Changed("file") {
		cfg.Logging.File = o.file
	}
	if flags.Changed("archive-pattern") {
		cfg.Logging.ArchivePattern = o.archivePattern
	}
	if flags.Changed("gating") {
		cfg.Logging.Gating = o.gating
	}
	if flags.Changed("immediate-sync") {
		cfg.Logging.ImmediateSync = o.immediateSync
	}
}

// teardown flushes the log file and writes requested profiles.
func (o *rootOptions) teardown() error {
	var errs []error
	if o.handle != nil {
		o.handle.Logger().Debug("command finished")
		errs = append(errs, o.handle.Writer().Sync())
	}
	if o.profiler != nil {
		errs = append(errs, o.profiler.Stop())
		o.profiler = nil
	}
	return errors.Join(errs...)
}
