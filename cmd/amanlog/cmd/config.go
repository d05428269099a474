package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/amanlog/internal/config"
	"github.com/Aman-CERP/amanlog/internal/output"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or manage configuration",
		Long: `Print the effective configuration after merging defaults, the user
config, --config, AMANLOG_* environment variables and flags.

Environment variables:
  AMANLOG_VERBOSE          true/false
  AMANLOG_FILE             active log file
  AMANLOG_ARCHIVE_PATTERN  archive name pattern
  AMANLOG_GATING           console or root
  AMANLOG_IMMEDIATE_SYNC   true/false`,
		Example: `  # Show effective configuration
  amanlog config

  # As JSON
  amanlog config --json

  # Save the effective configuration as the user config
  amanlog --verbose config init`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{setupAnnotation: setupConfig},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, opts.cfg, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.AddCommand(newConfigInitCmd(opts))
	cmd.AddCommand(newConfigPathCmd())
	cmd.AddCommand(newConfigBackupsCmd())
	cmd.AddCommand(newConfigRestoreCmd())

	return cmd
}

func runConfigShow(cmd *cobra.Command, cfg *config.Config, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration as the user config",
		Long: `Write the effective configuration to the user config file
($XDG_CONFIG_HOME/amanlog/config.yaml or ~/.config/amanlog/config.yaml).

An existing file is left alone unless --force is given, in which case it is
backed up first.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{setupAnnotation: setupConfig},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, opts.cfg, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing user config (after a backup)")

	return cmd
}

func runConfigInit(cmd *cobra.Command, cfg *config.Config, force bool) error {
	out := output.New(cmd.OutOrStdout())
	configPath := config.GetUserConfigPath()

	var backupPath string
	if config.UserConfigExists() {
		if !force {
			out.Warning("User configuration already exists")
			out.Field("Location", configPath)
			out.Status("", "Use --force to overwrite it (a backup is kept)")
			return nil
		}
		var err error
		if backupPath, err = config.BackupUserConfig(); err != nil {
			return err
		}
	}

	if err := cfg.WriteYAML(configPath); err != nil {
		return err
	}

	out.Success("Wrote user configuration")
	out.Field("Location", configPath)
	if backupPath != "" {
		out.Field("Backup", backupPath)
	}
	return nil
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print user config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func newConfigBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List user config backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backups, err := config.ListUserConfigBackups()
			if err != nil {
				return err
			}
			for _, b := range backups {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), b); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newConfigRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup>",
		Short: "Restore the user config from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.RestoreUserConfig(args[0]); err != nil {
				return err
			}
			output.New(cmd.OutOrStdout()).Successf("Restored %s", config.GetUserConfigPath())
			return nil
		},
	}
}
