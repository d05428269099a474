package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/amanlog/internal/logging"
	"github.com/Aman-CERP/amanlog/internal/output"
	"github.com/Aman-CERP/amanlog/pkg/version"
)

// versionReport is the --json form: build info plus the built-in rotation limits.
type versionReport struct {
	version.BuildInfo
	MaxSizeBytes int64 `json:"max_size_bytes"`
	MaxArchives  int   `json:"max_archives"`
}

func newVersionCmd() *cobra.Command {
	var jsonOutput, shortOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the build (version, commit, date, Go version) and the rotation
limits compiled into it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			switch {
			case shortOutput:
				_, err := fmt.Fprintln(w, version.Short())
				return err
			case jsonOutput:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(versionReport{
					BuildInfo:    version.GetInfo(),
					MaxSizeBytes: logging.DefaultMaxSizeBytes,
					MaxArchives:  logging.DefaultMaxArchiveCount,
				})
			}

			if _, err := fmt.Fprintln(w, version.String()); err != nil {
				return err
			}
			out := output.New(w)
			out.Field("Rotation", fmt.Sprintf("past %s, %d archives",
				output.FormatBytes(logging.DefaultMaxSizeBytes), logging.DefaultMaxArchiveCount))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")
	cmd.Flags().BoolVar(&shortOutput, "short", false, "Output only the version number")
	cmd.MarkFlagsMutuallyExclusive("json", "short")

	return cmd
}
