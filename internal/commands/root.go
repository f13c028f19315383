package commands

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/errshape/internal/app"
	"github.com/dotcommander/errshape/internal/output"
)

// NewRootCmd builds the command tree without executing it.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "errshape",
		Short:         "Normalize backend error payloads into toast messages and form field issues",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return output.PrintSuccess(resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.EnsureConfigDir(); err != nil {
				return err
			}

			// Wire --db-path into app-level resolver.
			if dbPath, err := cmd.Flags().GetString("db-path"); err == nil && dbPath != "" {
				app.SetDBPathOverride(dbPath)
			}

			return nil
		},
	}

	root.PersistentFlags().String("db-path", "", "Override sample corpus database path")
	root.PersistentFlags().String("resource", "", "Resource that qualifies field paths (default: $ERRSHAPE_RESOURCE)")
	root.PersistentFlags().String("title", "", "Fallback toast title (default: $ERRSHAPE_DEFAULT_TITLE)")
	root.Flags().BoolP("version", "v", false, "version for errshape")

	root.AddCommand(NewParseCmd())
	root.AddCommand(NewExtractCmd())
	root.AddCommand(NewPathCmd())
	root.AddCommand(NewSampleCmd())
	root.AddCommand(NewIngestCmd())
	root.AddCommand(NewDoctorCmd())
	root.AddCommand(NewSchemaCmd(root))

	return root
}

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	err := NewRootCmd(version).Execute()
	if err != nil {
		var pe printedError
		if !errors.As(err, &pe) {
			slog.Error("command failed", "error", err.Error())
		}
	}
	return err
}
