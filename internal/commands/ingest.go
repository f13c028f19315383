package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/errshape/internal/actions"
	"github.com/dotcommander/errshape/internal/output"
)

// NewIngestCmd creates the ingest command.
func NewIngestCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Import a JSON-lines capture file into the sample corpus",
		Long: `Each non-blank line is either a raw error body or an envelope:
  {"resource": "invoice", "title": "Could not save invoice", "source": "qa", "error": <payload>}
Envelope fields override --resource and --title for that line. Lines that are
not valid JSON are counted and skipped. Re-ingesting the same file is safe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := resolveParseDefaults(cmd)

			if dryRun {
				report, err := actions.IngestFile(nil, args[0], true, d)
				if err != nil {
					return cmdErr(err)
				}
				return output.PrintSuccess(report)
			}

			var report *actions.IngestReport
			if err := withDB(func(db *DB) error {
				r, err := actions.IngestFile(db, args[0], false, d)
				if err != nil {
					return err
				}
				report = r
				return nil
			}); err != nil {
				return err
			}
			return output.PrintSuccess(report)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be imported without writing")
	return cmd
}
