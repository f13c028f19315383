package commands

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/errshape/internal/app"
	"github.com/dotcommander/errshape/internal/output"
	"github.com/dotcommander/errshape/internal/store"
)

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, database connectivity and corpus consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath, dbSource, err := app.ResolveDBPathDetailed()
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				DBPath        string             `json:"db_path"`
				DBSource      string             `json:"db_source"`
				DBOK          bool               `json:"db_ok"`
				DBErr         string             `json:"db_error,omitempty"`
				SchemaVersion int64              `json:"schema_version"`
				SchemaLatest  int64              `json:"schema_latest"`
				Defaults      any                `json:"defaults"`
				Cache         app.CacheSettings  `json:"cache"`
				Diagnostics   []store.Diagnostic `json:"diagnostics"`
				Hint          string             `json:"hint,omitempty"`
			}
			out := resp{
				DBPath:      dbPath,
				DBSource:    dbSource,
				Defaults:    resolveParseDefaults(cmd),
				Cache:       app.EffectiveCacheSettings(),
				Diagnostics: []store.Diagnostic{},
			}

			db, err := store.InitDBWithPath(dbPath)
			if err != nil {
				out.DBErr = err.Error()
				out.Hint = "If this is running in a sandboxed environment, set db_path to a writable location or use --db-path."
				return output.PrintSuccess(out)
			}
			defer db.Close()

			out.DBOK = true
			if out.SchemaVersion, out.SchemaLatest, err = store.SchemaVersion(db); err != nil {
				return cmdErr(err)
			}
			diags, err := store.RunDiagnostics(db)
			if err != nil {
				return cmdErr(err)
			}
			if diags != nil {
				out.Diagnostics = diags
			}
			return output.PrintSuccess(out)
		},
	}
}
