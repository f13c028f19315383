package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dotcommander/errshape/internal/actions"
	"github.com/dotcommander/errshape/internal/app"
)

// flagString returns the named flag's value from fs, or "" when the flag is
// unset or not defined on this command.
func flagString(fs *pflag.FlagSet, name string) string {
	f := fs.Lookup(name)
	if f == nil || !f.Changed {
		return ""
	}
	return f.Value.String()
}

// resolveParseDefaults resolves resource and title for a command.
// Precedence:
// 1) global flags --resource / --title
// 2) env vars ERRSHAPE_RESOURCE / ERRSHAPE_DEFAULT_TITLE
// 3) config.yaml resource_name / default_title
// 4) built-in defaults
func resolveParseDefaults(cmd *cobra.Command) actions.ParseDefaults {
	fs := cmd.Flags()
	d := app.ResolveEngineDefaults(flagString(fs, "title"), flagString(fs, "resource"))
	return actions.ParseDefaults{Resource: d.ResourceName, Title: d.DefaultTitle}
}
