package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dotcommander/errshape/internal/actions"
	"github.com/dotcommander/errshape/internal/app"
	"github.com/dotcommander/errshape/internal/output"
	"github.com/dotcommander/errshape/pkg/cache"
	"github.com/dotcommander/errshape/pkg/errshape"
)

// NewParseCmd creates the parse command.
func NewParseCmd() *cobra.Command {
	var jsonl bool

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Normalize an error payload into toast title, description and form issues",
		Long: `Reads one error payload (JSON or plain text) from a file or stdin and prints
the normalized result. With --jsonl every non-blank line is a separate payload;
repeated payloads are answered from an in-process cache.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := resolveParseDefaults(cmd)

			if jsonl {
				r, _, err := openInput(cmd, args)
				if err != nil {
					return cmdErr(err)
				}
				defer func() { _ = r.Close() }()

				cs := app.EffectiveCacheSettings()
				res, err := actions.ParseBatch(r, d, cache.NewLRU(cs.EntriesPerResource), cache.WithTTL(cs.TTL))
				if err != nil {
					return cmdErr(err)
				}
				return output.PrintSuccess(res)
			}

			body, err := readInput(cmd, args)
			if err != nil {
				return cmdErr(err)
			}
			return output.PrintSuccess(actions.ParsePayload(body, d))
		},
	}

	cmd.Flags().BoolVar(&jsonl, "jsonl", false, "Treat input as JSON lines, one payload per line")
	return cmd
}

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Show the most specific message found in an error payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd, args)
			if err != nil {
				return cmdErr(err)
			}

			type resp struct {
				errshape.ExtractionResult
				Found bool `json:"found"`
			}
			r := actions.ExtractPayload(body, resolveParseDefaults(cmd))
			return output.PrintSuccess(resp{ExtractionResult: r, Found: r.Found()})
		},
	}
}

// NewPathCmd creates the path command.
func NewPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <raw>",
		Short: "Normalize one connector field path (e.g. Lines[0].TaxCode.UID)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return cmdErr(errors.New("path is required"))
			}
			d := resolveParseDefaults(cmd)
			segments := errshape.NormalizePath(args[0], d.Resource)

			type resp struct {
				Raw       string   `json:"raw"`
				Resource  string   `json:"resource"`
				IsPath    bool     `json:"is_path"`
				Segments  []string `json:"segments"`
				Canonical string   `json:"canonical,omitempty"`
			}
			issue := errshape.FormIssue{Path: segments}
			return output.PrintSuccess(resp{
				Raw:       args[0],
				Resource:  d.Resource,
				IsPath:    segments != nil,
				Segments:  segments,
				Canonical: issue.PathString(),
			})
		},
	}
}
