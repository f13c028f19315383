package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotcommander/errshape/internal/actions"
	"github.com/dotcommander/errshape/internal/models"
	"github.com/dotcommander/errshape/internal/output"
	"github.com/dotcommander/errshape/internal/store"
	"github.com/dotcommander/errshape/pkg/errshape"
)

// NewSampleCmd creates the sample command group.
func NewSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Manage the corpus of captured error payloads",
		Long:  "Record real error payloads with their normalized result, then replay them to catch drift.",
	}

	cmd.AddCommand(newSampleAddCmd())
	cmd.AddCommand(newSampleGetCmd())
	cmd.AddCommand(newSampleListCmd())
	cmd.AddCommand(newSampleDeleteCmd())
	cmd.AddCommand(newSampleReplayCmd())
	cmd.AddCommand(newSampleStatsCmd())
	return cmd
}

func newSampleAddCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "add [file|-]",
		Short: "Record an error payload in the corpus",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readInput(cmd, args)
			if err != nil {
				return cmdErr(err)
			}
			d := resolveParseDefaults(cmd)

			type resp struct {
				Sample  *models.Sample `json:"sample"`
				Created bool           `json:"created"`
			}
			var out resp
			if err := withDB(func(db *DB) error {
				s, created, err := actions.RecordSample(db, body, source, d)
				if err != nil {
					return err
				}
				out = resp{Sample: s, Created: created}
				return nil
			}); err != nil {
				return err
			}
			return output.PrintSuccess(out)
		},
	}

	cmd.Flags().StringVar(&source, "source", models.SourceCLI, "Where the payload was captured")
	return cmd
}

// sampleIDArg takes the sample id from --id or the single positional argument.
func sampleIDArg(cmd *cobra.Command, args []string) (string, error) {
	id, _ := cmd.Flags().GetString("id")
	if len(args) > 0 {
		if id != "" && id != args[0] {
			return "", fmt.Errorf("conflicting ids: --id=%s and argument %s", id, args[0])
		}
		id = args[0]
	}
	if id == "" {
		return "", errors.New("sample id is required (argument or --id)")
	}
	return id, nil
}

func newSampleGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one sample",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sampleIDArg(cmd, args)
			if err != nil {
				return cmdErr(err)
			}

			var sample *models.Sample
			if err := withDB(func(db *DB) error {
				s, err := store.GetSample(db, id)
				if err != nil {
					return err
				}
				sample = s
				return nil
			}); err != nil {
				return err
			}
			return output.PrintSuccess(sample)
		},
	}
	cmd.Flags().String("id", "", "Sample id")
	return cmd
}

func newSampleListCmd() *cobra.Command {
	var (
		origin string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List samples, newest first (filter by resource with the global --resource)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Only an explicit --resource filters; env and config defaults do not.
			filter := models.SampleFilter{Resource: flagString(cmd.Flags(), "resource"), Limit: limit}
			if origin != "" {
				o, err := errshape.ParseOrigin(origin)
				if err != nil {
					return cmdErr(err)
				}
				filter.Origin = o
			}

			var samples []*models.Sample
			if err := withDB(func(db *DB) error {
				s, err := store.ListSamples(db, filter)
				if err != nil {
					return err
				}
				samples = s
				return nil
			}); err != nil {
				return err
			}

			type resp struct {
				Samples []*models.Sample `json:"samples"`
				Count   int              `json:"count"`
			}
			if samples == nil {
				samples = []*models.Sample{}
			}
			return output.PrintSuccess(resp{Samples: samples, Count: len(samples)})
		},
	}

	cmd.Flags().StringVar(&origin, "origin", "", "Origin filter: connector_structured_validation|gateway_structured_validation|generic_message|unrecognized")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum samples to return (0 = all)")
	return cmd
}

func newSampleDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a sample from the corpus",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := sampleIDArg(cmd, args)
			if err != nil {
				return cmdErr(err)
			}
			if err := withDB(func(db *DB) error {
				return store.DeleteSample(db, id)
			}); err != nil {
				return err
			}

			type resp struct {
				ID      string `json:"id"`
				Deleted bool   `json:"deleted"`
			}
			return output.PrintSuccess(resp{ID: id, Deleted: true})
		},
	}
	cmd.Flags().String("id", "", "Sample id")
	return cmd
}

func newSampleReplayCmd() *cobra.Command {
	var accept bool

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-parse every sample and report results that changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report *models.ReplayReport
			if err := withDB(func(db *DB) error {
				r, err := actions.ReplaySamples(db, accept)
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

	cmd.Flags().BoolVar(&accept, "accept", false, "Store the current result for drifted samples")
	return cmd
}

func newSampleStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show corpus totals per origin and resource",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var stats *store.CorpusStats
			if err := withDB(func(db *DB) error {
				s, err := store.Stats(db)
				if err != nil {
					return err
				}
				stats = s
				return nil
			}); err != nil {
				return err
			}
			return output.PrintSuccess(stats)
		},
	}
}
