package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/transcripter/transcripter/internal/index"
)

// indexOptions holds CLI flags for index.
type indexOptions struct {
	repair bool
	format string // "text", "json"
}

func newIndexCmd() *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Run one indexing pass over the configured sources",
		Long: `Fetch transcripts for every configured playlist, channel, and video,
chunk them, and store the documents in the search backend.

Videos that are already indexed are skipped. Individual video failures
are logged and never abort the run.

Examples:
  transcripter index
  transcripter index --config my-sources.yml
  transcripter index --repair`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.repair, "repair", false,
		"Re-index videos whose stored chunks have gaps instead of running a normal pass")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, opts indexOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := openStore(cfg)
	defer st.Close()

	src, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}

	ix := newIndexer(cfg, src, st)
	out := cmd.OutOrStdout()

	if opts.repair {
		repaired, err := ix.Repair(ctx)
		if err != nil {
			return err
		}
		if opts.format == "json" {
			return writeJSON(out, map[string]any{"repaired": repaired})
		}
		if len(repaired) == 0 {
			fmt.Fprintln(out, "No partially indexed videos found.")
			return nil
		}
		fmt.Fprintf(out, "Repaired %d video(s):\n", len(repaired))
		for _, id := range repaired {
			fmt.Fprintf(out, "  %s\n", id)
		}
		return nil
	}

	results, err := ix.Run(ctx, cfg.Sources)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		return writeJSON(out, results)
	}
	printResults(out, results)
	return nil
}

func printResults(out io.Writer, results []index.Result) {
	if len(results) == 0 {
		fmt.Fprintln(out, "Nothing to index. Configure sources in the sources file.")
		return
	}
	for _, r := range results {
		fmt.Fprintf(out, "%s %s: %d indexed, %d new\n",
			r.Kind, r.Entry, len(r.Indexed), len(r.NewlyIndexed))
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
