package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/transcripter/transcripter/internal/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	format string // "text", "json"
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed transcripts",
		Long: `Run a free-text query against the indexed transcript chunks.

Matches are found in chunk text and video titles. Each result carries the
video ID and the timecode where the matching chunk starts.

Examples:
  transcripter search "error handling"
  transcripter search kubernetes --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := openStore(cfg)
	defer st.Close()

	results := search.New(st).Search(ctx, query)
	out := cmd.OutOrStdout()

	if opts.format == "json" {
		if results == nil {
			results = []search.Result{}
		}
		return writeJSON(out, results)
	}

	if len(results) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(out, "%s  %s  %s\n", r.Timecode, r.VideoID, r.VideoTitle)
		fmt.Fprintf(out, "    %s\n", r.Snippet)
	}
	return nil
}
