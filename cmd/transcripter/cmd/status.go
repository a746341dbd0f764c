package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/transcripter/transcripter/internal/index"
)

// statusInfo is what the status command reports.
type statusInfo struct {
	Backend          string   `json:"backend"`
	SearchModule     bool     `json:"search_module"`
	TotalKeys        int64    `json:"total_keys"`
	Videos           int      `json:"videos"`
	PartiallyIndexed []string `json:"partially_indexed"`
	IndexDocs        string   `json:"index_docs,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show index health and size",
		Long: `Display the state of the search backend:
  - whether the full-text search module is loaded
  - number of stored keys and distinct videos
  - videos with missing chunks (candidates for 'index --repair')`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context(), cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runStatus(ctx context.Context, cmd *cobra.Command, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st := openStore(cfg)
	defer st.Close()

	info := statusInfo{
		Backend:          fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		SearchModule:     st.CheckSearchModule(ctx),
		PartiallyIndexed: []string{},
	}

	if info.TotalKeys, err = st.DocumentCount(ctx); err != nil {
		return err
	}

	videos, err := st.VideoIDs(ctx)
	if err != nil {
		return err
	}
	info.Videos = len(videos)

	partial, err := st.PartiallyIndexed(ctx)
	if err != nil {
		return err
	}
	for videoID, pv := range partial {
		if index.HasOrdinalGap(pv.Chunks) {
			info.PartiallyIndexed = append(info.PartiallyIndexed, videoID)
		}
	}
	sort.Strings(info.PartiallyIndexed)

	if info.SearchModule {
		if stats, err := st.IndexInfo(ctx); err == nil {
			info.IndexDocs = stats["num_docs"]
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, info)
	}

	fmt.Fprintf(out, "Backend:         %s\n", info.Backend)
	fmt.Fprintf(out, "Search module:   %v\n", info.SearchModule)
	fmt.Fprintf(out, "Total keys:      %d\n", info.TotalKeys)
	fmt.Fprintf(out, "Videos indexed:  %d\n", info.Videos)
	if info.IndexDocs != "" {
		fmt.Fprintf(out, "Index documents: %s\n", info.IndexDocs)
	}
	if len(info.PartiallyIndexed) > 0 {
		fmt.Fprintf(out, "Partially indexed (%d), run 'transcripter index --repair':\n",
			len(info.PartiallyIndexed))
		for _, id := range info.PartiallyIndexed {
			fmt.Fprintf(out, "  %s\n", id)
		}
	}
	return nil
}
