package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

// summaryCmd is the cobra command for displaying a high-level database overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the database",
	Long: `Display aggregate statistics about the stored matches: match count,
date range, players in the registry and the season breakdown.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	return inSession(func(s *session) error { return s.summary(cmd.Context()) })
}

func (s *session) summary(_ context.Context) error {
	ov, err := s.db.Overview()
	if err != nil {
		return fmt.Errorf("get overview: %w", err)
	}
	if ov.Matches == 0 {
		fmt.Fprintln(s.out, "No matches stored yet. Run 'crickmetrics ingest <dir>' to add some.")
		return nil
	}
	return s.emit(ov, func(w io.Writer) {
		fmt.Fprintf(w, "\n=== Database Summary ===\n\n")
		fmt.Fprintf(w, "  Matches stored : %d\n", ov.Matches)
		fmt.Fprintf(w, "  Date range     : %s → %s\n", ov.FirstDate, ov.LastDate)
		fmt.Fprintf(w, "  Players seen   : %d\n", ov.Players)

		fmt.Fprintf(w, "\n--- Seasons ---\n\n")
		st := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		}))
		st.Header("SEASON", "MATCHES")
		for _, season := range ov.Seasons {
			st.Append(season.Season, fmt.Sprintf("%d", season.Matches))
		}
		st.Render()
	})
}
