package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/report"
	"github.com/pable/go-cricket-metrics/internal/storage"
)

var listTeam string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listTeam, "team", "", "only matches involving this team")
}

func runList(cmd *cobra.Command, args []string) error {
	return inSession(func(s *session) error { return s.list(cmd.Context(), listTeam) })
}

func (s *session) list(_ context.Context, team string) error {
	matches, err := s.db.ListMatches(storage.MatchFilter{
		From:   s.scope.From,
		To:     s.scope.To,
		Season: s.scope.Season,
		Team:   team,
	})
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(s.out, "No matches stored yet. Run 'crickmetrics ingest <dir>' to add some.")
		return nil
	}
	return s.emit(matches, func(w io.Writer) { printMatches(w, matches) })
}

func printMatches(w io.Writer, matches []model.MatchSummary) {
	report.PrintMatchList(w, matches)
	fmt.Fprintf(w, "\n(%d matches)\n", len(matches))
}
