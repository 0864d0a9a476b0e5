package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  matches(id, match_date, season, venue, city, event_name, match_number, match_type,
    team1, team2, winner, margin, motm, hash, payload, ingested_at)
  people(match_id, name, team, registry_code)
  popularity(name, weight)

payload holds the original cricsheet JSON; SQLite's json functions work on it:
  SELECT id, json_extract(payload, '$.info.toss.winner') FROM matches LIMIT 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	q := strings.Join(args, " ")
	return inSession(func(s *session) error { return s.sql(q) })
}

func (s *session) sql(q string) error {
	cols, rows, err := s.db.QueryRaw(q)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if jsonOutput {
		out := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			m := make(map[string]string, len(cols))
			for i, c := range cols {
				m[c] = row[i]
			}
			out = append(out, m)
		}
		return report.JSON(s.out, out)
	}
	report.PrintRaw(s.out, cols, rows)
	return nil
}
