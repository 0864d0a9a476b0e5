package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/parser"
)

var (
	ingestWorkers int
	ingestForce   bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <dir|file.json>...",
	Short: "Decode cricsheet JSON files and store them",
	Long: `Decode cricsheet match files and store them in the database. Directories
are scanned for *.json files. A match whose file content is unchanged is
skipped; a changed file replaces the stored copy. Files that fail to decode
are reported and do not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", runtime.GOMAXPROCS(0), "number of files decoded in parallel")
	ingestCmd.Flags().BoolVar(&ingestForce, "force", false, "replace stored matches even when unchanged")
}

func runIngest(cmd *cobra.Command, args []string) error {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := parser.ListJSON(arg)
		if err != nil {
			return err
		}
		paths = append(paths, files...)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stdout, "No .json files found.")
		return nil
	}

	return inSession(func(s *session) error {
		fmt.Fprintf(os.Stdout, "Decoding %d files...\n", len(paths))
		res, err := parser.ParseFiles(cmd.Context(), paths, ingestWorkers)
		if err != nil {
			return fmt.Errorf("parse files: %w", err)
		}
		n, err := s.store(res.Matches, ingestForce)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "Stored %d, unchanged %d, failed %d.\n",
			n, len(res.Matches)-n, len(res.Failures))
		for _, f := range res.Failures {
			cWarn.Fprintf(os.Stderr, "  %s\n", f.Error())
		}
		printParseReport(res.Report)
		return nil
	})
}

// store writes decoded matches and seeds the popularity table. It returns
// how many matches were written.
func (s *session) store(matches []*parser.Parsed, force bool) (int, error) {
	if err := s.db.SeedPopularity(settings.Popularity); err != nil {
		return 0, fmt.Errorf("seed popularity: %w", err)
	}
	stored := 0
	for _, p := range matches {
		if force {
			if err := s.db.DeleteMatch(p.Match.ID); err != nil {
				return stored, fmt.Errorf("replace match %s: %w", p.Match.ID, err)
			}
		}
		ok, err := s.db.InsertMatch(p)
		if err != nil {
			return stored, fmt.Errorf("insert match: %w", err)
		}
		if ok {
			stored++
		}
	}
	if stored > 0 {
		s.invalidate()
	}
	return stored, nil
}

func printParseReport(r parser.Report) {
	if r.Malformed() == 0 && r.MultiWicket == 0 && r.EmptyInnings == 0 {
		return
	}
	cMuted.Fprintf(os.Stdout,
		"Data quality: missing runs %d, invalid runs %d, missing batter %d, missing bowler %d, multi-wicket deliveries %d, empty innings %d\n",
		r.MissingRuns, r.InvalidRuns, r.MissingBatter, r.MissingBowler, r.MultiWicket, r.EmptyInnings)
}
