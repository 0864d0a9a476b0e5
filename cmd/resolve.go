package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/query"
	"github.com/pable/go-cricket-metrics/internal/report"
)

var (
	resolveThreshold int
	resolveLimit     int
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <name>",
	Short: "Show which stored player a name resolves to",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runResolve,
}

var popularityCmd = &cobra.Command{
	Use:   "popularity <player> <weight>",
	Short: "Set the popularity weight used to break near-tied name matches",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runPopularity,
}

func init() {
	resolveCmd.Flags().IntVar(&resolveThreshold, "threshold", 0, "minimum score 0-100 (default from config)")
	resolveCmd.Flags().IntVar(&resolveLimit, "alternatives", 5, "runners-up to show")
}

func runResolve(cmd *cobra.Command, args []string) error {
	q := query.ResolveQuery{Query: strings.Join(args, " "), Limit: resolveLimit}
	threshold := settings.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = resolveThreshold
	}
	q.Threshold = &threshold
	return inSession(func(s *session) error { return s.resolve(q) })
}

func (s *session) resolve(q query.ResolveQuery) error {
	res, err := s.engine.ResolvePlayer(s.names(), q)
	if err != nil {
		return err
	}
	warnAdjustments(res.Adjustments)
	return s.emit(res, func(w io.Writer) { report.PrintResolution(w, res.Query, res.Best, res.Alternatives) })
}

func runPopularity(cmd *cobra.Command, args []string) error {
	weight, err := strconv.Atoi(args[len(args)-1])
	if err != nil {
		return fmt.Errorf("weight %q is not an integer", args[len(args)-1])
	}
	if weight < 0 {
		return fmt.Errorf("weight must not be negative, got %d", weight)
	}
	name := strings.Join(args[:len(args)-1], " ")
	return inSession(func(s *session) error {
		player, err := s.player(name)
		if err != nil {
			return err
		}
		if err := s.db.SetPopularity(player, weight); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s: popularity %d\n", player, weight)
		return nil
	})
}
