package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/config"
	"github.com/pable/go-cricket-metrics/internal/logging"
	"github.com/pable/go-cricket-metrics/internal/query"
)

var (
	dbPath     string
	configPath string
	logLevel   string
	jsonOutput bool
	exactNames bool
	scope      query.Scope

	// settings is resolved from the config file and flags before any subcommand runs.
	settings = config.Defaults()
)

var rootCmd = &cobra.Command{
	Use:   "crickmetrics",
	Short: "ODI cricket statistics from cricsheet data",
	Long: `Ingest cricsheet ball-by-ball JSON files and compute batting, bowling,
phase, dismissal, head-to-head and award statistics.

Player arguments are fuzzy-matched against the stored people registry
("kohli", "MS Dhony"); pass --exact to use them verbatim.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	_ = logging.Default().Sync()
	if err != nil {
		cError.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "", "path to SQLite database (default from config, else ~/.crickmetrics/metrics.db)")
	pf.StringVar(&configPath, "config", config.DefaultPath(), "path to TOML config file")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&jsonOutput, "json", false, "print results as JSON instead of tables")
	pf.BoolVar(&exactNames, "exact", false, "use player names verbatim instead of fuzzy matching")

	pf.StringVar(&scope.From, "from", "", "only matches on or after this date (YYYY-MM-DD)")
	pf.StringVar(&scope.To, "to", "", "only matches on or before this date (YYYY-MM-DD)")
	pf.StringVar(&scope.Season, "season", "", "only matches of this season (e.g. 2023/24)")
	pf.StringVar(&scope.Opponent, "opponent", "", "only deliveries against this team")
	pf.StringVar(&scope.Venue, "venue", "", "only matches whose venue contains this text")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(battingCmd)
	rootCmd.AddCommand(bowlingCmd)
	rootCmd.AddCommand(phasesCmd)
	rootCmd.AddCommand(teamPhasesCmd)
	rootCmd.AddCommand(dismissalsCmd)
	rootCmd.AddCommand(victimsCmd)
	rootCmd.AddCommand(h2hCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(customPhaseCmd)
	rootCmd.AddCommand(motmCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(popularityCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

// setup loads the config file, applies flag overrides and installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	s, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("db") {
		s.DBPath = dbPath
	}
	if cmd.Flags().Changed("log-level") {
		s.LogLevel = logLevel
	}
	settings = s
	logging.SetDefault(logging.New(os.Stderr, s.LogFormat, logging.ParseLevel(s.LogLevel)))
	return nil
}
