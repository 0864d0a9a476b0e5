package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-cricket-metrics/internal/query"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long: `Open a persistent session against the database. Decoded matches are kept
in memory between commands, so repeated queries skip the load. Scope flags
given to 'shell' (--season, --opponent, ...) apply to every command in the
session. Type 'help' for available commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()
	ctx := cmd.Context()

	cGreeting.Println("crickmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("crickmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]
		if name == "exit" || name == "quit" {
			return nil
		}
		if err := explain(s.dispatch(ctx, name, args)); err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// takeFlag removes flag from args and reports whether it was present.
func takeFlag(args []string, flag string) ([]string, bool) {
	out := args[:0:0]
	found := false
	for _, a := range args {
		if a == flag {
			found = true
			continue
		}
		out = append(out, a)
	}
	return out, found
}

func (s *session) dispatch(ctx context.Context, name string, args []string) error {
	need := func(usage string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}
	rest := strings.Join(args, " ")

	switch name {
	case "help":
		shellHelp()
	case "list":
		return s.list(ctx, rest)
	case "summary":
		return s.summary(ctx)
	case "show":
		if err := need("show <match-id-prefix>"); err != nil {
			return err
		}
		return s.show(ctx, args[0])
	case "batting":
		if err := need("batting <player>"); err != nil {
			return err
		}
		return s.batting(ctx, rest)
	case "bowling":
		if err := need("bowling <player>"); err != nil {
			return err
		}
		return s.bowling(ctx, rest)
	case "phases":
		args, bowling := takeFlag(args, "--bowling")
		if len(args) == 0 {
			return fmt.Errorf("usage: phases <player> [--bowling]")
		}
		return s.phases(ctx, strings.Join(args, " "), bowling)
	case "team-phases":
		if err := need("team-phases <team>"); err != nil {
			return err
		}
		return s.teamPhases(ctx, rest)
	case "dismissals":
		args, byPhase := takeFlag(args, "--by-phase")
		if len(args) == 0 {
			return fmt.Errorf("usage: dismissals <player> [--by-phase]")
		}
		return s.dismissals(ctx, strings.Join(args, " "), byPhase)
	case "victims":
		if err := need("victims <bowler>"); err != nil {
			return err
		}
		return s.victims(ctx, rest)
	case "h2h":
		batter, bowler := splitPair(args)
		if batter == "" || bowler == "" {
			return fmt.Errorf("usage: h2h <batter> vs <bowler>")
		}
		return s.headToHead(ctx, batter, bowler)
	case "leaderboard":
		if err := need("leaderboard batting|bowling [sort-key]"); err != nil {
			return err
		}
		opts := leaderboardOpts{kind: args[0]}
		if len(args) > 1 {
			opts.sortBy = args[1]
		}
		return s.leaderboard(ctx, opts)
	case "custom-phase":
		if err := need("custom-phase <player>"); err != nil {
			return err
		}
		return s.customPhase(ctx, rest, query.CustomPhaseQuery{})
	case "motm":
		args, byYear := takeFlag(args, "--by-year")
		return s.motm(ctx, strings.Join(args, " "), "", byYear, 0)
	case "search":
		if err := need("search <team>"); err != nil {
			return err
		}
		return s.search(ctx, rest, "", 0)
	case "resolve":
		if err := need("resolve <name>"); err != nil {
			return err
		}
		threshold := settings.Threshold
		return s.resolve(query.ResolveQuery{Query: rest, Threshold: &threshold})
	case "sql":
		if err := need("sql <query>"); err != nil {
			return err
		}
		return s.sql(rest)
	case "reload":
		s.invalidate()
		cMuted.Println("cached matches dropped; the next query reloads them")
	default:
		cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list [team]", "list stored matches"},
		{"summary", "database overview"},
		{"show <id-prefix>", "scorecard of one match"},
		{"batting <player>", "career batting"},
		{"bowling <player>", "career bowling"},
		{"phases <player> [--bowling]", "split by powerplay / middle / death"},
		{"team-phases <team>", "team batting by phase"},
		{"dismissals <player> [--by-phase]", "how a batter gets out"},
		{"victims <bowler>", "who a bowler dismissed"},
		{"h2h <batter> vs <bowler>", "batter against bowler"},
		{"leaderboard batting|bowling [key]", "rankings"},
		{"custom-phase <player>", "window analysis with config defaults"},
		{"motm [player] [--by-year]", "player-of-the-match awards"},
		{"search <team>", "matches a team played"},
		{"resolve <name>", "fuzzy name lookup"},
		{"sql <query>", "raw SQL"},
		{"reload", "drop cached matches"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}
