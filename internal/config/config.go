// Package config loads the optional TOML settings file and resolves it
// against built-in defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	crerr "github.com/cockroachdb/errors"

	"github.com/pable/go-cricket-metrics/internal/model"
	"github.com/pable/go-cricket-metrics/internal/names"
	"github.com/pable/go-cricket-metrics/internal/query"
)

// FileConfig represents the TOML configuration file. Pointer fields are nil
// when absent so zero values can be told apart from unset ones.
type FileConfig struct {
	Storage     StorageConfig     `toml:"storage"`
	Phases      PhasesConfig      `toml:"phases"`
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
	CustomPhase CustomPhaseConfig `toml:"custom_phase"`
	Resolver    ResolverConfig    `toml:"resolver"`
	Popularity  map[string]int    `toml:"popularity"`
	Log         LogConfig         `toml:"log"`
	Engine      EngineConfig      `toml:"engine"`
}

type StorageConfig struct {
	Path *string `toml:"path"`
}

type PhasesConfig struct {
	PowerplayEnd *int `toml:"powerplay_end"`
	MiddleEnd    *int `toml:"middle_end"`
}

type LeaderboardConfig struct {
	BattingMinBalls   *int `toml:"batting_min_balls"`
	BowlingMinBalls   *int `toml:"bowling_min_balls"`
	BowlingMinMatches *int `toml:"bowling_min_matches"`
	Limit             *int `toml:"limit"`
}

type CustomPhaseConfig struct {
	BallsBefore     *int `toml:"balls_before"`
	OverStart       *int `toml:"over_start"`
	OversToAnalyze  *int `toml:"overs_to_analyze"`
	MinBallsInPhase *int `toml:"min_balls_in_phase"`
}

type ResolverConfig struct {
	Threshold *int `toml:"threshold"`
}

type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

type EngineConfig struct {
	Parallelism *int `toml:"parallelism"`
}

// Settings is the fully resolved configuration.
type Settings struct {
	DBPath      string
	Phases      model.PhaseBoundaries
	Limits      query.Limits
	CustomPhase model.CustomPhaseParams
	Threshold   int
	Popularity  map[string]int
	LogLevel    string
	LogFormat   string
	Parallelism int
}

// Defaults returns the settings used when no file is present.
func Defaults() Settings {
	return Settings{
		DBPath:      DefaultDBPath(),
		Phases:      model.ODIPhases,
		Limits:      query.DefaultLimits(),
		CustomPhase: query.DefaultCustomPhase(),
		Threshold:   names.DefaultThreshold,
		Popularity:  names.DefaultPopularity,
		LogLevel:    "warn",
		LogFormat:   "console",
		Parallelism: 0,
	}
}

// Dir is the per-user directory holding the database and config file.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".crickmetrics"
	}
	return filepath.Join(home, ".crickmetrics")
}

// DefaultDBPath returns ~/.crickmetrics/metrics.db.
func DefaultDBPath() string { return filepath.Join(Dir(), "metrics.db") }

// DefaultPath returns ~/.crickmetrics/config.toml.
func DefaultPath() string { return filepath.Join(Dir(), "config.toml") }

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, crerr.New("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, crerr.Wrap(err, "stat config")
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, crerr.Wrapf(err, "decode config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, crerr.Newf("unknown config key %q in %s", undecoded[0].String(), path)
	}
	return cfg, nil
}

// Apply overlays the values present in the file onto s.
func (c FileConfig) Apply(s Settings) (Settings, error) {
	setString(&s.DBPath, c.Storage.Path)
	setInt(&s.Phases.PowerplayEnd, c.Phases.PowerplayEnd)
	setInt(&s.Phases.MiddleEnd, c.Phases.MiddleEnd)
	setInt(&s.Limits.BattingMinBalls, c.Leaderboard.BattingMinBalls)
	setInt(&s.Limits.BowlingMinBalls, c.Leaderboard.BowlingMinBalls)
	setInt(&s.Limits.BowlingMinMatches, c.Leaderboard.BowlingMinMatches)
	setInt(&s.Limits.Leaderboard, c.Leaderboard.Limit)
	setInt(&s.CustomPhase.BallsBefore, c.CustomPhase.BallsBefore)
	setInt(&s.CustomPhase.OverStart, c.CustomPhase.OverStart)
	setInt(&s.CustomPhase.OversToAnalyze, c.CustomPhase.OversToAnalyze)
	setInt(&s.CustomPhase.MinBallsInPhase, c.CustomPhase.MinBallsInPhase)
	setInt(&s.Threshold, c.Resolver.Threshold)
	setString(&s.LogLevel, c.Log.Level)
	setString(&s.LogFormat, c.Log.Format)
	setInt(&s.Parallelism, c.Engine.Parallelism)
	if len(c.Popularity) > 0 {
		s.Popularity = names.MergePopularity(s.Popularity, c.Popularity)
	}

	if err := s.Phases.Validate(); err != nil {
		return s, crerr.Wrap(err, "phases")
	}
	for name, w := range c.Popularity {
		if w < 0 {
			return s, crerr.Newf("popularity for %s must not be negative, got %d", name, w)
		}
	}
	if s.Threshold < 0 || s.Threshold > 100 {
		return s, crerr.Newf("resolver threshold must be within [0, 100], got %d", s.Threshold)
	}
	return s, nil
}

// Load reads path and resolves it against Defaults.
func Load(path string) (Settings, error) {
	fc, err := LoadConfig(path)
	if err != nil {
		return Defaults(), err
	}
	return fc.Apply(Defaults())
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
