// Package config loads settings from flags, SNAKEDRAFT_ environment
// variables and an optional config file, in that order of precedence.
package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/snakedraft/stats"
	"github.com/domino14/snakedraft/strategy"
)

const (
	ConfigDataPath          = "data-path"
	ConfigTalentFile        = "talent-file"
	ConfigLeagueFile        = "league-file"
	ConfigDBPath            = "db-path"
	ConfigDebug             = "debug"
	ConfigNumDrafters       = "num-drafters"
	ConfigDraftPosition     = "draft-position"
	ConfigStrategies        = "strategies"
	ConfigQuantileCacheSize = "quantile-cache-size"
	ConfigAutoplayTested    = "autoplay-tested"
	ConfigAutoplayOthers    = "autoplay-others"
	ConfigAutoplayThreads   = "autoplay-threads"
	ConfigConfigFile        = "config-file"
)

type Config struct {
	*viper.Viper
}

func New() *Config {
	c := &Config{Viper: viper.New()}
	c.SetEnvPrefix("snakedraft")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetDefault(ConfigDataPath, "./data")
	c.SetDefault(ConfigTalentFile, "players.csv")
	c.SetDefault(ConfigLeagueFile, "")
	c.SetDefault(ConfigDBPath, "")
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigNumDrafters, 10)
	c.SetDefault(ConfigDraftPosition, 1)
	c.SetDefault(ConfigStrategies, []string{})
	c.SetDefault(ConfigQuantileCacheSize, stats.DefaultQuantileCacheSize)
	c.SetDefault(ConfigAutoplayTested, strategy.Predictive)
	c.SetDefault(ConfigAutoplayOthers, strategy.Volatile)
	c.SetDefault(ConfigAutoplayThreads, 0)
	return c
}

// Flags declares every setting on fs so it can be bound with BindFlags.
func Flags(fs *pflag.FlagSet) {
	fs.String(ConfigDataPath, "./data", "directory holding talent/ and leagues/")
	fs.String(ConfigTalentFile, "players.csv", "talent pool file (CSV or projections listing)")
	fs.String(ConfigLeagueFile, "", "league rules YAML; the standard football league if empty")
	fs.String(ConfigDBPath, "", "SQLite file to save finished drafts in; drafts are not saved if empty")
	fs.Bool(ConfigDebug, false, "debug logging")
	fs.Int(ConfigNumDrafters, 10, "number of participants")
	fs.Int(ConfigDraftPosition, 1, "your 1-based seat")
	fs.StringSlice(ConfigStrategies, nil, "one strategy per seat; overrides draft-position")
	fs.Int(ConfigQuantileCacheSize, stats.DefaultQuantileCacheSize, "binomial quantiles to remember")
	fs.String(ConfigAutoplayTested, strategy.Predictive, "strategy under test in automatic drafts")
	fs.String(ConfigAutoplayOthers, strategy.Volatile, "strategy of everyone else in automatic drafts")
	fs.Int(ConfigAutoplayThreads, 0, "automatic drafts run at once; 0 means no limit")
	fs.String(ConfigConfigFile, "", "YAML config file")
}

// Load binds fs and reads the config file, if one was named.
func (c *Config) Load(fs *pflag.FlagSet) error {
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	if path := c.GetString(ConfigConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return err
		}
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	n := c.GetInt(ConfigNumDrafters)
	if n < 1 {
		return errors.New("num-drafters must be at least 1")
	}
	if strats := c.GetStringSlice(ConfigStrategies); len(strats) > 0 && len(strats) != n {
		return errors.New("strategies needs exactly one entry per drafter")
	}
	if p := c.GetInt(ConfigDraftPosition); p < 0 || p > n {
		return errors.New("draft-position must be between 0 (spectating) and num-drafters")
	}
	if c.GetInt(ConfigQuantileCacheSize) < 1 {
		return errors.New("quantile-cache-size must be positive")
	}
	return nil
}

// AdjustRelativePaths anchors relative paths at basepath, normally the
// executable's directory.
func (c *Config) AdjustRelativePaths(basepath string) {
	for _, key := range []string{ConfigDataPath, ConfigDBPath} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basepath, p))
	}
}

// Deps returns the shared policy collaborators the config describes.
func (c *Config) Deps() strategy.Deps {
	return strategy.Deps{Quantiler: stats.NewQuantiler(c.GetInt(ConfigQuantileCacheSize))}
}
