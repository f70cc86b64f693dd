package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/domino14/snakedraft/automatic"
	"github.com/domino14/snakedraft/config"
	"github.com/domino14/snakedraft/league"
	"github.com/domino14/snakedraft/shell"
	"github.com/domino14/snakedraft/talent"
)

var (
	GitVersion string
)

var (
	cfg     = config.New()
	exPath  string
	logPath string
)

var rootCmd = &cobra.Command{
	Use:   "snakedraft",
	Short: "Snake draft assistant and strategy simulator",
	Long: `snakedraft runs snake drafts. In a live draft it forecasts how many of
each position the other drafters will take before your next pick and
suggests the pick you would regret skipping the most. It can also pit pick
strategies against each other in automatic drafts.

With no arguments it starts the interactive shell; with arguments it runs
them as one shell command; put shell options after --, as in
  snakedraft -- new -drafters 8 -position 3`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Load(cmd.Flags()); err != nil {
			return err
		}
		cfg.AdjustRelativePaths(exPath)
		setupLogging(cfg.GetBool(config.ConfigDebug))
		log.Debug().Interface("settings", cfg.AllSettings()).Msg("loaded-config")
		return nil
	},
	Args: cobra.ArbitraryArgs,
	RunE: runShell,
}

var autoplayCmd = &cobra.Command{
	Use:   "autoplay [tested] [others]",
	Short: "Average finish of one strategy against copies of another",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runAutoplay,
}

var convertCmd = &cobra.Command{
	Use:   "convert <listing> <out.csv>",
	Short: "Convert a copy-pasted projections listing into a talent CSV",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func init() {
	config.Flags(rootCmd.PersistentFlags())
	autoplayCmd.Flags().StringVar(&logPath, "log", "", "write every pick to this CSV file")
	rootCmd.AddCommand(autoplayCmd, convertCmd)
}

func setupLogging(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
}

func runShell(cmd *cobra.Command, args []string) error {
	fmt.Println("snakedraft", GitVersion)

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	sc := shell.NewShellController(cfg, exPath)
	argsLine := strings.TrimSpace(strings.Join(args, " "))
	if argsLine == "" {
		go sc.Loop(sig)
	} else {
		sc.Execute(sig, argsLine)
		sig <- syscall.SIGINT
	}
	<-idleConnsClosed
	sc.Cleanup()
	return nil
}

func loadRules() (*league.Rules, error) {
	if lf := cfg.GetString(config.ConfigLeagueFile); lf != "" {
		return league.Load(cfg.GetString(config.ConfigDataPath), lf)
	}
	return league.DefaultRules(), nil
}

func runAutoplay(cmd *cobra.Command, args []string) error {
	rules, err := loadRules()
	if err != nil {
		return err
	}
	ents, err := talent.Load(cfg.GetString(config.ConfigDataPath), cfg.GetString(config.ConfigTalentFile), rules)
	if err != nil {
		return err
	}
	tested := cfg.GetString(config.ConfigAutoplayTested)
	others := cfg.GetString(config.ConfigAutoplayOthers)
	if len(args) > 0 {
		tested = args[0]
	}
	if len(args) > 1 {
		others = args[1]
	}
	n := cfg.GetInt(config.ConfigNumDrafters)
	runner, err := automatic.NewDraftRunner(rules, ents, tested, others, n, cfg.Deps())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var res *automatic.Result
	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return err
		}
		defer f.Close()
		res, err = runner.AverageResult(ctx, cfg.GetInt(config.ConfigAutoplayThreads), f)
		if err != nil {
			return err
		}
	} else {
		res, err = runner.AverageResult(ctx, cfg.GetInt(config.ConfigAutoplayThreads), nil)
		if err != nil {
			return err
		}
	}
	fmt.Printf("%s vs %s, %d drafters: %s\n", tested, others, n, res)
	return res.Histogram(os.Stdout)
}

func runConvert(cmd *cobra.Command, args []string) error {
	rules, err := loadRules()
	if err != nil {
		return err
	}
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()
	ents, err := talent.ReadListing(in, rules, talent.DefaultListing)
	if err != nil {
		return err
	}
	out, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if err := talent.WriteCSV(out, ents); err != nil {
		out.Close()
		return err
	}
	log.Info().Int("entities", len(ents)).Str("out", args[1]).Msg("converted-listing")
	return out.Close()
}

func main() {
	// Relative data paths are resolved against the executable's
	// directory.
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath = filepath.Dir(ex)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
