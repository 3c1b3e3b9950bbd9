package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/HexTactics/internal/config"
	"github.com/mitchelldurbincs/HexTactics/internal/game"
	"github.com/mitchelldurbincs/HexTactics/internal/game/mapgen"
	"github.com/mitchelldurbincs/HexTactics/internal/game/match"
	"github.com/mitchelldurbincs/HexTactics/internal/game/registry"
	"github.com/mitchelldurbincs/HexTactics/internal/game/rules"
)

// overrides holds command line values that take precedence over the config
type overrides struct {
	seed     int64
	players  int
	width    int
	height   int
	maxTurns int
	noFog    bool
}

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to config file")
	env := flag.String("env", "", "Environment overlay, merges config.<env>.yaml")
	seed := flag.Int64("seed", -1, "Map seed (-1 to use config default, 0 for random)")
	players := flag.Int("players", -1, "Number of players (-1 to use config default)")
	width := flag.Int("width", -1, "Map width (-1 to use config default)")
	height := flag.Int("height", -1, "Map height (-1 to use config default)")
	maxTurns := flag.Int("max-turns", -1, "Turn limit (-1 to use config default)")
	noFog := flag.Bool("no-fog", false, "Let every AI see the whole map")
	logLevel := flag.String("log-level", "", "Log level (trace, debug, info, warn, error) (empty to use config default)")
	matches := flag.Int("matches", 1, "Number of matches to play")
	watch := flag.Bool("watch", false, "Reload the config file between matches when it changes")
	colored := flag.Bool("color", true, "Color the board output")
	flag.Parse()

	// Initialize configuration
	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(*env); err != nil {
		log.Fatal().Err(err).Str("env", *env).Msg("Failed to load environment config")
	}

	cfg := config.Get()
	if *logLevel == "" {
		*logLevel = cfg.Logging.Level
	}
	setupLogging(*logLevel, cfg.Logging.Format)

	if *watch {
		config.WatchConfig(func(_ *config.Config, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("Config reload rejected")
				return
			}
			log.Info().Str("file", config.ConfigFilePath()).Msg("Config reloaded, applies from the next match")
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o := overrides{
		seed:     *seed,
		players:  *players,
		width:    *width,
		height:   *height,
		maxTurns: *maxTurns,
		noFog:    *noFog,
	}

	var results []match.Result
	for i := 0; i < *matches; i++ {
		result, board, err := playMatch(ctx, config.Get(), o, i, *colored)
		if err != nil {
			log.Error().Err(err).Int("match", i+1).Msg("Match failed")
			break
		}
		results = append(results, result)

		fmt.Printf("\n%s match, final board:\n%s\n", humanize.Ordinal(i+1), board)
		printSummary(os.Stdout, result)
	}

	if len(results) > 1 {
		printSeries(os.Stdout, results)
	}
	if len(results) < *matches {
		os.Exit(1)
	}
}

// playMatch builds one match from the current config and plays it out
func playMatch(ctx context.Context, cfg *config.Config, o overrides, index int, colored bool) (match.Result, string, error) {
	types, err := registry.LoadFile(cfg.Registry.Path)
	if err != nil {
		return match.Result{}, "", err
	}

	matchCfg := buildMatchConfig(cfg, o, types, index)
	m, err := match.New(ctx, matchCfg)
	if err != nil {
		return match.Result{}, "", err
	}

	log.Info().
		Str("match_id", m.ID()).
		Int("width", matchCfg.Game.Map.Width).
		Int("height", matchCfg.Game.Map.Height).
		Int("players", matchCfg.Game.Map.PlayerCount).
		Bool("fog_of_war", matchCfg.Game.FogOfWar).
		Msg("Starting skirmish")

	result, err := m.Run(ctx)
	if err != nil {
		return result, "", err
	}
	return result, m.Engine().Board(-1, colored && cfg.Logging.Format == "console"), nil
}

// buildMatchConfig maps the file config and flag overrides onto the match
// setup. A fixed seed gives match i the seed+i map and combat rolls.
func buildMatchConfig(cfg *config.Config, o overrides, types *registry.ObjectTypes, index int) match.Config {
	width, height := cfg.Game.Map.Width, cfg.Game.Map.Height
	if o.width > 0 {
		width = o.width
	}
	if o.height > 0 {
		height = o.height
	}
	players := cfg.Game.Match.Players
	if o.players > 0 {
		players = o.players
	}
	maxTurns := cfg.Game.Match.MaxTurns
	if o.maxTurns > 0 {
		maxTurns = o.maxTurns
	}
	seed := cfg.Game.Map.Seed
	if o.seed >= 0 {
		seed = o.seed
	}

	mapCfg := mapgen.DefaultMapConfig(width, height, players)
	noise := cfg.Game.Map.Noise
	mapCfg.Octaves = noise.Octaves
	mapCfg.Frequency = noise.Frequency
	mapCfg.Persistence = noise.Persistence
	mapCfg.WaterLevel = noise.WaterLevel
	mapCfg.HillLevel = noise.HillLevel
	mapCfg.TreeLevel = noise.TreeLevel
	mapCfg.Roads = cfg.Game.Map.Roads
	mapCfg.Roster = cfg.Game.Map.Roster
	mapCfg.UnitsPerPlayer = cfg.Game.Match.UnitsPerPlayer

	gameCfg := game.GameConfig{
		Map:       mapCfg,
		MaxTurns:  maxTurns,
		FogOfWar:  cfg.Game.FogOfWar.Enabled && !o.noFog,
		Types:     types,
		Logger:    log.Logger,
		LogEvents: cfg.Development.LogEvents,
		DevMode:   cfg.Development.VerboseLogging,
	}
	if seed != 0 {
		gameCfg.Map.Seed = seed + int64(index)
		gameCfg.Rng = rand.New(rand.NewSource(gameCfg.Map.Seed))
	}

	return match.Config{
		Game:               gameCfg,
		MaxCommandsPerTurn: cfg.Game.Match.MaxCommandsPerTurn,
	}
}

func printSummary(w io.Writer, r match.Result) {
	fmt.Fprintf(w, "Match %s ended on the %s turn after %s: %s\n",
		r.MatchID, humanize.Ordinal(r.Turns), r.Duration.Round(time.Millisecond), r.Reason)
	if r.Winner == rules.NoWinner {
		fmt.Fprintln(w, "No winner")
	} else {
		fmt.Fprintf(w, "Winner: %s\n", r.Winner)
	}
	fmt.Fprintf(w, "Commands: %s chosen, %s rejected, %s forced turn ends\n",
		humanize.Comma(int64(r.Commands)), humanize.Comma(int64(r.Rejected)), humanize.Comma(int64(r.Forced)))
	for _, p := range r.Players {
		status := "alive"
		if !p.Alive {
			status = "eliminated"
		}
		fmt.Fprintf(w, "  %s: %s, %s\n", p.ID, english.Plural(p.UnitCount, "unit", ""), status)
	}
}

func printSeries(w io.Writer, results []match.Result) {
	wins := make(map[string]int)
	var turns, commands int
	for _, r := range results {
		key := "draw"
		if r.Winner != rules.NoWinner {
			key = r.Winner.String()
		}
		wins[key]++
		turns += r.Turns
		commands += r.Commands
	}

	fmt.Fprintf(w, "\n%s played, %s turns and %s commands in total\n",
		english.Plural(len(results), "match", "matches"), humanize.Comma(int64(turns)), humanize.Comma(int64(commands)))
	for _, key := range sortedKeys(wins) {
		label := key + " won"
		if key == "draw" {
			label = "drawn"
		}
		fmt.Fprintf(w, "  %s %s\n", label, english.Plural(wins[key], "time", ""))
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func setupLogging(level, format string) {
	// Parse log level
	var logLevel zerolog.Level
	switch strings.ToLower(level) {
	case "trace":
		logLevel = zerolog.TraceLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if format == "json" || os.Getenv("APP_ENV") == "production" {
		// JSON output for production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		// Pretty console output for development
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
