package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/zugzwang/internal/archive"
	"github.com/mitchelldurbincs/zugzwang/internal/config"
	"github.com/mitchelldurbincs/zugzwang/internal/game"
	"github.com/mitchelldurbincs/zugzwang/internal/game/core"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events"
	"github.com/mitchelldurbincs/zugzwang/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/zugzwang/internal/game/layout"
	"github.com/mitchelldurbincs/zugzwang/internal/game/rules"
)

// Self-play demo: both sides submit random legal orders until someone wins
// or the turn limit is reached.
func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", 0, "RNG seed (0 to use config, then the clock)")
	maxTurns := flag.Int("turns", 0, "Maximum turns (0 to use config default)")
	record := flag.String("record", "", "Write a parquet replay into this directory")
	quiet := flag.Bool("quiet", false, "Only print the final board")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	if *seed == 0 {
		*seed = cfg.Demo.Seed
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	if *maxTurns == 0 {
		*maxTurns = cfg.Demo.MaxTurns
	}
	color := cfg.Demo.Color

	lay, err := layout.ByName(cfg.Game.Layout)
	if err != nil {
		log.Fatal().Err(err).Msg("Unknown layout")
	}

	bus := events.NewEventBus(log.Logger)
	if *verbose {
		eventLog := subscribers.NewLoggerSubscriber("event_logger", log.Logger, zerolog.DebugLevel)
		eventLog.SetEventFilter([]string{
			events.TypeOrderRejected,
			events.TypePieceDestroyed,
			events.TypePieceScored,
			events.TypePlayerWon,
		})
		bus.Subscribe(eventLog)
	}
	var recorder *archive.Recorder
	if *record != "" {
		recorder = archive.NewRecorder(*record, bus, log.Logger)
		recorder.OnWritten = func(_, path string) { fmt.Printf("Replay written to %s\n", path) }
	}

	rng := rand.New(rand.NewSource(*seed))
	e, err := game.Setup(cfg.MatchConfig(), rng, lay,
		game.WithLogger(log.Logger),
		game.WithEventBus(bus),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up match")
	}

	fmt.Printf("Match %s, seed %d\n", e.MatchID(), *seed)
	fmt.Printf("Initial board:\n%s\n", e.Board(color))

	ctx := context.Background()
	for turn := 0; turn < *maxTurns && !e.IsGameOver(); turn++ {
		for owner := 0; owner < core.Players; owner++ {
			game.GenerateRandomOrders(e, owner, rng)
		}

		summary, err := e.ResolveTurn(ctx)
		if err != nil {
			log.Error().Err(err).Int("turn", turn+1).Msg("Turn failed")
			break
		}
		if *quiet {
			continue
		}

		fmt.Printf("Turn %d (%d steps, %d dropped):\n", summary.Turn, len(summary.Snapshots)-2, len(summary.Dropped))
		for _, snap := range summary.Snapshots {
			for _, o := range snap.Orders {
				spec := core.SpecOf(o)
				fmt.Printf("  player %d: %s piece %d by %s\n", spec.Owner, spec.Type, spec.SourcePieceID, spec.ToTarget)
			}
			for _, ev := range snap.Events {
				fmt.Printf("  piece %d of player %d: %s %s\n", ev.PieceID, ev.Owner, ev.Kind, ev.Cause)
			}
		}
		fmt.Printf("%s\n", e.Board(color))
	}

	if *quiet {
		fmt.Printf("%s\n", e.Board(color))
	}
	switch {
	case !e.IsGameOver():
		fmt.Printf("Stopped after %d turns, score %v\n", e.Turn(), e.Score())
	case e.Winner() == rules.NoWinner:
		fmt.Printf("Game over on turn %d: draw\n", e.Turn())
	default:
		fmt.Printf("Game over on turn %d: player %d wins %v\n", e.Turn(), e.Winner(), e.Score())
	}

	if recorder != nil {
		recorder.Close()
	}
}
