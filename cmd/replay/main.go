package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/zugzwang/internal/archive"
	"github.com/mitchelldurbincs/zugzwang/internal/game"
)

// Prints a recorded match step by step
func main() {
	color := flag.Bool("color", true, "Colour the board")
	turn := flag.Int("turn", -1, "Only show this turn (-1 for all)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <replay.parquet>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	rows, err := archive.ReadReplay(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Str("file", flag.Arg(0)).Msg("Failed to read replay")
	}
	if len(rows) == 0 {
		log.Fatal().Str("file", flag.Arg(0)).Msg("Replay is empty")
	}
	fmt.Printf("Match %s, %dx%d, %d snapshots\n\n", rows[0].MatchID, rows[0].Width, rows[0].Height, len(rows))

	for _, row := range rows {
		if *turn >= 0 && int(row.Turn) != *turn {
			continue
		}
		step, err := row.Decode()
		if err != nil {
			log.Fatal().Err(err).Msg("Corrupt replay row")
		}

		fmt.Printf("Turn %d, %s %d\n", step.Turn, step.Phase, step.Step)
		for _, o := range step.Orders {
			fmt.Printf("  player %d: %s piece %d by %s\n", o.Owner, o.Type, o.SourcePieceID, o.ToTarget)
		}
		for _, ev := range step.Events {
			fmt.Printf("  piece %d of player %d: %s %s\n", ev.PieceID, ev.Owner, ev.Kind, ev.Cause)
		}
		fmt.Printf("%s\n", game.RenderBoard(step.State, *color))
	}
}
