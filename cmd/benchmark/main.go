package main

import (
	"context"
	"log"
	"os"
	"runtime/pprof"

	"github.com/urfave/cli/v3"
)

const (
	profileKey = "profile"
	itersKey   = "iters"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure how fast writes propagate through watchers",
		Commands: []*cli.Command{
			{
				Name:  "propagate",
				Usage: "Time single writes through w * h chains of computed fields",
				Flags: []cli.Flag{
					profileFlag(),
					&cli.UintFlag{
						Name:  itersKey,
						Usage: "Writes to time per grid cell",
						Value: 100,
					},
					&cli.UintFlag{
						Name:  maxNodesKey,
						Usage: "Skip grid cells with more computed fields than this",
						Value: 100_000,
					},
				},
				Action: profiled(propagate),
			},
			{
				Name:  "layers",
				Usage: "Run layered graphs of static and dynamic watchers",
				Flags: []cli.Flag{
					profileFlag(),
					&cli.UintFlag{
						Name:  repeatsKey,
						Usage: "Runs per config, the fastest is reported",
						Value: 5,
					},
				},
				Action: profiled(layers),
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func profileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  profileKey,
		Usage: "Write a CPU profile here, empty to disable",
		Value: "default.pgo",
	}
}

func profiled(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		path := cmd.String(profileKey)
		if path == "" {
			return action(ctx, cmd)
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
		return action(ctx, cmd)
	}
}
