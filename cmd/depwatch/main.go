package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/delaneyj/depwatch/inspect"
	"github.com/delaneyj/depwatch/observer"
	"github.com/delaneyj/depwatch/scenario"
	"github.com/urfave/cli/v3"
)

const (
	logLevelKey = "log-level"
	formatKey   = "format"
)

func main() {
	cmd := &cli.Command{
		Name:  "depwatch",
		Usage: "Run dependency tracking scenarios",
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run a scenario file and print every watch callback",
				ArgsUsage: "<scenario.yaml>",
				Flags:     []cli.Flag{logLevelFlag()},
				Action:    run,
			},
			{
				Name:      "graph",
				Usage:     "Run a scenario file and print the dependency graph it leaves behind",
				ArgsUsage: "<scenario.yaml>",
				Flags: []cli.Flag{
					logLevelFlag(),
					&cli.StringFlag{
						Name:  formatKey,
						Usage: "Output format, text or dot",
						Value: "text",
					},
				},
				Action: graph,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  logLevelKey,
		Usage: "Minimum level of warnings and errors to log (debug, info, warn, error)",
		Value: "warn",
	}
}

func load(cmd *cli.Command) (*scenario.Result, error) {
	path := cmd.Args().First()
	if path == "" {
		return nil, errors.New("missing scenario file")
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String(logLevelKey))); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", logLevelKey, err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	s, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	res, err := scenario.Run(s, observer.WithLogger(logger))
	if res != nil {
		for _, w := range res.Warnings {
			logger.Warn(w, "scenario", s.Name)
		}
		for _, e := range res.Errors {
			logger.Error("watcher failed", "scenario", s.Name, "error", e)
		}
	}
	return res, err
}

func run(ctx context.Context, cmd *cli.Command) error {
	res, err := load(cmd)
	if err != nil {
		return err
	}
	step := -1
	for _, e := range res.Log {
		if e.Step != step {
			step = e.Step
			if step == 0 {
				fmt.Println("setup")
			} else {
				fmt.Printf("step %d\n", step)
			}
		}
		fmt.Printf("  %s\n", e)
	}
	return nil
}

func graph(ctx context.Context, cmd *cli.Command) error {
	res, err := load(cmd)
	if err != nil {
		return err
	}
	g := inspect.FromInstance(res.Instance)
	switch f := cmd.String(formatKey); f {
	case "text":
		inspect.WriteText(os.Stdout, g)
	case "dot":
		inspect.WriteDOT(os.Stdout, g)
	default:
		return fmt.Errorf("unknown %s %q", formatKey, f)
	}
	return nil
}
