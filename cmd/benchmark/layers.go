package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/delaneyj/depwatch/observer"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const repeatsKey = "repeats"

type layerConfig struct {
	name           string
	width          int
	totalLayers    int
	staticFraction float64 // share of nodes that always read all their sources
	nSources       int     // sources read by each node
	readFraction   float64 // share of leaves read after every write
	iterations     int64
}

var layerConfigs = []layerConfig{
	{name: "simple component", width: 10, totalLayers: 5, staticFraction: 1, nSources: 2, readFraction: 0.2, iterations: 600_000},
	{name: "dynamic component", width: 10, totalLayers: 10, staticFraction: 0.75, nSources: 6, readFraction: 0.2, iterations: 15_000},
	{name: "large web app", width: 1000, totalLayers: 12, staticFraction: 0.95, nSources: 4, readFraction: 1, iterations: 7_000},
	{name: "wide dense", width: 1000, totalLayers: 5, staticFraction: 1, nSources: 25, readFraction: 1, iterations: 3_000},
	{name: "deep", width: 5, totalLayers: 500, staticFraction: 1, nSources: 3, readFraction: 1, iterations: 500},
	{name: "very dynamic", width: 100, totalLayers: 15, staticFraction: 0.5, nSources: 6, readFraction: 1, iterations: 2_000},
}

func (cfg layerConfig) title() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "%dx%d %d sources", cfg.width, cfg.totalLayers, cfg.nSources)
	if cfg.staticFraction < 1 {
		sb.WriteString(" dynamic")
	}
	if cfg.readFraction < 1 {
		fmt.Fprintf(&sb, " read %0.2f%%", 100*cfg.readFraction)
	}
	return sb.String()
}

// node is anything a layer can read an int from: a source field or a lazy
// watcher.
type node interface {
	read() int
}

type source struct {
	state *observer.Object
	key   string
}

func (s source) read() int {
	return s.state.Get(s.key).(int)
}

type memo struct {
	sys *observer.System
	w   *observer.Watcher
}

func (m memo) read() int {
	if m.w.Dirty() {
		m.w.Evaluate()
	}
	if m.sys.Target() != nil {
		m.w.Depend()
	}
	return m.w.Value().(int)
}

type layerGraph struct {
	sys     *observer.System
	state   *observer.Object
	sources []source
	layers  [][]node
	counter *int64
}

func makeLayerGraph(cfg layerConfig) *layerGraph {
	sys := observer.NewSystem(observer.WithErrorHandler(func(from any, err error) {
		log.Panic(err)
	}))
	raw := make(map[string]any, cfg.width)
	for i := 0; i < cfg.width; i++ {
		raw[fmt.Sprintf("s%d", i)] = i
	}
	g := &layerGraph{
		sys:     sys,
		state:   sys.Reactive(raw).(*observer.Object),
		counter: new(int64),
	}

	prev := make([]node, cfg.width)
	for i := range prev {
		s := source{state: g.state, key: fmt.Sprintf("s%d", i)}
		g.sources = append(g.sources, s)
		prev[i] = s
	}

	random := rand.New(rand.NewSource(0))
	for l := 0; l < cfg.totalLayers-1; l++ {
		prev = g.makeRow(prev, cfg, random)
		g.layers = append(g.layers, prev)
	}
	return g
}

func (g *layerGraph) makeRow(prev []node, cfg layerConfig, random *rand.Rand) []node {
	row := make([]node, len(prev))
	for myDex := range prev {
		mine := make([]node, 0, cfg.nSources)
		for sourceDex := 0; sourceDex < cfg.nSources; sourceDex++ {
			mine = append(mine, prev[(myDex+sourceDex)%len(prev)])
		}

		var getter func() any
		if random.Float64() < cfg.staticFraction {
			getter = func() any {
				*g.counter++
				sum := 0
				for _, n := range mine {
					sum += n.read()
				}
				return sum
			}
		} else {
			// dynamic nodes skip one of their sources depending on the first
			first, tail := mine[0], mine[1:]
			getter = func() any {
				*g.counter++
				sum := first.read()
				shouldDrop := sum&0x1 > 0
				dropDex := sum % len(tail)
				for i, n := range tail {
					if shouldDrop && i == dropDex {
						continue
					}
					sum += n.read()
				}
				return sum
			}
		}
		row[myDex] = memo{
			sys: g.sys,
			w:   g.sys.NewWatcher(getter, nil, observer.WatcherOptions{Lazy: true}),
		}
	}
	return row
}

// run writes one source per iteration and reads some or all of the leaves,
// returning the sum of the leaves read.
func (g *layerGraph) run(cfg layerConfig) int {
	random := rand.New(rand.NewSource(0))
	leaves := g.layers[len(g.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - cfg.readFraction)))
	readLeaves := removeElems(leaves, skipCount, random)

	for i := 0; i < int(cfg.iterations); i++ {
		g.sys.Batch(func() {
			sourceDex := i % len(g.sources)
			s := g.sources[sourceDex]
			s.state.Set(s.key, i+sourceDex)
		})
		for _, leaf := range readLeaves {
			leaf.read()
		}
	}

	sum := 0
	for _, leaf := range readLeaves {
		sum += leaf.read()
	}
	return sum
}

func removeElems[T any](src []T, rmCount int, random *rand.Rand) []T {
	out := make([]T, len(src))
	copy(out, src)
	for i := 0; i < rmCount; i++ {
		rmDex := random.Intn(len(out))
		out[rmDex] = out[len(out)-1]
		out = out[:len(out)-1]
	}
	return out
}

func layers(ctx context.Context, cmd *cli.Command) error {
	repeats := int(cmd.Uint(repeatsKey))
	if repeats < 1 {
		repeats = 1
	}

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{
		"size", "nSources", "read%", "static%",
		"nTimes", "test", "time", "sum", "updateRate", "title",
	})

	for _, cfg := range layerConfigs {
		log.Printf("running %q", cfg.name)
		if cfg.totalLayers < 2 {
			return fmt.Errorf("config %q needs at least two layers", cfg.name)
		}
		g := makeLayerGraph(cfg)
		g.run(cfg) // warm up

		best := time.Duration(math.MaxInt64)
		var bestSum int
		var bestCount int64
		for i := 0; i < repeats; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			*g.counter = 0
			start := time.Now()
			sum := g.run(cfg)
			d := time.Since(start)
			if d < best {
				best, bestSum, bestCount = d, sum, *g.counter
			}
		}

		updateRate := float64(bestCount) / (float64(best) / float64(time.Millisecond))
		tbl.Append([]string{
			fmt.Sprintf("%dx%d", cfg.width, cfg.totalLayers),
			fmt.Sprint(cfg.nSources),
			fmt.Sprint(cfg.readFraction),
			fmt.Sprint(cfg.staticFraction),
			humanize.Comma(cfg.iterations),
			cfg.name,
			fmt.Sprint(best),
			humanize.Comma(int64(bestSum)),
			humanize.Comma(int64(updateRate)),
			cfg.title(),
		})
	}
	tbl.Render()
	return nil
}
