package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/depwatch/instance"
	"github.com/delaneyj/depwatch/observer"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const maxNodesKey = "max-nodes"

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

func pass(*instance.Instance, any, any) error {
	return nil
}

// chain builds an instance with one data field "src" and w chains of h
// computed fields, each adding one to the previous. A watcher sits at the
// end of every chain.
func chain(sys *observer.System, w, h int) *instance.Instance {
	opts := instance.Options{
		Name: fmt.Sprintf("propagate %dx%d", w, h),
		Data: func(*instance.Instance) map[string]any {
			return map[string]any{"src": 1}
		},
	}
	for i := 0; i < w; i++ {
		prev := "src"
		for j := 0; j < h; j++ {
			from := prev
			name := fmt.Sprintf("c%d_%d", i, j)
			opts.Computed = append(opts.Computed, instance.ComputedDef{
				Name: name,
				Get: func(in *instance.Instance) any {
					return in.Get(from).(int) + 1
				},
			})
			prev = name
		}
		opts.Watch = append(opts.Watch, instance.WatchDef{Expr: prev, Handler: pass})
	}
	return instance.New(sys, opts)
}

func propagate(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Uint(itersKey))
	maxNodes := int(cmd.Uint(maxNodesKey))

	tbl := table.NewWriter()
	tbl.SetTitle("Computed chains")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			if w*h > maxNodes {
				log.Printf("skipping %d * %d, over %d computed fields", w, h, maxNodes)
				continue
			}

			sys := observer.NewSystem(observer.WithErrorHandler(func(from any, err error) {
				log.Panic(err)
			}))
			in := chain(sys, w, h)
			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			for i := 0; i < iters; i++ {
				start := time.Now()
				in.Set("src", in.Get("src").(int)+1)
				tach.AddTime(time.Since(start))
			}
			in.Destroy()

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	tbl.Render()
	return nil
}
