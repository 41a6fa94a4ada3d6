// Command corebench is a thin demonstration shell: it builds synthetic
// series, runs one core operator against them, and prints timing and row
// counts. It owns the explicit init/shutdown of the process-wide
// transform and entity registries, since those live as application-shell
// responsibilities rather than package-level singletons.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-kit/log/level"

	"github.com/paulmthompson/whiskertoolbox-datacore/aggregation"
	"github.com/paulmthompson/whiskertoolbox-datacore/boolean"
	"github.com/paulmthompson/whiskertoolbox-datacore/entity"
	ivl "github.com/paulmthompson/whiskertoolbox-datacore/interval"
	"github.com/paulmthompson/whiskertoolbox-datacore/internal/coreconfig"
	"github.com/paulmthompson/whiskertoolbox-datacore/internal/corelog"
	"github.com/paulmthompson/whiskertoolbox-datacore/peak"
	"github.com/paulmthompson/whiskertoolbox-datacore/registry"
	"github.com/paulmthompson/whiskertoolbox-datacore/series"
)

var cli struct {
	Config string  `help:"Path to a ShellConfig YAML file." type:"path"`
	Bench  benchCmd `cmd:"" help:"Run a synthetic benchmark against one core operator."`
}

type benchCmd struct {
	Bool      boolCmd      `cmd:"" help:"Benchmark the interval boolean algebra operator."`
	Peak      peakCmd      `cmd:"" help:"Benchmark the analog interval-peak operator."`
	Aggregate aggregateCmd `cmd:"" help:"Benchmark tabular aggregation."`
}

type boolCmd struct {
	N  int    `default:"1000" help:"Number of intervals per input series."`
	Op string `default:"or" enum:"and,or,xor,not,and_not" help:"Boolean operation to run."`
}

func (c *boolCmd) Run(app *appContext) error {
	a := series.NewDigitalIntervalSeries(randomIntervals(c.N, 1000))
	b := series.NewDigitalIntervalSeries(randomIntervals(c.N, 1000))

	op := map[string]boolean.Op{
		"and": boolean.And, "or": boolean.Or, "xor": boolean.Xor,
		"not": boolean.Not, "and_not": boolean.AndNot,
	}[c.Op]

	start := time.Now()
	result := boolean.Compute(op, a, b)
	elapsed := time.Since(start)

	fmt.Fprintf(os.Stdout, "bench bool: op=%s inputs=%d result_intervals=%d elapsed=%s\n", c.Op, c.N, result.Len(), elapsed)
	return nil
}

type peakCmd struct {
	N int `default:"1000" help:"Number of intervals/samples."`
}

func (c *peakCmd) Run(app *appContext) error {
	times := make([]int64, c.N)
	values := make([]float32, c.N)
	for i := range times {
		times[i] = int64(i)
		values[i] = rand.Float32() * 100
	}
	analog, err := series.NewAnalogTimeSeries(values, times)
	if err != nil {
		return err
	}
	intervals := series.NewDigitalIntervalSeries(randomIntervals(c.N/10+1, c.N))

	start := time.Now()
	events := peak.Compute(intervals, analog, peak.Max, peak.WithinIntervals, peak.Context{})
	elapsed := time.Since(start)

	fmt.Fprintf(os.Stdout, "bench peak: samples=%d ranges=%d events=%d elapsed=%s\n", c.N, intervals.Len(), len(events), elapsed)
	return nil
}

type aggregateCmd struct {
	Rows int `default:"1000" help:"Number of row intervals."`
}

func (c *aggregateCmd) Run(app *appContext) error {
	rows := randomIntervals(c.Rows, c.Rows*10)
	refs := aggregation.NewReferenceSet()
	refs.Intervals["ref"] = randomIntervals(c.Rows/5+1, c.Rows*10)

	columns := []aggregation.ColumnConfig{
		{Type: aggregation.Start, ColumnName: "start"},
		{Type: aggregation.Duration, ColumnName: "duration"},
		{Type: aggregation.IntervalCount, ColumnName: "ref_count", ReferenceKey: "ref"},
	}

	start := time.Now()
	out, err := aggregation.Aggregate(rows, columns, refs)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "bench aggregate: rows=%d columns=%d elapsed=%s\n", len(out), len(columns), elapsed)
	return nil
}

func randomIntervals(n int, span int64) []ivl.Interval {
	out := make([]ivl.Interval, n)
	for i := range out {
		start := rand.Int63n(span)
		out[i] = ivl.New(start, start+rand.Int63n(10))
	}
	return out
}

// appContext is threaded to every subcommand's Run method by kong's
// dependency-binding mechanism.
type appContext struct {
	entities *entity.Registry
	ops      *registry.Registry
}

func main() {
	logger := corelog.NewStderr()

	app := &appContext{
		entities: entity.NewRegistry(),
		ops:      registry.Init(),
	}
	defer registry.Shutdown()

	ctx := kong.Parse(&cli, kong.Bind(app))

	cfg := coreconfig.Default()
	if cli.Config != "" {
		loaded, err := coreconfig.Load(cli.Config)
		if err != nil {
			level.Error(logger).Log("msg", "failed to load config, using defaults", "err", err)
		} else {
			cfg = loaded
		}
	}
	level.Info(logger).Log("msg", "starting corebench", "entity_namespace", cfg.EntityNamespace)

	err := ctx.Run(app)
	ctx.FatalIfErrorf(err)
}
