package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/GustavOdysseus/odysseus-backtester/common"
	"github.com/GustavOdysseus/odysseus-backtester/engine"
	"github.com/GustavOdysseus/odysseus-backtester/kline"
	"github.com/GustavOdysseus/odysseus-backtester/log"
	"github.com/GustavOdysseus/odysseus-backtester/statistics"
)

const defaultMetric = statistics.SharpeRatio

// Combinations expands the grid into the cartesian product of its axes.
// Axes are walked in key order, so the combination sequence is stable for a
// given grid
func (g Grid) Combinations() ([]engine.Params, error) {
	if len(g) == 0 {
		return nil, ErrNoAxes
	}
	keys := make([]string, 0, len(g))
	total := 1
	for k := range g {
		if len(g[k]) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyAxis, k)
		}
		keys = append(keys, k)
		total *= len(g[k])
	}
	sort.Strings(keys)

	resp := make([]engine.Params, 0, total)
	indices := make([]int, len(keys))
	for {
		p := make(engine.Params, len(keys))
		for i, k := range keys {
			p[k] = g[k][indices[i]]
		}
		resp = append(resp, p)

		i := len(keys) - 1
		for ; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(g[keys[i]]) {
				break
			}
			indices[i] = 0
		}
		if i < 0 {
			return resp, nil
		}
	}
}

// Run executes every grid combination against the series and returns the
// items ranked by the configured metric. Individual run failures are
// recorded on their item rather than aborting the sweep; the context is
// honoured between runs, not inside one
func (g *GridSearch) Run(ctx context.Context, series *kline.Series) ([]Item, error) {
	if series == nil {
		return nil, common.ErrNilArguments
	}
	if g.Builder == nil {
		return nil, ErrNilBuilder
	}
	metric := g.Metric
	if metric == "" {
		metric = defaultMetric
	}
	if _, err := (&statistics.Metrics{}).GetMetric(metric); err != nil {
		return nil, err
	}
	combinations, err := g.Grid.Combinations()
	if err != nil {
		return nil, err
	}

	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(combinations) {
		workers = len(combinations)
	}

	items := make([]Item, len(combinations))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				items[i] = g.runOne(series, combinations[i])
			}
		}()
	}

feed:
	for i := range combinations {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	Rank(items, metric)
	log.Infof(log.Sweep, "grid search complete, %v combinations ranked by %v", len(items), metric)
	return items, nil
}

func (g *GridSearch) runOne(series *kline.Series, params engine.Params) Item {
	item := Item{Params: params}
	signals, settings, err := g.Builder(series, params)
	if err != nil {
		item.Err = err.Error()
		return item
	}
	result, err := engine.Run(series, signals, settings)
	if err != nil {
		item.Err = err.Error()
		return item
	}
	result.Params = params
	item.Result = result
	return item
}

// Rank sorts items best first by the named metric. Drawdown-like metrics
// rank ascending by absolute value, everything else descending. Items whose
// metric is NaN, whose run failed or which traded nothing useful sort to the
// tail, and ties break on the rendered parameters so equal inputs always
// produce the same order
func Rank(items []Item, metric string) {
	sort.SliceStable(items, func(i, j int) bool {
		vi, iOK := rankValue(&items[i], metric)
		vj, jOK := rankValue(&items[j], metric)
		if iOK != jOK {
			return iOK
		}
		if iOK && vi != vj {
			if statistics.IsDrawdownMetric(metric) {
				return math.Abs(vi) < math.Abs(vj)
			}
			return vi > vj
		}
		return items[i].Params.String() < items[j].Params.String()
	})
}

func rankValue(item *Item, metric string) (float64, bool) {
	if item.Err != "" || item.Result == nil || item.Result.Metrics == nil {
		return 0, false
	}
	v, err := item.Result.Metrics.GetMetric(metric)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Best returns the top-ranked item holding a usable metric value
func Best(items []Item, metric string) (*Item, error) {
	for i := range items {
		if _, ok := rankValue(&items[i], metric); ok {
			return &items[i], nil
		}
	}
	return nil, ErrNoResults
}
