// Package report renders completed runs and sweeps to JSON documents and
// plain-text summary tables
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/GustavOdysseus/odysseus-backtester/common"
	"github.com/GustavOdysseus/odysseus-backtester/engine"
	"github.com/GustavOdysseus/odysseus-backtester/log"
	"github.com/GustavOdysseus/odysseus-backtester/statistics"
	"github.com/GustavOdysseus/odysseus-backtester/sweep"
)

// ErrNilResult returned when there is nothing to render
var ErrNilResult = errors.New("nil result")

// parameterColumnLimit keeps large grids from stretching the parameters
// column beyond one readable line per row
const parameterColumnLimit = 48

// WriteRunJSON renders a complete run result as indented JSON
func WriteRunJSON(w io.Writer, result *engine.RunResult) error {
	if w == nil || result == nil {
		return common.ErrNilArguments
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// SaveRunJSON writes the run document to dir under a deterministic name
// derived from the run identifier
func SaveRunJSON(dir string, result *engine.RunResult) (string, error) {
	if result == nil {
		return "", ErrNilResult
	}
	name, err := common.GenerateFileName(fmt.Sprintf("run-%v", result.Meta.ID), "json")
	if err != nil {
		return "", err
	}
	target := filepath.Join(dir, name)
	f, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := WriteRunJSON(f, result); err != nil {
		return "", err
	}
	log.Infof(log.Report, "run report written to %v", target)
	return target, nil
}

// WriteSweepTable renders ranked sweep items as a plain-text table, best
// first. Failed cells render their error in place of a score
func WriteSweepTable(w io.Writer, items []sweep.Item, metric string) error {
	if w == nil {
		return common.ErrNilArguments
	}
	if len(items) == 0 {
		return fmt.Errorf("%w of sweep items", common.ErrEmptySlice)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Parameters", metric, "Total Return", "Max Drawdown", "Trades"})
	for i := range items {
		params := common.FitStringToLimit(items[i].Params.String(), " ", parameterColumnLimit, false)
		row := []string{strconv.Itoa(i + 1), params}
		if items[i].Err != "" {
			row = append(row, items[i].Err, "-", "-", "-")
		} else if items[i].Result == nil || items[i].Result.Metrics == nil {
			row = append(row, "-", "-", "-", "-")
		} else {
			m := items[i].Result.Metrics
			v, err := m.GetMetric(metric)
			if err != nil {
				return err
			}
			row = append(row,
				formatScore(v),
				formatScore(m.TotalReturn),
				formatScore(m.MaxDrawdown),
				strconv.Itoa(m.TotalTrades))
		}
		table.Append(row)
	}
	table.Render()
	return nil
}

// WriteWalkForwardTable renders the per-fold walk-forward outcomes
func WriteWalkForwardTable(w io.Writer, result *sweep.WalkForwardResult) error {
	if w == nil {
		return common.ErrNilArguments
	}
	if result == nil {
		return ErrNilResult
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Fold", "Train", "Test", "Parameters", "Ending Equity"})
	for i := range result.Folds {
		f := result.Folds[i]
		ending := "-"
		if f.Result != nil && len(f.Result.Equity) > 0 {
			ending = f.Result.Equity[len(f.Result.Equity)-1].TotalEquity.StringFixed(2)
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%v-%v", f.TrainStart, f.TrainEnd),
			fmt.Sprintf("%v-%v", f.TestStart, f.TestEnd),
			f.Params.String(),
			ending,
		})
	}
	table.Render()
	if result.Metrics != nil {
		fmt.Fprintf(w, "out-of-sample total return %v over %v folds\n",
			formatScore(result.Metrics.TotalReturn), len(result.Folds))
	}
	return nil
}

// WriteDistributionTable renders a Monte Carlo distribution summary
func WriteDistributionTable(w io.Writer, d *sweep.Distribution) error {
	if w == nil {
		return common.ErrNilArguments
	}
	if d == nil {
		return ErrNilResult
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Samples", "Mean", "P5", "P50", "P95"})
	table.Append([]string{
		d.Metric,
		strconv.Itoa(d.Samples),
		formatScore(d.Mean),
		formatScore(d.P5),
		formatScore(d.P50),
		formatScore(d.P95),
	})
	table.Render()
	return nil
}

// WriteMetricsTable renders one run's scorecard as name value rows
func WriteMetricsTable(w io.Writer, m *statistics.Metrics) error {
	if w == nil {
		return common.ErrNilArguments
	}
	if m == nil {
		return ErrNilResult
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	rows := [][2]string{
		{"initial equity", formatScore(m.InitialEquity)},
		{"final equity", formatScore(m.FinalEquity)},
		{statistics.TotalReturn, formatScore(m.TotalReturn)},
		{statistics.AnnualizedReturn, formatScore(m.AnnualizedReturn)},
		{statistics.Volatility, formatScore(m.Volatility)},
		{statistics.SharpeRatio, formatScore(m.SharpeRatio)},
		{statistics.SortinoRatio, formatScore(m.SortinoRatio)},
		{statistics.MaxDrawdown, formatScore(m.MaxDrawdown)},
		{statistics.WinRate, formatScore(m.WinRate)},
		{statistics.ProfitFactor, formatScore(m.ProfitFactor)},
		{"trades", strconv.Itoa(m.TotalTrades)},
	}
	for i := range rows {
		table.Append(rows[i][:])
	}
	table.Render()
	return nil
}

func formatScore(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}
