package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"

	"github.com/gsingh-ds/elimbackoff/event"
)

// sweepResult groups every runResult for one container label across the
// whole thread-count sweep, the unit report.go and the chart renderer both
// work with.
type sweepResult struct {
	Label   string
	Results []runResult
}

// printSummary writes a human-readable throughput table to w, mirroring
// original_source/benches/lib.rs's criterion console output: one line per
// (container, thread count) with its op count and throughput, then one line
// per container with the mean/p50/p99 of those throughputs across the
// sweep's thread counts.
func printSummary(w io.Writer, sweeps []sweepResult) error {
	for _, sw := range sweeps {
		fmt.Fprintf(w, "%s\n", sw.Label)
		samples := make([]float64, 0, len(sw.Results))
		for _, r := range sw.Results {
			fmt.Fprintf(w, "  threads=%-4d ops=%s throughput=%s ops/s\n",
				r.Threads,
				humanize.Comma(r.TotalOps),
				humanize.Comma(int64(r.ThroughputOpsPerSec())),
			)
			samples = append(samples, r.ThroughputOpsPerSec())
		}

		mean, p50, p99, err := summariseThroughput(samples)
		if err != nil {
			return fmt.Errorf("%s: %w", sw.Label, err)
		}
		fmt.Fprintf(w, "  across sweep: mean=%s p50=%s p99=%s ops/s\n",
			humanize.Comma(int64(mean)), humanize.Comma(int64(p50)), humanize.Comma(int64(p99)))
	}
	return nil
}

// summariseThroughput reduces the per-thread-count throughput samples
// across one container's sweep down to mean/p50/p99, using
// montanaflynn/stats the way a repeated-trial benchmark driver would to
// smooth out scheduler noise.
func summariseThroughput(samples []float64) (mean, p50, p99 float64, err error) {
	mean, err = stats.Mean(samples)
	if err != nil {
		return 0, 0, 0, err
	}
	p50, err = stats.Percentile(samples, 50)
	if err != nil {
		return 0, 0, 0, err
	}
	p99, err = stats.Percentile(samples, 99)
	if err != nil {
		return 0, 0, 0, err
	}
	return mean, p50, p99, nil
}

// renderThroughputChart writes an HTML line chart of throughput vs. thread
// count, one line per container label, to path.
func renderThroughputChart(path string, sweeps []sweepResult) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "elimination-backoff stack throughput",
			Subtitle: "ops/sec vs. concurrent goroutines",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "threads"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ops/sec"}),
	)

	if len(sweeps) == 0 {
		return fmt.Errorf("renderThroughputChart: no sweep data")
	}

	threadLabels := make([]string, len(sweeps[0].Results))
	for i, r := range sweeps[0].Results {
		threadLabels[i] = fmt.Sprintf("%d", r.Threads)
	}
	line.SetXAxis(threadLabels)

	for _, sw := range sweeps {
		points := make([]opts.LineData, len(sw.Results))
		for i, r := range sw.Results {
			points[i] = opts.LineData{Value: r.ThroughputOpsPerSec()}
		}
		line.AddSeries(sw.Label, points)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return line.Render(f)
}

// printEventSummary reports the longest-running recorded push/pop, using
// this package's own event.Report helper — the restored counterpart of
// original_source/src/statistic.rs's print_report.
func printEventSummary(w io.Writer, events []event.Event) {
	summary := event.Report(events)
	fmt.Fprintf(w, "recorded operations: %d (push=%d pop=%d)\n",
		summary.TotalOps, summary.PushOps, summary.PopOps)
	if summary.HasPush {
		fmt.Fprintf(w, "  longest push: %d events\n", len(summary.LongestPush.Events))
	}
	if summary.HasPop {
		fmt.Fprintf(w, "  longest pop: %d events\n", len(summary.LongestPop.Events))
	}
}
