// Command elimbackoff-stack-bench drives producer/consumer workloads
// against the elimination-backoff Stack and a couple of baseline
// containers, and reports throughput across a thread-count sweep.
//
// Adapted from mxinden/elimination-backoff-stack's benches/lib.rs, which
// runs the same kind of comparison harness alongside the library.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gsingh-ds/elimbackoff"
	"github.com/gsingh-ds/elimbackoff/event"
	"github.com/gsingh-ds/elimbackoff/strategy"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Fatal("elimbackoff-stack-bench failed")
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "elimbackoff-stack-bench",
		Short: "Benchmark the elimination-backoff Stack against baseline containers",
	}
	root.AddCommand(newRunCmd(), newCompareCmd())
	return root
}

func strategyFactory(name string) (strategy.Factory, error) {
	switch name {
	case "none":
		return strategy.None{}, nil
	case "backandforth":
		return strategy.BackAndForth{}, nil
	case "expbackoff", "":
		return strategy.ExpBackoff{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want none|backandforth|expbackoff)", name)
	}
}

func threadSweep(maxThreads int) []int {
	if maxThreads < 1 {
		maxThreads = runtime.NumCPU()
	}
	var sweep []int
	for t := 1; t <= maxThreads; t *= 2 {
		sweep = append(sweep, t)
	}
	if sweep[len(sweep)-1] != maxThreads {
		sweep = append(sweep, maxThreads)
	}
	return sweep
}

func newRunCmd() *cobra.Command {
	var (
		strategyName string
		opsPerThread int
		maxThreads   int
		chartPath    string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the Stack alone across a thread-count sweep under one strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, err := strategyFactory(strategyName)
			if err != nil {
				return err
			}

			recorder := &event.BufferRecorder{}
			sweep := threadSweep(maxThreads)
			results := make([]runResult, 0, len(sweep))
			for _, threads := range sweep {
				c := newStackContainer(
					elimbackoff.WithStrategy[int](factory),
					elimbackoff.WithEventRecorder[int](recorder),
				)
				results = append(results, runWorkload(strategyName, c, threads, opsPerThread))
				log.WithFields(logrus.Fields{"threads": threads, "strategy": strategyName}).Info("sweep point complete")
			}

			sweeps := []sweepResult{{Label: strategyName, Results: results}}
			if err := printSummary(os.Stdout, sweeps); err != nil {
				return err
			}
			printEventSummary(os.Stdout, recorder.Events)

			if chartPath != "" {
				return renderThroughputChart(chartPath, sweeps)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyName, "strategy", "expbackoff", "strategy to benchmark: none|backandforth|expbackoff")
	cmd.Flags().IntVar(&opsPerThread, "ops-per-thread", 20_000, "push/pop operations per goroutine")
	cmd.Flags().IntVar(&maxThreads, "max-threads", 0, "largest goroutine count in the sweep (default: NumCPU)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write an HTML throughput chart to this path")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var (
		opsPerThread int
		maxThreads   int
		chartPath    string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare mutex-guarded, ring-buffer, and Stack (every strategy) containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			sweep := threadSweep(maxThreads)

			containers := []struct {
				label string
				build func(threads int) container
			}{
				{"mutex-slice", func(threads int) container {
					return newMutexSlice(threads * opsPerThread)
				}},
				{"ring-buffer", func(threads int) container {
					return newRingBaseline(threads * opsPerThread)
				}},
				{"stack/none", func(int) container {
					return newStackContainer(elimbackoff.WithStrategy[int](strategy.None{}))
				}},
				{"stack/backandforth", func(int) container {
					return newStackContainer(elimbackoff.WithStrategy[int](strategy.BackAndForth{}))
				}},
				{"stack/expbackoff", func(int) container {
					return newStackContainer(elimbackoff.WithStrategy[int](strategy.ExpBackoff{}))
				}},
			}

			sweeps := make([]sweepResult, 0, len(containers))
			for _, cc := range containers {
				results := make([]runResult, 0, len(sweep))
				for _, threads := range sweep {
					results = append(results, runWorkload(cc.label, cc.build(threads), threads, opsPerThread))
					log.WithFields(logrus.Fields{"threads": threads, "container": cc.label}).Info("sweep point complete")
				}
				sweeps = append(sweeps, sweepResult{Label: cc.label, Results: results})
			}

			if err := printSummary(os.Stdout, sweeps); err != nil {
				return err
			}
			if chartPath != "" {
				return renderThroughputChart(chartPath, sweeps)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opsPerThread, "ops-per-thread", 20_000, "push/pop operations per goroutine")
	cmd.Flags().IntVar(&maxThreads, "max-threads", 0, "largest goroutine count in the sweep (default: NumCPU)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write an HTML throughput chart to this path")
	return cmd
}
