package event_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsingh-ds/elimbackoff/event"
)

func TestNoopRecorderDiscardsEverything(t *testing.T) {
	var r event.NoopRecorder
	assert.NotPanics(t, func() { r.Record(event.Event{Kind: event.StartPush}) })
}

func TestKindStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "StartPush", event.StartPush.String())
	assert.Equal(t, "FinishPop", event.FinishPop.String())
	assert.Equal(t, "Unknown", event.Kind(255).String())
}

func TestBufferRecorderAppendsInOrder(t *testing.T) {
	r := &event.BufferRecorder{}
	r.Record(event.Event{Kind: event.StartPush})
	r.Record(event.Event{Kind: event.TryStack})
	r.Record(event.Event{Kind: event.FinishPush})

	require.Len(t, r.Events, 3)
	assert.Equal(t, event.StartPush, r.Events[0].Kind)
	assert.Equal(t, event.FinishPush, r.Events[2].Kind)
}

func TestSplitGroupsEventsByOperation(t *testing.T) {
	events := []event.Event{
		{Kind: event.StartPush},
		{Kind: event.TryStack},
		{Kind: event.FinishPush},
		{Kind: event.StartPop},
		{Kind: event.TryStack},
		{Kind: event.TryEliminationArray},
		{Kind: event.FinishPop},
	}

	ops := event.Split(events)
	require.Len(t, ops, 2)
	assert.Equal(t, event.StartPush, ops[0].Kind)
	assert.Len(t, ops[0].Events, 3)
	assert.Equal(t, event.StartPop, ops[1].Kind)
	assert.Len(t, ops[1].Events, 4)
}

func TestSplitIgnoresEventsBeforeFirstStart(t *testing.T) {
	events := []event.Event{
		{Kind: event.TryStack},
		{Kind: event.StartPush},
		{Kind: event.FinishPush},
	}

	ops := event.Split(events)
	require.Len(t, ops, 1)
	assert.Len(t, ops[0].Events, 2)
}

func TestReportSummarisesLongestOperations(t *testing.T) {
	events := []event.Event{
		{Kind: event.StartPush},
		{Kind: event.FinishPush},
		{Kind: event.StartPush},
		{Kind: event.TryStack},
		{Kind: event.TryEliminationArray},
		{Kind: event.FinishPush},
		{Kind: event.StartPop},
		{Kind: event.FinishPop},
	}

	summary := event.Report(events)
	assert.Equal(t, 3, summary.TotalOps)
	assert.Equal(t, 2, summary.PushOps)
	assert.Equal(t, 1, summary.PopOps)
	require.True(t, summary.HasPush)
	assert.Len(t, summary.LongestPush.Events, 4)
	require.True(t, summary.HasPop)
	assert.Len(t, summary.LongestPop.Events, 2)
}

func TestPrometheusRecorderCountsByKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := event.NewPrometheusRecorder(reg)
	require.NoError(t, err)

	r.Record(event.Event{Kind: event.StartPush})
	r.Record(event.Event{Kind: event.StartPush})
	r.Record(event.Event{Kind: event.StartPop})

	const want = `
		# HELP elimbackoff_stack_events_total Count of elimination-backoff stack instrumentation events by kind.
		# TYPE elimbackoff_stack_events_total counter
		elimbackoff_stack_events_total{kind="StartPop"} 1
		elimbackoff_stack_events_total{kind="StartPush"} 2
	`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "elimbackoff_stack_events_total"))
}

func TestPrometheusRecorderSecondRegistrationReusesCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := event.NewPrometheusRecorder(reg)
	require.NoError(t, err)

	second, err := event.NewPrometheusRecorder(reg)
	require.NoError(t, err)

	first.Record(event.Event{Kind: event.StartPush})
	second.Record(event.Event{Kind: event.StartPush})

	const want = `
		# HELP elimbackoff_stack_events_total Count of elimination-backoff stack instrumentation events by kind.
		# TYPE elimbackoff_stack_events_total counter
		elimbackoff_stack_events_total{kind="StartPush"} 2
	`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "elimbackoff_stack_events_total"))
}
