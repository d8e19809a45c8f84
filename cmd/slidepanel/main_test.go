package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"slidingpanel/internal/panel"
	"slidingpanel/internal/progress"
	"slidingpanel/internal/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs_Defaults(t *testing.T) {
	cfg, err := parseArgs(nil)
	require.NoError(t, err)

	def := panel.DefaultConfig()
	assert.Equal(t, "vertical", cfg.orientation)
	assert.Equal(t, 3, cfg.peek)
	assert.Equal(t, def.FlingVelocity, cfg.flingVelocity)
	assert.Equal(t, def.SettleDuration, cfg.settleDuration)

	pc, err := cfg.panelConfig()
	require.NoError(t, err)
	assert.Equal(t, def.Policy, pc.Policy)
	assert.Equal(t, def.SettleDuration, pc.SettleDuration)
	assert.Equal(t, def.TouchSlop, pc.TouchSlop)
}

func TestParseArgs_Overrides(t *testing.T) {
	cfg, err := parseArgs([]string{
		"-orientation", "horizontal",
		"-peek", "5",
		"-expanded-ratio", "0.8",
		"-settle-duration", "150ms",
		"-touch-slop", "1",
	})
	require.NoError(t, err)

	opts, err := cfg.panelOptions()
	require.NoError(t, err)
	assert.Equal(t, ui.Horizontal, opts.Orientation)
	assert.Equal(t, 5, opts.Peek)
	assert.Equal(t, 0.8, opts.ExpandedRatio)

	pc, err := cfg.panelConfig()
	require.NoError(t, err)
	assert.Equal(t, 150*time.Millisecond, pc.SettleDuration)
	assert.Equal(t, 1.0, pc.TouchSlop)
}

func TestParseArgs_Rejects(t *testing.T) {
	_, err := parseArgs([]string{"extra"})
	assert.Error(t, err)

	cfg, err := parseArgs([]string{"-settle-threshold", "1.5"})
	require.NoError(t, err)
	_, err = cfg.panelConfig()
	assert.ErrorIs(t, err, panel.ErrInvalidConfig)

	for _, args := range [][]string{
		{"-orientation", "diagonal"},
		{"-peek", "-1"},
		{"-expanded-ratio", "0"},
		{"-expanded-ratio", "1.2"},
	} {
		cfg, err := parseArgs(args)
		require.NoError(t, err)
		_, err = cfg.panelOptions()
		assert.Error(t, err, "%v", args)
	}
}

func TestSummarize(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []progress.Event{
		{State: panel.Sliding, Progress: 0, Timestamp: t0},
		{State: panel.Sliding, Progress: 0.5, Timestamp: t0.Add(100 * time.Millisecond)},
		{State: panel.Expanded, Progress: 1, Timestamp: t0.Add(300 * time.Millisecond)},
		{State: panel.Sliding, Progress: 0.9, Timestamp: t0.Add(time.Second)},
		{State: panel.Collapsed, Progress: 0, Timestamp: t0.Add(1300 * time.Millisecond)},
	}

	path := filepath.Join(t.TempDir(), "events.jsonl")
	f, err := os.Create(path)
	require.NoError(t, err)
	ch := make(chan progress.Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	_, err = progress.WriteLog(f, ch)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	var buf bytes.Buffer
	require.NoError(t, summarize(&buf, path))
	out := buf.String()
	assert.Contains(t, out, "events:  5 over 1.3s")
	assert.Contains(t, out, "slides:  2 (1 opened, 1 closed)")
	assert.Contains(t, out, "final:   COLLAPSED 0.00")
}

func TestSummarize_MissingFile(t *testing.T) {
	err := summarize(&bytes.Buffer{}, filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStartEventLog(t *testing.T) {
	c, err := panel.New(panel.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, c.Layout(panel.Geometry{Collapsed: 0, Expanded: 10}))

	path := filepath.Join(t.TempDir(), "events.jsonl")
	stop, err := startEventLog(c, path, false)
	require.NoError(t, err)

	c.Open()
	for c.Advance(16 * time.Millisecond) {
	}
	stop()
	assert.Equal(t, 0, c.ListenerCount())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	events, err := progress.ReadLog(f)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Equal(t, panel.Sliding, events[0].State)
	assert.Equal(t, panel.Expanded, events[len(events)-1].State)
}
