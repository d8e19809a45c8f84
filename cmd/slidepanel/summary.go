package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"slidingpanel/internal/panel"
	"slidingpanel/internal/progress"
)

// logSummary describes a recorded event log.
type logSummary struct {
	Events   int
	ByState  map[panel.State]int
	Slides   int // entries into Sliding from a rest state
	Opens    int // slides that ended Expanded
	Closes   int // slides that ended Collapsed
	Final    panel.State
	Progress float64
	Span     time.Duration
}

func summarizeEvents(events []progress.Event) logSummary {
	s := logSummary{ByState: make(map[panel.State]int)}
	prev := panel.Collapsed
	for i, ev := range events {
		s.Events++
		s.ByState[ev.State]++
		switch {
		case ev.State == panel.Sliding && prev != panel.Sliding:
			s.Slides++
		case ev.State == panel.Expanded && prev == panel.Sliding:
			s.Opens++
		case ev.State == panel.Collapsed && prev == panel.Sliding:
			s.Closes++
		}
		prev = ev.State
		if i == len(events)-1 {
			s.Final, s.Progress = ev.State, ev.Progress
			s.Span = ev.Timestamp.Sub(events[0].Timestamp)
		}
	}
	return s
}

func summarize(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	defer f.Close()

	events, err := progress.ReadLog(f)
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	writeSummary(w, summarizeEvents(events))
	return nil
}

func writeSummary(w io.Writer, s logSummary) {
	fmt.Fprintf(w, "events:  %d over %v\n", s.Events, s.Span.Round(time.Millisecond))
	for _, st := range []panel.State{panel.Collapsed, panel.Expanded, panel.Sliding} {
		fmt.Fprintf(w, "  %-9s %d\n", st, s.ByState[st])
	}
	fmt.Fprintf(w, "slides:  %d (%d opened, %d closed)\n", s.Slides, s.Opens, s.Closes)
	if s.Events > 0 {
		fmt.Fprintf(w, "final:   %s %.2f\n", s.Final, s.Progress)
	}
}
