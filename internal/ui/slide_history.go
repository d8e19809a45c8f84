package ui

import (
	"fmt"
	"strings"
	"time"

	"slidingpanel/internal/trace"
)

// historyLimit is how many slides the history shows.
const historyLimit = 5

// RenderSlideHistory renders the most recent slides of t as a tree, newest
// last. Slides still in progress show as running.
func RenderSlideHistory(t *trace.Trace, limit int) string {
	if t == nil || t.RootSpan == nil {
		return Styles.Muted.Render("No slide history")
	}
	root := t.RootSpan
	lines := []string{Styles.Title.Render(fmt.Sprintf("Slides: %d (trace %s)", len(root.Children), shortTraceID(t.ID)))}
	if len(root.Children) == 0 {
		lines = append(lines, Styles.Muted.Render("  (no slides yet)"))
		return strings.Join(lines, "\n")
	}

	slides := root.Children
	if limit > 0 && len(slides) > limit {
		slides = slides[len(slides)-limit:]
	}
	for i, s := range slides {
		branch := "├─"
		if i == len(slides)-1 {
			branch = "└─"
		}
		lines = append(lines, fmt.Sprintf("  %s %s", branch, renderSlide(s)))
	}
	return strings.Join(lines, "\n")
}

func renderSlide(s *trace.Span) string {
	from, to := s.Attributes["from_state"], s.Attributes["to_state"]
	if to == "" {
		return fmt.Sprintf("%s %s → … %s", s.Name, from, Styles.Muted.Render("running"))
	}
	line := fmt.Sprintf("%s %s → %s %s", s.Name, from, to, formatDuration(s.Duration))
	if s.Attributes["interrupted"] == "true" {
		line += Styles.Muted.Render(" (interrupted)")
	}
	return line
}

// formatDuration formats a slide duration in milliseconds or seconds.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func shortTraceID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
