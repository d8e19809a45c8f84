package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"slidingpanel/internal/panel"
	"slidingpanel/internal/progress"
	"slidingpanel/internal/trace"
	"slidingpanel/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// drawerBody is shown inside the drawer.
const drawerBody = `Drag the handle with the mouse, or use the keys.

A slow release settles toward the nearer edge.
A quick flick settles in the direction it was thrown.`

// config holds the parsed CLI configuration.
type config struct {
	orientation     string
	peek            int
	expandedRatio   float64
	flingVelocity   float64
	settleThreshold float64
	settleDuration  time.Duration
	touchSlop       float64
	events          string
	summary         string
	debug           string
	verbose         bool
}

func newFlagSet(cfg *config) *flag.FlagSet {
	def := panel.DefaultConfig()
	fs := flag.NewFlagSet("slidepanel", flag.ContinueOnError)

	fs.StringVar(&cfg.orientation, "orientation", "vertical", "drawer axis: vertical (bottom edge) or horizontal (right edge)")
	fs.IntVar(&cfg.peek, "peek", 3, "collapsed drawer size in cells")
	fs.Float64Var(&cfg.expandedRatio, "expanded-ratio", 0.6, "expanded drawer size as a share of the screen, in (0, 1]")
	fs.Float64Var(&cfg.flingVelocity, "fling-velocity", def.FlingVelocity, "release speed in cells/s above which a release is a fling")
	fs.Float64Var(&cfg.settleThreshold, "settle-threshold", def.SettleThreshold, "progress at or above which a slow release opens the drawer")
	fs.DurationVar(&cfg.settleDuration, "settle-duration", def.SettleDuration, "duration of a full-distance settle")
	fs.Float64Var(&cfg.touchSlop, "touch-slop", def.TouchSlop, "movement in cells before a press becomes a drag")
	fs.StringVar(&cfg.events, "events", "", "write slide notifications to this file as JSON lines")
	fs.StringVar(&cfg.summary, "summary", "", "summarize an event log written by -events and exit")
	fs.StringVar(&cfg.debug, "debug", "", "write log output to this file")
	fs.BoolVar(&cfg.verbose, "verbose", false, "enable detailed logging")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: slidepanel [flags]\n\n")
		fmt.Fprintf(fs.Output(), "slidepanel shows a draggable drawer that settles open or closed\n")
		fmt.Fprintf(fs.Output(), "and reports every slide to its listeners.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}
	return fs
}

func parseArgs(args []string) (config, error) {
	var cfg config
	fs := newFlagSet(&cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg, nil
}

func parseFlags() config {
	cfg, err := parseArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// panelConfig applies the flags to the panel defaults.
func (c config) panelConfig() (panel.Config, error) {
	pc := panel.DefaultConfig()
	pc.FlingVelocity = c.flingVelocity
	pc.SettleThreshold = c.settleThreshold
	pc.SettleDuration = c.settleDuration
	pc.TouchSlop = c.touchSlop
	if err := pc.Validate(); err != nil {
		return pc, err
	}
	return pc, nil
}

// panelOptions converts the layout flags into view options.
func (c config) panelOptions() (ui.PanelOptions, error) {
	o, err := ui.ParseOrientation(c.orientation)
	if err != nil {
		return ui.PanelOptions{}, err
	}
	if c.peek < 0 {
		return ui.PanelOptions{}, fmt.Errorf("peek %d: must not be negative", c.peek)
	}
	if !(c.expandedRatio > 0 && c.expandedRatio <= 1) {
		return ui.PanelOptions{}, fmt.Errorf("expanded-ratio %v: must be in (0, 1]", c.expandedRatio)
	}
	return ui.PanelOptions{
		Orientation:   o,
		Peek:          c.peek,
		ExpandedRatio: c.expandedRatio,
		Body:          drawerBody,
	}, nil
}

func run(cfg config) error {
	if cfg.summary != "" {
		return summarize(os.Stdout, cfg.summary)
	}

	pcfg, err := cfg.panelConfig()
	if err != nil {
		return err
	}
	opts, err := cfg.panelOptions()
	if err != nil {
		return err
	}

	// Log output would corrupt the alt screen unless it goes to a file.
	if cfg.debug != "" {
		f, err := tea.LogToFile(cfg.debug, "slidepanel")
		if err != nil {
			return fmt.Errorf("debug log: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	if cfg.verbose {
		log.Printf("config: orientation=%s peek=%d expanded-ratio=%v fling-velocity=%v settle-threshold=%v settle-duration=%v touch-slop=%v",
			opts.Orientation, opts.Peek, opts.ExpandedRatio, pcfg.FlingVelocity, pcfg.SettleThreshold, pcfg.SettleDuration, pcfg.TouchSlop)
	}

	c, err := panel.New(pcfg)
	if err != nil {
		return err
	}

	if cfg.events != "" {
		stop, err := startEventLog(c, cfg.events, cfg.verbose)
		if err != nil {
			return err
		}
		defer stop()
	}

	ctx := context.Background()
	otlp, err := trace.NewOTLPExporter(ctx)
	if err != nil {
		return err
	}
	var exporter trace.Exporter
	if otlp != nil {
		exporter = otlp
	}
	traces := trace.NewManager(10, exporter)
	tl := trace.NewListener(traces, "slidepanel", nil)
	c.AddSlideListener(tl.Observe)

	app := ui.NewAppModel("Sliding panel", c, opts)
	app.History = func() *trace.Trace { return traces.GetTrace(tl.TraceID()) }

	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, runErr := p.Run()

	// Finish any slide in flight so every listener sees a rest state.
	c.Detach()
	app.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := tl.Close(shutdownCtx); err != nil {
		log.Printf("trace shutdown: %v", err)
	}
	if err := traces.LastExportError(); err != nil {
		log.Printf("trace export: %v", err)
	}
	if cfg.verbose {
		log.Printf("final state %s progress %.2f", c.State(), c.Progress())
	}

	if runErr != nil {
		return fmt.Errorf("ui: %w", runErr)
	}
	return nil
}

// startEventLog writes every notification of c to path. The returned stop
// closes the log once the panel is done.
func startEventLog(c *panel.Controller, path string, verbose bool) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("event log: %w", err)
	}

	ch := make(chan progress.Event, 256)
	emitter := &progress.ChanEmitter{Ch: ch}
	sub := c.AddSlideListener(emitter.Listener())

	done := make(chan struct{})
	go func() {
		defer close(done)
		n, err := progress.WriteLog(f, ch)
		if err != nil {
			log.Printf("event log: %v", err)
		}
		if verbose {
			log.Printf("event log: %d events written to %s", n, path)
		}
	}()

	return func() {
		c.RemoveSlideListener(sub)
		close(ch)
		<-done
		if d := emitter.Dropped(); d > 0 {
			log.Printf("event log: dropped %d events", d)
		}
		if err := f.Close(); err != nil {
			log.Printf("event log: %v", err)
		}
	}, nil
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "slidepanel: %v\n", err)
		os.Exit(1)
	}
}
