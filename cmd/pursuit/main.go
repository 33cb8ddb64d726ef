package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/internal/render"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/internal/report"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/internal/store"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/internal/viewer"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/pursuit"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configFile := flag.String("config", "", "scenario JSON file (defaults to the built-in figure eight)")
	duration := flag.Float64("duration", -1, "simulated time to run; negative uses the config value")
	seed := flag.Int64("seed", -1, "noise seed; negative uses the config value")
	view := flag.String("view", "none", "viewer: none, window or terminal")
	dbPath := flag.String("db", "", "record the run trace into this SQLite file")
	plotDir := flag.String("plot", "", "write paths.png and distance.png into this directory")
	chartFile := flag.String("chart", "", "write an HTML distance chart to this file")
	debug := flag.Bool("debug", false, "log every step")
	flag.Parse()

	if err := run(*configFile, *duration, *seed, *view, *dbPath, *plotDir, *chartFile, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "pursuit: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string, duration float64, seed int64, view, dbPath, plotDir, chartFile string, debug bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := pursuit.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = pursuit.LoadConfig(configFile); err != nil {
			return err
		}
	}
	if duration >= 0 {
		cfg.Duration = duration
	}
	if seed >= 0 {
		cfg.Seed = uint64(seed)
	}

	logger := golog.DefaultLogger
	if debug {
		logger = golog.New(golog.DebugLevel, os.Stdout)
	}
	if view == "terminal" {
		// the terminal owns stdout
		logger = golog.DiscardLogger
	}

	sc, err := pursuit.Build(cfg, pursuit.WithLogger(logger))
	if err != nil {
		return err
	}
	sim := sc.Simulation

	collector := report.NewCollector()
	sim.AddObserver(collector)

	var recorder *store.Recorder
	if dbPath != "" {
		traces, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer traces.Close()
		cfgJSON, err := json.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		runID, err := traces.BeginRun(ctx, string(cfgJSON))
		if err != nil {
			return err
		}
		recorder = store.NewRecorder(ctx, traces, runID)
		sim.AddObserver(recorder)
	}

	grid, err := render.NewGrid(cfg.Map.Resolution, cfg.Map.Resolution, cfg.MapBounds())
	if err != nil {
		return err
	}
	painter := render.NewObserver(grid, cfg.Map.Fade, logger)

	switch view {
	case "none":
		err = sim.Run(ctx, cfg.Duration)
	case "terminal":
		err = runTerminal(ctx, sc, painter, cfg)
	case "window":
		err = runWindow(ctx, sc, painter, cfg, logger)
	default:
		return fmt.Errorf("unknown view %q", view)
	}
	if err != nil && ctx.Err() == nil {
		return err
	}

	if recorder != nil {
		if err := recorder.Err(); err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
		fmt.Printf("run %s recorded in %s\n", recorder.RunID(), dbPath)
	}
	fmt.Printf("simulated t=%.3f in %d steps\n", sim.Time(), sim.Steps())
	for _, s := range collector.Summarize() {
		fmt.Println(s)
	}
	if plotDir != "" {
		if err := collector.WritePNG(plotDir); err != nil {
			return err
		}
	}
	if chartFile != "" {
		if err := collector.WriteHTMLFile(chartFile); err != nil {
			return err
		}
	}
	return nil
}

func runTerminal(ctx context.Context, sc *pursuit.Scenario, painter *render.Observer, cfg *pursuit.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	sc.Simulation.AddObserver(painter)
	interval := time.Duration(cfg.Dt * float64(time.Second))
	return viewer.NewTerminal(screen, sc.Simulation, painter, cfg.Duration, interval).Run(ctx)
}

func runWindow(ctx context.Context, sc *pursuit.Scenario, painter *render.Observer, cfg *pursuit.Config, logger golog.Logger) error {
	system, err := actor.NewActorSystem("PursuitWorld", actor.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := system.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = system.Stop(context.Background()) }()

	window, err := viewer.NewWindow(ctx, system, sc.Simulation, painter, cfg.Duration)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(viewer.WindowSize+viewer.PanelWidth, viewer.WindowSize+20)
	ebiten.SetWindowTitle("Pursuit: leader and followers")
	ebiten.SetTPS(int(1 / cfg.Dt))
	return ebiten.RunGame(window)
}
