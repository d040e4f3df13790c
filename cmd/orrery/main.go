package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"

	orrery "github.com/mvxbn6usr1/solar-system-game-sub000"
)

// Headless driver: builds the home system at the current epoch, runs the tick
// loop at a fixed 60 Hz, and optionally flies the ship to a named body.

const tickRate = 1.0 / 60

var (
	scaleName string
	simDays   float64
	target    string
	metrics   string
)

func init() {
	flag.StringVar(&scaleName, "scale", "1day/s", "time-compression preset (real-time, 1min/s, 1hr/s, 1day/s, 1wk/s, 1yr/10s)")
	flag.Float64Var(&simDays, "days", 30, "simulated days to run")
	flag.StringVar(&target, "target", "", "engage the autopilot toward this body")
	flag.StringVar(&metrics, "metrics", "", "address to serve /metrics on (empty disables)")
}

func main() {
	flag.Parse()
	logger := kitlog.With(kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr)), "app", "orrery")

	cfg := orrery.LoadConfig(logger)
	if scaleName != "" {
		ts, err := orrery.TimeScaleFromString(scaleName)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg.TimeScale = ts
	}
	if metrics != "" {
		cfg.MetricsAddr = metrics
	}

	sim, err := orrery.NewSimulation(cfg, time.Now(), logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sim.Close()

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", orrery.MetricsHandler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Log("level", "warning", "subsys", "sim", "metrics", err)
			}
		}()
	}

	if target != "" {
		if err := sim.EngageAutopilot(target); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	statusEvery := uint64(600) // ten simulated-loop seconds
	for sim.Clock.Days() < simDays {
		sim.Tick(tickRate, orrery.ControlInput{})
		if sim.Ticks()%statusEvery == 0 {
			sim.LogStatus()
		}
	}
	sim.LogStatus()

	snap := sim.Snapshot()
	fmt.Printf("simulated %.2f days over %d ticks\n", snap.Days, sim.Ticks())
	for _, b := range snap.Bodies {
		fmt.Printf("%-10s ν=%7.3f° orbits=%d r=%.0f km\n",
			b.Name, orrery.Rad2deg(b.TrueAnomaly), b.Orbits, b.DistanceToParent)
	}
}
