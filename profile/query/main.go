// Profiling:
// go build ./profile/query
// ./query -config profile/query/query.yaml
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/edwinsyarief/bingo"
	"github.com/edwinsyarief/bingo/internal/config"
	"go.uber.org/zap"
)

type position struct {
	bingo.NoDestroy
	X, Y float64
}

type velocity struct {
	bingo.NoDestroy
	X, Y float64
}

func main() {
	path := flag.String("config", "", "workload file (.toml, .yaml)")
	flag.Parse()

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	stop := cfg.Profile.Start()
	defer stop()

	for r := range cfg.Workload.Rounds {
		start := time.Now()
		if err := run(cfg, log); err != nil {
			log.Error("round failed", zap.Int("round", r), zap.Error(err))
			return
		}
		log.Info("round done", zap.Int("round", r), zap.Duration("elapsed", time.Since(start)))
	}
}

// run populates a world once and then iterates it, integrating velocity into
// position through the parallel dense views.
func run(cfg *config.Config, log *zap.Logger) error {
	w, err := bingo.NewWorld(
		bingo.WithFirstEntityID(cfg.World.FirstEntityID),
		bingo.WithInitialCapacity(cfg.World.InitialCapacity),
		bingo.WithLogger(log),
	)
	if err != nil {
		return err
	}
	for i := range cfg.Workload.Entities {
		e, err := w.CreateEntityWithID(w.NextEntityID() + uint32(cfg.Workload.IDStride) - 1)
		if err != nil {
			return err
		}
		if err := bingo.Add(w, e, position{}); err != nil {
			return err
		}
		if i%2 == 0 {
			if err := bingo.Add(w, e, velocity{X: 1, Y: 0.5}); err != nil {
				return err
			}
		}
	}

	positions := bingo.StorageOf[position](w)
	velocities := bingo.StorageOf[velocity](w)
	for range cfg.Workload.Iterations {
		vel := velocities.Values()
		for k, e := range velocities.Entities() {
			p := positions.Get(e)
			p.X += vel[k].X
			p.Y += vel[k].Y
		}
	}
	return nil
}
