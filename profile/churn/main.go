// Profiling:
// go build ./profile/churn
// ./churn -config profile/churn/churn.toml
// go tool pprof -http=":8000" -nodefraction=0.001 ./churn cpu.pprof

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

type comp1 struct {
	bingo.NoDestroy
	V int64
	W int64
}

type comp2 struct {
	bingo.NoDestroy
	V int64
	W int64
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path := flag.String("config", "", "workload file (.toml, .yaml)")
	flag.Parse()

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			return err
		}
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync()

	stop := cfg.Profile.Start()
	defer stop()

	for r := range cfg.Workload.Rounds {
		start := time.Now()
		created, err := churn(cfg, log)
		if err != nil {
			return err
		}
		log.Info("round done",
			zap.Int("round", r),
			zap.Int("entities_created", created),
			zap.Duration("elapsed", time.Since(start)))
	}
	return nil
}

// churn creates, iterates and removes entities in one fresh world and
// returns how many entities it created.
func churn(cfg *config.Config, log *zap.Logger) (int, error) {
	w, err := bingo.NewWorld(
		bingo.WithFirstEntityID(cfg.World.FirstEntityID),
		bingo.WithInitialCapacity(cfg.World.InitialCapacity),
		bingo.WithLogger(log),
	)
	if err != nil {
		return 0, err
	}
	b1 := bingo.NewBuilder[comp1](w)
	c2 := bingo.StorageOf[comp2](w)
	query := bingo.NewFilter[comp1](w)
	buf := bingo.NewEntityBuffer(cfg.Workload.Entities)
	created := 0

	for range cfg.Workload.Iterations {
		for range cfg.Workload.Entities {
			e, err := w.CreateEntityWithID(w.NextEntityID() + uint32(cfg.Workload.IDStride) - 1)
			if err != nil {
				return created, err
			}
			created++
			if err := b1.Set(e, comp1{V: 1}); err != nil {
				return created, err
			}
			if err := bingo.Add(w, e, comp2{V: 2, W: 3}); err != nil {
				return created, err
			}
		}

		query.Reset()
		for query.Next() {
			c := query.Get()
			other := c2.Get(query.Entity())
			c.V += other.V
			c.W += other.W
			buf.Add(query.Entity())
		}
		for _, e := range buf.Entities() {
			if err := w.RemoveAll(e); err != nil {
				return created, err
			}
		}
		buf.Reset()
	}
	return created, nil
}
