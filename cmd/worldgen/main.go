package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blockforge/worldstore/internal/config"
	"github.com/blockforge/worldstore/internal/world"
	"github.com/blockforge/worldstore/pkg/world/gen"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "path to config file (yaml)")
		centerX = flag.Int("x", 0, "center chunk X")
		centerZ = flag.Int("z", 0, "center chunk Z")
		radius  = flag.Int("radius", 8, "pregeneration radius in chunks")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	var generator gen.Generator
	if cfg.Generator == "flat" {
		generator = gen.NewFlatGenerator(cfg.Seed)
	}

	w, err := world.New(world.Options{
		Seed:        cfg.Seed,
		Dir:         cfg.Dir,
		Generator:   generator,
		Compression: cfg.Scheme(),
		CacheChunks: cfg.CacheChunks,
		LockTimeout: cfg.LockTimeout,
		Log:         log,
	})
	if err != nil {
		log.Error("open world", "error", err)
		os.Exit(1)
	}
	defer w.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	center := gen.ChunkPos{X: *centerX, Z: *centerZ}
	side := 2*(*radius) + 1
	total := side * side
	log.Info("pregenerating chunks",
		"center", center, "radius", *radius, "chunks", total,
		"workers", cfg.Workers, "seed", cfg.Seed, "dir", cfg.Dir)

	start := time.Now()
	if err := w.Pregenerate(ctx, center, *radius, cfg.Workers); err != nil {
		log.Error("pregeneration failed", "error", err)
		os.Exit(1)
	}
	log.Info("pregeneration complete", "chunks", total, "elapsed", time.Since(start))
}
