package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/config"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/consolidate"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/logger"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/pipeline"
)

func main() {
	log := logger.New()

	configPath := flag.String("config", "", "Path to the run configuration YAML")
	flag.Parse()

	if *configPath == "" {
		log.Fatal().Msg("Error: --config is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading configuration failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	month, year := cfg.Period.Month, cfg.Period.Year

	var paths []string
	for _, desc := range pipeline.Sources() {
		paths = append(paths, filepath.Join(cfg.OutputDir, desc.OutputFile(month, year)))
	}
	outPath := filepath.Join(cfg.OutputDir, consolidate.OutputFile(month, year))

	if err := consolidate.Consolidate(ctx, paths, outPath); err != nil {
		log.Fatal().Err(err).Msg("Consolidation failed")
	}

	fmt.Println("Consolidation completed successfully.")
}
