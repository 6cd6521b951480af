package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/config"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/harmonize"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/jobs"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/jobs/inmemory"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/logger"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/pipeline"
)

func main() {
	log := logger.New()

	configPath := flag.String("config", "", "Path to the run configuration YAML")
	sourceCode := flag.String("source", "", "Run a single source by account code (default: all sources)")
	workers := flag.Int("workers", 4, "Concurrent source pipelines when running all sources")
	flag.Parse()

	if *configPath == "" {
		log.Fatal().Msg("Error: --config is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading configuration failed")
	}

	entities, err := config.LoadMapping(cfg.EntityMappingFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading entity mapping failed")
	}
	subtypes, err := config.LoadMapping(cfg.SubtypeMappingFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Loading subtype mapping failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Int("month", cfg.Period.Month).
		Int("year", cfg.Period.Year).
		Msg("Starting normalization run")

	if *sourceCode != "" {
		desc, err := pipeline.SourceByCode(*sourceCode)
		if err != nil {
			log.Fatal().Err(err).Msg("Unknown source")
		}
		if err := pipeline.NormalizeSource(ctx, cfg, desc, entities, subtypes); err != nil {
			log.Fatal().Err(err).Msg("Normalization failed")
		}
		fmt.Println("Normalization completed successfully.")
		return
	}

	failed := runAll(ctx, cfg, entities, subtypes, *workers)
	if failed > 0 {
		log.Error().Int("failed", failed).Msg("Some sources failed")
		os.Exit(1)
	}
	fmt.Println("Normalization completed successfully.")
}

// runAll runs every built-in source through the in-memory job queue and
// returns the number of failed sources.
func runAll(ctx context.Context, cfg *config.Config, entities, subtypes harmonize.Mapping, workers int) int {
	log := logger.FromContext(ctx)
	sources := pipeline.Sources()

	store := inmemory.NewStore()
	queue := inmemory.NewQueue(len(sources), workers, store)

	var wg sync.WaitGroup
	wg.Add(len(sources))

	handler := func(ctx context.Context, job *jobs.NormalizeSourceJob) error {
		defer wg.Done()
		desc, err := pipeline.SourceByCode(job.SourceCode)
		if err != nil {
			return err
		}
		return pipeline.NormalizeSource(ctx, cfg, desc, entities, subtypes)
	}

	if err := queue.Start(ctx, handler); err != nil {
		log.Fatal().Err(err).Msg("Starting job queue failed")
	}

	for _, desc := range sources {
		job := &jobs.NormalizeSourceJob{
			SourceCode: desc.AccountCode,
			Month:      cfg.Period.Month,
			Year:       cfg.Period.Year,
		}
		if err := queue.PublishNormalizeSource(ctx, job); err != nil {
			log.Fatal().Err(err).Str("source", desc.AccountCode).Msg("Enqueueing source failed")
		}
	}

	wg.Wait()
	if err := queue.Stop(ctx); err != nil {
		log.Warn().Err(err).Msg("Stopping job queue")
	}

	failedJobs, err := store.ListJobs(ctx, jobs.JobFilter{Status: jobs.JobStatusFailed})
	if err != nil {
		log.Warn().Err(err).Msg("Listing failed jobs")
		return 0
	}
	for _, job := range failedJobs {
		log.Error().Str("source", job.SourceCode).Str("error", job.Error).Msg("Source failed")
	}
	return len(failedJobs)
}
