package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/config"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/domain"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/harmonize"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/logger"
	"github.com/ricardo-pc/Personal-Expenses-Cube/internal/statement"
)

// Step represents a single step of the per-source normalization pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps for one source and
// one reporting period.
type State struct {
	Descriptor *SourceDescriptor
	Config     *config.Config
	Entities   harmonize.Mapping
	Subtypes   harmonize.Mapping

	InputPath  string
	OutputPath string

	RawRows    []RawRow
	Normalized []NormalizedRow
	Harmonized []HarmonizedRow
	Classified []ClassifiedRow
	Records    []domain.CanonicalRecord
}

// Step 1: ReadStatementStep reads the raw export file. A missing or
// unreadable file aborts this source's run and nothing else.
type ReadStatementStep struct{}

func (s *ReadStatementStep) Execute(ctx context.Context, state *State) error {
	rows, err := statement.ReadRaw(state.InputPath, state.Descriptor.HeaderSkip)
	if err != nil {
		return err
	}
	state.RawRows = make([]RawRow, len(rows))
	for i, r := range rows {
		state.RawRows[i] = RawRow(r)
	}
	return nil
}

// Step 2: NormalizeStep types the raw rows and applies the source's
// denylists and sign convention.
type NormalizeStep struct{}

func (s *NormalizeStep) Execute(ctx context.Context, state *State) error {
	log := logger.FromContext(ctx).With().
		Str("source", state.Descriptor.AccountCode).Logger()
	state.Normalized = NewNormalizer(state.Descriptor, log).Normalize(state.RawRows)
	return nil
}

// Step 3: HarmonizeStep resolves free text against the curated mappings.
type HarmonizeStep struct{}

func (s *HarmonizeStep) Execute(ctx context.Context, state *State) error {
	h := NewHarmonizer(state.Descriptor, state.Entities, state.Subtypes)
	state.Harmonized = h.Apply(state.Normalized)
	return nil
}

// Step 4: ClassifyStep derives type, subtype and flags.
type ClassifyStep struct{}

func (s *ClassifyStep) Execute(ctx context.Context, state *State) error {
	c := NewClassifier(state.Descriptor, state.Config.SelfLabel)
	state.Classified = c.Classify(state.Harmonized)
	return nil
}

// Step 5: AssembleStep maps rows onto the canonical schema.
type AssembleStep struct{}

func (s *AssembleStep) Execute(ctx context.Context, state *State) error {
	state.Records = NewAssembler(state.Descriptor).Assemble(state.Classified)
	return nil
}

// Step 6: HashStep assigns the stable identity key to every record.
type HashStep struct{}

func (s *HashStep) Execute(ctx context.Context, state *State) error {
	AssignIdentity(state.Records)
	return nil
}

// Step 7: WriteOutputStep writes the per-source canonical file.
type WriteOutputStep struct{}

func (s *WriteOutputStep) Execute(ctx context.Context, state *State) error {
	return statement.WriteCanonical(state.OutputPath, state.Records)
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewSourceNormalizationPipeline creates the standard 7-step pipeline that
// turns one institution export into a canonical per-source file.
func NewSourceNormalizationPipeline() *Pipeline {
	return NewPipeline(
		&ReadStatementStep{},
		&NormalizeStep{},
		&HarmonizeStep{},
		&ClassifyStep{},
		&AssembleStep{},
		&HashStep{},
		&WriteOutputStep{},
	)
}

// NormalizeSource runs the full pipeline for one source and the configured
// period, resolving input and output paths from the run configuration.
func NormalizeSource(ctx context.Context, cfg *config.Config, desc *SourceDescriptor,
	entities, subtypes harmonize.Mapping) error {

	month, year := cfg.Period.Month, cfg.Period.Year
	state := &State{
		Descriptor: desc,
		Config:     cfg,
		Entities:   entities,
		Subtypes:   subtypes,
		InputPath:  filepath.Join(cfg.InputDir, desc.InputFile(month, year)),
		OutputPath: filepath.Join(cfg.OutputDir, desc.OutputFile(month, year)),
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("source", desc.AccountCode).
		Str("input", state.InputPath).
		Msg("Normalizing source")

	if err := NewSourceNormalizationPipeline().Execute(ctx, state); err != nil {
		return fmt.Errorf("NormalizeSource: %s: %w", desc.AccountCode, err)
	}

	log.Info().
		Str("source", desc.AccountCode).
		Int("raw_rows", len(state.RawRows)).
		Int("records", len(state.Records)).
		Str("output", state.OutputPath).
		Msg("Source normalized")

	return nil
}
