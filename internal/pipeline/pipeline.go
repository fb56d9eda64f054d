// Package pipeline wires the statement processing stages together: password
// candidate generation, decrypt-and-extract, LLM parsing with escalation,
// confidence scoring, and category post-processing.
package pipeline

import (
	"context"
	"time"

	"github.com/dvloznov/statement-pipeline/internal/config"
	"github.com/dvloznov/statement-pipeline/internal/decrypt"
	"github.com/dvloznov/statement-pipeline/internal/logger"
	"github.com/dvloznov/statement-pipeline/internal/parser"
	"github.com/dvloznov/statement-pipeline/internal/password"
	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// Processor runs the full pipeline for one statement per Process call. It
// holds only immutable collaborators, so a single Processor serves
// concurrent statement runs; all per-statement state lives in State.
type Processor struct {
	steps []Step
}

// NewProcessor assembles the standard step sequence. patterns may be nil to
// disable learned-pattern promotion.
func NewProcessor(dec Decryptor, ext TextExtractor, par StatementParser, patterns password.PatternStore) *Processor {
	return &Processor{
		steps: []Step{
			&generateCandidatesStep{patterns: patterns},
			&decryptStep{decryptor: dec},
			&extractTextStep{extractor: ext},
			&parseStep{parser: par},
			&categorizeStep{},
			&scoreStep{},
			&recordPatternStep{patterns: patterns},
		},
	}
}

// NewDefaultProcessor builds the production pipeline from config: qpdf
// decryptor, PDF text extractor, and the Gemini-backed orchestrator.
func NewDefaultProcessor(ctx context.Context, cfg *config.Config, patterns password.PatternStore) (*Processor, error) {
	dec, err := decrypt.New(cfg.QPDFPath, decrypt.WithTimeout(cfg.DecryptTimeout))
	if err != nil {
		return nil, err
	}

	provider, err := parser.NewGemini(ctx, cfg)
	if err != nil {
		return nil, err
	}

	orch := parser.NewOrchestrator(provider, cfg.CostCeiling)
	return NewProcessor(dec, DefaultExtractor(), orch, patterns), nil
}

// Process converts one encrypted statement into a Result. Failures come
// back as the typed errors of the statement package; warnings ride on the
// successful Result and are never errors.
//
// Cancelling ctx terminates the active decryption process or model call and
// cleans up any temp files before returning.
func (p *Processor) Process(ctx context.Context, input statement.Input) (*statement.Result, error) {
	log := logger.FromContext(ctx).With().
		Str("bank", string(input.Bank)).
		Str("filename", input.Filename).
		Logger()
	ctx = logger.WithContext(ctx, log)

	started := time.Now()
	state := &State{Input: input}

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step.Execute(ctx, state); err != nil {
			log.Warn().Err(err).Msg("statement processing failed")
			return nil, err
		}
	}

	log.Info().
		Int("transactions", len(state.Result.Statement.Transactions)).
		Int("confidence", state.Result.Confidence).
		Float64("cost", state.Result.Cost).
		Dur("elapsed", time.Since(started)).
		Msg("statement processed")

	return state.Result, nil
}
