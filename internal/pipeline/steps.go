package pipeline

import (
	"context"
	"time"

	"github.com/dvloznov/statement-pipeline/internal/category"
	"github.com/dvloznov/statement-pipeline/internal/extract"
	"github.com/dvloznov/statement-pipeline/internal/logger"
	"github.com/dvloznov/statement-pipeline/internal/parser"
	"github.com/dvloznov/statement-pipeline/internal/password"
	"github.com/dvloznov/statement-pipeline/internal/statement"
	"github.com/dvloznov/statement-pipeline/internal/validate"
)

// Step is one stage of statement processing. Steps share a per-invocation
// State and never touch state outside it, so concurrent statement runs do
// not interfere.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State is the mutable context threaded through the steps for a single
// statement. It exists only for the duration of one Process call.
type State struct {
	Input statement.Input

	Candidates    []password.Candidate
	UsedCandidate password.Candidate

	DecryptedBytes []byte
	Extracted      extract.ExtractedText

	Outcome *parser.Outcome
	Result  *statement.Result
}

// generateCandidatesStep builds the password candidate list, promoting the
// bank's learned pattern to the front when the store has one.
type generateCandidatesStep struct {
	patterns password.PatternStore
}

func (s *generateCandidatesStep) Execute(ctx context.Context, state *State) error {
	cands, err := password.Generate(state.Input.Bank, state.Input.Hints)
	if err != nil {
		return err
	}

	if s.patterns != nil {
		if p, ok := s.patterns.Get(ctx, state.Input.Bank); ok {
			cands = password.Promote(cands, p.Source)
		}
	}

	state.Candidates = cands
	log := logger.FromContext(ctx)
	log.Debug().
		Str("bank", string(state.Input.Bank)).
		Int("candidates", len(cands)).
		Msg("password candidates generated")
	return nil
}

// decryptStep tries candidates strictly in order and keeps the first
// success. Wrong passwords and timeouts move to the next candidate; a tool
// failure aborts the statement immediately.
type decryptStep struct {
	decryptor Decryptor
}

func (s *decryptStep) Execute(ctx context.Context, state *State) error {
	log := logger.WithComponent(logger.FromContext(ctx), "decrypt")

	tried := make([]string, 0, len(state.Candidates))
	for _, cand := range state.Candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		tried = append(tried, cand.Source)
		res, err := s.decryptor.Attempt(ctx, state.Input.EncryptedBytes, cand.Value)
		if err != nil {
			// Environment problem, not a wrong password.
			return err
		}
		if res.Success {
			state.DecryptedBytes = res.DecryptedBytes
			state.UsedCandidate = cand
			log.Info().Str("source", cand.Source).Int("attempt", len(tried)).Msg("statement decrypted")
			return nil
		}
		log.Debug().Str("source", cand.Source).Str("reason", res.Error).Msg("candidate rejected")
	}

	return &statement.PasswordNotFoundError{Bank: state.Input.Bank, Tried: tried}
}

// extractTextStep reads the text layer and refuses scanned documents before
// any model spend happens.
type extractTextStep struct {
	extractor TextExtractor
}

func (s *extractTextStep) Execute(ctx context.Context, state *State) error {
	extracted, err := s.extractor.Extract(state.DecryptedBytes)
	if err != nil {
		return err
	}
	if extracted.IsLikelyScanned {
		return &statement.ScannedDocumentError{
			PageCount: extracted.PageCount,
			TextLen:   len(extracted.Text),
		}
	}
	state.Extracted = extracted
	return nil
}

// parseStep runs the LLM orchestration.
type parseStep struct {
	parser StatementParser
}

func (s *parseStep) Execute(ctx context.Context, state *State) error {
	outcome, err := s.parser.Parse(ctx, state.Extracted.Text, state.Input.Bank)
	if err != nil {
		return err
	}
	state.Outcome = outcome
	return nil
}

// categorizeStep re-runs the deterministic mapper over the accepted
// transactions. Valid model categories pass through untouched; this is the
// safety net for anything the transform stage let slip.
type categorizeStep struct{}

func (s *categorizeStep) Execute(_ context.Context, state *State) error {
	txs := state.Outcome.Content.Transactions
	for i := range txs {
		amt := txs[i].Amount
		txs[i].Category = category.Map(txs[i].Description, txs[i].Category, &amt)
	}
	return nil
}

// scoreStep computes the advisory confidence score and assembles the final
// Result.
type scoreStep struct{}

func (s *scoreStep) Execute(_ context.Context, state *State) error {
	outcome := state.Outcome
	state.Result = &statement.Result{
		Statement:      outcome.Content,
		Confidence:     validate.Score(outcome.Content),
		Warnings:       outcome.Warnings,
		Provider:       outcome.Provider,
		Model:          outcome.Model,
		Cost:           outcome.Cost,
		PasswordSource: state.UsedCandidate.Source,
	}
	return nil
}

// recordPatternStep remembers which candidate rule worked so later runs for
// the same bank try it first.
type recordPatternStep struct {
	patterns password.PatternStore
}

func (s *recordPatternStep) Execute(ctx context.Context, state *State) error {
	if s.patterns == nil || state.UsedCandidate.Source == "" {
		return nil
	}
	s.patterns.Put(ctx, state.Input.Bank, password.Pattern{
		Source:    state.UsedCandidate.Source,
		UpdatedAt: time.Now(),
	})
	return nil
}
