package parser

import (
	"context"
	"fmt"

	"github.com/dvloznov/statement-pipeline/internal/logger"
	"github.com/dvloznov/statement-pipeline/internal/statement"
	"github.com/dvloznov/statement-pipeline/internal/validate"
)

// parseState is the orchestrator's explicit state machine. Escalation is
// driven by transition guards (validation verdict, cost ceiling) rather than
// error control flow.
type parseState int

const (
	stateDetecting parseState = iota
	stateExtractingPrimary
	stateValidatingPrimary
	stateEscalatingRetry
	stateValidatingRetry
	stateSucceeded
	stateFailed
)

// Outcome is the orchestrator's result for one statement text.
type Outcome struct {
	Content  *statement.ParsedStatement
	Report   statement.ValidationReport
	Provider string
	Model    string
	Cost     float64
	Warnings []string
}

// Orchestrator runs detection, primary extraction, and at most one
// escalation retry, all under the per-statement cost ceiling.
type Orchestrator struct {
	provider Provider
	ceiling  float64
}

// NewOrchestrator creates an Orchestrator. ceiling is the per-statement
// spend limit; escalation is only attempted while accumulated cost is below
// half of it.
func NewOrchestrator(provider Provider, ceiling float64) *Orchestrator {
	return &Orchestrator{provider: provider, ceiling: ceiling}
}

// Parse converts extracted statement text into a validated ParsedStatement.
// An empty bankHint triggers the cheap bank identification call first.
//
// Failure returns the typed errors of the pipeline taxonomy:
// SchemaValidationError when output never validates within budget,
// CostCeilingError when even the primary pass is unaffordable, and
// ToolUnavailableError when the provider itself fails.
func (o *Orchestrator) Parse(ctx context.Context, text string, bankHint statement.BankCode) (*Outcome, error) {
	log := logger.WithComponent(logger.FromContext(ctx), "parser")

	out := &Outcome{Provider: o.provider.Name()}

	var (
		content     *statement.ParsedStatement
		contentErrs []string
		failErr     error
	)

	st := stateDetecting
	if bankHint != "" {
		st = stateExtractingPrimary
	}

	for {
		switch st {
		case stateDetecting:
			det, err := o.provider.DetectBank(ctx, preview(text))
			if err != nil {
				failErr = &statement.ToolUnavailableError{Tool: o.provider.Name(), Err: err}
				st = stateFailed
				continue
			}
			out.Cost += det.Cost
			bankHint = det.Bank
			log.Debug().Str("bank", string(bankHint)).Float64("cost", out.Cost).Msg("bank detection done")
			st = stateExtractingPrimary

		case stateExtractingPrimary:
			if out.Cost >= o.ceiling {
				failErr = &statement.CostCeilingError{Spent: out.Cost, Ceiling: o.ceiling}
				st = stateFailed
				continue
			}
			resp, err := o.provider.ParseStatement(ctx, ParseRequest{
				Text: text, BankHint: bankHint, Tier: TierPrimary,
			})
			out.Cost += resp.Cost
			out.Model = resp.Model
			if err != nil {
				failErr = &statement.ToolUnavailableError{Tool: o.provider.Name(), Err: err}
				st = stateFailed
				continue
			}
			content, contentErrs = o.transform(resp.Raw)
			st = stateValidatingPrimary

		case stateValidatingPrimary:
			report := o.validateWith(content, contentErrs)
			if report.Valid {
				out.Content = content
				out.Report = report
				out.Warnings = report.Warnings
				st = stateSucceeded
				continue
			}
			log.Info().
				Strs("errors", report.Errors).
				Float64("cost", out.Cost).
				Msg("primary extraction failed validation")
			if out.Cost < o.ceiling/2 {
				st = stateEscalatingRetry
				continue
			}
			// Escalation unaffordable: report the validation failure, not
			// the ceiling, since a result was produced and rejected.
			failErr = &statement.SchemaValidationError{Errors: report.Errors}
			st = stateFailed

		case stateEscalatingRetry:
			resp, err := o.provider.ParseStatement(ctx, ParseRequest{
				Text: text, BankHint: bankHint, Tier: TierEscalation,
			})
			out.Cost += resp.Cost
			if err != nil {
				failErr = &statement.ToolUnavailableError{Tool: o.provider.Name(), Err: err}
				st = stateFailed
				continue
			}
			out.Model = resp.Model
			log.Info().Str("model", resp.Model).Float64("cost", out.Cost).Msg("escalated to stronger model")
			content, contentErrs = o.transform(resp.Raw)
			st = stateValidatingRetry

		case stateValidatingRetry:
			report := o.validateWith(content, contentErrs)
			if report.Valid {
				out.Content = content
				out.Report = report
				out.Warnings = report.Warnings
				st = stateSucceeded
				continue
			}
			failErr = &statement.SchemaValidationError{Errors: report.Errors}
			st = stateFailed

		case stateSucceeded:
			return out, nil

		case stateFailed:
			if failErr == nil {
				failErr = fmt.Errorf("statement parse failed")
			}
			return out, failErr
		}
	}
}

// transform converts raw provider output, folding transform failures into a
// validation-style error list so they drive the same escalation guards.
func (o *Orchestrator) transform(raw map[string]interface{}) (*statement.ParsedStatement, []string) {
	if raw == nil {
		return nil, []string{"provider returned no parseable output"}
	}
	content, err := transformStatement(raw)
	if err != nil {
		return nil, []string{err.Error()}
	}
	return content, nil
}

func (o *Orchestrator) validateWith(content *statement.ParsedStatement, transformErrs []string) statement.ValidationReport {
	if len(transformErrs) > 0 {
		return statement.ValidationReport{Valid: false, Errors: transformErrs}
	}
	return validate.Validate(content)
}
