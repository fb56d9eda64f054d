package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-pipeline/internal/config"
	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// modelPrice is USD per million tokens.
type modelPrice struct {
	input  float64
	output float64
}

var geminiPrices = map[string]modelPrice{
	"gemini-2.5-flash-lite": {input: 0.10, output: 0.40},
	"gemini-2.5-flash":      {input: 0.30, output: 2.50},
	"gemini-2.5-pro":        {input: 1.25, output: 10.00},
}

// detectionMaxTokens caps the bank identification answer; a bank code never
// needs more.
const detectionMaxTokens = 20

// maxJSONRetries bounds re-asks when the model returns unparseable JSON.
const maxJSONRetries = 2

const jsonRetryBackoff = 500 * time.Millisecond

// Gemini is the genai-backed Provider.
type Gemini struct {
	client      *genai.Client
	models      map[Tier]string
	callTimeout time.Duration
}

// NewGemini creates the Gemini provider from config. Client construction
// failure is an environment problem and maps to ToolUnavailableError.
func NewGemini(ctx context.Context, cfg *config.Config) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, &statement.ToolUnavailableError{Tool: "gemini", Err: err}
	}

	return &Gemini{
		client: client,
		models: map[Tier]string{
			TierDetection:  cfg.DetectionModel,
			TierPrimary:    cfg.PrimaryModel,
			TierEscalation: cfg.EscalationModel,
		},
		callTimeout: cfg.ModelTimeout,
	}, nil
}

// Name implements Provider.
func (g *Gemini) Name() string { return "gemini" }

// DetectBank implements Provider. One tiny call against the statement
// letterhead; an unrecognized answer comes back as an empty bank code, not
// an error.
func (g *Gemini) DetectBank(ctx context.Context, preview string) (BankDetection, error) {
	model := g.models[TierDetection]

	callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(callCtx, model,
		genai.Text(detectionPrompt(preview)),
		&genai.GenerateContentConfig{
			MaxOutputTokens: detectionMaxTokens,
			Temperature:     genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return BankDetection{}, fmt.Errorf("gemini: detect bank: %w", err)
	}

	det := BankDetection{Cost: g.callCost(model, resp)}

	answer := strings.ToLower(strings.TrimSpace(resp.Text()))
	if answer != "" && answer != "unknown" {
		det.Bank = statement.BankCode(answer)
	}
	return det, nil
}

// ParseStatement implements Provider. A response that is not valid JSON
// after fence stripping is re-asked with backoff, up to maxJSONRetries;
// every attempt's tokens count toward the reported cost.
func (g *Gemini) ParseStatement(ctx context.Context, req ParseRequest) (ParseResponse, error) {
	model := g.models[req.Tier]
	out := ParseResponse{Model: model}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: extractionSystemPrompt()}},
		},
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0),
	}

	var lastErr error
	for attempt := 0; attempt <= maxJSONRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * jsonRetryBackoff):
			case <-ctx.Done():
				return out, ctx.Err()
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, g.callTimeout)
		resp, err := g.client.Models.GenerateContent(callCtx, model,
			genai.Text(extractionUserPrompt(req.Text, req.BankHint)), cfg)
		cancel()
		if err != nil {
			return out, fmt.Errorf("gemini: parse statement: %w", err)
		}

		out.Cost += g.callCost(model, resp)
		if resp.UsageMetadata != nil {
			out.TokensInput += int64(resp.UsageMetadata.PromptTokenCount)
			out.TokensOutput += int64(resp.UsageMetadata.CandidatesTokenCount)
		}

		rawText := resp.Text()
		if rawText == "" {
			lastErr = fmt.Errorf("gemini: empty response from model")
			continue
		}

		clean := cleanModelJSON(rawText)

		var parsed map[string]interface{}
		if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
			lastErr = fmt.Errorf("gemini: unmarshal model JSON: %w", err)
			continue
		}

		out.Raw = parsed
		return out, nil
	}

	return out, lastErr
}

func (g *Gemini) callCost(model string, resp *genai.GenerateContentResponse) float64 {
	price, ok := geminiPrices[model]
	if !ok || resp.UsageMetadata == nil {
		return 0
	}
	in := float64(resp.UsageMetadata.PromptTokenCount)
	outTok := float64(resp.UsageMetadata.CandidatesTokenCount)
	return (in*price.input + outTok*price.output) / 1e6
}

var _ Provider = (*Gemini)(nil)
