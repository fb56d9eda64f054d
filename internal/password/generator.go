// Package password turns partial identity hints into an ordered, capped list
// of decryption password candidates using per-bank derivation rules.
package password

import (
	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// Candidate is one password to try, with a provenance tag for diagnostics
// and for recording learned patterns.
type Candidate struct {
	Value  string
	Source string
}

// Generate produces the candidate list for a bank, most likely first.
// Candidates are deduplicated by value (first occurrence wins) and capped at
// the policy's MaxAttempts.
//
// When the bank's policy declares required fields and any are missing from
// the hints, Generate returns a MissingRequiredFieldsError and no
// candidates; it never falls back to brute-forcing defaults for those banks.
// Banks with no declared policy get the small generic fallback list.
func Generate(bank statement.BankCode, hints statement.IdentityHints) ([]Candidate, error) {
	policy, ok := LookupPolicy(bank)
	if !ok {
		return build(genericFallback, hints, len(genericFallback)), nil
	}

	if missing := missingFields(policy, hints); len(missing) > 0 {
		return nil, &statement.MissingRequiredFieldsError{Bank: bank, Missing: missing}
	}

	return build(policy.Builders, hints, policy.MaxAttempts), nil
}

func build(builders []Builder, hints statement.IdentityHints, cap int) []Candidate {
	seen := make(map[string]struct{}, len(builders))
	out := make([]Candidate, 0, len(builders))

	for _, b := range builders {
		if len(out) >= cap {
			break
		}
		value, ok := b.Build(hints)
		if !ok || value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, Candidate{Value: value, Source: b.Source})
	}

	return out
}

// Promote moves the candidate with the given source tag to the front of the
// list, preserving the relative order of the rest. Used to try a bank's
// previously learned pattern first.
func Promote(cands []Candidate, source string) []Candidate {
	if source == "" {
		return cands
	}
	for i, c := range cands {
		if c.Source == source && i > 0 {
			promoted := make([]Candidate, 0, len(cands))
			promoted = append(promoted, c)
			promoted = append(promoted, cands[:i]...)
			promoted = append(promoted, cands[i+1:]...)
			return promoted
		}
	}
	return cands
}
