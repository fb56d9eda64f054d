package password

import (
	"strings"
	"unicode"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// Builder derives one password candidate from identity hints. Build returns
// false when the hints do not carry enough information for this rule; the
// generator simply skips it. Builders are pure and deterministic.
type Builder struct {
	// Source is the human-readable provenance tag, e.g. "ddmmyy+card6".
	Source string

	Build func(h statement.IdentityHints) (string, bool)
}

// dob returns the hint's date of birth normalized to 8 digits (DDMMYYYY),
// or "" when absent/malformed. A 6-digit DDMMYY input cannot be expanded to
// a full year, so only the callers that want DDMMYY accept it.
func dob8(h statement.IdentityHints) string {
	if len(h.DOB) == 8 && allDigits(h.DOB) {
		return h.DOB
	}
	return ""
}

// dob6 reduces the date of birth to DDMMYY: day, month, last two digits of
// the year.
func dob6(h statement.IdentityHints) string {
	if len(h.DOB) == 6 && allDigits(h.DOB) {
		return h.DOB
	}
	if d := dob8(h); d != "" {
		return d[:4] + d[6:]
	}
	return ""
}

// dob4 reduces the date of birth to DDMM.
func dob4(h statement.IdentityHints) string {
	if len(h.DOB) >= 4 && allDigits(h.DOB[:4]) {
		return h.DOB[:4]
	}
	return ""
}

// nameLetters extracts the first n letters of the holder's name, ignoring
// spaces and punctuation.
func nameLetters(name string, n int) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
			if b.Len() >= n {
				break
			}
		}
	}
	if b.Len() < n {
		return ""
	}
	return b.String()
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// The builder library. Bank policies compose these in their own order; the
// Source tags are stable identifiers persisted in the pattern store.
var (
	builderDOBFull = Builder{
		Source: "ddmmyyyy",
		Build: func(h statement.IdentityHints) (string, bool) {
			d := dob8(h)
			return d, d != ""
		},
	}

	builderDOBShort = Builder{
		Source: "ddmmyy",
		Build: func(h statement.IdentityHints) (string, bool) {
			d := dob6(h)
			return d, d != ""
		},
	}

	builderDOBDayMonth = Builder{
		Source: "ddmm",
		Build: func(h statement.IdentityHints) (string, bool) {
			d := dob4(h)
			return d, d != ""
		},
	}

	builderCard6 = Builder{
		Source: "card6",
		Build: func(h statement.IdentityHints) (string, bool) {
			return h.CardLast6, len(h.CardLast6) == 6 && allDigits(h.CardLast6)
		},
	}

	builderCard4 = Builder{
		Source: "card4",
		Build: func(h statement.IdentityHints) (string, bool) {
			return h.CardLast4, len(h.CardLast4) == 4 && allDigits(h.CardLast4)
		},
	}

	builderCard2 = Builder{
		Source: "card2",
		Build: func(h statement.IdentityHints) (string, bool) {
			if len(h.CardLast4) == 4 && allDigits(h.CardLast4) {
				return h.CardLast4[2:], true
			}
			return "", false
		},
	}

	builderNameUpperDDMM = Builder{
		Source: "name4upper+ddmm",
		Build: func(h statement.IdentityHints) (string, bool) {
			n, d := nameLetters(h.Name, 4), dob4(h)
			if n == "" || d == "" {
				return "", false
			}
			return strings.ToUpper(n) + d, true
		},
	}

	builderNameLowerDDMM = Builder{
		Source: "name4lower+ddmm",
		Build: func(h statement.IdentityHints) (string, bool) {
			n, d := nameLetters(h.Name, 4), dob4(h)
			if n == "" || d == "" {
				return "", false
			}
			return strings.ToLower(n) + d, true
		},
	}

	builderNameCard4 = Builder{
		Source: "name4+card4",
		Build: func(h statement.IdentityHints) (string, bool) {
			n := nameLetters(h.Name, 4)
			if n == "" || len(h.CardLast4) != 4 {
				return "", false
			}
			return strings.ToUpper(n) + h.CardLast4, true
		},
	}

	builderDDMMCard4 = Builder{
		Source: "ddmm+card4",
		Build: func(h statement.IdentityHints) (string, bool) {
			d := dob4(h)
			if d == "" || len(h.CardLast4) != 4 {
				return "", false
			}
			return d + h.CardLast4, true
		},
	}

	builderDDMMYYCard6 = Builder{
		Source: "ddmmyy+card6",
		Build: func(h statement.IdentityHints) (string, bool) {
			d := dob6(h)
			if d == "" || len(h.CardLast6) != 6 {
				return "", false
			}
			return d + h.CardLast6, true
		},
	}

	builderCustomerID = Builder{
		Source: "customer-id",
		Build: func(h statement.IdentityHints) (string, bool) {
			return h.CustomerID, h.CustomerID != ""
		},
	}

	builderCustomerIDDDMM = Builder{
		Source: "customer-id+ddmm",
		Build: func(h statement.IdentityHints) (string, bool) {
			d := dob4(h)
			if h.CustomerID == "" || d == "" {
				return "", false
			}
			return h.CustomerID + d, true
		},
	}
)

// genericFallback is tried only for bank codes with no declared policy, i.e.
// no required fields. Weak defaults seen on unprotected or self-set
// statements.
var genericFallback = []Builder{
	{Source: "common-000000", Build: func(statement.IdentityHints) (string, bool) { return "000000", true }},
	{Source: "common-123456", Build: func(statement.IdentityHints) (string, bool) { return "123456", true }},
	builderDOBFull,
	builderCard4,
}
