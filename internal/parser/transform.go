package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/statement-pipeline/internal/category"
	"github.com/dvloznov/statement-pipeline/internal/statement"
)

const dateLayout = "2006-01-02"

// transformStatement converts raw model output into the typed statement.
// The raw map is untrusted external input: every field is type-checked, the
// paise rule is re-applied to each amount, fee entries are filtered out, and
// omitted or unrecognized categories are resolved by the fallback mapper.
// The result still goes through the validator before acceptance.
func transformStatement(raw map[string]interface{}) (*statement.ParsedStatement, error) {
	out := &statement.ParsedStatement{}

	bank, err := getStringField(raw, "bank", true)
	if err != nil {
		return nil, err
	}
	out.Bank = statement.BankCode(strings.ToLower(bank))

	if cardMap, err := getMapField(raw, "card", false); err != nil {
		return nil, err
	} else if cardMap != nil {
		if out.Card, err = transformCard(cardMap); err != nil {
			return nil, err
		}
	}

	if ownerMap, err := getMapField(raw, "owner", false); err != nil {
		return nil, err
	} else if ownerMap != nil {
		if out.Owner, err = transformOwner(ownerMap); err != nil {
			return nil, err
		}
	}

	periodMap, err := getMapField(raw, "period", true)
	if err != nil {
		return nil, err
	}
	if out.Period, err = transformPeriod(periodMap); err != nil {
		return nil, err
	}

	if summaryMap, err := getMapField(raw, "summary", false); err != nil {
		return nil, err
	} else if summaryMap != nil {
		if out.Summary, err = transformSummary(summaryMap); err != nil {
			return nil, err
		}
	}

	txAny, ok := raw["transactions"]
	if !ok {
		return nil, fmt.Errorf("missing 'transactions' key in model output")
	}
	txSlice, ok := txAny.([]interface{})
	if !ok {
		return nil, fmt.Errorf("'transactions' is %T, want array", txAny)
	}

	txs := make([]statement.Transaction, 0, len(txSlice))
	for i, item := range txSlice {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("transaction %d is %T, want object", i, item)
		}
		tx, err := transformTransaction(obj)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs = append(txs, tx)
	}

	out.Transactions = ExcludeFees(txs)
	return out, nil
}

func transformTransaction(obj map[string]interface{}) (statement.Transaction, error) {
	var tx statement.Transaction

	dateStr, err := getStringField(obj, "date", true)
	if err != nil {
		return tx, err
	}
	tx.Date, err = time.Parse(dateLayout, dateStr)
	if err != nil {
		return tx, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}

	if tx.Description, err = getStringField(obj, "description", true); err != nil {
		return tx, err
	}

	amount, err := getFloat64Field(obj, "amount", true)
	if err != nil {
		return tx, err
	}
	tx.Amount = NormalizeAmount(amount)

	typeStr, err := getStringField(obj, "type", true)
	if err != nil {
		return tx, err
	}
	tx.Type = statement.TxType(typeStr)

	// Category may be absent or off-enum; the deterministic mapper decides
	// then (and trusts valid model assignments).
	catStr, err := getOptionalStringField(obj, "category")
	if err != nil {
		return tx, err
	}
	modelCat := statement.Category("")
	if catStr != nil {
		modelCat = statement.Category(*catStr)
	}
	amt := tx.Amount
	tx.Category = category.Map(tx.Description, modelCat, &amt)

	return tx, nil
}

func transformCard(obj map[string]interface{}) (statement.CardDetails, error) {
	var card statement.CardDetails
	var err error

	if card.Network, err = getStringField(obj, "network", false); err != nil {
		return card, err
	}
	if card.Last4, err = getStringField(obj, "last4", false); err != nil {
		return card, err
	}
	if card.CreditLimit, err = getOptionalFloat64Field(obj, "credit_limit"); err != nil {
		return card, err
	}
	if card.AvailableLimit, err = getOptionalFloat64Field(obj, "available_limit"); err != nil {
		return card, err
	}
	return card, nil
}

func transformOwner(obj map[string]interface{}) (statement.OwnerDetails, error) {
	var owner statement.OwnerDetails
	var err error

	if owner.Name, err = getStringField(obj, "name", false); err != nil {
		return owner, err
	}
	addr, err := getOptionalStringField(obj, "address")
	if err != nil {
		return owner, err
	}
	if addr != nil {
		owner.Address = *addr
	}
	return owner, nil
}

func transformPeriod(obj map[string]interface{}) (statement.Period, error) {
	var period statement.Period

	for _, f := range []struct {
		key  string
		dest *time.Time
	}{
		{"start", &period.Start},
		{"end", &period.End},
		{"due", &period.Due},
	} {
		s, err := getStringField(obj, f.key, true)
		if err != nil {
			return period, fmt.Errorf("period: %w", err)
		}
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return period, fmt.Errorf("period: invalid %s date %q: %w", f.key, s, err)
		}
		*f.dest = t
	}
	return period, nil
}

func transformSummary(obj map[string]interface{}) (statement.Summary, error) {
	var sum statement.Summary
	var err error

	if sum.TotalDues, err = getFloat64Field(obj, "total_dues", false); err != nil {
		return sum, err
	}
	if sum.MinimumDue, err = getFloat64Field(obj, "minimum_due", false); err != nil {
		return sum, err
	}
	if sum.PreviousBalance, err = getFloat64Field(obj, "previous_balance", false); err != nil {
		return sum, err
	}
	if sum.PaymentReceived, err = getOptionalFloat64Field(obj, "payment_received"); err != nil {
		return sum, err
	}
	if sum.PurchaseAmount, err = getOptionalFloat64Field(obj, "purchase_amount"); err != nil {
		return sum, err
	}
	return sum, nil
}

func getStringField(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return "", fmt.Errorf("missing required field %q", key)
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", fmt.Errorf("required field %q is empty", key)
		}
		return val, nil
	default:
		return "", fmt.Errorf("field %q has type %T, want string", key, v)
	}
}

func getOptionalStringField(m map[string]interface{}, key string) (*string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil, nil
		}
		return &s, nil
	default:
		return nil, fmt.Errorf("field %q has type %T, want string or null", key, v)
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return 0, fmt.Errorf("missing required field %q", key)
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	default:
		return 0, fmt.Errorf("field %q has type %T, want number", key, v)
	}
}

func getOptionalFloat64Field(m map[string]interface{}, key string) (*float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case float64:
		f := val
		return &f, nil
	default:
		return nil, fmt.Errorf("field %q has type %T, want number or null", key, v)
	}
}

func getMapField(m map[string]interface{}, key string, required bool) (map[string]interface{}, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return nil, fmt.Errorf("missing required field %q", key)
		}
		return nil, nil
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("field %q has type %T, want object", key, v)
	}
	return obj, nil
}
