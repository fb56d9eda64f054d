package parser

import (
	"strings"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// previewLen is how much statement text the bank detection call sees. The
// issuer name is always in the letterhead, so a short preview keeps the call
// nearly free.
const previewLen = 500

func preview(text string) string {
	if len(text) <= previewLen {
		return text
	}
	return text[:previewLen]
}

func detectionPrompt(preview string) string {
	var b strings.Builder
	b.WriteString("Identify the issuing bank of this credit card statement.\n")
	b.WriteString("Answer with EXACTLY one lowercase code from this list, or \"unknown\":\n")
	b.WriteString("hdfc, icici, sbi, axis, hsbc, kotak, amex, citi, rbl, yes, indusind, sc\n\n")
	b.WriteString("Statement text begins:\n")
	b.WriteString(preview)
	return b.String()
}

// extractionSystemPrompt is the schema contract for the structured
// extraction call. The paise rule and fee exclusion are stated here, but
// both are re-validated in post-processing; the model is never trusted to
// have applied them.
func extractionSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a financial statement parser for Indian credit card PDF statements.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Parse the statement text into ONE JSON object.\n")
	b.WriteString("- Output STRICT JSON only (no comments, no trailing commas, no extra text).\n\n")
	b.WriteString("The object must have these fields:\n")
	b.WriteString("- \"bank\": string, lowercase bank code\n")
	b.WriteString("- \"card\": {\"network\": string, \"last4\": string, \"credit_limit\": number or null, \"available_limit\": number or null}\n")
	b.WriteString("- \"owner\": {\"name\": string, \"address\": string or null}\n")
	b.WriteString("- \"period\": {\"start\": \"YYYY-MM-DD\", \"end\": \"YYYY-MM-DD\", \"due\": \"YYYY-MM-DD\"}\n")
	b.WriteString("- \"summary\": {\"total_dues\": number, \"minimum_due\": number, \"previous_balance\": number, \"payment_received\": number or null, \"purchase_amount\": number or null}\n")
	b.WriteString("- \"transactions\": array of {\"date\": \"YYYY-MM-DD\", \"description\": string, \"amount\": number, \"type\": \"Dr\" or \"Cr\", \"category\": string}\n\n")
	b.WriteString("Category must be one of: ")
	cats := statement.AllCategories()
	for i, c := range cats {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(c))
	}
	b.WriteString(".\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- \"amount\" is always POSITIVE; direction goes in \"type\" (Dr = spend, Cr = payment/refund).\n")
	b.WriteString("- Amounts are in rupees. Some statements print amounts in paise: if a raw amount exceeds 50000, or exceeds 10000 with no decimal point, or exceeds 1000000 in any case, divide it by 100.\n")
	b.WriteString("- EXCLUDE fees, charges, taxes and reward reversals: finance charges, GST/IGST/CGST/SGST, late fees, annual or membership fees, cashback and reward entries, processing or service fees.\n")
	b.WriteString("- Return ONLY the raw JSON object. No code fences, no Markdown.\n")
	b.WriteString("- Output must begin with \"{\" and end with \"}\".\n")
	return b.String()
}

func extractionUserPrompt(text string, bankHint statement.BankCode) string {
	var b strings.Builder
	if bankHint != "" {
		b.WriteString("The statement is issued by \"")
		b.WriteString(string(bankHint))
		b.WriteString("\".\n")
		if example, ok := fewShotExamples[bankHint]; ok {
			b.WriteString("Example of this bank's transaction lines and the expected JSON:\n")
			b.WriteString(example)
			b.WriteString("\n")
		}
	}
	b.WriteString("\nStatement text:\n")
	b.WriteString(text)
	return b.String()
}

// fewShotExamples holds per-bank layout snippets. Only banks with layouts
// the primary tier regularly trips over need an entry.
var fewShotExamples = map[statement.BankCode]string{
	"hdfc": `Input line:  "15/01/2024  SWIGGY BANGALORE  449.00 Dr"
Output: {"date":"2024-01-15","description":"SWIGGY BANGALORE","amount":449.00,"type":"Dr","category":"FOOD_DELIVERY"}`,
	"sbi": `Input line:  "15 Jan 24  AMAZON PAY INDIA  1,299.00 D"
Output: {"date":"2024-01-15","description":"AMAZON PAY INDIA","amount":1299.00,"type":"Dr","category":"ECOMMERCE"}`,
	"hsbc": `Input line:  "15JAN  UBER INDIA SYSTEMS  28194"
Amounts with no decimal point above 10000 are in paise.
Output: {"date":"2024-01-15","description":"UBER INDIA SYSTEMS","amount":281.94,"type":"Dr","category":"TRAVEL"}`,
}
