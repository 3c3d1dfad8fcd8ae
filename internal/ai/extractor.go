package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tgo/finsight/internal/model"
)

// extractTextLimit bounds how much document text an extraction prompt carries.
const extractTextLimit = 15000

const invoicePrompt = `You are a financial document parser specialized in invoices.
Extract structured data from the invoice text with high accuracy.
Return ONLY valid JSON. Do not hallucinate fields.
If a field is not present, use null. Use ISO date format (YYYY-MM-DD).

Fields: invoice_number, invoice_date, due_date, vendor_name, vendor_address,
vendor_tax_id, customer_name, customer_address, line_items (array of objects
with description, quantity, unit_price), subtotal, tax_amount, tax_rate,
total_amount, currency, payment_terms, notes, confidence (0.0-1.0).`

const bankStatementPrompt = `You are a financial document parser specialized in bank statements.
Extract structured data with precision. Return ONLY valid JSON.

Fields: account_number, account_holder, bank_name, statement_period_start,
statement_period_end, opening_balance, closing_balance, total_credits,
total_debits, transactions (array of objects with date, description, amount,
type), currency, confidence (0.0-1.0).`

const financialStatementPrompt = `You are a financial document parser for corporate financial statements.
Extract data accurately. Return ONLY valid JSON.

Fields: statement_type, company_name, period_start, period_end, revenue,
expenses, net_income, assets, liabilities, equity, line_items, currency,
confidence (0.0-1.0).`

// StructuredExtractor turns document text into a typed field map via the LLM.
// An empty map signals "nothing extracted"; it is not an error.
type StructuredExtractor struct {
	chat *ChatClient
}

func NewStructuredExtractor(chat *ChatClient) *StructuredExtractor {
	return &StructuredExtractor{chat: chat}
}

func (e *StructuredExtractor) ExtractStructured(ctx context.Context, text string, docType model.DocumentType) (model.JSONMap, float64, error) {
	var system, user string

	switch docType {
	case model.DocumentTypeInvoice:
		system = invoicePrompt
		user = "Extract all financial data from this invoice:\n\n" + truncate(text, extractTextLimit)
	case model.DocumentTypeBankStatement:
		system = bankStatementPrompt
		user = "Extract all data from this bank statement:\n\n" + truncate(text, extractTextLimit)
	case model.DocumentTypeProfitLoss, model.DocumentTypeBalanceSheet:
		system = financialStatementPrompt
		user = fmt.Sprintf("Extract financial data from this %s:\n\n%s", docType, truncate(text, extractTextLimit))
	default:
		return nil, 0, nil
	}

	response, err := e.chat.Complete(ctx, system, user, 0)
	if err != nil {
		return nil, 0, err
	}

	fields, err := parseJSONObject(response)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	confidence := 0.8
	if c, ok := fields["confidence"].(float64); ok {
		confidence = c
	}
	delete(fields, "confidence")

	return fields, confidence, nil
}

// parseJSONObject tolerates markdown fences around the model's JSON output.
func parseJSONObject(response string) (model.JSONMap, error) {
	s := strings.TrimSpace(response)
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			s = s[i : j+1]
		}
	}

	var fields model.JSONMap
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
