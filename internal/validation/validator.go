// Package validation is the deterministic rule engine for extracted
// financial data. No AI, no I/O: a field map goes in, an ordered set of
// rule results comes out. Numeric comparison is exact decimal arithmetic
// with a fixed 0.01 tolerance for rounding.
package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tgo/finsight/internal/model"
)

const (
	TypeInvoiceTotal      = "INVOICE_TOTAL_CALCULATION"
	TypeLineItemsSum      = "LINE_ITEMS_SUM"
	TypeTaxCalculation    = "TAX_CALCULATION"
	TypeRequiredFields    = "REQUIRED_FIELDS"
	TypeDateLogic         = "DATE_LOGIC"
	TypeNegativeAmounts   = "NEGATIVE_AMOUNTS"
	TypeBankBalance       = "BANK_BALANCE_CALCULATION"
	TypeTransactionTotals = "TRANSACTION_TOTALS"
)

var tolerance = decimal.RequireFromString("0.01")

// Result is one rule evaluation. Expected/Actual are set only when the
// rule compared concrete values.
type Result struct {
	Type     string
	IsValid  bool
	Expected string
	Actual   string
	Message  string
	Severity model.ValidationSeverity
}

// ForDocumentType selects the rule set for a classified document.
// Types without rules yield no results.
func ForDocumentType(docType model.DocumentType, data model.JSONMap) []Result {
	switch docType {
	case model.DocumentTypeInvoice:
		return ValidateInvoice(data)
	case model.DocumentTypeBankStatement:
		return ValidateBankStatement(data)
	}
	return nil
}

// ValidateInvoice runs the invoice rule set in a fixed order. Rules whose
// inputs are absent are omitted, except where a rule explicitly reports
// missing data.
func ValidateInvoice(data model.JSONMap) []Result {
	var results []Result
	for _, rule := range []func(model.JSONMap) *Result{
		validateInvoiceTotal,
		validateLineItemsSum,
		validateTaxCalculation,
		validateRequiredFields,
		validateDates,
		validateNoNegativeAmounts,
	} {
		if r := rule(data); r != nil {
			results = append(results, *r)
		}
	}
	return results
}

// ValidateBankStatement runs the bank-statement rule set.
func ValidateBankStatement(data model.JSONMap) []Result {
	var results []Result
	for _, rule := range []func(model.JSONMap) *Result{
		validateBankBalance,
		validateTransactionTotals,
	} {
		if r := rule(data); r != nil {
			results = append(results, *r)
		}
	}
	return results
}

// Total = Subtotal + Tax. Missing operands are reported, not omitted.
func validateInvoiceTotal(data model.JSONMap) *Result {
	if !has(data, "subtotal") || !has(data, "tax_amount") || !has(data, "total_amount") {
		return &Result{
			Type:     TypeInvoiceTotal,
			IsValid:  false,
			Message:  "Missing subtotal, tax, or total amount",
			Severity: model.SeverityError,
		}
	}

	subtotal, tax, total, err := threeDecimals(data, "subtotal", "tax_amount", "total_amount")
	if err != nil {
		return invalidNumeric(TypeInvoiceTotal, err)
	}

	expected := subtotal.Add(tax)
	if expected.Sub(total).Abs().GreaterThan(tolerance) {
		return &Result{
			Type:     TypeInvoiceTotal,
			IsValid:  false,
			Expected: expected.String(),
			Actual:   total.String(),
			Message:  fmt.Sprintf("Total amount mismatch. Expected %s, got %s", expected, total),
			Severity: model.SeverityError,
		}
	}

	return &Result{Type: TypeInvoiceTotal, IsValid: true}
}

// Sum of quantity x unit_price over line items must match the subtotal.
func validateLineItemsSum(data model.JSONMap) *Result {
	items, ok := data["line_items"].([]interface{})
	if !ok || len(items) == 0 || !has(data, "subtotal") {
		return nil
	}

	sum := decimal.Zero
	for _, raw := range items {
		item, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		quantity, err := toDecimal(itemField(item, "quantity"))
		if err != nil {
			return invalidNumeric(TypeLineItemsSum, fmt.Errorf("line item quantity: %w", err))
		}
		price, err := toDecimal(itemField(item, "unit_price"))
		if err != nil {
			return invalidNumeric(TypeLineItemsSum, fmt.Errorf("line item unit_price: %w", err))
		}
		sum = sum.Add(quantity.Mul(price))
	}

	subtotal, err := toDecimal(data["subtotal"])
	if err != nil {
		return invalidNumeric(TypeLineItemsSum, err)
	}

	if sum.Sub(subtotal).Abs().GreaterThan(tolerance) {
		return &Result{
			Type:     TypeLineItemsSum,
			IsValid:  false,
			Expected: subtotal.String(),
			Actual:   sum.String(),
			Message:  fmt.Sprintf("Line items sum (%s) does not match subtotal (%s)", sum, subtotal),
			Severity: model.SeverityError,
		}
	}

	return &Result{Type: TypeLineItemsSum, IsValid: true}
}

// Tax = Subtotal x (TaxRate / 100). Mismatch is a warning only.
func validateTaxCalculation(data model.JSONMap) *Result {
	if !has(data, "subtotal") || !has(data, "tax_amount") || !has(data, "tax_rate") {
		return nil
	}

	subtotal, tax, rate, err := threeDecimals(data, "subtotal", "tax_amount", "tax_rate")
	if err != nil {
		return invalidNumeric(TypeTaxCalculation, err)
	}

	expected := subtotal.Mul(rate.Div(decimal.NewFromInt(100)))
	if expected.Sub(tax).Abs().GreaterThan(tolerance) {
		return &Result{
			Type:     TypeTaxCalculation,
			IsValid:  false,
			Expected: expected.String(),
			Actual:   tax.String(),
			Message:  fmt.Sprintf("Tax calculation mismatch. Expected %s, got %s", expected, tax),
			Severity: model.SeverityWarning,
		}
	}

	return &Result{Type: TypeTaxCalculation, IsValid: true}
}

func validateRequiredFields(data model.JSONMap) *Result {
	var missing []string
	for _, field := range []string{"invoice_number", "invoice_date", "vendor_name", "total_amount"} {
		if isEmpty(data[field]) {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return &Result{
			Type:     TypeRequiredFields,
			IsValid:  false,
			Message:  "Missing required fields: " + strings.Join(missing, ", "),
			Severity: model.SeverityError,
		}
	}

	return &Result{Type: TypeRequiredFields, IsValid: true}
}

func validateDates(data model.JSONMap) *Result {
	invoiceRaw, _ := data["invoice_date"].(string)
	dueRaw, _ := data["due_date"].(string)
	if invoiceRaw == "" || dueRaw == "" {
		return nil
	}

	invoiceDate, err1 := ParseDate(invoiceRaw)
	dueDate, err2 := ParseDate(dueRaw)
	if err1 != nil || err2 != nil {
		return &Result{
			Type:     TypeDateLogic,
			IsValid:  false,
			Message:  "Invalid date format",
			Severity: model.SeverityWarning,
		}
	}

	if dueDate.Before(invoiceDate) {
		return &Result{
			Type:     TypeDateLogic,
			IsValid:  false,
			Expected: "Due date >= " + invoiceRaw,
			Actual:   dueRaw,
			Message:  "Due date is before invoice date",
			Severity: model.SeverityError,
		}
	}

	if dueDate.After(invoiceDate.AddDate(0, 0, 365)) {
		return &Result{
			Type:     TypeDateLogic,
			IsValid:  false,
			Message:  "Due date is more than 1 year from invoice date",
			Severity: model.SeverityWarning,
		}
	}

	return &Result{Type: TypeDateLogic, IsValid: true}
}

func validateNoNegativeAmounts(data model.JSONMap) *Result {
	var negative []string
	for _, field := range []string{"subtotal", "tax_amount", "total_amount"} {
		value, present := data[field]
		if !present || value == nil {
			continue
		}
		d, err := toDecimal(value)
		if err != nil {
			continue // unparsable values are caught by the arithmetic rules
		}
		if d.IsNegative() {
			negative = append(negative, field)
		}
	}

	if len(negative) > 0 {
		return &Result{
			Type:     TypeNegativeAmounts,
			IsValid:  false,
			Message:  "Negative amounts detected in: " + strings.Join(negative, ", "),
			Severity: model.SeverityError,
		}
	}

	return &Result{Type: TypeNegativeAmounts, IsValid: true}
}

// Closing = Opening + Credits - Debits.
func validateBankBalance(data model.JSONMap) *Result {
	for _, field := range []string{"opening_balance", "closing_balance", "total_credits", "total_debits"} {
		if !has(data, field) {
			return nil
		}
	}

	opening, err := toDecimal(data["opening_balance"])
	if err != nil {
		return invalidNumeric(TypeBankBalance, err)
	}
	closing, err := toDecimal(data["closing_balance"])
	if err != nil {
		return invalidNumeric(TypeBankBalance, err)
	}
	credits, err := toDecimal(data["total_credits"])
	if err != nil {
		return invalidNumeric(TypeBankBalance, err)
	}
	debits, err := toDecimal(data["total_debits"])
	if err != nil {
		return invalidNumeric(TypeBankBalance, err)
	}

	expected := opening.Add(credits).Sub(debits)
	if expected.Sub(closing).Abs().GreaterThan(tolerance) {
		return &Result{
			Type:     TypeBankBalance,
			IsValid:  false,
			Expected: expected.String(),
			Actual:   closing.String(),
			Message:  fmt.Sprintf("Balance mismatch. Expected %s, got %s", expected, closing),
			Severity: model.SeverityError,
		}
	}

	return &Result{Type: TypeBankBalance, IsValid: true}
}

// Sum of transactions by type must match the stated totals.
func validateTransactionTotals(data model.JSONMap) *Result {
	transactions, ok := data["transactions"].([]interface{})
	if !ok || len(transactions) == 0 || !has(data, "total_credits") || !has(data, "total_debits") {
		return nil
	}

	actualCredits := decimal.Zero
	actualDebits := decimal.Zero
	for _, raw := range transactions {
		txn, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		amount, err := toDecimal(itemField(txn, "amount"))
		if err != nil {
			return invalidNumeric(TypeTransactionTotals, fmt.Errorf("transaction amount: %w", err))
		}
		txnType, _ := txn["type"].(string)
		switch strings.ToLower(txnType) {
		case "credit", "deposit":
			actualCredits = actualCredits.Add(amount)
		case "debit", "withdrawal":
			actualDebits = actualDebits.Add(amount)
		}
	}

	statedCredits, err := toDecimal(data["total_credits"])
	if err != nil {
		return invalidNumeric(TypeTransactionTotals, err)
	}
	statedDebits, err := toDecimal(data["total_debits"])
	if err != nil {
		return invalidNumeric(TypeTransactionTotals, err)
	}

	creditDiff := actualCredits.Sub(statedCredits).Abs()
	debitDiff := actualDebits.Sub(statedDebits).Abs()
	if creditDiff.GreaterThan(tolerance) || debitDiff.GreaterThan(tolerance) {
		return &Result{
			Type:    TypeTransactionTotals,
			IsValid: false,
			Message: fmt.Sprintf("Transaction totals mismatch. Credits: %s vs %s, Debits: %s vs %s",
				actualCredits, statedCredits, actualDebits, statedDebits),
			Severity: model.SeverityWarning,
		}
	}

	return &Result{Type: TypeTransactionTotals, IsValid: true}
}

func invalidNumeric(ruleType string, err error) *Result {
	return &Result{
		Type:     ruleType,
		IsValid:  false,
		Message:  "Invalid numeric values: " + err.Error(),
		Severity: model.SeverityError,
	}
}

func threeDecimals(data model.JSONMap, a, b, c string) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	da, err := toDecimal(data[a])
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("%s: %w", a, err)
	}
	db, err := toDecimal(data[b])
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("%s: %w", b, err)
	}
	dc, err := toDecimal(data[c])
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("%s: %w", c, err)
	}
	return da, db, dc, nil
}

func has(data model.JSONMap, field string) bool {
	v, ok := data[field]
	return ok && v != nil
}

// isEmpty treats nil, empty strings and zero numbers as missing,
// matching required-field semantics.
func isEmpty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case float64:
		return val == 0
	case int:
		return val == 0
	}
	return false
}

func itemField(item map[string]interface{}, key string) interface{} {
	if v, ok := item[key]; ok && v != nil {
		return v
	}
	return float64(0)
}
