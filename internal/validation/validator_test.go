package validation

import (
	"strings"
	"testing"

	"github.com/tgo/finsight/internal/model"
)

func validInvoice() model.JSONMap {
	return model.JSONMap{
		"invoice_number": "INV-2024-001",
		"invoice_date":   "2024-01-01",
		"due_date":       "2024-01-31",
		"vendor_name":    "Acme Supplies",
		"subtotal":       float64(1000),
		"tax_rate":       float64(10),
		"tax_amount":     float64(100),
		"total_amount":   float64(1100),
		"line_items": []interface{}{
			map[string]interface{}{"description": "Widgets", "quantity": float64(10), "unit_price": float64(100)},
		},
	}
}

func findResult(t *testing.T, results []Result, ruleType string) Result {
	t.Helper()
	for _, r := range results {
		if r.Type == ruleType {
			return r
		}
	}
	t.Fatalf("no result for rule %s", ruleType)
	return Result{}
}

func TestValidateInvoiceAllValid(t *testing.T) {
	results := ValidateInvoice(validInvoice())

	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.IsValid {
			t.Errorf("%s unexpectedly invalid: %s", r.Type, r.Message)
		}
	}
}

func TestInvoiceTotalMismatch(t *testing.T) {
	data := validInvoice()
	data["total_amount"] = float64(1100.02)

	r := findResult(t, ValidateInvoice(data), TypeInvoiceTotal)
	if r.IsValid {
		t.Fatal("expected invalid result")
	}
	if r.Expected != "1100" || r.Actual != "1100.02" {
		t.Errorf("expected/actual = %q/%q", r.Expected, r.Actual)
	}
	if r.Severity != model.SeverityError {
		t.Errorf("severity = %s, want ERROR", r.Severity)
	}
}

func TestInvoiceTotalWithinTolerance(t *testing.T) {
	data := validInvoice()
	data["total_amount"] = float64(1100.01)

	r := findResult(t, ValidateInvoice(data), TypeInvoiceTotal)
	if !r.IsValid {
		t.Errorf("difference of 0.01 should pass, got: %s", r.Message)
	}
}

func TestInvoiceTotalMissingOperands(t *testing.T) {
	data := validInvoice()
	delete(data, "subtotal")

	r := findResult(t, ValidateInvoice(data), TypeInvoiceTotal)
	if r.IsValid {
		t.Fatal("expected invalid result")
	}
	if r.Message != "Missing subtotal, tax, or total amount" {
		t.Errorf("unexpected message: %q", r.Message)
	}
	if r.Severity != model.SeverityError {
		t.Errorf("severity = %s, want ERROR", r.Severity)
	}
}

func TestInvoiceTotalMalformedNumber(t *testing.T) {
	data := validInvoice()
	data["subtotal"] = "not-a-number"

	r := findResult(t, ValidateInvoice(data), TypeInvoiceTotal)
	if r.IsValid {
		t.Fatal("expected invalid result")
	}
	if r.Severity != model.SeverityError {
		t.Errorf("severity = %s, want ERROR", r.Severity)
	}
	if !strings.Contains(r.Message, "Invalid numeric values") {
		t.Errorf("unexpected message: %q", r.Message)
	}
}

func TestLineItemsSumMismatch(t *testing.T) {
	data := validInvoice()
	data["line_items"] = []interface{}{
		map[string]interface{}{"quantity": float64(3), "unit_price": float64(100)},
	}

	r := findResult(t, ValidateInvoice(data), TypeLineItemsSum)
	if r.IsValid {
		t.Fatal("expected invalid result")
	}
	if r.Expected != "1000" || r.Actual != "300" {
		t.Errorf("expected/actual = %q/%q", r.Expected, r.Actual)
	}
}

func TestLineItemsSumOmittedWithoutItems(t *testing.T) {
	data := validInvoice()
	delete(data, "line_items")

	for _, r := range ValidateInvoice(data) {
		if r.Type == TypeLineItemsSum {
			t.Fatal("line items rule should be omitted when no items are present")
		}
	}
}

func TestTaxCalculationMismatchIsWarning(t *testing.T) {
	data := validInvoice()
	data["tax_amount"] = float64(95)
	data["total_amount"] = float64(1095)

	r := findResult(t, ValidateInvoice(data), TypeTaxCalculation)
	if r.IsValid {
		t.Fatal("expected invalid result")
	}
	if r.Severity != model.SeverityWarning {
		t.Errorf("severity = %s, want WARNING", r.Severity)
	}
	if r.Expected != "100" || r.Actual != "95" {
		t.Errorf("expected/actual = %q/%q", r.Expected, r.Actual)
	}
}

func TestTaxCalculationOmittedWithoutRate(t *testing.T) {
	data := validInvoice()
	delete(data, "tax_rate")

	for _, r := range ValidateInvoice(data) {
		if r.Type == TypeTaxCalculation {
			t.Fatal("tax rule should be omitted when tax_rate is absent")
		}
	}
}

func TestRequiredFieldsListsAllMissing(t *testing.T) {
	data := validInvoice()
	delete(data, "invoice_number")
	data["vendor_name"] = "  "

	r := findResult(t, ValidateInvoice(data), TypeRequiredFields)
	if r.IsValid {
		t.Fatal("expected invalid result")
	}
	if r.Message != "Missing required fields: invoice_number, vendor_name" {
		t.Errorf("unexpected message: %q", r.Message)
	}
}

func TestDateLogicDueBeforeInvoice(t *testing.T) {
	data := validInvoice()
	data["due_date"] = "2023-12-15"

	r := findResult(t, ValidateInvoice(data), TypeDateLogic)
	if r.IsValid {
		t.Fatal("expected invalid result")
	}
	if r.Severity != model.SeverityError {
		t.Errorf("severity = %s, want ERROR", r.Severity)
	}
	if r.Expected != "Due date >= 2024-01-01" || r.Actual != "2023-12-15" {
		t.Errorf("expected/actual = %q/%q", r.Expected, r.Actual)
	}
}

func TestDateLogicDueFarInFuture(t *testing.T) {
	data := validInvoice()
	data["due_date"] = "2025-06-01"

	r := findResult(t, ValidateInvoice(data), TypeDateLogic)
	if r.IsValid {
		t.Fatal("expected invalid result")
	}
	if r.Severity != model.SeverityWarning {
		t.Errorf("severity = %s, want WARNING", r.Severity)
	}
}

func TestDateLogicUnparsableIsWarning(t *testing.T) {
	data := validInvoice()
	data["due_date"] = "soon"

	r := findResult(t, ValidateInvoice(data), TypeDateLogic)
	if r.IsValid {
		t.Fatal("expected invalid result")
	}
	if r.Severity != model.SeverityWarning {
		t.Errorf("severity = %s, want WARNING", r.Severity)
	}
	if r.Message != "Invalid date format" {
		t.Errorf("unexpected message: %q", r.Message)
	}
}

func TestDateLogicOmittedWithoutBothDates(t *testing.T) {
	data := validInvoice()
	delete(data, "due_date")

	for _, r := range ValidateInvoice(data) {
		if r.Type == TypeDateLogic {
			t.Fatal("date rule should be omitted when due_date is absent")
		}
	}
}

func TestNegativeAmounts(t *testing.T) {
	data := validInvoice()
	data["subtotal"] = float64(-1000)
	data["tax_amount"] = float64(-100)

	r := findResult(t, ValidateInvoice(data), TypeNegativeAmounts)
	if r.IsValid {
		t.Fatal("expected invalid result")
	}
	if r.Message != "Negative amounts detected in: subtotal, tax_amount" {
		t.Errorf("unexpected message: %q", r.Message)
	}
}

func TestBankBalanceValid(t *testing.T) {
	data := model.JSONMap{
		"opening_balance": float64(500),
		"total_credits":   float64(300),
		"total_debits":    float64(800.01),
		"closing_balance": float64(-0.01),
	}

	r := findResult(t, ValidateBankStatement(data), TypeBankBalance)
	if !r.IsValid {
		t.Errorf("unexpectedly invalid: %s", r.Message)
	}
}

func TestBankBalanceMismatch(t *testing.T) {
	data := model.JSONMap{
		"opening_balance": float64(500),
		"total_credits":   float64(300),
		"total_debits":    float64(100),
		"closing_balance": float64(701),
	}

	r := findResult(t, ValidateBankStatement(data), TypeBankBalance)
	if r.IsValid {
		t.Fatal("expected invalid result")
	}
	if r.Expected != "700" || r.Actual != "701" {
		t.Errorf("expected/actual = %q/%q", r.Expected, r.Actual)
	}
	if r.Severity != model.SeverityError {
		t.Errorf("severity = %s, want ERROR", r.Severity)
	}
}

func TestBankBalanceOmittedWithMissingField(t *testing.T) {
	data := model.JSONMap{
		"opening_balance": float64(500),
		"total_credits":   float64(300),
	}

	if results := ValidateBankStatement(data); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestTransactionTotals(t *testing.T) {
	data := model.JSONMap{
		"opening_balance": float64(0),
		"closing_balance": float64(50),
		"total_credits":   float64(150),
		"total_debits":    float64(100),
		"transactions": []interface{}{
			map[string]interface{}{"type": "Credit", "amount": float64(100)},
			map[string]interface{}{"type": "DEPOSIT", "amount": float64(50)},
			map[string]interface{}{"type": "debit", "amount": float64(60)},
			map[string]interface{}{"type": "Withdrawal", "amount": float64(40)},
		},
	}

	r := findResult(t, ValidateBankStatement(data), TypeTransactionTotals)
	if !r.IsValid {
		t.Errorf("unexpectedly invalid: %s", r.Message)
	}
}

func TestTransactionTotalsMismatchIsWarning(t *testing.T) {
	data := model.JSONMap{
		"opening_balance": float64(0),
		"closing_balance": float64(50),
		"total_credits":   float64(200),
		"total_debits":    float64(100),
		"transactions": []interface{}{
			map[string]interface{}{"type": "credit", "amount": float64(150)},
			map[string]interface{}{"type": "debit", "amount": float64(100)},
		},
	}

	r := findResult(t, ValidateBankStatement(data), TypeTransactionTotals)
	if r.IsValid {
		t.Fatal("expected invalid result")
	}
	if r.Severity != model.SeverityWarning {
		t.Errorf("severity = %s, want WARNING", r.Severity)
	}
}

func TestForDocumentTypeWithoutRules(t *testing.T) {
	if results := ForDocumentType(model.DocumentTypeTaxDocument, validInvoice()); results != nil {
		t.Errorf("expected nil results, got %d", len(results))
	}
}
