// Package risk evaluates deterministic anomaly rules over extracted
// financial data. The AI collaborator only phrases explanations for
// candidates the rules already produced; it never decides whether a
// risk exists.
package risk

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tgo/finsight/internal/model"
	"github.com/tgo/finsight/internal/validation"
)

const (
	TypeHighValue         = "HIGH_VALUE_TRANSACTION"
	TypeUnusualTerms      = "UNUSUAL_PAYMENT_TERMS"
	TypeRoundNumber       = "ROUND_NUMBER_ANOMALY"
	TypeMissingTaxInfo    = "MISSING_TAX_INFORMATION"
	TypeValidationFailure = "VALIDATION_FAILURE"
)

var (
	highValueThreshold    = decimal.NewFromInt(10000)
	criticalThreshold     = decimal.NewFromInt(100000)
	roundNumberFloor      = decimal.NewFromInt(1000)
	missingTaxAmountFloor = decimal.NewFromInt(100)
)

// Candidate is a rule-generated risk before explanation and persistence.
type Candidate struct {
	RiskType    string
	RiskLevel   model.RiskLevel
	Description string
	Evidence    model.JSONMap
}

// DetectInvoiceRisks runs the invoice rule set over the extraction
// payload and the validation outcomes.
func DetectInvoiceRisks(data model.JSONMap, validations []validation.Result) []Candidate {
	var candidates []Candidate
	candidates = append(candidates, detectHighValue(data)...)
	candidates = append(candidates, detectUnusualPaymentTerms(data)...)
	candidates = append(candidates, detectRoundNumbers(data)...)
	candidates = append(candidates, detectMissingTaxInfo(data)...)
	candidates = append(candidates, validationFailures(validations)...)
	return candidates
}

// ValidationFailures exposes only the passthrough rule, used for
// document types that have validations but no domain risk rules.
func ValidationFailures(validations []validation.Result) []Candidate {
	return validationFailures(validations)
}

func detectHighValue(data model.JSONMap) []Candidate {
	amount, ok := amountField(data, "total_amount")
	if !ok {
		return nil
	}
	currency := currencyOf(data)

	if amount.GreaterThanOrEqual(criticalThreshold) {
		return []Candidate{{
			RiskType:    TypeHighValue,
			RiskLevel:   model.RiskLevelCritical,
			Description: fmt.Sprintf("Critical value invoice: %s %s", currency, amount),
			Evidence: model.JSONMap{
				"amount":    amount.String(),
				"threshold": criticalThreshold.String(),
				"currency":  currency,
			},
		}}
	}
	if amount.GreaterThanOrEqual(highValueThreshold) {
		return []Candidate{{
			RiskType:    TypeHighValue,
			RiskLevel:   model.RiskLevelMedium,
			Description: fmt.Sprintf("High value invoice: %s %s", currency, amount),
			Evidence: model.JSONMap{
				"amount":    amount.String(),
				"threshold": highValueThreshold.String(),
				"currency":  currency,
			},
		}}
	}
	return nil
}

func detectUnusualPaymentTerms(data model.JSONMap) []Candidate {
	invoiceRaw, _ := data["invoice_date"].(string)
	dueRaw, _ := data["due_date"].(string)
	if invoiceRaw == "" || dueRaw == "" {
		return nil
	}

	invoiceDate, err1 := validation.ParseDate(invoiceRaw)
	dueDate, err2 := validation.ParseDate(dueRaw)
	if err1 != nil || err2 != nil {
		return nil
	}

	paymentDays := int(dueDate.Sub(invoiceDate).Hours() / 24)

	if paymentDays >= 0 && paymentDays < 7 {
		return []Candidate{{
			RiskType:    TypeUnusualTerms,
			RiskLevel:   model.RiskLevelLow,
			Description: fmt.Sprintf("Immediate payment required (%d days)", paymentDays),
			Evidence: model.JSONMap{
				"payment_days": paymentDays,
				"invoice_date": invoiceRaw,
				"due_date":     dueRaw,
			},
		}}
	}
	if paymentDays > 90 {
		return []Candidate{{
			RiskType:    TypeUnusualTerms,
			RiskLevel:   model.RiskLevelMedium,
			Description: fmt.Sprintf("Unusually long payment terms (%d days)", paymentDays),
			Evidence: model.JSONMap{
				"payment_days": paymentDays,
				"invoice_date": invoiceRaw,
				"due_date":     dueRaw,
			},
		}}
	}
	return nil
}

// A whole-hundreds total of at least 1000 suggests an estimate rather
// than a real invoice.
func detectRoundNumbers(data model.JSONMap) []Candidate {
	amount, ok := amountField(data, "total_amount")
	if !ok {
		return nil
	}

	if amount.GreaterThanOrEqual(roundNumberFloor) && amount.Mod(decimal.NewFromInt(100)).IsZero() {
		return []Candidate{{
			RiskType:    TypeRoundNumber,
			RiskLevel:   model.RiskLevelLow,
			Description: fmt.Sprintf("Suspiciously round total amount: %s %s", currencyOf(data), amount),
			Evidence: model.JSONMap{
				"amount": amount.String(),
				"note":   "Round numbers may indicate estimate rather than actual invoice",
			},
		}}
	}
	return nil
}

func detectMissingTaxInfo(data model.JSONMap) []Candidate {
	var candidates []Candidate

	if taxID, _ := data["vendor_tax_id"].(string); taxID == "" {
		candidates = append(candidates, Candidate{
			RiskType:    TypeMissingTaxInfo,
			RiskLevel:   model.RiskLevelMedium,
			Description: "Vendor tax ID/GST number is missing",
			Evidence:    model.JSONMap{"missing_field": "vendor_tax_id"},
		})
	}

	if data["tax_amount"] == nil {
		if total, ok := amountField(data, "total_amount"); ok && total.GreaterThan(missingTaxAmountFloor) {
			candidates = append(candidates, Candidate{
				RiskType:    TypeMissingTaxInfo,
				RiskLevel:   model.RiskLevelMedium,
				Description: "Tax amount not specified on invoice",
				Evidence: model.JSONMap{
					"missing_field": "tax_amount",
					"total_amount":  total.String(),
				},
			})
		}
	}

	return candidates
}

func validationFailures(validations []validation.Result) []Candidate {
	var candidates []Candidate
	for _, v := range validations {
		if v.IsValid {
			continue
		}

		level := model.RiskLevelMedium
		if v.Severity == model.SeverityError {
			level = model.RiskLevelHigh
		}

		candidates = append(candidates, Candidate{
			RiskType:    TypeValidationFailure,
			RiskLevel:   level,
			Description: "Validation failed: " + v.Type,
			Evidence: model.JSONMap{
				"validation_type": v.Type,
				"error_message":   v.Message,
				"expected":        v.Expected,
				"actual":          v.Actual,
			},
		})
	}
	return candidates
}

// amountField parses a numeric field, ignoring malformed values: risk
// rules stay silent on bad data, validation reports it.
func amountField(data model.JSONMap, key string) (decimal.Decimal, bool) {
	v, ok := data[key]
	if !ok || v == nil {
		return decimal.Zero, false
	}
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), true
	case int:
		return decimal.NewFromInt(int64(val)), true
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

func currencyOf(data model.JSONMap) string {
	if c, _ := data["currency"].(string); c != "" {
		return c
	}
	return "USD"
}
