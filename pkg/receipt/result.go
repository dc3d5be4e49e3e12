package receipt

import "github.com/shopspring/decimal"

// ParseResult holds the raw field captures produced by a single strategy run.
// An empty string means the strategy found nothing for that field. A
// ParseResult is never mutated after parse returns it; the fallback chain
// copies it into a working Result.
type ParseResult struct {
	Amount         string
	Date           string
	Operation      string
	Identification string
	Origin         string
	Destination    string
	BankCode       string
	BankName       string
	Concept        string
}

// Result is the working record carried through fallback extraction, merge and
// normalization. AmountValue is non-nil only when Amount was parsed
// successfully; AmountType, when set, is one of the currency tokens matched
// by ParseAmount (BS, VES, VEF, USD, EUR).
type Result struct {
	Amount         string
	AmountValue    *decimal.Decimal
	AmountType     string
	Date           string
	Operation      string
	Identification string
	Origin         string
	Destination    string
	BankCode       string
	BankName       string
	Concept        string

	// Audit
	RawText    string
	Confidence float64
}

// NewResult seeds a working record from a strategy capture. AmountValue and
// AmountType stay unset here; AmountFallback derives them from the raw string.
func NewResult(p ParseResult) *Result {
	return &Result{
		Amount:         p.Amount,
		Date:           p.Date,
		Operation:      p.Operation,
		Identification: p.Identification,
		Origin:         p.Origin,
		Destination:    p.Destination,
		BankCode:       p.BankCode,
		BankName:       p.BankName,
		Concept:        p.Concept,
	}
}

// ToMap converts the record into the key/value form consumed by the
// normalization rules and returned to callers. Empty fields become nil so
// absence (as opposed to empty string) survives serialization.
func (r *Result) ToMap() map[string]any {
	data := map[string]any{
		"amount":         nilIfEmpty(r.Amount),
		"amount_value":   AmountToNumeric(r.AmountValue),
		"amount_type":    nilIfEmpty(r.AmountType),
		"date":           nilIfEmpty(r.Date),
		"operation":      nilIfEmpty(r.Operation),
		"identification": nilIfEmpty(r.Identification),
		"origin":         nilIfEmpty(r.Origin),
		"destination":    nilIfEmpty(r.Destination),
		"bankCode":       nilIfEmpty(r.BankCode),
		"bankName":       nilIfEmpty(r.BankName),
		"concept":        nilIfEmpty(r.Concept),
		"raw_text":       nilIfEmpty(r.RawText),
	}
	if r.Confidence > 0 {
		data["confidence"] = r.Confidence
	} else {
		data["confidence"] = nil
	}
	return data
}

func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
