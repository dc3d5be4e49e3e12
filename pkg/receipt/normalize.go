package receipt

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountTailRE isolates the numeric body and an optional trailing currency
// token from an amount capture like "Bs. 18.750,00" or "1.237,00 BS".
var amountTailRE = regexp.MustCompile(`(?i)([\d.,\s]+?)\s*(bs|ves|vef|usd|eur)?\.?\s*$`)

// dateAnywhereRE finds dd/mm/yyyy (or dd-mm-yyyy) anywhere in text, tolerating
// stray spaces around the separators.
var dateAnywhereRE = regexp.MustCompile(`\b(\d{2})\s*[/\-]\s*(\d{2})\s*[/\-]\s*(\d{4})\b`)

// ParseAmount parses a locale-formatted amount string into a decimal value and
// an optional currency token. Venezuelan receipts group thousands with '.' and
// mark decimals with ',' (1.234,56); bank apps sometimes emit the inverse.
// When both separators appear the rightmost one wins as the decimal mark.
// Returns (nil, "") when the text cannot be coerced; never an error.
func ParseAmount(text string) (*decimal.Decimal, string) {
	if strings.TrimSpace(text) == "" {
		return nil, ""
	}
	m := amountTailRE.FindStringSubmatch(text)
	if m == nil {
		return nil, ""
	}
	num := strings.ReplaceAll(strings.TrimSpace(m[1]), " ", "")
	unit := strings.ToUpper(m[2])

	lastComma := strings.LastIndex(num, ",")
	lastDot := strings.LastIndex(num, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,56 -> 1234.56
			num = strings.ReplaceAll(num, ".", "")
			num = strings.ReplaceAll(num, ",", ".")
		} else {
			// 1,234.56 -> 1234.56
			num = strings.ReplaceAll(num, ",", "")
		}
	case lastComma >= 0:
		// Regional convention: a lone comma is the decimal mark (1234,56).
		num = strings.ReplaceAll(num, ",", ".")
	}
	v, err := decimal.NewFromString(num)
	if err != nil {
		return nil, ""
	}
	return &v, unit
}

// AmountToNumeric reduces a parsed amount to the numeric shape downstream
// consumers expect: int64 for whole values, float64 for fractional ones,
// nil when absent.
func AmountToNumeric(v *decimal.Decimal) any {
	if v == nil {
		return nil
	}
	if v.IsInteger() {
		return v.IntPart()
	}
	f, _ := v.Float64()
	return f
}

// ParseDateFromText finds the first dd/mm/yyyy-shaped date in text and
// canonicalizes the separator to '/'. Returns "" when no full date is present;
// it never guesses a date from partial information.
func ParseDateFromText(text string) string {
	m := dateAnywhereRE.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + "/" + m[2] + "/" + m[3]
}

// CleanBankName maps known variant spellings to the official name, e.g. a bare
// "PROVINCIAL" to "BBVA PROVINCIAL".
func CleanBankName(name string) string {
	if name == "" {
		return name
	}
	up := strings.ToUpper(name)
	if strings.Contains(up, "PROVINCIAL") && !strings.Contains(up, "BBVA") {
		return "BBVA PROVINCIAL"
	}
	return name
}

// CleanConcept trims and truncates a concept to 30 characters with a leading
// capital. Provincial receipts label incoming mobile payments "pago" even
// though the product is a credit, so those are remapped to "Abono".
func CleanConcept(concept, bankName string) string {
	c := strings.TrimSpace(concept)
	if c == "" {
		return c
	}
	if bankName != "" && strings.Contains(strings.ToUpper(bankName), "PROVINCIAL") && strings.EqualFold(c, "pago") {
		c = "Abono"
	}
	r := []rune(c)
	if len(r) > 30 {
		r = r[:30]
	}
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// onlyDigits extracts decimal digits from a string.
func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
