package receipt

import (
	"regexp"
	"strings"
)

// NormalizationRule canonicalizes specific fields of a key/value record in
// place. Rules are stateless and idempotent, composed into an ordered list
// yet independently testable. Reordering is safe except that BankNameRule
// reads bankCode, so it must run after any rule that could set it (none
// today; the inference step runs before normalization).
type NormalizationRule interface {
	Apply(data map[string]any)
}

// normalizationRules is the pipeline order used by Normalize.
var normalizationRules = []NormalizationRule{
	DateRule{},
	IdentificationRule{},
	AmountRule{},
	BankNameRule{},
	ConceptRule{},
}

// Normalize runs the rule pipeline over data in place and returns it.
func Normalize(data map[string]any) map[string]any {
	for _, rule := range normalizationRules {
		rule.Apply(data)
	}
	return data
}

func getStr(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

var shortYearRE = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2})$`)

// DateRule expands dd/mm/yy to dd/mm/20yy; four-digit years pass through.
type DateRule struct{}

func (DateRule) Apply(data map[string]any) {
	d := strings.TrimSpace(getStr(data, "date"))
	if d == "" {
		return
	}
	if m := shortYearRE.FindStringSubmatch(d); m != nil {
		data["date"] = pad2(m[1]) + "/" + pad2(m[2]) + "/20" + m[3]
	}
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// IdentificationRule reduces the holder id to a pure digit string, dropping
// the V/E/J/P/G type prefix and any separators.
type IdentificationRule struct{}

func (IdentificationRule) Apply(data map[string]any) {
	if id := getStr(data, "identification"); id != "" {
		data["identification"] = onlyDigits(id)
	}
}

var amountAlphaRE = regexp.MustCompile(`[A-Za-z\s]`)

// AmountRule strips currency text from the raw amount string, leaving the
// locale-formatted number untouched (the decimal separator is not rewritten
// here; ParseAmount owns that).
type AmountRule struct{}

func (AmountRule) Apply(data map[string]any) {
	if a := getStr(data, "amount"); a != "" {
		cleaned := amountAlphaRE.ReplaceAllString(a, "")
		cleaned = strings.Trim(cleaned, ".,")
		data["amount"] = cleaned
	}
}

// BankNameRule canonicalizes the bank name through a name→code→name round
// trip, or derives it from bankCode when only the code was extracted.
type BankNameRule struct{}

func (BankNameRule) Apply(data map[string]any) {
	if name := getStr(data, "bankName"); name != "" {
		if code := BankCodeForName(name); code != "" {
			if official := BankNameForCode(code); official != "" {
				data["bankName"] = official
			}
		}
		return
	}
	if code := getStr(data, "bankCode"); code != "" {
		if name := BankNameForCode(code); name != "" {
			data["bankName"] = name
		}
	}
}

// ConceptRule capitalizes the first letter, lower-cases the rest and
// truncates to 30 characters.
type ConceptRule struct{}

func (ConceptRule) Apply(data map[string]any) {
	c := strings.TrimSpace(getStr(data, "concept"))
	if c == "" {
		return
	}
	r := []rune(strings.ToLower(c))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	data["concept"] = truncateRunes(string(r), 30)
}
