package receipt

import (
	"regexp"
	"strings"
)

// Strategy extracts a best-effort field set from raw receipt text. Parse
// never fails: unknown layouts degrade to an empty ParseResult.
type Strategy interface {
	Name() string
	Parse(text string) ParseResult
}

// sep matches the separators OCR leaves between a label and its value.
const sep = `[\s:,\-]*`

// numBody matches a grouped (1.234 / 1,234) or plain digit run.
const numBody = `(?:\d{1,3}(?:[.,]\d{3})+|\d+)`

// Field alternatives, most specific first. The labeled/currency-anchored
// forms run before bare numeric forms so a standalone year or phone number
// is not picked up as an amount.
var (
	amountAlts = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:monto|total|importe)` + sep + `(` + numBody + `(?:[.,]\d{1,2})?)`),
		regexp.MustCompile(`(?i)(?:bs\.?|ves|vef|usd|eur)\s*(` + numBody + `(?:[.,]\d{1,2})?)`),
		regexp.MustCompile(`(?i)(` + numBody + `(?:[.,]\d{1,2})?)\s*(?:bs|ves|vef|usd|eur)\b`),
	}
	// Bare decimal amount needs a neighbor check instead of the lookarounds
	// the engine lacks; see findUnbordered.
	amountBareRE = regexp.MustCompile(`(` + numBody + `[.,]\d{1,2})`)

	dateAlts = []*regexp.Regexp{
		regexp.MustCompile(`(\d{2}[\s/\-]\d{2}[\s/\-]\d{4})`),
	}
	operationAlts = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:operaci[oó]n|referencia)` + sep + `(\d{6,14})\b`),
		regexp.MustCompile(`\b(\d{6,14})\b`),
	}
	identificationAlts = []*regexp.Regexp{
		regexp.MustCompile(`(?i)identificaci[oó]n[:\s]*([VEJPG]-?\d+|\d{7,9})`),
		regexp.MustCompile(`\b(\d{7,9})\b`),
	}
	originAlts = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:origen` + sep + `)?(\d{4}\*+\d{4})`),
	}
	destinationAlts = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:destino` + sep + `)?\b(04\d{8,11})\b`),
	}
	bankCodeAlts = []*regexp.Regexp{
		regexp.MustCompile(`(?i)banco` + sep + `(\d{4})\b`),
	}
	bankNameAlts = []*regexp.Regexp{
		regexp.MustCompile(`(?i)((?:banco` + sep + `)?\b(?:banesco|mercantil|provincial|venezuela|bancamiga|bancaribe|bod)\b)`),
	}
	conceptAlts = []*regexp.Regexp{
		regexp.MustCompile(`(?i)concepto` + sep + `([^\r\n]+)`),
		regexp.MustCompile(`(?i)\b(pago)\b`),
	}
)

// BaseStrategy is the generic layout-agnostic extractor every per-bank
// strategy can delegate to for fields its layout does not change.
type BaseStrategy struct{}

func (BaseStrategy) Name() string { return "base" }

func (b BaseStrategy) Parse(text string) ParseResult {
	return ParseResult{
		Amount:         b.amount(text),
		Date:           firstCapture(dateAlts, text),
		Operation:      firstCapture(operationAlts, text),
		Identification: firstCapture(identificationAlts, text),
		Origin:         firstCapture(originAlts, text),
		Destination:    firstCapture(destinationAlts, text),
		BankCode:       firstCapture(bankCodeAlts, text),
		BankName:       firstCapture(bankNameAlts, text),
		Concept:        firstCapture(conceptAlts, text),
	}
}

func (BaseStrategy) amount(text string) string {
	if s := firstCapture(amountAlts, text); s != "" {
		return s
	}
	return findUnbordered(amountBareRE, text, "0123456789-")
}

// firstCapture returns the first non-empty capture group of the first
// matching alternative, honoring the priority order of the list.
func firstCapture(alts []*regexp.Regexp, text string) string {
	for _, re := range alts {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		for _, g := range m[1:] {
			if g != "" {
				return strings.TrimSpace(g)
			}
		}
		return strings.TrimSpace(m[0])
	}
	return ""
}

func trim(s string) string { return strings.TrimSpace(s) }

// findUnbordered returns the first capture of re that is not adjacent to any
// of the border bytes. Go's regexp has no lookbehind/lookahead, so boundary
// conditions like (?<!\d)...(?![\d-]) are checked on the match indices.
func findUnbordered(re *regexp.Regexp, text, border string) string {
	for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
		start, end := idx[2], idx[3]
		if start < 0 {
			continue
		}
		if start > 0 && strings.IndexByte(border, text[start-1]) >= 0 {
			continue
		}
		if end < len(text) && strings.IndexByte(border, text[end]) >= 0 {
			continue
		}
		return strings.TrimSpace(text[start:end])
	}
	return ""
}
