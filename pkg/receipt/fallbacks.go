package receipt

import (
	"regexp"
	"strings"
)

// FallbackExtractor recovers a single field left empty by the strategy pass.
// Each extractor owns its field and must not touch a field that is already
// populated, except for the documented normalization duties (amount numeric
// re-derivation, bank-name and concept cleanup).
type FallbackExtractor interface {
	Extract(text string, r *Result)
}

// fallbackChain lists the recoverers in execution order. Concept recovery
// must stay after bank-name recovery: its cleanup consults the (possibly
// just-populated) bank name.
var fallbackChain = []FallbackExtractor{
	bankNameFallback{},
	bankCodeFallback{},
	amountFallback{},
	identificationFallback{},
	originDestinationFallback{},
	dateFallback{},
	conceptFallback{},
}

// ApplyFallbacks runs the recovery chain over r in place and returns the same
// record for chaining.
func ApplyFallbacks(text string, r *Result) *Result {
	for _, f := range fallbackChain {
		f.Extract(text, r)
	}
	return r
}

var fbBankNameRE = regexp.MustCompile(`(?i)BANCO\s+([A-ZÁÉÍÓÚÑ]+)`)

type bankNameFallback struct{}

func (bankNameFallback) Extract(text string, r *Result) {
	if r.BankName == "" {
		if m := fbBankNameRE.FindStringSubmatch(text); m != nil {
			r.BankName = m[0]
		}
	}
	if r.BankName != "" {
		r.BankName = CleanBankName(r.BankName)
	}
}

var (
	fbCodeNameRE     = regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(?:BANCO\s+)?([A-ZÁÉÍÓÚÑ\s]+)`)
	fbCodeNearRE     = regexp.MustCompile(`(?i)(\d{4})[^\w\n]{0,6}BANCO`)
	fbCodeLabeledRE  = regexp.MustCompile(`(?i)banco` + sep + `(\d{4})`)
	fbCodeSameLineRE = regexp.MustCompile(`(?i)banco[^\n]*?(\d{4})`)
)

type bankCodeFallback struct{}

func (bankCodeFallback) Extract(text string, r *Result) {
	// composite "0105 - BANCO MERCANTIL" carries both code and name
	if r.BankCode == "" {
		if m := fbCodeNameRE.FindStringSubmatch(text); m != nil {
			r.BankCode = m[1]
			name := strings.TrimSpace(m[2])
			if name == "" {
				name = r.BankName
			}
			if i := strings.IndexAny(name, "\r\n"); i >= 0 {
				name = strings.TrimSpace(name[:i])
			}
			if name != "" {
				up := strings.ToUpper(name)
				if !strings.HasPrefix(up, "BANCO") {
					up = "BANCO " + up
				}
				r.BankName = up
			}
		}
	}
	// standalone code, tried in decreasing strictness of label proximity
	if r.BankCode == "" {
		if m := fbCodeNearRE.FindStringSubmatch(text); m != nil {
			r.BankCode = m[1]
		} else if m := fbCodeLabeledRE.FindStringSubmatch(text); m != nil {
			r.BankCode = m[1]
		} else if m := fbCodeSameLineRE.FindStringSubmatch(text); m != nil {
			r.BankCode = m[1]
		}
	}
}

var (
	fbAmountLabelRE    = regexp.MustCompile(`(?i)(?:monto|total|importe)\s*[:.]?\s*([\d.,\s]+(?:bs|ves|vef|usd|eur)?)`)
	fbAmountCurrencyRE = regexp.MustCompile(`(?i)((?:bs|ves|vef|usd|eur)\.?\s*[\d.,]+|[\d.,]+\s*(?:bs|ves|vef|usd|eur))`)
	fbAmountLooseRE    = regexp.MustCompile(`(\d{1,3}(?:[.\s]\d{3})*(?:,\d{1,2})?)`)
	fbCurrencyTokenRE  = regexp.MustCompile(`(?i)\b(bs|ves|vef|usd|eur)\b`)
)

type amountFallback struct{}

func (amountFallback) Extract(text string, r *Result) {
	if r.Amount == "" {
		if m := fbAmountLabelRE.FindStringSubmatch(text); m != nil {
			r.Amount = strings.TrimSpace(m[1])
		} else if m := fbAmountCurrencyRE.FindStringSubmatch(text); m != nil {
			r.Amount = strings.TrimSpace(m[1])
		} else if s := findUnbordered(fbAmountLooseRE, text, "0123456789/-"); s != "" {
			r.Amount = s
		}
	}
	// Numeric coercion always re-derives the value and unit from whatever
	// amount string ended up present, even when a strategy already set them.
	if r.Amount != "" {
		v, unit := ParseAmount(r.Amount)
		r.AmountValue = v
		if unit != "" {
			r.AmountType = unit
		}
	}
	if r.AmountType == "" {
		if m := fbCurrencyTokenRE.FindStringSubmatch(text); m != nil {
			r.AmountType = strings.ToUpper(m[1])
		}
	}
}

var (
	fbIdentLabelRE = regexp.MustCompile(`(?i)identificaci[oó]n|cedula|ci`)
	fbIdentRE      = regexp.MustCompile(`(?i)\b([VEJPG]-?\d+|\d{7,9})\b`)
)

type identificationFallback struct{}

func (identificationFallback) Extract(text string, r *Result) {
	if r.Identification != "" {
		return
	}
	// Prefer a line that explicitly labels the holder id over a bare digit
	// run found anywhere in the text.
	for _, line := range splitLines(text) {
		if fbIdentLabelRE.MatchString(line) {
			if m := fbIdentRE.FindStringSubmatch(line); m != nil {
				r.Identification = m[1]
				return
			}
		}
	}
	if m := fbIdentRE.FindStringSubmatch(text); m != nil {
		r.Identification = m[1]
	}
}

var (
	fbOriginRE = regexp.MustCompile(`\b(\d{4}\D{1,6}\d{4})\b`)
	fbDestRE   = regexp.MustCompile(`\b(04\d{8,11})\b`)
)

type originDestinationFallback struct{}

func (originDestinationFallback) Extract(text string, r *Result) {
	if r.Origin == "" {
		if m := fbOriginRE.FindStringSubmatch(text); m != nil {
			r.Origin = m[1]
		}
	}
	if r.Destination == "" {
		if m := fbDestRE.FindStringSubmatch(text); m != nil {
			r.Destination = m[1]
		}
	}
}

type dateFallback struct{}

func (dateFallback) Extract(text string, r *Result) {
	if r.Date == "" {
		if d := ParseDateFromText(text); d != "" {
			r.Date = d
		}
	} else if d := ParseDateFromText(r.Date); d != "" {
		// canonicalize the separator on an already-captured date
		r.Date = d
	}
}

var (
	fbConceptLabelRE = regexp.MustCompile(`(?i)(?:concepto|concept|descripcion|detalle)\s*[:\-]?\s*(.+)`)
	// structural noise a free-text concept line can never be
	conceptBlacklist = []*regexp.Regexp{
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`^\d{1,3}(?:[.\s]\d{3})*(?:,\d{1,2})?$`),
		regexp.MustCompile(`(?i)fecha`),
		regexp.MustCompile(`(?i)operaci`),
		regexp.MustCompile(`(?i)identifi`),
		regexp.MustCompile(`(?i)origen`),
		regexp.MustCompile(`(?i)destino`),
		regexp.MustCompile(`(?i)banco`),
		regexp.MustCompile(`(?i)cuenta`),
		regexp.MustCompile(`(?i)monto`),
		regexp.MustCompile(`(?i)saldo`),
	}
	conceptBankCodeRE = regexp.MustCompile(`(?i)\d{4}\W*(?:BANCO|BANK)`)
	conceptDigitRunRE = regexp.MustCompile(`^[\d\-\s]{5,}$`)
	conceptLetterRE   = regexp.MustCompile(`[A-Za-zÁÉÍÓÚÑáéíóúñ]`)
)

type conceptFallback struct{}

func (conceptFallback) Extract(text string, r *Result) {
	if r.Concept == "" {
		if m := fbConceptLabelRE.FindStringSubmatch(text); m != nil {
			cand := strings.TrimSpace(m[1])
			if i := strings.IndexAny(cand, "\r\n"); i >= 0 {
				cand = strings.TrimSpace(cand[:i])
			}
			if cand != "" {
				r.Concept = truncateRunes(cand, 30)
			}
		}
	}
	if r.Concept == "" {
		// last plausible free-text line, scanning bottom-up
		lines := splitLines(text)
		for i := len(lines) - 1; i >= 0; i-- {
			s := lines[i]
			if len(s) == 0 || len(s) > 100 {
				continue
			}
			if matchesAny(conceptBlacklist, s) {
				continue
			}
			if conceptBankCodeRE.MatchString(s) {
				continue
			}
			if conceptDigitRunRE.MatchString(s) {
				continue
			}
			if !conceptLetterRE.MatchString(s) {
				continue
			}
			r.Concept = truncateRunes(s, 30)
			break
		}
	}
	if r.Concept != "" {
		r.Concept = CleanConcept(r.Concept, r.BankName)
	}
}

func matchesAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

var lineSplitRE = regexp.MustCompile(`[\r\n]+`)

func splitLines(text string) []string {
	var out []string
	for _, line := range lineSplitRE.Split(text, -1) {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}
