package receipt

import "regexp"

// Banesco receipts use their own labels for the reference and the beneficiary
// phone; those two high-confidence patterns augment the generic extraction.
var (
	banescoRefRE  = regexp.MustCompile(`(?i)(?:n[uú]mero\s+de\s+)?referencia` + sep + `(\d{6,14})\b`)
	banescoDestRE = regexp.MustCompile(`(?i)(?:tel[eé]fono|celular)(?:\s+(?:de\s+)?(?:destino|beneficiario))?` + sep + `(04\d{8,11})\b`)
)

// BanescoStrategy handles Banesco mobile-payment receipts.
type BanescoStrategy struct {
	BaseStrategy
}

func (BanescoStrategy) Name() string { return "banesco" }

func (s BanescoStrategy) Parse(text string) ParseResult {
	res := s.BaseStrategy.Parse(text)
	if m := banescoRefRE.FindStringSubmatch(text); m != nil {
		res.Operation = m[1]
	}
	if m := banescoDestRE.FindStringSubmatch(text); m != nil {
		res.Destination = m[1]
	}
	return res
}
