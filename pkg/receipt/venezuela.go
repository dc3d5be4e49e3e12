package receipt

import "regexp"

// PagomóvilBDV receipts carry explicit labels ("Origen:", "Identificación:",
// "Banco: 0102"), so only those fields get bank-specific patterns; the rest
// comes from the generic extraction.
var (
	bdvOriginRE = regexp.MustCompile(`(?i)origen` + sep + `(\d{4}\*+\d{4})`)
	bdvIdentRE  = regexp.MustCompile(`(?i)identificaci[oó]n` + sep + `([VEJPG]-?\d+|\d{7,9})`)
	bdvBankRE   = regexp.MustCompile(`(?i)banco` + sep + `(\d{4})\b`)
)

// VenezuelaStrategy handles Banco de Venezuela mobile-payment receipts.
type VenezuelaStrategy struct {
	BaseStrategy
}

func (VenezuelaStrategy) Name() string { return "venezuela" }

func (s VenezuelaStrategy) Parse(text string) ParseResult {
	res := s.BaseStrategy.Parse(text)
	if m := bdvIdentRE.FindStringSubmatch(text); m != nil {
		res.Identification = m[1]
	}
	if m := bdvOriginRE.FindStringSubmatch(text); m != nil {
		res.Origin = m[1]
	}
	if m := bdvBankRE.FindStringSubmatch(text); m != nil {
		res.BankCode = m[1]
	}
	return res
}
