package receipt

import "regexp"

// Bancamiga receipts put each label on its own line with the value on the
// next ("MONTO DE LA OPERACIÓN:\nBs. 18.750,00"), which the generic
// single-line patterns cannot see. The layout is different enough that this
// strategy replaces the base extraction entirely instead of augmenting it.
var (
	bcaRefRE  = regexp.MustCompile(`(?i)NUMERO DE REFERENCIA[:\s]*(\d+)`)
	bcaAmtRE  = regexp.MustCompile(`(?i)MONTO DE LA OPERACI[ÓO]N[:\s\w]*\n\s*((?:Bs\.?|VES)?\s*[\d.,]+)`)
	bcaDateRE = regexp.MustCompile(`(?i)FECHA[:\s]*\n\s*(\d{2}/\d{2}/\d{2,4})`)
	bcaBankRE = regexp.MustCompile(`(?i)BANCO[:\s]*\n\s*([^\n]+)`)
	bcaDestRE = regexp.MustCompile(`(?i)TELF(?: BENEFICIARIO)?[:\s]*\n\s*(\d+)`)
	// OCR often garbles the "CI" in "CI / RIF BENEFICIARIO"
	bcaIdentRE   = regexp.MustCompile(`(?i)(?:(?:CI|a|C\.?I\.?)\s*/\s*RIF|IDENTIFICACI[ÓO]N)[:\s\w]*\n\s*([VEJPG]-?\d+|\d{7,9})`)
	bcaConceptRE = regexp.MustCompile(`(?i)CONCEPTO[:\s]*\n\s*([^\n]+)`)
)

// BancamigaStrategy handles Bancamiga mobile-payment receipts.
type BancamigaStrategy struct{}

func (BancamigaStrategy) Name() string { return "bancamiga" }

func (BancamigaStrategy) Parse(text string) ParseResult {
	var res ParseResult
	if m := bcaRefRE.FindStringSubmatch(text); m != nil {
		res.Operation = trim(m[1])
	}
	if m := bcaAmtRE.FindStringSubmatch(text); m != nil {
		res.Amount = trim(m[1])
	}
	if m := bcaDateRE.FindStringSubmatch(text); m != nil {
		res.Date = trim(m[1])
	}
	if m := bcaBankRE.FindStringSubmatch(text); m != nil {
		res.BankName = trim(m[1])
	}
	if m := bcaIdentRE.FindStringSubmatch(text); m != nil {
		res.Identification = trim(m[1])
	}
	if m := bcaDestRE.FindStringSubmatch(text); m != nil {
		res.Destination = trim(m[1])
	}
	if m := bcaConceptRE.FindStringSubmatch(text); m != nil {
		res.Concept = trim(m[1])
	}
	return res
}
