package receipt

import (
	"regexp"
	"strings"
)

// Mercantil receipts print the destination bank as a composite
// "0105 - BANCO MERCANTIL" token; everything else follows the generic layout.
var mercantilCodeNameRE = regexp.MustCompile(`(?i)(\d{4})\s*[-–]\s*(?:BANCO\s+)?([A-ZÁÉÍÓÚÑa-záéíóúñ ]+)`)

// MercantilStrategy handles Mercantil mobile-payment receipts.
type MercantilStrategy struct {
	BaseStrategy
}

func (MercantilStrategy) Name() string { return "mercantil" }

func (s MercantilStrategy) Parse(text string) ParseResult {
	res := s.BaseStrategy.Parse(text)
	if m := mercantilCodeNameRE.FindStringSubmatch(text); m != nil {
		res.BankCode = m[1]
		name := strings.TrimSpace(m[2])
		// drop anything that bled in from the next line
		if i := strings.IndexAny(name, "\r\n"); i >= 0 {
			name = strings.TrimSpace(name[:i])
		}
		if name != "" {
			up := strings.ToUpper(name)
			if !strings.HasPrefix(up, "BANCO") {
				up = "BANCO " + up
			}
			res.BankName = up
		}
	}
	return res
}
