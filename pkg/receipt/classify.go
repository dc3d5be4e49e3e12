package receipt

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Bank identifies the issuing bank template a receipt most likely follows.
type Bank string

const (
	BankVenezuela Bank = "VENEZUELA"
	BankBanesco   Bank = "BANESCO"
	BankMercantil Bank = "MERCANTIL"
	BankBancamiga Bank = "BANCAMIGA"
	BankUnknown   Bank = "UNKNOWN"
)

// TransactionType distinguishes the two receipt shapes the pipeline knows.
type TransactionType string

const (
	TypeMobilePayment TransactionType = "MOBILE_PAYMENT"
	TypeTransfer      TransactionType = "TRANSFER"
	TypeUnknown       TransactionType = "UNKNOWN"
)

var (
	accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonAlnumRE     = regexp.MustCompile(`[^a-z0-9]+`)
	multiSpaceRE   = regexp.MustCompile(`\s+`)
)

// Classify determines the bank template and transaction shape for raw OCR
// text. Bank detection is an ordered keyword ladder: the bank-branded
// compound phrase "pagomovil bdv" outranks generic single-word names so a
// receipt that merely mentions another bank as origin/destination is not
// misclassified. First matching rule wins. The ladder ordering is load
// bearing; do not treat it as a set.
func Classify(text string) (Bank, TransactionType) {
	if text == "" {
		return BankUnknown, TypeUnknown
	}
	n := normalizeForMatch(text)

	bank := BankUnknown
	switch {
	case strings.Contains(n, "pagomovil bdv") || strings.Contains(n, "pago movil bdv") || strings.Contains(n, "pagomovilbdv"):
		bank = BankVenezuela
	case strings.Contains(n, "bancamiga"):
		bank = BankBancamiga
	case strings.Contains(n, "banesco"):
		bank = BankBanesco
	case strings.Contains(n, "mercantil"):
		bank = BankMercantil
	case strings.Contains(n, "venezuela") || strings.Contains(n, "bdv"):
		bank = BankVenezuela
	}

	// Mobile payments dominate the receipt population, so that is the
	// default; only an explicit transfer keyword upgrades the type.
	txType := TypeMobilePayment
	if strings.Contains(n, "transferencia") {
		txType = TypeTransfer
	}
	return bank, txType
}

// normalizeForMatch strips accents, lower-cases and collapses every
// non-alphanumeric run to a single space so keyword matching survives OCR
// noise.
func normalizeForMatch(text string) string {
	plain, _, err := transform.String(accentStripper, text)
	if err != nil {
		plain = text
	}
	plain = strings.ToLower(plain)
	plain = nonAlnumRE.ReplaceAllString(plain, " ")
	plain = multiSpaceRE.ReplaceAllString(plain, " ")
	return strings.TrimSpace(plain)
}
