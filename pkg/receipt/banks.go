package receipt

import "strings"

// bankCodes maps the SUDEBAN 4-digit routing code to the official bank name.
var bankCodes = map[string]string{
	"0102": "BANCO DE VENEZUELA",
	"0104": "VENEZOLANO DE CREDITO",
	"0105": "BANCO MERCANTIL",
	"0108": "BBVA PROVINCIAL",
	"0114": "BANCARIBE",
	"0115": "BANCO EXTERIOR",
	"0128": "BANCO CARONI",
	"0134": "BANESCO",
	"0137": "BANCO SOFITASA",
	"0138": "BANCO PLAZA",
	"0151": "BFC BANCO FONDO COMUN",
	"0156": "100% BANCO",
	"0157": "DELSUR",
	"0163": "BANCO DEL TESORO",
	"0166": "BANCO AGRICOLA DE VENEZUELA",
	"0168": "BANCRECER",
	"0169": "MI BANCO",
	"0171": "BANCO ACTIVO",
	"0172": "BANCAMIGA",
	"0174": "BANPLUS",
	"0175": "BANCO BICENTENARIO",
	"0177": "BANFANB",
	"0191": "BNC BANCO NACIONAL DE CREDITO",
}

// bankKeywords maps distinctive name fragments to codes. Order matters:
// specific fragments come before generic ones ("AGRICOLA" must match before
// "VENEZUELA" or every state-bank variant collapses into 0102).
var bankKeywords = []struct {
	keyword string
	code    string
}{
	{"BANESCO", "0134"},
	{"MERCANTIL", "0105"},
	{"PROVINCIAL", "0108"},
	{"BBVA", "0108"},
	{"BANCAMIGA", "0172"},
	{"BANCARIBE", "0114"},
	{"EXTERIOR", "0115"},
	{"CARONI", "0128"},
	{"SOFITASA", "0137"},
	{"PLAZA", "0138"},
	{"FONDO COMUN", "0151"},
	{"100%", "0156"},
	{"DELSUR", "0157"},
	{"TESORO", "0163"},
	{"AGRICOLA", "0166"},
	{"BANCRECER", "0168"},
	{"MI BANCO", "0169"},
	{"ACTIVO", "0171"},
	{"BANPLUS", "0174"},
	{"BICENTENARIO", "0175"},
	{"BANFANB", "0177"},
	{"NACIONAL DE CREDITO", "0191"},
	{"BNC", "0191"},
	{"VENEZOLANO DE CREDITO", "0104"},
	{"VENEZUELA", "0102"},
	{"BDV", "0102"},
}

// BankNameForCode returns the official bank name for a 4-digit code, or "".
func BankNameForCode(code string) string {
	return bankCodes[code]
}

// BankCodeForName infers the routing code from a bank name fragment,
// case-insensitively. Returns "" when no keyword matches.
func BankCodeForName(name string) string {
	if name == "" {
		return ""
	}
	up := strings.ToUpper(name)
	for _, kw := range bankKeywords {
		if strings.Contains(up, kw.keyword) {
			return kw.code
		}
	}
	return ""
}

// InferBankData fills in whichever of code/name is missing when the other is
// present and resolvable. Populated values are never replaced.
func InferBankData(code, name string) (string, string) {
	if code != "" && name == "" {
		if n := BankNameForCode(code); n != "" {
			return code, n
		}
	} else if name != "" && code == "" {
		if c := BankCodeForName(name); c != "" {
			return c, name
		}
	}
	return code, name
}
