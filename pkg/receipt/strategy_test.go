package receipt

import "testing"

const provincialText = `Comprobante de operacion
Fecha: 01/12/2025
Monto: 1.237,00 BS
Referencia: 004402757585
Banco: BBVA PROVINCIAL (0108)
Origen: 0102****4427
Destino: 04121600851
Concepto: Abono`

func TestBaseStrategyParse(t *testing.T) {
	res := BaseStrategy{}.Parse(provincialText)
	if res.Amount != "1.237,00" {
		t.Errorf("Amount = %q", res.Amount)
	}
	if res.Date != "01/12/2025" {
		t.Errorf("Date = %q", res.Date)
	}
	if res.Operation != "004402757585" {
		t.Errorf("Operation = %q", res.Operation)
	}
	if res.Origin != "0102****4427" {
		t.Errorf("Origin = %q", res.Origin)
	}
	if res.Destination != "04121600851" {
		t.Errorf("Destination = %q", res.Destination)
	}
	if res.BankName != "PROVINCIAL" {
		t.Errorf("BankName = %q", res.BankName)
	}
	if res.Concept != "Abono" {
		t.Errorf("Concept = %q", res.Concept)
	}
}

func TestBaseStrategyLabeledAmountBeatsBareNumbers(t *testing.T) {
	res := BaseStrategy{}.Parse("Cuenta 1234,56\nMonto: 300,00")
	if res.Amount != "300,00" {
		t.Errorf("Amount = %q, want the labeled capture", res.Amount)
	}
}

func TestBaseStrategyBareAmountNeighborCheck(t *testing.T) {
	// a decimal embedded in a longer digit run must not be captured
	res := BaseStrategy{}.Parse("ref 12345678,90123\ntotal desconocido")
	if res.Amount != "" {
		t.Errorf("Amount = %q, want empty", res.Amount)
	}
	res = BaseStrategy{}.Parse("pagado 1.250,75 gracias")
	if res.Amount != "1.250,75" {
		t.Errorf("Amount = %q, want bare decimal", res.Amount)
	}
}

func TestBaseStrategyUnknownLayout(t *testing.T) {
	res := BaseStrategy{}.Parse("Texto sin sentido")
	if res.Amount != "" || res.Date != "" || res.Operation != "" {
		t.Errorf("expected empty result, got %+v", res)
	}
}

func TestVenezuelaStrategy(t *testing.T) {
	text := `PagoMovil BDV
Fecha: 21/04/2024
Monto: Bs 120,00
Operacion: 003912345678
Identificacion: V-27483940
Origen: 0102****1234
Destino: 04141234567
Banco: 0105`
	res := VenezuelaStrategy{}.Parse(text)
	if res.Identification != "V-27483940" {
		t.Errorf("Identification = %q", res.Identification)
	}
	if res.Origin != "0102****1234" {
		t.Errorf("Origin = %q", res.Origin)
	}
	if res.BankCode != "0105" {
		t.Errorf("BankCode = %q", res.BankCode)
	}
	if res.Operation != "003912345678" {
		t.Errorf("Operation = %q", res.Operation)
	}
}

func TestMercantilStrategyCompositeBankToken(t *testing.T) {
	text := `Mercantil
Pago Movil realizado
Fecha: 02/05/2024
Monto: 800,00
Referencia: 123456789012
0105 - Mercantil
Destino: 04241112233`
	res := MercantilStrategy{}.Parse(text)
	if res.BankCode != "0105" {
		t.Errorf("BankCode = %q", res.BankCode)
	}
	if res.BankName != "BANCO MERCANTIL" {
		t.Errorf("BankName = %q", res.BankName)
	}
}

func TestBanescoStrategy(t *testing.T) {
	text := `Banesco PagoMovil
Numero de Referencia: 98765432
Telefono Beneficiario: 04161234567
Monto: 450,00
Fecha: 15/03/2024`
	res := BanescoStrategy{}.Parse(text)
	if res.Operation != "98765432" {
		t.Errorf("Operation = %q", res.Operation)
	}
	if res.Destination != "04161234567" {
		t.Errorf("Destination = %q", res.Destination)
	}
}

func TestBancamigaStrategyMultilineLabels(t *testing.T) {
	text := `BANCAMIGA
NUMERO DE REFERENCIA: 445566778
MONTO DE LA OPERACIÓN:
Bs. 18.750,00
FECHA:
21/04/24
BANCO:
BANCO DE VENEZUELA
TELF BENEFICIARIO:
04129876543
CI / RIF BENEFICIARIO:
V-19283746
CONCEPTO:
Pago servicio`
	res := BancamigaStrategy{}.Parse(text)
	if res.Operation != "445566778" {
		t.Errorf("Operation = %q", res.Operation)
	}
	if res.Amount != "Bs. 18.750,00" {
		t.Errorf("Amount = %q", res.Amount)
	}
	if res.Date != "21/04/24" {
		t.Errorf("Date = %q", res.Date)
	}
	if res.BankName != "BANCO DE VENEZUELA" {
		t.Errorf("BankName = %q", res.BankName)
	}
	if res.Destination != "04129876543" {
		t.Errorf("Destination = %q", res.Destination)
	}
	if res.Identification != "V-19283746" {
		t.Errorf("Identification = %q", res.Identification)
	}
	if res.Concept != "Pago servicio" {
		t.Errorf("Concept = %q", res.Concept)
	}
}

func TestSelectStrategy(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"PagoMovil BDV comprobante", "venezuela"},
		{"Banesco pago movil", "banesco"},
		{"Mercantil comprobante", "mercantil"},
		{"BANCAMIGA referencia", "bancamiga"},
		{"Transferencia Banesco", "base"}, // no TRANSFER entry registered
		{"Texto sin sentido", "base"},
		{"", "base"},
	}
	for _, c := range cases {
		if got := SelectStrategy(c.text).Name(); got != c.want {
			t.Errorf("SelectStrategy(%q) = %s, want %s", c.text, got, c.want)
		}
	}
}
