package receipt

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBankNameFallbackRecovers(t *testing.T) {
	r := &Result{}
	bankNameFallback{}.Extract("transferido a BANCO MERCANTIL hoy", r)
	if r.BankName != "BANCO MERCANTIL" {
		t.Errorf("BankName = %q", r.BankName)
	}
}

func TestBankNameFallbackCleansExisting(t *testing.T) {
	r := &Result{BankName: "PROVINCIAL"}
	bankNameFallback{}.Extract("irrelevant", r)
	if r.BankName != "BBVA PROVINCIAL" {
		t.Errorf("BankName = %q", r.BankName)
	}
}

func TestBankCodeFallbackCompositeToken(t *testing.T) {
	r := &Result{}
	bankCodeFallback{}.Extract("recibido en 0105 - Mercantil\nlinea siguiente", r)
	if r.BankCode != "0105" {
		t.Errorf("BankCode = %q", r.BankCode)
	}
	if r.BankName != "BANCO MERCANTIL" {
		t.Errorf("BankName = %q", r.BankName)
	}
}

func TestBankCodeFallbackSameLine(t *testing.T) {
	r := &Result{}
	bankCodeFallback{}.Extract("Banco: BBVA PROVINCIAL (0108)", r)
	if r.BankCode != "0108" {
		t.Errorf("BankCode = %q", r.BankCode)
	}
}

func TestBankCodeFallbackKeepsExisting(t *testing.T) {
	r := &Result{BankCode: "0134"}
	bankCodeFallback{}.Extract("Banco: 0102", r)
	if r.BankCode != "0134" {
		t.Errorf("BankCode overwritten: %q", r.BankCode)
	}
}

func TestAmountFallbackRecoversAndDerives(t *testing.T) {
	r := &Result{}
	amountFallback{}.Extract("Total: 1.500,25 Bs", r)
	if r.Amount == "" {
		t.Fatal("Amount not recovered")
	}
	if r.AmountValue == nil || !r.AmountValue.Equal(decimal.RequireFromString("1500.25")) {
		t.Errorf("AmountValue = %v", r.AmountValue)
	}
	if r.AmountType != "BS" {
		t.Errorf("AmountType = %q", r.AmountType)
	}
}

func TestAmountFallbackAlwaysRederivesValue(t *testing.T) {
	stale := decimal.RequireFromString("999")
	r := &Result{Amount: "120,50", AmountValue: &stale}
	amountFallback{}.Extract("sin montos aqui", r)
	if r.AmountValue == nil || !r.AmountValue.Equal(decimal.RequireFromString("120.5")) {
		t.Errorf("AmountValue = %v, want re-derived 120.5", r.AmountValue)
	}
}

func TestAmountFallbackLooseNumberNeighborCheck(t *testing.T) {
	r := &Result{}
	amountFallback{}.Extract("operacion 12345678901 del 01/12/2025", r)
	if r.Amount != "" {
		t.Errorf("Amount = %q, want empty (digits bordered by / or digits)", r.Amount)
	}
}

func TestIdentificationFallbackPrefersLabeledLine(t *testing.T) {
	r := &Result{}
	text := "numero 99887766\nCedula: V-12345678\notra linea"
	identificationFallback{}.Extract(text, r)
	if r.Identification != "V-12345678" {
		t.Errorf("Identification = %q", r.Identification)
	}
}

func TestIdentificationFallbackBareDigits(t *testing.T) {
	r := &Result{}
	identificationFallback{}.Extract("titular 27483940 confirmado", r)
	if r.Identification != "27483940" {
		t.Errorf("Identification = %q", r.Identification)
	}
}

func TestOriginDestinationFallback(t *testing.T) {
	r := &Result{}
	originDestinationFallback{}.Extract("desde 0102**4427 hacia 04121600851", r)
	if r.Origin != "0102**4427" {
		t.Errorf("Origin = %q", r.Origin)
	}
	if r.Destination != "04121600851" {
		t.Errorf("Destination = %q", r.Destination)
	}
}

func TestDateFallbackRecoversAndCanonicalizes(t *testing.T) {
	r := &Result{}
	dateFallback{}.Extract("emitido el 30-11-2024", r)
	if r.Date != "30/11/2024" {
		t.Errorf("Date = %q", r.Date)
	}
	r = &Result{Date: "21 - 04 - 2024"}
	dateFallback{}.Extract("sin fecha", r)
	if r.Date != "21/04/2024" {
		t.Errorf("canonicalized Date = %q", r.Date)
	}
}

func TestConceptFallbackLabeled(t *testing.T) {
	r := &Result{}
	conceptFallback{}.Extract("Concepto: pago de alquiler\nMonto: 10,00", r)
	if r.Concept != "Pago de alquiler" {
		t.Errorf("Concept = %q", r.Concept)
	}
}

func TestConceptFallbackBottomUpScan(t *testing.T) {
	r := &Result{}
	text := "Encabezado banco\n123456789\nalmuerzo con clientes\n10.500,00"
	conceptFallback{}.Extract(text, r)
	if r.Concept != "Almuerzo con clientes" {
		t.Errorf("Concept = %q", r.Concept)
	}
}

func TestConceptFallbackSkipsStructuralLines(t *testing.T) {
	r := &Result{}
	text := "Fecha: 01/12/2025\nMonto: 10,00\n0102 - BANCO\n12345-678"
	conceptFallback{}.Extract(text, r)
	if r.Concept != "" {
		t.Errorf("Concept = %q, want empty", r.Concept)
	}
}

func TestApplyFallbacksOnlyFillsEmptyFields(t *testing.T) {
	r := &Result{
		Date:        "01/01/2024",
		Operation:   "111222333444",
		Destination: "04140001122",
	}
	ApplyFallbacks("Fecha: 09/09/2029\nDestino: 04269998877", r)
	if r.Date != "01/01/2024" {
		t.Errorf("Date overwritten: %q", r.Date)
	}
	if r.Destination != "04140001122" {
		t.Errorf("Destination overwritten: %q", r.Destination)
	}
}
