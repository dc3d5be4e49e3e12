package receipt

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMergePrimaryPrecedence(t *testing.T) {
	v1 := decimal.RequireFromString("100")
	v2 := decimal.RequireFromString("200")
	primary := &Result{Amount: "100,00", AmountValue: &v1, AmountType: "BS", Date: "01/01/2024"}
	secondary := &Result{Amount: "200,00", AmountValue: &v2, AmountType: "USD", Date: "02/02/2024", Operation: "123456789"}

	out := Merge(primary, secondary)
	if out != primary {
		t.Fatal("Merge must return primary")
	}
	if !out.AmountValue.Equal(v1) || out.Amount != "100,00" || out.AmountType != "BS" {
		t.Errorf("primary amount changed: %s %v %s", out.Amount, out.AmountValue, out.AmountType)
	}
	if out.Date != "01/01/2024" {
		t.Errorf("primary date changed: %q", out.Date)
	}
	if out.Operation != "123456789" {
		t.Errorf("empty field not filled: %q", out.Operation)
	}
}

func TestMergeAmountIsCompound(t *testing.T) {
	v2 := decimal.RequireFromString("350.5")
	primary := &Result{Amount: "garbled text"} // raw string present but value never parsed
	secondary := &Result{Amount: "350,50", AmountValue: &v2, AmountType: "VES"}

	out := Merge(primary, secondary)
	if out.Amount != "350,50" {
		t.Errorf("Amount = %q, raw string must move with the value", out.Amount)
	}
	if out.AmountValue == nil || !out.AmountValue.Equal(v2) {
		t.Errorf("AmountValue = %v", out.AmountValue)
	}
	if out.AmountType != "VES" {
		t.Errorf("AmountType = %q", out.AmountType)
	}
}

func TestMergeFillsAllEmptyFields(t *testing.T) {
	secondary := &Result{
		Date:           "03/03/2024",
		Operation:      "999888777",
		Identification: "12345678",
		Origin:         "0102****1111",
		Destination:    "04140000000",
		BankCode:       "0134",
		BankName:       "BANESCO",
		Concept:        "Pago",
	}
	out := Merge(&Result{}, secondary)
	if out.Date != "03/03/2024" || out.Operation != "999888777" || out.Identification != "12345678" ||
		out.Origin != "0102****1111" || out.Destination != "04140000000" ||
		out.BankCode != "0134" || out.BankName != "BANESCO" || out.Concept != "Pago" {
		t.Errorf("not all empty fields filled: %+v", out)
	}
}
