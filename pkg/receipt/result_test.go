package receipt

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToMapPreservesAbsence(t *testing.T) {
	r := &Result{Date: "01/01/2024"}
	data := r.ToMap()
	if data["date"] != "01/01/2024" {
		t.Errorf("date = %v", data["date"])
	}
	for _, k := range []string{"amount", "amount_value", "operation", "identification", "origin", "destination", "bankCode", "bankName", "concept", "raw_text", "confidence"} {
		if data[k] != nil {
			t.Errorf("field %s = %v, want nil", k, data[k])
		}
	}
}

func TestToMapNumericAmount(t *testing.T) {
	v := decimal.RequireFromString("1237")
	r := &Result{Amount: "1.237,00", AmountValue: &v, AmountType: "BS", Confidence: 0.8}
	data := r.ToMap()
	if data["amount_value"] != int64(1237) {
		t.Errorf("amount_value = %v (%T)", data["amount_value"], data["amount_value"])
	}
	if data["amount_type"] != "BS" {
		t.Errorf("amount_type = %v", data["amount_type"])
	}
	if data["confidence"] != 0.8 {
		t.Errorf("confidence = %v", data["confidence"])
	}
}
