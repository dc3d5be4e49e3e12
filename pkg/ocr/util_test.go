package ocr

import "testing"

func TestTidyOCRTextKeepsLineStructure(t *testing.T) {
	in := "Monto:    1.237,00\r\n\r\n  Fecha:\t01/12/2025  \n\n"
	want := "Monto: 1.237,00\nFecha: 01/12/2025"
	if got := tidyOCRText(in); got != want {
		t.Errorf("tidyOCRText = %q, want %q", got, want)
	}
}

func TestTidyOCRTextEmpty(t *testing.T) {
	if got := tidyOCRText("  \n \r\n "); got != "" {
		t.Errorf("tidyOCRText = %q, want empty", got)
	}
}

func TestSnippet(t *testing.T) {
	if got := snippet("short", 10); got != "short" {
		t.Errorf("snippet = %q", got)
	}
	if got := snippet("0123456789abc", 10); got != "0123456789…" {
		t.Errorf("snippet = %q", got)
	}
}
