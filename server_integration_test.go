package main

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"pagoscan/pkg/receipt"

	"github.com/gin-gonic/gin"
)

// fakeScanner stands in for the OCR pipeline so the HTTP flow can be tested
// without tesseract or sample images.
type fakeScanner struct {
	data map[string]any
	err  error
}

func (f *fakeScanner) Process(path string) (map[string]any, error) {
	return f.data, f.err
}

func completeScanData() map[string]any {
	return map[string]any{
		"amount":         "1.237,00",
		"amount_value":   int64(1237),
		"amount_type":    "BS",
		"date":           "21/04/2024",
		"operation":      "004402757585",
		"identification": "27483940",
		"origin":         "0102****1234",
		"destination":    "04141234567",
		"bankCode":       "0108",
		"bankName":       "BBVA PROVINCIAL",
		"concept":        "Abono",
		"raw_text":       "Comprobante",
		"confidence":     0.9,
	}
}

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	// allow callers to pass nil for body safely
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	initDB()
	tmp := t.TempDir()
	_ = os.Setenv("UPLOAD_BASE", tmp)
	seedDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func multipartImage(t *testing.T, name string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	w, _ := mw.CreateFormFile("file", name)
	_, _ = w.Write([]byte("FAKE IMAGE BYTES"))
	_ = mw.Close()
	return buf, mw.FormDataContentType()
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register user
	regBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass123"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "", "application/json")
	if resp.Code != 200 && resp.Code != 409 {
		b := resp.Body.String()
		t.Fatalf("register failed status=%d body=%s", resp.Code, b)
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass123"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "", "application/json")
	if resp.Code != 200 {
		b := resp.Body.String()
		t.Fatalf("login failed status=%d body=%s", resp.Code, b)
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Scan a receipt (multipart, pipeline stubbed)
	scanner = &fakeScanner{data: completeScanData()}
	buf, ct := multipartImage(t, "receipt1.png")
	resp = performRequest(r, http.MethodPost, "/scan", buf, token, ct)
	if resp.Code != 200 {
		b := resp.Body.String()
		t.Fatalf("scan failed status=%d body=%s", resp.Code, b)
	}
	var scanResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &scanResp)
	if scanResp["transaction_id"] == nil {
		t.Fatalf("scan response missing transaction_id: %+v", scanResp)
	}

	// 4. Re-scan the same reference: should link, not double-book
	buf, ct = multipartImage(t, "receipt1_copy.png")
	resp = performRequest(r, http.MethodPost, "/scan", buf, token, ct)
	if resp.Code != 200 {
		t.Fatalf("re-scan failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var rescanResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &rescanResp)
	if rescanResp["duplicate"] != true {
		t.Fatalf("expected duplicate flag on re-scan: %+v", rescanResp)
	}

	// 5. Incomplete extraction: 422 with missing field list
	scanner = &fakeScanner{
		data: map[string]any{"amount_value": int64(50), "date": nil},
		err:  &receipt.MissingFieldsError{Fields: []string{"date", "operation"}},
	}
	buf, ct = multipartImage(t, "receipt_bad.png")
	resp = performRequest(r, http.MethodPost, "/scan", buf, token, ct)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for incomplete scan got %d body=%s", resp.Code, resp.Body.String())
	}

	// 6. List transactions
	resp = performRequest(r, http.MethodGet, "/transactions", nil, token, "")
	if resp.Code != 200 {
		b := resp.Body.String()
		t.Fatalf("list transactions failed status=%d body=%s", resp.Code, b)
	}

	// 7. Monthly summary
	resp = performRequest(r, http.MethodGet, "/transactions/summary", nil, token, "")
	if resp.Code != 200 {
		b := resp.Body.String()
		t.Fatalf("transaction summary failed status=%d body=%s", resp.Code, b)
	}

	// 8. List receipts, including the failed one
	resp = performRequest(r, http.MethodGet, "/receipts?failed=1", nil, token, "")
	if resp.Code != 200 {
		b := resp.Body.String()
		t.Fatalf("list receipts failed status=%d body=%s", resp.Code, b)
	}

	// 9. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/transactions", nil, "", "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list transactions got %d", unauth.Code)
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}
