package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salesdash/internal/models"
	"salesdash/internal/services"
)

const uploadCSV = `Date,Product Name,Total Revenue,Quantity Sold
1/5/2023,A,100,10
1/6/2023,B,50,5
2/1/2023,A,200,20`

func multipartFile(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func newUploadHandlers(a *services.Analytics) *UploadHandlers {
	return NewUploadHandlers(a, testLogger(), 1<<20)
}

func TestHandleDatasetUpload_CSV(t *testing.T) {
	a := services.NewAnalytics()
	h := newUploadHandlers(a)

	body, contentType := multipartFile(t, "sales.csv", []byte(uploadCSV))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.HandleDatasetUpload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data    models.Report `json:"data"`
		Success bool          `json:"success"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RowCount != 3 {
		t.Errorf("row count = %d, want 3", envelope.Data.RowCount)
	}
	wantProducts := []string{"A", "B"}
	if got := envelope.Data.ProductRevenue.Labels; len(got) != 2 || got[0] != wantProducts[0] || got[1] != wantProducts[1] {
		t.Errorf("products = %v, want %v", got, wantProducts)
	}

	// The upload must be visible to subsequent dataset reads.
	if got := a.Report(); got.RowCount != 3 {
		t.Errorf("stored row count = %d, want 3", got.RowCount)
	}
}

func TestHandleDatasetUpload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		noFile   bool
	}{
		{name: "no file field", noFile: true},
		{name: "unsupported extension", filename: "sales.txt", content: []byte(uploadCSV)},
		{name: "missing column", filename: "sales.csv", content: []byte("Date,Product Name\n1/5/2023,A")},
		{name: "malformed workbook", filename: "sales.xlsx", content: []byte("not a workbook")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newUploadHandlers(services.NewAnalytics())

			var req *http.Request
			if tt.noFile {
				req = httptest.NewRequest(http.MethodPost, "/api/upload", nil)
			} else {
				body, contentType := multipartFile(t, tt.filename, tt.content)
				req = httptest.NewRequest(http.MethodPost, "/api/upload", body)
				req.Header.Set("Content-Type", contentType)
			}
			rec := httptest.NewRecorder()

			h.HandleDatasetUpload(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}

			var envelope struct {
				Success bool `json:"success"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if envelope.Success {
				t.Error("success = true, want false")
			}
		})
	}
}

func TestHandleJSONEcho_NoFile(t *testing.T) {
	h := newUploadHandlers(services.NewAnalytics())

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	rec := httptest.NewRecorder()

	h.HandleJSONEcho(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "No file uploaded." {
		t.Errorf("body = %q, want %q", got, "No file uploaded.")
	}
}

func TestHandleJSONEcho_InvalidJSON(t *testing.T) {
	h := newUploadHandlers(services.NewAnalytics())

	body, contentType := multipartFile(t, "data.json", []byte("{not json"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.HandleJSONEcho(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "Invalid JSON file." {
		t.Errorf("body = %q, want %q", got, "Invalid JSON file.")
	}
}

func TestHandleJSONEcho_ValidJSON(t *testing.T) {
	h := newUploadHandlers(services.NewAnalytics())

	body, contentType := multipartFile(t, "data.json", []byte(`{"rows": [1, 2, 3]}`))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.HandleJSONEcho(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var parsed map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode echo: %v", err)
	}
	rows, ok := parsed["rows"].([]any)
	if !ok || len(rows) != 3 {
		t.Errorf("echoed rows = %v, want [1 2 3]", parsed["rows"])
	}
}
