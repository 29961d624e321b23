package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackzampolin/titlescan/internal/config"
)

func testConfigManager(t *testing.T, yaml string) *config.Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	cm, err := config.NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return cm
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPDF(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	objs := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n",
	}
	offsets := make([]int, 4)
	for i, o := range objs {
		offsets[i+1] = buf.Len()
		buf.WriteString(o)
	}
	xrefPos := buf.Len()
	buf.WriteString("xref\n0 4\n0000000000 65535 f \n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", xrefPos)
	return buf.Bytes()
}

func TestNewServer(t *testing.T) {
	t.Run("requires config manager", func(t *testing.T) {
		if _, err := New(Config{}); err == nil {
			t.Error("expected error without config manager")
		}
	})

	t.Run("builds extractor from default provider", func(t *testing.T) {
		cm := testConfigManager(t, `
providers:
  mock:
    type: mock
    enabled: true
defaults:
  provider: mock
`)
		srv, err := New(Config{ConfigManager: cm, Logger: quietLogger()})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if srv.Extractor() == nil {
			t.Error("extractor should be configured")
		}
		if srv.Addr() != "127.0.0.1:8080" {
			t.Errorf("Addr() = %q", srv.Addr())
		}
	})

	t.Run("missing default provider leaves extractor nil", func(t *testing.T) {
		cm := testConfigManager(t, `
providers:
  mock:
    type: mock
    enabled: false
defaults:
  provider: mock
`)
		srv, err := New(Config{ConfigManager: cm, Logger: quietLogger()})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if srv.Extractor() != nil {
			t.Error("extractor should not be configured")
		}
	})
}

func TestServerRoutes(t *testing.T) {
	cm := testConfigManager(t, `
providers:
  mock:
    type: mock
    enabled: true
defaults:
  provider: mock
`)
	srv, err := New(Config{ConfigManager: cm, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	handler := srv.Handler()

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("status reports ready", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp struct {
			Extraction struct {
				Ready    bool   `json:"ready"`
				Provider string `json:"provider"`
			} `json:"extraction"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if !resp.Extraction.Ready {
			t.Error("extraction should be ready")
		}
		if resp.Extraction.Provider != "mock" {
			t.Errorf("provider = %q", resp.Extraction.Provider)
		}
	})

	t.Run("extract records the call even when parsing fails", func(t *testing.T) {
		// The default mock client answers with free text, which fails the
		// schema-constrained parse.
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		fw, _ := mw.CreateFormFile("file", "title.pdf")
		fw.Write(testPDF(t))
		mw.Close()

		req := httptest.NewRequest("POST", "/api/extract", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		listRec := httptest.NewRecorder()
		handler.ServeHTTP(listRec, httptest.NewRequest("GET", "/api/calls", nil))
		var calls struct {
			Total int `json:"total"`
		}
		if err := json.Unmarshal(listRec.Body.Bytes(), &calls); err != nil {
			t.Fatal(err)
		}
		if calls.Total != 1 {
			t.Errorf("recorded calls = %d, want 1", calls.Total)
		}
	})
}

func TestRequireInit(t *testing.T) {
	cm := testConfigManager(t, `
providers:
  mock:
    type: mock
    enabled: false
defaults:
  provider: mock
`)
	srv, err := New(Config{ConfigManager: cm, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	handler := srv.Handler()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "title.pdf")
	fw.Write(testPDF(t))
	mw.Close()

	req := httptest.NewRequest("POST", "/api/extract", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	// Health stays reachable without a configured provider.
	healthRec := httptest.NewRecorder()
	handler.ServeHTTP(healthRec, httptest.NewRequest("GET", "/health", nil))
	if healthRec.Code != http.StatusOK {
		t.Errorf("health status = %d", healthRec.Code)
	}
}
