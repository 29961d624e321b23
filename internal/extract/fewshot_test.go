package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackzampolin/titlescan/internal/prompts/vehicletitle"
	"github.com/jackzampolin/titlescan/internal/providers"
)

func writeExamplesFile(t *testing.T, dir string, examples []FewShotExample) string {
	t.Helper()
	data, err := json.Marshal(examples)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "examples.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeExamplePDF(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("%PDF-1.4 "+name), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fewShotExtractor(t *testing.T, mock *providers.MockClient, examplesPath string) *Extractor {
	t.Helper()
	e, err := New(Config{Client: mock, FewShotExamplesPath: examplesPath})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e
}

func TestBuildFewShotContext(t *testing.T) {
	expected := json.RawMessage(`{"title_state":"TX","vehicle_year":2019}`)

	t.Run("no path configured", func(t *testing.T) {
		e := fewShotExtractor(t, providers.NewMockClient(), "")
		parts, err := e.BuildFewShotContext()
		if err != nil {
			t.Fatalf("BuildFewShotContext() error = %v", err)
		}
		if parts != nil {
			t.Errorf("expected nil parts, got %d", len(parts))
		}
	})

	t.Run("file does not exist", func(t *testing.T) {
		e := fewShotExtractor(t, providers.NewMockClient(), "/nonexistent/examples.json")
		parts, err := e.BuildFewShotContext()
		if err != nil {
			t.Fatalf("BuildFewShotContext() error = %v", err)
		}
		if parts != nil {
			t.Errorf("expected nil parts, got %d", len(parts))
		}
	})

	t.Run("malformed examples file fails", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "examples.json")
		if err := os.WriteFile(path, []byte(`{not json`), 0644); err != nil {
			t.Fatal(err)
		}
		e := fewShotExtractor(t, providers.NewMockClient(), path)
		if _, err := e.BuildFewShotContext(); err == nil {
			t.Fatal("expected error for malformed examples file")
		}
	})

	t.Run("valid examples in order", func(t *testing.T) {
		dir := t.TempDir()
		pdf1 := writeExamplePDF(t, dir, "first.pdf")
		pdf2 := writeExamplePDF(t, dir, "second.pdf")
		path := writeExamplesFile(t, dir, []FewShotExample{
			{PDFPath: pdf1, ExpectedOutput: expected},
			{PDFPath: pdf2, ExpectedOutput: expected},
		})

		e := fewShotExtractor(t, providers.NewMockClient(), path)
		parts, err := e.BuildFewShotContext()
		if err != nil {
			t.Fatalf("BuildFewShotContext() error = %v", err)
		}
		if len(parts) != 6 {
			t.Fatalf("got %d parts, want 6", len(parts))
		}

		for i := 0; i < 2; i++ {
			base := i * 3
			if parts[base].Text != vehicletitle.ExamplePrompt {
				t.Errorf("part %d: expected example instruction", base)
			}
			if !parts[base+1].IsPDF() {
				t.Errorf("part %d: expected PDF", base+1)
			}
			if !strings.Contains(parts[base+2].Text, "title_state") {
				t.Errorf("part %d: expected expected-output JSON", base+2)
			}
		}

		if !strings.Contains(string(parts[1].PDF), "first.pdf") {
			t.Error("examples out of file order")
		}
		if !strings.Contains(string(parts[4].PDF), "second.pdf") {
			t.Error("examples out of file order")
		}
	})

	t.Run("missing example PDF is skipped", func(t *testing.T) {
		dir := t.TempDir()
		pdf2 := writeExamplePDF(t, dir, "kept.pdf")
		path := writeExamplesFile(t, dir, []FewShotExample{
			{PDFPath: filepath.Join(dir, "gone.pdf"), ExpectedOutput: expected},
			{PDFPath: pdf2, ExpectedOutput: expected},
		})

		e := fewShotExtractor(t, providers.NewMockClient(), path)
		parts, err := e.BuildFewShotContext()
		if err != nil {
			t.Fatalf("BuildFewShotContext() error = %v", err)
		}
		if len(parts) != 3 {
			t.Fatalf("got %d parts, want 3 (one example kept)", len(parts))
		}
		if !strings.Contains(string(parts[1].PDF), "kept.pdf") {
			t.Error("wrong example kept")
		}
	})

	t.Run("invalid expected output fails", func(t *testing.T) {
		dir := t.TempDir()
		pdf := writeExamplePDF(t, dir, "sample.pdf")
		path := filepath.Join(dir, "examples.json")
		raw := fmt.Sprintf(`[{"pdf_path": %q, "expected_output": "not an object"}]`, pdf)
		if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
			t.Fatal(err)
		}

		e := fewShotExtractor(t, providers.NewMockClient(), path)
		parts, err := e.BuildFewShotContext()
		if err != nil {
			t.Fatalf("BuildFewShotContext() error = %v", err)
		}
		// A JSON string is still valid JSON; it round-trips as the
		// expected output verbatim.
		if len(parts) != 3 {
			t.Fatalf("got %d parts, want 3", len(parts))
		}
	})
}

func TestExtractWithFewShotSegments(t *testing.T) {
	dir := t.TempDir()
	pdf := writeExamplePDF(t, dir, "example.pdf")
	path := writeExamplesFile(t, dir, []FewShotExample{
		{PDFPath: pdf, ExpectedOutput: json.RawMessage(`{"title_state":"TX"}`)},
	})

	mock := providers.NewMockClient()
	mock.ResponseJSON = validRecordJSON
	e := fewShotExtractor(t, mock, path)

	target := []byte("%PDF-1.4 target")
	if _, err := e.ExtractFromBytes(context.Background(), target); err != nil {
		t.Fatalf("ExtractFromBytes() error = %v", err)
	}

	req := mock.LastRequest()
	// System instruction, one example triple, target PDF, closing instruction.
	if len(req.Parts) != 6 {
		t.Fatalf("got %d parts, want 6", len(req.Parts))
	}
	if req.Parts[0].Text != vehicletitle.SystemPrompt() {
		t.Error("first part is not the system prompt")
	}
	if req.Parts[1].Text != vehicletitle.ExamplePrompt {
		t.Error("example instruction out of order")
	}
	if !req.Parts[2].IsPDF() {
		t.Error("example PDF out of order")
	}
	if !req.Parts[4].IsPDF() || string(req.Parts[4].PDF) != string(target) {
		t.Error("target PDF out of order")
	}
	if req.Parts[5].Text != vehicletitle.ClosingPrompt {
		t.Error("closing instruction out of order")
	}
}
