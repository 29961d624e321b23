package extract

import (
	"bytes"
	"fmt"
	"testing"
)

func buildMinimalPDF(t *testing.T, pages int) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	kids := ""
	for i := 0; i < pages; i++ {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", 3+i)
	}

	objs := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", kids, pages),
	}
	for i := 0; i < pages; i++ {
		objs = append(objs, fmt.Sprintf(
			"%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n", 3+i))
	}

	offsets := make([]int, len(objs)+1)
	for i, o := range objs {
		offsets[i+1] = buf.Len()
		buf.WriteString(o)
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objs); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xrefPos)
	return buf.Bytes()
}

func TestPageCount(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		count, err := PageCount(buildMinimalPDF(t, 1))
		if err != nil {
			t.Fatalf("PageCount() error = %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1", count)
		}
	})

	t.Run("multiple pages", func(t *testing.T) {
		count, err := PageCount(buildMinimalPDF(t, 3))
		if err != nil {
			t.Fatalf("PageCount() error = %v", err)
		}
		if count != 3 {
			t.Errorf("count = %d, want 3", count)
		}
	})

	t.Run("empty data", func(t *testing.T) {
		if _, err := PageCount(nil); err == nil {
			t.Error("expected error for empty data")
		}
	})

	t.Run("garbage data", func(t *testing.T) {
		if _, err := PageCount([]byte("definitely not a pdf")); err == nil {
			t.Error("expected error for non-PDF bytes")
		}
	})
}
