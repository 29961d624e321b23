package extract

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCount returns the number of pages in the given PDF bytes. It doubles
// as an upload sanity check: non-PDF bytes fail here before an API call is
// spent on them.
func PageCount(pdfData []byte) (int, error) {
	if len(pdfData) == 0 {
		return 0, fmt.Errorf("empty PDF data")
	}
	count, err := api.PageCount(bytes.NewReader(pdfData), nil)
	if err != nil {
		return 0, fmt.Errorf("not a readable PDF: %w", err)
	}
	return count, nil
}
