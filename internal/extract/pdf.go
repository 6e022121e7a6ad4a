package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF walks the pages in order and concatenates their text layers with no
// separator. Only embedded text is read; image-only pages yield nothing.
func (e *Extractor) extractPDF(ctx context.Context, path string) (res TextExtractionResult, err error) {
	res.Method = "pdf-text"
	// the parser panics on some malformed inputs
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("read pdf: %v", p)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return res, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("extract.pdf.close_error", "path", path, "error", cerr)
		}
	}()

	numPages := r.NumPage()
	var b strings.Builder

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			e.logger.Debug("extract.pdf.null_page", "page", i)
			continue
		}

		// font names are page-scoped resources, so each page resolves its own
		text, pageErr := p.GetPlainText(nil)
		if pageErr != nil {
			return res, fmt.Errorf("read pdf page %d: %w", i, pageErr)
		}
		e.logger.Debug("extract.pdf.page", "page", i, "chars", len([]rune(text)))
		b.WriteString(text)
	}

	res.Text = b.String()
	res.Pages = numPages
	return res, nil
}
