package extract

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// extractText returns the file contents verbatim. The bytes must be valid UTF-8;
// there is no recovery for other encodings.
func (e *Extractor) extractText(path string) (TextExtractionResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return TextExtractionResult{Method: "plain-text"}, err
	}
	if !utf8.Valid(b) {
		return TextExtractionResult{Method: "plain-text"}, fmt.Errorf("decode %s: content is not valid UTF-8", path)
	}
	return TextExtractionResult{Text: string(b), Method: "plain-text"}, nil
}
