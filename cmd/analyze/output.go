package main

import (
	"bytes"
	"encoding/json"
	"io"
)

// encodeLine writes v as a single JSON line using ", " and ": " between tokens,
// the layout downstream consumers of this tool already parse byte for byte.
// HTML characters and non-ASCII text are written unescaped.
func encodeLine(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}

	out := make([]byte, 0, buf.Len()+buf.Len()/8)
	inString, escaped := false, false
	for _, c := range buf.Bytes() {
		out = append(out, c)
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == ',' || c == ':':
			out = append(out, ' ')
		}
	}
	_, err := w.Write(out)
	return err
}
