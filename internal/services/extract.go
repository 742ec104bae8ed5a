package services

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ExtractText pulls plain text out of an uploaded file. Plain text passes
// through; PDFs are scanned for an uncompressed selectable text layer.
// Anything else (or a PDF without a text layer) is an extraction error and
// the document is marked accordingly. OCR is out of scope.
func ExtractText(filename string, data []byte) (string, error) {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return extractPDFText(data)
	}

	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".pdf") {
		return "", fmt.Errorf("file %s is not a valid PDF", filename)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("file %s is not plain text", filename)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("file %s is empty", filename)
	}
	return text, nil
}

// extractPDFText collects string operands of Tj/TJ text-showing operators
// from uncompressed content streams. Compressed or image-only PDFs yield
// nothing and are rejected as having no selectable text.
func extractPDFText(data []byte) (string, error) {
	var out strings.Builder

	for i := 0; i < len(data); i++ {
		if data[i] != '(' {
			continue
		}
		// Read a balanced parenthesized string literal
		j := i + 1
		depth := 1
		var lit strings.Builder
		for ; j < len(data) && depth > 0; j++ {
			c := data[j]
			switch c {
			case '\\':
				if j+1 < len(data) {
					next := data[j+1]
					switch next {
					case 'n':
						lit.WriteByte('\n')
					case 't':
						lit.WriteByte('\t')
					case '(', ')', '\\':
						lit.WriteByte(next)
					}
					j++
				}
			case '(':
				depth++
				lit.WriteByte(c)
			case ')':
				depth--
				if depth > 0 {
					lit.WriteByte(c)
				}
			default:
				lit.WriteByte(c)
			}
		}
		if depth != 0 {
			break
		}
		// Only keep literals actually shown as text
		rest := data[j:]
		if isTextShowingOp(rest) {
			if out.Len() > 0 {
				out.WriteByte(' ')
			}
			out.WriteString(lit.String())
		}
		i = j - 1
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("PDF has no selectable text layer")
	}
	return text, nil
}

// isTextShowingOp reports whether the bytes after a string literal lead to
// a Tj/TJ/quote operator (possibly inside an array for TJ)
func isTextShowingOp(rest []byte) bool {
	k := 0
	for k < len(rest) && (rest[k] == ' ' || rest[k] == '\r' || rest[k] == '\n') {
		k++
	}
	if k >= len(rest) {
		return false
	}
	if bytes.HasPrefix(rest[k:], []byte("Tj")) || rest[k] == '\'' || rest[k] == '"' {
		return true
	}
	// Inside a TJ array the literal may be followed by kerning numbers or
	// the closing bracket
	if rest[k] == ']' || rest[k] == '-' || (rest[k] >= '0' && rest[k] <= '9') || rest[k] == '(' {
		end := bytes.IndexByte(rest, ']')
		if end == -1 {
			return false
		}
		return bytes.Contains(rest[end:min(end+8, len(rest))], []byte("TJ"))
	}
	return false
}
