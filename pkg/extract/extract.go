// Package extract turns uploaded documents into plain text. Dispatch
// is purely on file-name extension; a parse failure or an unsupported
// extension becomes a value in the Result, never a fault that escapes
// the package. Extraction degrades the conversation context, it never
// aborts the turn.
package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Format enumerates the supported document formats.
type Format int

const (
	FormatUnknown Format = iota
	FormatDocx
	FormatPptx
	FormatXlsx
	FormatSQL
)

// FormatFor maps a file name to its format by extension,
// case-insensitively. Unrecognized extensions map to FormatUnknown.
func FormatFor(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		return FormatDocx
	case ".pptx":
		return FormatPptx
	case ".xlsx":
		return FormatXlsx
	case ".sql":
		return FormatSQL
	default:
		return FormatUnknown
	}
}

// ErrUnsupported marks an extension outside the closed format set.
var ErrUnsupported = errors.New("unsupported file type")

// Result holds either extracted text or the error that prevented
// extraction, never both.
type Result struct {
	Text string
	Err  error
}

// OK reports whether extraction succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Render produces the human-readable form of the result: the text on
// success, or the fixed display strings for failures. The display
// string is a rendering of the error, not its native representation.
func (r Result) Render() string {
	switch {
	case r.Err == nil:
		return r.Text
	case errors.Is(r.Err, ErrUnsupported):
		return "Unsupported file type for text extraction."
	default:
		return fmt.Sprintf("Error extracting text: %v", r.Err)
	}
}

// File extracts plain text from the named file's bytes. It never
// panics past this boundary; parser panics are converted to errors.
func File(name string, data []byte) (result Result) {
	defer func() {
		if p := recover(); p != nil {
			result = Result{Err: fmt.Errorf("parser panic: %v", p)}
		}
	}()

	switch FormatFor(name) {
	case FormatDocx:
		text, err := extractDocx(data)
		return Result{Text: text, Err: err}
	case FormatPptx:
		text, err := extractPptx(data)
		return Result{Text: text, Err: err}
	case FormatXlsx:
		text, err := extractXlsx(data)
		return Result{Text: text, Err: err}
	case FormatSQL:
		text, err := extractSQL(data)
		return Result{Text: text, Err: err}
	default:
		return Result{Err: ErrUnsupported}
	}
}
