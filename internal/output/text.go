package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextWriter writes reports in their human-readable form. Values that
// implement fmt.Stringer use String(); anything else is printed with %v.
type TextWriter struct {
	w *bufio.Writer
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w)}
}

// Write writes one report followed by a newline.
func (w *TextWriter) Write(data any) error {
	var s string
	if v, ok := data.(fmt.Stringer); ok {
		s = v.String()
	} else {
		s = fmt.Sprintf("%v", data)
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	if _, err := w.w.WriteString(s); err != nil {
		return err
	}
	return w.w.Flush()
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}
