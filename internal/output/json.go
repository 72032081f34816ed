package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter buffers reports and writes them as one JSON document.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
	items  []any
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
	}
}

// Write buffers a single item.
func (w *JSONWriter) Write(data any) error {
	w.items = append(w.items, data)
	return nil
}

// Flush writes the buffered items. A single item is written as an object,
// several as an array.
func (w *JSONWriter) Flush() error {
	if len(w.items) == 0 {
		return w.w.Flush()
	}

	var v any = w.items
	if len(w.items) == 1 {
		v = w.items[0]
	}

	var output []byte
	var err error
	if w.pretty {
		output, err = json.MarshalIndent(v, "", w.indent)
	} else {
		output, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	w.items = nil

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes newline-delimited JSON. Each Write is flushed
// immediately, which suits the per-run reports of watch mode.
type JSONLWriter struct {
	w *bufio.Writer
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes a single item as a JSON line.
func (w *JSONLWriter) Write(data any) error {
	output, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
