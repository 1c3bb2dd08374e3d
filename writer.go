package typeline

import (
	"bufio"
	"io"
	"strings"
)

// ============================================================
// Stream Writer
// ============================================================

// Writer streams records of type T to a sink as delimited text rows.
//
// The header, when enabled, must be written exactly once and before any
// data row. Writes are buffered; everything written before Close is
// visible to readers of the sink once Close returns. A Writer is not
// safe for concurrent use.
type Writer[T any] struct {
	codec *RowCodec[T]
	sink  io.Writer
	buf   *bufio.Writer
	term  string

	headerEnabled bool
	headerWritten bool
	rowsWritten   int
	closed        bool
}

// NewWriter builds a streaming writer over w.
func NewWriter[T any](w io.Writer, opts ...Option) (*Writer[T], error) {
	cfg := apply(opts)
	codec, err := newRowCodec[T](cfg)
	if err != nil {
		return nil, err
	}
	return &Writer[T]{
		codec:         codec,
		sink:          w,
		buf:           bufio.NewWriter(w),
		term:          cfg.lineTerminator,
		headerEnabled: cfg.header,
	}, nil
}

// NewTSVWriter builds a writer emitting tab-separated rows with comma
// sub-delimiters (the default dialect).
func NewTSVWriter[T any](w io.Writer, opts ...Option) (*Writer[T], error) {
	return NewWriter[T](w, opts...)
}

// NewCSVWriter builds a writer emitting comma-separated rows with
// semicolon sub-delimiters.
func NewCSVWriter[T any](w io.Writer, opts ...Option) (*Writer[T], error) {
	preset := []Option{WithDelimiter(','), WithSubDelimiter(';')}
	return NewWriter[T](w, append(preset, opts...)...)
}

// Header returns the column names in field order.
func (w *Writer[T]) Header() []string {
	return w.codec.Header()
}

// WriteHeader emits the header row. Calling it twice, after a data row,
// after Close, or on a WithoutHeader writer is a state error.
func (w *Writer[T]) WriteHeader() error {
	switch {
	case w.closed:
		return &WriterStateError{Message: "write header after close"}
	case !w.headerEnabled:
		return &WriterStateError{Message: "header is disabled for this writer"}
	case w.headerWritten:
		return &WriterStateError{Message: "header already written"}
	case w.rowsWritten > 0:
		return &WriterStateError{Message: "header must precede data rows"}
	}

	cells := make([]string, len(w.codec.header))
	for i, name := range w.codec.header {
		cells[i] = escapeCell(name, w.codec.d)
	}
	if _, err := w.buf.WriteString(strings.Join(cells, string(w.codec.d.delim))); err != nil {
		return err
	}
	if _, err := w.buf.WriteString(w.term); err != nil {
		return err
	}
	w.headerWritten = true
	return nil
}

// Write encodes one record and appends it as a row.
func (w *Writer[T]) Write(record T) error {
	if w.closed {
		return &WriterStateError{Message: "write after close"}
	}

	line, err := w.codec.EncodeLine(record)
	if err != nil {
		return err
	}
	if _, err := w.buf.WriteString(line); err != nil {
		return err
	}
	if _, err := w.buf.WriteString(w.term); err != nil {
		return err
	}
	w.rowsWritten++
	return nil
}

// Flush pushes buffered rows to the sink.
func (w *Writer[T]) Flush() error {
	return w.buf.Flush()
}

// Close flushes buffered rows and releases the sink if it implements
// io.Closer. It is safe to call more than once.
func (w *Writer[T]) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if closer, ok := w.sink.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
