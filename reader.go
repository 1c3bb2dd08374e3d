package typeline

import (
	"bufio"
	"io"
	"strings"
)

// ============================================================
// Stream Reader
// ============================================================

// maxLineSize bounds the longest accepted input line.
const maxLineSize = 1 << 20

// Reader streams decoded records of type T from delimited text lines.
//
// A Reader is a lazy, finite, single-pass stream: each Next call
// consumes one data row. It is not safe for concurrent use; share the
// RowCodec across goroutines instead, not the Reader.
type Reader[T any] struct {
	codec           *RowCodec[T]
	src             io.Reader
	scanner         *bufio.Scanner
	commentPrefixes []string
	continueOnError bool

	line   int   // 1-based physical line number of the last line consumed
	err    error // latched row or source error
	done   bool
	closed bool
}

// NewReader builds a streaming reader over r. Unless WithoutHeader is
// given, the first non-blank, non-comment line is consumed as the
// header row and validated against T's field names in order; a mismatch
// fails construction with HeaderMismatchError. Empty input is a valid
// stream of zero records.
func NewReader[T any](r io.Reader, opts ...Option) (*Reader[T], error) {
	cfg := apply(opts)
	codec, err := newRowCodec[T](cfg)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	reader := &Reader[T]{
		codec:           codec,
		src:             r,
		scanner:         scanner,
		commentPrefixes: cfg.commentPrefixes,
		continueOnError: cfg.continueOnError,
	}

	if cfg.header {
		if err := reader.readHeader(); err != nil {
			return nil, err
		}
	}
	return reader, nil
}

// NewTSVReader builds a reader for tab-separated rows with comma
// sub-delimiters (the default dialect).
func NewTSVReader[T any](r io.Reader, opts ...Option) (*Reader[T], error) {
	return NewReader[T](r, opts...)
}

// NewCSVReader builds a reader for comma-separated rows with semicolon
// sub-delimiters.
func NewCSVReader[T any](r io.Reader, opts ...Option) (*Reader[T], error) {
	preset := []Option{WithDelimiter(','), WithSubDelimiter(';')}
	return NewReader[T](r, append(preset, opts...)...)
}

// Header returns the expected column names in field order.
func (r *Reader[T]) Header() []string {
	return r.codec.Header()
}

// readHeader consumes and validates the header row.
func (r *Reader[T]) readHeader() error {
	line, ok, err := r.nextLine()
	if err != nil {
		return err
	}
	if !ok {
		// No header and no data: an empty stream, not a mismatch.
		r.done = true
		return nil
	}

	actual := splitEscaped(line, r.codec.d.delim)
	for i, cell := range actual {
		if raw, err := unescapeToken(cell); err == nil {
			actual[i] = raw
		}
	}
	expected := r.codec.header
	if !stringsEqual(expected, actual) {
		return &HeaderMismatchError{Expected: r.codec.Header(), Actual: actual}
	}
	return nil
}

// Next produces the next decoded record, or io.EOF when the stream is
// exhausted. A row that fails to decode is reported as a RowError
// carrying its 1-based line number; the error latches and every
// subsequent call returns it again, unless ContinueOnError was set.
func (r *Reader[T]) Next() (T, error) {
	var zero T
	if r.err != nil && !r.continueOnError {
		return zero, r.err
	}
	if r.done {
		return zero, io.EOF
	}

	line, ok, err := r.nextLine()
	if err != nil {
		r.err = err
		return zero, err
	}
	if !ok {
		r.done = true
		return zero, io.EOF
	}

	record, err := r.codec.DecodeLine(line)
	if err != nil {
		rowErr := &RowError{Line: r.line, Err: err}
		if !r.continueOnError {
			r.err = rowErr
		}
		return zero, rowErr
	}
	return record, nil
}

// ReadAll drains the stream into a slice. On a row error it returns the
// records decoded so far alongside the error.
func (r *Reader[T]) ReadAll() ([]T, error) {
	var records []T
	for {
		record, err := r.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

// Close releases the underlying source if it implements io.Closer. It
// is safe to call more than once.
func (r *Reader[T]) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.done = true
	if closer, ok := r.src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// nextLine returns the next non-blank, non-comment line. The second
// result is false at end of input.
func (r *Reader[T]) nextLine() (string, bool, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if r.isComment(trimmed) {
			continue
		}
		return line, true, nil
	}
	if err := r.scanner.Err(); err != nil {
		r.line++
		return "", false, err
	}
	return "", false, nil
}

// isComment reports whether a trimmed line starts with a comment prefix.
func (r *Reader[T]) isComment(trimmed string) bool {
	for _, prefix := range r.commentPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// stringsEqual reports element-wise equality, order included.
func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
