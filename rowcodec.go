package typeline

import (
	"reflect"
	"strings"
)

// ============================================================
// Row Codec
// ============================================================
//
// A RowCodec is built once per record type. Construction classifies
// every field into a Shape and fixes the column order; after that the
// codec holds no mutable state and may be shared freely, including
// across concurrent readers and writers of independent streams.

// RowCodec encodes records of type T into ordered text cells and
// decodes ordered text cells back into records.
type RowCodec[T any] struct {
	d      dialect
	fields []FieldDesc
	header []string
}

// NewRowCodec builds a codec for T, which must be a struct type with at
// least one exported field. Unsupported or cyclic field types are
// rejected here, never at encode/decode time.
func NewRowCodec[T any](opts ...Option) (*RowCodec[T], error) {
	return newRowCodec[T](apply(opts))
}

func newRowCodec[T any](cfg config) (*RowCodec[T], error) {
	d, err := cfg.dialect()
	if err != nil {
		return nil, err
	}

	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, &UnsupportedTypeError{Type: t}
	}
	shape, err := classifyStruct(t, "", nil)
	if err != nil {
		return nil, err
	}

	header := make([]string, len(shape.Fields))
	for i, fd := range shape.Fields {
		header[i] = fd.Name
	}

	return &RowCodec[T]{d: d, fields: shape.Fields, header: header}, nil
}

// Header returns the column names in field order.
func (c *RowCodec[T]) Header() []string {
	out := make([]string, len(c.header))
	copy(out, c.header)
	return out
}

// Delimiter returns the row delimiter.
func (c *RowCodec[T]) Delimiter() rune {
	return c.d.delim
}

// SubDelimiter returns the composite sub-delimiter.
func (c *RowCodec[T]) SubDelimiter() rune {
	return c.d.sub
}

// Encode encodes a record into one text cell per field, in field order.
func (c *RowCodec[T]) Encode(record T) ([]string, error) {
	v := reflect.ValueOf(record)
	cells := make([]string, len(c.fields))
	for i, fd := range c.fields {
		text, err := encodeValue(fd.Shape, v.Field(fd.Index), c.d)
		if err != nil {
			return nil, &FieldEncodeError{Field: fd.Name, Err: err}
		}
		cells[i] = escapeCell(text, c.d)
	}
	return cells, nil
}

// Decode decodes one text cell per field back into a record. The cell
// count must match the field count exactly; rows are never truncated or
// padded.
func (c *RowCodec[T]) Decode(cells []string) (T, error) {
	var zero T
	if len(cells) != len(c.fields) {
		return zero, &RowArityError{Expected: len(c.fields), Actual: len(cells)}
	}

	out := reflect.New(reflect.TypeOf(zero)).Elem()
	for i, fd := range c.fields {
		val, err := decodeCell(fd.Shape, cells[i], c.d)
		if err != nil {
			return zero, &FieldDecodeError{
				Field:  fd.Name,
				Column: i,
				Raw:    cells[i],
				Err:    err,
			}
		}
		out.Field(fd.Index).Set(val)
	}
	return out.Interface().(T), nil
}

// EncodeLine encodes a record and joins its cells with the row
// delimiter, without a line terminator.
func (c *RowCodec[T]) EncodeLine(record T) (string, error) {
	cells, err := c.Encode(record)
	if err != nil {
		return "", err
	}
	return strings.Join(cells, string(c.d.delim)), nil
}

// DecodeLine splits a line into cells with the escape-aware scanner and
// decodes them. Row delimiters escaped inside cells do not split.
func (c *RowCodec[T]) DecodeLine(line string) (T, error) {
	return c.Decode(splitEscaped(line, c.d.delim))
}

// decodeCell removes the row-level escaping, then decodes per shape.
func decodeCell(s *Shape, cell string, d dialect) (reflect.Value, error) {
	raw, err := unescapeToken(cell)
	if err != nil {
		return reflect.Value{}, err
	}
	return decodeValue(s, raw, d)
}
