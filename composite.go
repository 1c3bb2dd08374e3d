package typeline

import (
	"reflect"
	"sort"
	"strings"
)

// ============================================================
// Escaping
// ============================================================
//
// Composite values pack multiple encoded elements into one cell, joined
// by the sub-delimiter. Before joining, each element is escaped with a
// backslash scheme so delimiter characters inside element text survive
// the round trip:
//
//   \         -> \\
//   delimiter -> \<delimiter>
//   newline   -> \n
//   CR        -> \r
//
// Decoding splits with an escape-aware scanner, then unescapes one level
// before recursing. Escapes stack across nesting depth: each embedding
// adds a level, each split removes one.

// escapeToken escapes an element for embedding inside a composite cell.
// Both delimiters are escaped since either may appear in element text.
func escapeToken(s string, d dialect) string {
	return escapeWith(s, func(r rune) bool {
		return r == d.delim || r == d.sub
	})
}

// escapeCell escapes an encoded cell for embedding in a text row. The
// sub-delimiter is left alone here: at the row level it is ordinary text.
func escapeCell(s string, d dialect) string {
	return escapeWith(s, func(r rune) bool {
		return r == d.delim
	})
}

func escapeWith(s string, isDelim func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case isDelim(r):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unescapeToken removes one level of escaping. A dangling backslash at
// the end of the token is a decode error.
func unescapeToken(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if escaped {
			switch r {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	if escaped {
		return "", &ScalarDecodeError{Token: s, Want: "escaped text"}
	}
	return b.String(), nil
}

// splitEscaped splits s on delim, treating backslash-prefixed runes as
// literal. Escape sequences are preserved for a later unescapeToken.
func splitEscaped(s string, delim rune) []string {
	parts := make([]string, 0, 8)
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		switch r {
		case '\\':
			b.WriteRune(r)
			escaped = true
		case delim:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	parts = append(parts, b.String())
	return parts
}

// ============================================================
// Composite Encoding
// ============================================================

// encodeValue encodes a value of any shape into unescaped cell text.
// Recursion depth is bounded by schema nesting depth, which is finite
// because cyclic schemas are rejected at construction.
func encodeValue(s *Shape, v reflect.Value, d dialect) (string, error) {
	switch s.Kind {
	case KindOptional:
		// Absence is the empty cell. A present value that itself encodes
		// to the empty token (empty string, empty collection) collapses
		// to absence on the round trip; see the package documentation.
		if v.IsNil() {
			return "", nil
		}
		return encodeValue(s.Elem, v.Elem(), d)

	case KindSequence:
		n := v.Len()
		if n == 0 {
			return "", nil
		}
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			text, err := encodeValue(s.Elem, v.Index(i), d)
			if err != nil {
				return "", err
			}
			parts[i] = escapeToken(text, d)
		}
		return strings.Join(parts, string(d.sub)), nil

	case KindSet:
		n := v.Len()
		if n == 0 {
			return "", nil
		}
		parts := make([]string, 0, n)
		iter := v.MapRange()
		for iter.Next() {
			text, err := encodeValue(s.Elem, iter.Key(), d)
			if err != nil {
				return "", err
			}
			parts = append(parts, escapeToken(text, d))
		}
		// Map iteration order is random; sort for deterministic output.
		sort.Strings(parts)
		return strings.Join(parts, string(d.sub)), nil

	case KindStruct:
		parts := make([]string, len(s.Fields))
		for i, fd := range s.Fields {
			text, err := encodeValue(fd.Shape, v.Field(fd.Index), d)
			if err != nil {
				return "", err
			}
			parts[i] = escapeToken(text, d)
		}
		return strings.Join(parts, string(d.sub)), nil

	default:
		return encodeScalar(s, v)
	}
}

// ============================================================
// Composite Decoding
// ============================================================

// decodeValue decodes unescaped cell text into a value of the shape's
// concrete type.
func decodeValue(s *Shape, text string, d dialect) (reflect.Value, error) {
	switch s.Kind {
	case KindOptional:
		if text == "" {
			return reflect.Zero(s.Type), nil
		}
		inner, err := decodeValue(s.Elem, text, d)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(s.Elem.Type)
		ptr.Elem().Set(inner)
		return ptr, nil

	case KindSequence:
		if text == "" {
			return reflect.MakeSlice(s.Type, 0, 0), nil
		}
		parts := splitEscaped(text, d.sub)
		out := reflect.MakeSlice(s.Type, len(parts), len(parts))
		for i, part := range parts {
			elem, err := decodeElem(s.Elem, part, d)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(elem)
		}
		return out, nil

	case KindSet:
		if text == "" {
			return reflect.MakeMap(s.Type), nil
		}
		parts := splitEscaped(text, d.sub)
		out := reflect.MakeMapWithSize(s.Type, len(parts))
		member := setMember(s.Type.Elem())
		for _, part := range parts {
			key, err := decodeElem(s.Elem, part, d)
			if err != nil {
				return reflect.Value{}, err
			}
			// Duplicate keys collapse silently: sets drop order and count.
			out.SetMapIndex(key, member)
		}
		return out, nil

	case KindStruct:
		parts := splitEscaped(text, d.sub)
		if len(parts) != len(s.Fields) {
			return reflect.Value{}, &RowArityError{Expected: len(s.Fields), Actual: len(parts)}
		}
		out := reflect.New(s.Type).Elem()
		for i, fd := range s.Fields {
			val, err := decodeElem(fd.Shape, parts[i], d)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Field(fd.Index).Set(val)
		}
		return out, nil

	default:
		return decodeScalar(s, text)
	}
}

// decodeElem unescapes one embedding level, then decodes.
func decodeElem(s *Shape, part string, d dialect) (reflect.Value, error) {
	raw, err := unescapeToken(part)
	if err != nil {
		return reflect.Value{}, err
	}
	return decodeValue(s, raw, d)
}

// setMember returns the value stored for every key of a set-like map.
func setMember(valType reflect.Type) reflect.Value {
	if valType.Kind() == reflect.Bool {
		return reflect.ValueOf(true).Convert(valType)
	}
	return reflect.Zero(valType)
}
