package typeline

import (
	"reflect"
	"sort"
	"strings"
)

// ============================================================
// Shape Classification
// ============================================================
//
// A Shape is the closed classification of a field's declared type. It is
// derived once, when a codec is built, by walking the record type with
// reflection. Encoding and decoding dispatch on the Shape kind
// exhaustively; no per-row type inspection ever happens.

// Enum declares the member names of an enumeration type. A named string
// type implements it (with a value receiver) to be classified as an
// enumeration rather than free text:
//
//	type Color string
//
//	func (Color) EnumMembers() []string {
//		return []string{"RED", "GREEN", "BLUE"}
//	}
type Enum interface {
	EnumMembers() []string
}

var enumInterface = reflect.TypeOf((*Enum)(nil)).Elem()

// ShapeKind indicates the kind of a classified shape.
type ShapeKind uint8

const (
	KindBool ShapeKind = iota
	KindInt
	KindUint
	KindFloat
	KindString
	KindEnum
	KindOptional // *T
	KindSequence // []T
	KindSet      // map[T]struct{} or map[T]bool
	KindStruct   // nested record
)

// String returns the kind name.
func (k ShapeKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindOptional:
		return "optional"
	case KindSequence:
		return "sequence"
	case KindSet:
		return "set"
	case KindStruct:
		return "record"
	default:
		return "unknown"
	}
}

// Shape is a classified field type.
type Shape struct {
	Kind    ShapeKind
	Type    reflect.Type // The concrete Go type this shape was derived from
	Elem    *Shape       // For Optional, Sequence, Set
	Fields  []FieldDesc  // For Struct
	Members []string     // For Enum, sorted

	memberSet map[string]struct{} // For Enum
}

// String returns the shape as a string, e.g. "optional<sequence<int>>".
func (s *Shape) String() string {
	switch s.Kind {
	case KindOptional:
		return "optional<" + s.Elem.String() + ">"
	case KindSequence:
		return "sequence<" + s.Elem.String() + ">"
	case KindSet:
		return "set<" + s.Elem.String() + ">"
	case KindStruct:
		return "record " + s.Type.String()
	case KindEnum:
		return "enum " + s.Type.String()
	default:
		return s.Kind.String()
	}
}

// FieldDesc describes one encodable field of a record: its column name,
// its struct field index, and its classified shape. The position of a
// FieldDesc in its record's field list fixes its column position.
type FieldDesc struct {
	Name  string
	Index int
	Shape *Shape
}

// ============================================================
// Classifier
// ============================================================

// classify resolves a declared type into a Shape, recursively. The field
// argument names the field being classified for error reporting; seen
// carries the record types currently being resolved for cycle rejection.
func classify(t reflect.Type, field string, seen []reflect.Type) (*Shape, error) {
	if t.Implements(enumInterface) {
		return classifyEnum(t, field)
	}

	switch t.Kind() {
	case reflect.Bool:
		return &Shape{Kind: KindBool, Type: t}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Shape{Kind: KindInt, Type: t}, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Shape{Kind: KindUint, Type: t}, nil

	case reflect.Float32, reflect.Float64:
		return &Shape{Kind: KindFloat, Type: t}, nil

	case reflect.String:
		return &Shape{Kind: KindString, Type: t}, nil

	case reflect.Pointer:
		inner, err := classify(t.Elem(), field, seen)
		if err != nil {
			return nil, err
		}
		return &Shape{Kind: KindOptional, Type: t, Elem: inner}, nil

	case reflect.Slice:
		inner, err := classify(t.Elem(), field, seen)
		if err != nil {
			return nil, err
		}
		return &Shape{Kind: KindSequence, Type: t, Elem: inner}, nil

	case reflect.Map:
		// Only set-like maps are supported; general maps are rejected.
		vk := t.Elem()
		if vk.Kind() != reflect.Bool && !isEmptyStruct(vk) {
			return nil, &UnsupportedTypeError{Field: field, Type: t}
		}
		inner, err := classify(t.Key(), field, seen)
		if err != nil {
			return nil, err
		}
		return &Shape{Kind: KindSet, Type: t, Elem: inner}, nil

	case reflect.Struct:
		return classifyStruct(t, field, seen)

	default:
		return nil, &UnsupportedTypeError{Field: field, Type: t}
	}
}

// classifyEnum builds an enumeration shape from a type implementing Enum.
func classifyEnum(t reflect.Type, field string) (*Shape, error) {
	// Enumerations must be string-kinded so the member name is the value.
	if t.Kind() != reflect.String {
		return nil, &UnsupportedTypeError{Field: field, Type: t}
	}

	members := reflect.Zero(t).Interface().(Enum).EnumMembers()
	if len(members) == 0 {
		return nil, &UnsupportedTypeError{Field: field, Type: t}
	}

	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)

	set := make(map[string]struct{}, len(sorted))
	for _, m := range sorted {
		set[m] = struct{}{}
	}

	return &Shape{Kind: KindEnum, Type: t, Members: sorted, memberSet: set}, nil
}

// classifyStruct builds a record shape from a struct type, rejecting
// self-referential schemas and structs with no encodable fields.
func classifyStruct(t reflect.Type, field string, seen []reflect.Type) (*Shape, error) {
	for _, s := range seen {
		if s == t {
			return nil, &SchemaCycleError{Field: field, Type: t}
		}
	}
	seen = append(seen, t)

	fields := make([]FieldDesc, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}

		name := sf.Name
		if tag, ok := sf.Tag.Lookup("typeline"); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}

		qualified := name
		if field != "" {
			qualified = field + "." + name
		}
		shape, err := classify(sf.Type, qualified, seen)
		if err != nil {
			return nil, err
		}
		fields = append(fields, FieldDesc{Name: name, Index: i, Shape: shape})
	}

	if len(fields) == 0 {
		return nil, &UnsupportedTypeError{Field: field, Type: t}
	}

	return &Shape{Kind: KindStruct, Type: t, Fields: fields}, nil
}

// isEmptyStruct reports whether t is struct{}.
func isEmptyStruct(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t.NumField() == 0
}
