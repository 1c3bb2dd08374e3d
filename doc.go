// Package typeline converts between statically-typed Go records and rows
// of delimited text, in both directions.
//
// typeline is designed to be:
//   - Type-directed (the encoding plan is derived once from a record type)
//   - Human-readable (plain delimited text, optional header row)
//   - Round-trippable (decode(encode(r)) == r for every supported shape)
//   - Streaming (one record in, one row out, and vice versa)
//   - Loud on failure (every error names the field, column, and raw text)
//
// # Supported Shapes
//
// Scalars:    bool, all int/uint kinds, float32/float64, string, enums
// Optionals:  *T (absent encodes as the empty cell)
// Sequences:  []T
// Sets:       map[T]struct{} or map[T]bool
// Records:    nested structs (flattened into a single cell)
//
// Anything else (other maps, interfaces, channels) is rejected when the
// codec is built, never silently approximated.
//
// # Wire Format
//
// One record per row, one cell per field, cells joined by the row
// delimiter (default tab). Composite values pack into a single cell using
// the sub-delimiter (default comma) with backslash escaping:
//
//	field1	field2	field3
//	10	test1	0.2
//	20	test2	1,2,3
//
// # Example
//
//	type Metric struct {
//		Name  string   `typeline:"name"`
//		Count int64    `typeline:"count"`
//		Tags  []string `typeline:"tags"`
//	}
//
//	w, _ := typeline.NewTSVWriter[Metric](&buf)
//	_ = w.WriteHeader()
//	_ = w.Write(Metric{Name: "requests", Count: 42, Tags: []string{"a", "b"}})
//	_ = w.Close()
//
// # Nulls
//
// A nil optional encodes as the empty cell, and the empty cell decodes
// back to nil. This makes a present-but-empty string in an optional
// string field indistinguishable from absence; typeline treats the empty
// cell as absence, always.
package typeline
