package typeline

import (
	"math"
	"reflect"
	"strconv"
)

// ============================================================
// Canonical Scalar Encoding
// ============================================================
//
// Scalars encode to a single text token and decode back with exact-match
// or checked-parse semantics. Text passes through verbatim at this
// layer; delimiter escaping is the composite and row layers' job.

// Float specials encode as fixed literal tokens. Decode accepts exactly
// these spellings and no others.
const (
	tokenInf    = "inf"
	tokenNegInf = "-inf"
	tokenNaN    = "nan"
)

// encodeScalar returns the canonical token for a scalar value.
func encodeScalar(s *Shape, v reflect.Value) (string, error) {
	switch s.Kind {
	case KindBool:
		return strconv.FormatBool(v.Bool()), nil

	case KindInt:
		return strconv.FormatInt(v.Int(), 10), nil

	case KindUint:
		return strconv.FormatUint(v.Uint(), 10), nil

	case KindFloat:
		return encodeFloat(v.Float(), s.Type.Bits()), nil

	case KindString:
		return v.String(), nil

	case KindEnum:
		member := v.String()
		if _, ok := s.memberSet[member]; !ok {
			return "", &InvalidEnumMemberError{Member: member, Allowed: s.Members}
		}
		return member, nil

	default:
		// Composite kinds never reach the scalar layer.
		return "", &UnsupportedTypeError{Type: s.Type}
	}
}

// encodeFloat returns the shortest round-trip decimal for a finite
// float, or a fixed literal for specials.
func encodeFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return tokenNaN
	case math.IsInf(f, 1):
		return tokenInf
	case math.IsInf(f, -1):
		return tokenNegInf
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// decodeScalar parses a token into a value of the shape's concrete type.
func decodeScalar(s *Shape, token string) (reflect.Value, error) {
	out := reflect.New(s.Type).Elem()

	switch s.Kind {
	case KindBool:
		switch token {
		case "true":
			out.SetBool(true)
		case "false":
			out.SetBool(false)
		default:
			return reflect.Value{}, &ScalarDecodeError{Token: token, Want: "bool"}
		}
		return out, nil

	case KindInt:
		n, err := strconv.ParseInt(token, 10, s.Type.Bits())
		if err != nil {
			return reflect.Value{}, &ScalarDecodeError{Token: token, Want: "int"}
		}
		out.SetInt(n)
		return out, nil

	case KindUint:
		n, err := strconv.ParseUint(token, 10, s.Type.Bits())
		if err != nil {
			return reflect.Value{}, &ScalarDecodeError{Token: token, Want: "uint"}
		}
		out.SetUint(n)
		return out, nil

	case KindFloat:
		f, err := decodeFloat(token, s.Type.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		out.SetFloat(f)
		return out, nil

	case KindString:
		out.SetString(token)
		return out, nil

	case KindEnum:
		if _, ok := s.memberSet[token]; !ok {
			return reflect.Value{}, &InvalidEnumMemberError{Member: token, Allowed: s.Members}
		}
		out.SetString(token)
		return out, nil

	default:
		return reflect.Value{}, &UnsupportedTypeError{Type: s.Type}
	}
}

// decodeFloat parses a float token, accepting only the canonical literal
// spellings for specials.
func decodeFloat(token string, bits int) (float64, error) {
	switch token {
	case tokenNaN:
		return math.NaN(), nil
	case tokenInf:
		return math.Inf(1), nil
	case tokenNegInf:
		return math.Inf(-1), nil
	}

	f, err := strconv.ParseFloat(token, bits)
	if err != nil {
		return 0, &ScalarDecodeError{Token: token, Want: "float"}
	}
	// ParseFloat accepts alternate special spellings ("Inf", "NaN", …)
	// that this format never emits.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &ScalarDecodeError{Token: token, Want: "float"}
	}
	return f, nil
}
