package typeline

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeScalarValue(t *testing.T, v any) string {
	t.Helper()
	shape := classifyType(t, reflect.TypeOf(v))
	token, err := encodeScalar(shape, reflect.ValueOf(v))
	require.NoError(t, err)
	return token
}

func decodeScalarToken(t *testing.T, sample any, token string) (reflect.Value, error) {
	t.Helper()
	shape := classifyType(t, reflect.TypeOf(sample))
	return decodeScalar(shape, token)
}

func TestScalarBool(t *testing.T) {
	assert.Equal(t, "true", encodeScalarValue(t, true))
	assert.Equal(t, "false", encodeScalarValue(t, false))

	v, err := decodeScalarToken(t, false, "true")
	require.NoError(t, err)
	require.True(t, v.Bool())

	// Exact match only: alternate spellings are rejected.
	for _, token := range []string{"True", "FALSE", "1", "t", ""} {
		_, err := decodeScalarToken(t, false, token)
		var scalarErr *ScalarDecodeError
		require.ErrorAs(t, err, &scalarErr, "token %q", token)
		assert.Equal(t, token, scalarErr.Token)
	}
}

func TestScalarInt(t *testing.T) {
	assert.Equal(t, "-42", encodeScalarValue(t, int64(-42)))
	assert.Equal(t, "255", encodeScalarValue(t, uint8(255)))

	v, err := decodeScalarToken(t, int64(0), "9223372036854775807")
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), v.Int())

	t.Run("overflow is checked per bit size", func(t *testing.T) {
		_, err := decodeScalarToken(t, int8(0), "128")
		var scalarErr *ScalarDecodeError
		require.ErrorAs(t, err, &scalarErr)

		v, err := decodeScalarToken(t, int8(0), "127")
		require.NoError(t, err)
		require.Equal(t, int64(127), v.Int())
	})

	t.Run("format is strict decimal", func(t *testing.T) {
		for _, token := range []string{"1_000", "0x10", "10.0", "", "ten"} {
			_, err := decodeScalarToken(t, int64(0), token)
			var scalarErr *ScalarDecodeError
			require.ErrorAs(t, err, &scalarErr, "token %q", token)
		}
	})

	t.Run("unsigned rejects negatives", func(t *testing.T) {
		_, err := decodeScalarToken(t, uint32(0), "-1")
		var scalarErr *ScalarDecodeError
		require.ErrorAs(t, err, &scalarErr)
	})
}

func TestScalarFloat(t *testing.T) {
	t.Run("round trip is bit exact", func(t *testing.T) {
		for _, f := range []float64{0, 0.2, -1.5, math.MaxFloat64, math.SmallestNonzeroFloat64, 1e300} {
			token := encodeScalarValue(t, f)
			v, err := decodeScalarToken(t, float64(0), token)
			require.NoError(t, err)
			require.Equal(t, f, v.Float(), "token %q", token)
		}
	})

	t.Run("float32 uses its own precision", func(t *testing.T) {
		token := encodeScalarValue(t, float32(0.1))
		require.Equal(t, "0.1", token)
		v, err := decodeScalarToken(t, float32(0), token)
		require.NoError(t, err)
		require.Equal(t, float32(0.1), float32(v.Float()))
	})

	t.Run("specials use fixed literals", func(t *testing.T) {
		assert.Equal(t, "inf", encodeScalarValue(t, math.Inf(1)))
		assert.Equal(t, "-inf", encodeScalarValue(t, math.Inf(-1)))
		assert.Equal(t, "nan", encodeScalarValue(t, math.NaN()))

		v, err := decodeScalarToken(t, float64(0), "inf")
		require.NoError(t, err)
		require.True(t, math.IsInf(v.Float(), 1))

		v, err = decodeScalarToken(t, float64(0), "-inf")
		require.NoError(t, err)
		require.True(t, math.IsInf(v.Float(), -1))

		v, err = decodeScalarToken(t, float64(0), "nan")
		require.NoError(t, err)
		require.True(t, math.IsNaN(v.Float()))
	})

	t.Run("alternate special spellings are rejected", func(t *testing.T) {
		for _, token := range []string{"Inf", "+inf", "-Inf", "NaN", "infinity", "1e999"} {
			_, err := decodeScalarToken(t, float64(0), token)
			var scalarErr *ScalarDecodeError
			require.ErrorAs(t, err, &scalarErr, "token %q", token)
		}
	})

	t.Run("non-numeric tokens are rejected", func(t *testing.T) {
		_, err := decodeScalarToken(t, float64(0), "BOMB")
		var scalarErr *ScalarDecodeError
		require.ErrorAs(t, err, &scalarErr)
		assert.Equal(t, "BOMB", scalarErr.Token)
		assert.Equal(t, "float", scalarErr.Want)
	})
}

func TestScalarString(t *testing.T) {
	// Text passes through verbatim at this layer; escaping belongs to
	// the composite and row layers.
	for _, s := range []string{"", "plain", "with\ttab", "with,comma", `back\slash`} {
		token := encodeScalarValue(t, s)
		require.Equal(t, s, token)

		v, err := decodeScalarToken(t, "", token)
		require.NoError(t, err)
		require.Equal(t, s, v.String())
	}
}

func TestScalarEnum(t *testing.T) {
	token := encodeScalarValue(t, Color("GREEN"))
	require.Equal(t, "GREEN", token)

	v, err := decodeScalarToken(t, Color(""), "BLUE")
	require.NoError(t, err)
	require.Equal(t, "BLUE", v.String())

	t.Run("unknown member on decode", func(t *testing.T) {
		_, err := decodeScalarToken(t, Color(""), "PURPLE")
		var enumErr *InvalidEnumMemberError
		require.ErrorAs(t, err, &enumErr)
		assert.Equal(t, "PURPLE", enumErr.Member)
		assert.Equal(t, []string{"BLUE", "GREEN", "RED"}, enumErr.Allowed)
	})

	t.Run("lookup is case-sensitive", func(t *testing.T) {
		_, err := decodeScalarToken(t, Color(""), "green")
		var enumErr *InvalidEnumMemberError
		require.ErrorAs(t, err, &enumErr)
	})

	t.Run("unknown member on encode", func(t *testing.T) {
		shape := classifyType(t, reflect.TypeOf(Color("")))
		_, err := encodeScalar(shape, reflect.ValueOf(Color("MAGENTA")))
		var enumErr *InvalidEnumMemberError
		require.ErrorAs(t, err, &enumErr)
	})
}
