package typeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriterOutput(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewTSVWriter[SimpleMetric](&buf)
	require.NoError(t, err)

	require.NoError(t, writer.WriteHeader())
	require.NoError(t, writer.Write(SimpleMetric{Field1: 10, Field2: "test1", Field3: ptr(0.2)}))
	require.NoError(t, writer.Write(SimpleMetric{Field1: 20, Field2: "test2", Field3: nil}))
	require.NoError(t, writer.Close())

	want := "field1\tfield2\tfield3\n" +
		"10\ttest1\t0.2\n" +
		"20\ttest2\t\n"
	require.Equal(t, want, buf.String())
}

func TestWriterStateMachine(t *testing.T) {
	record := SimpleMetric{Field1: 1, Field2: "x", Field3: nil}

	t.Run("header written twice", func(t *testing.T) {
		writer, err := NewTSVWriter[SimpleMetric](&bytes.Buffer{})
		require.NoError(t, err)
		require.NoError(t, writer.WriteHeader())

		err = writer.WriteHeader()
		var stateErr *WriterStateError
		require.ErrorAs(t, err, &stateErr)
	})

	t.Run("header after a data row", func(t *testing.T) {
		writer, err := NewTSVWriter[SimpleMetric](&bytes.Buffer{})
		require.NoError(t, err)
		require.NoError(t, writer.Write(record))

		err = writer.WriteHeader()
		var stateErr *WriterStateError
		require.ErrorAs(t, err, &stateErr)
	})

	t.Run("header when disabled", func(t *testing.T) {
		writer, err := NewTSVWriter[SimpleMetric](&bytes.Buffer{}, WithoutHeader())
		require.NoError(t, err)

		err = writer.WriteHeader()
		var stateErr *WriterStateError
		require.ErrorAs(t, err, &stateErr)
	})

	t.Run("writes after close", func(t *testing.T) {
		writer, err := NewTSVWriter[SimpleMetric](&bytes.Buffer{})
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		var stateErr *WriterStateError
		require.ErrorAs(t, writer.Write(record), &stateErr)
		require.ErrorAs(t, writer.WriteHeader(), &stateErr)
	})
}

func TestWriterEncodeFailureWritesNothing(t *testing.T) {
	type record struct {
		Hue Color `typeline:"hue"`
	}

	var buf bytes.Buffer
	writer, err := NewTSVWriter[record](&buf, WithoutHeader())
	require.NoError(t, err)

	var encodeErr *FieldEncodeError
	require.ErrorAs(t, writer.Write(record{Hue: "MAGENTA"}), &encodeErr)

	require.NoError(t, writer.Write(record{Hue: "RED"}))
	require.NoError(t, writer.Close())
	require.Equal(t, "RED\n", buf.String())
}

func TestWriterFlush(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewTSVWriter[SimpleMetric](&buf, WithoutHeader())
	require.NoError(t, err)

	require.NoError(t, writer.Write(SimpleMetric{Field1: 1, Field2: "x", Field3: nil}))
	require.NoError(t, writer.Flush())
	require.Equal(t, "1\tx\t\n", buf.String())

	require.NoError(t, writer.Write(SimpleMetric{Field1: 2, Field2: "y", Field3: nil}))
	require.NoError(t, writer.Close())
	require.Equal(t, "1\tx\t\n2\ty\t\n", buf.String())
}

// writeCloser is a buffer that records Close calls.
type writeCloser struct {
	*bytes.Buffer
	closes int
}

func (w *writeCloser) Close() error {
	w.closes++
	return nil
}

func TestWriterCloseIdempotent(t *testing.T) {
	sink := &writeCloser{Buffer: &bytes.Buffer{}}
	writer, err := NewTSVWriter[SimpleMetric](sink)
	require.NoError(t, err)
	require.NoError(t, writer.WriteHeader())

	require.NoError(t, writer.Close())
	require.NoError(t, writer.Close())
	require.Equal(t, 1, sink.closes)
	require.Equal(t, "field1\tfield2\tfield3\n", sink.String())
}

func TestWriterCSVPreset(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewCSVWriter[SimpleMetric](&buf)
	require.NoError(t, err)

	require.NoError(t, writer.WriteHeader())
	require.NoError(t, writer.Write(SimpleMetric{Field1: 1, Field2: "a,b", Field3: ptr(0.5)}))
	require.NoError(t, writer.Close())

	require.Equal(t, "field1,field2,field3\n1,a\\,b,0.5\n", buf.String())
}

func TestWriterLineTerminator(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewTSVWriter[SimpleMetric](&buf, WithoutHeader(), WithLineTerminator("\r\n"))
	require.NoError(t, err)

	require.NoError(t, writer.Write(SimpleMetric{Field1: 1, Field2: "x", Field3: nil}))
	require.NoError(t, writer.Close())
	require.Equal(t, "1\tx\t\r\n", buf.String())
}
