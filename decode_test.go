package gravl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDecoder(g *Graph) *decoder {
	return &decoder{
		schema: g.schema,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestParseScalarPrimitives(t *testing.T) {
	d := testDecoder(testGraph(&stubClient{}))
	ctx := context.Background()

	t.Run("null", func(t *testing.T) {
		v, err := d.parseScalar(ctx, cell(ValueTypeNull, "anything"))
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("string", func(t *testing.T) {
		v, err := d.parseScalar(ctx, cell(ValueTypeString, "hello"))
		require.NoError(t, err)
		assert.Equal(t, "hello", v)
	})

	t.Run("string from bytes", func(t *testing.T) {
		v, err := d.parseScalar(ctx, cell(ValueTypeString, []byte("hello")))
		require.NoError(t, err)
		assert.Equal(t, "hello", v)
	})

	t.Run("string coerces other payloads", func(t *testing.T) {
		v, err := d.parseScalar(ctx, cell(ValueTypeString, int64(7)))
		require.NoError(t, err)
		assert.Equal(t, "7", v)
	})

	t.Run("integer", func(t *testing.T) {
		v, err := d.parseScalar(ctx, cell(ValueTypeInteger, int64(42)))
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)
	})

	t.Run("integer from string", func(t *testing.T) {
		v, err := d.parseScalar(ctx, cell(ValueTypeInteger, "42"))
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)
	})

	t.Run("integer garbage fails", func(t *testing.T) {
		_, err := d.parseScalar(ctx, cell(ValueTypeInteger, "forty-two"))
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, ValueTypeInteger, decodeErr.Tag)
	})

	t.Run("double", func(t *testing.T) {
		v, err := d.parseScalar(ctx, cell(ValueTypeDouble, "3.14"))
		require.NoError(t, err)
		assert.Equal(t, 3.14, v)
	})
}

// The boolean wire format is the literal string "true" or "false"; any
// other payload decodes to false. That fallback is part of the contract,
// so it is asserted here explicitly.
func TestParseScalarBoolean(t *testing.T) {
	d := testDecoder(testGraph(&stubClient{}))
	ctx := context.Background()

	for _, tc := range []struct {
		payload  interface{}
		expected bool
	}{
		{"true", true},
		{"false", false},
		{"maybe", false},
		{[]byte("true"), true},
		{int64(1), false},
	} {
		v, err := d.parseScalar(ctx, cell(ValueTypeBoolean, tc.payload))
		require.NoError(t, err)
		assert.Equal(t, tc.expected, v, "payload %v", tc.payload)
	}
}

func TestParseScalarUnknownTagIsTolerated(t *testing.T) {
	d := testDecoder(testGraph(&stubClient{}))

	v, err := d.parseScalar(context.Background(), cell(ValueTypeUnknown, "whatever"))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParseScalarOutOfRangeTagFails(t *testing.T) {
	d := testDecoder(testGraph(&stubClient{}))

	_, err := d.parseScalar(context.Background(), cell(ValueType(99), "x"))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestParseScalarMalformedCellFails(t *testing.T) {
	d := testDecoder(testGraph(&stubClient{}))

	_, err := d.parseScalar(context.Background(), []interface{}{int64(3)})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)

	_, err = d.parseScalar(context.Background(), "not a cell")
	require.ErrorAs(t, err, &decodeErr)
}

func TestParseScalarArray(t *testing.T) {
	d := testDecoder(testGraph(&stubClient{}))

	v, err := d.parseScalar(context.Background(), cell(ValueTypeArray, []interface{}{
		cell(ValueTypeInteger, int64(1)),
		cell(ValueTypeString, "two"),
		cell(ValueTypeNull, nil),
	}))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), "two", nil}, v)
}

func TestParseScalarVector(t *testing.T) {
	d := testDecoder(testGraph(&stubClient{}))

	v, err := d.parseScalar(context.Background(), cell(ValueTypeVectorF32, []interface{}{
		"1.5", float64(2.25), int64(3),
	}))
	require.NoError(t, err)
	assert.Equal(t, []float32{1.5, 2.25, 3}, v)
}

func TestParseScalarMapPreservesOrder(t *testing.T) {
	d := testDecoder(testGraph(&stubClient{}))

	v, err := d.parseScalar(context.Background(), cell(ValueTypeMap, []interface{}{
		"b", cell(ValueTypeInteger, int64(2)),
		"a", cell(ValueTypeInteger, int64(1)),
	}))
	require.NoError(t, err)

	m, ok := v.(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, m.Keys())

	a, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), a)
}

func TestParseScalarMapDuplicateKeyLastWins(t *testing.T) {
	d := testDecoder(testGraph(&stubClient{}))

	v, err := d.parseScalar(context.Background(), cell(ValueTypeMap, []interface{}{
		"k", cell(ValueTypeInteger, int64(1)),
		"k", cell(ValueTypeInteger, int64(2)),
	}))
	require.NoError(t, err)

	m := v.(*Map)
	assert.Equal(t, 1, m.Len())
	got, _ := m.Get("k")
	assert.Equal(t, int64(2), got)
}

func TestParseScalarMapOddLengthFails(t *testing.T) {
	d := testDecoder(testGraph(&stubClient{}))

	_, err := d.parseScalar(context.Background(), cell(ValueTypeMap, []interface{}{"a"}))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, ValueTypeMap, decodeErr.Tag)
}

func TestParseScalarPoint(t *testing.T) {
	d := testDecoder(testGraph(&stubClient{}))

	v, err := d.parseScalar(context.Background(), cell(ValueTypePoint, []interface{}{"32.07", "34.78"}))
	require.NoError(t, err)

	p, ok := v.(*Point)
	require.True(t, ok)
	assert.Equal(t, 32.07, p.Latitude)
	assert.Equal(t, 34.78, p.Longitude)
}

func TestParseScalarNode(t *testing.T) {
	g := testGraph(&stubClient{})
	g.schema.labels = []string{"Person"}
	g.schema.properties = []string{"name", "age"}
	d := testDecoder(g)

	payload := []interface{}{
		int64(7),
		[]interface{}{int64(0)},
		[]interface{}{
			[]interface{}{int64(0), int64(ValueTypeString), "Alice"},
			[]interface{}{int64(1), int64(ValueTypeInteger), int64(30)},
		},
	}

	v, err := d.parseScalar(context.Background(), cell(ValueTypeNode, payload))
	require.NoError(t, err)

	node, ok := v.(*Node)
	require.True(t, ok)

	id, hasID := node.ID()
	assert.True(t, hasID)
	assert.Equal(t, int64(7), id)
	assert.Empty(t, node.Alias)
	assert.Equal(t, []string{"Person"}, node.Labels)
	assert.Equal(t, map[string]interface{}{"name": "Alice", "age": int64(30)}, node.Properties)
}

func TestParseScalarEdge(t *testing.T) {
	g := testGraph(&stubClient{})
	g.schema.relationships = []string{"KNOWS"}
	g.schema.properties = []string{"since"}
	d := testDecoder(g)

	payload := []interface{}{
		int64(3),
		int64(0),
		int64(7),
		int64(8),
		[]interface{}{
			[]interface{}{int64(0), int64(ValueTypeInteger), int64(2020)},
		},
	}

	v, err := d.parseScalar(context.Background(), cell(ValueTypeEdge, payload))
	require.NoError(t, err)

	edge, ok := v.(*Edge)
	require.True(t, ok)

	id, hasID := edge.ID()
	assert.True(t, hasID)
	assert.Equal(t, int64(3), id)
	assert.Equal(t, "KNOWS", edge.Relation)

	// Server-decoded endpoints are raw ids, not resolved nodes
	_, resolved := edge.Source.Node()
	assert.False(t, resolved)
	srcID, ok := edge.Source.ID()
	require.True(t, ok)
	assert.Equal(t, int64(7), srcID)
	destID, _ := edge.Destination.ID()
	assert.Equal(t, int64(8), destID)

	assert.Equal(t, map[string]interface{}{"since": int64(2020)}, edge.Properties)
}

func TestParseScalarPath(t *testing.T) {
	g := testGraph(&stubClient{})
	g.schema.labels = []string{"City"}
	g.schema.relationships = []string{"ROAD"}
	d := testDecoder(g)

	nodePayload := func(id int64) []interface{} {
		return []interface{}{id, []interface{}{int64(0)}, []interface{}{}}
	}
	edgePayload := []interface{}{int64(0), int64(0), int64(1), int64(2), []interface{}{}}

	payload := []interface{}{
		cell(ValueTypeArray, []interface{}{
			cell(ValueTypeNode, nodePayload(1)),
			cell(ValueTypeNode, nodePayload(2)),
		}),
		cell(ValueTypeArray, []interface{}{
			cell(ValueTypeEdge, edgePayload),
		}),
	}

	v, err := d.parseScalar(context.Background(), cell(ValueTypePath, payload))
	require.NoError(t, err)

	path, ok := v.(*Path)
	require.True(t, ok)
	assert.Equal(t, 2, path.NodeCount())
	assert.Equal(t, 1, path.EdgeCount())
	assert.Equal(t, path.NodeCount(), path.EdgeCount()+1)
	assert.Equal(t, "<(1)-[0]->(2)>", path.String())
}

func TestParseScalarTemporal(t *testing.T) {
	d := testDecoder(testGraph(&stubClient{}))
	ctx := context.Background()

	t.Run("datetime", func(t *testing.T) {
		v, err := d.parseScalar(ctx, cell(ValueTypeDateTime, "2024-06-01T12:30:00Z"))
		require.NoError(t, err)
		dt := v.(*DateTime)
		assert.Equal(t, 2024, dt.Year())
		assert.Equal(t, 30, dt.Minute())
	})

	t.Run("date", func(t *testing.T) {
		v, err := d.parseScalar(ctx, cell(ValueTypeDate, "2024-06-01"))
		require.NoError(t, err)
		assert.Equal(t, "2024-06-01", v.(*Date).String())
	})

	t.Run("time", func(t *testing.T) {
		v, err := d.parseScalar(ctx, cell(ValueTypeTime, "12:30:45"))
		require.NoError(t, err)
		assert.Equal(t, "12:30:45", v.(*Time).String())
	})

	t.Run("duration", func(t *testing.T) {
		v, err := d.parseScalar(ctx, cell(ValueTypeDuration, "P1Y2M3DT4H5M6S"))
		require.NoError(t, err)
		dur := v.(*Duration)
		assert.Equal(t, 1, dur.Years)
		assert.Equal(t, 2, dur.Months)
		assert.Equal(t, 3, dur.Days)
		assert.Equal(t, 4, dur.Hours)
		assert.Equal(t, 5, dur.Minutes)
		assert.Equal(t, 6, dur.Seconds)
	})

	t.Run("bad datetime fails", func(t *testing.T) {
		_, err := d.parseScalar(ctx, cell(ValueTypeDateTime, "not a date"))
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
	})
}

func TestParseEntityPropertiesMalformedTriple(t *testing.T) {
	g := testGraph(&stubClient{})
	g.schema.properties = []string{"name"}
	d := testDecoder(g)

	_, err := d.parseEntityProperties(context.Background(), []interface{}{
		[]interface{}{int64(0), int64(ValueTypeString)},
	})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}
