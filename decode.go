package gravl

import (
	"context"
	"log/slog"

	"github.com/gravldb/gravl-go/internal/proto"
)

// ValueType identifies the kind of a compact result cell.
type ValueType = proto.ValueType

const (
	ValueTypeUnknown   = proto.ValueTypeUnknown
	ValueTypeNull      = proto.ValueTypeNull
	ValueTypeString    = proto.ValueTypeString
	ValueTypeInteger   = proto.ValueTypeInteger
	ValueTypeBoolean   = proto.ValueTypeBoolean
	ValueTypeDouble    = proto.ValueTypeDouble
	ValueTypeArray     = proto.ValueTypeArray
	ValueTypeEdge      = proto.ValueTypeEdge
	ValueTypeNode      = proto.ValueTypeNode
	ValueTypePath      = proto.ValueTypePath
	ValueTypeMap       = proto.ValueTypeMap
	ValueTypePoint     = proto.ValueTypePoint
	ValueTypeVectorF32 = proto.ValueTypeVectorF32
	ValueTypeDateTime  = proto.ValueTypeDateTime
	ValueTypeDate      = proto.ValueTypeDate
	ValueTypeTime      = proto.ValueTypeTime
	ValueTypeDuration  = proto.ValueTypeDuration
)

// decoder turns compact [tag, payload] cells into native values. Nodes,
// edges and paths reference schema entities by index, so decoding may
// consult (and lazily refresh) the graph's schema cache.
type decoder struct {
	schema *GraphSchema
	logger *slog.Logger
}

// parseScalar decodes a single [tag, payload] cell.
func (d *decoder) parseScalar(ctx context.Context, cell interface{}) (interface{}, error) {
	pair, ok := cell.([]interface{})
	if !ok || len(pair) < 2 {
		return nil, decodeErrorf(ValueTypeUnknown, "cell must be a [tag, payload] pair, got %T", cell)
	}

	tag := ValueType(proto.ToInt(pair[0]))
	payload := pair[1]

	switch tag {
	case ValueTypeUnknown:
		// Forward compatibility: a tag this client does not understand
		// is diagnosed, not fatal.
		d.logger.Warn("unknown scalar type in result set", "tag", proto.ToInt(pair[0]))
		return nil, nil

	case ValueTypeNull:
		return nil, nil

	case ValueTypeString:
		return proto.ToString(payload), nil

	case ValueTypeInteger:
		n, err := proto.ParseInt64(payload)
		if err != nil {
			return nil, decodeErrorf(tag, "%v", err)
		}
		return n, nil

	case ValueTypeBoolean:
		// The wire carries the literal string "true" or "false"; any
		// other payload decodes to false rather than erroring.
		return proto.ToString(payload) == "true", nil

	case ValueTypeDouble:
		f, err := proto.ParseFloat64(payload)
		if err != nil {
			return nil, decodeErrorf(tag, "%v", err)
		}
		return f, nil

	case ValueTypeArray:
		return d.parseArray(ctx, payload)

	case ValueTypeVectorF32:
		return d.parseVector(payload)

	case ValueTypeMap:
		return d.parseMap(ctx, payload)

	case ValueTypePoint:
		return d.parsePoint(payload)

	case ValueTypeNode:
		return d.parseNode(ctx, payload)

	case ValueTypeEdge:
		return d.parseEdge(ctx, payload)

	case ValueTypePath:
		return d.parsePath(ctx, payload)

	case ValueTypeDateTime:
		dt, err := parseDateTime(proto.ToString(payload))
		if err != nil {
			return nil, decodeErrorf(tag, "%v", err)
		}
		return dt, nil

	case ValueTypeDate:
		date, err := parseDate(proto.ToString(payload))
		if err != nil {
			return nil, decodeErrorf(tag, "%v", err)
		}
		return date, nil

	case ValueTypeTime:
		t, err := parseTime(proto.ToString(payload))
		if err != nil {
			return nil, decodeErrorf(tag, "%v", err)
		}
		return t, nil

	case ValueTypeDuration:
		dur, err := parseDuration(proto.ToString(payload))
		if err != nil {
			return nil, decodeErrorf(tag, "%v", err)
		}
		return dur, nil

	default:
		return nil, decodeErrorf(tag, "type tag out of range")
	}
}

// parseArray decodes a sequence of nested [tag, payload] cells.
func (d *decoder) parseArray(ctx context.Context, payload interface{}) ([]interface{}, error) {
	arr, ok := payload.([]interface{})
	if !ok {
		return nil, decodeErrorf(ValueTypeArray, "payload is %T, want array", payload)
	}

	result := make([]interface{}, len(arr))
	for i, item := range arr {
		v, err := d.parseScalar(ctx, item)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

// parseVector decodes a plain numeric sequence into float32 components.
func (d *decoder) parseVector(payload interface{}) ([]float32, error) {
	arr, ok := payload.([]interface{})
	if !ok {
		return nil, decodeErrorf(ValueTypeVectorF32, "payload is %T, want array", payload)
	}

	vec := make([]float32, len(arr))
	for i, item := range arr {
		f, err := proto.ParseFloat64(item)
		if err != nil {
			return nil, decodeErrorf(ValueTypeVectorF32, "component %d: %v", i, err)
		}
		vec[i] = float32(f)
	}
	return vec, nil
}

// parseMap decodes a flat key/cell alternation into an insertion-ordered
// Map. Duplicate keys overwrite, last wins.
func (d *decoder) parseMap(ctx context.Context, payload interface{}) (*Map, error) {
	arr, ok := payload.([]interface{})
	if !ok {
		return nil, decodeErrorf(ValueTypeMap, "payload is %T, want array", payload)
	}
	if len(arr)%2 != 0 {
		return nil, decodeErrorf(ValueTypeMap, "odd number of elements: %d", len(arr))
	}

	m := NewMap()
	for i := 0; i < len(arr); i += 2 {
		key := proto.ToString(arr[i])
		value, err := d.parseScalar(ctx, arr[i+1])
		if err != nil {
			return nil, err
		}
		m.Set(key, value)
	}
	return m, nil
}

func (d *decoder) parsePoint(payload interface{}) (*Point, error) {
	arr, ok := payload.([]interface{})
	if !ok || len(arr) < 2 {
		return nil, decodeErrorf(ValueTypePoint, "payload must be a [latitude, longitude] pair")
	}

	lat, err := proto.ParseFloat64(arr[0])
	if err != nil {
		return nil, decodeErrorf(ValueTypePoint, "latitude: %v", err)
	}
	lon, err := proto.ParseFloat64(arr[1])
	if err != nil {
		return nil, decodeErrorf(ValueTypePoint, "longitude: %v", err)
	}

	return &Point{Latitude: lat, Longitude: lon}, nil
}

// parseNode decodes [node_id, [label_index...], [[prop_index, tag, value]...]].
func (d *decoder) parseNode(ctx context.Context, payload interface{}) (*Node, error) {
	arr, ok := payload.([]interface{})
	if !ok || len(arr) < 3 {
		return nil, decodeErrorf(ValueTypeNode, "payload must be [id, labels, properties]")
	}

	id, err := proto.ParseInt64(arr[0])
	if err != nil {
		return nil, decodeErrorf(ValueTypeNode, "id: %v", err)
	}

	rawLabels, ok := arr[1].([]interface{})
	if !ok {
		return nil, decodeErrorf(ValueTypeNode, "labels are %T, want array", arr[1])
	}
	var labels []string
	for _, raw := range rawLabels {
		label, err := d.schema.Label(ctx, proto.ToInt(raw))
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}

	properties, err := d.parseEntityProperties(ctx, arr[2])
	if err != nil {
		return nil, err
	}

	return decodedNode(id, labels, properties), nil
}

// parseEdge decodes [edge_id, relation_index, src_id, dest_id, properties].
// Endpoints stay raw node ids at this layer.
func (d *decoder) parseEdge(ctx context.Context, payload interface{}) (*Edge, error) {
	arr, ok := payload.([]interface{})
	if !ok || len(arr) < 5 {
		return nil, decodeErrorf(ValueTypeEdge, "payload must be [id, relation, src, dest, properties]")
	}

	id, err := proto.ParseInt64(arr[0])
	if err != nil {
		return nil, decodeErrorf(ValueTypeEdge, "id: %v", err)
	}

	relation, err := d.schema.Relation(ctx, proto.ToInt(arr[1]))
	if err != nil {
		return nil, err
	}

	srcID, err := proto.ParseInt64(arr[2])
	if err != nil {
		return nil, decodeErrorf(ValueTypeEdge, "src id: %v", err)
	}
	destID, err := proto.ParseInt64(arr[3])
	if err != nil {
		return nil, decodeErrorf(ValueTypeEdge, "dest id: %v", err)
	}

	properties, err := d.parseEntityProperties(ctx, arr[4])
	if err != nil {
		return nil, err
	}

	return decodedEdge(id, relation, srcID, destID, properties), nil
}

// parsePath decodes a pair of ARRAY-encoded cells: the node sequence and
// the edge sequence.
func (d *decoder) parsePath(ctx context.Context, payload interface{}) (*Path, error) {
	arr, ok := payload.([]interface{})
	if !ok || len(arr) < 2 {
		return nil, decodeErrorf(ValueTypePath, "payload must be a [nodes, edges] pair")
	}

	rawNodes, err := d.parseScalar(ctx, arr[0])
	if err != nil {
		return nil, err
	}
	rawEdges, err := d.parseScalar(ctx, arr[1])
	if err != nil {
		return nil, err
	}

	nodeList, ok := rawNodes.([]interface{})
	if !ok {
		return nil, decodeErrorf(ValueTypePath, "nodes are %T, want array", rawNodes)
	}
	edgeList, ok := rawEdges.([]interface{})
	if !ok {
		return nil, decodeErrorf(ValueTypePath, "edges are %T, want array", rawEdges)
	}

	nodes := make([]*Node, len(nodeList))
	for i, item := range nodeList {
		node, ok := item.(*Node)
		if !ok {
			return nil, decodeErrorf(ValueTypePath, "path element %d is %T, want node", i, item)
		}
		nodes[i] = node
	}

	edges := make([]*Edge, len(edgeList))
	for i, item := range edgeList {
		edge, ok := item.(*Edge)
		if !ok {
			return nil, decodeErrorf(ValueTypePath, "path element %d is %T, want edge", i, item)
		}
		edges[i] = edge
	}

	return NewPath(nodes, edges), nil
}

// parseEntityProperties decodes a sequence of [prop_index, tag, value]
// triples into a property map, resolving key names via the schema cache.
func (d *decoder) parseEntityProperties(ctx context.Context, raw interface{}) (map[string]interface{}, error) {
	props, ok := raw.([]interface{})
	if !ok {
		return nil, decodeErrorf(ValueTypeUnknown, "properties are %T, want array", raw)
	}

	properties := make(map[string]interface{}, len(props))
	for _, p := range props {
		triple, ok := p.([]interface{})
		if !ok || len(triple) < 3 {
			return nil, decodeErrorf(ValueTypeUnknown, "property must be an [index, tag, value] triple")
		}

		name, err := d.schema.Property(ctx, proto.ToInt(triple[0]))
		if err != nil {
			return nil, err
		}

		value, err := d.parseScalar(ctx, []interface{}{triple[1], triple[2]})
		if err != nil {
			return nil, err
		}

		properties[name] = value
	}
	return properties, nil
}
