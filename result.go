package gravl

import (
	"context"
	"strings"

	"github.com/gravldb/gravl-go/internal/proto"
)

// Statistics metric labels produced in the query footer.
const (
	statLabelsAdded           = "Labels added"
	statLabelsRemoved         = "Labels removed"
	statNodesCreated          = "Nodes created"
	statNodesDeleted          = "Nodes deleted"
	statPropertiesSet         = "Properties set"
	statPropertiesRemoved     = "Properties removed"
	statRelationshipsCreated  = "Relationships created"
	statRelationshipsDeleted  = "Relationships deleted"
	statIndicesCreated        = "Indices created"
	statIndicesDeleted        = "Indices deleted"
	statCachedExecution       = "Cached execution"
	statInternalExecutionTime = "internal execution time"
)

// Column is one header entry: the column's name and its wire type code.
type Column struct {
	Type int
	Name string
}

// QueryResult holds the decoded result of a single query execution.
//
// Write-only queries (no RETURN clause) produce an empty Header and
// ResultSet and carry only the statistics footer. Statistics are parsed
// lazily from the footer on accessor calls.
type QueryResult struct {
	// Header lists the result columns in order.
	Header []Column

	// ResultSet holds the decoded rows; each row's cells follow Header order.
	ResultSet [][]interface{}

	// Metadata is the raw statistics footer, e.g. "Nodes created: 5".
	Metadata []string
}

// newQueryResult validates a raw query reply and decodes it against the
// graph's schema cache. A reply whose first element is the structured
// "version mismatch" error yields a *VersionMismatchError and no data.
func newQueryResult(ctx context.Context, g *Graph, response interface{}) (*QueryResult, error) {
	arr, ok := response.([]interface{})
	if !ok {
		return nil, decodeErrorf(ValueTypeUnknown, "unexpected query response: %T", response)
	}

	if err := checkResponseErrors(arr); err != nil {
		return nil, err
	}

	raw, err := proto.ParseResult(response)
	if err != nil {
		return nil, err
	}

	result := &QueryResult{Metadata: raw.Metadata}

	// Header is taken verbatim as name/type pairs
	for _, h := range raw.Headers {
		pair, ok := h.([]interface{})
		if !ok || len(pair) < 2 {
			continue
		}
		result.Header = append(result.Header, Column{
			Type: proto.ToInt(pair[0]),
			Name: proto.ToString(pair[1]),
		})
	}

	// No columns means nothing to decode, even if a rows element exists
	if len(result.Header) == 0 {
		return result, nil
	}

	dec := &decoder{schema: g.schema, logger: g.logger}
	result.ResultSet = make([][]interface{}, len(raw.Data))
	for i, rawRow := range raw.Data {
		cells, ok := rawRow.([]interface{})
		if !ok {
			return nil, decodeErrorf(ValueTypeUnknown, "row %d is %T, want array", i, rawRow)
		}

		row := make([]interface{}, len(cells))
		for j, cell := range cells {
			row[j], err = dec.parseScalar(ctx, cell)
			if err != nil {
				return nil, err
			}
		}
		result.ResultSet[i] = row
	}

	return result, nil
}

// IsEmpty reports whether the result carries no rows.
func (r *QueryResult) IsEmpty() bool {
	return len(r.ResultSet) == 0
}

// statistic scans the footer for "<metric>: <number>[ <unit>]" and
// returns the number, or 0 when the metric is absent.
func (r *QueryResult) statistic(metric string) float64 {
	for _, stat := range r.Metadata {
		if !strings.Contains(stat, metric) {
			continue
		}
		_, value, found := strings.Cut(stat, ": ")
		if !found {
			continue
		}
		fields := strings.Fields(value)
		if len(fields) == 0 {
			continue
		}
		return proto.ToFloat64(fields[0])
	}
	return 0
}

// LabelsAdded returns the number of labels added by the query.
func (r *QueryResult) LabelsAdded() int {
	return int(r.statistic(statLabelsAdded))
}

// LabelsRemoved returns the number of labels removed by the query.
func (r *QueryResult) LabelsRemoved() int {
	return int(r.statistic(statLabelsRemoved))
}

// NodesCreated returns the number of nodes created by the query.
func (r *QueryResult) NodesCreated() int {
	return int(r.statistic(statNodesCreated))
}

// NodesDeleted returns the number of nodes deleted by the query.
func (r *QueryResult) NodesDeleted() int {
	return int(r.statistic(statNodesDeleted))
}

// PropertiesSet returns the number of properties set by the query.
func (r *QueryResult) PropertiesSet() int {
	return int(r.statistic(statPropertiesSet))
}

// PropertiesRemoved returns the number of properties removed by the query.
func (r *QueryResult) PropertiesRemoved() int {
	return int(r.statistic(statPropertiesRemoved))
}

// RelationshipsCreated returns the number of relationships created by the query.
func (r *QueryResult) RelationshipsCreated() int {
	return int(r.statistic(statRelationshipsCreated))
}

// RelationshipsDeleted returns the number of relationships deleted by the query.
func (r *QueryResult) RelationshipsDeleted() int {
	return int(r.statistic(statRelationshipsDeleted))
}

// IndicesCreated returns the number of indices created by the query.
func (r *QueryResult) IndicesCreated() int {
	return int(r.statistic(statIndicesCreated))
}

// IndicesDeleted returns the number of indices deleted by the query.
func (r *QueryResult) IndicesDeleted() int {
	return int(r.statistic(statIndicesDeleted))
}

// CachedExecution reports whether the query ran from the execution cache.
func (r *QueryResult) CachedExecution() bool {
	return r.statistic(statCachedExecution) == 1
}

// RunTimeMS returns the server-side execution time in milliseconds.
func (r *QueryResult) RunTimeMS() float64 {
	return r.statistic(statInternalExecutionTime)
}
