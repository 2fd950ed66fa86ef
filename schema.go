package gravl

import (
	"context"
	"sync"
)

// Schema read-only procedures.
const (
	procLabels            = "db.labels"
	procRelationshipTypes = "db.relationshipTypes"
	procPropertyKeys      = "db.propertyKeys"
)

// GraphSchema caches the server's compact integer encodings of labels,
// property keys and relationship types for one graph. The compact result
// format refers to these entities by dense indexes; the cache translates
// an index back to its string name.
//
// An index past the end of a table is not an error: the server has added
// entities since the table was fetched. The lookup refreshes just that
// one category and retries once. A second miss means the response and the
// schema genuinely disagree and is surfaced as a SchemaDesyncError.
//
// A full Refresh is reserved for the version-mismatch recovery path,
// where all three tables are assumed stale.
type GraphSchema struct {
	graph *Graph

	mu            sync.Mutex
	version       int64
	labels        []string
	relationships []string
	properties    []string
}

func newGraphSchema(graph *Graph) *GraphSchema {
	return &GraphSchema{graph: graph}
}

// Version returns the schema version the cache was last stamped with.
func (s *GraphSchema) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Clear resets the cache to its stale-or-empty state. Called on graph
// deletion and as the first step of Refresh.
func (s *GraphSchema) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *GraphSchema) clearLocked() {
	s.version = 0
	s.labels = nil
	s.relationships = nil
	s.properties = nil
}

// Refresh replaces all three tables wholesale and stamps the new version,
// regardless of which category went stale.
func (s *GraphSchema) Refresh(ctx context.Context, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
	s.version = version

	if err := s.refreshLabelsLocked(ctx); err != nil {
		return err
	}
	if err := s.refreshRelationsLocked(ctx); err != nil {
		return err
	}
	return s.refreshPropertiesLocked(ctx)
}

// Label resolves a label index to its name, refreshing the label table
// once on a miss.
func (s *GraphSchema) Label(ctx context.Context, idx int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx >= 0 && idx < len(s.labels) {
		return s.labels[idx], nil
	}

	if err := s.refreshLabelsLocked(ctx); err != nil {
		return "", err
	}
	if idx >= 0 && idx < len(s.labels) {
		return s.labels[idx], nil
	}
	return "", &SchemaDesyncError{Kind: "label", Index: idx}
}

// Relation resolves a relationship-type index to its name, refreshing the
// relationship table once on a miss.
func (s *GraphSchema) Relation(ctx context.Context, idx int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx >= 0 && idx < len(s.relationships) {
		return s.relationships[idx], nil
	}

	if err := s.refreshRelationsLocked(ctx); err != nil {
		return "", err
	}
	if idx >= 0 && idx < len(s.relationships) {
		return s.relationships[idx], nil
	}
	return "", &SchemaDesyncError{Kind: "relationship type", Index: idx}
}

// Property resolves a property-key index to its name, refreshing the
// property table once on a miss.
func (s *GraphSchema) Property(ctx context.Context, idx int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx >= 0 && idx < len(s.properties) {
		return s.properties[idx], nil
	}

	if err := s.refreshPropertiesLocked(ctx); err != nil {
		return "", err
	}
	if idx >= 0 && idx < len(s.properties) {
		return s.properties[idx], nil
	}
	return "", &SchemaDesyncError{Kind: "property key", Index: idx}
}

func (s *GraphSchema) refreshLabelsLocked(ctx context.Context) error {
	names, err := s.fetchNames(ctx, procLabels)
	if err != nil {
		return err
	}
	s.labels = names
	return nil
}

func (s *GraphSchema) refreshRelationsLocked(ctx context.Context) error {
	names, err := s.fetchNames(ctx, procRelationshipTypes)
	if err != nil {
		return err
	}
	s.relationships = names
	return nil
}

func (s *GraphSchema) refreshPropertiesLocked(ctx context.Context) error {
	names, err := s.fetchNames(ctx, procPropertyKeys)
	if err != nil {
		return err
	}
	s.properties = names
	return nil
}

// fetchNames runs a schema procedure and collects the first column of
// every row. These procedures return plain strings, so decoding them can
// never re-enter the schema cache.
func (s *GraphSchema) fetchNames(ctx context.Context, procedure string) ([]string, error) {
	result, err := s.graph.callProcedure(ctx, procedure)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(result.ResultSet))
	for _, row := range result.ResultSet {
		if len(row) == 0 {
			continue
		}
		if name, ok := row[0].(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}
