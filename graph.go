package gravl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/gravldb/gravl-go/internal/proto"
	"github.com/gravldb/gravl-go/internal/redis"
)

// Graph commands.
const (
	cmdQuery   = "GRAPH.QUERY"
	cmdROQuery = "GRAPH.RO_QUERY"
	cmdDelete  = "GRAPH.DELETE"
	cmdCopy    = "GRAPH.COPY"
	cmdExplain = "GRAPH.EXPLAIN"
	cmdProfile = "GRAPH.PROFILE"
	cmdSlowLog = "GRAPH.SLOWLOG"
	cmdMemory  = "GRAPH.MEMORY"
)

// Graph represents a single named graph and provides methods to query and
// manage it. It also accumulates client-built nodes and edges into a
// pending local graph that Commit writes to the server in one CREATE.
type Graph struct {
	name   string
	client redis.Client
	schema *GraphSchema
	logger *slog.Logger

	mu           sync.Mutex
	pendingNodes []*Node
	pendingEdges []*Edge
}

func newGraph(name string, client redis.Client, logger *slog.Logger) *Graph {
	g := &Graph{
		name:   name,
		client: client,
		logger: logger,
	}
	g.schema = newGraphSchema(g)
	return g
}

// Name returns the name of the graph.
func (g *Graph) Name() string {
	return g.name
}

// Schema returns the graph's schema cache.
func (g *Graph) Schema() *GraphSchema {
	return g.schema
}

// Query executes a query on the graph.
//
// If the server reports that the client's schema cache is stale, the
// cache is refreshed to the server's version and the query is re-issued
// once, transparently.
//
// Example:
//
//	result, err := graph.Query(ctx, "CREATE (n:Person {name: $name}) RETURN n",
//		&gravl.QueryOptions{
//			Params: map[string]interface{}{"name": "Alice"},
//		},
//	)
func (g *Graph) Query(ctx context.Context, query string, options ...*QueryOptions) (*QueryResult, error) {
	return g.execute(ctx, cmdQuery, query, options...)
}

// ROQuery executes a read-only query on the graph. Use this for queries
// that don't modify data to enable replica reads in cluster mode.
func (g *Graph) ROQuery(ctx context.Context, query string, options ...*QueryOptions) (*QueryResult, error) {
	return g.execute(ctx, cmdROQuery, query, options...)
}

func (g *Graph) execute(ctx context.Context, cmd, query string, options ...*QueryOptions) (*QueryResult, error) {
	result, err := g.executeOnce(ctx, cmd, query, options...)

	var mismatch *VersionMismatchError
	if errors.As(err, &mismatch) {
		// Client view over the graph schema is out of sync; refresh to
		// the server's version and re-issue the query once.
		if err := g.schema.Refresh(ctx, mismatch.Version); err != nil {
			return nil, err
		}
		return g.executeOnce(ctx, cmd, query, options...)
	}

	return result, err
}

// executeOnce issues a single compact query command with no recovery.
// The schema cache's own procedure calls go through here so that a
// mismatch raised mid-refresh cannot recurse.
func (g *Graph) executeOnce(ctx context.Context, cmd, query string, options ...*QueryOptions) (*QueryResult, error) {
	var params map[string]interface{}
	var timeout int
	if len(options) > 0 && options[0] != nil {
		params = options[0].Params
		timeout = options[0].Timeout
	}

	args := proto.BuildQueryArgs(cmd, g.name, query, params, timeout, true)
	raw, err := g.client.Do(ctx, args...).Result()
	if err != nil {
		return nil, err
	}

	return newQueryResult(ctx, g, raw)
}

// CallProcedure invokes a read-only procedure on the graph,
// e.g. CallProcedure(ctx, "db.idx.fulltext.queryNodes", "Person", "alice").
// String arguments are quoted.
func (g *Graph) CallProcedure(ctx context.Context, procedure string, args ...interface{}) (*QueryResult, error) {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = proto.QuoteString(arg)
	}
	query := fmt.Sprintf("CALL %s(%s)", procedure, strings.Join(quoted, ","))
	return g.ROQuery(ctx, query)
}

// callProcedure is the schema cache's entry point: no arguments, no
// mismatch retry.
func (g *Graph) callProcedure(ctx context.Context, procedure string) (*QueryResult, error) {
	return g.executeOnce(ctx, cmdROQuery, fmt.Sprintf("CALL %s()", procedure))
}

// === Pending local graph ===

// AddNode adds a node to the pending local graph. Nodes with the same
// alias replace each other.
func (g *Graph) AddNode(node *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, n := range g.pendingNodes {
		if n.Alias == node.Alias {
			g.pendingNodes[i] = node
			return
		}
	}
	g.pendingNodes = append(g.pendingNodes, node)
}

// AddEdge adds an edge to the pending local graph. Missing endpoint nodes
// are added as well. Both endpoints must be resolved nodes.
func (g *Graph) AddEdge(edge *Edge) error {
	src, ok := edge.Source.Node()
	if !ok {
		return errors.New("edge source is not a resolved node")
	}
	dest, ok := edge.Destination.Node()
	if !ok {
		return errors.New("edge destination is not a resolved node")
	}

	if !g.hasPendingNode(src.Alias) {
		g.AddNode(src)
	}
	if !g.hasPendingNode(dest.Alias) {
		g.AddNode(dest)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.pendingEdges = append(g.pendingEdges, edge)
	return nil
}

func (g *Graph) hasPendingNode(alias string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, n := range g.pendingNodes {
		if n.Alias == alias {
			return true
		}
	}
	return false
}

// RemoveNode removes a node and its incident edges from the pending
// local graph.
func (g *Graph) RemoveNode(node *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()

	kept := g.pendingEdges[:0]
	for _, e := range g.pendingEdges {
		src, _ := e.Source.Node()
		dest, _ := e.Destination.Node()
		if src == node || dest == node {
			continue
		}
		kept = append(kept, e)
	}
	g.pendingEdges = kept

	for i, n := range g.pendingNodes {
		if n == node {
			g.pendingNodes = append(g.pendingNodes[:i], g.pendingNodes[i+1:]...)
			return
		}
	}
}

// RemoveEdge removes an edge from the pending local graph.
func (g *Graph) RemoveEdge(edge *Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, e := range g.pendingEdges {
		if e == edge {
			g.pendingEdges = append(g.pendingEdges[:i], g.pendingEdges[i+1:]...)
			return
		}
	}
}

// NumberOfNodes returns the number of nodes in the pending local graph.
func (g *Graph) NumberOfNodes() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pendingNodes)
}

// NumberOfEdges returns the number of edges in the pending local graph.
func (g *Graph) NumberOfEdges() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pendingEdges)
}

// Commit writes the pending local graph to the server as a single CREATE
// query. An empty pending graph is a no-op returning a nil result.
func (g *Graph) Commit(ctx context.Context) (*QueryResult, error) {
	g.mu.Lock()
	literals := make([]string, 0, len(g.pendingNodes)+len(g.pendingEdges))
	for _, n := range g.pendingNodes {
		literals = append(literals, n.String())
	}
	for _, e := range g.pendingEdges {
		literals = append(literals, e.String())
	}
	g.mu.Unlock()

	if len(literals) == 0 {
		return nil, nil
	}

	return g.Query(ctx, "CREATE "+strings.Join(literals, ","))
}

// Flush commits the pending local graph and clears it.
func (g *Graph) Flush(ctx context.Context) (*QueryResult, error) {
	result, err := g.Commit(ctx)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.pendingNodes = nil
	g.pendingEdges = nil
	g.mu.Unlock()

	return result, nil
}

// Merge runs a MERGE query for the given pattern, typically a Node or
// Edge literal.
func (g *Graph) Merge(ctx context.Context, pattern fmt.Stringer) (*QueryResult, error) {
	return g.Query(ctx, "MERGE "+pattern.String())
}

// === Management commands ===

// Delete removes the graph from the database and clears the local
// schema cache.
func (g *Graph) Delete(ctx context.Context) error {
	g.schema.Clear()
	return g.client.Do(ctx, cmdDelete, g.name).Err()
}

// Copy creates a copy of the graph with a new name.
func (g *Graph) Copy(ctx context.Context, destGraph string) error {
	return g.client.Do(ctx, cmdCopy, g.name, destGraph).Err()
}

// Explain returns the execution plan for a query without executing it.
func (g *Graph) Explain(ctx context.Context, query string, options ...*QueryOptions) (*ExecutionPlan, error) {
	var params map[string]interface{}
	if len(options) > 0 && options[0] != nil {
		params = options[0].Params
	}

	args := proto.BuildQueryArgs(cmdExplain, g.name, query, params, 0, false)
	raw, err := g.client.Do(ctx, args...).Result()
	if err != nil {
		return nil, err
	}

	lines, err := proto.ParsePlanLines(raw)
	if err != nil {
		return nil, err
	}
	return NewExecutionPlan(lines)
}

// Profile executes a query and returns its execution plan annotated with
// per-operation runtime statistics.
func (g *Graph) Profile(ctx context.Context, query string, options ...*QueryOptions) (*ExecutionPlan, error) {
	var params map[string]interface{}
	if len(options) > 0 && options[0] != nil {
		params = options[0].Params
	}

	args := proto.BuildQueryArgs(cmdProfile, g.name, query, params, 0, false)
	raw, err := g.client.Do(ctx, args...).Result()
	if err != nil {
		return nil, err
	}

	lines, err := proto.ParsePlanLines(raw)
	if err != nil {
		return nil, err
	}
	return NewExecutionPlan(lines)
}

// SlowLogEntry represents an entry in the slow query log.
type SlowLogEntry struct {
	Timestamp int64
	Command   string
	Query     string
	Took      float64 // Duration in milliseconds
}

// SlowLog returns the slow query log for this graph.
func (g *Graph) SlowLog(ctx context.Context) ([]SlowLogEntry, error) {
	result, err := g.client.Do(ctx, cmdSlowLog, g.name).Result()
	if err != nil {
		return nil, err
	}

	raw, err := proto.ParseSlowLogResult(result)
	if err != nil {
		return nil, err
	}

	entries := make([]SlowLogEntry, len(raw))
	for i, r := range raw {
		entries[i] = SlowLogEntry{
			Timestamp: proto.ToInt64(r["timestamp"]),
			Command:   proto.ToString(r["command"]),
			Query:     proto.ToString(r["query"]),
			Took:      proto.ToFloat64(r["took"]),
		}
	}
	return entries, nil
}

// MemoryUsage returns memory usage statistics for the graph.
func (g *Graph) MemoryUsage(ctx context.Context) ([]interface{}, error) {
	result, err := g.client.Do(ctx, cmdMemory, g.name).Result()
	if err != nil {
		return nil, err
	}

	if arr, ok := result.([]interface{}); ok {
		return arr, nil
	}
	return nil, nil
}

// === Index methods ===
// Index creation and deletion go through the query language.

// CreateNodeRangeIndex creates a range index on node properties.
func (g *Graph) CreateNodeRangeIndex(ctx context.Context, label string, properties ...string) (*QueryResult, error) {
	return g.createTypedIndex(ctx, "", EntityNode, label, nil, properties...)
}

// CreateNodeFulltextIndex creates a fulltext index on node properties.
func (g *Graph) CreateNodeFulltextIndex(ctx context.Context, label string, properties ...string) (*QueryResult, error) {
	return g.createTypedIndex(ctx, "FULLTEXT", EntityNode, label, nil, properties...)
}

// CreateNodeVectorIndex creates a vector index on node properties.
func (g *Graph) CreateNodeVectorIndex(ctx context.Context, label string, dim int, similarity string, properties ...string) (*QueryResult, error) {
	opts := map[string]interface{}{
		"dimension":          dim,
		"similarityFunction": similarity,
	}
	return g.createTypedIndex(ctx, "VECTOR", EntityNode, label, opts, properties...)
}

// CreateEdgeRangeIndex creates a range index on edge properties.
func (g *Graph) CreateEdgeRangeIndex(ctx context.Context, label string, properties ...string) (*QueryResult, error) {
	return g.createTypedIndex(ctx, "", EntityRelationship, label, nil, properties...)
}

// CreateEdgeFulltextIndex creates a fulltext index on edge properties.
func (g *Graph) CreateEdgeFulltextIndex(ctx context.Context, label string, properties ...string) (*QueryResult, error) {
	return g.createTypedIndex(ctx, "FULLTEXT", EntityRelationship, label, nil, properties...)
}

// CreateEdgeVectorIndex creates a vector index on edge properties.
func (g *Graph) CreateEdgeVectorIndex(ctx context.Context, label string, dim int, similarity string, properties ...string) (*QueryResult, error) {
	opts := map[string]interface{}{
		"dimension":          dim,
		"similarityFunction": similarity,
	}
	return g.createTypedIndex(ctx, "VECTOR", EntityRelationship, label, opts, properties...)
}

// DropNodeRangeIndex drops a range index from a node property.
func (g *Graph) DropNodeRangeIndex(ctx context.Context, label, property string) (*QueryResult, error) {
	return g.dropTypedIndex(ctx, "", EntityNode, label, property)
}

// DropNodeFulltextIndex drops a fulltext index from a node property.
func (g *Graph) DropNodeFulltextIndex(ctx context.Context, label, property string) (*QueryResult, error) {
	return g.dropTypedIndex(ctx, "FULLTEXT", EntityNode, label, property)
}

// DropNodeVectorIndex drops a vector index from a node property.
func (g *Graph) DropNodeVectorIndex(ctx context.Context, label, property string) (*QueryResult, error) {
	return g.dropTypedIndex(ctx, "VECTOR", EntityNode, label, property)
}

// DropEdgeRangeIndex drops a range index from an edge property.
func (g *Graph) DropEdgeRangeIndex(ctx context.Context, label, property string) (*QueryResult, error) {
	return g.dropTypedIndex(ctx, "", EntityRelationship, label, property)
}

// DropEdgeFulltextIndex drops a fulltext index from an edge property.
func (g *Graph) DropEdgeFulltextIndex(ctx context.Context, label, property string) (*QueryResult, error) {
	return g.dropTypedIndex(ctx, "FULLTEXT", EntityRelationship, label, property)
}

// DropEdgeVectorIndex drops a vector index from an edge property.
func (g *Graph) DropEdgeVectorIndex(ctx context.Context, label, property string) (*QueryResult, error) {
	return g.dropTypedIndex(ctx, "VECTOR", EntityRelationship, label, property)
}

func indexPattern(entityType EntityType, label string) string {
	if entityType == EntityNode {
		return fmt.Sprintf("(e:%s)", label)
	}
	return fmt.Sprintf("()-[e:%s]->()", label)
}

func (g *Graph) createTypedIndex(ctx context.Context, indexType string, entityType EntityType, label string, options map[string]interface{}, properties ...string) (*QueryResult, error) {
	props := make([]string, len(properties))
	for i, p := range properties {
		props[i] = "e." + p
	}

	var query string
	if indexType != "" {
		query = fmt.Sprintf("CREATE %s INDEX FOR %s ON (%s)", indexType, indexPattern(entityType, label), strings.Join(props, ", "))
	} else {
		query = fmt.Sprintf("CREATE INDEX FOR %s ON (%s)", indexPattern(entityType, label), strings.Join(props, ", "))
	}

	if len(options) > 0 {
		keys := make([]string, 0, len(options))
		for k := range options {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		opts := make([]string, len(keys))
		for i, k := range keys {
			switch v := options[k].(type) {
			case string:
				opts[i] = fmt.Sprintf("%s:'%s'", k, v)
			default:
				opts[i] = fmt.Sprintf("%s:%v", k, v)
			}
		}
		query += fmt.Sprintf(" OPTIONS {%s}", strings.Join(opts, ", "))
	}

	return g.Query(ctx, query)
}

func (g *Graph) dropTypedIndex(ctx context.Context, indexType string, entityType EntityType, label, property string) (*QueryResult, error) {
	var query string
	if indexType != "" {
		query = fmt.Sprintf("DROP %s INDEX FOR %s ON (e.%s)", indexType, indexPattern(entityType, label), property)
	} else {
		query = fmt.Sprintf("DROP INDEX FOR %s ON (e.%s)", indexPattern(entityType, label), property)
	}

	return g.Query(ctx, query)
}

// === Constraint methods ===

// ConstraintCreate creates a constraint on the graph.
//
// Example:
//
//	graph.ConstraintCreate(ctx, gravl.ConstraintUnique, gravl.EntityNode, "Person", "email")
func (g *Graph) ConstraintCreate(ctx context.Context, constraintType ConstraintType, entityType EntityType, label string, properties ...string) error {
	args := proto.BuildConstraintArgs("CREATE", g.name, string(constraintType), string(entityType), label, properties)
	return g.client.Do(ctx, args...).Err()
}

// ConstraintDrop removes a constraint from the graph.
func (g *Graph) ConstraintDrop(ctx context.Context, constraintType ConstraintType, entityType EntityType, label string, properties ...string) error {
	args := proto.BuildConstraintArgs("DROP", g.name, string(constraintType), string(entityType), label, properties)
	return g.client.Do(ctx, args...).Err()
}

// String returns a string representation of the graph.
func (g *Graph) String() string {
	return fmt.Sprintf("Graph<%s>", g.name)
}
