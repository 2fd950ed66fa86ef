// Package integration contains end-to-end tests for the GravlDB Go client.
// These tests require a running GravlDB instance.
//
// Run with: go test -v ./tests/integration/...
package integration

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"testing"

	gravl "github.com/gravldb/gravl-go"
)

func randomName() string {
	return fmt.Sprintf("test_%d", rand.Intn(999999))
}

func newTestDB(t *testing.T) *gravl.DB {
	t.Helper()

	host := os.Getenv("GRAVLDB_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("GRAVLDB_PORT")
	if port == "" {
		port = "6379"
	}

	ctx := context.Background()
	db, err := gravl.Connect(ctx, &gravl.Options{
		Addr: fmt.Sprintf("%s:%s", host, port),
	})
	if err != nil {
		t.Skipf("GravlDB not available at %s:%s: %v", host, port, err)
	}

	return db
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnection(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		if err := db.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})

	t.Run("Info", func(t *testing.T) {
		info, err := db.Info(ctx, "server")
		if err != nil {
			t.Fatalf("Info failed: %v", err)
		}
		if !strings.Contains(info, "redis_version") {
			t.Error("Expected redis_version in server info")
		}
	})

	t.Run("List", func(t *testing.T) {
		graphs, err := db.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if graphs == nil {
			t.Error("Expected non-nil graph list")
		}
	})
}

// =============================================================================
// Basic Query Tests
// =============================================================================

func TestBasicQueries(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	graph := db.SelectGraph(randomName())
	defer graph.Delete(ctx)

	t.Run("CreateNode", func(t *testing.T) {
		result, err := graph.Query(ctx, "CREATE (n:Person {name: 'Alice', age: 30}) RETURN n")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if result.NodesCreated() != 1 {
			t.Errorf("Expected 1 node created, got %d", result.NodesCreated())
		}
		if len(result.ResultSet) != 1 {
			t.Errorf("Expected 1 row, got %d", len(result.ResultSet))
		}
	})

	t.Run("MatchNode", func(t *testing.T) {
		result, err := graph.Query(ctx, "MATCH (n:Person) RETURN n.name, n.age")
		if err != nil {
			t.Fatalf("Match failed: %v", err)
		}
		if len(result.ResultSet) != 1 {
			t.Fatalf("Expected 1 row, got %d", len(result.ResultSet))
		}
		if result.Header[0].Name != "n.name" {
			t.Errorf("Unexpected header: %v", result.Header)
		}
		if result.ResultSet[0][0] != "Alice" {
			t.Errorf("Expected 'Alice', got %v", result.ResultSet[0][0])
		}
		if result.ResultSet[0][1] != int64(30) {
			t.Errorf("Expected 30, got %v", result.ResultSet[0][1])
		}
	})

	t.Run("ROQuery", func(t *testing.T) {
		result, err := graph.ROQuery(ctx, "MATCH (n:Person) RETURN n.name")
		if err != nil {
			t.Fatalf("ROQuery failed: %v", err)
		}
		if len(result.ResultSet) != 1 {
			t.Errorf("Expected 1 row, got %d", len(result.ResultSet))
		}
	})

	t.Run("ROQueryWriteFails", func(t *testing.T) {
		if _, err := graph.ROQuery(ctx, "CREATE (n:Test)"); err == nil {
			t.Error("Expected error for write in ROQuery")
		}
	})

	t.Run("InvalidSyntax", func(t *testing.T) {
		if _, err := graph.Query(ctx, "THIS IS NOT A QUERY"); err == nil {
			t.Error("Expected error for invalid syntax")
		}
	})
}

// =============================================================================
// Query Parameters Tests
// =============================================================================

func TestQueryParameters(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	graph := db.SelectGraph(randomName())
	defer graph.Delete(ctx)

	t.Run("StringParam", func(t *testing.T) {
		result, err := graph.Query(ctx,
			"CREATE (n:Person {name: $name}) RETURN n.name",
			&gravl.QueryOptions{
				Params: map[string]interface{}{"name": "Bob"},
			},
		)
		if err != nil {
			t.Fatalf("Query with string param failed: %v", err)
		}
		if result.ResultSet[0][0] != "Bob" {
			t.Errorf("Expected 'Bob', got %v", result.ResultSet[0][0])
		}
	})

	t.Run("ArrayParam", func(t *testing.T) {
		result, err := graph.Query(ctx,
			"CREATE (n:Person {hobbies: $hobbies}) RETURN n.hobbies",
			&gravl.QueryOptions{
				Params: map[string]interface{}{
					"hobbies": []interface{}{"reading", "coding", "hiking"},
				},
			},
		)
		if err != nil {
			t.Fatalf("Query with array param failed: %v", err)
		}
		hobbies, ok := result.ResultSet[0][0].([]interface{})
		if !ok {
			t.Fatalf("Expected array, got %T", result.ResultSet[0][0])
		}
		if len(hobbies) != 3 {
			t.Errorf("Expected 3 hobbies, got %d", len(hobbies))
		}
	})
}

// =============================================================================
// Node, Edge and Path Tests
// =============================================================================

func TestNodesAndEdges(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	graph := db.SelectGraph(randomName())
	defer graph.Delete(ctx)

	t.Run("CreateRelationship", func(t *testing.T) {
		result, err := graph.Query(ctx, `
			CREATE (a:Person {name: 'Alice'})-[r:KNOWS {since: 2020}]->(b:Person {name: 'Bob'})
			RETURN a, r, b
		`)
		if err != nil {
			t.Fatalf("Create relationship failed: %v", err)
		}

		row := result.ResultSet[0]

		alice, ok := row[0].(*gravl.Node)
		if !ok {
			t.Fatalf("Expected Node, got %T", row[0])
		}
		if alice.Properties["name"] != "Alice" {
			t.Errorf("Expected 'Alice', got %v", alice.Properties["name"])
		}
		if alice.Labels[0] != "Person" {
			t.Errorf("Expected label Person, got %v", alice.Labels)
		}

		knows, ok := row[1].(*gravl.Edge)
		if !ok {
			t.Fatalf("Expected Edge, got %T", row[1])
		}
		if knows.Relation != "KNOWS" {
			t.Errorf("Expected 'KNOWS', got %s", knows.Relation)
		}
		if knows.Properties["since"] != int64(2020) {
			t.Errorf("Expected 2020, got %v", knows.Properties["since"])
		}

		bob, ok := row[2].(*gravl.Node)
		if !ok {
			t.Fatalf("Expected Node, got %T", row[2])
		}

		aliceID, _ := alice.ID()
		bobID, _ := bob.ID()
		if srcID, _ := knows.Source.ID(); srcID != aliceID {
			t.Error("Edge source id mismatch")
		}
		if destID, _ := knows.Destination.ID(); destID != bobID {
			t.Error("Edge destination id mismatch")
		}
	})

	t.Run("MultipleLabels", func(t *testing.T) {
		result, err := graph.Query(ctx, "CREATE (n:Person:Employee {name: 'Carol'}) RETURN n")
		if err != nil {
			t.Fatalf("Create multi-label node failed: %v", err)
		}

		node, ok := result.ResultSet[0][0].(*gravl.Node)
		if !ok {
			t.Fatalf("Expected Node, got %T", result.ResultSet[0][0])
		}
		if len(node.Labels) != 2 {
			t.Errorf("Expected 2 labels, got %v", node.Labels)
		}
	})

	t.Run("Path", func(t *testing.T) {
		_, err := graph.Query(ctx, `
			CREATE (x:Stop {n: 1})-[:NEXT]->(y:Stop {n: 2})-[:NEXT]->(z:Stop {n: 3})
		`)
		if err != nil {
			t.Fatalf("Setup failed: %v", err)
		}

		result, err := graph.Query(ctx, `
			MATCH p = (:Stop {n: 1})-[:NEXT*2]->(:Stop {n: 3})
			RETURN p
		`)
		if err != nil {
			t.Fatalf("Path query failed: %v", err)
		}

		path, ok := result.ResultSet[0][0].(*gravl.Path)
		if !ok {
			t.Fatalf("Expected Path, got %T", result.ResultSet[0][0])
		}
		if path.NodeCount() != 3 || path.EdgeCount() != 2 {
			t.Errorf("Expected 3 nodes / 2 edges, got %d / %d", path.NodeCount(), path.EdgeCount())
		}
		if path.FirstNode().Properties["n"] != int64(1) {
			t.Errorf("Unexpected first node: %v", path.FirstNode())
		}
	})
}

// =============================================================================
// Local Graph Tests
// =============================================================================

func TestLocalGraphCommit(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	graph := db.SelectGraph(randomName())
	defer graph.Delete(ctx)

	alice := gravl.NewNode("a", []string{"Person"}, map[string]interface{}{"name": "Alice"})
	bob := gravl.NewNode("b", []string{"Person"}, map[string]interface{}{"name": "Bob"})

	knows, err := gravl.NewEdge(alice, "KNOWS", bob, map[string]interface{}{"since": 2020})
	if err != nil {
		t.Fatalf("NewEdge failed: %v", err)
	}
	if err := graph.AddEdge(knows); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	result, err := graph.Flush(ctx)
	if err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if result.NodesCreated() != 2 || result.RelationshipsCreated() != 1 {
		t.Errorf("Expected 2 nodes / 1 relationship, got %d / %d",
			result.NodesCreated(), result.RelationshipsCreated())
	}
	if graph.NumberOfNodes() != 0 {
		t.Error("Expected pending graph to be cleared after Flush")
	}

	count, err := graph.Query(ctx, "MATCH (:Person)-[r:KNOWS]->(:Person) RETURN count(r)")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count.ResultSet[0][0] != int64(1) {
		t.Errorf("Expected 1 relationship, got %v", count.ResultSet[0][0])
	}
}

// =============================================================================
// Plan and Analysis Tests
// =============================================================================

func TestExplainAndProfile(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	graph := db.SelectGraph(randomName())
	defer graph.Delete(ctx)

	if _, err := graph.Query(ctx, "CREATE (:Person {name: 'Alice'})"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	t.Run("Explain", func(t *testing.T) {
		plan, err := graph.Explain(ctx, "MATCH (p:Person) RETURN p")
		if err != nil {
			t.Fatalf("Explain failed: %v", err)
		}
		if plan.Root() == nil {
			t.Fatal("Expected a plan root")
		}
		if plan.Root().Name != "Results" {
			t.Errorf("Expected Results root, got %s", plan.Root().Name)
		}
	})

	t.Run("Profile", func(t *testing.T) {
		plan, err := graph.Profile(ctx, "MATCH (p:Person) RETURN p")
		if err != nil {
			t.Fatalf("Profile failed: %v", err)
		}
		if plan.Root().ProfileStats == nil {
			t.Error("Expected profile stats on the root operation")
		}
	})

	t.Run("SlowLog", func(t *testing.T) {
		if _, err := graph.SlowLog(ctx); err != nil {
			t.Fatalf("SlowLog failed: %v", err)
		}
	})
}

// =============================================================================
// Index and Constraint Tests
// =============================================================================

func TestIndexes(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	graph := db.SelectGraph(randomName())
	defer graph.Delete(ctx)

	if _, err := graph.Query(ctx, "CREATE (:Person {name: 'Alice'})"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	result, err := graph.CreateNodeRangeIndex(ctx, "Person", "name")
	if err != nil {
		t.Fatalf("CreateNodeRangeIndex failed: %v", err)
	}
	if result.IndicesCreated() != 1 {
		t.Errorf("Expected 1 index created, got %d", result.IndicesCreated())
	}

	result, err = graph.DropNodeRangeIndex(ctx, "Person", "name")
	if err != nil {
		t.Fatalf("DropNodeRangeIndex failed: %v", err)
	}
	if result.IndicesDeleted() != 1 {
		t.Errorf("Expected 1 index deleted, got %d", result.IndicesDeleted())
	}
}

func TestConstraints(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	graph := db.SelectGraph(randomName())
	defer graph.Delete(ctx)

	// Constraints require a backing index
	if _, err := graph.CreateNodeRangeIndex(ctx, "Person", "email"); err != nil {
		t.Fatalf("Index setup failed: %v", err)
	}

	if err := graph.ConstraintCreate(ctx, gravl.ConstraintUnique, gravl.EntityNode, "Person", "email"); err != nil {
		t.Fatalf("ConstraintCreate failed: %v", err)
	}
	if err := graph.ConstraintDrop(ctx, gravl.ConstraintUnique, gravl.EntityNode, "Person", "email"); err != nil {
		t.Fatalf("ConstraintDrop failed: %v", err)
	}
}

// =============================================================================
// Graph Management Tests
// =============================================================================

func TestCopyAndDelete(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	ctx := context.Background()
	name := randomName()
	graph := db.SelectGraph(name)

	if _, err := graph.Query(ctx, "CREATE (:Person {name: 'Alice'})"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	copyName := name + "_copy"
	if err := graph.Copy(ctx, copyName); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	copied := db.SelectGraph(copyName)
	result, err := copied.Query(ctx, "MATCH (n:Person) RETURN count(n)")
	if err != nil {
		t.Fatalf("Query on copy failed: %v", err)
	}
	if result.ResultSet[0][0] != int64(1) {
		t.Errorf("Expected copied node, got %v", result.ResultSet[0][0])
	}

	if err := copied.Delete(ctx); err != nil {
		t.Errorf("Delete copy failed: %v", err)
	}
	if err := graph.Delete(ctx); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
}
