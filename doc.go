// Package gravl provides a Go client for GravlDB, a graph database that
// speaks the Redis wire protocol.
//
// # Quick Start
//
// Connect to the server and execute queries:
//
//	ctx := context.Background()
//
//	db, err := gravl.Connect(ctx, &gravl.Options{
//	    Addr: "localhost:6379",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	// Select a graph
//	graph := db.SelectGraph("social")
//
//	// Create data
//	_, err = graph.Query(ctx, `
//	    CREATE (alice:Person {name: 'Alice', age: 30})
//	    CREATE (bob:Person {name: 'Bob', age: 25})
//	    CREATE (alice)-[:KNOWS]->(bob)
//	`)
//
//	// Query with parameters
//	result, err := graph.Query(ctx,
//	    "MATCH (p:Person) WHERE p.age > $minAge RETURN p",
//	    &gravl.QueryOptions{
//	        Params: map[string]interface{}{"minAge": 20},
//	    },
//	)
//
//	// Process results
//	for _, row := range result.ResultSet {
//	    node := row[0].(*gravl.Node)
//	    fmt.Printf("%s is %d years old\n",
//	        node.Properties["name"], node.Properties["age"])
//	}
//
// # Result Decoding
//
// Queries ask the server for its compact result encoding, which refers
// to labels, property keys and relationship types by small integer
// indexes. The client keeps a per-graph [GraphSchema] cache translating
// those indexes back to names and refreshes it lazily when the server's
// schema moves ahead of the cache. A stale cache detected mid-query is
// refreshed and the query re-issued, transparently.
//
// # Data Types
//
// Result cells decode into Go representations of the graph types:
//
//   - [Node]: graph nodes with labels and properties
//   - [Edge]: relationships with a type and properties; endpoints are
//     [EndpointRef] values that hold either a resolved node or a raw id
//   - [Path]: alternating node/edge sequences
//   - [Point]: geographic coordinates
//   - [Map]: insertion-ordered string-keyed maps
//   - [DateTime], [Date], [Time], [Duration]: temporal values
//
// # Graph Operations
//
// The [Graph] type provides methods for:
//
//   - Executing queries ([Graph.Query], [Graph.ROQuery])
//   - Building a local graph and committing it in bulk ([Graph.AddNode],
//     [Graph.AddEdge], [Graph.Commit], [Graph.Flush])
//   - Managing indexes ([Graph.CreateNodeRangeIndex], etc.)
//   - Managing constraints ([Graph.ConstraintCreate], [Graph.ConstraintDrop])
//   - Graph management ([Graph.Copy], [Graph.Delete])
//   - Query analysis ([Graph.Explain], [Graph.Profile], [Graph.SlowLog])
//
// # Thread Safety
//
// All types in this package are safe for concurrent use.
package gravl
