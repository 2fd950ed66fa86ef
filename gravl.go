package gravl

import (
	"context"
	"log/slog"

	"github.com/gravldb/gravl-go/internal/redis"
)

// DB is the main client for interacting with GravlDB.
// It is safe for concurrent use by multiple goroutines.
type DB struct {
	client redis.Client
	opts   *Options
}

// Connect establishes a connection to GravlDB.
//
// The client automatically detects the connection type (standalone,
// cluster, or sentinel) and configures itself accordingly.
//
// Example:
//
//	db, err := gravl.Connect(ctx, &gravl.Options{
//		Addr:     "localhost:6379",
//		Password: "secret",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Close()
func Connect(ctx context.Context, opts *Options) (*DB, error) {
	if opts == nil {
		opts = &Options{}
	}
	opts.setDefaults()

	client, err := redis.NewClient(ctx, &redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
	})
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("connected", "addr", opts.Addr)

	return &DB{
		client: client,
		opts:   opts,
	}, nil
}

// SelectGraph returns a Graph instance for the specified graph name.
// The graph does not need to exist; it will be created on first use.
func (db *DB) SelectGraph(name string) *Graph {
	return newGraph(name, db.client, db.opts.Logger)
}

// List returns the names of all graphs in the database.
func (db *DB) List(ctx context.Context) ([]string, error) {
	result, err := db.client.Do(ctx, "GRAPH.LIST").Result()
	if err != nil {
		return nil, err
	}

	arr, ok := result.([]interface{})
	if !ok {
		return []string{}, nil
	}

	graphs := make([]string, len(arr))
	for i, g := range arr {
		graphs[i], _ = g.(string)
	}
	return graphs, nil
}

// ConfigGet retrieves a server configuration value.
//
// Example:
//
//	value, _ := db.ConfigGet(ctx, "RESULTSET_SIZE")
func (db *DB) ConfigGet(ctx context.Context, key string) (interface{}, error) {
	result, err := db.client.Do(ctx, "GRAPH.CONFIG", "GET", key).Result()
	if err != nil {
		return nil, err
	}

	if arr, ok := result.([]interface{}); ok && len(arr) >= 2 {
		return arr[1], nil
	}
	return result, nil
}

// ConfigSet sets a server configuration value.
func (db *DB) ConfigSet(ctx context.Context, key string, value interface{}) error {
	return db.client.Do(ctx, "GRAPH.CONFIG", "SET", key, value).Err()
}

// Info returns server information.
// If section is provided, returns information for that specific section.
func (db *DB) Info(ctx context.Context, section ...string) (string, error) {
	args := []interface{}{"INFO"}
	if len(section) > 0 {
		args = append(args, section[0])
	}

	result, err := db.client.Do(ctx, args...).Result()
	if err != nil {
		return "", err
	}

	if s, ok := result.(string); ok {
		return s, nil
	}
	return "", nil
}

// Close closes the connection to the server.
func (db *DB) Close() error {
	return db.client.Close()
}

// Ping verifies the connection to the server is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx).Err()
}

// ensure the default logger is never nil
func defaultLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
