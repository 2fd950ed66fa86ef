// Package redis provides the Redis connection layer for the GravlDB client.
package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the connection abstraction the rest of the library depends on:
// execute a command, get a reply, close.
type Client interface {
	Do(ctx context.Context, args ...interface{}) *redis.Cmd
	Close() error
	Ping(ctx context.Context) *redis.StatusCmd
}

// Options configures the Redis connection.
type Options struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
}

// NewClient connects to addr and returns a client for whatever topology
// answers there: a sentinel redirects to its master, a cluster node gets a
// cluster client, anything else is treated as standalone.
func NewClient(ctx context.Context, opts *Options) (Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	info, err := client.Info(ctx, "server").Result()
	if err == nil && redisMode(info) == "sentinel" {
		return newSentinelClient(ctx, client, opts)
	}

	if redisMode(info) == "cluster" {
		client.Close()
		return newClusterClient(ctx, opts)
	}

	return &singleClient{client: client}, nil
}

// redisMode extracts the redis_mode field from an INFO server reply.
func redisMode(info string) string {
	for _, line := range strings.Split(info, "\n") {
		if rest, found := strings.CutPrefix(line, "redis_mode:"); found {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

type singleClient struct {
	client *redis.Client
}

func (c *singleClient) Do(ctx context.Context, args ...interface{}) *redis.Cmd {
	return c.client.Do(ctx, args...)
}

func (c *singleClient) Close() error {
	return c.client.Close()
}

func (c *singleClient) Ping(ctx context.Context) *redis.StatusCmd {
	return c.client.Ping(ctx)
}

func newClusterClient(ctx context.Context, opts *Options) (Client, error) {
	client := redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:        []string{opts.Addr},
		Password:     opts.Password,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &clusterClient{client: client}, nil
}

type clusterClient struct {
	client *redis.ClusterClient
}

func (c *clusterClient) Do(ctx context.Context, args ...interface{}) *redis.Cmd {
	return c.client.Do(ctx, args...)
}

func (c *clusterClient) Close() error {
	return c.client.Close()
}

func (c *clusterClient) Ping(ctx context.Context) *redis.StatusCmd {
	return c.client.Ping(ctx)
}

// newSentinelClient asks the sentinel for its masters and connects to the
// first one directly.
func newSentinelClient(ctx context.Context, sentinel *redis.Client, opts *Options) (Client, error) {
	masters, err := sentinel.Do(ctx, "SENTINEL", "MASTERS").Result()
	if err != nil {
		return nil, err
	}

	masterAddr := parseMasterAddr(masters)
	if masterAddr == "" {
		// Not actually a sentinel after all
		return &singleClient{client: sentinel}, nil
	}

	sentinel.Close()

	client := redis.NewClient(&redis.Options{
		Addr:         masterAddr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &singleClient{client: client}, nil
}

func parseMasterAddr(masters interface{}) string {
	arr, ok := masters.([]interface{})
	if !ok || len(arr) == 0 {
		return ""
	}

	master, ok := arr[0].([]interface{})
	if !ok {
		return ""
	}

	// SENTINEL MASTERS replies with flat key-value pairs
	var ip, port string
	for i := 0; i < len(master)-1; i += 2 {
		key, _ := master[i].(string)
		val, _ := master[i+1].(string)
		switch key {
		case "ip":
			ip = val
		case "port":
			port = val
		}
	}

	if ip != "" && port != "" {
		return ip + ":" + port
	}
	return ""
}
