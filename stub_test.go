package gravl

import (
	"context"
	"io"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
)

// stubClient satisfies the internal redis client interface with canned
// replies, so decoding and schema behavior can be tested offline.
type stubClient struct {
	do    func(args ...interface{}) (interface{}, error)
	calls [][]interface{}
}

func (c *stubClient) Do(ctx context.Context, args ...interface{}) *goredis.Cmd {
	c.calls = append(c.calls, args)
	cmd := goredis.NewCmd(ctx, args...)
	if c.do != nil {
		val, err := c.do(args...)
		if err != nil {
			cmd.SetErr(err)
		} else {
			cmd.SetVal(val)
		}
	}
	return cmd
}

func (c *stubClient) Close() error {
	return nil
}

func (c *stubClient) Ping(ctx context.Context) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

// queryArg returns the query string of a recorded call, or "".
func queryArg(call []interface{}) string {
	if len(call) < 3 {
		return ""
	}
	q, _ := call[2].(string)
	return q
}

func testGraph(stub *stubClient) *Graph {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newGraph("test", stub, logger)
}

// cell builds a compact [tag, payload] pair.
func cell(tag ValueType, payload interface{}) []interface{} {
	return []interface{}{int64(tag), payload}
}

// procReply builds a compact reply for a schema procedure returning one
// string column.
func procReply(column string, names ...string) []interface{} {
	rows := make([]interface{}, len(names))
	for i, name := range names {
		rows[i] = []interface{}{cell(ValueTypeString, name)}
	}
	return []interface{}{
		[]interface{}{[]interface{}{int64(1), column}},
		rows,
		[]interface{}{"Cached execution: 1", "internal execution time: 0.05 milliseconds"},
	}
}

// statsOnlyReply builds a compact reply for a write-only query.
func statsOnlyReply(stats ...string) []interface{} {
	footer := make([]interface{}, len(stats))
	for i, s := range stats {
		footer[i] = s
	}
	return []interface{}{footer}
}
