// Package proto handles GravlDB protocol encoding and decoding.
package proto

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// BuildQueryArgs constructs the arguments for a GRAPH.QUERY or GRAPH.RO_QUERY command.
func BuildQueryArgs(cmd, graph, query string, params map[string]interface{}, timeout int, compact bool) []interface{} {
	args := []interface{}{cmd, graph}

	// Prefix the query with a CYPHER params header if provided
	if len(params) > 0 {
		query = fmt.Sprintf("CYPHER %s %s", paramsToString(params), query)
	}

	args = append(args, query)

	if timeout > 0 {
		args = append(args, "TIMEOUT", strconv.Itoa(timeout))
	}

	if compact {
		args = append(args, "--compact")
	}

	return args
}

// BuildConstraintArgs constructs arguments for GRAPH.CONSTRAINT commands.
func BuildConstraintArgs(action, graph string, constraintType, entityType, label string, properties []string) []interface{} {
	args := []interface{}{
		"GRAPH.CONSTRAINT",
		action,
		graph,
		constraintType,
		entityType,
		label,
		"PROPERTIES",
		len(properties),
	}
	for _, prop := range properties {
		args = append(args, prop)
	}
	return args
}

// paramsToString converts query parameters to the Cypher parameter header format.
// Keys are emitted in sorted order so the generated query string is stable.
func paramsToString(params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", key, ValueToString(params[key])))
	}
	return strings.Join(parts, " ")
}

// QuoteString wraps v in double quotes if it is a string, escaping any
// embedded quotes and backslashes. Non-string values are rendered as-is;
// query-language strings must be quoted but numbers and booleans must not.
func QuoteString(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		if b, isBytes := v.([]byte); isBytes {
			s = string(b)
		} else {
			return fmt.Sprint(v)
		}
	}

	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return `"` + s + `"`
}

// ValueToString converts a parameter value to its Cypher string representation.
func ValueToString(param interface{}) string {
	if param == nil {
		return "null"
	}

	switch v := param.(type) {
	case string:
		return QuoteString(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)
	case float32, float64:
		return fmt.Sprint(v)
	case bool:
		return fmt.Sprint(v)
	case []interface{}:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = ValueToString(item)
		}
		return fmt.Sprintf("[%s]", strings.Join(items, ","))
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		items := make([]string, len(keys))
		for i, key := range keys {
			items[i] = fmt.Sprintf("%s:%s", key, ValueToString(v[key]))
		}
		return fmt.Sprintf("{%s}", strings.Join(items, ","))
	default:
		return fmt.Sprint(v)
	}
}
