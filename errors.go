package gravl

import (
	"errors"
	"fmt"

	"github.com/gravldb/gravl-go/internal/proto"
)

// ErrCorruptedPlan is returned when an execution plan's indentation jumps
// more than one level at a time.
var ErrCorruptedPlan = errors.New("corrupted plan")

// VersionMismatchError signals that the client's view of the graph schema
// is stale relative to the server. It is recoverable: refresh the schema
// to the carried version and re-issue the query. Graph.Query does this
// automatically, so callers normally never see it.
type VersionMismatchError struct {
	Version int64
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("graph schema version mismatch (server version %d)", e.Version)
}

// SchemaDesyncError is returned when a schema index still cannot be
// resolved after a refresh. Unlike a version mismatch this is not
// recoverable; it indicates a corrupted response or a desynced server.
type SchemaDesyncError struct {
	Kind  string // "label", "relationship type" or "property key"
	Index int
}

func (e *SchemaDesyncError) Error() string {
	return fmt.Sprintf("no %s at index %d after refresh", e.Kind, e.Index)
}

// DecodeError is returned when a compact result cell is structurally
// malformed: wrong arity, an unparsable payload, or a nested shape the
// tag does not allow.
type DecodeError struct {
	Tag ValueType
	Msg string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode value (tag %d): %s", e.Tag, e.Msg)
}

func decodeErrorf(tag ValueType, format string, args ...interface{}) error {
	return &DecodeError{Tag: tag, Msg: fmt.Sprintf(format, args...)}
}

// checkResponseErrors inspects a raw query reply for embedded error
// elements. The first element carrying the literal message
// "version mismatch" is the one structured error the server produces; it
// is followed by the server's current schema version. Any other error
// element, first or last (a runtime failure after partial results), is
// returned verbatim.
func checkResponseErrors(response []interface{}) error {
	if len(response) == 0 {
		return nil
	}

	if err, ok := response[0].(error); ok {
		if err.Error() == "version mismatch" && len(response) > 1 {
			return &VersionMismatchError{Version: proto.ToInt64(response[1])}
		}
		return err
	}

	if err, ok := response[len(response)-1].(error); ok {
		return err
	}

	return nil
}
