package gravl

import (
	"regexp"
	"strconv"
	"strings"
)

// planIndent is the indentation unit encoding tree depth in plan text.
const planIndent = "    "

var (
	recordsProducedRe = regexp.MustCompile(`Records produced: (\d+)`)
	executionTimeRe   = regexp.MustCompile(`Execution time: (\d+\.\d+) ms`)
)

// ProfileStats holds the runtime statistics of a profiled operation.
type ProfileStats struct {
	// RecordsProduced is the number of records the operation produced.
	RecordsProduced int

	// ExecutionTime is the operation's execution time in milliseconds.
	ExecutionTime float64
}

// Operation is a single operator node in an execution plan tree.
type Operation struct {
	// Name is the operator name, e.g. "Node By Label Scan".
	Name string

	// Args is the operator's free-text arguments, if any.
	Args string

	// ProfileStats is set only for plans produced by GRAPH.PROFILE.
	ProfileStats *ProfileStats

	children []*Operation
}

// NewOperation creates an operation with the given name and arguments.
func NewOperation(name, args string) *Operation {
	return &Operation{Name: name, Args: args}
}

// AppendChild adds a child operation and returns the receiver.
func (op *Operation) AppendChild(child *Operation) *Operation {
	op.children = append(op.children, child)
	return op
}

// Children returns the child operations in order.
func (op *Operation) Children() []*Operation {
	return op.children
}

// ChildCount returns the number of child operations.
func (op *Operation) ChildCount() int {
	return len(op.children)
}

// Equal compares two operations by name and arguments; children are not
// considered. Use ExecutionPlan.Equal for whole-tree comparison.
func (op *Operation) Equal(other *Operation) bool {
	if op == nil || other == nil {
		return op == other
	}
	return op.Name == other.Name && op.Args == other.Args
}

// String renders the operation as it appears in plan text.
func (op *Operation) String() string {
	if op.Args == "" {
		return op.Name
	}
	return op.Name + " | " + op.Args
}

// ExecutionPlan is a tree of operations describing how a query will be
// (or was) evaluated, reconstructed from the server's indented plan text.
type ExecutionPlan struct {
	lines []string
	root  *Operation

	// ops indexes operations by name, in document order.
	ops map[string][]*Operation
}

// NewExecutionPlan parses plan lines into an operation tree. Each line's
// depth is its leading indentation in four-space units; a line indented
// more than one level past its predecessor means the plan text is
// corrupted and parsing fails with ErrCorruptedPlan.
func NewExecutionPlan(lines []string) (*ExecutionPlan, error) {
	if len(lines) == 0 {
		return nil, ErrCorruptedPlan
	}

	plan := &ExecutionPlan{
		lines: lines,
		ops:   make(map[string][]*Operation),
	}

	// stack[d] is the most recent operation seen at depth d
	var stack []*Operation

	for _, line := range lines {
		depth := indentDepth(line)
		if depth > len(stack) {
			return nil, ErrCorruptedPlan
		}

		op := parsePlanLine(line)
		plan.ops[op.Name] = append(plan.ops[op.Name], op)

		if len(stack) == 0 {
			plan.root = op
			stack = append(stack, op)
			continue
		}

		parent := stack[max(depth-1, 0)]
		parent.AppendChild(op)
		stack = append(stack[:depth], op)
	}

	return plan, nil
}

// parsePlanLine splits a plan line into name, optional args and an
// optional trailing profiling annotation.
func parsePlanLine(line string) *Operation {
	fields := strings.Split(strings.TrimLeft(line, " "), "|")
	op := &Operation{Name: strings.TrimSpace(fields[0])}
	fields = fields[1:]

	if len(fields) > 0 && strings.Contains(fields[len(fields)-1], "Records produced") {
		annotation := fields[len(fields)-1]
		fields = fields[:len(fields)-1]

		stats := &ProfileStats{}
		if m := recordsProducedRe.FindStringSubmatch(annotation); m != nil {
			stats.RecordsProduced, _ = strconv.Atoi(m[1])
		}
		if m := executionTimeRe.FindStringSubmatch(annotation); m != nil {
			stats.ExecutionTime, _ = strconv.ParseFloat(m[1], 64)
		}
		op.ProfileStats = stats
	}

	if len(fields) > 0 {
		op.Args = strings.TrimSpace(fields[0])
	}

	return op
}

// indentDepth returns the line's depth in four-space units.
func indentDepth(line string) int {
	spaces := len(line) - len(strings.TrimLeft(line, " "))
	return spaces / len(planIndent)
}

// Root returns the root operation of the plan tree.
func (p *ExecutionPlan) Root() *Operation {
	return p.root
}

// Lines returns the raw plan text the tree was parsed from.
func (p *ExecutionPlan) Lines() []string {
	return p.lines
}

// CollectOperations returns every operation with the given name, in
// document order, without re-walking the tree.
func (p *ExecutionPlan) CollectOperations(name string) []*Operation {
	return p.ops[name]
}

// Equal reports structural equality of two plans: same name and args at
// every node, same child count, children compared in order.
func (p *ExecutionPlan) Equal(other *ExecutionPlan) bool {
	if p == nil || other == nil {
		return p == other
	}
	return compareOperations(p.root, other.root)
}

func compareOperations(a, b *Operation) bool {
	if !a.Equal(b) {
		return false
	}

	if a.ChildCount() != b.ChildCount() {
		return false
	}

	for i := range a.children {
		if !compareOperations(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

// String renders the plan tree back into indented plan text.
func (p *ExecutionPlan) String() string {
	var sb strings.Builder
	writeOperation(&sb, p.root, 0)
	return sb.String()
}

func writeOperation(sb *strings.Builder, op *Operation, depth int) {
	if depth > 0 || sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat(planIndent, depth))
	sb.WriteString(op.String())
	for _, child := range op.children {
		writeOperation(sb, child, depth+1)
	}
}
