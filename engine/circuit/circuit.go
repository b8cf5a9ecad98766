// Package circuit evaluates AND/OR/NOT expression trees over signal bits.
package circuit

import (
	"sort"
	"strconv"
	"strings"

	"github.com/nathoo/cheesegates/types"
)

// MaxDepth bounds the nesting of a circuit. Level content is hand written,
// so anything near this limit is a mistake rather than a real puzzle.
const MaxDepth = 256

// Evaluate reduces node to a single boolean using bits as signal values.
// A Ref outside bits returns an *IndexError instead of reading as 0.
func Evaluate(node types.Node, bits []int) (bool, error) {
	return eval(node, bits, 1)
}

func eval(node types.Node, bits []int, depth int) (bool, error) {
	if depth > MaxDepth {
		return false, ErrTooDeep
	}

	switch node.Op {
	case types.OpRef:
		if node.Index < 0 || node.Index >= len(bits) {
			return false, &IndexError{Index: node.Index, Len: len(bits)}
		}
		return bits[node.Index] == 1, nil

	case types.OpNot:
		if len(node.Args) != 1 {
			return false, configErr("NOT takes exactly one argument, got %d", len(node.Args))
		}
		v, err := eval(node.Args[0], bits, depth+1)
		if err != nil {
			return false, err
		}
		return !v, nil

	case types.OpAnd:
		if len(node.Args) == 0 {
			return false, configErr("AND with no arguments")
		}
		for _, arg := range node.Args {
			v, err := eval(arg, bits, depth+1)
			if err != nil {
				return false, err
			}
			if !v {
				return false, nil
			}
		}
		return true, nil

	case types.OpOr:
		if len(node.Args) == 0 {
			return false, configErr("OR with no arguments")
		}
		for _, arg := range node.Args {
			v, err := eval(arg, bits, depth+1)
			if err != nil {
				return false, err
			}
			if v {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, configErr("unknown operator %d", int(node.Op))
	}
}

// Validate checks the whole tree against a level with numSignals signals.
// Unlike Evaluate it visits every branch, so a level that passes Validate
// can never fail during gameplay.
func Validate(node types.Node, numSignals int) error {
	return validate(node, numSignals, 1)
}

func validate(node types.Node, numSignals int, depth int) error {
	if depth > MaxDepth {
		return ErrTooDeep
	}

	switch node.Op {
	case types.OpRef:
		if node.Index < 0 || node.Index >= numSignals {
			return &IndexError{Index: node.Index, Len: numSignals}
		}
		return nil
	case types.OpNot:
		if len(node.Args) != 1 {
			return configErr("NOT takes exactly one argument, got %d", len(node.Args))
		}
	case types.OpAnd, types.OpOr:
		if len(node.Args) == 0 {
			return configErr("%s with no arguments", OpName(node.Op))
		}
	default:
		return configErr("unknown operator %d", int(node.Op))
	}

	for _, arg := range node.Args {
		if err := validate(arg, numSignals, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// OpName returns the content-file spelling of op.
func OpName(op types.Op) string {
	switch op {
	case types.OpRef:
		return "REF"
	case types.OpNot:
		return "NOT"
	case types.OpAnd:
		return "AND"
	case types.OpOr:
		return "OR"
	default:
		return "OP(" + strconv.Itoa(int(op)) + ")"
	}
}

// ParseOp maps a content-file operator name to its Op. Matching is
// case-insensitive, as level files were written by hand.
func ParseOp(name string) (types.Op, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "NOT":
		return types.OpNot, true
	case "AND":
		return types.OpAnd, true
	case "OR":
		return types.OpOr, true
	default:
		return 0, false
	}
}

// Format renders node as e.g. "AND(OR(0, 1), NOT(2))".
func Format(node types.Node) string {
	var b strings.Builder
	format(&b, node)
	return b.String()
}

func format(b *strings.Builder, node types.Node) {
	if node.Op == types.OpRef {
		b.WriteString(strconv.Itoa(node.Index))
		return
	}
	b.WriteString(OpName(node.Op))
	b.WriteByte('(')
	for i, arg := range node.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		format(b, arg)
	}
	b.WriteByte(')')
}

// Refs returns the sorted, de-duplicated signal indices referenced by node.
func Refs(node types.Node) []int {
	seen := map[int]bool{}
	collectRefs(node, seen, 1)
	refs := make([]int, 0, len(seen))
	for i := range seen {
		refs = append(refs, i)
	}
	sort.Ints(refs)
	return refs
}

func collectRefs(node types.Node, seen map[int]bool, depth int) {
	if depth > MaxDepth {
		return
	}
	if node.Op == types.OpRef {
		seen[node.Index] = true
		return
	}
	for _, arg := range node.Args {
		collectRefs(arg, seen, depth+1)
	}
}
