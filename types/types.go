// Package types defines the shared data structures for the Cheese Gates
// level logic engine. Apart from the small Node constructors this package
// holds no logic.
package types

import "time"

// SignalRule converts the aggregate weight of one slot into a bit.
// When Invert is set the signal reads 1 only for an empty slot and
// Threshold is ignored.
type SignalRule struct {
	Threshold int
	Invert    bool
}

// Op tags the variant held by a Node.
type Op int

const (
	OpRef Op = iota
	OpNot
	OpAnd
	OpOr
)

// Node is one vertex of a circuit expression tree.
// OpRef uses Index; OpNot, OpAnd and OpOr use Args.
type Node struct {
	Op    Op
	Index int
	Args  []Node
}

// Ref returns a node reading the bit of signal i.
func Ref(i int) Node {
	return Node{Op: OpRef, Index: i}
}

// Not returns a node negating child.
func Not(child Node) Node {
	return Node{Op: OpNot, Args: []Node{child}}
}

// And returns a node that is true when every child is true.
func And(children ...Node) Node {
	return Node{Op: OpAnd, Args: children}
}

// Or returns a node that is true when at least one child is true.
func Or(children ...Node) Node {
	return Node{Op: OpOr, Args: children}
}

// LevelSpec is the immutable configuration of one puzzle level.
type LevelSpec struct {
	ID            int
	Name          string
	Signals       []SignalRule // index space referenced by Ref nodes
	Root          Node
	DisplayInvert []bool // cosmetic only, never affects evaluation
	Stones        []int  // weights handed to the spawner
	TimeLimit     time.Duration
	Background    string // circuit image for the renderer
	Fallback      bool   // substituted for a missing or broken level
}

// GameDef holds content metadata.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Start   int // first level ID
}

// Intent is the parsed representation of a playground command.
type Intent struct {
	Verb string
	Args []string
}

// Event is emitted after a state transition.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single playground step or frame.
type Result struct {
	Events []Event
	Output []string
}
