// Package exprtree implements the expression tree intermediate
// representation: a node-packed arena, root list, and parallel node-info
// array, together with the traverser and template-expansion machinery
// that sit on top of it.
package exprtree

import (
	"jitir/internal/errors"
	"jitir/internal/exprop"
	"jitir/internal/ins"
)

// MaxArenaCells bounds how large a single tree's arena may grow. It exists
// so resource exhaustion has somewhere to fail instead of growing
// unboundedly; it is generous enough that no real basic block lowering
// should ever approach it.
const MaxArenaCells = 1 << 24

// Cell is one machine-word-sized arena slot: an opcode ordinal, a child
// offset, or a raw parameter word, depending on its position in a node.
type Cell = int64

// Tree is an append-only node arena plus its roots and parallel node-info
// array. A tree is owned exclusively by whichever compilation task holds
// it during construction and tiling; concurrent read-only traversal by
// multiple tilers is fine, concurrent mutation is not.
type Tree struct {
	Cells []Cell
	Roots []int
	Info  []NodeInfo

	nextLabel   int32
	labelDefs   map[int32]int // label id -> defining LABEL node offset
	labelUses   map[int32]bool
}

// New returns an empty tree ready for lowering to append into.
func New() *Tree {
	return &Tree{
		labelDefs: make(map[int32]int),
		labelUses: make(map[int32]bool),
	}
}

// expectedChildVType reports the result type a given child position is
// constrained to, if any. Positions not covered accept any result type,
// VOID included (DO/ARGLIST/CARG/STORE's value slot and similar are
// deliberately left unconstrained; ARGLIST's CARG children are VOID).
func expectedChildVType(op exprop.Op, idx int) (exprop.ValueType, bool) {
	switch op {
	case exprop.LOAD, exprop.STORE, exprop.ADDR, exprop.IDX:
		if idx == 0 {
			return exprop.MEM, true
		}
	case exprop.IF, exprop.WHEN, exprop.EITHER:
		if idx == 0 {
			return exprop.FLAG, true
		}
	case exprop.ALL, exprop.ANY:
		return exprop.FLAG, true
	}
	return 0, false
}

// width computes the arena footprint of a node given its actual child
// count: header, children, parameters. For variadic operators the
// actual count is packed into the header word itself (see makeHeader),
// not a separate cell, so this holds uniformly: width(n) == 1 +
// nchild(n) + nargs(n).
func width(op exprop.Op, actualNChild int) int {
	info := exprop.Lookup(op)
	return 1 + actualNChild + int(info.NArgs)
}

// makeHeader packs a node's opcode into the low 32 bits of its header
// cell. Variadic operators additionally pack their actual child count
// into the high 32 bits, since the operator table has no fixed arity to
// fall back on for them.
func makeHeader(op exprop.Op, actualNChild int) Cell {
	h := Cell(op)
	if exprop.IsVariadic(op) {
		h |= Cell(actualNChild) << 32
	}
	return h
}

func (t *Tree) childCount(node int) int {
	op := exprop.Op(t.Cells[node])
	if exprop.IsVariadic(op) {
		return int(t.Cells[node] >> 32)
	}
	return int(exprop.Lookup(op).NChild)
}

func (t *Tree) childrenStart(node int) int {
	return node + 1
}

// Child returns the arena offset of node's idx-th child.
func (t *Tree) Child(node, idx int) int {
	return int(t.Cells[t.childrenStart(node)+idx])
}

// Op returns the opcode of the node at offset.
func (t *Tree) Op(node int) exprop.Op {
	return exprop.Op(t.Cells[node])
}

func (t *Tree) growInfo() {
	for len(t.Info) < len(t.Cells) {
		t.Info = append(t.Info, NodeInfo{})
	}
}

// Append adds a new node to the arena and returns its offset. children
// must already be present in the arena (construction is forward-only);
// params must have exactly as many entries as the operator table
// declares for op. LABEL and BRANCH nodes are constructed with
// AppendLabel/AppendBranch instead, since their single slot carries a
// label id rather than a child reference.
func (t *Tree) Append(op exprop.Op, children []int, params []Cell, instr *ins.Ref) (int, error) {
	if op == exprop.LABEL || op == exprop.BRANCH {
		return 0, errors.New(errors.MalformedArity, -1, op.String(), "use AppendLabel/AppendBranch for label-carrying operators")
	}
	info := exprop.Lookup(op)
	variadic := exprop.IsVariadic(op)

	if !variadic && len(children) != int(info.NChild) {
		return 0, errors.New(errors.MalformedArity, -1, op.String(), "wrong child count")
	}
	if len(params) != int(info.NArgs) {
		return 0, errors.New(errors.MalformedArity, -1, op.String(), "wrong parameter count")
	}

	for i, c := range children {
		if c < 0 || c >= len(t.Cells) {
			return 0, errors.New(errors.DanglingChild, -1, op.String(), "child offset outside arena")
		}
		if want, constrained := expectedChildVType(op, i); constrained {
			got := t.Info[c].Op.Result
			if got != want {
				return 0, errors.New(errors.MalformedOperand, -1, op.String(),
					"child "+exprop.Op(t.Cells[c]).String()+" has result "+got.String()+", expected "+want.String())
			}
		}
	}
	if op == exprop.CALL {
		if len(children) > 1 && exprop.Op(t.Cells[children[1]]) != exprop.ARGLIST {
			return 0, errors.New(errors.MalformedOperand, -1, op.String(), "CALL's second child must be an ARGLIST node")
		}
	}
	if op == exprop.ARGLIST {
		for _, c := range children {
			if exprop.Op(t.Cells[c]) != exprop.CARG {
				return 0, errors.New(errors.MalformedOperand, -1, op.String(), "ARGLIST children must be CARG nodes")
			}
		}
	}

	n := width(op, len(children))
	if len(t.Cells)+n > MaxArenaCells {
		return 0, errors.New(errors.ArenaExhausted, -1, op.String(), "arena growth would exceed MaxArenaCells")
	}

	offset := len(t.Cells)
	t.Cells = append(t.Cells, makeHeader(op, len(children)))
	for _, c := range children {
		t.Cells = append(t.Cells, Cell(c))
	}
	for _, p := range params {
		t.Cells = append(t.Cells, p)
	}
	t.growInfo()
	t.Info[offset] = newNodeInfo(info, instr)
	return offset, nil
}

// NewLabel reserves a fresh internal label id, for BRANCH targets and
// LABEL definitions that the tiler or lowering pass introduces.
func (t *Tree) NewLabel() int32 {
	id := t.nextLabel
	t.nextLabel++
	return id
}

// AppendLabel defines label id at a new LABEL node. Defining the same id
// twice is a malformed-IR condition caught at construction time.
func (t *Tree) AppendLabel(id int32, instr *ins.Ref) (int, error) {
	if _, dup := t.labelDefs[id]; dup {
		return 0, errors.New(errors.DuplicateLabel, -1, "LABEL", "label already defined")
	}
	info := exprop.Lookup(exprop.LABEL)
	offset := len(t.Cells)
	t.Cells = append(t.Cells, Cell(exprop.LABEL), Cell(id))
	t.growInfo()
	t.Info[offset] = newNodeInfo(info, instr)
	t.Info[offset].Label = id
	t.labelDefs[id] = offset
	return offset, nil
}

// AppendBranch references label id as a BRANCH target. The label may be
// defined later in construction (forward jump); VerifyLabels checks that
// every referenced id eventually resolves to exactly one definition.
func (t *Tree) AppendBranch(id int32, instr *ins.Ref) (int, error) {
	info := exprop.Lookup(exprop.BRANCH)
	offset := len(t.Cells)
	t.Cells = append(t.Cells, Cell(exprop.BRANCH), Cell(id))
	t.growInfo()
	t.Info[offset] = newNodeInfo(info, instr)
	t.Info[offset].Label = id
	t.labelUses[id] = true
	return offset, nil
}

// VerifyLabels checks invariant (ii): every BRANCH-referenced label id
// resolves to exactly one LABEL definition somewhere in the tree. Call
// this once construction of the tree (all blocks, all forward jumps) is
// complete.
func (t *Tree) VerifyLabels() error {
	for id := range t.labelUses {
		if _, ok := t.labelDefs[id]; !ok {
			return errors.New(errors.MissingLabel, -1, "BRANCH", "no LABEL defines the referenced id")
		}
	}
	return nil
}

// AddRoot declares offset as a root: a side-effectful subtree that must
// execute. Roots are a strict subset of node offsets.
func (t *Tree) AddRoot(offset int) error {
	if offset < 0 || offset >= len(t.Cells) {
		return errors.New(errors.DanglingChild, offset, "", "root offset outside arena")
	}
	t.Roots = append(t.Roots, offset)
	return nil
}
