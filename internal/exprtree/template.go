package exprtree

import (
	"jitir/internal/errors"
	"jitir/internal/exprop"
	"jitir/internal/ins"
)

// TemplateFlag marks properties of a Template's expansion.
type TemplateFlag uint8

const (
	// TemplateValue expansions are pure and may be shared as a child of
	// more than one parent.
	TemplateValue TemplateFlag = 0
	// TemplateDestructive expansions have an observable side effect and
	// must appear as a root.
	TemplateDestructive TemplateFlag = 1 << 0
)

// Template is a compile-time-constant encoded subtree used by the
// graph-to-tree lowering pass to expand a single VM instruction into an
// IR fragment. Code is laid out exactly like a tree arena slice: node
// header (variadic operators pack their actual child count into it),
// children, parameters, repeated for every node in the fragment. Child
// slots that reference a node elsewhere in Code hold a non-negative
// template-local offset; child slots that reference an operand supplied
// by the caller at expansion time hold a negative sentinel produced by
// ExternalOperand.
type Template struct {
	Code  []Cell
	Desc  string
	Len   int32
	Root  int32
	Flags TemplateFlag
}

// NewTemplate builds a Template. root is the offset of the fragment's
// outermost node within code.
func NewTemplate(code []Cell, desc string, root int32, flags TemplateFlag) *Template {
	return &Template{Code: code, Desc: desc, Len: int32(len(code)), Root: root, Flags: flags}
}

func (tm *Template) IsDestructive() bool {
	return tm.Flags&TemplateDestructive != 0
}

// ExternalOperand encodes the k-th external operand placeholder for use
// in a Template's Code (k is 0-based).
func ExternalOperand(k int) Cell {
	return Cell(-(int64(k) + 1))
}

func operandIndex(v Cell) (int, bool) {
	if v >= 0 {
		return 0, false
	}
	return int(-v) - 1, true
}

// Expand copies tmpl's cells into t's arena, relocating template-local
// child offsets by the arena's current length and substituting external
// operand placeholders with the caller-supplied offsets. It returns the
// new root's offset; params embedded in the template flow through
// unchanged. If tmpl is destructive the caller must add the returned
// offset to the tree's roots.
func (t *Tree) Expand(tmpl *Template, operands []int, instr *ins.Ref) (int, error) {
	base := len(t.Cells)
	code := make([]Cell, len(tmpl.Code))
	copy(code, tmpl.Code)

	pos := 0
	for pos < len(code) {
		op := exprop.Op(code[pos])

		if op == exprop.LABEL || op == exprop.BRANCH {
			if idx, external := operandIndex(code[pos+1]); external {
				if idx < 0 || idx >= len(operands) {
					return 0, errors.New(errors.DanglingChild, -1, op.String(), "template operand index out of range")
				}
				code[pos+1] = Cell(operands[idx])
			}
			pos += 2
			continue
		}

		info := exprop.Lookup(op)
		variadic := exprop.IsVariadic(op)
		nchild := int(info.NChild)
		if variadic {
			nchild = int(code[pos] >> 32)
		}
		childStart := pos + 1
		for i := 0; i < nchild; i++ {
			v := code[childStart+i]
			if idx, external := operandIndex(v); external {
				if idx < 0 || idx >= len(operands) {
					return 0, errors.New(errors.DanglingChild, -1, op.String(), "template operand index out of range")
				}
				code[childStart+i] = Cell(operands[idx])
			} else {
				code[childStart+i] = v + Cell(base)
			}
		}
		pos = childStart + nchild + int(info.NArgs)
	}

	if base+len(code) > MaxArenaCells {
		return 0, errors.New(errors.ArenaExhausted, -1, "", "template expansion would exceed MaxArenaCells")
	}
	t.Cells = append(t.Cells, code...)
	t.growInfo()

	pos = 0
	for pos < len(code) {
		nodeOffset := base + pos
		op := exprop.Op(code[pos])
		info := exprop.Lookup(op)
		t.Info[nodeOffset] = newNodeInfo(info, instr)

		if op == exprop.LABEL || op == exprop.BRANCH {
			id := int32(code[pos+1])
			t.Info[nodeOffset].Label = id
			if op == exprop.LABEL {
				t.labelDefs[id] = nodeOffset
			} else {
				t.labelUses[id] = true
			}
			pos += 2
			continue
		}

		variadic := exprop.IsVariadic(op)
		nchild := int(info.NChild)
		if variadic {
			nchild = int(code[pos] >> 32)
		}
		childStart := pos + 1
		pos = childStart + nchild + int(info.NArgs)
	}

	return base + int(tmpl.Root), nil
}
