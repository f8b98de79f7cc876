package main

import (
	"fmt"

	"github.com/pkg/errors"

	"jitir/internal/exprop"
	"jitir/internal/exprtree"
	"jitir/internal/ins"
)

// buildCommand constructs a small demonstration tree equivalent to the
// source expression `*addr = a + b`, then prints its structure in
// traversal order. It exists to exercise the arena/traverser API end to
// end, the way a real tiler would consume a lowered tree.
func buildCommand(_ []string) error {
	tree := exprtree.New()

	frame, err := tree.Append(exprop.FRAME, nil, nil, ins.NewRef(ins.OpLoad, "demo.vm", 1))
	if err != nil {
		return errors.Wrap(err, "appending FRAME")
	}
	addr, err := tree.Append(exprop.ADDR, []int{frame}, []exprtree.Cell{8}, ins.NewRef(ins.OpLoad, "demo.vm", 1))
	if err != nil {
		return errors.Wrap(err, "appending ADDR")
	}
	a, err := tree.Append(exprop.CONST, nil, []exprtree.Cell{3, 8}, nil)
	if err != nil {
		return errors.Wrap(err, "appending const a")
	}
	b, err := tree.Append(exprop.CONST, nil, []exprtree.Cell{4, 8}, nil)
	if err != nil {
		return errors.Wrap(err, "appending const b")
	}
	sum, err := tree.Append(exprop.ADD, []int{a, b}, nil, ins.NewRef(ins.OpAdd, "demo.vm", 2))
	if err != nil {
		return errors.Wrap(err, "appending ADD")
	}
	store, err := tree.Append(exprop.STORE, []int{addr, sum}, []exprtree.Cell{8}, ins.NewRef(ins.OpStore, "demo.vm", 2))
	if err != nil {
		return errors.Wrap(err, "appending STORE")
	}
	if err := tree.AddRoot(store); err != nil {
		return errors.Wrap(err, "declaring root")
	}
	if err := tree.VerifyLabels(); err != nil {
		return errors.Wrap(err, "verifying labels")
	}

	fmt.Printf("arena: %d cells, %d roots\n", len(tree.Cells), len(tree.Roots))

	depth := 0
	trav := exprtree.NewTraverser(
		func(t *exprtree.Tree, node int) {
			fmt.Printf("%*s-> %s @%d\n", depth*2, "", t.Op(node), node)
			depth++
		},
		nil,
		func(t *exprtree.Tree, node int) {
			depth--
		},
	)
	trav.Traverse(tree)
	return nil
}
