package exprtree

import (
	"jitir/internal/exprop"
	"jitir/internal/ins"
)

// TileHandle is whatever the tile table associates with a matched subtree.
// The tile table and tile-matcher algorithm live outside this core; the
// tree only reserves a slot for the tiler to write into.
type TileHandle interface{}

// NodeInfo is the symbol-table entry carried alongside every node, indexed
// by the same arena offset as the node's header cell. It is populated
// incrementally: Op/Instr/LocalAddr at construction time, Tile/TileState/
// TileRule/Label by the tiler, Value by the register allocator.
type NodeInfo struct {
	Op        *exprop.Info
	Instr     *ins.Ref
	LocalAddr int32 // VM local materialized by this node, -1 if none

	Tile      TileHandle
	TileState int32
	TileRule  int32

	Label int32 // internal label for IF/WHEN/ALL/ANY lowering, -1 if unset

	Value Value
}

func newNodeInfo(op *exprop.Info, instr *ins.Ref) NodeInfo {
	return NodeInfo{
		Op:        op,
		Instr:     instr,
		LocalAddr: -1,
		Label:     -1,
		Value:     newValue(op.Result),
	}
}
