package exprtree

import (
	"jitir/internal/errors"
	"jitir/internal/exprop"
)

// ValueState is where in its lifecycle a node's value descriptor sits.
// The expression tree layer only declares the descriptor; the register
// allocator is the sole writer of State, Reg, Mem, SpillSlot and the use
// statistics below.
type ValueState uint8

const (
	Empty ValueState = iota
	Allocated
	Spilled
	Dead
)

func (s ValueState) String() string {
	switch s {
	case Empty:
		return "EMPTY"
	case Allocated:
		return "ALLOCATED"
	case Spilled:
		return "SPILLED"
	case Dead:
		return "DEAD"
	default:
		return "?"
	}
}

// MemLoc is a register-indirect memory operand: base + index*scale.
type MemLoc struct {
	Base  int8
	Index int8
	Scale int8
}

// RegLoc names a physical register by class and number; the meaning of
// both is owned entirely by the register allocator and emitter.
type RegLoc struct {
	Class int8
	Num   int8
}

// naturalSize returns the byte width implied by a node's result kind, used
// to seed a freshly tiled value descriptor.
func naturalSize(kind exprop.ValueType) int8 {
	switch kind {
	case exprop.REG:
		return 8
	case exprop.MEM, exprop.PTR:
		return 8
	case exprop.INT:
		return 8
	case exprop.NUM:
		return 8
	default:
		return 0
	}
}

// Value is the register-allocation value descriptor attached to each node
// info entry. Exactly one of Mem, Reg, Label or Const is meaningful,
// selected by Kind.
type Value struct {
	State ValueState
	Kind  exprop.ValueType

	Mem   MemLoc
	Reg   RegLoc
	Label int32
	Const int64

	Size          int8
	SpillSlot     int16
	OrderNr       int32
	RegPressure   int32 // reg_req; see design notes on conditional propagation
	FirstUse      int32
	LastUse       int32
	UseCount      int32
}

func newValue(kind exprop.ValueType) Value {
	return Value{State: Empty, Kind: kind, Size: naturalSize(kind)}
}

// Allocate transitions EMPTY -> ALLOCATED, recording the chosen register.
func (v *Value) Allocate(reg RegLoc) error {
	if v.State != Empty {
		return errors.New(errors.MalformedOperand, -1, "", "value descriptor: allocate requires EMPTY state, got "+v.State.String())
	}
	v.State = Allocated
	v.Reg = reg
	return nil
}

// Spill transitions ALLOCATED -> SPILLED, recording the spill slot.
func (v *Value) Spill(slot int16) error {
	if v.State != Allocated {
		return errors.New(errors.MalformedOperand, -1, "", "value descriptor: spill requires ALLOCATED state, got "+v.State.String())
	}
	v.State = Spilled
	v.SpillSlot = slot
	return nil
}

// Reload transitions SPILLED -> ALLOCATED, recording the reload register.
// This is the one reverse transition the protocol allows.
func (v *Value) Reload(reg RegLoc) error {
	if v.State != Spilled {
		return errors.New(errors.MalformedOperand, -1, "", "value descriptor: reload requires SPILLED state, got "+v.State.String())
	}
	v.State = Allocated
	v.Reg = reg
	return nil
}

// Kill transitions ALLOCATED or SPILLED -> DEAD after the node's last use.
func (v *Value) Kill() error {
	if v.State != Allocated && v.State != Spilled {
		return errors.New(errors.MalformedOperand, -1, "", "value descriptor: kill requires ALLOCATED or SPILLED state, got "+v.State.String())
	}
	v.State = Dead
	return nil
}
