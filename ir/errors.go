package ir

import (
	"github.com/sarchlab/armjit/cpu"
	"tlog.app/go/errors"
)

func errValueStillUsed(id ValueID) error {
	return errors.New("value %d still has live uses", id)
}

func errValueOutOfRange(id ValueID) error {
	return errors.New("value %d is past the end of the block", id)
}

func errArgCount(op Op, want, got int) error {
	return errors.New("%v expects %d arguments, got %d", op, want, got)
}

func errArgType(op Op, index int, want, got Type) error {
	return errors.New("%v argument %d: expected type %d, got %d", op, index, want, got)
}

func errWriteFlagsWiden(op Op, want, allowed cpu.Flags) error {
	return errors.New("%v: cannot widen write flags to %v (default %v)", op, want, allowed)
}
