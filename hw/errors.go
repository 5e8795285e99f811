package hw

import (
	"errors"
	"fmt"
)

var (
	ErrAddressDecode        = errors.New("address decode")
	ErrOpcodeNotImplemented = errors.New("opcode not implemented")
)

// AddressDecodeError is returned when the bits of an opcode do not encode any
// addressing mode.
type AddressDecodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *AddressDecodeError) Error() string {
	return fmt.Sprintf("cannot decode addressing mode of opcode $%02X at $%04X", e.Opcode, e.PC)
}

func (e *AddressDecodeError) Is(target error) bool { return target == ErrAddressDecode }

// OpcodeNotImplementedError is returned for opcodes without a handler, that
// is the unstable undocumented opcodes.
type OpcodeNotImplementedError struct {
	Opcode uint8
	PC     uint16
}

func (e *OpcodeNotImplementedError) Error() string {
	return fmt.Sprintf("opcode $%02X at $%04X is not implemented", e.Opcode, e.PC)
}

func (e *OpcodeNotImplementedError) Is(target error) bool { return target == ErrOpcodeNotImplemented }
