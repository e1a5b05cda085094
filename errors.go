package tftp

import "errors"

// Decode/encode errors from the cursor primitives. Reader and Writer leave
// their cursor unchanged whenever one of these is returned.
var (
	ErrNotEnoughData       = errors.New("tftp: not enough data remaining")
	ErrStringNotTerminated = errors.New("tftp: string is not null-terminated")

	ErrNotEnoughSpace     = errors.New("tftp: not enough space remaining")
	ErrStringNotASCII     = errors.New("tftp: string is not ASCII")
	ErrStringContainsNull = errors.New("tftp: string contains a null byte")
)

// Packet-level decode errors. Use errors.Is against these; the offending
// value is appended to the message, not carried as a separate field.
var (
	ErrInvalidOpCode       = errors.New("tftp: invalid opcode")
	ErrInvalidTransferMode = errors.New("tftp: invalid transfer mode")
	ErrInvalidErrorCode    = errors.New("tftp: invalid error code")
	ErrInvalidOptions      = errors.New("tftp: invalid options")
)
