// Package max77779i2cm drives the I²C master block of the MAX77779 PMIC.
//
// The block is an 8-bit register file: the host stages the target address,
// the bytes to send and the command, then waits for a done or error
// interrupt and collects the received bytes from the RX window.
package max77779i2cm

import (
	"time"

	"fgauge/internal/bitfield"
)

// Register addresses.
const (
	Interrupt   = 0x00
	IntMask     = 0x01
	Status      = 0x02
	Timeout     = 0x03
	Control     = 0x04
	SlAdd       = 0x05
	TxDataCnt   = 0x06
	TxBuffer0   = 0x07
	TxBuffer33  = 0x28
	RxDataCnt   = 0x29
	Cmd         = 0x2A
	RxBuffer0   = 0x2B
	RxBuffer31  = 0x4A
	MaxRegister = RxBuffer31
)

// Field layout of each register.
var (
	DoneI = bitfield.Bit(0) // Interrupt
	ErrI  = bitfield.Bit(1) // Interrupt

	DoneIM = bitfield.Bit(0) // IntMask
	ErrIM  = bitfield.Bit(1) // IntMask

	Error = bitfield.New(0, 7) // Status

	I2CEn      = bitfield.Bit(0)    // Control
	ClockSpeed = bitfield.New(1, 2) // Control

	SlaveID = bitfield.New(0, 7) // SlAdd

	TxCnt = bitfield.New(0, 6) // TxDataCnt
	RxCnt = bitfield.New(0, 5) // RxDataCnt, holds count-1

	I2CMWrite = bitfield.Bit(0) // Cmd
	I2CMRead  = bitfield.Bit(1) // Cmd
)

const (
	MaxWrite = TxBuffer33 - TxBuffer0 + 1
	MaxRead  = RxBuffer31 - RxBuffer0 + 1

	TimeoutDefault           = 0xff
	MaxTimeout               = 0xff
	CompletionTimeoutDefault = 20 * time.Millisecond
	MaxSpeed                 = 0x03
	SpeedDefault             = 0x00
)

// DefaultAddr is the I²C address of the I2CM register block.
const DefaultAddr = 0x69
