package max77779i2cm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrArbitrationLoss = errors.New("arbitration loss")
	ErrTimeout         = errors.New("bus timeout")
	ErrAddressNACK     = errors.New("address nack")
	ErrDataNACK        = errors.New("data nack")
	ErrRxFIFONA        = errors.New("rx fifo not available")
	ErrStartOutOfSeq   = errors.New("start out of sequence")
	ErrStopOutOfSeq    = errors.New("stop out of sequence")
)

// ErrorStatus is the Error field of the Status register. Each bit is an
// independent condition; several may be set at once.
type ErrorStatus uint8

var statusErrs = [...]error{
	ErrArbitrationLoss,
	ErrTimeout,
	ErrAddressNACK,
	ErrDataNACK,
	ErrRxFIFONA,
	ErrStartOutOfSeq,
	ErrStopOutOfSeq,
}

func (s ErrorStatus) bit(n uint) bool { return s&(1<<n) != 0 }

func (s ErrorStatus) ArbitrationLoss() bool { return s.bit(0) }
func (s ErrorStatus) Timeout() bool         { return s.bit(1) }
func (s ErrorStatus) AddressNACK() bool     { return s.bit(2) }
func (s ErrorStatus) DataNACK() bool        { return s.bit(3) }
func (s ErrorStatus) RxFIFONA() bool        { return s.bit(4) }
func (s ErrorStatus) StartOutOfSeq() bool   { return s.bit(5) }
func (s ErrorStatus) StopOutOfSeq() bool    { return s.bit(6) }

// Err returns every condition flagged in s joined together, or nil.
// errors.Is matches each of them.
func (s ErrorStatus) Err() error {
	var errs []error
	for i, e := range statusErrs {
		if s.bit(uint(i)) {
			errs = append(errs, e)
		}
	}
	return errors.Join(errs...)
}

func (s ErrorStatus) String() string {
	if s&0x7f == 0 {
		return "ok"
	}
	var parts []string
	for i, e := range statusErrs {
		if s.bit(uint(i)) {
			parts = append(parts, e.Error())
		}
	}
	return strings.Join(parts, "|")
}

// TransferError is returned when the controller raises its error interrupt.
type TransferError struct {
	Addr   uint16
	Status ErrorStatus
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("i2cm: transfer to 0x%02x failed: %s", e.Addr, e.Status)
}

func (e *TransferError) Unwrap() error {
	return e.Status.Err()
}
