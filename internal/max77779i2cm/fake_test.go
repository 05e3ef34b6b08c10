package max77779i2cm

import (
	"fmt"
	"sync"
)

// target is a device behind the I2CM block. It receives the bytes written
// and returns n bytes, or a non-zero status to fail the transfer.
type target func(w []byte, n int) ([]byte, ErrorStatus)

// fakePMIC emulates the I2CM register file as seen on the parent bus. It
// only implements Tx, like a tinygo bus.
type fakePMIC struct {
	mu      sync.Mutex
	regs    [MaxRegister + 1]byte
	targets map[uint8]target
	// silent leaves Interrupt untouched when a command is issued.
	silent bool

	ops []string
}

func newFakePMIC() *fakePMIC {
	return &fakePMIC{targets: map[uint8]target{}}
}

func (f *fakePMIC) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if addr != DefaultAddr {
		return fmt.Errorf("nack 0x%02x", addr)
	}
	if len(w) == 0 {
		return fmt.Errorf("empty write")
	}
	reg := int(w[0])
	if len(r) > 0 {
		if reg+len(r) > len(f.regs) {
			return fmt.Errorf("read past 0x%02x", reg)
		}
		copy(r, f.regs[reg:])
		f.ops = append(f.ops, fmt.Sprintf("R %02x %d", reg, len(r)))
		return nil
	}

	data := w[1:]
	if reg+len(data) > len(f.regs) {
		return fmt.Errorf("write past 0x%02x", reg)
	}
	f.ops = append(f.ops, fmt.Sprintf("W %02x % x", reg, data))
	for i, b := range data {
		switch reg + i {
		case Interrupt:
			f.regs[Interrupt] &^= b
		case Cmd:
			f.regs[Cmd] = b
			f.run()
		default:
			f.regs[reg+i] = b
		}
	}
	return nil
}

func (f *fakePMIC) run() {
	if f.silent {
		return
	}
	cmd := uint16(f.regs[Cmd])
	slave := uint8(SlaveID.Get(uint16(f.regs[SlAdd])))
	var w []byte
	if I2CMWrite.IsSet(cmd) {
		n := int(TxCnt.Get(uint16(f.regs[TxDataCnt])))
		w = append(w, f.regs[TxBuffer0:TxBuffer0+n]...)
	}
	n := 0
	if I2CMRead.IsSet(cmd) {
		n = int(RxCnt.Get(uint16(f.regs[RxDataCnt]))) + 1
	}

	t, ok := f.targets[slave]
	if !ok {
		f.fail(ErrorStatus(1 << 2))
		return
	}
	data, st := t(w, n)
	if st != 0 {
		f.fail(st)
		return
	}
	copy(f.regs[RxBuffer0:], data)
	f.regs[Interrupt] |= byte(DoneI.Mask)
}

func (f *fakePMIC) fail(st ErrorStatus) {
	f.regs[Status] = byte(Error.Set(uint16(st)))
	f.regs[Interrupt] |= byte(ErrI.Mask)
}

func (f *fakePMIC) reg(r uint8) byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.regs[r]
}

func (f *fakePMIC) log() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}
