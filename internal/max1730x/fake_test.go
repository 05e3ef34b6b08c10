package max1730x

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/physic"

	"fgauge/internal/max1720x"
)

// fakeBus emulates both I²C faces of a MAX1730x.
type fakeBus struct {
	mu    sync.Mutex
	main  map[uint8]uint16
	nvram map[uint8]uint16
	// recalls maps a Command value to the NVRAM window it loads.
	recalls  map[uint16]map[uint8]uint16
	commands []uint16
	writes   [][2]uint16
	fail     error
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		main:    map[uint8]uint16{},
		nvram:   map[uint8]uint16{},
		recalls: map[uint16]map[uint8]uint16{},
	}
}

func (f *fakeBus) String() string                  { return "fake" }
func (f *fakeBus) SetSpeed(physic.Frequency) error { return nil }

func (f *fakeBus) space(addr uint16) (map[uint8]uint16, error) {
	switch addr {
	case Addr:
		return f.main, nil
	case NVRAMAddr:
		return f.nvram, nil
	}
	return nil, fmt.Errorf("nack 0x%02x", addr)
}

func (f *fakeBus) Tx(addr uint16, w, r []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	regs, err := f.space(addr)
	if err != nil {
		return err
	}
	reg := w[0]
	switch {
	case len(w) == 1 && len(r) == 2:
		binary.NativeEndian.PutUint16(r, regs[reg])
	case len(w) == 3 && len(r) == 0:
		v := binary.NativeEndian.Uint16(w[1:])
		regs[reg] = v
		if addr == Addr {
			f.writes = append(f.writes, [2]uint16{uint16(reg), v})
		}
		if addr == Addr && reg == max1720x.Command {
			f.commands = append(f.commands, v)
			for k, val := range f.recalls[v] {
				f.nvram[k] = val
			}
		}
	default:
		return fmt.Errorf("unexpected tx w=%x r=%d", w, len(r))
	}
	return nil
}

// stepClock jumps forward on every After call.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}
