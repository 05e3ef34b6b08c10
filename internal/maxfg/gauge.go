package maxfg

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"
)

// Registers is the register access a Gauge needs. *regmap.Map implements
// it.
type Registers interface {
	Read(reg uint8) (uint16, error)
	Write(reg uint8, val uint16) error
}

// Clock is the time source used to track command settle delays.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// RealClock is the wall clock.
var RealClock Clock = realClock{}

// ReadWords reads every register of r in list order.
func ReadWords(m Registers, r Reg) ([]uint16, error) {
	if r.Kind == KindCommand {
		return nil, fmt.Errorf("%s: %w", r.Tag, ErrNotReadable)
	}
	words := make([]uint16, len(r.Addrs))
	for i, a := range r.Addrs {
		v, err := m.Read(a)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Tag, err)
		}
		words[i] = v
	}
	return words, nil
}

// Bytes flattens words into bytes, keeping list order. Each word is laid
// out according to order.
func Bytes(words []uint16, order binary.ByteOrder) []byte {
	b := make([]byte, 2*len(words))
	for i, w := range words {
		order.PutUint16(b[2*i:], w)
	}
	return b
}

// Pending tracks a command whose effect is not observable yet.
type Pending struct {
	Tag    Tag
	Issued time.Time
	Delay  time.Duration
	clock  Clock
}

// Remaining is the settle time left, zero once done.
func (p *Pending) Remaining() time.Duration {
	left := p.Delay - p.clock.Now().Sub(p.Issued)
	if left < 0 {
		return 0
	}
	return left
}

// Done reports whether the settle delay has elapsed.
func (p *Pending) Done() bool {
	return p.Remaining() == 0
}

// Wait blocks until the command has settled or ctx is done.
func (p *Pending) Wait(ctx context.Context) error {
	for !p.Done() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", p.Tag, ctx.Err())
		case <-p.clock.After(p.Remaining()):
		}
	}
	return nil
}

// IssueCommand writes the command value of r and returns the settle
// tracker. Enforcing the wait is up to the caller.
func IssueCommand(m Registers, r Reg, clock Clock) (*Pending, error) {
	if r.Kind != KindCommand {
		return nil, fmt.Errorf("%s: %w", r.Tag, ErrNotCommand)
	}
	if clock == nil {
		clock = RealClock
	}
	if err := m.Write(r.Addr(), r.Value); err != nil {
		return nil, fmt.Errorf("%s: %w", r.Tag, err)
	}
	return &Pending{Tag: r.Tag, Issued: clock.Now(), Delay: r.Delay, clock: clock}, nil
}

// Gauge binds a directory to the register maps of one device. Most fields
// live in the main map; NVRAM blocks such as the serial number are read
// through the NVRAM map.
type Gauge struct {
	Dir   *Directory
	Main  Registers
	NVRAM Registers
	Clock Clock
}

// Read returns the value of a single-register tag.
func (g *Gauge) Read(tag Tag) (uint16, error) {
	r, err := g.Dir.Resolve(tag)
	if err != nil {
		return 0, err
	}
	if r.Kind != KindSingle {
		return 0, fmt.Errorf("%s: %s encoding spans %d registers", tag, r.Kind, len(r.Addrs))
	}
	v, err := g.Main.Read(r.Addr())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", tag, err)
	}
	return v, nil
}

// Words reads every register of tag from the main map.
func (g *Gauge) Words(tag Tag) ([]uint16, error) {
	r, err := g.Dir.Resolve(tag)
	if err != nil {
		return nil, err
	}
	return ReadWords(g.Main, r)
}

// NVRAMWords reads every register of tag from the NVRAM map.
func (g *Gauge) NVRAMWords(tag Tag) ([]uint16, error) {
	r, err := g.Dir.Resolve(tag)
	if err != nil {
		return nil, err
	}
	return ReadWords(g.NVRAM, r)
}

// Command issues the command tag on the main map.
func (g *Gauge) Command(tag Tag) (*Pending, error) {
	r, err := g.Dir.Resolve(tag)
	if err != nil {
		return nil, err
	}
	return IssueCommand(g.Main, r, g.Clock)
}
