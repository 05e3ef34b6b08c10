package max77779i2cm

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"tinygo.org/x/drivers"

	"fgauge/internal/regmap"
)

var (
	ErrTransferSize      = errors.New("i2cm: transfer size out of range")
	ErrSlaveAddress      = errors.New("i2cm: slave address out of range")
	ErrCompletionTimeout = errors.New("i2cm: transfer did not complete")
	ErrSpeed             = errors.New("i2cm: unsupported bus speed")
)

// busSpeeds is the SCL rate for each ClockSpeed selector.
var busSpeeds = [MaxSpeed + 1]physic.Frequency{
	100 * physic.KiloHertz,
	400 * physic.KiloHertz,
	1 * physic.MegaHertz,
	3400 * physic.KiloHertz,
}

func isVolatile(reg uint8) bool {
	switch {
	case reg == Interrupt, reg == Status, reg == Cmd:
		return true
	case reg >= RxBuffer0 && reg <= RxBuffer31:
		return true
	}
	return false
}

// RegmapConfig describes the I2CM register file.
var RegmapConfig = regmap.Config{
	Name:        "max77779-i2cm",
	ValBits:     8,
	MaxRegister: MaxRegister,
	VolatileReg: isVolatile,
}

type Opts struct {
	// Timeout is the raw bus timeout register value. Zero selects
	// TimeoutDefault.
	Timeout uint8
	// Speed is the ClockSpeed selector, 0 to MaxSpeed.
	Speed             uint8
	CompletionTimeout time.Duration
	// PollInterval bounds how long a completion can go unnoticed when no
	// interrupt line is wired to Interrupt.
	PollInterval time.Duration
}

// Controller is an i2c.Bus whose transfers are carried out by the I2CM
// block. One transfer is in flight at a time.
type Controller struct {
	name              string
	regs              *regmap.Map
	timeout           uint8
	completionTimeout time.Duration
	poll              time.Duration

	mu      sync.Mutex
	speed   uint8
	regVals [MaxRegister + 1]byte

	xferDone chan struct{}
}

var (
	_ i2c.Bus     = (*Controller)(nil)
	_ drivers.I2C = (*Controller)(nil)
)

// New returns a controller for the I2CM block at addr on parent.
func New(parent drivers.I2C, addr uint16, opts *Opts) (*Controller, error) {
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	if o.Timeout == 0 {
		o.Timeout = TimeoutDefault
	}
	if o.Speed > MaxSpeed {
		return nil, fmt.Errorf("i2cm: speed selector %d: %w", o.Speed, ErrSpeed)
	}
	if o.CompletionTimeout <= 0 {
		o.CompletionTimeout = CompletionTimeoutDefault
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Millisecond
	}

	name := fmt.Sprintf("max77779-i2cm@0x%02x", addr)
	regs, err := regmap.NewI2C(regmap.FromTx(parent, name), addr, RegmapConfig)
	if err != nil {
		return nil, err
	}
	return &Controller{
		name:              name,
		regs:              regs,
		timeout:           o.Timeout,
		completionTimeout: o.CompletionTimeout,
		poll:              o.PollInterval,
		speed:             o.Speed,
		xferDone:          make(chan struct{}, 1),
	}, nil
}

func (c *Controller) String() string {
	return c.name
}

// Init enables the master, unmasks the done and error interrupts and
// clears any stale interrupt.
func (c *Controller) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.regs.Write(Timeout, uint16(c.timeout)); err != nil {
		return err
	}
	if err := c.regs.Write(Control, c.control()); err != nil {
		return err
	}
	if err := c.regs.Write(IntMask, 0); err != nil {
		return err
	}
	return c.regs.Write(Interrupt, DoneI.Mask|ErrI.Mask)
}

func (c *Controller) control() uint16 {
	return I2CEn.Set(1) | ClockSpeed.Set(uint16(c.speed))
}

// Interrupt signals that the block raised its interrupt line. It never
// blocks and may be called from any goroutine.
func (c *Controller) Interrupt() {
	select {
	case c.xferDone <- struct{}{}:
	default:
	}
}

// SetSpeed picks the fastest supported rate not above f.
func (c *Controller) SetSpeed(f physic.Frequency) error {
	if f < busSpeeds[0] {
		return fmt.Errorf("i2cm: %s: %w", f, ErrSpeed)
	}
	sel := uint8(0)
	for i, s := range busSpeeds {
		if s <= f {
			sel = uint8(i)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.regs.Update(Control, ClockSpeed, uint16(sel)); err != nil {
		return err
	}
	c.speed = sel
	return nil
}

// Speed is the bus rate currently selected.
func (c *Controller) Speed() physic.Frequency {
	c.mu.Lock()
	defer c.mu.Unlock()
	return busSpeeds[c.speed]
}

// Tx writes w to the device at addr, then reads len(r) bytes from it.
func (c *Controller) Tx(addr uint16, w, r []byte) error {
	if (len(w) == 0 && len(r) == 0) || len(w) > MaxWrite || len(r) > MaxRead {
		return fmt.Errorf("write %d read %d: %w", len(w), len(r), ErrTransferSize)
	}
	if addr > SlaveID.Max() {
		return fmt.Errorf("0x%x: %w", addr, ErrSlaveAddress)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.xferDone:
	default:
	}

	v := c.regVals[:]
	v[Timeout] = c.timeout
	v[Control] = byte(c.control())
	v[SlAdd] = byte(SlaveID.Set(addr))
	v[TxDataCnt] = byte(TxCnt.Set(uint16(len(w))))
	copy(v[TxBuffer0:], w)
	if err := c.regs.BulkWrite(Timeout, v[Timeout:TxBuffer0+len(w)]); err != nil {
		return err
	}

	var cmd uint16
	if len(w) > 0 {
		cmd |= I2CMWrite.Set(1)
	}
	if len(r) > 0 {
		if err := c.regs.Write(RxDataCnt, RxCnt.Set(uint16(len(r)-1))); err != nil {
			return err
		}
		cmd |= I2CMRead.Set(1)
	}
	// A transfer that completed after its caller timed out leaves DoneI
	// or ErrI latched.
	if err := c.regs.Write(Interrupt, DoneI.Mask|ErrI.Mask); err != nil {
		return err
	}
	if err := c.regs.Write(Cmd, cmd); err != nil {
		return err
	}

	irq, err := c.waitDone()
	if err != nil {
		return fmt.Errorf("0x%02x: %w", addr, err)
	}
	if err := c.regs.Write(Interrupt, irq&(DoneI.Mask|ErrI.Mask)); err != nil {
		return err
	}

	if ErrI.IsSet(irq) {
		st, err := c.regs.Read(Status)
		if err != nil {
			return err
		}
		return &TransferError{Addr: addr, Status: ErrorStatus(Error.Get(st))}
	}

	if len(r) > 0 {
		rx := v[RxBuffer0 : RxBuffer0+len(r)]
		if err := c.regs.BulkRead(RxBuffer0, rx); err != nil {
			return err
		}
		copy(r, rx)
	}
	return nil
}

// waitDone polls the interrupt register until the transfer is done or
// failed, waking early on Interrupt.
func (c *Controller) waitDone() (uint16, error) {
	deadline := time.NewTimer(c.completionTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(c.poll)
	defer tick.Stop()

	for {
		irq, err := c.regs.Read(Interrupt)
		if err != nil {
			return 0, err
		}
		if DoneI.IsSet(irq) || ErrI.IsSet(irq) {
			return irq, nil
		}
		select {
		case <-c.xferDone:
		case <-tick.C:
		case <-deadline.C:
			return 0, fmt.Errorf("after %s: %w", c.completionTimeout, ErrCompletionTimeout)
		}
	}
}
