// Package regmap is a small register map backend for I²C devices with an
// 8-bit register address space.
//
// A Map applies the device's access policy (readable, writeable and volatile
// registers) and caches the value of every readable register that is not
// volatile. Volatile registers are always read from the device.
package regmap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/mmr"

	"fgauge/internal/bitfield"
)

var (
	ErrOutOfRange   = errors.New("register out of range")
	ErrNotReadable  = errors.New("register not readable")
	ErrNotWriteable = errors.New("register not writeable")
	ErrBulkWidth    = errors.New("bulk access needs 8-bit values")
)

// Config is the static description of a register map.
type Config struct {
	Name string
	// ValBits is the register width, 8 or 16.
	ValBits int
	// Order is the byte order of 16-bit values on the wire.
	Order       binary.ByteOrder
	MaxRegister uint8

	// ReadableReg reports whether reg can be read. Nil means every register
	// up to MaxRegister is readable.
	ReadableReg func(reg uint8) bool
	// WriteableReg defaults to ReadableReg when nil.
	WriteableReg func(reg uint8) bool
	// VolatileReg reports whether reg must bypass the cache. Nil means no
	// register is volatile.
	VolatileReg func(reg uint8) bool
}

func (c *Config) validate() error {
	if c.ValBits != 8 && c.ValBits != 16 {
		return fmt.Errorf("regmap %s: unsupported value width %d", c.Name, c.ValBits)
	}
	if c.Order == nil {
		c.Order = binary.NativeEndian
	}
	return nil
}

// Map is a register map bound to one device.
type Map struct {
	cfg Config
	dev *mmr.Dev8

	mu    sync.Mutex
	cache map[uint8]uint16
}

// New returns a Map issuing its transactions on c.
func New(c conn.Conn, cfg Config) (*Map, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Map{
		cfg:   cfg,
		dev:   &mmr.Dev8{Conn: c, Order: cfg.Order},
		cache: make(map[uint8]uint16),
	}, nil
}

// NewI2C returns a Map for the device at addr on bus.
func NewI2C(bus i2c.Bus, addr uint16, cfg Config) (*Map, error) {
	return New(&i2c.Dev{Addr: addr, Bus: bus}, cfg)
}

func (m *Map) String() string {
	return m.cfg.Name
}

// Config returns the map configuration.
func (m *Map) Config() Config {
	return m.cfg
}

func (m *Map) readable(reg uint8) bool {
	return m.cfg.ReadableReg == nil || m.cfg.ReadableReg(reg)
}

func (m *Map) writeable(reg uint8) bool {
	if m.cfg.WriteableReg != nil {
		return m.cfg.WriteableReg(reg)
	}
	return m.readable(reg)
}

func (m *Map) volatile(reg uint8) bool {
	return m.cfg.VolatileReg != nil && m.cfg.VolatileReg(reg)
}

func (m *Map) errorf(reg uint8, err error) error {
	return fmt.Errorf("regmap %s: reg 0x%02x: %w", m.cfg.Name, reg, err)
}

func (m *Map) checkRead(reg uint8) error {
	if reg > m.cfg.MaxRegister {
		return m.errorf(reg, ErrOutOfRange)
	}
	if !m.readable(reg) {
		return m.errorf(reg, ErrNotReadable)
	}
	return nil
}

// checkSpan rejects a bulk access of n registers that runs past
// MaxRegister, including one that would wrap the 8-bit address.
func (m *Map) checkSpan(reg uint8, n int) error {
	if n > 0 && int(reg)+n-1 > int(m.cfg.MaxRegister) {
		return m.errorf(reg, ErrOutOfRange)
	}
	return nil
}

func (m *Map) checkWrite(reg uint8) error {
	if reg > m.cfg.MaxRegister {
		return m.errorf(reg, ErrOutOfRange)
	}
	if !m.writeable(reg) {
		return m.errorf(reg, ErrNotWriteable)
	}
	return nil
}

// Read returns the value of reg, from the cache when reg is not volatile
// and has been seen before.
func (m *Map) Read(reg uint8) (uint16, error) {
	if err := m.checkRead(reg); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read(reg)
}

func (m *Map) read(reg uint8) (uint16, error) {
	cacheable := !m.volatile(reg)
	if cacheable {
		if v, ok := m.cache[reg]; ok {
			return v, nil
		}
	}

	var v uint16
	if m.cfg.ValBits == 8 {
		b, err := m.dev.ReadUint8(reg)
		if err != nil {
			return 0, m.errorf(reg, err)
		}
		v = uint16(b)
	} else {
		w, err := m.dev.ReadUint16(reg)
		if err != nil {
			return 0, m.errorf(reg, err)
		}
		v = w
	}
	if cacheable {
		m.cache[reg] = v
	}
	return v, nil
}

// Write stores val in reg.
func (m *Map) Write(reg uint8, val uint16) error {
	if err := m.checkWrite(reg); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write(reg, val)
}

func (m *Map) write(reg uint8, val uint16) error {
	var err error
	if m.cfg.ValBits == 8 {
		err = m.dev.WriteUint8(reg, uint8(val))
	} else {
		err = m.dev.WriteUint16(reg, val)
	}
	if err != nil {
		delete(m.cache, reg)
		return m.errorf(reg, err)
	}
	if !m.volatile(reg) {
		m.cache[reg] = val
	}
	return nil
}

// Update does a read-modify-write of field in reg. The write is skipped
// when the field already holds v.
func (m *Map) Update(reg uint8, f bitfield.Field, v uint16) error {
	if err := m.checkRead(reg); err != nil {
		return err
	}
	if err := m.checkWrite(reg); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	old, err := m.read(reg)
	if err != nil {
		return err
	}
	nv := f.Update(old, v)
	if nv == old {
		return nil
	}
	return m.write(reg, nv)
}

// BulkRead fills buf from consecutive registers starting at reg, in a single
// transaction. Only 8-bit maps support bulk access.
func (m *Map) BulkRead(reg uint8, buf []byte) error {
	if m.cfg.ValBits != 8 {
		return m.errorf(reg, ErrBulkWidth)
	}
	if err := m.checkSpan(reg, len(buf)); err != nil {
		return err
	}
	for i := range buf {
		if err := m.checkRead(reg + uint8(i)); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.dev.Tx([]byte{reg}, buf); err != nil {
		return m.errorf(reg, err)
	}
	for i, b := range buf {
		if r := reg + uint8(i); !m.volatile(r) {
			m.cache[r] = uint16(b)
		}
	}
	return nil
}

// BulkWrite writes data to consecutive registers starting at reg, in a
// single transaction.
func (m *Map) BulkWrite(reg uint8, data []byte) error {
	if m.cfg.ValBits != 8 {
		return m.errorf(reg, ErrBulkWidth)
	}
	if err := m.checkSpan(reg, len(data)); err != nil {
		return err
	}
	for i := range data {
		if err := m.checkWrite(reg + uint8(i)); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)
	if err := m.dev.Tx(w, nil); err != nil {
		for i := range data {
			delete(m.cache, reg+uint8(i))
		}
		return m.errorf(reg, err)
	}
	for i, b := range data {
		if r := reg + uint8(i); !m.volatile(r) {
			m.cache[r] = uint16(b)
		}
	}
	return nil
}

// Invalidate drops every cached value.
func (m *Map) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.cache)
}

// Cached reports the cached value of reg, if any.
func (m *Map) Cached(reg uint8) (uint16, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.cache[reg]
	return v, ok
}
