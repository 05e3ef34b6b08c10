package regmap

import (
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"tinygo.org/x/drivers"
)

// txBus lets a bare tinygo-style bus stand in for a periph i2c.Bus.
type txBus struct {
	drivers.I2C
	name string
}

// FromTx adapts bus to i2c.Bus. When bus already is an i2c.Bus it is
// returned as is.
func FromTx(bus drivers.I2C, name string) i2c.Bus {
	if b, ok := bus.(i2c.Bus); ok {
		return b
	}
	return &txBus{I2C: bus, name: name}
}

func (b *txBus) String() string {
	return b.name
}

// SetSpeed is a no-op: tinygo buses are configured once by their owner.
func (b *txBus) SetSpeed(physic.Frequency) error {
	return nil
}
