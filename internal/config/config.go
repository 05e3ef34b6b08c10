// Package config holds the service settings, read from an optional JSON
// file laid over built-in defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"periph.io/x/conn/v3/physic"

	"fgauge/internal/max1730x"
	"fgauge/internal/max77779i2cm"
)

var ErrInvalid = errors.New("invalid config")

type Gauge struct {
	Addr      uint16 `json:"addr"`
	NVRAMAddr uint16 `json:"nvram_addr"`
	// RSenseMilliOhm is the current sense resistor.
	RSenseMilliOhm int64 `json:"rsense_milliohm"`
}

func (g Gauge) RSense() physic.ElectricResistance {
	return physic.ElectricResistance(g.RSenseMilliOhm) * physic.MilliOhm
}

// Bridge describes the MAX77779 I2CM block when the gauge sits behind it.
type Bridge struct {
	Enabled bool   `json:"enabled"`
	Addr    uint16 `json:"addr"`
	Speed   uint8  `json:"speed"`
	Timeout uint8  `json:"timeout"`

	CompletionTimeoutMS int `json:"completion_timeout_ms"`
}

func (b Bridge) Opts() *max77779i2cm.Opts {
	return &max77779i2cm.Opts{
		Timeout:           b.Timeout,
		Speed:             b.Speed,
		CompletionTimeout: time.Duration(b.CompletionTimeoutMS) * time.Millisecond,
	}
}

type Config struct {
	Port int `json:"port"`
	// Bus is the host I²C bus name; empty picks the first one.
	Bus    string `json:"bus"`
	Gauge  Gauge  `json:"gauge"`
	Bridge Bridge `json:"bridge"`
}

func Default() Config {
	return Config{
		Port: 3000,
		Gauge: Gauge{
			Addr:           max1730x.Addr,
			NVRAMAddr:      max1730x.NVRAMAddr,
			RSenseMilliOhm: int64(max1730x.DefaultRSense / physic.MilliOhm),
		},
		Bridge: Bridge{
			Addr:                max77779i2cm.DefaultAddr,
			Speed:               max77779i2cm.SpeedDefault,
			Timeout:             max77779i2cm.TimeoutDefault,
			CompletionTimeoutMS: int(max77779i2cm.CompletionTimeoutDefault / time.Millisecond),
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d", ErrInvalid, c.Port)
	case c.Gauge.Addr > 0x7f || c.Gauge.NVRAMAddr > 0x7f:
		return fmt.Errorf("%w: gauge address", ErrInvalid)
	case c.Gauge.RSenseMilliOhm <= 0:
		return fmt.Errorf("%w: rsense %d mΩ", ErrInvalid, c.Gauge.RSenseMilliOhm)
	case c.Bridge.Enabled && c.Bridge.Addr > 0x7f:
		return fmt.Errorf("%w: bridge address 0x%x", ErrInvalid, c.Bridge.Addr)
	case c.Bridge.Speed > max77779i2cm.MaxSpeed:
		return fmt.Errorf("%w: bridge speed %d", ErrInvalid, c.Bridge.Speed)
	case c.Bridge.CompletionTimeoutMS < 0:
		return fmt.Errorf("%w: bridge completion timeout", ErrInvalid)
	}
	return nil
}
