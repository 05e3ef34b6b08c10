// Package max1730x drives the MAX1730x fuel gauge.
//
// The gauge answers on two I²C addresses: the main register file and the
// NVRAM/history space. Both are exposed as register maps, and every
// semantic field goes through Directory.
package max1730x

import (
	"context"
	"errors"
	"fmt"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"fgauge/internal/bitfield"
	"fgauge/internal/max1720x"
	"fgauge/internal/maxfg"
	"fgauge/internal/regmap"
)

const (
	Addr      = 0x36
	NVRAMAddr = 0x0B

	DefaultRSense = 10 * physic.MilliOhm
)

// fstatDNR is set while the gauge has no valid data yet.
var fstatDNR = bitfield.Bit(0)

// nvramTags are stored in the NVRAM space rather than the main map.
var nvramTags = map[maxfg.Tag]bool{
	maxfg.TagBatteryCount:     true,
	maxfg.TagSerialNumber:     true,
	maxfg.TagHistory:          true,
	maxfg.TagCapacityEstimate: true,
	maxfg.TagResistanceStore:  true,
}

type Opts struct {
	Addr      uint16
	NVRAMAddr uint16
	// RSense is the current sense resistor fitted on the board.
	RSense physic.ElectricResistance
	Clock  maxfg.Clock
}

type MAX1730X struct {
	main   *regmap.Map
	nvram  *regmap.Map
	gauge  *maxfg.Gauge
	rsense physic.ElectricResistance

	devName uint16
}

// Status is one snapshot of gauge telemetry.
type Status struct {
	Voltage      physic.ElectricPotential
	Current      physic.ElectricCurrent
	AvgCurrent   physic.ElectricCurrent
	Temperature  physic.Temperature
	SOC          float64 // percent
	RepCapMAh    float64
	FullCapMAh   float64
	Cycles       float64
	DataNotReady bool
}

func NewMAX1730X(bus i2c.Bus, opts *Opts) (*MAX1730X, error) {
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	if o.Addr == 0 {
		o.Addr = Addr
	}
	if o.NVRAMAddr == 0 {
		o.NVRAMAddr = NVRAMAddr
	}
	if o.RSense == 0 {
		o.RSense = DefaultRSense
	}
	if o.RSense < 0 {
		return nil, fmt.Errorf("max1730x: invalid sense resistor %s", o.RSense)
	}
	if o.Clock == nil {
		o.Clock = maxfg.RealClock
	}

	main, err := regmap.NewI2C(bus, o.Addr, RegmapConfig)
	if err != nil {
		return nil, err
	}
	nvram, err := regmap.NewI2C(bus, o.NVRAMAddr, NVRAMRegmapConfig)
	if err != nil {
		return nil, err
	}
	return &MAX1730X{
		main:  main,
		nvram: nvram,
		gauge: &maxfg.Gauge{
			Dir:   Directory,
			Main:  main,
			NVRAM: nvram,
			Clock: o.Clock,
		},
		rsense: o.RSense,
	}, nil
}

// Init identifies the silicon revision and checks the protection config
// matches it.
func (m *MAX1730X) Init() error {
	dev, err := m.main.Read(max1720x.DevName)
	if err != nil {
		return fmt.Errorf("max1730x: read DevName: %w", err)
	}
	m.devName = dev

	cfg, err := m.main.Read(NProtCfg)
	if err != nil {
		return fmt.Errorf("max1730x: read nProtCfg: %w", err)
	}
	if want := m.NProtCfgDefault(); cfg != want {
		log.Printf("max1730x: pass %d nProtCfg is 0x%04X, expected 0x%04X", m.Pass(), cfg, want)
	}
	log.Printf("max1730x: DevName 0x%04X (pass %d)", dev, m.Pass())
	return nil
}

// Pass is the silicon revision seen by Init.
func (m *MAX1730X) Pass() int {
	if m.devName == GaugePass1 {
		return 1
	}
	return 2
}

// NProtCfgDefault is the protection config expected for the revision.
func (m *MAX1730X) NProtCfgDefault() uint16 {
	if m.Pass() == 1 {
		return NProtCfgPass1
	}
	return NProtCfgPass2
}

// Gauge gives tag level access to the device.
func (m *MAX1730X) Gauge() *maxfg.Gauge {
	return m.gauge
}

// ReadTag returns the raw words of tag, read from whichever space holds it.
func (m *MAX1730X) ReadTag(tag maxfg.Tag) ([]uint16, error) {
	if nvramTags[tag] {
		return m.gauge.NVRAMWords(tag)
	}
	return m.gauge.Words(tag)
}

func (m *MAX1730X) GetStatus() (*Status, error) {
	var raw [8]uint16
	tags := [...]maxfg.Tag{
		maxfg.TagVCell,
		maxfg.TagCurrent,
		maxfg.TagAvgCurrent,
		maxfg.TagTemp,
		maxfg.TagRepSOC,
		maxfg.TagRepCap,
		maxfg.TagFullCapRep,
		maxfg.TagCycles,
	}
	for i, tag := range tags {
		v, err := m.gauge.Read(tag)
		if err != nil {
			return nil, fmt.Errorf("max1730x: %w", err)
		}
		raw[i] = v
	}
	fstat, err := m.gauge.Read(maxfg.TagFStat)
	if err != nil {
		return nil, fmt.Errorf("max1730x: %w", err)
	}

	return &Status{
		Voltage:      DecodeVoltage(raw[0]),
		Current:      DecodeCurrent(raw[1], m.rsense),
		AvgCurrent:   DecodeCurrent(raw[2], m.rsense),
		Temperature:  DecodeTemperature(raw[3]),
		SOC:          DecodePercent(raw[4]),
		RepCapMAh:    DecodeCapacity(raw[5], m.rsense),
		FullCapMAh:   DecodeCapacity(raw[6], m.rsense),
		Cycles:       float64(raw[7]) / 100,
		DataNotReady: fstatDNR.IsSet(fstat),
	}, nil
}

// Reset restarts the fuel gauge model and waits for it to settle.
func (m *MAX1730X) Reset(ctx context.Context) error {
	p, err := m.gauge.Command(maxfg.TagReset)
	if err != nil {
		return fmt.Errorf("max1730x: %w", err)
	}
	log.Printf("max1730x: fuel gauge reset, settling for %s", p.Delay)
	return p.Wait(ctx)
}

var ErrNoSerial = errors.New("serial number not programmed")

// SerialNumber decodes the serial number block.
func (m *MAX1730X) SerialNumber() (string, error) {
	words, err := m.ReadTag(maxfg.TagSerialNumber)
	if err != nil {
		return "", fmt.Errorf("max1730x: %w", err)
	}
	s, ok := decodeSerial(maxfg.Bytes(words, RegmapConfig.Order))
	if !ok {
		return "", fmt.Errorf("max1730x: %w", ErrNoSerial)
	}
	return s, nil
}

func decodeSerial(b []byte) (string, bool) {
	end := len(b)
	for end > 0 && (b[end-1] == 0x00 || b[end-1] == 0xff) {
		end--
	}
	b = b[:end]
	if len(b) == 0 {
		return "", false
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("%X", b), true
		}
	}
	return string(b), true
}

// BatteryCount returns the battery count block in register order.
func (m *MAX1730X) BatteryCount() ([]uint16, error) {
	words, err := m.ReadTag(maxfg.TagBatteryCount)
	if err != nil {
		return nil, fmt.Errorf("max1730x: %w", err)
	}
	return words, nil
}

// DecodeVoltage decodes a VCell style register.
func DecodeVoltage(raw uint16) physic.ElectricPotential {
	return physic.ElectricPotential(raw) * 78125 * physic.NanoVolt
}

// DecodeCurrent decodes a signed current register for the given sense resistor.
func DecodeCurrent(raw uint16, rsense physic.ElectricResistance) physic.ElectricCurrent {
	// 1.5625µV per LSB across rsense.
	scaled := int64(int16(raw)) * 1_562_500_000_000
	return physic.ElectricCurrent(scaled / int64(rsense))
}

// DecodeTemperature decodes a signed 1/256°C register.
func DecodeTemperature(raw uint16) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(int64(int16(raw))*int64(physic.Celsius)/256)
}

// DecodePercent decodes a 1/256% register.
func DecodePercent(raw uint16) float64 {
	return float64(raw) / 256
}

// DecodeCapacity decodes a capacity register into mAh.
func DecodeCapacity(raw uint16, rsense physic.ElectricResistance) float64 {
	// 5µVh per LSB across rsense.
	return float64(raw) * 5e6 / float64(rsense)
}
