package max1730x

import (
	"encoding/binary"

	"fgauge/internal/max1720x"
	"fgauge/internal/regmap"
)

// IsReg reports whether reg is accessible in the main register space. Every
// accessible register is also volatile: gauge state changes continuously,
// so nothing is ever served from a cache.
func IsReg(reg uint) bool {
	switch {
	case reg == max1720x.Command,
		reg == max1720x.CommStat,
		reg == max1720x.Lock,
		reg == max1720x.ODSCTh,
		reg == max1720x.ODSCCfg,
		reg == max1720x.VFOCV,
		reg == max1720x.VFSOC:
		return true
	case reg <= 0x4F,
		reg >= 0xA0 && reg <= 0xAE,
		reg >= 0xB0 && reg <= 0xDF,
		reg == 0xF0,
		reg == 0xF5:
		return true
	}
	return false
}

// IsNVRAMReg reports whether reg is in the NVRAM and history space.
func IsNVRAMReg(reg uint) bool {
	return reg >= NVRAMStart && reg <= HistoryEnd
}

func isReg(reg uint8) bool      { return IsReg(uint(reg)) }
func isNVRAMReg(reg uint8) bool { return IsNVRAMReg(uint(reg)) }

// RegmapConfig describes the main register space.
var RegmapConfig = regmap.Config{
	Name:        "max1730x",
	ValBits:     16,
	Order:       binary.NativeEndian,
	MaxRegister: max1720x.VFSOC,
	ReadableReg: isReg,
	VolatileReg: isReg,
}

// NVRAMRegmapConfig describes the NVRAM and history space, reached through
// its own I²C address.
var NVRAMRegmapConfig = regmap.Config{
	Name:        "max1730x-nvram",
	ValBits:     16,
	Order:       binary.NativeEndian,
	MaxRegister: HistoryEnd,
	ReadableReg: isNVRAMReg,
	VolatileReg: isNVRAMReg,
}
