// Package max1720x holds the MAX1720x register layout. Later gauges such as
// the MAX1730x reuse most of it and only relocate a handful of registers.
package max1720x

import "fgauge/internal/maxfg"

// Register addresses.
const (
	Status     = 0x00
	VAlrtTh    = 0x01
	TAlrtTh    = 0x02
	SAlrtTh    = 0x03
	AtRate     = 0x04
	RepCap     = 0x05
	RepSOC     = 0x06
	Age        = 0x07
	Temp       = 0x08
	VCell      = 0x09
	Current    = 0x0A
	AvgCurrent = 0x0B
	QResidual  = 0x0C
	MixSOC     = 0x0D
	AvSOC      = 0x0E
	MixCap     = 0x0F
	FullCap    = 0x10
	TTE        = 0x11
	RCell      = 0x14
	Cycles     = 0x17
	DesignCap  = 0x18
	MaxMinTemp = 0x1A
	MaxMinVolt = 0x1B
	MaxMinCurr = 0x1C
	Config     = 0x1D
	AvCap      = 0x1F
	DevName    = 0x21
	FullCapNom = 0x23
	LearnCfg   = 0x28
	FilterCfg  = 0x29
	FullCapRep = 0x35
	RComp0     = 0x38
	TempCo     = 0x39
	FStat      = 0x3D
	DQAcc      = 0x45
	DPAcc      = 0x46
	VFRemCap   = 0x4A
	QH0        = 0x4C
	QH         = 0x4D
	Command    = 0x60
	CommStat   = 0x61
	Lock       = 0x7F
	Config2    = 0xBB
	TimerH     = 0xBE
	ODSCTh     = 0xF2
	ODSCCfg    = 0xF3
	VFOCV      = 0xFB
	VFSOC      = 0xFF
)

// Directory is the MAX1720x baseline tag table.
var Directory = maxfg.MustDirectory("max1720x",
	maxfg.Reg16(maxfg.TagAvgCurrent, AvgCurrent),
	maxfg.Reg16(maxfg.TagConfig, Config),
	maxfg.Reg16(maxfg.TagMaxMinVolt, MaxMinVolt),
	maxfg.Reg16(maxfg.TagVCell, VCell),
	maxfg.Reg16(maxfg.TagTemp, Temp),
	maxfg.Reg16(maxfg.TagCurrent, Current),
	maxfg.Reg16(maxfg.TagMixCap, MixCap),
	maxfg.Reg16(maxfg.TagVFSOC, VFSOC),
	maxfg.Reg16(maxfg.TagVFOCV, VFOCV),
	maxfg.Reg16(maxfg.TagTempCo, TempCo),
	maxfg.Reg16(maxfg.TagRComp0, RComp0),
	maxfg.Reg16(maxfg.TagTimerH, TimerH),
	maxfg.Reg16(maxfg.TagDesignCap, DesignCap),
	maxfg.Reg16(maxfg.TagFullCapNom, FullCapNom),
	maxfg.Reg16(maxfg.TagFullCapRep, FullCapRep),
	maxfg.Reg16(maxfg.TagMixSOC, MixSOC),
	maxfg.Reg16(maxfg.TagMaxMinTemp, MaxMinTemp),
	maxfg.Reg16(maxfg.TagMaxMinCurr, MaxMinCurr),
	maxfg.Reg16(maxfg.TagRepSOC, RepSOC),
	maxfg.Reg16(maxfg.TagAvCap, AvCap),
	maxfg.Reg16(maxfg.TagRepCap, RepCap),
	maxfg.Reg16(maxfg.TagFullCap, FullCap),
	maxfg.Reg16(maxfg.TagQH0, QH0),
	maxfg.Reg16(maxfg.TagQH, QH),
	maxfg.Reg16(maxfg.TagDQAcc, DQAcc),
	maxfg.Reg16(maxfg.TagDPAcc, DPAcc),
	maxfg.Reg16(maxfg.TagQResidual, QResidual),
	maxfg.Reg16(maxfg.TagFStat, FStat),
	maxfg.Reg16(maxfg.TagLearnCfg, LearnCfg),
	maxfg.Reg16(maxfg.TagFilterCfg, FilterCfg),
	maxfg.Reg16(maxfg.TagVFRemCap, VFRemCap),
	maxfg.Reg16(maxfg.TagCycles, Cycles),
	maxfg.Reg16(maxfg.TagRSlow, RCell),
)
