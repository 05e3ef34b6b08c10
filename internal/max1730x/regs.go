package max1730x

// Main register space addresses that differ from the MAX1720x layout.
const (
	MaxMinVolt     = 0x08
	MaxMinTemp     = 0x09
	MaxMinCurr     = 0x0A
	Config         = 0x0B
	FullCapRep     = 0x10
	VCell          = 0x1A
	Temp           = 0x1B
	Current        = 0x1C
	AvgCurrent     = 0x1D
	MixCap         = 0x2B
	FullCap        = 0x35
	LearnCfg       = 0xA1
	MaxPeakPwr     = 0xA4
	SusPeakPwr     = 0xA5
	PackResistance = 0xA6
	SysResistance  = 0xA7
	MinSysVoltage  = 0xA8
	MPPCurrent     = 0xA9
	SPPCurrent     = 0xAA
	Config2        = 0xAB
	IAlrtTh        = 0xAC
	MinVolt        = 0xAD
	MinCurr        = 0xAE
	NVPrtTh1Bak    = 0xD6
	NProtCfg       = 0xD7
)

// NVRAM and history space addresses.
const (
	NVRAMStart              = 0x80
	NManfctrName0           = 0xCC
	NManfctrName1           = 0xCD
	NVPrtTh1                = 0xD0
	NDPLimit                = 0xE0
	NScOcvLim               = 0xE1
	NVRAMEnd                = 0xEF
	HistoryStart            = 0xF0
	HistoryWriteStatusStart = 0xF2
	HistoryValidStatusEnd   = 0xFB
	HistoryWriteStatusEnd   = 0xFE
	HistoryEnd              = 0xFF
)

// Command register values.
const (
	CommandFuelGaugeReset      = 0x8000
	ReadHistoryCmdBase         = 0xE22E
	CommandHistoryRecallWrite0 = 0xE29C
	CommandHistoryRecallValid0 = 0xE29C
	CommandHistoryRecallValid1 = 0xE29D
)

const (
	NumHistoryPages = 100
	HistoryPageSize = HistoryEnd - HistoryStart + 1

	// NumHistoryFlagRegs is the number of words in each of the write and
	// valid status bitmaps. Every word flags eight pages.
	NumHistoryFlagRegs = HistoryEnd - HistoryEnd + 1 +
		HistoryValidStatusEnd - HistoryStart + 1
)

// Silicon revision markers.
const (
	GaugePass1       = 0x404
	NVPrtTh1Charging = 0x0008
	NProtCfgPass1    = 0x6EA3
	NProtCfgPass2    = 0x0A04
)
