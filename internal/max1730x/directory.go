package max1730x

import (
	"time"

	"fgauge/internal/max1720x"
	"fgauge/internal/maxfg"
)

// ResetDelay is the settle time of the fuel-gauge reset command.
const ResetDelay = 700 * time.Millisecond

// Directory is the MAX1730x tag table.
var Directory = maxfg.MustDirectory("max1730x",
	maxfg.Reg16(maxfg.TagAvgCurrent, AvgCurrent),
	maxfg.Reg16(maxfg.TagConfig, Config),
	maxfg.Reg16(maxfg.TagMaxMinVolt, MaxMinVolt),
	maxfg.Reg16(maxfg.TagVCell, VCell),
	maxfg.Reg16(maxfg.TagTemp, Temp),
	maxfg.Reg16(maxfg.TagCurrent, Current),
	maxfg.Reg16(maxfg.TagMixCap, MixCap),
	maxfg.Reg16(maxfg.TagAvgResistance, NManfctrName1),
	maxfg.Reg16(maxfg.TagVFSOC, max1720x.VFSOC),
	maxfg.Reg16(maxfg.TagVFOCV, max1720x.VFOCV),
	maxfg.Reg16(maxfg.TagTempCo, max1720x.TempCo),
	maxfg.Reg16(maxfg.TagRComp0, max1720x.RComp0),
	maxfg.Reg16(maxfg.TagTimerH, max1720x.TimerH),
	maxfg.Reg16(maxfg.TagDesignCap, max1720x.DesignCap),
	maxfg.Reg16(maxfg.TagFullCapNom, max1720x.FullCapNom),
	maxfg.Reg16(maxfg.TagFullCapRep, FullCapRep),
	maxfg.Reg16(maxfg.TagMixSOC, max1720x.MixSOC),
	maxfg.Reg16(maxfg.TagMaxMinTemp, MaxMinTemp),
	maxfg.Reg16(maxfg.TagMaxMinCurr, MaxMinCurr),
	maxfg.Reg16(maxfg.TagRepSOC, max1720x.RepSOC),
	maxfg.Reg16(maxfg.TagAvCap, max1720x.AvCap),
	maxfg.Reg16(maxfg.TagRepCap, max1720x.RepCap),
	maxfg.Reg16(maxfg.TagFullCap, FullCap),
	maxfg.Reg16(maxfg.TagQH0, max1720x.QH0),
	maxfg.Reg16(maxfg.TagQH, max1720x.QH),
	maxfg.Reg16(maxfg.TagDQAcc, max1720x.DQAcc),
	maxfg.Reg16(maxfg.TagDPAcc, max1720x.DPAcc),
	maxfg.Reg16(maxfg.TagQResidual, max1720x.QResidual),
	maxfg.Reg16(maxfg.TagFStat, max1720x.FStat),
	maxfg.Reg16(maxfg.TagLearnCfg, LearnCfg),
	maxfg.Reg16(maxfg.TagFilterCfg, max1720x.FilterCfg),
	maxfg.Reg16(maxfg.TagVFRemCap, max1720x.VFRemCap),
	maxfg.Reg16(maxfg.TagCycles, max1720x.Cycles),
	maxfg.Reg16(maxfg.TagRSlow, max1720x.RCell),

	maxfg.Map(maxfg.TagBatteryCount, 0x8e, 0x8f, 0x9d, 0x9e, 0x9f,
		0xb2, 0xb4, 0xb6, 0xc7, 0xe2),
	maxfg.Map(maxfg.TagSerialNumber, 0xce, 0xe6, 0xe7, 0xe8, 0xe9,
		0xea, 0xeb, 0xec, 0xed, 0xee, 0xef),

	maxfg.Set(maxfg.TagHistory, HistoryStart, HistoryWriteStatusStart,
		HistoryValidStatusEnd, HistoryWriteStatusEnd, HistoryEnd),
	maxfg.Set(maxfg.TagCapacityEstimate, NManfctrName0, NDPLimit, NScOcvLim),
	maxfg.Set16(maxfg.TagReset, Config2, CommandFuelGaugeReset, ResetDelay),
	maxfg.Set(maxfg.TagResistanceStore, NManfctrName1, NManfctrName0),
)
