// Package maxfg maps semantic fuel-gauge fields to chip registers.
//
// Maxim fuel gauges of different generations keep most registers in place
// and move or redefine a few. Drivers talk in Tags; each chip variant ships a
// Directory resolving those tags to its own register layout.
package maxfg

import "fmt"

// Tag names a fuel-gauge field independently of the chip variant.
type Tag uint8

const (
	TagAvgCurrent Tag = iota
	TagConfig
	TagMaxMinVolt
	TagVCell
	TagTemp
	TagCurrent
	TagMixCap
	TagAvgResistance
	TagVFSOC
	TagVFOCV
	TagTempCo
	TagRComp0
	TagTimerH
	TagDesignCap
	TagFullCapNom
	TagFullCapRep
	TagMixSOC
	TagMaxMinTemp
	TagMaxMinCurr
	TagRepSOC
	TagAvCap
	TagRepCap
	TagFullCap
	TagQH0
	TagQH
	TagDQAcc
	TagDPAcc
	TagQResidual
	TagFStat
	TagLearnCfg
	TagFilterCfg
	TagVFRemCap
	TagCycles
	TagRSlow

	// Multi-register blocks.
	TagBatteryCount
	TagSerialNumber
	TagHistory
	TagCapacityEstimate
	TagResistanceStore

	// Commands.
	TagReset

	numTags
)

var tagNames = [numTags]string{
	TagAvgCurrent:       "avgc",
	TagConfig:           "cnfg",
	TagMaxMinVolt:       "mmdv",
	TagVCell:            "vcel",
	TagTemp:             "temp",
	TagCurrent:          "curr",
	TagMixCap:           "mcap",
	TagAvgResistance:    "avgr",
	TagVFSOC:            "vfsoc",
	TagVFOCV:            "vfocv",
	TagTempCo:           "tempco",
	TagRComp0:           "rcomp0",
	TagTimerH:           "timerh",
	TagDesignCap:        "descap",
	TagFullCapNom:       "fcnom",
	TagFullCapRep:       "fcrep",
	TagMixSOC:           "msoc",
	TagMaxMinTemp:       "mmdt",
	TagMaxMinCurr:       "mmdc",
	TagRepSOC:           "repsoc",
	TagAvCap:            "avcap",
	TagRepCap:           "repcap",
	TagFullCap:          "fulcap",
	TagQH0:              "qh0",
	TagQH:               "qh",
	TagDQAcc:            "dqacc",
	TagDPAcc:            "dpacc",
	TagQResidual:        "qresd",
	TagFStat:            "fstat",
	TagLearnCfg:         "learn",
	TagFilterCfg:        "filcfg",
	TagVFRemCap:         "vfcap",
	TagCycles:           "cycles",
	TagRSlow:            "rslow",
	TagBatteryCount:     "BCNT",
	TagSerialNumber:     "SNUM",
	TagHistory:          "HSTY",
	TagCapacityEstimate: "BCEA",
	TagResistanceStore:  "BRES",
	TagReset:            "rset",
}

func (t Tag) String() string {
	if t < numTags {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// ParseTag returns the tag whose short name is s.
func ParseTag(s string) (Tag, bool) {
	for i, n := range tagNames {
		if n == s {
			return Tag(i), true
		}
	}
	return 0, false
}

// AllTags lists every tag known to this package.
func AllTags() []Tag {
	tags := make([]Tag, numTags)
	for i := range tags {
		tags[i] = Tag(i)
	}
	return tags
}
