package max1730x

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fgauge/internal/max1720x"
	"fgauge/internal/maxfg"
)

// RecallDelay is how long the gauge needs to copy history data into the
// page window after a recall command.
const RecallDelay = 5 * time.Millisecond

var ErrBadPage = errors.New("history page out of range")

// historyLayout is the page window layout, taken from the HSTY set.
type historyLayout struct {
	start, writeStart, validEnd, writeEnd, end uint8
}

func (m *MAX1730X) historyLayout() (historyLayout, error) {
	r, err := m.gauge.Dir.Resolve(maxfg.TagHistory)
	if err != nil {
		return historyLayout{}, err
	}
	if len(r.Addrs) != 5 {
		return historyLayout{}, fmt.Errorf("%s: want 5 anchors, got %d", r.Tag, len(r.Addrs))
	}
	return historyLayout{
		start:      r.Addrs[0],
		writeStart: r.Addrs[1],
		validEnd:   r.Addrs[2],
		writeEnd:   r.Addrs[3],
		end:        r.Addrs[4],
	}, nil
}

// HistoryFlags are the write and valid status bitmaps of the history log.
// Each word flags eight pages; bit n and bit n+8 are copies of one flag.
type HistoryFlags struct {
	Write [NumHistoryFlagRegs]uint16
	Valid [NumHistoryFlagRegs]uint16
}

func pageBit(flags []uint16, page int) bool {
	if page < 0 || page >= NumHistoryPages {
		return false
	}
	return flags[page/8]&(0x0101<<(page%8)) != 0
}

// Written reports whether page has been written.
func (f *HistoryFlags) Written(page int) bool {
	return pageBit(f.Write[:], page)
}

// IsValid reports whether page holds a valid entry.
func (f *HistoryFlags) IsValid(page int) bool {
	return pageBit(f.Valid[:], page)
}

// Pages lists the pages that are both written and valid.
func (f *HistoryFlags) Pages() []int {
	var pages []int
	for p := 0; p < NumHistoryPages; p++ {
		if f.Written(p) && f.IsValid(p) {
			pages = append(pages, p)
		}
	}
	return pages
}

// recall issues a history command and waits for the page window to be
// loaded.
func (m *MAX1730X) recall(ctx context.Context, cmd uint16) error {
	r := maxfg.Set16(maxfg.TagHistory, max1720x.Command, cmd, RecallDelay)
	p, err := maxfg.IssueCommand(m.main, r, m.gauge.Clock)
	if err != nil {
		return fmt.Errorf("max1730x: recall 0x%04X: %w", cmd, err)
	}
	return p.Wait(ctx)
}

func (m *MAX1730X) readRange(from, to uint8, dst []uint16) error {
	for i := 0; i <= int(to)-int(from); i++ {
		v, err := m.nvram.Read(from + uint8(i))
		if err != nil {
			return fmt.Errorf("max1730x: %w", err)
		}
		dst[i] = v
	}
	return nil
}

// HistoryFlags recalls and reads the write and valid status bitmaps.
func (m *MAX1730X) HistoryFlags(ctx context.Context) (*HistoryFlags, error) {
	l, err := m.historyLayout()
	if err != nil {
		return nil, err
	}
	var f HistoryFlags

	if err := m.recall(ctx, CommandHistoryRecallWrite0); err != nil {
		return nil, err
	}
	if err := m.readRange(l.writeStart, l.writeEnd, f.Write[:]); err != nil {
		return nil, err
	}

	if err := m.recall(ctx, CommandHistoryRecallValid0); err != nil {
		return nil, err
	}
	if err := m.readRange(l.end, l.end, f.Valid[:1]); err != nil {
		return nil, err
	}
	if err := m.recall(ctx, CommandHistoryRecallValid1); err != nil {
		return nil, err
	}
	if err := m.readRange(l.start, l.validEnd, f.Valid[1:]); err != nil {
		return nil, err
	}
	return &f, nil
}

// ReadHistoryPage recalls page into the window and returns its words.
func (m *MAX1730X) ReadHistoryPage(ctx context.Context, page int) ([]uint16, error) {
	if page < 0 || page >= NumHistoryPages {
		return nil, fmt.Errorf("max1730x: page %d: %w", page, ErrBadPage)
	}
	l, err := m.historyLayout()
	if err != nil {
		return nil, err
	}
	if err := m.recall(ctx, ReadHistoryCmdBase+uint16(page)); err != nil {
		return nil, err
	}
	words := make([]uint16, int(l.end)-int(l.start)+1)
	if err := m.readRange(l.start, l.end, words); err != nil {
		return nil, err
	}
	return words, nil
}
