package maxfg

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrUnknownTag  = errors.New("unknown register tag")
	ErrNotReadable = errors.New("encoding is write-only")
	ErrNotCommand  = errors.New("encoding is not a command")
)

// Kind is the physical encoding of a tag.
type Kind uint8

const (
	// KindSingle is one 16-bit register.
	KindSingle Kind = iota
	// KindComposite is a value spread over several registers, concatenated
	// in list order.
	KindComposite
	// KindSet is a fixed group of related registers. List order defines the
	// order used to rebuild multi-field values.
	KindSet
	// KindCommand is a value written to a register to trigger an action,
	// observable only after a settle delay.
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindComposite:
		return "composite"
	case KindSet:
		return "set"
	case KindCommand:
		return "command"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Reg is the encoding of one tag on a given chip.
type Reg struct {
	Tag   Tag
	Kind  Kind
	Addrs []uint8
	// Value and Delay only apply to KindCommand.
	Value uint16
	Delay time.Duration
}

// Reg16 is a single 16-bit register.
func Reg16(tag Tag, addr uint8) Reg {
	return Reg{Tag: tag, Kind: KindSingle, Addrs: []uint8{addr}}
}

// Map is a value spread over addrs, in order.
func Map(tag Tag, addrs ...uint8) Reg {
	return Reg{Tag: tag, Kind: KindComposite, Addrs: addrs}
}

// Set is a group of related registers.
func Set(tag Tag, addrs ...uint8) Reg {
	return Reg{Tag: tag, Kind: KindSet, Addrs: addrs}
}

// Set16 is a command: writing value to addr needs delay to settle.
func Set16(tag Tag, addr uint8, value uint16, delay time.Duration) Reg {
	return Reg{Tag: tag, Kind: KindCommand, Addrs: []uint8{addr}, Value: value, Delay: delay}
}

// Addr is the first (and for KindSingle the only) register of r.
func (r Reg) Addr() uint8 {
	return r.Addrs[0]
}

func (r Reg) clone() Reg {
	r.Addrs = slices.Clone(r.Addrs)
	return r
}

// Directory resolves tags for one chip variant. It is immutable once built
// and safe for concurrent use.
type Directory struct {
	name string
	regs map[Tag]Reg
}

// NewDirectory builds a directory from regs. Every reg needs at least one
// address and a tag may only appear once.
func NewDirectory(name string, regs ...Reg) (*Directory, error) {
	d := &Directory{name: name, regs: make(map[Tag]Reg, len(regs))}
	for _, r := range regs {
		if len(r.Addrs) == 0 {
			return nil, fmt.Errorf("%s: %s has no registers", name, r.Tag)
		}
		if r.Kind == KindCommand && len(r.Addrs) != 1 {
			return nil, fmt.Errorf("%s: command %s needs exactly one register", name, r.Tag)
		}
		if _, dup := d.regs[r.Tag]; dup {
			return nil, fmt.Errorf("%s: duplicate tag %s", name, r.Tag)
		}
		d.regs[r.Tag] = r.clone()
	}
	return d, nil
}

// MustDirectory is NewDirectory for package-level tables.
func MustDirectory(name string, regs ...Reg) *Directory {
	d, err := NewDirectory(name, regs...)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Directory) Name() string {
	return d.name
}

// Resolve returns the encoding of tag. An unknown tag means the directory
// and its caller disagree on the chip variant.
func (d *Directory) Resolve(tag Tag) (Reg, error) {
	r, ok := d.regs[tag]
	if !ok {
		return Reg{}, fmt.Errorf("%s: %s: %w", d.name, tag, ErrUnknownTag)
	}
	return r.clone(), nil
}

// Has reports whether tag resolves.
func (d *Directory) Has(tag Tag) bool {
	_, ok := d.regs[tag]
	return ok
}

// Tags returns the tags covered by d in ascending order.
func (d *Directory) Tags() []Tag {
	tags := make([]Tag, 0, len(d.regs))
	for t := range d.regs {
		tags = append(tags, t)
	}
	slices.Sort(tags)
	return tags
}
