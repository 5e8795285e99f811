package hwio

import (
	"fmt"

	"nescore/emu/log"
)

// BankIO8 is the capability every component mapped on a Table provides.
// Reads and writes may have side effects on the component.
type BankIO8 interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

// A Peeker can be read without side effects (tracing, disassembly).
type Peeker interface {
	Peek8(addr uint16) uint8
}

// Policy decides what happens on accesses to unmapped addresses.
type Policy uint8

const (
	// OpenBus returns the last value read on the bus and drops writes.
	OpenBus Policy = iota
	// Strict reports accesses to unmapped addresses as InvalidRegionError.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "openbus"
}

// Region binds an inclusive address range to a component.
type Region struct {
	Start, End uint16
	Name       string
	IO         BankIO8
}

func (r Region) contains(addr uint16) bool {
	return addr >= r.Start && addr <= r.End
}

func (r Region) String() string {
	return fmt.Sprintf("%s[%04X-%04X]", r.Name, r.Start, r.End)
}

// Table is an address bus. Regions are searched in registration order and the
// first one containing the address receives the access: a region overlapping
// an earlier one is shadowed on the overlapping range.
type Table struct {
	Name   string
	Policy Policy

	regions []Region
	last    uint8 // open bus
	err     error // first strict-mode violation not yet collected
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	t.Reset()
	return t
}

// Reset unmaps all regions.
func (t *Table) Reset() {
	t.regions = nil
	t.last = 0
	t.err = nil
}

// Map binds io to [start, end]. Later mappings never override earlier ones.
func (t *Table) Map(start, end uint16, name string, io BankIO8) {
	if end < start {
		panic(fmt.Sprintf("hwio: invalid range %04X-%04X for %s", start, end, name))
	}
	r := Region{Start: start, End: end, Name: name, IO: io}
	for _, prev := range t.regions {
		if prev.Start <= end && start <= prev.End {
			log.ModHwIo.DebugZ("overlapping region").
				String("bus", t.Name).
				String("region", r.String()).
				String("shadowed by", prev.String()).
				End()
		}
	}
	t.regions = append(t.regions, r)
}

func (t *Table) MapReg8(addr uint16, reg *Reg8) {
	t.Map(addr, addr, reg.Name, reg)
}

func (t *Table) MapDevice(addr uint16, dev *Device) {
	t.Map(addr, addr+uint16(dev.Size-1), dev.Name, dev)
}

func (t *Table) MapMem(addr uint16, mem *Mem) {
	vsize := mem.VSize
	if vsize == 0 {
		vsize = len(mem.Data)
	}
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex16("size", uint16(vsize)).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	t.Map(addr, addr+uint16(vsize-1), mem.Name, mem.BankIO8())
}

// MapMemorySlice maps buf at [addr, end], mirroring it if the range is larger
// than the buffer.
func (t *Table) MapMemorySlice(addr, end uint16, buf []uint8, readonly bool) {
	var flags MemFlags
	if readonly {
		flags |= MemFlag8ReadOnly
	}
	t.MapMem(addr, &Mem{
		Name:  fmt.Sprintf("slice@%04X", addr),
		Data:  buf,
		Flags: flags,
		VSize: int(end) - int(addr) + 1,
	})
}

// Unmap removes the regions entirely contained in [begin, end].
func (t *Table) Unmap(begin, end uint16) {
	kept := t.regions[:0]
	for _, r := range t.regions {
		if r.Start >= begin && r.End <= end {
			continue
		}
		kept = append(kept, r)
	}
	clear(t.regions[len(kept):])
	t.regions = kept
}

// Regions returns the mapped regions in search order.
func (t *Table) Regions() []Region {
	return append([]Region(nil), t.regions...)
}

// Overlaps lists pairs of regions whose ranges intersect, formatted as
// "earlier/later". A correctly wired bus has none.
func (t *Table) Overlaps() []string {
	var ovl []string
	for i, a := range t.regions {
		for _, b := range t.regions[i+1:] {
			if a.Start <= b.End && b.Start <= a.End {
				ovl = append(ovl, a.String()+"/"+b.String())
			}
		}
	}
	return ovl
}

// isWriteOnly reports whether reads of io leave the open bus value.
func isWriteOnly(io BankIO8) bool {
	wo, ok := io.(writeOnly)
	return ok && wo.writeOnly()
}

func (t *Table) search(addr uint16) BankIO8 {
	for i := range t.regions {
		if t.regions[i].contains(addr) {
			return t.regions[i].IO
		}
	}
	return nil
}

func (t *Table) unmapped(op string, addr uint16) {
	if t.Policy != Strict {
		return
	}
	log.ModHwIo.ErrorZ("unmapped "+op).
		String("bus", t.Name).
		Hex16("addr", addr).
		End()
	if t.err == nil {
		t.err = &InvalidRegionError{Bus: t.Name, Addr: addr}
	}
}

// Read8Err reads a byte, reporting an InvalidRegionError for unmapped
// addresses whatever the policy. The open bus value is returned along with
// the error.
func (t *Table) Read8Err(addr uint16) (uint8, error) {
	io := t.search(addr)
	if io == nil {
		return t.last, &InvalidRegionError{Bus: t.Name, Addr: addr}
	}
	if !isWriteOnly(io) {
		t.last = io.Read8(addr)
	}
	return t.last, nil
}

// Write8Err writes a byte, reporting an InvalidRegionError for unmapped
// addresses whatever the policy.
func (t *Table) Write8Err(addr uint16, val uint8) error {
	io := t.search(addr)
	if io == nil {
		return &InvalidRegionError{Bus: t.Name, Addr: addr}
	}
	io.Write8(addr, val)
	return nil
}

// Read8 forwards the read to the component mapped at addr. Unmapped reads,
// and reads of write-only components, return the open bus value; with the
// Strict policy unmapped reads are also recorded, see Err.
func (t *Table) Read8(addr uint16) uint8 {
	io := t.search(addr)
	if io == nil {
		t.unmapped("Read8", addr)
		return t.last
	}
	if !isWriteOnly(io) {
		t.last = io.Read8(addr)
	}
	return t.last
}

// Write8 forwards the write to the component mapped at addr. Unmapped writes
// are dropped; with the Strict policy they are also recorded, see Err.
func (t *Table) Write8(addr uint16, val uint8) {
	io := t.search(addr)
	if io == nil {
		t.unmapped("Write8", addr)
		return
	}
	io.Write8(addr, val)
}

// Peek8 reads without side effects, neither on the component nor on the
// open bus value.
func (t *Table) Peek8(addr uint16) uint8 {
	io := t.search(addr)
	if io == nil || isWriteOnly(io) {
		return t.last
	}
	if p, ok := io.(Peeker); ok {
		return p.Peek8(addr)
	}
	return t.last
}

// LastValue returns the open bus value.
func (t *Table) LastValue() uint8 { return t.last }

// Err returns and clears the first access to an unmapped address recorded
// since the last call. Always nil with the OpenBus policy.
func (t *Table) Err() error {
	err := t.err
	t.err = nil
	return err
}

func Write16(b BankIO8, addr uint16, val uint16) {
	lo := uint8(val & 0xff)
	hi := uint8(val >> 8)
	b.Write8(addr, lo)
	b.Write8(addr+1, hi)
}

func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Read16Bug reads a little-endian word without carrying into the high byte
// of the address: the high byte of the result comes from the start of the
// page when addr is the last byte of a page. This is how the 6502 fetches
// the JMP ($xxFF) pointer.
func Read16Bug(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr&0xFF00 | uint16(uint8(addr)+1))
	return uint16(hi)<<8 | uint16(lo)
}
