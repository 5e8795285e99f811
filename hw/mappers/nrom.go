package mappers

import "fmt"

var NROM = MapperDesc{
	Name:         "NROM",
	Load:         loadNROM,
	PRGROMbanksz: 0x4000,
	CHRROMbanksz: 0x2000,
}

func loadNROM(b *base) error {
	if len(b.rom.PRG) > 0x8000 {
		return fmt.Errorf("PRGROM too big for NROM: %d bytes", len(b.rom.PRG))
	}

	// CPU mapping.
	b.mapPRGRAM()

	// PRGROM mirrors (NROM-128) are taken care of by the slice mask.
	b.cpu.Bus.MapMemorySlice(0x8000, 0xFFFF, b.rom.PRG, true)

	// PPU mapping.
	b.mapCHR()
	return b.setNTMirroring(b.rom.Mirroring())
}
