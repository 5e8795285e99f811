package mappers

import (
	"fmt"

	"nescore/emu/log"
	"nescore/hw"
	"nescore/ines"
)

var modMapper = log.NewModule("mapper")

// Load maps the cartridge described by rom on the CPU and PPU buses.
func Load(rom *ines.Rom, cpu *hw.CPU, ppu *hw.PPU) error {
	desc, ok := All[rom.Mapper()]
	if !ok {
		return fmt.Errorf("unsupported mapper %d", rom.Mapper())
	}
	base, err := newbase(desc, rom, cpu, ppu)
	if err != nil {
		return fmt.Errorf("mapper initialization failed: %w", err)
	}
	if err := base.load(); err != nil {
		return fmt.Errorf("failed to load mapper %s: %w", desc.Name, err)
	}
	modMapper.WithField("name", desc.Name).Infof("cartridge loaded, %dKB PRG, %dKB CHR", len(rom.PRG)/1024, len(rom.CHR)/1024)
	return nil
}

type MapperDesc struct {
	Name         string
	Load         func(*base) error
	PRGROMbanksz uint32
	CHRROMbanksz uint32
}

var All = map[uint16]MapperDesc{
	0: NROM,
}
