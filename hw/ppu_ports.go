package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

// Register ports, as offsets from $2000.
const (
	PPUCTRL = iota
	PPUMASK
	PPUSTATUS
	OAMADDR
	OAMDATA
	PPUSCROLL
	PPUADDR
	PPUDATA
)

func (p *PPU) initPorts() {
	p.ports = hwio.Device{
		Name:    "ppu",
		Size:    0x2000,
		ReadCb:  p.readPort,
		PeekCb:  p.peekPort,
		WriteCb: p.writePort,
	}
}

// MapRegisters maps the register ports on the CPU bus, from $2000 to $3FFF.
func (p *PPU) MapRegisters(bus *hwio.Table) {
	bus.MapDevice(0x2000, &p.ports)
}

func (p *PPU) readPort(addr uint16) uint8 {
	switch addr & 7 {
	case PPUSTATUS:
		val := p.peekPort(addr)
		p.openbus = p.openbus&0x1F | val&0xE0
		p.status.set(vblank, false)
		p.w = false
		return val

	case OAMDATA:
		p.openbus = p.OAM[p.oamAddr]
		return p.openbus

	case PPUDATA:
		addr := p.v.addr()
		var val uint8
		if addr < 0x3F00 {
			// Reading VRAM is too slow so the actual data
			// will be returned at the next read.
			val = p.readBuf
			p.readBuf = p.Bus.Read8(addr)
		} else {
			// Reading palette data is immediate, but the buffer is
			// still filled with the nametable byte 'underneath'.
			val = p.Bus.Read8(addr)
			p.readBuf = p.Bus.Read8(addr - 0x1000)
		}
		log.ModPPU.DebugZ("VRAM read").
			Hex16("addr", addr).
			Hex8("val", val).
			End()
		p.incv()
		p.openbus = val
		return val
	}

	// Write-only ports.
	return p.openbus
}

func (p *PPU) peekPort(addr uint16) uint8 {
	switch addr & 7 {
	case PPUSTATUS:
		return uint8(p.status)&0xE0 | p.openbus&0x1F
	case OAMDATA:
		return p.OAM[p.oamAddr]
	case PPUDATA:
		if addr := p.v.addr(); addr >= 0x3F00 {
			return p.Bus.Peek8(addr)
		}
		return p.readBuf
	}
	return p.openbus
}

func (p *PPU) writePort(addr uint16, val uint8) {
	p.openbus = val

	reg := addr & 7
	switch reg {
	case PPUCTRL, PPUMASK, PPUSCROLL, PPUADDR:
		if p.lockout {
			log.ModPPU.DebugZ("write ignored during reset lockout").
				Hex16("addr", addr).
				Hex8("val", val).
				End()
			return
		}
	}

	switch reg {
	case PPUCTRL:
		log.ModPPU.DebugZ("Write to PPUCTRL").Hex8("val", val).End()
		p.ctrl = ppuctrl(val)
		p.t.setNametable(p.ctrl.nametable())

	case PPUMASK:
		log.ModPPU.DebugZ("Write to PPUMASK").Hex8("val", val).End()
		p.mask = ppumask(val)

	case OAMADDR:
		p.oamAddr = val

	case OAMDATA:
		p.OAM[p.oamAddr] = val
		p.oamAddr++

	case PPUSCROLL:
		log.ModPPU.DebugZ("Write to PPUSCROLL").Hex8("val", val).Bool("w", p.w).End()
		if !p.w { // first write
			p.t.setCoarsex(val >> 3)
			p.finex = val & 0b111
		} else { // second write
			p.t.setFiney(uint16(val & 0b111))
			p.t.setCoarsey(val >> 3)
		}
		p.w = !p.w

	case PPUADDR:
		// To read/write VRAM from CPU, PPUADDR is set to the address of the
		// operation. It's a 16-bit register so 2 writes are necessary.
		if !p.w { // first write, also clears bit 14
			p.t.setHigh(val & 0b11_1111)
		} else { // second write
			p.t.setLow(val)
			p.v = p.t
		}
		p.w = !p.w

	case PPUDATA:
		log.ModPPU.DebugZ("VRAM write").
			Hex16("addr", p.v.addr()).
			Hex8("val", val).
			End()
		p.Bus.Write8(p.v.addr(), val)
		p.incv()
	}
}

// After each i/o on PPUDATA, the VRAM address is incremented.
func (p *PPU) incv() {
	p.v = (p.v + loopy(p.ctrl.incr())) & 0x7FFF
}
