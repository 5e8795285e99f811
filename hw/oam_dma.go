package hw

import (
	"nescore/emu/log"
	"nescore/hw/hwio"
)

const (
	OAMDMAAddr  = 0x4014
	OAMDATAAddr = 0x2004
)

// oamDMA copies a 256-byte page of CPU memory to the PPU OAMDATA port,
// stalling the CPU for the whole transfer.
type oamDMA struct {
	OAMDMA hwio.Reg8

	page    uint8
	pending bool
}

func (dma *oamDMA) init() {
	dma.OAMDMA = hwio.Reg8{
		Name:    "OAMDMA",
		Flags:   hwio.WriteOnlyFlag,
		WriteCb: dma.WriteOAMDMA,
	}
}

func (dma *oamDMA) WriteOAMDMA(_, val uint8) {
	log.ModDMA.DebugZ("Write to OAMDMA reg").Hex8("val", val).End()
	dma.page = val
	dma.pending = true
}

// run performs the pending transfer and returns the number of CPU cycles
// it took: 513, plus one alignment cycle if it starts on an odd cycle.
func (dma *oamDMA) run(bus *hwio.Table, cycles int64) int {
	dma.pending = false

	n := 513
	if cycles%2 == 1 {
		n++
	}

	log.ModDMA.DebugZ("Begin OAM DMA transfer").
		Hex8("page", dma.page).
		Int64("cycles", cycles).
		End()

	src := uint16(dma.page) << 8
	for i := uint16(0); i < 256; i++ {
		bus.Write8(OAMDATAAddr, bus.Read8(src+i))
	}
	return n
}
