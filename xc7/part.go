package xc7

import (
	"github.com/fpgatools/fasm2bit/database"
)

// The configuration address space is a four-level nesting:
// part -> half -> row -> bus (block type) -> column -> minor. Each level
// validates its own address component and computes the successor within its
// range, punting back to the parent when the successor would leave it.

// configurationColumn is an endpoint on a configuration bus holding a fixed
// number of minor frames.
type configurationColumn struct {
	frameCount uint32
}

func (c *configurationColumn) isValidFrameAddress(address FrameAddress) bool {
	return uint32(address.Minor()) < c.frameCount
}

func (c *configurationColumn) nextFrameAddress(address FrameAddress) (FrameAddress, bool) {
	if !c.isValidFrameAddress(address) {
		return 0, false
	}
	if uint32(address.Minor())+1 < c.frameCount {
		return address + 1, true
	}
	// Next address is not in this column.
	return 0, false
}

// configurationBus sends frames to a specific block type within a row.
type configurationBus struct {
	columns []configurationColumn
}

func (b *configurationBus) isValidFrameAddress(address FrameAddress) bool {
	column := int(address.Column())
	if column >= len(b.columns) {
		return false
	}
	return b.columns[column].isValidFrameAddress(address)
}

func (b *configurationBus) nextFrameAddress(address FrameAddress) (FrameAddress, bool) {
	column := int(address.Column())
	if column >= len(b.columns) {
		return 0, false
	}
	if next, ok := b.columns[column].nextFrameAddress(address); ok {
		return next, true
	}
	// The next valid address is the beginning of the next column.
	if column+1 < len(b.columns) {
		next := NewFrameAddress(address.BlockType(), address.IsBottomHalf(),
			address.Row(), address.Column()+1, 0)
		if b.columns[column+1].isValidFrameAddress(next) {
			return next, true
		}
	}
	// Not in this bus.
	return 0, false
}

type row struct {
	buses map[BlockType]*configurationBus
}

func (r *row) isValidFrameAddress(address FrameAddress) bool {
	bus, ok := r.buses[address.BlockType()]
	if !ok {
		return false
	}
	return bus.isValidFrameAddress(address)
}

func (r *row) nextFrameAddress(address FrameAddress) (FrameAddress, bool) {
	bus, ok := r.buses[address.BlockType()]
	if !ok {
		return 0, false
	}
	// Rows of the same block type come next in frame address numerical
	// order, so a block-type change is the part's business, not the row's.
	return bus.nextFrameAddress(address)
}

// globalClockRegion groups the rows of one device half.
type globalClockRegion struct {
	rows []*row
}

func (g *globalClockRegion) isValidFrameAddress(address FrameAddress) bool {
	rowIndex := int(address.Row())
	if rowIndex >= len(g.rows) {
		return false
	}
	return g.rows[rowIndex].isValidFrameAddress(address)
}

func (g *globalClockRegion) nextFrameAddress(address FrameAddress) (FrameAddress, bool) {
	rowIndex := int(address.Row())
	if rowIndex >= len(g.rows) {
		return 0, false
	}
	if next, ok := g.rows[rowIndex].nextFrameAddress(address); ok {
		return next, true
	}
	// The next valid address is the beginning of the next row.
	if rowIndex+1 < len(g.rows) {
		next := NewFrameAddress(address.BlockType(), address.IsBottomHalf(),
			address.Row()+1, 0, 0)
		if g.rows[rowIndex+1].isValidFrameAddress(next) {
			return next, true
		}
	}
	// Must be in a different global clock region.
	return 0, false
}

// Part answers frame address validity and successor queries for one
// 7-series device in the canonical hardware traversal order.
type Part struct {
	idcode uint32
	top    globalClockRegion
	bottom globalClockRegion
}

// IDCode returns the 32-bit device identifier.
func (p *Part) IDCode() uint32 { return p.idcode }

// IsValidFrameAddress reports whether the address exists on this part.
func (p *Part) IsValidFrameAddress(address FrameAddress) bool {
	if address.IsBottomHalf() {
		return p.bottom.isValidFrameAddress(address)
	}
	return p.top.isValidFrameAddress(address)
}

// NextFrameAddress returns the successor of the address in the canonical
// traversal order: minors, then columns, then rows, then the bottom half,
// then the next block type starting over from the top half.
func (p *Part) NextFrameAddress(address FrameAddress) (FrameAddress, bool) {
	// Ask the current global clock region first.
	region := &p.top
	if address.IsBottomHalf() {
		region = &p.bottom
	}
	if next, ok := region.nextFrameAddress(address); ok {
		return next, true
	}

	// If the current address is in the top region, the bottom region is
	// next numerically.
	if !address.IsBottomHalf() {
		next := NewFrameAddress(address.BlockType(), true, 0, 0, 0)
		if p.bottom.isValidFrameAddress(next) {
			return next, true
		}
	}

	// Block types are next numerically.
	if address.BlockType() < BlockRAM {
		next := NewFrameAddress(BlockRAM, false, 0, 0, 0)
		if p.IsValidFrameAddress(next) {
			return next, true
		}
	}
	if address.BlockType() < BlockCFGCLB {
		next := NewFrameAddress(BlockCFGCLB, false, 0, 0, 0)
		if p.IsValidFrameAddress(next) {
			return next, true
		}
	}
	return 0, false
}

// blockTypeFromBus maps database configuration buses to frame address block
// types. CFG_CLB columns configure through the CLB/IO/CLK bus.
func blockTypeFromBus(bus database.ConfigBus) BlockType {
	switch bus {
	case database.BusCLBIOCLK:
		return BlockCLBIOCLK
	case database.BusBlockRAM:
		return BlockRAM
	case database.BusCFGCLB:
		return BlockCLBIOCLK
	}
	return BlockReserved
}

func rowFromDatabase(clockRegionRow database.ClockRegionRow) *row {
	out := &row{buses: map[BlockType]*configurationBus{}}
	for bus, frameCounts := range clockRegionRow {
		if len(frameCounts) == 0 {
			continue
		}
		blockType := blockTypeFromBus(bus)
		columns := make([]configurationColumn, 0, len(frameCounts))
		for _, frameCount := range frameCounts {
			columns = append(columns, configurationColumn{frameCount: frameCount})
		}
		out.buses[blockType] = &configurationBus{columns: columns}
	}
	return out
}

func regionFromDatabase(half database.GlobalClockRegionHalf) globalClockRegion {
	region := globalClockRegion{}
	for _, clockRegionRow := range half {
		region.rows = append(region.rows, rowFromDatabase(clockRegionRow))
	}
	return region
}

// NewPart builds the frame geometry from a decoded part descriptor.
func NewPart(part database.Part) *Part {
	return &Part{
		idcode: part.IDCode,
		top:    regionFromDatabase(part.GlobalClockRegions.TopRows),
		bottom: regionFromDatabase(part.GlobalClockRegions.BottomRows),
	}
}
