package database

import (
	"encoding/json"
	"fmt"
	"strconv"
)

var stringToConfigBus = map[string]ConfigBus{
	"CLB_IO_CLK": BusCLBIOCLK,
	"BLOCK_RAM":  BusBlockRAM,
	"CFG_CLB":    BusCFGCLB,
}

type bitsBlockAliasJSON struct {
	Sites       map[string]string `json:"sites"`
	StartOffset *uint32           `json:"start_offset"`
	Type        *string           `json:"type"`
}

type bitsBlockJSON struct {
	Alias       *bitsBlockAliasJSON `json:"alias"`
	BaseAddress *string             `json:"baseaddr"`
	Frames      *uint32             `json:"frames"`
	Offset      *uint32             `json:"offset"`
	Words       *uint32             `json:"words"`
}

type tileJSON struct {
	Type            *string                  `json:"type"`
	GridX           *uint32                  `json:"grid_x"`
	GridY           *uint32                  `json:"grid_y"`
	ClockRegion     *string                  `json:"clock_region"`
	Bits            map[string]bitsBlockJSON `json:"bits"`
	PinFunctions    map[string]string        `json:"pin_functions"`
	Sites           map[string]string        `json:"sites"`
	ProhibitedSites []string                 `json:"prohibited_sites"`
}

func parseBaseAddress(value string) (uint32, error) {
	address, err := strconv.ParseUint(value, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("could not parse %q to bits address", value)
	}
	return uint32(address), nil
}

func (b *bitsBlockJSON) toBitsBlock() (BitsBlock, error) {
	var block BitsBlock
	if b.BaseAddress == nil || b.Frames == nil || b.Offset == nil || b.Words == nil {
		return block, fmt.Errorf("bits block missing one of baseaddr/frames/offset/words")
	}
	baseAddress, err := parseBaseAddress(*b.BaseAddress)
	if err != nil {
		return block, err
	}
	block = BitsBlock{
		BaseAddress: baseAddress,
		Frames:      *b.Frames,
		Offset:      *b.Offset,
		Words:       *b.Words,
	}
	if b.Alias != nil {
		if b.Alias.StartOffset == nil || b.Alias.Type == nil || b.Alias.Sites == nil {
			return block, fmt.Errorf("bits block alias missing one of sites/start_offset/type")
		}
		block.Alias = &BitsBlockAlias{
			Sites:       b.Alias.Sites,
			StartOffset: *b.Alias.StartOffset,
			Type:        *b.Alias.Type,
		}
	}
	return block, nil
}

func (t *tileJSON) toTile() (Tile, error) {
	var tile Tile
	if t.Type == nil || t.GridX == nil || t.GridY == nil {
		return tile, fmt.Errorf("tile missing one of type/grid_x/grid_y")
	}
	if t.Bits == nil || t.PinFunctions == nil || t.Sites == nil || t.ProhibitedSites == nil {
		return tile, fmt.Errorf("tile missing one of bits/pin_functions/sites/prohibited_sites")
	}
	tile = Tile{
		Type:            *t.Type,
		Coord:           Location{X: *t.GridX, Y: *t.GridY},
		Bits:            make(Bits, len(t.Bits)),
		PinFunctions:    t.PinFunctions,
		Sites:           t.Sites,
		ProhibitedSites: t.ProhibitedSites,
	}
	if t.ClockRegion != nil {
		tile.ClockRegion = *t.ClockRegion
	}
	for busName, blockJSON := range t.Bits {
		bus, ok := stringToConfigBus[busName]
		if !ok {
			return tile, fmt.Errorf("unknown frame block type %q", busName)
		}
		block, err := blockJSON.toBitsBlock()
		if err != nil {
			return tile, err
		}
		tile.Bits[bus] = block
	}
	return tile, nil
}

// ParseTileGrid decodes the content of a tilegrid.json file.
func ParseTileGrid(content []byte) (TileGrid, error) {
	var tiles map[string]tileJSON
	if err := json.Unmarshal(content, &tiles); err != nil {
		return nil, fmt.Errorf("json parsing error: %w", err)
	}
	grid := make(TileGrid, len(tiles))
	for name, decoded := range tiles {
		tile, err := decoded.toTile()
		if err != nil {
			return nil, fmt.Errorf("could not unmarshal tile %s: %w", name, err)
		}
		grid[name] = tile
	}
	return grid, nil
}
