package database

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fpgatools/fasm2bit/util"
)

// BanksTilesRegistry is a many to many map between IO banks and tiles.
type BanksTilesRegistry struct {
	tileToBanks  map[string][]uint32
	banksToTiles map[uint32][]string
}

// NewBanksTilesRegistry derives the bank/tile relation from the part's
// iobank locations and the package pin table.
func NewBanksTilesRegistry(part Part, pins PackagePins) BanksTilesRegistry {
	registry := BanksTilesRegistry{
		tileToBanks:  map[string][]uint32{},
		banksToTiles: map[uint32][]string{},
	}
	tilesSeen := map[uint32]map[string]bool{}
	add := func(bank uint32, tile string) {
		if tilesSeen[bank] == nil {
			tilesSeen[bank] = map[string]bool{}
		}
		if !tilesSeen[bank][tile] {
			tilesSeen[bank][tile] = true
			registry.banksToTiles[bank] = append(registry.banksToTiles[bank], tile)
		}
		registry.tileToBanks[tile] = append(registry.tileToBanks[tile], bank)
	}
	// Ordered iteration keeps the bank lists deterministic between runs.
	for _, entry := range util.OrderedEntries(part.IOBanks) {
		add(entry.Key, "HCLK_IOI3_"+entry.Value)
	}
	for _, pin := range pins {
		add(pin.Bank, pin.Tile)
	}
	for _, tiles := range registry.banksToTiles {
		sort.Strings(tiles)
	}
	return registry
}

// Tiles returns the tiles of an IO bank.
func (r *BanksTilesRegistry) Tiles(bank uint32) ([]string, bool) {
	tiles, ok := r.banksToTiles[bank]
	return tiles, ok
}

// TileBanks returns the IO banks a tile is part of.
func (r *BanksTilesRegistry) TileBanks(tile string) []uint32 {
	return r.tileToBanks[tile]
}

// Banks returns the sorted list of known bank numbers.
func (r *BanksTilesRegistry) Banks() []uint32 {
	return util.OrderedKeys(r.banksToTiles)
}

// SegmentsBitsWithPseudoPIPs bundles a tile type's pseudo-PIPs with its
// per-bus segment bit tables.
type SegmentsBitsWithPseudoPIPs struct {
	PIPs        PseudoPIPs
	SegmentBits map[ConfigBus]SegmentsBits
}

// TileTypesSegmentsBitsGetter resolves a tile type to its segbits database.
// It returns (nil, nil) when the tile type is unknown.
type TileTypesSegmentsBitsGetter func(tileType string) (*SegmentsBitsWithPseudoPIPs, error)

// FrameBit locates a single bit inside a configuration frame.
type FrameBit struct {
	Word  uint32
	Index uint32
}

// BitSetter receives one frame bit edit: the configuration bus, the frame
// address, the bit location and whether the bit is to be set or deliberately
// left cleared.
type BitSetter func(bus ConfigBus, address uint32, bit FrameBit, value bool)

// PartDatabase centralizes access to all the information for a specific
// part. It owns the tile grid, the banks registry, the part descriptor and
// a lazily-populated per-tile-type segbits cache.
type PartDatabase struct {
	grid    TileGrid
	banks   BanksTilesRegistry
	part    Part
	segbits TileTypesSegmentsBitsGetter
	cache   map[string]*SegmentsBitsWithPseudoPIPs
}

// NewPartDatabase assembles a database from already-loaded records. The
// getter is consulted once per distinct tile type.
func NewPartDatabase(grid TileGrid, part Part, banks BanksTilesRegistry, segbits TileTypesSegmentsBitsGetter) *PartDatabase {
	return &PartDatabase{
		grid:    grid,
		banks:   banks,
		part:    part,
		segbits: segbits,
		cache:   map[string]*SegmentsBitsWithPseudoPIPs{},
	}
}

// Grid returns the read-only tile grid.
func (db *PartDatabase) Grid() TileGrid { return db.grid }

// Banks returns the bank/tile registry.
func (db *PartDatabase) Banks() *BanksTilesRegistry { return &db.banks }

// Part returns the part descriptor consumed by the frame geometry.
func (db *PartDatabase) Part() Part { return db.part }

func (db *PartDatabase) tileTypeSegbits(tileType string) (*SegmentsBitsWithPseudoPIPs, error) {
	if cached, ok := db.cache[tileType]; ok {
		return cached, nil
	}
	segbits, err := db.segbits(tileType)
	if err != nil {
		return nil, err
	}
	if segbits == nil {
		return nil, fmt.Errorf("no segment bits database for tile type %q", tileType)
	}
	db.cache[tileType] = segbits
	return segbits, nil
}

// ConfigBits resolves one feature bit of a tile to its physical frame bits
// and feeds them to setter.
//
// The tile's effective type and feature are first rewritten through the bit
// block alias, if any. Features naming pseudo-PIPs are silently dropped:
// both the tile-scoped and the tile-type-scoped name are checked, matching
// the two historical suppression paths of the table generator.
func (db *PartDatabase) ConfigBits(tileName, feature string, address uint32, setter BitSetter) error {
	tile, ok := db.grid[tileName]
	if !ok {
		return fmt.Errorf("unknown tile %q", tileName)
	}
	// Either the tile's own type or the type it is aliased to.
	tileType := tile.Type
	aliasedFeature := feature

	// Materialize aliased bit blocks.
	aliasedBits := make(Bits, len(tile.Bits))
	for bus, block := range tile.Bits {
		if block.Alias == nil {
			aliasedBits[bus] = block
			continue
		}
		alias := block.Alias
		tileType = alias.Type
		parts := strings.SplitN(feature, ".", 2)
		if len(parts) == 2 {
			if site, ok := alias.Sites[parts[1]]; ok {
				parts[1] = site
			}
			aliasedFeature = strings.Join(parts, ".")
		}
		aliasedBits[bus] = BitsBlock{
			BaseAddress: block.BaseAddress,
			Frames:      block.Frames,
			Offset:      block.Offset - alias.StartOffset,
			Words:       block.Words,
		}
	}

	tileTypeBits, err := db.tileTypeSegbits(tileType)
	if err != nil {
		return err
	}
	if _, ok := tileTypeBits.PIPs[tileName+"."+aliasedFeature]; ok {
		return nil
	}

	key := TileFeature{
		TileFeature: tileType + "." + aliasedFeature,
		Address:     address,
	}
	if _, ok := tileTypeBits.PIPs[key.TileFeature]; ok {
		return nil
	}

	// Probe the buses declared on this tile; the bus whose table knows the
	// feature wins.
	found := false
	for _, bus := range util.OrderedKeys(aliasedBits) {
		featuresSegbits, ok := tileTypeBits.SegmentBits[bus]
		if !ok {
			continue
		}
		segbits, ok := featuresSegbits[key]
		if !ok {
			continue
		}
		found = true
		block := aliasedBits[bus]
		for _, segbit := range segbits {
			address := block.BaseAddress + segbit.WordColumn
			bitPos := block.Offset*32 + segbit.WordBit
			setter(bus, address, FrameBit{
				Word:  bitPos / 32,
				Index: bitPos % 32,
			}, segbit.IsSet)
		}
	}
	if !found {
		return fmt.Errorf("no segment bits entry for feature %q (address %d) of tile %q",
			key.TileFeature, address, tileName)
	}
	return nil
}
