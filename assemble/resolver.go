// Package assemble turns parsed FASM features into configuration frame
// bits using the part database.
package assemble

import (
	"fmt"
	"strings"

	"github.com/fpgatools/fasm2bit/database"
	"github.com/fpgatools/fasm2bit/xc7"
)

// Feature is one FASM feature to resolve: "bits" holds the value, starting
// from the lowest bit "StartBit" with the given "Width". Synthesized
// features carry line -1.
type Feature struct {
	Line     int64
	Name     string
	StartBit int
	Width    int
	Bits     uint64
}

func iobSiteName(site string) (string, bool) {
	y := site[len(site)-1]
	if y < '0' || y > '9' {
		return "", false
	}
	return fmt.Sprintf("IOB_Y%d", (y-'0')%2), true
}

// findPUDCBTileSite locates the tile and IOB site whose pin function
// mentions PUDC_B, the dedicated pull-up-during-configuration pin.
func findPUDCBTileSite(grid database.TileGrid) (tile, site string, ok bool) {
	for name, tileInfo := range grid {
		for siteName, pinFunction := range tileInfo.PinFunctions {
			if !strings.Contains(pinFunction, "PUDC_B") {
				continue
			}
			// https://github.com/chipsalliance/f4pga-xc-fasm/blob/25dc605c9c0896204f0c3425b52a332034cf5e5c/xc_fasm/fasm2frames.py#L100
			iob, ok := iobSiteName(siteName)
			if !ok {
				return "", "", false
			}
			return name, iob, true
		}
	}
	return "", "", false
}

func iobSites(grid database.TileGrid, tileName string) []string {
	var out []string
	for siteName := range grid[tileName].Sites {
		if iob, ok := iobSiteName(siteName); ok {
			out = append(out, iob)
		}
	}
	return out
}

// The PUDC_B pin site needs its pull-up configured whenever the pin exists,
// one line per IO standards bundle plus the pull type itself.
var pudcbPullUpFeatures = []string{
	"%s.%s.LVCMOS12_LVCMOS15_LVCMOS18_LVCMOS25_LVCMOS33_LVDS_25_LVTTL_SSTL135_SSTL15_TMDS_33.IN_ONLY",
	"%s.%s.LVCMOS25_LVCMOS33_LVTTL.IN",
	"%s.%s.PULLTYPE.PULLUP",
}

// addPUDCBFeatures prepends the implicit PUDC_B pull-up features so that
// explicit FASM lines processed later can override them.
func addPUDCBFeatures(grid database.TileGrid, features []Feature) []Feature {
	tile, site, ok := findPUDCBTileSite(grid)
	if !ok {
		return features
	}
	for _, template := range pudcbPullUpFeatures {
		features = append(features, Feature{
			Line:  -1,
			Name:  fmt.Sprintf(template, tile, site),
			Width: 1,
			Bits:  1,
		})
	}
	return features
}

// addStepDownFeatures propagates STEPDOWN tags across IO banks: any bank
// with a STEPDOWN feature gets the tag replicated onto every unused IOB33
// site and a STEPDOWN marker on its HCLK_IOI3 tiles.
func addStepDownFeatures(banks *database.BanksTilesRegistry, grid database.TileGrid, features []Feature) []Feature {
	usedIOBSites := map[string]bool{}
	stepdownBanksTags := map[uint32]map[string]bool{}
	for _, feature := range features {
		if feature.Bits == 0 {
			continue
		}
		segments := strings.SplitN(feature.Name, ".", 4)
		if len(segments) < 3 {
			continue
		}
		tile, site, tag := segments[0], segments[1], segments[2]
		if strings.Contains(tile, "IOB33") {
			usedIOBSites[tile+"."+site] = true
		}
		if strings.Contains(tag, "STEPDOWN") {
			bankValues := banks.TileBanks(tile)
			if len(bankValues) == 0 {
				continue
			}
			bank := bankValues[0]
			if stepdownBanksTags[bank] == nil {
				stepdownBanksTags[bank] = map[string]bool{}
			}
			stepdownBanksTags[bank][tag] = true
		}
	}

	synthesize := func(name string) {
		features = append(features, Feature{Line: -1, Name: name, Width: 1, Bits: 1})
	}
	for bank, tags := range stepdownBanksTags {
		tiles, ok := banks.Tiles(bank)
		if !ok {
			continue
		}
		for _, tile := range tiles {
			if strings.Contains(tile, "IOB33") {
				for _, site := range iobSites(grid, tile) {
					tileSite := tile + "." + site
					if usedIOBSites[tileSite] {
						continue
					}
					for tag := range tags {
						synthesize(tileSite + "." + tag)
					}
				}
			}
			if strings.Contains(tile, "HCLK_IOI3") {
				synthesize(tile + ".STEPDOWN")
			}
		}
	}
	return features
}

// processFeatures resolves each feature against the database and collects
// the resulting bits into the frame set. For every bus that contributed at
// least one bit, the tile's whole declared frame block is materialized so
// untouched frames inside it still appear in the bitstream.
func processFeatures(features []Feature, db *database.PartDatabase, frames *xc7.FrameSet) error {
	for _, tileFeature := range features {
		// The first segment of the feature name is the tile name, the rest
		// is the feature of that specific tile. For instance:
		//  [tile name   ] [feature          ][e, s] [value ]
		//  CLBLM_R_X33Y38.SLICEM_X0.ALUT.INIT[31:0]=32'b11111111111111110000000000000000
		segments := strings.SplitN(tileFeature.Name, ".", 2)
		if len(segments) != 2 {
			return fmt.Errorf("cannot split feature name %s", tileFeature.Name)
		}
		tileName, feature := segments[0], segments[1]
		usedConfigBuses := map[database.ConfigBus]bool{}
		// Select only bit addresses with the value bit set.
		for addr := 0; addr < tileFeature.Width; addr++ {
			if tileFeature.Bits&(uint64(1)<<addr) == 0 {
				continue
			}
			featureAddr := uint32(addr + tileFeature.StartBit)
			err := db.ConfigBits(tileName, feature, featureAddr,
				func(bus database.ConfigBus, address uint32, bit database.FrameBit, value bool) {
					usedConfigBuses[bus] = true
					// Materialize the frame; a cleared bit still wants its
					// frame present, it just doesn't flip anything.
					frames.Touch(xc7.FrameAddress(address))
					if value {
						frames.SetBit(xc7.FrameAddress(address), bit.Word, bit.Index)
					}
				})
			if err != nil {
				return err
			}
		}
		if len(usedConfigBuses) == 0 {
			continue
		}
		tileInfo := db.Grid()[tileName]
		for bus := range usedConfigBuses {
			block := tileInfo.Bits[bus]
			for i := uint32(0); i < block.Frames; i++ {
				frames.Touch(xc7.FrameAddress(block.BaseAddress + i))
			}
		}
	}
	return nil
}
