package database

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fpgatools/fasm2bit/log"
	"github.com/fpgatools/fasm2bit/util"
)

const (
	tileTypeJSONPrefix = "tile_type_"
	tileTypeJSONSuffix = ".json"
)

// tileTypePaths stores the absolute sidecar paths of one tile type.
type tileTypePaths struct {
	segbits         string
	segbitsBlockRAM string
	ppips           string
	mask            string
}

func sidecar(dir, format, tileTypeLower string) string {
	path := filepath.Join(dir, fmt.Sprintf(format, tileTypeLower))
	if !util.FileExists(path) {
		return ""
	}
	return path
}

// indexTileTypes walks the database root and records, for every
// tile_type_<TYPE>.json found, the segbits/ppips/mask sidecar files sitting
// next to it.
func indexTileTypes(databasePath string) (map[string]tileTypePaths, error) {
	index := map[string]tileTypePaths{}
	err := filepath.WalkDir(databasePath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			log.Warning("error accessing %s: %s\n", path, err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		filename := entry.Name()
		if !strings.HasPrefix(filename, tileTypeJSONPrefix) ||
			!strings.HasSuffix(filename, tileTypeJSONSuffix) {
			return nil
		}
		tileType := filename[len(tileTypeJSONPrefix) : len(filename)-len(tileTypeJSONSuffix)]
		tileTypeLower := strings.ToLower(tileType)
		dir := filepath.Dir(path)
		index[tileType] = tileTypePaths{
			segbits:         sidecar(dir, "segbits_%s.db", tileTypeLower),
			segbitsBlockRAM: sidecar(dir, "segbits_%s.block_ram.db", tileTypeLower),
			ppips:           sidecar(dir, "ppips_%s.db", tileTypeLower),
			mask:            sidecar(dir, "mask_%s.db", tileTypeLower),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return index, nil
}

// parseTileTypeDatabase loads the segbits and pseudo-PIP sidecars of one
// tile type. Missing sidecars simply yield empty tables. The mask sidecar
// is informational and not consumed.
func parseTileTypeDatabase(paths tileTypePaths) (*SegmentsBitsWithPseudoPIPs, error) {
	out := &SegmentsBitsWithPseudoPIPs{
		PIPs:        PseudoPIPs{},
		SegmentBits: map[ConfigBus]SegmentsBits{},
	}
	if paths.ppips != "" {
		content, err := os.ReadFile(paths.ppips)
		if err != nil {
			return nil, err
		}
		out.PIPs, err = ParsePseudoPIPs(string(content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", paths.ppips, err)
		}
	}
	if paths.segbits != "" {
		content, err := os.ReadFile(paths.segbits)
		if err != nil {
			return nil, err
		}
		segbits, err := ParseSegmentsBits(string(content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", paths.segbits, err)
		}
		out.SegmentBits[BusCLBIOCLK] = segbits
	}
	if paths.segbitsBlockRAM != "" {
		content, err := os.ReadFile(paths.segbitsBlockRAM)
		if err != nil {
			return nil, err
		}
		segbits, err := ParseSegmentsBits(string(content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", paths.segbitsBlockRAM, err)
		}
		out.SegmentBits[BusBlockRAM] = segbits
	}
	return out, nil
}

func parsePartInfo(databasePath, partName string) (PartInfo, error) {
	partsYAML, err := os.ReadFile(filepath.Join(databasePath, "mapping", "parts.yaml"))
	if err != nil {
		return PartInfo{}, err
	}
	devicesYAML, err := os.ReadFile(filepath.Join(databasePath, "mapping", "devices.yaml"))
	if err != nil {
		return PartInfo{}, err
	}
	partsInfos, err := ParsePartsInfos(partsYAML, devicesYAML)
	if err != nil {
		return PartInfo{}, err
	}
	info, ok := partsInfos[partName]
	if !ok {
		return PartInfo{}, fmt.Errorf("invalid or unknown part %q", partName)
	}
	return info, nil
}

// Open loads the database of the given part from a prjxray database root.
// Tile-type segbit databases are indexed now but parsed lazily on first use.
func Open(databasePath, partName string) (*PartDatabase, error) {
	info, err := parsePartInfo(databasePath, partName)
	if err != nil {
		return nil, fmt.Errorf("part mapping parsing: %w", err)
	}
	log.Debug("part %s: device %s, fabric %s\n", partName, info.Device, info.Fabric)

	tilegridJSON, err := os.ReadFile(filepath.Join(databasePath, info.Fabric, "tilegrid.json"))
	if err != nil {
		return nil, err
	}
	grid, err := ParseTileGrid(tilegridJSON)
	if err != nil {
		return nil, fmt.Errorf("tilegrid: %w", err)
	}

	index, err := indexTileTypes(databasePath)
	if err != nil {
		return nil, err
	}
	getter := func(tileType string) (*SegmentsBitsWithPseudoPIPs, error) {
		paths, ok := index[tileType]
		if !ok {
			return nil, nil
		}
		return parseTileTypeDatabase(paths)
	}

	partJSON, err := os.ReadFile(filepath.Join(databasePath, partName, "part.json"))
	if err != nil {
		return nil, err
	}
	part, err := ParsePart(partJSON)
	if err != nil {
		return nil, fmt.Errorf("part.json: %w", err)
	}

	pinsCSV, err := os.ReadFile(filepath.Join(databasePath, partName, "package_pins.csv"))
	if err != nil {
		return nil, err
	}
	pins, err := ParsePackagePins(string(pinsCSV))
	if err != nil {
		return nil, fmt.Errorf("package_pins.csv: %w", err)
	}

	banks := NewBanksTilesRegistry(part, pins)
	return NewPartDatabase(grid, part, banks, getter), nil
}
