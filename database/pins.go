package database

import (
	"strconv"
	"strings"
)

var packagePinsHeader = []string{"pin", "bank", "site", "tile", "pin_function"}

// ParsePackagePins decodes a package_pins.csv file. The first line must be
// the "pin,bank,site,tile,pin_function" header.
func ParsePackagePins(content string) (PackagePins, error) {
	var pins PackagePins
	err := forEachLine(content, func(lineNumber uint32, line string) error {
		segments := strings.Split(line, ",")
		for i := range segments {
			segments[i] = strings.TrimSpace(segments[i])
		}
		if len(segments) == 1 && segments[0] == "" {
			return nil
		}
		if lineNumber == 1 {
			if len(segments) != len(packagePinsHeader) {
				return invalidLineError(lineNumber, "missing header")
			}
			for i := range packagePinsHeader {
				if segments[i] != packagePinsHeader[i] {
					return invalidLineError(lineNumber, "missing header")
				}
			}
			return nil
		}
		if len(segments) != 5 {
			return invalidLineError(lineNumber, "invalid line %q", line)
		}
		bank, err := strconv.ParseUint(segments[1], 10, 32)
		if err != nil {
			return invalidLineError(lineNumber, "could not parse bank (second column) %q", line)
		}
		pins = append(pins, PackagePin{
			Pin:         segments[0],
			Bank:        uint32(bank),
			Site:        segments[2],
			Tile:        segments[3],
			PinFunction: segments[4],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pins, nil
}
