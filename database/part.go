package database

import (
	"encoding/json"
	"fmt"
	"strconv"
)

type configColumnJSON struct {
	FrameCount *uint32 `json:"frame_count"`
}

type configBusJSON struct {
	ConfigurationColumns map[string]configColumnJSON `json:"configuration_columns"`
}

type clockRegionRowJSON struct {
	ConfigurationBuses map[string]configBusJSON `json:"configuration_buses"`
}

type clockRegionHalfJSON struct {
	Rows map[string]clockRegionRowJSON `json:"rows"`
}

type globalClockRegionsJSON struct {
	Top    *clockRegionHalfJSON `json:"top"`
	Bottom *clockRegionHalfJSON `json:"bottom"`
}

type partJSON struct {
	IDCode             *uint32                 `json:"idcode"`
	IOBanks            map[string]string       `json:"iobanks"`
	GlobalClockRegions *globalClockRegionsJSON `json:"global_clock_regions"`
}

// orderedByIndex converts a JSON object keyed by "0", "1", ... into a slice,
// enforcing that the keys form the exact sequence 0..n-1.
func orderedByIndex[V any](m map[string]V) ([]V, error) {
	out := make([]V, len(m))
	seen := make([]bool, len(m))
	for key, value := range m {
		index, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("cannot parse index %q", key)
		}
		if index < 0 || index >= len(m) || seen[index] {
			return nil, fmt.Errorf("index %q not in sequence", key)
		}
		out[index] = value
		seen[index] = true
	}
	return out, nil
}

func halfFromJSON(half *clockRegionHalfJSON) (GlobalClockRegionHalf, error) {
	if half == nil {
		return nil, fmt.Errorf("could not find global_clock_region rows")
	}
	rows, err := orderedByIndex(half.Rows)
	if err != nil {
		return nil, err
	}
	out := make(GlobalClockRegionHalf, 0, len(rows))
	for _, rowJSON := range rows {
		row := make(ClockRegionRow, len(rowJSON.ConfigurationBuses))
		for busName, busJSON := range rowJSON.ConfigurationBuses {
			bus, ok := stringToConfigBus[busName]
			if !ok {
				return nil, fmt.Errorf("unknown config bus type %q", busName)
			}
			columns, err := orderedByIndex(busJSON.ConfigurationColumns)
			if err != nil {
				return nil, err
			}
			counts := make(ConfigColumnsFramesCount, 0, len(columns))
			for _, column := range columns {
				if column.FrameCount == nil {
					return nil, fmt.Errorf("configuration column missing frame_count")
				}
				counts = append(counts, *column.FrameCount)
			}
			row[bus] = counts
		}
		out = append(out, row)
	}
	return out, nil
}

// ParsePart decodes the content of a part.json file.
func ParsePart(content []byte) (Part, error) {
	var decoded partJSON
	if err := json.Unmarshal(content, &decoded); err != nil {
		return Part{}, fmt.Errorf("json parsing error: %w", err)
	}
	if decoded.IDCode == nil {
		return Part{}, fmt.Errorf("part missing idcode")
	}
	if decoded.GlobalClockRegions == nil {
		return Part{}, fmt.Errorf("part missing global_clock_regions")
	}
	part := Part{
		IDCode:  *decoded.IDCode,
		IOBanks: IOBanksIDsToLocation{},
	}
	for key, location := range decoded.IOBanks {
		bank, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			return Part{}, fmt.Errorf("cannot parse iobank %q", key)
		}
		part.IOBanks[uint32(bank)] = location
	}
	var err error
	part.GlobalClockRegions.TopRows, err = halfFromJSON(decoded.GlobalClockRegions.Top)
	if err != nil {
		return Part{}, err
	}
	part.GlobalClockRegions.BottomRows, err = halfFromJSON(decoded.GlobalClockRegions.Bottom)
	if err != nil {
		return Part{}, err
	}
	return part, nil
}
