package database

import (
	"fmt"
	"strconv"
	"strings"
)

// forEachLine calls sink for every newline-delimited subsequence of content
// with 1-based line numbers.
func forEachLine(content string, sink func(line uint32, text string) error) error {
	var lineNumber uint32
	for len(content) > 0 {
		lineNumber++
		text := content
		if nl := strings.IndexByte(content, '\n'); nl >= 0 {
			text = content[:nl]
			content = content[nl+1:]
		} else {
			content = ""
		}
		if err := sink(lineNumber, text); err != nil {
			return err
		}
	}
	return nil
}

func invalidLineError(lineNumber uint32, format string, a ...interface{}) error {
	return fmt.Errorf("%d: %s", lineNumber, fmt.Sprintf(format, a...))
}

var stringToPseudoPIPType = map[string]PseudoPIPType{
	"always":  PseudoPIPAlways,
	"default": PseudoPIPDefault,
	"hint":    PseudoPIPHint,
}

// ParsePseudoPIPs decodes a ppips_<tile_type>.db file: one
// "NAME (always|default|hint)" entry per line.
func ParsePseudoPIPs(content string) (PseudoPIPs, error) {
	pips := PseudoPIPs{}
	err := forEachLine(content, func(lineNumber uint32, line string) error {
		segments := strings.Fields(line)
		if len(segments) == 0 {
			return nil
		}
		if len(segments) != 2 {
			return invalidLineError(lineNumber, "invalid line %q", line)
		}
		pipType, ok := stringToPseudoPIPType[segments[1]]
		if !ok {
			return invalidLineError(lineNumber, "invalid pseudo pip state %q", segments[1])
		}
		pips[segments[0]] = pipType
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pips, nil
}

// parseTileFeatureNameAndAddress splits a trailing "[N]" address off a
// feature name. "FOO.BAR[231]" becomes ("FOO.BAR", 231); without a
// parseable bracket suffix the whole name is kept with address 0.
func parseTileFeatureNameAndAddress(value string) TileFeature {
	out := TileFeature{TileFeature: value}
	if !strings.HasSuffix(value, "]") {
		return out
	}
	openBracket := strings.LastIndexByte(value, '[')
	if openBracket < 0 {
		// Best effort, opening bracket not found, no matching, return.
		return out
	}
	address, err := strconv.ParseUint(value[openBracket+1:len(value)-1], 10, 32)
	if err != nil {
		// Cannot parse integer, give up on parsing an address.
		return out
	}
	out.TileFeature = value[:openBracket]
	out.Address = uint32(address)
	return out
}

// ParseSegmentsBits decodes a segbits_<tile_type>.db file: lines of
// "NAME[ADDR] coord+" where each coord is "[!]column_bit".
func ParseSegmentsBits(content string) (SegmentsBits, error) {
	segbits := SegmentsBits{}
	err := forEachLine(content, func(lineNumber uint32, line string) error {
		segments := strings.Fields(line)
		if len(segments) == 0 {
			return nil
		}
		if len(segments) == 1 {
			return invalidLineError(lineNumber, "invalid line %q", line)
		}
		key := parseTileFeatureNameAndAddress(segments[0])
		bits := make([]SegmentBit, 0, len(segments)-1)
		for _, bit := range segments[1:] {
			set := bit[0] != '!'
			if !set {
				bit = bit[1:]
			}
			coordinates := strings.Split(bit, "_")
			if len(coordinates) != 2 {
				return invalidLineError(lineNumber, "invalid line %q", line)
			}
			wordColumn, err := strconv.ParseUint(coordinates[0], 10, 32)
			if err != nil {
				return invalidLineError(lineNumber, "could not parse coordinate %q", line)
			}
			wordBit, err := strconv.ParseUint(coordinates[1], 10, 32)
			if err != nil {
				return invalidLineError(lineNumber, "could not parse coordinate %q", line)
			}
			bits = append(bits, SegmentBit{
				WordColumn: uint32(wordColumn),
				WordBit:    uint32(wordBit),
				IsSet:      set,
			})
		}
		segbits[key] = bits
		return nil
	})
	if err != nil {
		return nil, err
	}
	return segbits, nil
}
