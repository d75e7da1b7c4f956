// Package fasm parses the FPGA assembly file format.
//
// Spec: https://fasm.readthedocs.io/en/latest/specification/syntax.html
package fasm

import (
	"fmt"
	"io"
)

// Callback receives one parsed FASM line. The "feature" found in line number
// "line" is set the values given in "bits", starting from lowest "startBit"
// (lsb) with given "width". Returning false aborts parsing.
type Callback func(line uint32, feature string, startBit, width int, bits uint64) bool

// AnnotationCallback receives annotation name/value pairs found in {...}
// blocks. If there are multiple annotations per feature, it is called
// multiple times. Quotes around the value are removed, escaped characters
// are preserved.
type AnnotationCallback func(line uint32, feature, name, value string)

// Result values in increasing amount of severity. Start to worry at Skipped.
type Result int

const (
	Success     Result = iota // Successful parse
	Info                      // Got info messages, mostly FYI
	NonCritical               // Found strange values, but mostly non-critical FYI
	Skipped                   // There were lines that had to be skipped
	UserAbort                 // The callback returned false to abort
	Error                     // Errornous input
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Info:
		return "info"
	case NonCritical:
		return "non-critical"
	case Skipped:
		return "skipped"
	case UserAbort:
		return "user abort"
	case Error:
		return "error"
	}
	return "unknown"
}

// To parse numbers, we need to allow for 'underscore' being part of the
// number as readability digit separator e.g. 32'h_dead_beef (Verilog
// numbers).
//
//	-1    : digit separator ('_') -> ignore, but continue reading number
//	0..15 : valid digit (usable for conversions of bases 2..16)
//	> 15  : not a valid digit, number parsing is finished.
//
// The separator being less than any digit allows a single comparison to
// decide if we are still in valid number territory (< base).
const digitSeparator = -1

var digitToInt = [256]int8{}

// ASCII -> is valid identifier character for a feature name.
var validIdentifier = [256]bool{}

func init() {
	for i := range digitToInt {
		digitToInt[i] = 99
	}
	for c := '0'; c <= '9'; c++ {
		digitToInt[c] = int8(c - '0')
	}
	for c := 'a'; c <= 'f'; c++ {
		digitToInt[c] = int8(c-'a') + 10
	}
	for c := 'A'; c <= 'F'; c++ {
		digitToInt[c] = int8(c-'A') + 10
	}
	digitToInt['_'] = digitSeparator

	for c := '0'; c <= '9'; c++ {
		validIdentifier[c] = true
	}
	for c := 'a'; c <= 'z'; c++ {
		validIdentifier[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		validIdentifier[c] = true
	}
	validIdentifier['_'] = true
	validIdentifier['.'] = true
}

func maxResult(a, b Result) Result {
	if a > b {
		return a
	}
	return b
}

// Parse parses an FPGA assembly buffer and sends parsed values to "cb".
// The last line of "content" needs to end with a newline; the trailing
// newline doubles as the sentinel for all line-local scans.
// Errors and warnings are reported to "errs".
//
// The optional "annot" callback receives annotations in {...} blocks.
//
// If there are warnings or errors, parsing will continue if possible.
// The most severe issue found is returned.
func Parse(content string, errs io.Writer, cb Callback, annot AnnotationCallback) Result {
	if len(content) == 0 {
		return Success
	}
	if content[len(content)-1] != '\n' {
		// We need '\n' as sentinel, so without it, we'd run past the buffer.
		fmt.Fprintf(errs, "content does not end with a newline\n")
		return Error
	}

	result := Success
	i := 0
	end := len(content)
	var lineNumber uint32

	skipBlank := func() {
		for content[i] == ' ' || content[i] == '\t' {
			i++
		}
	}
	skipToEOL := func() {
		for content[i] != '\n' {
			i++
		}
	}
	// Parse a number in the given base (any base between 2 and 16).
	parseNumber := func(v uint64, base int8) uint64 {
		skipBlank()
		for {
			d := digitToInt[content[i]]
			if d >= base {
				break
			}
			if d != digitSeparator {
				v = v*uint64(base) + uint64(d)
			}
			i++
		}
		return v
	}

	for i < end {
		lineNumber++
		skipBlank()

		// Read feature name; look for sequence of valid characters. We are a
		// bit lenient if it starts with a non-alphabetic character (dot,
		// digit, or underscore) which is entirely sufficient for the parsing
		// part. The receiver of the feature name will notice semantic issues.
		startFeature := i
		for validIdentifier[content[i]] {
			i++
		}
		feature := content[startFeature:i]
		skipBlank()

		if len(feature) > 0 {
			// Read optional feature address and determine width:
			// feature[<max>:<min>]
			var maxBit, minBit uint64
			if content[i] == '[' {
				i++ // skip '['
				maxBit = parseNumber(0, 10)
				skipBlank()
				if content[i] == ':' {
					i++ // skip ':'
					minBit = parseNumber(0, 10)
					skipBlank()
				} else {
					minBit = maxBit
				}
				if content[i] != ']' {
					fmt.Fprintf(errs, "%d: ERR expected ']' : '%s'\n", lineNumber,
						content[startFeature:i+1])
					result = Error
					skipToEOL()
					i++
					continue
				}
				i++ // skip ']'
				if maxBit < minBit {
					fmt.Fprintf(errs, "%d: SKIP inverted range %s[%d:%d]\n",
						lineNumber, feature, maxBit, minBit)
					result = maxResult(result, Skipped)
					skipToEOL()
					i++
					continue
				}
			}
			skipBlank()

			width := int(maxBit - minBit + 1)
			if width > 64 {
				fmt.Fprintf(errs,
					"%d: ERR: Sorry, can only deal with ranges <= 64 bit currently %s[%d:%d]; trimming width %d to 64\n",
					lineNumber, feature, maxBit, minBit, width)
				result = Error
				width = 64 // Clamp number of bits we report.
				// Move forward, doing best effort parsing of lower 64 bits.
			}

			var bitset uint64

			// Assignment.
			if content[i] == '=' {
				i++ // skip '='
				skipBlank()
				bitset = 0
				if digitToInt[content[i]] <= 9 {
					bitset = parseNumber(0, 10) // width or decimal value
				}
				skipBlank()
				if content[i] == '\'' {
					i++ // skip tick
					skipBlank()
					// Last number was actually precision. Simple plausibility,
					// but ignore.
					if bitset > uint64(width) {
						fmt.Fprintf(errs,
							"%d: WARN Attempt to assign more bits (%d') for %s[%d:%d] with supported bit width of %d\n",
							lineNumber, bitset, feature, maxBit, minBit, width)
						result = maxResult(result, NonCritical)
					}
					bitset = 0
					formatType := content[i]
					i++
					switch formatType {
					case 'h':
						bitset = parseNumber(0, 16)
					case 'b':
						bitset = parseNumber(0, 2)
					case 'o':
						bitset = parseNumber(0, 8)
					case 'd':
						bitset = parseNumber(0, 10)
					default:
						fmt.Fprintf(errs,
							"%d: unknown base signifier '%c'; expected one of b, d, h, o\n",
							lineNumber, formatType)
						result = Error
						skipToEOL()
						bitset = 0x01 // In error state now, but report this feature as set
					}
					skipBlank()
				}
			} else {
				bitset = 0x1 // No assignment: default assumption 1 bit set.
				if minBit != maxBit {
					fmt.Fprintf(errs, "%d: INFO Range of bits %s[%d:%d], but no assignment\n",
						lineNumber, feature, maxBit, minBit)
					result = maxResult(result, Info)
				}
			}

			// Ready to report the feature and their bits.
			bitset &= ^uint64(0) >> (64 - width) // Clamp bits if value too wide
			if !cb(lineNumber, feature, int(minBit), width, bitset) {
				result = maxResult(result, UserAbort)
				break
			}
		} // non-empty feature

		// Annotations might follow.
		if content[i] == '{' {
			if annot != nil {
				for {
					i++ // skip '{' or ','
					skipBlank()
					startName := i
					for validIdentifier[content[i]] {
						i++
					}
					aname := content[startName:i]

					skipBlank()
					if content[i] != '=' {
						fmt.Fprintf(errs, "%d: annotation %s: expected '='\n", lineNumber, aname)
						result = Error
						break
					}
					i++ // skip '='

					skipBlank()
					if content[i] != '"' {
						fmt.Fprintf(errs, "%d: %s : annotation '%s': value not quoted\n",
							lineNumber, feature, aname)
						result = Error
						break
					}

					startValue := i + 1
					for {
						i++
						for content[i] != '"' && content[i] != '\n' {
							i++
						}
						if content[i-1] == '\\' && content[i] != '\n' {
							continue // quote was escaped
						}
						break
					}
					avalue := content[startValue:i]

					if content[i] == '\n' {
						fmt.Fprintf(errs, "%d: annotation not finished before end of line\n",
							lineNumber)
						result = Error
						break
					}
					annot(lineNumber, feature, aname, avalue)
					i++ // skip '"'

					skipBlank()
					if content[i] != ',' {
						break
					}
				}

				if content[i] != '}' && content[i] != '\n' {
					fmt.Fprintf(errs, "%d: annotations: expected ',' or '}'; got '%c'\n",
						lineNumber, content[i])
					result = Error
				}
			}

			skipToEOL()
		}

		if content[i] == '#' || content[i] == '\r' {
			skipToEOL()
		}

		if content[i] != '\n' {
			fmt.Fprintf(errs, "%d: expected newline, got '%c'\n", lineNumber, content[i])
			result = Error
			skipToEOL()
		}
		i++ // Consume \n and get ready for next line.
	}
	return result
}
