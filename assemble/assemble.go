package assemble

import (
	"fmt"
	"io"
	"time"

	"github.com/fpgatools/fasm2bit/database"
	"github.com/fpgatools/fasm2bit/fasm"
	"github.com/fpgatools/fasm2bit/xc7"
)

// Frames parses the FASM text from input and resolves it, together with the
// implicit PUDC_B and STEPDOWN features, into configuration frames.
// Per-line parser diagnostics go to diag.
func Frames(input io.Reader, diag io.Writer, db *database.PartDatabase, frames *xc7.FrameSet) error {
	content, err := io.ReadAll(input)
	if err != nil {
		return err
	}

	var features []Feature
	features = addPUDCBFeatures(db.Grid(), features)

	result := fasm.Parse(string(content), diag,
		func(line uint32, feature string, startBit, width int, bits uint64) bool {
			features = append(features, Feature{
				Line:     int64(line),
				Name:     feature,
				StartBit: startBit,
				Width:    width,
				Bits:     bits,
			})
			return true
		}, nil)
	if result == fasm.UserAbort || result == fasm.Error {
		return fmt.Errorf("fasm parsing failed: %s", result)
	}

	features = addStepDownFeatures(db.Banks(), db.Grid(), features)
	return processFeatures(features, db, frames)
}

// Bitstream assembles the FASM input into a complete 7-series bitstream
// written to out. sourceName labels the input in the bitstream header.
func Bitstream(input io.Reader, diag io.Writer, db *database.PartDatabase, partName, sourceName string, out io.Writer) error {
	frames := xc7.NewFrameSet()
	if err := Frames(input, diag, db, frames); err != nil {
		return fmt.Errorf("could not assemble frames: %w", err)
	}
	part := xc7.NewPart(db.Part())
	frameData := xc7.FrameDataWords(frames, part)
	packets := xc7.ConfigurationPackets(part, frameData)
	return xc7.WriteBitstream(out, packets, partName, sourceName, time.Now())
}
