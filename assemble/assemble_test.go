package assemble

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

// TestBitstreamFromEmptyInput checks the boundary case of no FASM at all:
// the output is still a complete bitstream with header, initialization,
// an FDRI write holding only the trailing padding frames, and finalization.
func TestBitstreamFromEmptyInput(t *testing.T) {
	db := testDatabase(lutGrid(), lutSegbits())
	var out bytes.Buffer
	var diag strings.Builder
	err := Bitstream(strings.NewReader(""), &diag, db, "xc7a35tcsg324-1", "fasm", &out)
	if err != nil {
		t.Fatalf("Bitstream: %s", err)
	}
	data := out.Bytes()

	magic := []byte{0x00, 0x09, 0x0f, 0xf0, 0x0f, 0xf0, 0x0f, 0xf0, 0x0f, 0xf0, 0x00, 0x00, 0x01}
	if !bytes.HasPrefix(data, magic) {
		t.Fatal("missing header magic")
	}
	sync := []byte{0xAA, 0x99, 0x55, 0x66}
	syncPos := bytes.Index(data, sync)
	if syncPos < 0 {
		t.Fatal("missing sync word")
	}

	// Locate the 'e' length field: it covers everything that follows it.
	ePos := bytes.LastIndexByte(data[:syncPos], 'e')
	if ePos < 0 {
		t.Fatal("missing length field")
	}
	length := binary.BigEndian.Uint32(data[ePos+1 : ePos+5])
	payload := data[ePos+5:]
	if int(length) != len(payload) {
		t.Fatalf("length field %d does not match %d payload bytes", length, len(payload))
	}

	// 13 preamble words, 546 packet headers, 24 single-word register
	// payloads and 202 words of trailing padding frames.
	wantWords := 13 + 546 + 24 + 202
	if len(payload) != wantWords*4 {
		t.Fatalf("payload is %d bytes, want %d", len(payload), wantWords*4)
	}
}

func TestBitstreamCarriesResolvedFrames(t *testing.T) {
	db := testDatabase(lutGrid(), lutSegbits())
	var out bytes.Buffer
	var diag strings.Builder
	input := strings.NewReader("CLBLM_R_X33Y38.SLICEM_X0.ALUT.INIT[0] = 1'b1\n")
	err := Bitstream(input, &diag, db, "xc7a35tcsg324-1", "fasm", &out)
	if err != nil {
		t.Fatalf("Bitstream: %s", err)
	}
	// 36 frames materialize; the bitstream grows by exactly their words.
	// (No padding is inserted since the test part has no geometry rows.)
	data := out.Bytes()
	word := make([]byte, 4)
	binary.BigEndian.PutUint32(word, 1<<7)
	if !bytes.Contains(data, word) {
		t.Fatal("resolved LUT bit not present in the bitstream")
	}
}
