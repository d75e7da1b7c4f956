package xc7

import (
	"testing"
)

func TestICAPCRC(t *testing.T) {
	// CRC for zero data.
	if got := CRCExtend(0, 0, 0); got != 0 {
		t.Errorf("CRCExtend(0,0,0) = %#x", got)
	}
	// Polynomial (single bit operation).
	if got := CRCExtend(1<<4, 0, 0); got != 0x82F63B78 {
		t.Errorf("CRCExtend(1<<4,0,0) = %#x", got)
	}
	// All reg/data bits.
	if got := CRCExtend(^uint32(0), ^uint32(0), 0); got != 0xBF86D4DF {
		t.Errorf("CRCExtend(~0,~0,0) = %#x", got)
	}
	// All CRC bits.
	if got := CRCExtend(0, 0, ^uint32(0)); got != 0xC631E365 {
		t.Errorf("CRCExtend(0,0,~0) = %#x", got)
	}
}

func TestICAPECC(t *testing.T) {
	cases := []struct {
		idx, word, ecc uint32
		want           uint32
	}{
		// ECC for zero data.
		{0, 0, 0, 0x0},
		// 0x1320 - 0x13FF (avoid lower)
		{0, 1, 0, 0x1320},
		// 0x1420 - 0x17FF (avoid 0x400)
		{0x7, 1, 0, 0x1420},
		// 0x1820 - 0x1FFF (avoid 0x800)
		{0x26, 1, 0, 0x1820},
		// Masked ECC value.
		{0x32, ^uint32(0), 0, 0x000019AC},
		// Final ECC parity.
		{0x64, 0, 1, 0x00001001},
	}
	for _, c := range cases {
		if got := eccExtend(c.idx, c.word, c.ecc); got != c.want {
			t.Errorf("eccExtend(%#x, %#x, %#x) = %#x, want %#x", c.idx, c.word, c.ecc, got, c.want)
		}
	}
}

func TestUpdateECCZeroFrame(t *testing.T) {
	var frame Frame
	frame.UpdateECC()
	if frame[eccWordIndex] != 0 {
		t.Fatalf("zero frame ECC word = %#x, want 0", frame[eccWordIndex])
	}
}

func TestUpdateECCSingleBitFlipsCode(t *testing.T) {
	var frame Frame
	frame.UpdateECC()
	baseline := frame[eccWordIndex] & 0x1FFF

	seen := map[uint32]int{}
	for word := 0; word < FrameWords; word++ {
		if word == eccWordIndex {
			continue
		}
		flipped := frame
		flipped[word] |= 1
		flipped.UpdateECC()
		ecc := flipped[eccWordIndex] & 0x1FFF
		if ecc == baseline {
			t.Fatalf("flipping word %d bit 0 left the ECC unchanged", word)
		}
		if prev, ok := seen[ecc]; ok {
			t.Fatalf("words %d and %d produce the same ECC %#x", prev, word, ecc)
		}
		seen[ecc] = word
	}
}

func TestUpdateECCIsStable(t *testing.T) {
	var frame Frame
	frame[3] = 0xDEADBEEF
	frame[77] = 0x12345678
	frame.UpdateECC()
	first := frame[eccWordIndex]
	frame.UpdateECC()
	if frame[eccWordIndex] != first {
		t.Fatalf("re-running UpdateECC changed the code: %#x -> %#x", first, frame[eccWordIndex])
	}
}

func TestFrameAddressRoundTrip(t *testing.T) {
	cases := []struct {
		blockType    BlockType
		isBottomHalf bool
		row          uint8
		column       uint16
		minor        uint8
	}{
		{BlockCLBIOCLK, false, 0, 0, 0},
		{BlockRAM, true, 21, 1023, 127},
		{BlockCFGCLB, false, 31, 1, 2},
		{BlockReserved, true, 1, 512, 64},
	}
	for _, c := range cases {
		address := NewFrameAddress(c.blockType, c.isBottomHalf, c.row, c.column, c.minor)
		if uint32(address)>>26 != 0 {
			t.Errorf("%+v: packed value %#x exceeds 26 bits", c, uint32(address))
		}
		if address.BlockType() != c.blockType ||
			address.IsBottomHalf() != c.isBottomHalf ||
			address.Row() != c.row ||
			address.Column() != c.column ||
			address.Minor() != c.minor {
			t.Errorf("%+v does not round-trip through %s", c, address)
		}
	}
}

func TestFrameAddressPackedLayout(t *testing.T) {
	address := NewFrameAddress(BlockRAM, false, 0, 0, 0)
	if uint32(address) != 1<<23 {
		t.Errorf("block type field: got %#x", uint32(address))
	}
	address = NewFrameAddress(BlockCLBIOCLK, true, 0, 0, 0)
	if uint32(address) != 1<<22 {
		t.Errorf("half field: got %#x", uint32(address))
	}
	address = NewFrameAddress(BlockCLBIOCLK, false, 1, 0, 0)
	if uint32(address) != 1<<17 {
		t.Errorf("row field: got %#x", uint32(address))
	}
	address = NewFrameAddress(BlockCLBIOCLK, false, 0, 1, 0)
	if uint32(address) != 1<<7 {
		t.Errorf("column field: got %#x", uint32(address))
	}
}

func TestFrameSetIdempotentEdits(t *testing.T) {
	frames := NewFrameSet()
	address := NewFrameAddress(BlockCLBIOCLK, false, 0, 0, 3)
	frames.SetBit(address, 16, 7)
	frames.SetBit(address, 16, 7)
	if frames.Len() != 1 {
		t.Fatalf("got %d frames, want 1", frames.Len())
	}
	frame, _ := frames.Get(address)
	if frame[16] != 1<<7 {
		t.Fatalf("word 16 = %#x, want %#x", frame[16], uint32(1)<<7)
	}
	frames.Touch(address)
	if frame[16] != 1<<7 {
		t.Fatal("touch cleared an existing frame")
	}
}

func TestFrameSetSortedOrder(t *testing.T) {
	frames := NewFrameSet()
	frames.Touch(FrameAddress(0x41C))
	frames.Touch(FrameAddress(0x400))
	frames.Touch(FrameAddress(0x800000))
	sorted := frames.Sorted()
	want := []FrameAddress{0x400, 0x41C, 0x800000}
	if len(sorted) != len(want) {
		t.Fatalf("got %d entries", len(sorted))
	}
	for i, entry := range sorted {
		if entry.Address != want[i] {
			t.Errorf("entry %d: got %#x, want %#x", i, uint32(entry.Address), uint32(want[i]))
		}
	}
}
