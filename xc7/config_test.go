package xc7

import (
	"testing"

	"github.com/fpgatools/fasm2bit/database"
)

// paddingTestPart has five single-frame columns spread over rows, halves
// and block types so every transition needs padding.
func paddingTestPart() *Part {
	return NewPart(database.Part{
		IDCode: 0x1234,
		GlobalClockRegions: database.GlobalClockRegions{
			TopRows: database.GlobalClockRegionHalf{
				{database.BusCLBIOCLK: {1}, database.BusBlockRAM: {1}},
				{database.BusBlockRAM: {1}},
			},
			BottomRows: database.GlobalClockRegionHalf{
				{database.BusCLBIOCLK: {1}},
				{database.BusCLBIOCLK: {1}},
			},
		},
	})
}

func TestFrameDataPaddingBetweenRows(t *testing.T) {
	part := NewPart(database.Part{
		GlobalClockRegions: database.GlobalClockRegions{
			TopRows: database.GlobalClockRegionHalf{
				{database.BusCLBIOCLK: {1}},
				{database.BusCLBIOCLK: {1}},
			},
			BottomRows: database.GlobalClockRegionHalf{},
		},
	})
	frames := NewFrameSet()
	frames.Touch(NewFrameAddress(BlockCLBIOCLK, false, 0, 0, 0))
	frames.Touch(NewFrameAddress(BlockCLBIOCLK, false, 1, 0, 0))

	data := FrameDataWords(frames, part)
	// frame, 2 padding frames, frame, 2 trailing frames.
	if len(data) != 6*FrameWords {
		t.Fatalf("got %d words, want %d", len(data), 6*FrameWords)
	}
	for i, word := range data[FrameWords : 3*FrameWords] {
		if word != 0 {
			t.Fatalf("padding word %d is %#x", i, word)
		}
	}
}

func TestFrameDataPaddingAcrossHalvesAndBlockTypes(t *testing.T) {
	part := paddingTestPart()
	frames := NewFrameSet()
	addresses := []FrameAddress{
		NewFrameAddress(BlockCLBIOCLK, false, 0, 0, 0),
		NewFrameAddress(BlockCLBIOCLK, true, 0, 0, 0),
		NewFrameAddress(BlockCLBIOCLK, true, 1, 0, 0),
		NewFrameAddress(BlockRAM, false, 0, 0, 0),
		NewFrameAddress(BlockRAM, false, 1, 0, 0),
	}
	for _, address := range addresses {
		frames.Touch(address)
	}

	data := FrameDataWords(frames, part)
	// Four row/half/block-type switches add 4*2 padding frames, plus the
	// two extra frames at the end: 5 + 4*2 + 2 = 15 frames.
	if len(data) != 15*FrameWords {
		t.Fatalf("got %d words, want %d", len(data), 15*FrameWords)
	}
}

func TestFrameDataEmptyFrameSet(t *testing.T) {
	frames := NewFrameSet()
	data := FrameDataWords(frames, paddingTestPart())
	if len(data) != zeroFramesSeparatorWords {
		t.Fatalf("got %d words, want %d", len(data), zeroFramesSeparatorWords)
	}
	for i, word := range data {
		if word != 0 {
			t.Fatalf("trailing word %d is %#x", i, word)
		}
	}
}

func TestFrameDataCarriesECC(t *testing.T) {
	part := paddingTestPart()
	frames := NewFrameSet()
	address := NewFrameAddress(BlockCLBIOCLK, false, 0, 0, 0)
	frames.SetBit(address, 0, 0)

	data := FrameDataWords(frames, part)
	if data[0] != 1 {
		t.Fatalf("payload word 0 = %#x, want 1", data[0])
	}
	if data[eccWordIndex] == 0 {
		t.Fatal("ECC word of a non-zero frame is zero")
	}
	var want Frame
	want[0] = 1
	want.UpdateECC()
	if data[eccWordIndex] != want[eccWordIndex] {
		t.Fatalf("ECC word = %#x, want %#x", data[eccWordIndex], want[eccWordIndex])
	}
}

func TestConfigurationPacketsSequence(t *testing.T) {
	part := paddingTestPart()
	frameData := make([]uint32, 3*FrameWords)
	packets := ConfigurationPackets(part, frameData)

	if len(packets) != 546 {
		t.Fatalf("got %d packets, want 546", len(packets))
	}
	if packets[0].Opcode != OpNOP {
		t.Error("sequence does not start with a NOP")
	}

	var type2 []int
	for i := range packets {
		if packets[i].Type == PacketType2 {
			type2 = append(type2, i)
		}
	}
	if len(type2) != 1 {
		t.Fatalf("got %d type 2 packets, want 1", len(type2))
	}
	fdri := type2[0]
	if packets[fdri].Address != RegFDRI || len(packets[fdri].Data) != len(frameData) {
		t.Error("type 2 packet does not carry the frame data")
	}
	prev := packets[fdri-1]
	if prev.Type != PacketType1 || prev.Address != RegFDRI || prev.Opcode != OpWrite || len(prev.Data) != 0 {
		t.Error("type 2 packet not preceded by an empty type 1 FDRI write")
	}

	assertWrite := func(address Register, value uint32) {
		t.Helper()
		for i := range packets {
			packet := &packets[i]
			if packet.Opcode == OpWrite && packet.Address == address &&
				len(packet.Data) == 1 && packet.Data[0] == value {
				return
			}
		}
		t.Errorf("no write of %#x to register %#x", value, uint32(address))
	}
	assertWrite(RegIDCODE, 0x1234)
	assertWrite(RegCOR0, 0x02003FE5)
	assertWrite(RegCMD, uint32(CmdWCFG))
	assertWrite(RegCMD, uint32(CmdDESYNC))
	assertWrite(RegFAR, 0x3be0000)

	// The device needs hundreds of trailing NOPs to flush startup.
	for i := len(packets) - 400; i < len(packets); i++ {
		if packets[i].Opcode != OpNOP {
			t.Fatalf("packet %d should be a trailing NOP", i)
		}
	}
	desync := packets[len(packets)-401]
	if desync.Address != RegCMD || desync.Data[0] != uint32(CmdDESYNC) {
		t.Fatal("DESYNC write not immediately before the trailing NOPs")
	}
}
