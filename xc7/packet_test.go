package xc7

import (
	"testing"
)

func TestType1PacketHeader(t *testing.T) {
	// Write of 2 data words to register 3.
	packet := Packet{Type: PacketType1, Opcode: OpWrite, Address: RegFDRO, Data: []uint32{0xAA, 0xBB}}
	if got := packet.Header(); got != 0x30006002 {
		t.Errorf("got %#x, want 0x30006002", got)
	}
	// Write of 2 data words to FDRI.
	packet = Packet{Type: PacketType1, Opcode: OpWrite, Address: RegFDRI, Data: []uint32{1, 2}}
	if got := packet.Header(); got != 0x30004002 {
		t.Errorf("got %#x, want 0x30004002", got)
	}
	// Empty write.
	packet = Packet{Type: PacketType1, Opcode: OpWrite, Address: RegFDRO}
	if got := packet.Header(); got != 0x30006000 {
		t.Errorf("got %#x, want 0x30006000", got)
	}
}

func TestType2PacketHeader(t *testing.T) {
	packet := Packet{Type: PacketType2, Opcode: OpRead, Address: RegFDRI, Data: make([]uint32, 12)}
	if got := packet.Header(); got != 0x4800000C {
		t.Errorf("got %#x, want 0x4800000C", got)
	}
}

func TestType0PacketHeader(t *testing.T) {
	packet := Packet{Type: PacketTypeNone, Opcode: OpNOP, Address: RegCRC}
	if got := packet.Header(); got != 0 {
		t.Errorf("got %#x, want 0", got)
	}
}

func TestNopPacketHeader(t *testing.T) {
	packet := NopPacket()
	if got := packet.Header(); got != 0x20000000 {
		t.Errorf("got %#x, want 0x20000000", got)
	}
}

func TestCOR0Value(t *testing.T) {
	value := COR0Value(0).
		SetAddPipelineStageForDoneIn(true).
		SetReleaseDonePinAtStartupCycle(ReleasePhase4).
		SetStallAtStartupCycleUntilDciMatch(StallNoWait).
		SetStallAtStartupCycleUntilMmcmLock(StallNoWait).
		SetReleaseGtsSignalAtStartupCycle(ReleasePhase5).
		SetReleaseGweSignalAtStartupCycle(ReleasePhase6)
	if uint32(value) != 0x02003FE5 {
		t.Fatalf("got %#x, want 0x02003FE5", uint32(value))
	}
}

func TestPacketWords(t *testing.T) {
	packets := []Packet{
		{Type: PacketType1, Opcode: OpWrite, Address: RegFDRO, Data: []uint32{0xAA, 0xBB}},
		{Type: PacketType1, Opcode: OpWrite, Address: RegFDRO},
	}
	words := PacketWords(packets)
	want := []uint32{0x30006002, 0xAA, 0xBB, 0x30006000}
	if len(words) != len(want) {
		t.Fatalf("got %d words, want %d", len(words), len(want))
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d: got %#x, want %#x", i, words[i], want[i])
		}
	}
}
