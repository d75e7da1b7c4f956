package xc7

// zeroFramesSeparatorWords is the amount of padding between configuration
// frame blocks: for 7-series the separator is two all-zero frames.
const zeroFramesSeparatorWords = FrameWords * 2

// sameFrameBlock reports whether two addresses live in the same contiguous
// write region: equal block type, half and row.
func sameFrameBlock(a, b FrameAddress) bool {
	return a.BlockType() == b.BlockType() &&
		a.IsBottomHalf() == b.IsBottomHalf() &&
		a.Row() == b.Row()
}

// FrameDataWords returns the FDRI payload: each materialized frame with a
// freshly computed ECC, in ascending address order. Two zero frames follow
// every frame whose successor on the part (NextFrameAddress) lies in a
// different row, half or block type, and two more zero frames close the
// payload. Padding depends only on the part's successor of each frame, not
// on which frame the set holds next.
func FrameDataWords(frames *FrameSet, part *Part) []uint32 {
	sorted := frames.Sorted()
	data := make([]uint32, 0, (len(sorted)+2)*FrameWords)
	for _, entry := range sorted {
		entry.Frame.UpdateECC()
		data = append(data, entry.Frame[:]...)

		next, ok := part.NextFrameAddress(entry.Address)
		if ok && !sameFrameBlock(next, entry.Address) {
			data = append(data, make([]uint32, zeroFramesSeparatorWords)...)
		}
	}
	return append(data, make([]uint32, zeroFramesSeparatorWords)...)
}

// cor0 is the options word every emitted bitstream carries.
func cor0() uint32 {
	return uint32(COR0Value(0).
		SetAddPipelineStageForDoneIn(true).
		SetReleaseDonePinAtStartupCycle(ReleasePhase4).
		SetStallAtStartupCycleUntilDciMatch(StallNoWait).
		SetStallAtStartupCycleUntilMmcmLock(StallNoWait).
		SetReleaseGtsSignalAtStartupCycle(ReleasePhase5).
		SetReleaseGweSignalAtStartupCycle(ReleasePhase6))
}

// ConfigurationPackets produces the complete programming sequence wrapping
// the FDRI payload: initialization, the frame data write, finalization.
// The sequence for Series-7 is taken from
// https://www.kc8apf.net/2018/05/unpacking-xilinx-7-series-bitstreams-part-2/
func ConfigurationPackets(part *Part, frameData []uint32) []Packet {
	packets := make([]Packet, 0, 550)
	nops := func(count int) {
		for i := 0; i < count; i++ {
			packets = append(packets, NopPacket())
		}
	}

	// Initialization sequence.
	nops(1)
	packets = append(packets,
		WritePacket(RegTIMER, 0x0),
		WritePacket(RegWBSTAR, 0x0),
		WritePacket(RegCMD, uint32(CmdNOP)),
	)
	nops(1)
	packets = append(packets, WritePacket(RegCMD, uint32(CmdRCRC)))
	nops(2)
	packets = append(packets,
		WritePacket(RegUnknown, 0x0),
		WritePacket(RegCOR0, cor0()),
		WritePacket(RegCOR1, 0x0),
		WritePacket(RegIDCODE, part.IDCode()),
		WritePacket(RegCMD, uint32(CmdSWITCH)),
	)
	nops(1)
	packets = append(packets,
		WritePacket(RegMASK, 0x401),
		WritePacket(RegCTL0, 0x501),
		WritePacket(RegMASK, 0x0),
		WritePacket(RegCTL1, 0x0),
	)
	nops(8)
	packets = append(packets,
		WritePacket(RegFAR, 0x0),
		WritePacket(RegCMD, uint32(CmdWCFG)),
	)
	nops(1)

	// Frame data write. The type 1 write carries no payload; the type 2
	// write that follows has the 27-bit length field the full frame stream
	// needs.
	packets = append(packets,
		Packet{Type: PacketType1, Opcode: OpWrite, Address: RegFDRI},
		Packet{Type: PacketType2, Opcode: OpWrite, Address: RegFDRI, Data: frameData},
	)

	// Finalization sequence.
	packets = append(packets, WritePacket(RegCMD, uint32(CmdRCRC)))
	nops(2)
	packets = append(packets, WritePacket(RegCMD, uint32(CmdGRESTORE)))
	nops(1)
	packets = append(packets, WritePacket(RegCMD, uint32(CmdLFRM)))
	nops(100)
	packets = append(packets, WritePacket(RegCMD, uint32(CmdSTART)))
	nops(1)
	packets = append(packets,
		WritePacket(RegFAR, 0x3be0000),
		WritePacket(RegMASK, 0x501),
		WritePacket(RegCTL0, 0x501),
		WritePacket(RegCMD, uint32(CmdRCRC)),
	)
	nops(2)
	packets = append(packets, WritePacket(RegCMD, uint32(CmdDESYNC)))
	nops(400)
	return packets
}
