package xc7

// Command values written to the CMD register.
type Command uint32

const (
	CmdNOP      Command = 0x0
	CmdWCFG     Command = 0x1
	CmdMFW      Command = 0x2
	CmdLFRM     Command = 0x3
	CmdRCFG     Command = 0x4
	CmdSTART    Command = 0x5
	CmdRCAP     Command = 0x6
	CmdRCRC     Command = 0x7
	CmdAGHIGH   Command = 0x8
	CmdSWITCH   Command = 0x9
	CmdGRESTORE Command = 0xA
	CmdSHUTDOWN Command = 0xB
	CmdGCAPTURE Command = 0xC
	CmdDESYNC   Command = 0xD
	CmdIPROG    Command = 0xF
	CmdCRCC     Command = 0x10
	CmdLTIMER   Command = 0x11
	CmdBSPIRead Command = 0x12
	CmdFallEdge Command = 0x13
)

// Register is a 7-series configuration register address according to
// UG470, pg. 109.
type Register uint32

const (
	RegCRC     Register = 0x00
	RegFAR     Register = 0x01
	RegFDRI    Register = 0x02
	RegFDRO    Register = 0x03
	RegCMD     Register = 0x04
	RegCTL0    Register = 0x05
	RegMASK    Register = 0x06
	RegSTAT    Register = 0x07
	RegLOUT    Register = 0x08
	RegCOR0    Register = 0x09
	RegMFWR    Register = 0x0a
	RegCBC     Register = 0x0b
	RegIDCODE  Register = 0x0c
	RegAXSS    Register = 0x0d
	RegCOR1    Register = 0x0e
	RegWBSTAR  Register = 0x10
	RegTIMER   Register = 0x11
	RegUnknown Register = 0x13
	RegBOOTSTS Register = 0x16
	RegCTL1    Register = 0x18
	RegBSPI    Register = 0x1F
)

// Opcode is the packet operation.
type Opcode uint32

const (
	OpNOP   Opcode = 0
	OpRead  Opcode = 1
	OpWrite Opcode = 2
)

// PacketType selects the packet header format.
type PacketType uint32

const (
	// PacketTypeNone is emitted only as padding.
	PacketTypeNone PacketType = 0
	PacketType1    PacketType = 1
	PacketType2    PacketType = 2
)

// Packet is a single configuration packet: one header word followed by its
// payload words.
type Packet struct {
	Type    PacketType
	Opcode  Opcode
	Address Register
	Data    []uint32
}

// NopPacket returns the canonical type-1 NOP.
func NopPacket() Packet {
	return Packet{Type: PacketType1, Opcode: OpNOP, Address: RegCRC}
}

// WritePacket returns a type-1 write of the given payload.
func WritePacket(address Register, data ...uint32) Packet {
	return Packet{Type: PacketType1, Opcode: OpWrite, Address: address, Data: data}
}

// Header encodes the packet header word.
func (p *Packet) Header() uint32 {
	header := bitFieldSet(0, 31, 29, uint32(p.Type))
	switch p.Type {
	case PacketTypeNone:
		// Bitstreams are sometimes 0 padded, essentially making a type 0
		// packet. The other fields are ignored.
	case PacketType1:
		// UG470 Table 5-20: Type 1 Packet Header Format
		header = bitFieldSet(header, 28, 27, uint32(p.Opcode))
		header = bitFieldSet(header, 26, 13, uint32(p.Address))
		header = bitFieldSet(header, 10, 0, uint32(len(p.Data)))
	case PacketType2:
		// UG470 Table 5-22: Type 2 Packet Header.
		// The register address is inherited from the previous type 1 header.
		header = bitFieldSet(header, 28, 27, uint32(p.Opcode))
		header = bitFieldSet(header, 26, 0, uint32(len(p.Data)))
	}
	return header
}

// SignalReleaseCycle is a startup cycle selector for COR0 release fields.
type SignalReleaseCycle uint32

const (
	ReleasePhase1    SignalReleaseCycle = 0x0
	ReleasePhase2    SignalReleaseCycle = 0x1
	ReleasePhase3    SignalReleaseCycle = 0x2
	ReleasePhase4    SignalReleaseCycle = 0x3
	ReleasePhase5    SignalReleaseCycle = 0x4
	ReleasePhase6    SignalReleaseCycle = 0x5
	ReleaseTrackDone SignalReleaseCycle = 0x6
	ReleaseKeep      SignalReleaseCycle = 0x7
)

// StallCycle is a startup cycle selector for COR0 stall fields.
type StallCycle uint32

const (
	StallPhase0 StallCycle = 0x0
	StallPhase1 StallCycle = 0x1
	StallPhase2 StallCycle = 0x2
	StallPhase3 StallCycle = 0x3
	StallPhase4 StallCycle = 0x4
	StallPhase5 StallCycle = 0x5
	StallPhase6 StallCycle = 0x6
	StallNoWait StallCycle = 0x7
)

// COR0Value assembles the Configuration Options 0 register word.
type COR0Value uint32

func (v COR0Value) set(high, low uint, field uint32) COR0Value {
	return COR0Value(bitFieldSet(uint32(v), high, low, field))
}

func boolBit(enabled bool) uint32 {
	if enabled {
		return 1
	}
	return 0
}

func (v COR0Value) SetUseDonePinAsPowerdownStatus(enabled bool) COR0Value {
	return v.set(27, 27, boolBit(enabled))
}

func (v COR0Value) SetAddPipelineStageForDoneIn(enabled bool) COR0Value {
	return v.set(25, 25, boolBit(enabled))
}

func (v COR0Value) SetDriveDoneHigh(enabled bool) COR0Value {
	return v.set(24, 24, boolBit(enabled))
}

func (v COR0Value) SetReadbackIsSingleShot(enabled bool) COR0Value {
	return v.set(23, 23, boolBit(enabled))
}

func (v COR0Value) SetCclkFrequency(mhz uint32) COR0Value {
	return v.set(22, 17, mhz)
}

func (v COR0Value) SetReleaseDonePinAtStartupCycle(cycle SignalReleaseCycle) COR0Value {
	return v.set(14, 12, uint32(cycle))
}

func (v COR0Value) SetStallAtStartupCycleUntilDciMatch(cycle StallCycle) COR0Value {
	return v.set(11, 9, uint32(cycle))
}

func (v COR0Value) SetStallAtStartupCycleUntilMmcmLock(cycle StallCycle) COR0Value {
	return v.set(8, 6, uint32(cycle))
}

func (v COR0Value) SetReleaseGtsSignalAtStartupCycle(cycle SignalReleaseCycle) COR0Value {
	return v.set(5, 3, uint32(cycle))
}

func (v COR0Value) SetReleaseGweSignalAtStartupCycle(cycle SignalReleaseCycle) COR0Value {
	return v.set(2, 0, uint32(cycle))
}
