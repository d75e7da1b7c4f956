package xc7

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"
)

// GeneratorName is recorded in the bitstream header's source field.
const GeneratorName = "fasm2bit"

// busWidthPreamble holds the bus width auto detection words followed by the
// sync word, per UG470 pg 80.
var busWidthPreamble = []uint32{
	0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF,
	0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0x000000BB, 0x11220044,
	0xFFFFFFFF, 0xFFFFFFFF, 0xAA995566,
}

// headerMagic opens the Tag-Length-Value file header. Documented at
// http://www.fpga-faq.com/FAQ_Pages/0026_Tell_me_about_bit_files.htm
var headerMagic = []byte{
	0x00, 0x09, 0x0f, 0xf0, 0x0f, 0xf0, 0x0f, 0xf0, 0x0f, 0xf0, 0x00, 0x00, 0x01,
}

// PacketWords flattens packets into the bitstream word sequence: each
// packet's header word followed by its payload words.
func PacketWords(packets []Packet) []uint32 {
	count := len(packets)
	for i := range packets {
		count += len(packets[i].Data)
	}
	words := make([]uint32, 0, count)
	for i := range packets {
		words = append(words, packets[i].Header())
		words = append(words, packets[i].Data...)
	}
	return words
}

func appendTLVString(header []byte, tag byte, value string) []byte {
	header = append(header, tag)
	length := len(value) + 1 // NUL included
	header = append(header, byte(length>>8), byte(length))
	header = append(header, value...)
	return append(header, 0x0)
}

// WriteBitstream emits the complete bitstream: TLV header, bus width
// detection preamble, sync word and the packet word stream, all 32-bit
// words big-endian. The header's data-length field covers everything after
// it; the whole file is assembled in memory first so the output stream
// needs no seeking.
func WriteBitstream(w io.Writer, packets []Packet, partName, sourceName string, buildTime time.Time) error {
	var payload bytes.Buffer
	var word [4]byte
	writeWord := func(value uint32) {
		binary.BigEndian.PutUint32(word[:], value)
		payload.Write(word[:])
	}
	for _, value := range busWidthPreamble {
		writeWord(value)
	}
	for _, value := range PacketWords(packets) {
		writeWord(value)
	}

	utc := buildTime.UTC()
	header := make([]byte, 0, 128)
	header = append(header, headerMagic...)
	header = appendTLVString(header, 'a', sourceName+";Generator="+GeneratorName)
	header = appendTLVString(header, 'b', partName)
	header = appendTLVString(header, 'c', utc.Format("2006/01/02"))
	header = appendTLVString(header, 'd', utc.Format("15:04:05"))
	header = append(header, 'e')
	header = binary.BigEndian.AppendUint32(header, uint32(payload.Len()))

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload.Bytes())
	return err
}
