package xc7

import (
	"github.com/fpgatools/fasm2bit/util"
)

// FrameSet collects the configuration frames touched during assembly,
// keyed by packed frame address.
type FrameSet struct {
	frames map[FrameAddress]*Frame
}

// NewFrameSet returns an empty frame set.
func NewFrameSet() *FrameSet {
	return &FrameSet{frames: map[FrameAddress]*Frame{}}
}

// Len returns the number of materialized frames.
func (s *FrameSet) Len() int { return len(s.frames) }

// Touch materializes a zero-filled frame at the address if absent and
// returns it. Touching an existing frame is a no-op.
func (s *FrameSet) Touch(address FrameAddress) *Frame {
	frame, ok := s.frames[address]
	if !ok {
		frame = &Frame{}
		s.frames[address] = frame
	}
	return frame
}

// Get returns the frame at the address, if materialized.
func (s *FrameSet) Get(address FrameAddress) (*Frame, bool) {
	frame, ok := s.frames[address]
	return frame, ok
}

// SetBit ORs a single bit into the frame at the address. The frame is
// materialized if needed.
func (s *FrameSet) SetBit(address FrameAddress, word, index uint32) {
	s.Touch(address)[word] |= 1 << index
}

// FrameEntry pairs a frame with its address for sorted iteration.
type FrameEntry struct {
	Address FrameAddress
	Frame   *Frame
}

// Sorted returns all frames in ascending packed-address order.
func (s *FrameSet) Sorted() []FrameEntry {
	return util.MappedSlice(util.OrderedKeys(s.frames), func(address FrameAddress) FrameEntry {
		return FrameEntry{Address: address, Frame: s.frames[address]}
	})
}
