package xfer

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/udisondev/rtsloco/internal/model"
)

// Saver writes a snapshot stream.
// Uses Little-Endian byte order for all multi-byte values.
type Saver struct {
	buf *bytes.Buffer
}

// NewSaver creates a saver with the given initial capacity.
func NewSaver(capacity int) *Saver {
	return &Saver{buf: bytes.NewBuffer(make([]byte, 0, capacity))}
}

// Mode returns ModeSave.
func (s *Saver) Mode() Mode { return ModeSave }

// Version writes current.
func (s *Saver) Version(v *uint8, current uint8) error {
	*v = current
	return s.buf.WriteByte(current)
}

// Uint8 writes a single byte.
func (s *Saver) Uint8(v *uint8) error {
	return s.buf.WriteByte(*v)
}

// Uint32 writes 4 bytes, LE.
func (s *Saver) Uint32(v *uint32) error {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], *v)
	_, err := s.buf.Write(tmp[:])
	return err
}

// Real writes a float64 (8 bytes, LE, IEEE 754).
func (s *Saver) Real(v *float64) error {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(*v))
	_, err := s.buf.Write(tmp[:])
	return err
}

// Bool writes one byte, 1 for true.
func (s *Saver) Bool(v *bool) error {
	var b byte
	if *v {
		b = 1
	}
	return s.buf.WriteByte(b)
}

// Coord3D writes X, Y, Z as reals.
func (s *Saver) Coord3D(v *model.Coord3D) error {
	if err := s.Real(&v.X); err != nil {
		return err
	}
	if err := s.Real(&v.Y); err != nil {
		return err
	}
	return s.Real(&v.Z)
}

// Bytes returns the accumulated stream.
func (s *Saver) Bytes() []byte {
	return s.buf.Bytes()
}

// Len returns the current length of the stream.
func (s *Saver) Len() int {
	return s.buf.Len()
}
