package xfer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/udisondev/rtsloco/internal/model"
)

// Loader reads a snapshot stream produced by Saver.
type Loader struct {
	data []byte
	pos  int
}

// NewLoader creates a loader over data. The slice is not copied.
func NewLoader(data []byte) *Loader {
	return &Loader{data: data}
}

// Mode returns ModeLoad.
func (l *Loader) Mode() Mode { return ModeLoad }

func (l *Loader) need(n int, what string) error {
	if l.pos+n > len(l.data) {
		return fmt.Errorf("%s: pos=%d need=%d len=%d: %w", what, l.pos, n, len(l.data), ErrShortRead)
	}
	return nil
}

// Version reads the stored version and rejects versions above current.
func (l *Loader) Version(v *uint8, current uint8) error {
	if err := l.Uint8(v); err != nil {
		return err
	}
	if *v > current {
		return fmt.Errorf("got version %d, max %d: %w", *v, current, ErrVersion)
	}
	return nil
}

// Uint8 reads a single byte.
func (l *Loader) Uint8(v *uint8) error {
	if err := l.need(1, "Uint8"); err != nil {
		return err
	}
	*v = l.data[l.pos]
	l.pos++
	return nil
}

// Uint32 reads 4 bytes, LE.
func (l *Loader) Uint32(v *uint32) error {
	if err := l.need(4, "Uint32"); err != nil {
		return err
	}
	*v = binary.LittleEndian.Uint32(l.data[l.pos:])
	l.pos += 4
	return nil
}

// Real reads a float64 (8 bytes, LE).
func (l *Loader) Real(v *float64) error {
	if err := l.need(8, "Real"); err != nil {
		return err
	}
	*v = math.Float64frombits(binary.LittleEndian.Uint64(l.data[l.pos:]))
	l.pos += 8
	return nil
}

// Bool reads one byte; any non-zero value is true.
func (l *Loader) Bool(v *bool) error {
	var b uint8
	if err := l.Uint8(&b); err != nil {
		return err
	}
	*v = b != 0
	return nil
}

// Coord3D reads X, Y, Z.
func (l *Loader) Coord3D(v *model.Coord3D) error {
	if err := l.Real(&v.X); err != nil {
		return err
	}
	if err := l.Real(&v.Y); err != nil {
		return err
	}
	return l.Real(&v.Z)
}

// Remaining returns the number of unread bytes.
func (l *Loader) Remaining() int {
	return len(l.data) - l.pos
}
