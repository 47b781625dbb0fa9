// Package xfer is the versioned snapshot stream used to save and restore
// simulation state. Save and load share one code path: a type describes its
// state once through the Xfer interface and the concrete Xfer decides the direction.
package xfer

import (
	"errors"

	"github.com/udisondev/rtsloco/internal/model"
)

var (
	// ErrVersion is returned when a stream is newer than the reader understands.
	ErrVersion = errors.New("unsupported snapshot version")
	// ErrShortRead is returned when the stream ends before a value.
	ErrShortRead = errors.New("snapshot stream truncated")
)

// Mode is the direction of a transfer.
type Mode int32

const (
	ModeSave Mode = iota
	ModeLoad
)

// String returns human-readable mode name
func (m Mode) String() string {
	if m == ModeSave {
		return "SAVE"
	}
	return "LOAD"
}

// Xfer moves values between memory and a snapshot stream.
// On save the pointed-to value is written; on load it is overwritten.
type Xfer interface {
	Mode() Mode
	// Version transfers a version byte. On save *v is set to current first;
	// on load a stored version above current fails with ErrVersion.
	Version(v *uint8, current uint8) error
	Uint8(v *uint8) error
	Uint32(v *uint32) error
	Real(v *float64) error
	Bool(v *bool) error
	Coord3D(v *model.Coord3D) error
}

// Snapshotter is implemented by types that can transfer their state.
type Snapshotter interface {
	XferSnapshot(x Xfer) error
}

// Save serializes s into a new byte slice.
func Save(s Snapshotter) ([]byte, error) {
	w := NewSaver(128)
	if err := s.XferSnapshot(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Load restores s from data.
func Load(s Snapshotter, data []byte) error {
	return s.XferSnapshot(NewLoader(data))
}
