package locomotor

import "github.com/udisondev/rtsloco/internal/xfer"

// snapshotVersion 2 added the move frame.
const snapshotVersion uint8 = 2

// XferSnapshot saves or restores the runtime state. The template is not
// part of the snapshot; it is re-bound from data on load.
func (l *Locomotor) XferSnapshot(x xfer.Xfer) error {
	version := snapshotVersion
	if err := x.Version(&version, snapshotVersion); err != nil {
		return err
	}
	if version >= 2 {
		if err := x.Uint32(&l.moveFrame); err != nil {
			return err
		}
	}

	if err := x.Coord3D(&l.maintainPos); err != nil {
		return err
	}
	for _, v := range []*float64{
		&l.brakingFactor,
		&l.maxLift,
		&l.maxSpeed,
		&l.maxAccel,
		&l.maxBraking,
		&l.maxTurnRate,
		&l.closeEnoughDist,
	} {
		if err := x.Real(v); err != nil {
			return err
		}
	}

	flags := uint32(l.flags)
	if err := x.Uint32(&flags); err != nil {
		return err
	}
	l.flags = Flags(flags)

	for _, v := range []*float64{
		&l.preferredHeight,
		&l.preferredHeightDamping,
		&l.wanderAngle,
		&l.wanderLength,
	} {
		if err := x.Real(v); err != nil {
			return err
		}
	}
	return nil
}
