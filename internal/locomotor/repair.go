package locomotor

import (
	"log/slog"
	"math"

	"github.com/udisondev/rtsloco/internal/model"
)

const (
	repairRings      = 8
	repairRingPoints = 16
)

// fixInvalidPosition pushes an object standing on terrain its locomotor
// cannot use toward the nearest usable spot. Returns true while a repair is
// in progress; false when the position is fine or nothing usable is near.
func (l *Locomotor) fixInvalidPosition(obj Object, body PhysicsBody) bool {
	pos := obj.Position()
	layer := obj.Layer()
	surfaces := l.template.surfaces
	if l.svc.Pathfinder.ValidMovementTerrain(layer, surfaces, pos) {
		return false
	}

	step := math.Max(obj.MajorRadius(), 1)
	for ring := 1; ring <= repairRings; ring++ {
		r := step * float64(ring)
		for i := range repairRingPoints {
			a := 2 * math.Pi * float64(i) / repairRingPoints
			cand := model.Coord3D{X: pos.X + r*math.Cos(a), Y: pos.Y + r*math.Sin(a), Z: pos.Z}
			if !l.svc.Pathfinder.ValidMovementTerrain(layer, surfaces, cand) {
				continue
			}

			accel := l.MaxAcceleration(obj.DamageState())
			if accel <= 0 {
				accel = l.frameStep()
			}
			body.ScrubVelocity2D(0)
			dir := model.Coord3D{X: math.Cos(a), Y: math.Sin(a)}
			body.ApplyMotiveForce(dir.Scale(accel * body.Mass()))
			return true
		}
	}

	slog.Debug("no valid position near object",
		"template", l.template.name,
		"x", pos.X,
		"y", pos.Y)
	return false
}
