package locomotor

import "github.com/udisondev/rtsloco/internal/model"

// rotateObjAroundLocoPivot turns obj toward target by at most rate. The turn
// happens around a point turnPivotOffset major radii ahead of the object
// (negative is behind), so the object's position swings with the turn.
func (l *Locomotor) rotateObjAroundLocoPivot(obj Object, body PhysicsBody, target model.Coord3D, rate float64) model.TurnType {
	before := obj.Orientation()
	pos := obj.Position()
	offset := l.template.turnPivotOffset * obj.MajorRadius()

	heading := before
	if pos.Distance2D(target) >= correctionEpsilon {
		if offset != 0 {
			pivot := pos.Add(forward(before).Scale(offset))
			heading = pivot.HeadingTo(target)
		} else {
			heading = pos.HeadingTo(target)
		}
	}

	turn, _ := turnTowards(obj, body, heading, rate)
	if turn == model.TurnNone || offset == 0 {
		return turn
	}

	after := obj.Orientation()
	pivot := pos.Add(forward(before).Scale(offset))
	moved := pivot.Sub(forward(after).Scale(offset))
	moved.Z = pos.Z
	obj.SetPosition(moved)
	return turn
}

// turnSign is +1 for positive turns, -1 for negative, 0 otherwise.
func turnSign(t model.TurnType) float64 {
	switch t {
	case model.TurnPositive:
		return 1
	case model.TurnNegative:
		return -1
	default:
		return 0
	}
}
