package model

// GameObject is a mobile simulation object: the owner of a locomotor and a physics body.
//
// Not safe for concurrent use: objects are touched only by the simulation goroutine.
type GameObject struct {
	objectID    uint32
	name        string
	position    Coord3D
	orientation float64 // radians, 0 = +X

	status     ObjectStatus
	kind       KindOf
	damage     DamageState
	layer      Layer
	conditions ModelCondition

	deckHeight  float64
	majorRadius float64

	body PhysicsBody
}

// NewGameObject creates a new object placed on the ground layer.
func NewGameObject(objectID uint32, name string, pos Coord3D, kind KindOf) *GameObject {
	return &GameObject{
		objectID:    objectID,
		name:        name,
		position:    pos,
		kind:        kind,
		layer:       LayerGround,
		majorRadius: 1,
	}
}

// ObjectID returns the unique object ID (immutable after creation).
func (o *GameObject) ObjectID() uint32 { return o.objectID }

// Name returns the object name.
func (o *GameObject) Name() string { return o.name }

// Position returns a copy of the object position.
func (o *GameObject) Position() Coord3D { return o.position }

// SetPosition moves the object.
func (o *GameObject) SetPosition(pos Coord3D) { o.position = pos }

// Orientation returns the XY heading in radians.
func (o *GameObject) Orientation() float64 { return o.orientation }

// SetOrientation sets the XY heading, wrapped into (-pi, pi].
func (o *GameObject) SetOrientation(angle float64) { o.orientation = NormalizeAngle(angle) }

// Physics returns the physics body, or nil if the object has none.
func (o *GameObject) Physics() PhysicsBody { return o.body }

// SetPhysics attaches a physics body.
func (o *GameObject) SetPhysics(body PhysicsBody) { o.body = body }

// DamageState returns the current body damage state.
func (o *GameObject) DamageState() DamageState { return o.damage }

// SetDamageState changes the body damage state.
func (o *GameObject) SetDamageState(d DamageState) { o.damage = d }

// Layer returns the pathfinding layer the object is on.
func (o *GameObject) Layer() Layer { return o.layer }

// SetLayer places the object on a layer.
func (o *GameObject) SetLayer(l Layer) { o.layer = l }

// TestStatus reports whether all bits in s are set.
func (o *GameObject) TestStatus(s ObjectStatus) bool { return o.status&s == s }

// SetStatus sets or clears the bits in s.
func (o *GameObject) SetStatus(s ObjectStatus, on bool) {
	if on {
		o.status |= s
	} else {
		o.status &^= s
	}
}

// IsKindOf reports whether the object is classified as k.
func (o *GameObject) IsKindOf(k KindOf) bool { return o.kind&k != 0 }

// CarrierDeckHeight is the deck height used when StatusDeckHeightOffset is set.
func (o *GameObject) CarrierDeckHeight() float64 { return o.deckHeight }

// SetCarrierDeckHeight sets the deck height.
func (o *GameObject) SetCarrierDeckHeight(h float64) { o.deckHeight = h }

// MajorRadius is the geometry radius used for pivot offsets.
func (o *GameObject) MajorRadius() float64 { return o.majorRadius }

// SetMajorRadius sets the geometry radius.
func (o *GameObject) SetMajorRadius(r float64) { o.majorRadius = r }

// SetModelCondition sets a visual model condition.
func (o *GameObject) SetModelCondition(c ModelCondition) { o.conditions |= c }

// ClearModelCondition clears a visual model condition.
func (o *GameObject) ClearModelCondition(c ModelCondition) { o.conditions &^= c }

// HasModelCondition reports whether all bits in c are set.
func (o *GameObject) HasModelCondition(c ModelCondition) bool { return o.conditions&c == c }
