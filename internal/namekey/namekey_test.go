package namekey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_NameToKey(t *testing.T) {
	g := NewGenerator()

	a := g.NameToKey("BasicHumanLocomotor")
	b := g.NameToKey("BasicTankLocomotor")

	assert.NotEqual(t, Invalid, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, g.NameToKey("BasicHumanLocomotor"), "keys are stable")
	assert.Equal(t, 2, g.Len())
}

func TestGenerator_EmptyName(t *testing.T) {
	g := NewGenerator()

	assert.Equal(t, Invalid, g.NameToKey(""))
	assert.Equal(t, 0, g.Len())
}

func TestGenerator_KeyToName(t *testing.T) {
	g := NewGenerator()
	k := g.NameToKey("Jet")

	assert.Equal(t, "Jet", g.KeyToName(k))
	assert.Equal(t, "", g.KeyToName(Key(99)))
	assert.Equal(t, "", g.KeyToName(Invalid))
}

func TestGenerator_Lookup(t *testing.T) {
	g := NewGenerator()

	_, ok := g.Lookup("Missing")
	assert.False(t, ok)
	assert.Equal(t, 0, g.Len(), "Lookup does not intern")

	k := g.NameToKey("Present")
	got, ok := g.Lookup("Present")
	assert.True(t, ok)
	assert.Equal(t, k, got)
}
