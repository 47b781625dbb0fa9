package model

import (
	"errors"
	"fmt"
)

// ErrUnknownDamageState is returned for a damage state spelling outside the known set.
var ErrUnknownDamageState = errors.New("unknown damage state")

// DamageState is the body damage severity of an object.
// Ordered: a higher value is more severe.
type DamageState int32

const (
	DamagePristine DamageState = iota
	DamageDamaged
	DamageReallyDamaged
	DamageRubble
)

var damageStateNames = [...]string{"PRISTINE", "DAMAGED", "REALLYDAMAGED", "RUBBLE"}

// String returns the data-file spelling of the damage state.
func (d DamageState) String() string {
	if d < 0 || int(d) >= len(damageStateNames) {
		return "UNKNOWN"
	}
	return damageStateNames[d]
}

// ParseDamageState resolves a data-file spelling ("REALLYDAMAGED") to a DamageState.
func ParseDamageState(s string) (DamageState, error) {
	for i, name := range damageStateNames {
		if name == s {
			return DamageState(i), nil
		}
	}
	return DamagePristine, fmt.Errorf("%q: %w", s, ErrUnknownDamageState)
}

// UnmarshalText lets DamageState be used directly in YAML config.
func (d *DamageState) UnmarshalText(text []byte) error {
	v, err := ParseDamageState(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalText is the inverse of UnmarshalText.
func (d DamageState) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
